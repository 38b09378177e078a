// Copyright (C) 2017 ScyllaDB

package node

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchemaOperations(t *testing.T) {
	s := DefaultSchema()

	ops, ok := s.Operations(ResourceCommand)
	require.True(t, ok)
	assert.Equal(t, []string{OperationExecute}, ops)

	ops, ok = s.Operations(ResourceFile)
	require.True(t, ok)
	assert.Equal(t, []string{OperationDownload, OperationUpload}, ops)

	_, ok = s.Operations("nope")
	assert.False(t, ok)

	assert.Equal(t, OperationExecute, s.DefaultOperation(ResourceCommand))
	assert.Equal(t, OperationDownload, s.DefaultOperation(ResourceFile))
	assert.Equal(t, ResourceCommand, s.DefaultString("resource"))
	assert.Equal(t, "data", s.DefaultString("binaryPropertyName"))
	assert.Equal(t, "", s.DefaultString("remotePath"))
}

func TestSchemaValidate(t *testing.T) {
	s := DefaultSchema()

	assert.NoError(t, s.Validate(ResourceCommand, OperationExecute))
	assert.NoError(t, s.Validate(ResourceFile, OperationDownload))
	assert.NoError(t, s.Validate(ResourceFile, OperationUpload))
	assert.Error(t, s.Validate(ResourceCommand, OperationUpload))
	assert.Error(t, s.Validate(ResourceFile, OperationExecute))
	assert.Error(t, s.Validate("", ""))
}

func TestSchemaVisibleFields(t *testing.T) {
	s := DefaultSchema()

	names := func(fields []Field) []string {
		var out []string
		for _, f := range fields {
			out = append(out, f.Name)
		}
		return out
	}

	table := []struct {
		Resource  string
		Operation string
		Fields    []string
	}{
		{ResourceCommand, OperationExecute, []string{"command"}},
		{ResourceFile, OperationDownload, []string{"remotePath", "localPath", "binaryPropertyName"}},
		{ResourceFile, OperationUpload, []string{"remotePath", "localPath", "binaryPropertyName"}},
	}
	for _, test := range table {
		got := names(s.VisibleFields(test.Resource, test.Operation))
		if diff := cmp.Diff(test.Fields, got); diff != "" {
			t.Errorf("%s/%s: %s", test.Resource, test.Operation, diff)
		}
	}
}

func TestSchemaCredentialFields(t *testing.T) {
	s := DefaultSchema()

	visible := func(authType string) []string {
		var out []string
		for _, f := range s.Credentials.Fields {
			if f.Visible(map[string]string{"authenticationType": authType}) {
				out = append(out, f.Name)
			}
		}
		return out
	}

	assert.Equal(t, []string{"authenticationType", "host", "port", "username", "password"}, visible("password"))
	assert.Equal(t, []string{"authenticationType", "host", "port", "username", "privateKey", "passphrase"}, visible("sshKey"))
}

func TestLoadSchemaErrors(t *testing.T) {
	_, err := LoadSchema([]byte("name: x\n"))
	assert.EqualError(t, err, "parse schema: no resources")

	_, err = LoadSchema([]byte("resources:\n  - name: r\n"))
	assert.EqualError(t, err, `parse schema: resource "r" has no operations`)

	_, err = LoadSchema([]byte("resources: ["))
	assert.Error(t, err)
}

func TestSchemaMarshalRoundTrip(t *testing.T) {
	b, err := DefaultSchema().Marshal()
	require.NoError(t, err)

	s, err := LoadSchema(b)
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultSchema(), s); diff != "" {
		t.Fatal(diff)
	}
}
