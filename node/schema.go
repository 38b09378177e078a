// Copyright (C) 2017 ScyllaDB

package node

import (
	_ "embed"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	kingssh "github.com/TheJamesKing/n8n-nodes-kingssh"
)

//go:embed schema.yaml
var schemaYAML []byte

// Schema declares the parameters the node accepts: resources with their
// operations and fields with visibility conditions. It's rendered by the
// orchestrator, here it's only used to validate and default work items.
type Schema struct {
	Name        string         `yaml:"name"`
	DisplayName string         `yaml:"displayName"`
	Description string         `yaml:"description"`
	Credentials CredentialSpec `yaml:"credentials"`
	Resources   []ResourceSpec `yaml:"resources"`
	Fields      []Field        `yaml:"fields"`
}

// CredentialSpec declares the credential fields.
type CredentialSpec struct {
	Name        string  `yaml:"name"`
	DisplayName string  `yaml:"displayName"`
	Fields      []Field `yaml:"fields"`
}

// ResourceSpec declares a resource and the operations valid for it.
type ResourceSpec struct {
	Name        string          `yaml:"name"`
	DisplayName string          `yaml:"displayName"`
	Operations  []OperationSpec `yaml:"operations"`
}

// OperationSpec declares a single operation.
type OperationSpec struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName"`
	Description string `yaml:"description"`
}

// Option is a value of an options field.
type Option struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Field declares a single parameter.
type Field struct {
	Name        string      `yaml:"name"`
	DisplayName string      `yaml:"displayName"`
	Type        string      `yaml:"type"`
	Default     interface{} `yaml:"default,omitempty"`
	Placeholder string      `yaml:"placeholder,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Required    bool        `yaml:"required,omitempty"`
	Secret      bool        `yaml:"secret,omitempty"`
	Options     []Option    `yaml:"options,omitempty"`
	// Show lists parameter values for which the field is visible, all
	// conditions must hold.
	Show map[string][]string `yaml:"show,omitempty"`
}

// Visible reports whether the field is shown for the given parameters.
func (f Field) Visible(params map[string]string) bool {
	for name, values := range f.Show {
		if !contains(values, params[name]) {
			return false
		}
	}
	return true
}

var defaultSchema = mustLoadSchema(schemaYAML)

// DefaultSchema returns the SSH node parameter schema.
func DefaultSchema() *Schema {
	return defaultSchema
}

// LoadSchema parses a YAML encoded schema.
func LoadSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parse schema")
	}
	if len(s.Resources) == 0 {
		return nil, errors.New("parse schema: no resources")
	}
	for _, r := range s.Resources {
		if len(r.Operations) == 0 {
			return nil, errors.Errorf("parse schema: resource %q has no operations", r.Name)
		}
	}
	return &s, nil
}

func mustLoadSchema(data []byte) *Schema {
	s, err := LoadSchema(data)
	if err != nil {
		panic(err)
	}
	return s
}

// Marshal returns the YAML encoding of the schema.
func (s *Schema) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s *Schema) resource(name string) (ResourceSpec, bool) {
	for _, r := range s.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return ResourceSpec{}, false
}

// Operations returns names of operations valid for the resource.
func (s *Schema) Operations(resource string) ([]string, bool) {
	r, ok := s.resource(resource)
	if !ok {
		return nil, false
	}
	names := make([]string, len(r.Operations))
	for i, op := range r.Operations {
		names[i] = op.Name
	}
	return names, true
}

// DefaultOperation returns the first operation of the resource.
func (s *Schema) DefaultOperation(resource string) string {
	ops, ok := s.Operations(resource)
	if !ok {
		return ""
	}
	return ops[0]
}

// Validate returns a ValidationError if operation is not supported for
// resource.
func (s *Schema) Validate(resource, operation string) error {
	ops, ok := s.Operations(resource)
	if !ok {
		return kingssh.ValidationErrorf("The resource %q is not supported!", resource)
	}
	if !contains(ops, operation) {
		return kingssh.ValidationErrorf("The operation %q is not supported for resource %q!", operation, resource)
	}
	return nil
}

// VisibleFields returns fields shown for the resource and operation.
func (s *Schema) VisibleFields(resource, operation string) []Field {
	params := map[string]string{
		"resource":  resource,
		"operation": operation,
	}
	var out []Field
	for _, f := range s.Fields {
		if f.Name == "resource" || f.Name == "operation" {
			continue
		}
		if f.Visible(params) {
			out = append(out, f)
		}
	}
	return out
}

// Default returns the default value of the first field with the name.
func (s *Schema) Default(name string) interface{} {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Default
		}
	}
	return nil
}

// DefaultString is like Default but formats the value as string.
func (s *Schema) DefaultString(name string) string {
	v := s.Default(name)
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
