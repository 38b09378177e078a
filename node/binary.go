// Copyright (C) 2017 ScyllaDB

package node

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

// BinaryData is a file attached to an item. Data is base64 encoded in JSON.
type BinaryData struct {
	Data          []byte `json:"data"`
	MimeType      string `json:"mimeType"`
	FileName      string `json:"fileName,omitempty"`
	FileExtension string `json:"fileExtension,omitempty"`
	FileSize      int    `json:"fileSize"`
}

// NewBinaryData wraps data, the mime type is inferred from the file
// extension and, failing that, from the content.
func NewBinaryData(data []byte, fileName string) *BinaryData {
	ext := path.Ext(fileName)
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return &BinaryData{
		Data:          data,
		MimeType:      mimeType,
		FileName:      fileName,
		FileExtension: strings.TrimPrefix(ext, "."),
		FileSize:      len(data),
	}
}
