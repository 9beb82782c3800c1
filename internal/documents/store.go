// Package documents stores batch reference files. Keys are opaque,
// slash-separated object names.
package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	DriverFilesystem = "fs"
	DriverS3         = "s3"
)

var (
	ErrExists   = errors.New("document already exists")
	ErrNotFound = errors.New("document not found")
)

type Info struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

type Store interface {
	Driver() string
	// Put is create-only: an existing key fails with ErrExists.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ReferenceKey is the object key of a reference document of a batch.
func ReferenceKey(batchID int, token, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "document"
	}
	return fmt.Sprintf("batches/%d/%s-%s", batchID, token, name)
}

// sanitizeKey rejects keys that could escape the store root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	clean := path.Clean(key)
	if clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key traversal %q", key)
	}
	return clean, nil
}
