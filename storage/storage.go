// Package storage keeps uploaded files in an object store.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var ErrObjectNotFound = errors.New("object not found")

// BlobStore is implemented by the Firebase bucket, MinIO and in-memory
// drivers.
type BlobStore interface {
	// Upload writes r to objectPath and returns a URL clients can download
	// it from. size may be -1 when unknown.
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// ObjectPath builds "<collection>/<unix millis>_<file name>".
func ObjectPath(collection, fileName string, now time.Time) string {
	return fmt.Sprintf("%s/%d_%s", collection, now.UnixMilli(), cleanName(fileName))
}

func cleanName(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "file"
	}
	return name
}

// Sniff detects the content type from the first bytes of r. The returned
// reader yields the full content, including the sniffed prefix.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	return mimetype.Detect(head).String(), io.MultiReader(bytes.NewReader(head), r), nil
}
