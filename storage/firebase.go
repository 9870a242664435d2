package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// FirebaseBucket stores objects in the project's Firebase Storage bucket and
// hands out token download URLs the same way the Firebase web SDK does.
type FirebaseBucket struct {
	bucket *gcs.BucketHandle
	name   string
}

func NewFirebaseBucket(bucket *gcs.BucketHandle, name string) *FirebaseBucket {
	return &FirebaseBucket{bucket: bucket, name: name}
}

func (b *FirebaseBucket) Upload(ctx context.Context, objectPath, contentType string, r io.Reader, _ int64) (string, error) {
	token := uuid.New().String()

	w := b.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", objectPath, err)
	}
	return b.downloadURL(objectPath, token), nil
}

func (b *FirebaseBucket) Delete(ctx context.Context, objectPath string) error {
	err := b.bucket.Object(objectPath).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	return err
}

func (b *FirebaseBucket) downloadURL(objectPath, token string) string {
	escaped := strings.ReplaceAll(url.PathEscape(objectPath), "/", "%2F")
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s", b.name, escaped, token)
}
