package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"bloghub/pkg/helpers"
)

// GCSStore uploads cover images to a Google Cloud Storage bucket.
// The object path doubles as the storage id kept on the post.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) Upload(ctx context.Context, ownerID, filename, contentType string, r io.Reader) (storageID, url string, err error) {
	if s.client == nil || s.bucket == "" {
		return "", "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("covers", ownerID, uuid.NewString()+ext))
	url, err = helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, r)
	if err != nil {
		return "", "", err
	}
	return objectPath, url, nil
}
