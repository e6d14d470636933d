package firebase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/anonto42/chirp/backend/internal/media"
	"github.com/google/uuid"
)

const publicHost = "https://storage.googleapis.com/"

// MediaStore keeps uploaded images in a Cloud Storage bucket and hands out
// their public URLs
type MediaStore struct {
	bucket *gcs.BucketHandle
	name   string
}

func NewMediaStore(bucket *gcs.BucketHandle, name string) *MediaStore {
	return &MediaStore{bucket: bucket, name: name}
}

// Upload stores a data URL image under folder and returns its public URL
func (s *MediaStore) Upload(ctx context.Context, payload, folder string) (string, error) {
	img, err := media.DecodeDataURL(payload)
	if err != nil {
		return "", err
	}

	object := path.Join(folder, uuid.NewString()+img.Extension)
	w := s.bucket.Object(object).NewWriter(ctx)
	w.ContentType = img.ContentType
	w.CacheControl = "public, max-age=31536000"

	if _, err := w.Write(img.Data); err != nil {
		w.Close()
		return "", fmt.Errorf("writing %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", object, err)
	}
	return s.objectURL(object), nil
}

// Release deletes the object behind url. URLs that do not point into the
// bucket and objects that are already gone are ignored.
func (s *MediaStore) Release(ctx context.Context, url string) error {
	object, ok := s.objectName(url)
	if !ok {
		return nil
	}
	err := s.bucket.Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("deleting %s: %w", object, err)
	}
	return nil
}

func (s *MediaStore) objectURL(object string) string {
	return publicHost + s.name + "/" + object
}

func (s *MediaStore) objectName(url string) (string, bool) {
	object, ok := strings.CutPrefix(url, publicHost+s.name+"/")
	if !ok || object == "" {
		return "", false
	}
	return object, true
}
