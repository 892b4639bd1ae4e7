package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSStore keeps pictures in a Google Cloud Storage bucket. Stored paths
// are the public object URLs.
type GCSStore struct {
	client  *storage.Client
	bucket  *storage.BucketHandle
	baseURL string
}

func NewGCSStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket name is required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStore{
		client:  client,
		bucket:  client.Bucket(bucket),
		baseURL: gcsPublicHost + "/" + bucket,
	}, nil
}

func (s *GCSStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	key := path.Join(Dir, storedName(filename))

	// cancelling the writer's context abandons a partial upload
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = mime.TypeByExtension(path.Ext(key))
	if _, err := io.Copy(w, content); err != nil {
		cancel()
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes the object behind a stored URL. A missing object is not an error.
func (s *GCSStore) Delete(ctx context.Context, stored string) error {
	key, err := s.objectKey(stored)
	if err != nil {
		return err
	}
	err = s.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

func (s *GCSStore) objectKey(stored string) (string, error) {
	rest, ok := strings.CutPrefix(stored, s.baseURL)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, stored)
	}
	return relPath(rest)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
