package archive

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/foxseedlab/kasirsuara/internal/archive"
)

const uploadTimeout = 2 * time.Minute

type GCSArchiver struct {
	client *storage.Client
	bucket string
}

func NewGCSArchiver(client *storage.Client, bucket string) *GCSArchiver {
	return &GCSArchiver{client: client, bucket: bucket}
}

func (a *GCSArchiver) StoreAudio(ctx context.Context, key string, audio []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "audio/webm"
	if _, err := w.Write(audio); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write audio to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return gcsURI(a.bucket, key), nil
}

func (a *GCSArchiver) Close() error {
	return a.client.Close()
}

func gcsURI(bucket, key string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, key)
}

// NopArchiver is used when no bucket is configured.
type NopArchiver struct{}

func (NopArchiver) StoreAudio(context.Context, string, []byte) (string, error) {
	return "", nil
}

var (
	_ archive.AudioArchiver = (*GCSArchiver)(nil)
	_ archive.AudioArchiver = NopArchiver{}
)
