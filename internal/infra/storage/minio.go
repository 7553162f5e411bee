package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bryanwahyu/chatlens/internal/infra/textenc"
)

// maxObjectBytes caps how much of an export object is read.
const maxObjectBytes = 32 << 20

// Store reads the pre-loaded chat export from a MinIO / S3 bucket.
type Store struct {
	client     *minio.Client
	bucketName string
	objectKey  string
}

// New buat koneksi MinIO dan pastikan bucket ada
func New(ctx context.Context, endpoint, region, bucket, object, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", bucket)
	}

	return &Store{client: cli, bucketName: bucket, objectKey: object}, nil
}

func (s *Store) Name() string {
	return fmt.Sprintf("minio:%s/%s", s.bucketName, s.objectKey)
}

// Load implementasi chat.Source: download object lalu decode
func (s *Store) Load(ctx context.Context) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, s.objectKey, minio.GetObjectOptions{})
	if err != nil {
		return "", err
	}
	defer obj.Close()

	b, err := io.ReadAll(io.LimitReader(obj, maxObjectBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) > maxObjectBytes {
		return "", fmt.Errorf("object %s exceeds %d bytes", s.objectKey, maxObjectBytes)
	}

	text, enc, err := textenc.Decode(b)
	if err != nil {
		return "", fmt.Errorf("object %s: %w", s.objectKey, err)
	}
	slog.Debug("chat object loaded", "bucket", s.bucketName, "key", s.objectKey, "bytes", len(b), "encoding", enc)
	return text, nil
}

// Check implements the health checker used by /healthz.
func (s *Store) Check(ctx context.Context) error {
	_, err := s.client.StatObject(ctx, s.bucketName, s.objectKey, minio.StatObjectOptions{})
	return err
}

// Upload puts a local export into the bucket under the configured key.
// Used by the CLI to seed the legacy endpoint.
func (s *Store) Upload(ctx context.Context, localPath string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.bucketName, s.objectKey, localPath, minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucketName, s.objectKey)
	return url, nil
}
