package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/home-digital/cloudee/internal/metrics"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchivedObject describes a file copied into the archive bucket
type ArchivedObject struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
	ETag   string `json:"etag"`
}

// ArchiveClient is an interface for the S3-compatible store receiving copies
// of remote files
type ArchiveClient interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (ArchivedObject, error)
}

// MinioObjectStore is the subset of *minio.Client used by archiveClient
type MinioObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type archiveClient struct {
	store  MinioObjectStore
	bucket string
}

// shouldUseSSL determines if SSL should be used based on the endpoint.
// Returns false for localhost, 127.0.0.1, and docker service names.
func shouldUseSSL(endpoint string) bool {
	// Local development endpoints
	if endpoint == "localhost:9000" || endpoint == "127.0.0.1:9000" {
		return false
	}
	// Docker service names (minio:9000, minio1:9000, minio2:9000, etc.)
	// Only match simple hostnames without dots (not domain names like minio.example.com)
	if strings.HasPrefix(endpoint, "minio") && !strings.Contains(strings.Split(endpoint, ":")[0], ".") && strings.Contains(endpoint, ":9000") {
		return false
	}
	return true
}

func newArchiveClient(endpoint, accessKey, secretKey, bucket string) (*archiveClient, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: shouldUseSSL(endpoint),
	})
	if err != nil {
		return nil, err
	}
	return &archiveClient{store: client, bucket: bucket}, nil
}

func (c *archiveClient) EnsureBucket(ctx context.Context) error {
	start := time.Now()
	err := c.ensureBucket(ctx)
	metrics.RecordRemoteCall("archive", "ensure_bucket", time.Since(start), err)
	return err
}

func (c *archiveClient) ensureBucket(ctx context.Context) error {
	exists, err := c.store.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("archive bucket %q: %w: %v", c.bucket, ErrRemoteUnavailable, err)
	}
	if exists {
		return nil
	}
	if err := c.store.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create archive bucket %q: %w", c.bucket, err)
	}
	return nil
}

// Put streams reader into the bucket. A negative size uploads in parts.
func (c *archiveClient) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (ArchivedObject, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	start := time.Now()
	info, err := c.store.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	metrics.RecordRemoteCall("archive", "put", time.Since(start), err)
	if err != nil {
		return ArchivedObject{}, fmt.Errorf("archive %q: %w", key, err)
	}

	return ArchivedObject{
		Bucket: info.Bucket,
		Key:    info.Key,
		Size:   info.Size,
		ETag:   info.ETag,
	}, nil
}
