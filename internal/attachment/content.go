package attachment

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/haitaton/hanke-service/config"
)

// ContentStore keeps attachment files in an S3 compatible bucket.
type ContentStore struct {
	client *minio.Client
	bucket string
}

func NewContentStore(cfg *config.StorageConfig) (*ContentStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &ContentStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *ContentStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *ContentStore) Put(ctx context.Context, applicationID int64, id uuid.UUID, contentType string, content []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(applicationID, id), bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("store attachment %s: %w", id, err)
	}
	return nil
}

func (s *ContentStore) Get(ctx context.Context, applicationID int64, id uuid.UUID) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(applicationID, id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("load attachment %s: %w", id, err)
	}
	defer obj.Close()

	content, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("read attachment %s: %w", id, err)
	}
	return content, nil
}

func (s *ContentStore) Delete(ctx context.Context, applicationID int64, id uuid.UUID) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey(applicationID, id), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove attachment %s: %w", id, err)
	}
	return nil
}

func objectKey(applicationID int64, id uuid.UUID) string {
	return fmt.Sprintf("hakemus/%d/%s", applicationID, id)
}
