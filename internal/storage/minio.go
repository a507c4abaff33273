package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioIssuer implements Issuer against a MinIO (or any S3-compatible)
// backend using presigned POST policies. To switch providers, change the
// endpoint and credentials — no code changes are needed.
type MinioIssuer struct {
	client *minio.Client
	bucket string
}

// NewMinioIssuer creates a MinIO client, ensures the bucket exists, and
// returns a ready-to-use issuer.
func NewMinioIssuer(endpoint, accessKey, secretKey, region, bucket string, useSSL bool) (*MinioIssuer, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	return &MinioIssuer{client: client, bucket: bucket}, nil
}

// IssueGrant signs a presigned POST policy scoped to key. The policy carries
// a content-length-range condition of 0..maxSizeBytes and expires ttl after
// issuance. No state is kept; a grant that is never used simply lapses.
func (s *MinioIssuer) IssueGrant(ctx context.Context, key string, maxSizeBytes int64, ttl time.Duration) (*Grant, error) {
	if key == "" {
		return nil, fmt.Errorf("issue grant: storage key must not be empty")
	}
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	if ttl <= 0 {
		ttl = DefaultGrantTTL
	}

	expiresAt := time.Now().Add(ttl)

	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(s.bucket); err != nil {
		return nil, fmt.Errorf("issue grant: set bucket: %w", err)
	}
	if err := policy.SetKey(key); err != nil {
		return nil, fmt.Errorf("issue grant: set key: %w", err)
	}
	if err := policy.SetExpires(expiresAt.UTC()); err != nil {
		return nil, fmt.Errorf("issue grant: set expiry: %w", err)
	}
	if err := policy.SetContentLengthRange(0, maxSizeBytes); err != nil {
		return nil, fmt.Errorf("issue grant: set length range: %w", err)
	}

	u, fields, err := s.client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return nil, fmt.Errorf("%w: presign post for %q: %v", ErrBackendUnavailable, key, err)
	}

	return &Grant{
		Key:          key,
		URL:          u.String(),
		Fields:       fields,
		MaxSizeBytes: maxSizeBytes,
		ExpiresAt:    expiresAt,
	}, nil
}
