// Package portraits resolves candidate portrait references to URLs a
// browser or terminal can open, and stores uploaded portraits.
package portraits

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gravadigital/election-portal/internal/config"
	"github.com/gravadigital/election-portal/internal/logger"
)

var ErrUploadsDisabled = errors.New("portrait uploads require object storage")

// Store turns portrait references into URLs and accepts new portraits.
type Store interface {
	URL(ctx context.Context, ref string) (string, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// New picks the store the configuration asks for: object storage when
// credentials are set, a public base URL otherwise, else references are
// passed through untouched.
func New(cfg *config.Config) (Store, error) {
	if cfg.StorageEnabled() {
		return NewObjectStore(cfg)
	}
	return &PublicStore{BaseURL: cfg.Storage.PublicBaseURL}, nil
}

// ObjectStore keeps portraits in an S3 compatible bucket and hands out
// presigned GET URLs.
type ObjectStore struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
	log    *log.Logger
}

// NewObjectStore builds the minio client. The region is fixed up front so
// presigning needs no bucket location round trip.
func NewObjectStore(cfg *config.Config) (*ObjectStore, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey, ""),
		Secure: cfg.Storage.UseSSL,
		Region: cfg.Storage.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	ttl := cfg.Storage.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.Storage.Bucket,
		ttl:    ttl,
		log:    logger.Service("portraits"),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.log.Info("Created portrait bucket", "bucket", s.bucket)
	return nil
}

func (s *ObjectStore) URL(ctx context.Context, ref string) (string, error) {
	if ref == "" || isAbsolute(ref) {
		return ref, nil
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, strings.TrimPrefix(ref, "/"), s.ttl, url.Values{})
	if err != nil {
		s.log.Error("Failed to presign portrait", "ref", ref, "error", err)
		return "", fmt.Errorf("failed to presign portrait %s: %w", ref, err)
	}
	return u.String(), nil
}

func (s *ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.log.Error("Failed to store portrait", "key", key, "error", err)
		return fmt.Errorf("failed to store portrait %s: %w", key, err)
	}
	s.log.Info("Stored portrait", "key", key, "size", info.Size)
	return nil
}

// PublicStore serves portraits from a static base URL. Without a base URL
// references are returned as they are.
type PublicStore struct {
	BaseURL string
}

func (s *PublicStore) URL(_ context.Context, ref string) (string, error) {
	if ref == "" || isAbsolute(ref) || s.BaseURL == "" {
		return ref, nil
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(ref, "/"), nil
}

func (s *PublicStore) Put(context.Context, string, io.Reader, int64, string) error {
	return ErrUploadsDisabled
}

func isAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
