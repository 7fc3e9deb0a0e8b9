package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indieprop/homestead/config"
	"github.com/indieprop/homestead/storage/media"
)

type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
	return minio.New(endpoint, opts)
}

// StoreImpl uploads media to S3 or any compatible service (R2, Backblaze, MinIO).
type StoreImpl struct {
	client         s3Client
	bucket         string
	publicBase     string
	forcePathStyle bool
	endpointHost   string
	secure         bool
	region         string
}

func NewS3MediaStore(cfg *config.Media) (*StoreImpl, error) {
	if cfg == nil || cfg.S3 == nil {
		return nil, &media.StorageError{Op: "configure", Err: fmt.Errorf("s3 media config is nil")}
	}

	s3cfg := cfg.S3
	region := strings.TrimSpace(s3cfg.Region)
	if strings.EqualFold(region, "auto") {
		region = ""
	}

	endpointHost := strings.TrimSpace(s3cfg.Endpoint)
	if endpointHost == "" {
		if region == "" {
			endpointHost = "s3.amazonaws.com"
		} else {
			endpointHost = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else {
		if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
			endpointHost = parsed.Host
		}
	}

	lookup := minio.BucketLookupAuto
	if s3cfg.ForcePathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := newMinioClient(endpointHost, &minio.Options{
		Creds:        credentials.NewStaticV4(s3cfg.AccessKeyId, s3cfg.SecretKeyId, ""),
		Secure:       true,
		Region:       region,
		BucketLookup: lookup,
	})

	if err != nil {
		return nil, &media.StorageError{Op: "configure", Err: fmt.Errorf("failed to create s3 client: %w", err)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, s3cfg.Bucket)
	if err != nil {
		return nil, &media.StorageError{Op: "configure", Err: fmt.Errorf("failed to verify s3 bucket %q: %w", s3cfg.Bucket, err)}
	}

	if !exists {
		return nil, &media.StorageError{Op: "configure", Err: fmt.Errorf("s3 bucket %q does not exist or is not accessible", s3cfg.Bucket)}
	}

	return &StoreImpl{
		client:         client,
		bucket:         s3cfg.Bucket,
		publicBase:     strings.TrimSuffix(s3cfg.PublicBaseUrl, "/"),
		forcePathStyle: s3cfg.ForcePathStyle,
		endpointHost:   endpointHost,
		secure:         true,
		region:         region,
	}, nil
}

// Put writes one object under key and returns its public URL. The object is
// marked public-read so the returned URL is retrievable without credentials.
// The URL is computed from (bucket, endpoint, key); the store's response only
// confirms success.
func (s *StoreImpl) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", &media.StorageError{Op: "put", Err: fmt.Errorf("object key is required")}
	}

	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	}

	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return "", &media.StorageError{Op: "put", Err: fmt.Errorf("upload of %q to s3 failed: %w", key, err)}
	}

	return s.objectURL(key), nil
}

func (s *StoreImpl) Delete(ctx context.Context, urlStr string) error {
	key, err := s.keyFromURL(urlStr)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return &media.StorageError{Op: "delete", Err: fmt.Errorf("delete of %q from s3 failed: %w", key, err)}
	}

	return nil
}

func (s *StoreImpl) objectURL(key string) string {
	if s.publicBase != "" {
		return fmt.Sprintf("%s/%s", s.publicBase, key)
	}

	scheme := "https"
	if !s.secure {
		scheme = "http"
	}

	if s.forcePathStyle {
		return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpointHost, s.bucket, key)
	}

	return fmt.Sprintf("%s://%s.%s/%s", scheme, s.bucket, s.endpointHost, key)
}

func (s *StoreImpl) keyFromURL(urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", &media.StorageError{Op: "delete", Err: fmt.Errorf("invalid media url %q: %w", urlStr, err)}
	}

	key := strings.TrimPrefix(parsed.Path, "/")

	if s.publicBase != "" {
		if base, err := url.Parse(s.publicBase); err == nil && base.Path != "" {
			key = strings.TrimPrefix(key, strings.TrimPrefix(base.Path, "/")+"/")
		}

		return key, nil
	}

	if strings.HasPrefix(parsed.Host, s.bucket+".") {
		return key, nil
	}

	return strings.TrimPrefix(key, s.bucket+"/"), nil
}
