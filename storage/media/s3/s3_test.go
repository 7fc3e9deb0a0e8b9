package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/indieprop/homestead/config"
	"github.com/indieprop/homestead/storage/media"
)

type stubS3Client struct {
	bucketExists bool
	bucketErr    error
	putCalled    int
	lastPutKey   string
	lastPutOpts  minio.PutObjectOptions
	putErr       error
	removeCalled bool
	lastRemove   string
	removeErr    error
}

func (c *stubS3Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return c.bucketExists, c.bucketErr
}

func (c *stubS3Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	c.putCalled++
	c.lastPutKey = objectName
	c.lastPutOpts = opts
	if c.putErr != nil {
		return minio.UploadInfo{}, c.putErr
	}
	return minio.UploadInfo{}, nil
}

func (c *stubS3Client) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	c.removeCalled = true
	c.lastRemove = objectName
	return c.removeErr
}

func withStubClient(t *testing.T, stub *stubS3Client) {
	t.Helper()

	prev := newMinioClient
	newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
		return stub, nil
	}

	t.Cleanup(func() { newMinioClient = prev })
}

func baseMediaConfig() *config.Media {
	return &config.Media{
		Strategy: "s3",
		S3: &config.S3MediaStrategy{
			AccessKeyId: "key",
			SecretKeyId: "secret",
			Region:      "eu-west-2",
			Bucket:      "homestead-media",
		},
	}
}

func TestStoreImpl_objectURL(t *testing.T) {
	store := &StoreImpl{bucket: "bucket", endpointHost: "s3.example.com", secure: true}

	if got := store.objectURL("path/to/key"); got != "https://bucket.s3.example.com/path/to/key" {
		t.Fatalf("unexpected virtual-host url: %s", got)
	}

	store.forcePathStyle = true
	if got := store.objectURL("path/to/key"); got != "https://s3.example.com/bucket/path/to/key" {
		t.Fatalf("unexpected path-style url: %s", got)
	}

	store.publicBase = "https://cdn.example.com/media"
	if got := store.objectURL("path/to/key"); got != "https://cdn.example.com/media/path/to/key" {
		t.Fatalf("unexpected public url: %s", got)
	}
}

func TestStoreImpl_keyFromURL(t *testing.T) {
	store := &StoreImpl{bucket: "bucket"}

	cases := []struct {
		name   string
		url    string
		expect string
	}{
		{"virtual host", "https://bucket.s3.example.com/path/to/key", "path/to/key"},
		{"path style", "https://s3.example.com/bucket/path/to/key", "path/to/key"},
	}

	for _, tc := range cases {
		got, err := store.keyFromURL(tc.url)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.expect {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expect, got)
		}
	}
}

func TestNewS3MediaStore_NilConfig(t *testing.T) {
	_, err := NewS3MediaStore(nil)

	var serr *media.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *media.StorageError, got %v", err)
	}
}

func TestNewS3MediaStore_MissingBucket(t *testing.T) {
	stub := &stubS3Client{bucketExists: false}
	withStubClient(t, stub)

	_, err := NewS3MediaStore(baseMediaConfig())

	var serr *media.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *media.StorageError for missing bucket, got %v", err)
	}
}

func TestPut_ComputesURLAndMarksPublic(t *testing.T) {
	stub := &stubS3Client{bucketExists: true}
	withStubClient(t, stub)

	store, err := NewS3MediaStore(baseMediaConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url, err := store.Put(context.Background(), "listings/id/photos/0", []byte("AAA"), "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.putCalled != 1 || stub.lastPutKey != "listings/id/photos/0" {
		t.Fatalf("unexpected put call: %d %q", stub.putCalled, stub.lastPutKey)
	}

	if stub.lastPutOpts.ContentType != "image/jpeg" {
		t.Fatalf("content type not forwarded: %q", stub.lastPutOpts.ContentType)
	}

	if stub.lastPutOpts.UserMetadata["x-amz-acl"] != "public-read" {
		t.Fatalf("object not marked public-read: %#v", stub.lastPutOpts.UserMetadata)
	}

	expect := "https://homestead-media.s3.eu-west-2.amazonaws.com/listings/id/photos/0"
	if url != expect {
		t.Fatalf("unexpected computed url: %q != %q", url, expect)
	}
}

func TestPut_WrapsTransportFailure(t *testing.T) {
	stub := &stubS3Client{bucketExists: true, putErr: errors.New("connection reset")}
	withStubClient(t, stub)

	store, err := NewS3MediaStore(baseMediaConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = store.Put(context.Background(), "k", []byte("AAA"), "image/jpeg")

	var serr *media.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *media.StorageError, got %v", err)
	}
}

func TestDelete_RemovesByKey(t *testing.T) {
	stub := &stubS3Client{bucketExists: true}
	withStubClient(t, stub)

	store, err := NewS3MediaStore(baseMediaConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url := "https://homestead-media.s3.eu-west-2.amazonaws.com/listings/id/photos/0"
	if err := store.Delete(context.Background(), url); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stub.removeCalled || stub.lastRemove != "listings/id/photos/0" {
		t.Fatalf("unexpected remove call: %v %q", stub.removeCalled, stub.lastRemove)
	}
}
