package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

// ObjectStore keeps uploaded blobs under slash-separated keys.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// BucketStore is an ObjectStore backed by a Go CDK bucket.
type BucketStore struct {
	bucket *blob.Bucket
}

func NewBucketStore(bucket *blob.Bucket) *BucketStore {
	return &BucketStore{bucket: bucket}
}

// NewLocalStore opens a fileblob bucket rooted at a directory on disk.
func NewLocalStore(root string) (*BucketStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("open storage bucket: %w", err)
	}
	return NewBucketStore(bucket), nil
}

// validateKey refuses keys that are not clean relative slash paths.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean != key || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return ErrInvalidKey
	}
	return nil
}

func mapError(op, key string, err error) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return ErrObjectNotFound
	}
	return fmt.Errorf("%s object %s: %w", op, key, err)
}

// Put is atomic: readers never see a partial object.
func (s *BucketStore) Put(ctx context.Context, key string, r io.Reader) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.bucket.Upload(ctx, key, r, nil); err != nil {
		return fmt.Errorf("write object %s: %w", key, err)
	}
	return nil
}

func (s *BucketStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	rc, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, mapError("open", key, err)
	}
	return rc, nil
}

func (s *BucketStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		return mapError("delete", key, err)
	}
	return nil
}

func (s *BucketStore) Close() error {
	return s.bucket.Close()
}
