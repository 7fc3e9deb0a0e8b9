package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/indieprop/homestead/config"
	"github.com/indieprop/homestead/storage/media"
	storageutil "github.com/indieprop/homestead/storage/util"
)

// StoreImpl stores uploaded media files in a local directory, mirroring the
// object key as a relative path. Meant for development deployments where the
// directory is served statically.
type StoreImpl struct {
	basePath  string
	publicURL string
	mu        sync.Mutex
}

func NewFilesystemMediaStore(cfg *config.FilesystemMediaStrategy) (*StoreImpl, error) {
	if cfg == nil {
		return nil, &media.StorageError{Op: "configure", Err: fmt.Errorf("filesystem media config is nil")}
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, &media.StorageError{Op: "configure", Err: fmt.Errorf("failed to create base directory: %w", err)}
	}

	return &StoreImpl{
		basePath:  cfg.Path,
		publicURL: storageutil.NormalizeBaseURL(cfg.PublicUrl),
	}, nil
}

func (fs *StoreImpl) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", &media.StorageError{Op: "put", Err: fmt.Errorf("invalid object key %q", key)}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	relPath := filepath.FromSlash(key)
	absPath := filepath.Join(fs.basePath, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return "", &media.StorageError{Op: "put", Err: fmt.Errorf("failed to create directory: %w", err)}
	}

	// Write to a temp file and rename so a failed write never leaves a
	// partial object addressable at key.
	tmp, err := os.CreateTemp(filepath.Dir(absPath), ".upload-*")
	if err != nil {
		return "", &media.StorageError{Op: "put", Err: fmt.Errorf("failed to create file: %w", err)}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", &media.StorageError{Op: "put", Err: fmt.Errorf("failed to write file: %w", err)}
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", &media.StorageError{Op: "put", Err: fmt.Errorf("failed to write file: %w", err)}
	}

	if err := os.Rename(tmp.Name(), absPath); err != nil {
		_ = os.Remove(tmp.Name())
		return "", &media.StorageError{Op: "put", Err: fmt.Errorf("failed to place file: %w", err)}
	}

	return fs.publicURL + key, nil
}

func (fs *StoreImpl) Delete(ctx context.Context, url string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if !strings.HasPrefix(url, fs.publicURL) {
		return &media.StorageError{Op: "delete", Err: fmt.Errorf("url %q does not match public URL prefix %q", url, fs.publicURL)}
	}

	relPath := filepath.FromSlash(strings.TrimPrefix(url, fs.publicURL))
	absPath := filepath.Join(fs.basePath, relPath)

	if err := os.Remove(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return &media.StorageError{Op: "delete", Err: fmt.Errorf("failed to remove file: %w", err)}
	}

	return nil
}
