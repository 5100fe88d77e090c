// Package images resolves card scan images from a pluggable source and
// crops regions out of them, caching crop results in a bounded LRU.
package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves an image filename to its content. LocalPath is an
// optimization for sources that can expose a file on disk; sources that
// cannot return ErrNoLocalPath and are read through Fetch instead.
type Provider interface {
	// LocalPath returns a local filesystem path for the image, or
	// ErrNoLocalPath if the source has none, or ErrNotFound.
	LocalPath(ctx context.Context, filename string) (string, error)

	// Fetch returns the raw image bytes, or ErrNotFound.
	Fetch(ctx context.Context, filename string) ([]byte, error)
}

// LocalProvider serves images from a directory on disk.
type LocalProvider struct {
	dir string
}

// NewLocalProvider creates a provider over the given images directory.
func NewLocalProvider(dir string) *LocalProvider {
	return &LocalProvider{dir: dir}
}

func (p *LocalProvider) resolve(filename string) (string, error) {
	// Filenames arrive as a single path segment; anything that tries to
	// escape the images directory is treated as unknown.
	if filename == "" || filename != filepath.Base(filename) ||
		strings.HasPrefix(filename, ".") {
		return "", ErrNotFound
	}
	return filepath.Join(p.dir, filename), nil
}

// LocalPath returns the on-disk path if the image exists.
func (p *LocalProvider) LocalPath(_ context.Context, filename string) (string, error) {
	path, err := p.resolve(filename)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return path, nil
}

// Fetch reads the whole image into memory.
func (p *LocalProvider) Fetch(_ context.Context, filename string) ([]byte, error) {
	path, err := p.resolve(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// contentTypes maps recognized image extensions to their media type.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ContentTypeFor returns the media type for an image filename, or the
// generic binary type for unrecognized extensions.
func ContentTypeFor(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
