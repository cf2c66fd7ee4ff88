// file: service/upload.go

package service

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go-banner-api/logger"

	"github.com/google/uuid"
)

// UploadStore saves banner images on local disk and serves them from a public
// URL prefix. Filenames are random, so uploads never collide or overwrite.
type UploadStore struct {
	dir        string
	publicPath string
	maxSize    int64
}

func NewUploadStore(dir, publicPath string, maxSizeMB int64) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &UploadStore{
		dir:        dir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
		maxSize:    maxSizeMB << 20,
	}, nil
}

// Dir returns the on-disk directory backing the store.
func (u *UploadStore) Dir() string {
	return u.dir
}

// SaveImage persists an uploaded file and returns its public URL. Only image
// content is accepted (sniffed, not trusted from the filename) and the size
// limit is enforced while copying.
func (u *UploadStore) SaveImage(file io.Reader, originalName string, size int64) (string, error) {
	if size > u.maxSize {
		return "", ErrFileTooLarge
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]

	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", ErrNotAnImage
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	// Re-prepend the sniffed bytes and cap the copy at maxSize+1 so an
	// understated Content-Length cannot smuggle an oversized body.
	written, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), io.LimitReader(file, u.maxSize+1)))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if written > u.maxSize {
		os.Remove(dst.Name())
		return "", ErrFileTooLarge
	}

	return u.publicPath + "/" + name, nil
}

// Remove deletes a previously stored file, identified by its public URL.
// Best effort: a missing file is logged, never fatal, and URLs outside the
// store's own prefix are ignored.
func (u *UploadStore) Remove(publicURL string) {
	if !strings.HasPrefix(publicURL, u.publicPath+"/") {
		return
	}
	name := path.Base(publicURL)
	if err := os.Remove(filepath.Join(u.dir, name)); err != nil && !os.IsNotExist(err) {
		logger.Log.WithError(err).WithField("file", name).Warn("Failed to remove stored banner image")
	}
}
