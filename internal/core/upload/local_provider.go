package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/stationworks/station-analyzer-be/internal/config"
	"github.com/stationworks/station-analyzer-be/internal/core/dataset"
)

// LocalProvider stores uploads on the local filesystem, keyed by a generated
// token rather than the user-supplied filename, so concurrent uploads of
// identically named files cannot collide.
type LocalProvider struct {
	basePath string
	maxSize  int64
}

// NewLocalProvider creates a provider rooted at basePath.
func NewLocalProvider(basePath string, maxSize int64) *LocalProvider {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		panic(fmt.Sprintf("Failed to create upload directory: %v", err))
	}

	return &LocalProvider{
		basePath: basePath,
		maxSize:  maxSize,
	}
}

// SaveMultipart validates extension and size, then persists the uploaded
// spreadsheet as <token><ext> under the base path.
func (p *LocalProvider) SaveMultipart(fh *multipart.FileHeader, token string) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !config.IsAllowedExtension(ext) {
		return nil, dataset.Validationf("Invalid file type. Please upload an Excel file (%s)",
			strings.Join(config.AllowedExtensions, " or "))
	}
	if p.maxSize > 0 && fh.Size > p.maxSize {
		return nil, dataset.Validationf("File size exceeds maximum allowed size: %d bytes", p.maxSize)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	path := filepath.Join(p.basePath, token+ext)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &StoredFile{
		Path: path,
		Name: SanitizeFilename(fh.Filename),
		Size: size,
	}, nil
}

// Remove deletes a stored upload. A missing file is not an error.
func (p *LocalProvider) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SanitizeFilename strips directory components and replaces characters that
// are not safe in a filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
