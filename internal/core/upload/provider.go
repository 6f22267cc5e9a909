package upload

import "mime/multipart"

// StoredFile describes a persisted upload.
type StoredFile struct {
	Path string // location on disk
	Name string // sanitized original filename
	Size int64  // bytes written
}

// Provider persists uploaded spreadsheets between wizard steps.
type Provider interface {
	// SaveMultipart validates and stores one uploaded file under the given
	// token.
	SaveMultipart(fh *multipart.FileHeader, token string) (*StoredFile, error)

	// Remove deletes a stored upload. A missing file is not an error.
	Remove(path string) error
}
