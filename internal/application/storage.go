package application

import (
	"context"
	"io"
)

// Asset is what the external asset store returns for an uploaded file.
type Asset struct {
	URL      string
	PublicID string
}

// AssetStorage is the external asset store collaborator. Upload is awaited
// synchronously before any user record is written; Delete removes a
// superseded asset after a successful replacement.
type AssetStorage interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (*Asset, error)
	Delete(ctx context.Context, url string) error
}

// UploadedFile is the typed, already-parsed upload handed over by the HTTP
// layer. A missing file is a nil *UploadedFile, never an unchecked chain of
// optional lookups.
type UploadedFile struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}
