// Package imagestore uploads product images to an S3-compatible object
// store and deletes them again. An upload returns a public locator and the
// object key needed for later deletion; callers persist both together.
package imagestore

import "context"

type Upload struct {
	// Locator is the publicly retrievable URL of the stored image.
	Locator string
	// DeletionHandle is the object key required to remove the image.
	DeletionHandle string
}

type Store interface {
	Upload(ctx context.Context, data []byte, folder string) (*Upload, error)
	Remove(ctx context.Context, handle string) error
}
