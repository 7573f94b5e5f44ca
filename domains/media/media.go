package media

import (
	"context"
	"errors"
)

var (
	// ErrMetadataUnavailable: the media metadata endpoint returned non-200.
	ErrMetadataUnavailable = errors.New("media metadata unavailable")
	// ErrNoDownloadURL: metadata was returned but carried no download URL.
	ErrNoDownloadURL = errors.New("media metadata has no download url")
	// ErrDownloadFailed: the signed download URL returned non-200.
	ErrDownloadFailed = errors.New("media download failed")
)

// Asset is the durable result of fetching one provider media object.
type Asset struct {
	// StoragePath is the file location on disk.
	StoragePath string
	// PublicPath is the stable reference stored on the Message row and
	// served by the statics mount.
	PublicPath string
	// ContentType is the MIME type the provider declared.
	ContentType string
}

// IFetcher resolves a provider media id to locally persisted bytes.
// Failures are non-fatal to webhook processing: callers degrade to a
// text-only message row.
type IFetcher interface {
	Fetch(ctx context.Context, mediaID string) (Asset, error)
}
