// Package storage talks to the external asset host. The core stores
// only the locator an upload returns, never the binary.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotConfigured is returned when no asset bucket is configured;
// operations that requested an image surface it as an upload failure.
var ErrNotConfigured = errors.New("asset host not configured")

// Uploader stores a binary image and returns its public locator.
// Failures are surfaced verbatim to the caller; there is no retry.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Disabled is the Uploader used when no asset host is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}
