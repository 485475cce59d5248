package fetcher

import (
	"context"
	"io"
)

// Fetcher downloads remote source files.
type Fetcher interface {
	// DownloadIfChanged fetches url, sending etag as If-None-Match when set.
	// It returns the body, the response ETag and whether the content changed.
	// An unchanged resource yields a nil body and the etag passed in.
	DownloadIfChanged(ctx context.Context, url string, etag string) (io.ReadCloser, string, bool, error)
}
