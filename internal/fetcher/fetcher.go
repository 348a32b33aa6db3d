package fetcher

import (
	"context"
	"io"
	"net/url"
)

// Fetcher downloads a remote input file.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// ForSource returns the fetcher for a remote source, or false when source
// is a local path.
func ForSource(source string, opts TableOptions) (Fetcher, bool) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, false
	}
	switch u.Scheme {
	case "ftp":
		return NewFTPFetcher(opts.FTP), true
	case "http", "https":
		return NewHTTPFetcher(opts.HTTP), true
	default:
		return nil, false
	}
}
