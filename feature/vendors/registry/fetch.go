package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"

	"ouidb/core/storage"
)

// Fetcher retrieves the raw registry text for a source location.
type Fetcher interface {
	// Fetch opens a byte stream for the given URI. The caller closes it.
	Fetch(ctx context.Context, uri string) (io.ReadCloser, error)
}

// ForSource selects a fetcher for the source URI scheme. s3:// sources
// require an object storage client.
func ForSource(uri string, store storage.Client) (Fetcher, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parsing source %q: %w", uri, err)
	}
	switch u.Scheme {
	case "http", "https":
		return &HTTPFetcher{}, nil
	case "s3":
		if store == nil {
			return nil, fmt.Errorf("source %q requires a storage client", uri)
		}
		return &S3Fetcher{Client: store}, nil
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

// HTTPFetcher downloads the registry dump over HTTP(S).
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// Fetch performs a GET request and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &TransportError{URI: uri, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{URI: uri, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &TransportError{URI: uri, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return resp.Body, nil
}

// S3Fetcher reads the registry dump from an S3-compatible bucket, for
// deployments that mirror the dump internally. URIs take the form
// s3://bucket/key.
type S3Fetcher struct {
	Client storage.Client
}

// Fetch opens the object named by the URI.
func (f *S3Fetcher) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, &TransportError{URI: uri, Err: err}
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, &TransportError{URI: uri, Err: fmt.Errorf("want s3://bucket/key")}
	}

	obj, err := f.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, &TransportError{URI: uri, Err: err}
	}
	return obj, nil
}
