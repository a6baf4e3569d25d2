package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"
)

// ErrHTTPDisabled is returned for URL sources when the loader has no client.
var ErrHTTPDisabled = errors.New("source: http support disabled")

type options struct {
	fileSystem        fs.FS
	httpClient        *http.Client
	allowHTTPFallback bool
	requestTimeout    time.Duration
}

// Option configures a Loader.
type Option func(*options)

// WithFileSystem injects the fs.FS used for FromFS sources.
func WithFileSystem(files fs.FS) Option {
	return func(opts *options) {
		opts.fileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) Option {
	return func(opts *options) {
		opts.allowHTTPFallback = true
		opts.requestTimeout = timeout
	}
}

// Loader fetches documents from file, fs.FS, or HTTP sources. HTTP is off
// unless a client or the fallback is configured.
type Loader struct {
	fs   fs.FS
	http *http.Client
}

// NewLoader constructs a Loader from the supplied options.
func NewLoader(opts ...Option) *Loader {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var httpClient *http.Client
	switch {
	case cfg.httpClient != nil:
		clone := *cfg.httpClient
		if cfg.requestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = cfg.requestTimeout
		}
		httpClient = &clone
	case cfg.allowHTTPFallback:
		httpClient = &http.Client{Timeout: cfg.requestTimeout}
	}

	return &Loader{fs: cfg.fileSystem, http: httpClient}
}

// Load returns the bytes behind src.
func (l *Loader) Load(ctx context.Context, src Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("source: source is nil")
	}

	data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("source: load %s: %w", src.Location(), err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("source: %s is empty", src.Location())
	}
	return data, nil
}
