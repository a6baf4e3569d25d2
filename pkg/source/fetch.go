package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// MaxDocumentBytes caps the size of a fetched document.
const MaxDocumentBytes = 4 << 20

// ErrTooLarge is returned for documents over MaxDocumentBytes.
var ErrTooLarge = errors.New("source: document too large")

func (l *Loader) fetch(ctx context.Context, src Source) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	location := src.Location()
	if location == "" || location == "." {
		return nil, fmt.Errorf("%s location is required", src.Kind())
	}

	switch src.Kind() {
	case KindFile:
		return readLimited(os.Open(filepath.Clean(location)))
	case KindFS:
		if l.fs == nil {
			return nil, errors.New("no fs.FS configured")
		}
		return readLimited(l.fs.Open(location))
	case KindURL:
		if l.http == nil {
			return nil, ErrHTTPDisabled
		}
		return l.get(ctx, location)
	default:
		return nil, fmt.Errorf("unsupported kind %q", src.Kind())
	}
}

// get fetches url; the client carries the request timeout.
func (l *Loader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.5")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return readLimited(resp.Body, nil)
}

func readLimited(r io.ReadCloser, openErr error) ([]byte, error) {
	if openErr != nil {
		return nil, openErr
	}
	defer func() {
		_ = r.Close()
	}()
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, MaxDocumentBytes)
	}
	return data, nil
}
