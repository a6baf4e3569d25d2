package export

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/atotto/clipboard"

	"github.com/goliatone/go-builderkit/pkg/render"
)

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// Sink receives a named download.
type Sink interface {
	Save(filename, text string) error
}

// Filename returns "{kind}.{format}", e.g. "navbar.html".
func Filename(kind string, format render.Format) string {
	return kind + "." + string(format)
}

// ContentType returns the MIME type for format.
func ContentType(format render.Format) string {
	if format == render.FormatCSS {
		return "text/css; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

// SystemClipboard is the platform clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the system clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility found", ErrClipboardUnavailable)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return nil
}

// Copy writes text to cb, mapping any failure onto ErrClipboardUnavailable.
func Copy(cb Clipboard, text string) error {
	if cb == nil {
		return fmt.Errorf("%w: no clipboard configured", ErrClipboardUnavailable)
	}
	if err := cb.WriteAll(text); err != nil {
		if errors.Is(err, ErrClipboardUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return nil
}

// DirSink saves downloads into a directory.
type DirSink struct {
	Dir string
}

// Save writes text to Dir/filename, creating Dir when needed.
func (s DirSink) Save(filename, text string) error {
	if filename == "" || filepath.Base(filename) != filename {
		return fmt.Errorf("%w: invalid filename %q", ErrDownloadFailed, filename)
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(text), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return nil
}

// WriterSink streams downloads to a writer, e.g. stdout.
type WriterSink struct {
	W io.Writer
}

// Save writes text to W; the filename is ignored.
func (s WriterSink) Save(_ string, text string) error {
	if s.W == nil {
		return fmt.Errorf("%w: no writer", ErrDownloadFailed)
	}
	if _, err := io.WriteString(s.W, text); err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return nil
}

// Download saves text under filename, mapping failures onto ErrDownloadFailed.
func Download(sink Sink, filename, text string) error {
	if sink == nil {
		return fmt.Errorf("%w: no sink configured", ErrDownloadFailed)
	}
	if err := sink.Save(filename, text); err != nil {
		if errors.Is(err, ErrDownloadFailed) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrDownloadFailed, filename, err)
	}
	return nil
}

// WriteAttachment serves text as a file download.
func WriteAttachment(w http.ResponseWriter, filename string, format render.Format, text string) error {
	header := w.Header()
	header.Set("Content-Type", ContentType(format))
	header.Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	header.Set("Content-Length", strconv.Itoa(len(text)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return nil
}
