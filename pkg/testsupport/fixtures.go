// Package testsupport holds golden-file and markup helpers shared by tests.
// Set UPDATE_GOLDENS=1 to rewrite goldens from the current output.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGoldenString compares got with the golden at path, rewriting the
// golden instead when UPDATE_GOLDENS is set.
func AssertGoldenString(t *testing.T, path, got string) {
	t.Helper()
	if WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// CountElements tokenizes markup and counts start tags named tag. Void and
// self-closing tags are included.
func CountElements(t *testing.T, markup, tag string) int {
	t.Helper()

	count := 0
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != nil && err != io.EOF {
				t.Fatalf("tokenize markup: %v", err)
			}
			return count
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == tag {
				count++
			}
		}
	}
}

// ElementTexts returns the text content directly inside every tag element, in
// document order.
func ElementTexts(t *testing.T, markup, tag string) []string {
	t.Helper()

	var (
		texts []string
		depth int
		buf   strings.Builder
	)
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != nil && err != io.EOF {
				t.Fatalf("tokenize markup: %v", err)
			}
			return texts
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == tag {
				depth++
				buf.Reset()
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == tag && depth > 0 {
				depth--
				texts = append(texts, strings.TrimSpace(buf.String()))
			}
		case html.TextToken:
			if depth > 0 {
				buf.Write(tokenizer.Text())
			}
		}
	}
}
