package prompt_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/prompt"
	"github.com/goliatone/go-builderkit/pkg/renderers/skeleton"
	"github.com/goliatone/go-builderkit/pkg/shell"
	"github.com/goliatone/go-builderkit/pkg/testsupport"
)

// stubDriver answers prompts from scripted values. Selects are scripted by
// option label so tests read like the menu the user sees.
type stubDriver struct {
	inputs       []string
	inputPos     int
	confirms     []bool
	confirmPos   int
	selects      []string
	selectPos    int
	textAreas    []string
	textAreaPos  int
	menus        [][]string
	infoMessages []string
}

func (s *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", fmt.Errorf("unexpected input prompt %q", cfg.Message)
	}
	value := s.inputs[s.inputPos]
	s.inputPos++
	return value, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirms) {
		return false, fmt.Errorf("unexpected confirm prompt %q", cfg.Message)
	}
	value := s.confirms[s.confirmPos]
	s.confirmPos++
	return value, nil
}

func (s *stubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	s.menus = append(s.menus, slices.Clone(cfg.Options))
	if s.selectPos >= len(s.selects) {
		return 0, prompt.ErrAborted
	}
	want := s.selects[s.selectPos]
	s.selectPos++
	idx := slices.Index(cfg.Options, want)
	if idx < 0 {
		return 0, fmt.Errorf("option %q not offered by %q: %v", want, cfg.Message, cfg.Options)
	}
	return idx, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg prompt.TextAreaConfig) (string, error) {
	if s.textAreaPos >= len(s.textAreas) {
		return "", fmt.Errorf("unexpected text area prompt %q", cfg.Message)
	}
	value := s.textAreas[s.textAreaPos]
	s.textAreaPos++
	return value, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type memoryClipboard struct {
	text string
}

func (m *memoryClipboard) WriteAll(text string) error {
	m.text = text
	return nil
}

func newSession(t *testing.T, kind builders.Kind, driver *stubDriver, options ...shell.Option) (*prompt.Session, *shell.Shell) {
	t.Helper()
	renderer, err := skeleton.New(kind)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	s, err := shell.New(kind, renderer, options...)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	session, err := prompt.NewSession(s, prompt.WithDriver(driver))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return session, s
}

func TestSession_EditScalarField(t *testing.T) {
	driver := &stubDriver{
		selects: []string{prompt.ActionEditField, "Brand Name (MyBrand)", prompt.ActionQuit},
		inputs:  []string{"Acme"},
	}
	session, s := newSession(t, builders.Navbar(), driver)

	if err := session.Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := s.Config().Value("brand"); got != "Acme" {
		t.Fatalf("brand = %q, want Acme", got)
	}
	if !strings.Contains(s.Output().HTML, `<div class="brand">Acme</div>`) {
		t.Fatalf("output not refreshed:\n%s", s.Output().HTML)
	}
}

func TestSession_RejectedEditIsReported(t *testing.T) {
	driver := &stubDriver{
		selects: []string{prompt.ActionEditField, "Text Color (#000000)", prompt.ActionQuit},
		inputs:  []string{"blue"},
	}
	session, s := newSession(t, builders.Navbar(), driver)
	before := s.Config()

	if err := session.Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !s.Config().Equal(before) {
		t.Fatalf("config changed after rejected colour")
	}
	if len(driver.infoMessages) != 1 || !strings.HasPrefix(driver.infoMessages[0], "Rejected: ") {
		t.Fatalf("expected a rejection message, got %v", driver.infoMessages)
	}
}

func TestSession_RemoveHiddenAtFloor(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			prompt.ActionRemoveItem, "1. Home",
			prompt.ActionRemoveItem, "1. About",
			prompt.ActionRemoveItem, "1. Services",
			prompt.ActionQuit,
		},
	}
	session, s := newSession(t, builders.Navbar(), driver)

	if err := session.Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	items := s.Config().Items("navItems")
	if len(items) != 1 || items[0].Value("label") != "Contact" {
		t.Fatalf("unexpected items after removal: %v", items)
	}
	last := driver.menus[len(driver.menus)-1]
	if slices.Contains(last, prompt.ActionRemoveItem) {
		t.Fatalf("remove offered at the floor: %v", last)
	}
	if !slices.Contains(last, prompt.ActionAddItem) {
		t.Fatalf("add missing from menu: %v", last)
	}
}

func TestSession_AddAndEditItem(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			prompt.ActionAddItem,
			prompt.ActionEditItem, "5. Item 5",
			prompt.ActionQuit,
		},
		inputs: []string{"Blog"},
	}
	session, s := newSession(t, builders.Navbar(), driver)

	if err := session.Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := testsupport.ElementTexts(t, s.Output().HTML, "a")
	want := []string{"Home", "About", "Services", "Contact", "Blog"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("link texts mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_SizedListOffersEditOnly(t *testing.T) {
	driver := &stubDriver{
		selects: []string{prompt.ActionEditItem, "2. Header 2", prompt.ActionQuit},
		inputs:  []string{"Price"},
	}
	session, s := newSession(t, builders.Table(), driver)

	if err := session.Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	menu := driver.menus[0]
	if slices.Contains(menu, prompt.ActionAddItem) || slices.Contains(menu, prompt.ActionRemoveItem) {
		t.Fatalf("sized list should not offer add/remove: %v", menu)
	}
	got := testsupport.ElementTexts(t, s.Output().HTML, "th")
	if diff := cmp.Diff([]string{"Header 1", "Price", "Header 3"}, got); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_BooleanAndEnumPrompts(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			prompt.ActionEditField, "Text Align (left)", "center",
			prompt.ActionQuit,
		},
	}
	session, s := newSession(t, builders.Card(), driver)
	if err := session.Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := s.Config().Value("textAlign"); got != "center" {
		t.Fatalf("textAlign = %q, want center", got)
	}

	driver = &stubDriver{
		selects:  []string{prompt.ActionEditField, "Bordered (true)", prompt.ActionQuit},
		confirms: []bool{false},
	}
	session, s = newSession(t, builders.Table(), driver)
	if err := session.Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.Config().Bool("bordered") {
		t.Fatalf("bordered still true")
	}
}

func TestSession_OnlyApplicableFieldsOffered(t *testing.T) {
	driver := &stubDriver{selects: []string{prompt.ActionEditField, "Layout Type (two-column)", "grid", prompt.ActionEditField}}
	session, _ := newSession(t, builders.Layout(), driver)

	err := session.Run(testsupport.Context())
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted once the script runs out, got %v", err)
	}

	twoColumn := driver.menus[1]
	for _, option := range twoColumn {
		if strings.HasPrefix(option, "Grid Item") {
			t.Fatalf("grid field offered for two-column: %v", twoColumn)
		}
	}
	grid := driver.menus[len(driver.menus)-1]
	if !slices.Contains(grid, "Grid Item Hover Scale (1.05)") {
		t.Fatalf("grid fields missing after switching layout: %v", grid)
	}
	if slices.Contains(grid, "Sidebar Background (#f4f4f4)") {
		t.Fatalf("sidebar field offered for grid: %v", grid)
	}
}

func TestSession_CopyNotifiesThroughDriver(t *testing.T) {
	driver := &stubDriver{selects: []string{prompt.ActionCopyCSS, prompt.ActionQuit}}
	cb := &memoryClipboard{}
	ctx := testsupport.Context()
	session, s := newSession(t, builders.Navbar(), driver,
		shell.WithClipboard(cb),
		shell.WithNotifier(prompt.Notifier(ctx, driver)),
	)

	if err := session.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if cb.text != s.Output().CSS {
		t.Fatalf("clipboard does not hold the CSS output")
	}
	if diff := cmp.Diff([]string{"Copied! Code copied to clipboard"}, driver.infoMessages); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_TogglePreview(t *testing.T) {
	driver := &stubDriver{selects: []string{prompt.ActionTogglePrev, prompt.ActionTogglePrev, prompt.ActionQuit}}
	session, s := newSession(t, builders.Navbar(), driver)

	if err := session.Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !s.PreviewVisible() {
		t.Fatalf("preview should be visible after two toggles")
	}
	if len(driver.infoMessages) != 2 || driver.infoMessages[0] != "Preview hidden" {
		t.Fatalf("unexpected messages: %v", driver.infoMessages)
	}
	if !strings.HasPrefix(driver.infoMessages[1], "<style>") {
		t.Fatalf("expected preview fragment, got %q", driver.infoMessages[1])
	}
}

func TestNewSession_RequiresShell(t *testing.T) {
	if _, err := prompt.NewSession(nil); err == nil {
		t.Fatalf("expected error for nil shell")
	}
}
