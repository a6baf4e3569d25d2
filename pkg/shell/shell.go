package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-builderkit/internal/logging"
	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/export"
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/preview"
	"github.com/goliatone/go-builderkit/pkg/render"
)

// Option configures a Shell.
type Option func(*Shell)

// WithClipboard overrides the system clipboard.
func WithClipboard(cb export.Clipboard) Option {
	return func(s *Shell) {
		if cb != nil {
			s.clipboard = cb
		}
	}
}

// WithSink sets where downloads are saved. Without one, Download fails with
// export.ErrDownloadFailed.
func WithSink(sink export.Sink) Option {
	return func(s *Shell) {
		s.sink = sink
	}
}

// WithNotifier sets the receiver of transient notices.
func WithNotifier(n Notifier) Option {
	return func(s *Shell) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithSandbox sets the preview sandbox.
func WithSandbox(sandbox *preview.Sandbox) Option {
	return func(s *Shell) {
		if sandbox != nil {
			s.sandbox = sandbox
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfig starts the shell from cfg instead of the kind's defaults.
func WithConfig(cfg model.Config) Option {
	return func(s *Shell) {
		s.cfg = cfg
	}
}

// Snapshot is a consistent view of a shell at one point in time.
type Snapshot struct {
	Kind           string
	Config         model.Config
	Output         render.Output
	PreviewVisible bool
}

// FieldState describes one field of the editing form.
type FieldState struct {
	Spec      model.FieldSpec
	Value     model.FieldValue
	Applies   bool
	CanAdd    bool
	CanRemove bool
}

// Shell orchestrates edits, rendering, preview and export for one kind.
type Shell struct {
	mu sync.Mutex

	kind     builders.Kind
	renderer render.Renderer
	cfg      model.Config
	out      render.Output
	visible  bool

	clipboard export.Clipboard
	sink      export.Sink
	notifier  Notifier
	sandbox   *preview.Sandbox
	logger    *logging.Logger

	nextID      int
	subscribers map[int]func(Snapshot)
	// pending holds committed snapshots not yet delivered; delivering marks
	// the one goroutine draining it.
	pending    []Snapshot
	delivering bool
}

// New creates a shell for kind seeded with its defaults and renders it.
func New(kind builders.Kind, renderer render.Renderer, options ...Option) (*Shell, error) {
	if renderer == nil {
		return nil, errors.New("shell: renderer is required")
	}
	if kind.Schema == nil {
		return nil, fmt.Errorf("shell: kind %q has no schema", kind.Name)
	}

	s := &Shell{
		kind:        kind,
		renderer:    renderer,
		visible:     true,
		clipboard:   export.SystemClipboard{},
		notifier:    discardNotifier{},
		sandbox:     preview.New(),
		logger:      logging.Nop(),
		subscribers: make(map[int]func(Snapshot)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.cfg.Kind() == "" {
		defaults, err := kind.Schema.New()
		if err != nil {
			return nil, fmt.Errorf("shell: %w", err)
		}
		s.cfg = defaults
	}
	if s.cfg.Kind() != kind.Name {
		return nil, render.KindMismatch(kind.Name, s.cfg.Kind())
	}
	s.logger = s.logger.With("kind", kind.Name)

	out, err := renderer.Render(context.Background(), s.cfg)
	if err != nil {
		return nil, fmt.Errorf("shell: initial render: %w", err)
	}
	s.out = out
	return s, nil
}

// Kind returns the builder kind.
func (s *Shell) Kind() builders.Kind {
	return s.kind
}

// Config returns the current config.
func (s *Shell) Config() model.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Output returns the most recently rendered output.
func (s *Shell) Output() render.Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out
}

// Snapshot returns config, output and preview state together.
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Shell) snapshotLocked() Snapshot {
	return Snapshot{Kind: s.kind.Name, Config: s.cfg, Output: s.out, PreviewVisible: s.visible}
}

// Fields describes every declared field for the editing form, in order.
func (s *Shell) Fields() []FieldState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]FieldState, 0, len(s.kind.Schema.Fields))
	for _, spec := range s.kind.Schema.Fields {
		states = append(states, FieldState{
			Spec:      spec,
			Value:     s.cfg.MustGet(spec.Name),
			Applies:   spec.AppliesTo(s.cfg),
			CanAdd:    s.cfg.CanAdd(spec.Name),
			CanRemove: s.cfg.CanRemove(spec.Name),
		})
	}
	return states
}

// CanRemove reports whether the remove affordance for a list is enabled.
func (s *Shell) CanRemove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.CanRemove(name)
}

// Set replaces a field value.
func (s *Shell) Set(name string, value model.FieldValue) error {
	return s.Apply(func(cfg model.Config) (model.Config, error) {
		return cfg.Set(name, value)
	})
}

// SetString parses and replaces a field value.
func (s *Shell) SetString(name, raw string) error {
	return s.Apply(func(cfg model.Config) (model.Config, error) {
		return cfg.SetString(name, raw)
	})
}

// SetItem replaces one nested field of a list record.
func (s *Shell) SetItem(name string, index int, sub string, value model.FieldValue) error {
	return s.Apply(func(cfg model.Config) (model.Config, error) {
		return cfg.SetItem(name, index, sub, value)
	})
}

// SetItemString parses and replaces one nested field of a list record.
func (s *Shell) SetItemString(name string, index int, sub, raw string) error {
	return s.Apply(func(cfg model.Config) (model.Config, error) {
		return cfg.SetItemString(name, index, sub, raw)
	})
}

// AddItem appends the seeded record to a list.
func (s *Shell) AddItem(name string) error {
	return s.Apply(func(cfg model.Config) (model.Config, error) {
		return cfg.AddListItem(name)
	})
}

// RemoveItem removes a list record; it fails at the floor.
func (s *Shell) RemoveItem(name string, index int) error {
	return s.Apply(func(cfg model.Config) (model.Config, error) {
		return cfg.RemoveListItem(name, index)
	})
}

// Reset restores the kind's defaults.
func (s *Shell) Reset() error {
	return s.Apply(func(model.Config) (model.Config, error) {
		return s.kind.Schema.New()
	})
}

// Replace swaps in cfg wholesale, e.g. a config decoded from a client.
func (s *Shell) Replace(cfg model.Config) error {
	return s.Apply(func(model.Config) (model.Config, error) {
		if cfg.Kind() != s.kind.Name {
			return cfg, render.KindMismatch(s.kind.Name, cfg.Kind())
		}
		return cfg, nil
	})
}

// Patch transforms a whole config in one step. Presets and theme palettes
// implement it.
type Patch interface {
	Apply(model.Config) (model.Config, error)
}

// ApplyPreset applies a preset; a rejected value leaves the shell untouched.
func (s *Shell) ApplyPreset(p Patch) error {
	if p == nil {
		return errors.New("shell: preset is nil")
	}
	return s.Apply(p.Apply)
}

// ApplyTheme applies a theme palette to the colour fields.
func (s *Shell) ApplyTheme(p Patch) error {
	if p == nil {
		return errors.New("shell: theme is nil")
	}
	return s.Apply(p.Apply)
}

// Apply runs edit against the current config and re-renders the result. On
// any error the previous config and output stay in place.
func (s *Shell) Apply(edit func(model.Config) (model.Config, error)) error {
	s.mu.Lock()
	next, err := edit(s.cfg)
	if err != nil {
		s.mu.Unlock()
		if model.IsRecoverable(err) {
			s.logger.Debug(err.Error())
		} else {
			s.logger.Error(err, "edit rejected")
		}
		return err
	}
	out, err := s.renderer.Render(context.Background(), next)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error(err, "render failed")
		return fmt.Errorf("shell: render: %w", err)
	}
	s.cfg = next
	s.out = out
	s.publishLocked()
	return nil
}

// PreviewVisible reports whether the live preview is shown.
func (s *Shell) PreviewVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// TogglePreview flips preview visibility. Config and output are unaffected.
func (s *Shell) TogglePreview() bool {
	s.mu.Lock()
	s.visible = !s.visible
	visible := s.visible
	s.publishLocked()
	return visible
}

// Preview returns the fragment the preview region shows, and false when the
// preview is hidden.
func (s *Shell) Preview() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visible {
		return "", false
	}
	return s.sandbox.Fragment(s.out), true
}

// PreviewDocument returns the output wrapped in a standalone page.
func (s *Shell) PreviewDocument() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sandbox.Document(s.out, s.kind.Schema.Title)
}

// Copy puts the current text for format on the clipboard.
func (s *Shell) Copy(format render.Format) error {
	text := s.Output().Text(format)
	if err := export.Copy(s.clipboard, text); err != nil {
		s.logger.Warn(err.Error())
		s.notifier.Notify(Notice{Level: NoticeError, Title: "Copy failed", Message: err.Error()})
		return err
	}
	s.notifier.Notify(Notice{Level: NoticeInfo, Title: "Copied!", Message: "Code copied to clipboard"})
	return nil
}

// Download saves the current text for format as "{kind}.{format}".
func (s *Shell) Download(format render.Format) error {
	text := s.Output().Text(format)
	filename := export.Filename(s.kind.Name, format)
	if err := export.Download(s.sink, filename, text); err != nil {
		s.logger.Warn(err.Error())
		s.notifier.Notify(Notice{Level: NoticeError, Title: "Download failed", Message: err.Error()})
		return err
	}
	s.notifier.Notify(Notice{Level: NoticeInfo, Title: "Downloaded", Message: filename})
	return nil
}

// Subscribe registers fn to run after every re-render and preview toggle,
// in the order the changes were made. fn may call back into the shell. The
// returned function removes the subscription.
func (s *Shell) Subscribe(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// publishLocked queues the current snapshot and releases s.mu. Subscribers
// see snapshots in commit order and run without the lock held; when another
// goroutine is already delivering, it picks up the queued snapshot.
func (s *Shell) publishLocked() {
	s.pending = append(s.pending, s.snapshotLocked())
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		snap := s.pending[0]
		s.pending = s.pending[1:]
		subscribers := s.subscribersLocked()
		s.mu.Unlock()
		for _, fn := range subscribers {
			fn(snap)
		}
		s.mu.Lock()
	}
	s.pending = nil
	s.delivering = false
	s.mu.Unlock()
}

func (s *Shell) subscribersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
