package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-builderkit/internal/logging"
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/render"
	"github.com/goliatone/go-builderkit/pkg/shell"
)

// Menu actions offered by a session.
const (
	ActionEditField    = "Edit field"
	ActionEditItem     = "Edit list item"
	ActionAddItem      = "Add list item"
	ActionRemoveItem   = "Remove list item"
	ActionTogglePrev   = "Toggle preview"
	ActionShowHTML     = "Show HTML"
	ActionShowCSS      = "Show CSS"
	ActionCopyHTML     = "Copy HTML"
	ActionCopyCSS      = "Copy CSS"
	ActionDownloadHTML = "Download HTML"
	ActionDownloadCSS  = "Download CSS"
	ActionReset        = "Reset to defaults"
	ActionQuit         = "Quit"
)

// Option customises a Session.
type Option func(*Session)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger sets the logger used for rejected edits.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is the interactive terminal editor for one shell.
type Session struct {
	shell  *shell.Shell
	driver Driver
	logger *logging.Logger
}

// NewSession binds a terminal session to s.
func NewSession(s *shell.Shell, options ...Option) (*Session, error) {
	if s == nil {
		return nil, errors.New("prompt: shell is required")
	}
	session := &Session{
		shell:  s,
		driver: NewSurveyDriver(nil),
		logger: logging.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(session)
		}
	}
	return session, nil
}

// Notifier returns a shell notifier that prints notices through driver.
func Notifier(ctx context.Context, driver Driver) shell.Notifier {
	return shell.NotifierFunc(func(n shell.Notice) {
		msg := n.Title
		if n.Message != "" {
			msg += " " + n.Message
		}
		_ = driver.Info(ctx, msg)
	})
}

// Run loops over the action menu until the user quits or aborts. Rejected
// edits are reported and the loop continues with the prior config.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		actions := s.actions()
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message: s.shell.Kind().Schema.Title,
			Options: actions,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			return fmt.Errorf("prompt: selection %d out of range", idx)
		}
		action := actions[idx]
		if action == ActionQuit {
			return nil
		}
		if err := s.dispatch(ctx, action); err != nil {
			if !model.IsRecoverable(err) {
				return err
			}
			s.logger.With("error", err.Error()).Debug("edit rejected")
			if err := s.driver.Info(ctx, "Rejected: "+err.Error()); err != nil {
				return err
			}
		}
	}
}

func (s *Session) actions() []string {
	var hasList, canAdd, canRemove bool
	for _, state := range s.shell.Fields() {
		if !state.Applies || state.Spec.Type() != model.FieldTypeList {
			continue
		}
		hasList = true
		canAdd = canAdd || state.CanAdd
		canRemove = canRemove || state.CanRemove
	}

	actions := []string{ActionEditField}
	if hasList {
		actions = append(actions, ActionEditItem)
	}
	if canAdd {
		actions = append(actions, ActionAddItem)
	}
	if canRemove {
		actions = append(actions, ActionRemoveItem)
	}
	return append(actions,
		ActionTogglePrev,
		ActionShowHTML, ActionShowCSS,
		ActionCopyHTML, ActionCopyCSS,
		ActionDownloadHTML, ActionDownloadCSS,
		ActionReset,
		ActionQuit,
	)
}

func (s *Session) dispatch(ctx context.Context, action string) error {
	switch action {
	case ActionEditField:
		return s.editField(ctx)
	case ActionEditItem:
		return s.editItem(ctx)
	case ActionAddItem:
		return s.addItem(ctx)
	case ActionRemoveItem:
		return s.removeItem(ctx)
	case ActionTogglePrev:
		if s.shell.TogglePreview() {
			return s.showPreview(ctx)
		}
		return s.driver.Info(ctx, "Preview hidden")
	case ActionShowHTML:
		return s.driver.Info(ctx, s.shell.Output().HTML)
	case ActionShowCSS:
		return s.driver.Info(ctx, s.shell.Output().CSS)
	case ActionCopyHTML:
		_ = s.shell.Copy(render.FormatHTML)
		return nil
	case ActionCopyCSS:
		_ = s.shell.Copy(render.FormatCSS)
		return nil
	case ActionDownloadHTML:
		_ = s.shell.Download(render.FormatHTML)
		return nil
	case ActionDownloadCSS:
		_ = s.shell.Download(render.FormatCSS)
		return nil
	case ActionReset:
		return s.shell.Reset()
	default:
		return fmt.Errorf("prompt: unknown action %q", action)
	}
}

func (s *Session) showPreview(ctx context.Context) error {
	fragment, visible := s.shell.Preview()
	if !visible {
		return nil
	}
	return s.driver.Info(ctx, fragment)
}

func (s *Session) editField(ctx context.Context) error {
	var scalars []shell.FieldState
	for _, state := range s.shell.Fields() {
		if state.Applies && state.Spec.Type() != model.FieldTypeList {
			scalars = append(scalars, state)
		}
	}
	if len(scalars) == 0 {
		return s.driver.Info(ctx, "No editable fields")
	}
	options := make([]string, len(scalars))
	for i, state := range scalars {
		options[i] = fmt.Sprintf("%s (%s)", label(state.Spec), state.Value.String())
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Field", Options: options})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(scalars) {
		return nil
	}
	state := scalars[idx]
	raw, err := s.ask(ctx, state.Spec, state.Value)
	if err != nil {
		return err
	}
	return s.shell.SetString(state.Spec.Name, raw)
}

func (s *Session) pickList(ctx context.Context, message string, keep func(shell.FieldState) bool) (shell.FieldState, bool, error) {
	var lists []shell.FieldState
	for _, state := range s.shell.Fields() {
		if state.Applies && state.Spec.Type() == model.FieldTypeList && keep(state) {
			lists = append(lists, state)
		}
	}
	switch len(lists) {
	case 0:
		return shell.FieldState{}, false, nil
	case 1:
		return lists[0], true, nil
	}
	options := make([]string, len(lists))
	for i, state := range lists {
		options[i] = label(state.Spec)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return shell.FieldState{}, false, err
	}
	if idx < 0 || idx >= len(lists) {
		return shell.FieldState{}, false, nil
	}
	return lists[idx], true, nil
}

func (s *Session) pickItem(ctx context.Context, state shell.FieldState) (int, error) {
	items := state.Value.(model.List).Items
	options := make([]string, len(items))
	for i, item := range items {
		options[i] = fmt.Sprintf("%d. %s", i+1, summary(item))
	}
	return s.driver.Select(ctx, SelectConfig{Message: label(state.Spec), Options: options})
}

func (s *Session) editItem(ctx context.Context) error {
	state, ok, err := s.pickList(ctx, "List", func(shell.FieldState) bool { return true })
	if err != nil || !ok {
		return err
	}
	index, err := s.pickItem(ctx, state)
	if err != nil {
		return err
	}
	items := state.Value.(model.List).Items
	if index < 0 || index >= len(items) {
		return nil
	}
	subs := state.Spec.List.Item
	sub := subs[0]
	if len(subs) > 1 {
		options := make([]string, len(subs))
		for i, spec := range subs {
			current, _ := items[index].Get(spec.Name)
			options[i] = fmt.Sprintf("%s (%s)", label(spec), current.String())
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Property", Options: options})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(subs) {
			return nil
		}
		sub = subs[idx]
	}
	current, _ := items[index].Get(sub.Name)
	raw, err := s.ask(ctx, sub, current)
	if err != nil {
		return err
	}
	return s.shell.SetItemString(state.Spec.Name, index, sub.Name, raw)
}

func (s *Session) addItem(ctx context.Context) error {
	state, ok, err := s.pickList(ctx, "Add to", func(st shell.FieldState) bool { return st.CanAdd })
	if err != nil || !ok {
		return err
	}
	return s.shell.AddItem(state.Spec.Name)
}

func (s *Session) removeItem(ctx context.Context) error {
	state, ok, err := s.pickList(ctx, "Remove from", func(st shell.FieldState) bool { return st.CanRemove })
	if err != nil || !ok {
		return err
	}
	index, err := s.pickItem(ctx, state)
	if err != nil {
		return err
	}
	return s.shell.RemoveItem(state.Spec.Name, index)
}

// ask prompts for a new raw value of spec, defaulting to current.
func (s *Session) ask(ctx context.Context, spec model.FieldSpec, current model.FieldValue) (string, error) {
	message := label(spec)
	switch value := current.(type) {
	case model.Boolean:
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: value.Value, Help: spec.Help})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(ok), nil
	case model.Enum:
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      value.Allowed,
			DefaultIndex: indexOf(value.Allowed, value.Value),
			Help:         spec.Help,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(value.Allowed) {
			return value.Value, nil
		}
		return value.Allowed[idx], nil
	case model.Number:
		if spec.Unit != "" {
			message += " (" + spec.Unit + ")"
		}
		return s.driver.Input(ctx, InputConfig{
			Message: message,
			Default: value.String(),
			Help:    fmt.Sprintf("between %s and %s", model.FormatNumber(value.Min), model.FormatNumber(value.Max)),
			Validator: func(raw string) error {
				if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
					return fmt.Errorf("%q is not a number", raw)
				}
				return nil
			},
		})
	case model.Color:
		return s.driver.Input(ctx, InputConfig{
			Message: message,
			Default: value.Value,
			Help:    "hex colour, #rrggbb",
			Validator: func(raw string) error {
				_, err := model.NormalizeColor(raw)
				return err
			},
		})
	default:
		if spec.Name == "description" {
			return s.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current.String(), Help: spec.Help})
		}
		return s.driver.Input(ctx, InputConfig{Message: message, Default: current.String(), Help: spec.Help})
	}
}

func label(spec model.FieldSpec) string {
	if spec.Label != "" {
		return spec.Label
	}
	return spec.Name
}

func summary(record model.Record) string {
	fields := record.Fields()
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field.Value.String())
	}
	return strings.Join(parts, " / ")
}
