package server

import (
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/shell"
)

// FieldView describes one field of the editing form.
type FieldView struct {
	Name      string      `json:"name"`
	Label     string      `json:"label"`
	Type      string      `json:"type"`
	Help      string      `json:"help,omitempty"`
	Unit      string      `json:"unit,omitempty"`
	Value     any         `json:"value"`
	Applies   bool        `json:"applies"`
	Options   []string    `json:"options,omitempty"`
	Min       *float64    `json:"min,omitempty"`
	Max       *float64    `json:"max,omitempty"`
	Step      *float64    `json:"step,omitempty"`
	Item      []FieldView `json:"item,omitempty"`
	CanAdd    bool        `json:"can_add,omitempty"`
	CanRemove bool        `json:"can_remove,omitempty"`
}

// SessionView is the JSON state of one session.
type SessionView struct {
	ID             string      `json:"id"`
	Kind           string      `json:"kind"`
	Title          string      `json:"title"`
	Fields         []FieldView `json:"fields"`
	HTML           string      `json:"html"`
	CSS            string      `json:"css"`
	PreviewVisible bool        `json:"preview_visible"`
}

func sessionView(id string, s *shell.Shell) SessionView {
	snap := s.Snapshot()
	states := s.Fields()
	fields := make([]FieldView, len(states))
	for i, state := range states {
		view := fieldView(state.Spec, state.Value)
		view.Applies = state.Applies
		view.CanAdd = state.CanAdd
		view.CanRemove = state.CanRemove
		fields[i] = view
	}
	return SessionView{
		ID:             id,
		Kind:           snap.Kind,
		Title:          s.Kind().Schema.Title,
		Fields:         fields,
		HTML:           snap.Output.HTML,
		CSS:            snap.Output.CSS,
		PreviewVisible: snap.PreviewVisible,
	}
}

func fieldView(spec model.FieldSpec, value model.FieldValue) FieldView {
	view := FieldView{
		Name:    spec.Name,
		Label:   spec.Label,
		Type:    string(spec.Type()),
		Help:    spec.Help,
		Unit:    spec.Unit,
		Value:   jsonValue(value),
		Applies: true,
	}
	switch def := spec.Default.(type) {
	case model.Enum:
		view.Options = append([]string(nil), def.Allowed...)
	case model.Number:
		view.Min, view.Max, view.Step = &def.Min, &def.Max, &def.Step
	}
	if spec.List != nil {
		for _, item := range spec.List.Item {
			view.Item = append(view.Item, fieldView(item, item.Default))
		}
	}
	return view
}

// jsonValue maps a field value onto plain JSON types.
func jsonValue(value model.FieldValue) any {
	switch v := value.(type) {
	case model.Number:
		return v.Value
	case model.Boolean:
		return v.Value
	case model.List:
		items := make([]map[string]any, len(v.Items))
		for i, record := range v.Items {
			entry := make(map[string]any)
			for _, field := range record.Fields() {
				entry[field.Name] = jsonValue(field.Value)
			}
			items[i] = entry
		}
		return items
	case nil:
		return nil
	default:
		return v.String()
	}
}
