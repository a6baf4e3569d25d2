package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/render"
)

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string { return s.name }

func (s stubRenderer) Render(_ context.Context, cfg model.Config) (render.Output, error) {
	return render.Output{HTML: "<p>" + cfg.Value("title") + "</p>", CSS: "p{}"}, nil
}

func stubSchema(kind string) *model.Schema {
	return &model.Schema{
		Kind:   kind,
		Fields: []model.FieldSpec{{Name: "title", Default: model.Text{Value: "hi"}}},
	}
}

func TestRegistry_RegisterAndDispatch(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "note"})
	registry.MustRegister(stubRenderer{name: "badge"})

	if diff := cmp.Diff([]string{"badge", "note"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if err := registry.Register(stubRenderer{name: "note"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected missing name error")
	}

	out, err := registry.Render(context.Background(), stubSchema("note").MustNew())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(render.Output{HTML: "<p>hi</p>", CSS: "p{}"}, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	_, err = registry.Render(context.Background(), stubSchema("missing").MustNew())
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, raw := range []string{"html", "css"} {
		format, err := render.ParseFormat(raw)
		if err != nil || string(format) != raw {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, format, err)
		}
	}
	if _, err := render.ParseFormat("js"); !errors.Is(err, render.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	out := render.Output{HTML: "h", CSS: "c"}
	if out.Text(render.FormatCSS) != "c" || out.Text(render.FormatHTML) != "h" {
		t.Fatalf("Text returned wrong side")
	}
}

func TestRegistry_Missing(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "note"})

	if diff := cmp.Diff([]string{"badge", "chip"}, registry.Missing("badge", "note", "chip")); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	if got := registry.Missing("note"); len(got) != 0 {
		t.Fatalf("expected no missing kinds, got %v", got)
	}
}
