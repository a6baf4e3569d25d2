package skeleton_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/render"
	"github.com/goliatone/go-builderkit/pkg/renderers/skeleton"
	"github.com/goliatone/go-builderkit/pkg/testsupport"
)

func newRegistry(t *testing.T) *render.Registry {
	t.Helper()
	registry, err := skeleton.NewRegistry(builders.Default())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return registry
}

func mustRender(t *testing.T, registry *render.Registry, cfg model.Config) render.Output {
	t.Helper()
	out, err := registry.Render(context.Background(), cfg)
	if err != nil {
		t.Fatalf("render %s: %v", cfg.Kind(), err)
	}
	return out
}

func mustSet(t *testing.T, cfg model.Config, name, raw string) model.Config {
	t.Helper()
	next, err := cfg.SetString(name, raw)
	if err != nil {
		t.Fatalf("set %s=%q: %v", name, raw, err)
	}
	return next
}

func TestRegistry_CoversEveryKind(t *testing.T) {
	registry := newRegistry(t)
	if diff := cmp.Diff(builders.Default().Names(), registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_DefaultGoldens(t *testing.T) {
	registry := newRegistry(t)
	tests := []struct {
		kind   string
		golden []string
	}{
		{builders.KindNavbar, []string{"html", "css"}},
		{builders.KindTable, []string{"html", "css"}},
		{builders.KindForm, []string{"html"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			kind, err := builders.Default().Lookup(tt.kind)
			if err != nil {
				t.Fatalf("lookup: %v", err)
			}
			out := mustRender(t, registry, kind.New())
			for _, format := range tt.golden {
				path := filepath.Join("testdata", tt.kind+"."+format+".golden")
				testsupport.AssertGoldenString(t, path, out.Text(render.Format(format)))
			}
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	registry := newRegistry(t)
	for _, kind := range builders.Default().Kinds() {
		cfg := kind.New()
		first := mustRender(t, registry, cfg)
		second := mustRender(t, registry, cfg)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("%s: output differs between renders (-first +second):\n%s", kind.Name, diff)
		}
		if first.HTML == "" || first.CSS == "" {
			t.Fatalf("%s: empty output", kind.Name)
		}
	}
}

func TestRender_NavbarScenario(t *testing.T) {
	registry := newRegistry(t)
	navbar := builders.Navbar()
	cfg, err := navbar.New().Set("navItems", model.List{Items: []model.Record{
		model.NewRecord(model.Field{Name: "label", Value: model.Text{Value: "Home"}}),
		model.NewRecord(model.Field{Name: "label", Value: model.Text{Value: "About"}}),
	}})
	if err != nil {
		t.Fatalf("set items: %v", err)
	}

	out := mustRender(t, registry, cfg)
	if !strings.Contains(out.HTML, `<div class="brand">MyBrand</div>`) {
		t.Fatalf("brand missing:\n%s", out.HTML)
	}
	if got := testsupport.CountElements(t, out.HTML, "li"); got != 2 {
		t.Fatalf("li count = %d, want 2", got)
	}
	if diff := cmp.Diff([]string{"Home", "About"}, testsupport.ElementTexts(t, out.HTML, "a")); diff != "" {
		t.Fatalf("link order mismatch (-want +got):\n%s", diff)
	}
	for _, want := range []string{"background-color: #ffffff;", "color: #000000;"} {
		if !strings.Contains(out.CSS, want) {
			t.Fatalf("css missing %q:\n%s", want, out.CSS)
		}
	}
}

func TestRender_NavbarTextIsNotEscaped(t *testing.T) {
	registry := newRegistry(t)
	cfg := mustSet(t, builders.Navbar().New(), "brand", "<b>Tom & Jerry's</b>")
	out := mustRender(t, registry, cfg)
	if !strings.Contains(out.HTML, `<div class="brand"><b>Tom & Jerry's</b></div>`) {
		t.Fatalf("brand was altered:\n%s", out.HTML)
	}
}

func TestRender_NavbarPaddingFormatting(t *testing.T) {
	registry := newRegistry(t)
	cfg := mustSet(t, builders.Navbar().New(), "padding", "0.25")
	out := mustRender(t, registry, cfg)
	if !strings.Contains(out.CSS, "padding: 0.25rem;") {
		t.Fatalf("padding not formatted:\n%s", out.CSS)
	}
}

func TestRender_TableScenario(t *testing.T) {
	registry := newRegistry(t)
	cfg := builders.Table().New()
	cfg = mustSet(t, cfg, "rows", "2")
	cfg = mustSet(t, cfg, "cols", "2")
	cfg = mustSet(t, cfg, "bordered", "true")
	cfg = mustSet(t, cfg, "striped", "false")
	cfg, err := cfg.SetItemString("headers", 0, "text", "A")
	if err != nil {
		t.Fatalf("header A: %v", err)
	}
	cfg, err = cfg.SetItemString("headers", 1, "text", "B")
	if err != nil {
		t.Fatalf("header B: %v", err)
	}

	out := mustRender(t, registry, cfg)
	if got := testsupport.CountElements(t, out.HTML, "th"); got != 2 {
		t.Fatalf("th count = %d, want 2", got)
	}
	if got := testsupport.CountElements(t, out.HTML, "td"); got != 4 {
		t.Fatalf("td count = %d, want 4", got)
	}
	if diff := cmp.Diff([]string{"A", "B"}, testsupport.ElementTexts(t, out.HTML, "th")); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	wantCells := []string{"Cell 1-1", "Cell 1-2", "Cell 2-1", "Cell 2-2"}
	if diff := cmp.Diff(wantCells, testsupport.ElementTexts(t, out.HTML, "td")); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.CSS, ".custom-table.bordered td {\n  border: 1px solid #dddddd;") {
		t.Fatalf("bordered rule missing:\n%s", out.CSS)
	}
	if strings.Contains(out.CSS, "striped") {
		t.Fatalf("striped rule emitted:\n%s", out.CSS)
	}
}

func TestRender_TableConditionalBlocks(t *testing.T) {
	registry := newRegistry(t)
	cfg := builders.Table().New()
	cfg = mustSet(t, cfg, "bordered", "false")
	cfg = mustSet(t, cfg, "striped", "false")

	out := mustRender(t, registry, cfg)
	for _, absent := range []string{"bordered", "striped", "/*"} {
		if strings.Contains(out.CSS, absent) {
			t.Fatalf("css contains %q:\n%s", absent, out.CSS)
		}
	}
	if !strings.Contains(out.HTML, `<table class="custom-table">`) {
		t.Fatalf("table class not bare:\n%s", out.HTML)
	}

	cfg = mustSet(t, cfg, "striped", "true")
	cfg = mustSet(t, cfg, "stripeColor", "#eeeeee")
	out = mustRender(t, registry, cfg)
	if !strings.Contains(out.CSS, ".custom-table.striped tbody tr:nth-child(odd) {\n  background-color: #eeeeee;") {
		t.Fatalf("striped rule missing:\n%s", out.CSS)
	}
}

func TestRender_FormFloorScenario(t *testing.T) {
	registry := newRegistry(t)
	cfg, err := builders.Form().New().AddListItem("fields")
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	for i := 0; i < 3; i++ {
		cfg, err = cfg.RemoveListItem("fields", 0)
		if err != nil {
			t.Fatalf("remove %d: %v", i, err)
		}
	}
	if cfg.CanRemove("fields") {
		t.Fatalf("remove should be disabled at the floor")
	}
	next, err := cfg.RemoveListItem("fields", 0)
	if !errors.Is(err, model.ErrFloorViolation) {
		t.Fatalf("expected ErrFloorViolation, got %v", err)
	}

	out := mustRender(t, registry, next)
	if got := testsupport.CountElements(t, out.HTML, "input"); got != 1 {
		t.Fatalf("input count = %d, want 1:\n%s", got, out.HTML)
	}
	if !strings.Contains(out.HTML, `<input type="text" id="field4" name="field4" />`) {
		t.Fatalf("remaining field markup missing:\n%s", out.HTML)
	}
	if !strings.Contains(out.HTML, `<label for="field4">New Field</label>`) {
		t.Fatalf("label should not carry the required marker:\n%s", out.HTML)
	}
}

func TestRender_FormTextarea(t *testing.T) {
	registry := newRegistry(t)
	out := mustRender(t, registry, builders.Form().New())
	if got := testsupport.CountElements(t, out.HTML, "textarea"); got != 1 {
		t.Fatalf("textarea count = %d, want 1", got)
	}
	if !strings.Contains(out.HTML, `<label for="name">Name *</label>`) {
		t.Fatalf("required marker missing:\n%s", out.HTML)
	}
	if !strings.Contains(out.CSS, "border-color: #4CAF50;") {
		t.Fatalf("focus border missing:\n%s", out.CSS)
	}
}

func TestRender_Card(t *testing.T) {
	registry := newRegistry(t)
	cfg := mustSet(t, builders.Card().New(), "textAlign", "center")
	out := mustRender(t, registry, cfg)
	for _, want := range []string{
		`<img src="https://via.placeholder.com/300x200" alt="Card Title" class="card-image">`,
		`<button class="card-button">Learn More</button>`,
	} {
		if !strings.Contains(out.HTML, want) {
			t.Fatalf("html missing %q:\n%s", want, out.HTML)
		}
	}
	for _, want := range []string{"text-align: center;", "color: #00000099;", "filter: brightness(0.9);"} {
		if !strings.Contains(out.CSS, want) {
			t.Fatalf("css missing %q:\n%s", want, out.CSS)
		}
	}
}

func TestRender_LayoutSkeletons(t *testing.T) {
	registry := newRegistry(t)
	tests := []struct {
		layout   string
		element  string
		count    int
		cssMatch string
	}{
		{builders.LayoutTwoColumn, "div", 3, "flex: 0 0 250px;"},
		{builders.LayoutThreeColumn, "div", 4, "grid-template-columns: repeat(3, 1fr);"},
		{builders.LayoutHeaderSidebarContent, "aside", 1, "border-radius: 8px 8px 0 0;"},
		{builders.LayoutGrid, "div", 7, "transform: scale(1.05);"},
	}
	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			cfg := mustSet(t, builders.Layout().New(), "layoutType", tt.layout)
			out := mustRender(t, registry, cfg)
			if !strings.HasPrefix(out.HTML, `<div class="layout `+tt.layout+`">`) {
				t.Fatalf("unexpected root:\n%s", out.HTML)
			}
			if got := testsupport.CountElements(t, out.HTML, tt.element); got != tt.count {
				t.Fatalf("%s count = %d, want %d", tt.element, got, tt.count)
			}
			if !strings.Contains(out.CSS, tt.cssMatch) {
				t.Fatalf("css missing %q:\n%s", tt.cssMatch, out.CSS)
			}
		})
	}
}

func TestRender_LayoutGridBackgroundVerbatim(t *testing.T) {
	registry := newRegistry(t)
	cfg := mustSet(t, builders.Layout().New(), "layoutType", builders.LayoutGrid)
	out := mustRender(t, registry, cfg)
	if !strings.Contains(out.CSS, "background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);") {
		t.Fatalf("gradient missing:\n%s", out.CSS)
	}
	if diff := cmp.Diff([]string{"Item 1", "Item 2", "Item 3", "Item 4", "Item 5", "Item 6"},
		testsupport.ElementTexts(t, out.HTML, "div")[:6]); diff != "" {
		t.Fatalf("grid items mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RejectsOtherKinds(t *testing.T) {
	renderer, err := skeleton.New(builders.Navbar())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = renderer.Render(context.Background(), builders.Card().New())
	if !errors.Is(err, render.ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, builders.Navbar().New()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
