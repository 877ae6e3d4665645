// Package rendertest provides helpers for testing components against the
// dom backend.
//
//	func TestCounter(t *testing.T) {
//	    count := lumen.NewCell(1)
//	    h := rendertest.Mount(t, Counter(count))
//	    count.Set(2)
//	    h.ExpectContains("<output>2</output>")
//	}
//
// Hydrate renders a component on a server backend, parses the markup into
// a fresh one and claims it with the same component, which checks that
// create mode and hydrate mode agree.
package rendertest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/dom"
	"github.com/vango-dev/lumen/pkg/hydrate"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

// Harness is a mounted component.
type Harness struct {
	B     *dom.Backend
	Root  backend.Node
	Owner *lumen.Owner
	Nodes render.Nodes

	// Report is set by Hydrate.
	Report *hydrate.Report

	t testing.TB
}

// Mount builds comp into a fragment root. The tree is destroyed when the
// test ends.
func Mount(t testing.TB, comp render.Component) *Harness {
	t.Helper()
	b := dom.New()
	h := &Harness{B: b, Root: b.Fragment(), Owner: lumen.NewTaggedOwner(nil, "test"), t: t}
	h.Nodes = render.Mount(b, h.Root, h.Owner, comp)
	t.Cleanup(h.destroy)
	return h
}

// Hydrate renders comp to markup, parses it and claims it with comp.
func Hydrate(t testing.TB, comp render.Component) *Harness {
	t.Helper()
	server := Mount(t, comp)
	markup := server.HTML()
	server.destroy()

	b := dom.New()
	root, err := b.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse %q: %v", markup, err)
	}
	h := &Harness{B: b, Root: root, Owner: lumen.NewTaggedOwner(nil, "test"), t: t}
	h.Report = hydrate.NewReport(nil)
	h.Nodes, err = render.Hydrate(b, root, h.Owner, comp, h.Report)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	t.Cleanup(h.destroy)
	return h
}

func (h *Harness) destroy() {
	if err := h.Owner.Destroy(context.Background()); err != nil {
		h.t.Errorf("teardown: %v", err)
	}
}

// HTML returns the serialized content of the root.
func (h *Harness) HTML() string {
	var buf bytes.Buffer
	if err := h.B.Serialize(&buf, h.Root); err != nil {
		h.t.Fatalf("serialize: %v", err)
	}
	return buf.String()
}

// ExpectHTML asserts the serialized root equals want.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("expected rendered output\n  %s\ngot\n  %s", want, got)
	}
}

// ExpectContains asserts the serialized root contains expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts the serialized root does not contain
// unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectClean asserts hydration recorded no mismatch.
func (h *Harness) ExpectClean() {
	h.t.Helper()
	if h.Report == nil {
		h.t.Fatal("ExpectClean needs a harness built by Hydrate")
	}
	if n := h.Report.Count(); n > 0 {
		h.t.Errorf("expected clean hydration, got %d mismatches: %v", n, h.Report.Mismatches())
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
