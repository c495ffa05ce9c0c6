package layout

import (
	"path/filepath"
	"testing"

	"github.com/MartinZikmund/UnoDoom/internal/geom"
)

// TestBoundsOf_FailsClosedWithoutSurface verifies unmeasured layouts report no bounds.
func TestBoundsOf_FailsClosedWithoutSurface(t *testing.T) {
	l := New(DefaultParams())
	if _, ok := l.BoundsOf(ControlMove); ok {
		t.Fatalf("expected no bounds before SetSurface")
	}
}

// TestBoundsOf_RecomputedAfterResize verifies bounds follow the surface size.
func TestBoundsOf_RecomputedAfterResize(t *testing.T) {
	l := New(DefaultParams())
	l.SetSurface(800, 480)
	before, ok := l.BoundsOf(ControlLook)
	if !ok {
		t.Fatalf("expected bounds after SetSurface")
	}
	l.SetSurface(1280, 720)
	after, ok := l.BoundsOf(ControlLook)
	if !ok {
		t.Fatalf("expected bounds after resize")
	}
	if before == after {
		t.Fatalf("expected bounds to change with surface, got %+v", after)
	}
}

// TestBoundsOf_OverrideWins verifies overrides replace the computed default.
func TestBoundsOf_OverrideWins(t *testing.T) {
	l := New(DefaultParams())
	l.SetSurface(1000, 500)
	l.SetOverride(ControlFire, NormRect{X: 0.5, Y: 0.5, W: 0.1, H: 0.2})
	r, ok := l.BoundsOf(ControlFire)
	if !ok {
		t.Fatalf("expected bounds")
	}
	want := geom.Rect{X: 500, Y: 250, W: 100, H: 100}
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
}

// TestStickRegionsDoNotOverlapButtons verifies the stock layout keeps regions disjoint.
func TestStickRegionsDoNotOverlapButtons(t *testing.T) {
	l := New(DefaultParams())
	l.SetSurface(1280, 720)
	move, _ := l.BoundsOf(ControlMove)
	fire, _ := l.BoundsOf(ControlFire)
	if geom.Contains(move, geom.Center(fire)) {
		t.Fatalf("fire button center inside move stick: %+v vs %+v", fire, move)
	}
}

// TestStore_RoundTrip verifies overrides survive save and load.
func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "layout.json")
	in := map[Control]NormRect{
		ControlMove: {X: 0.1, Y: 0.6, W: 0.2, H: 0.3},
		ControlHide: {X: 0.9, Y: 0, W: 0.1, H: 0.1},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(out) != len(in) || out[ControlMove] != in[ControlMove] || out[ControlHide] != in[ControlHide] {
		t.Fatalf("unexpected overrides: %#v", out)
	}
}

// TestStore_MissingFileIsEmpty verifies a missing layout file is not an error.
func TestStore_MissingFileIsEmpty(t *testing.T) {
	out, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty overrides, got %#v", out)
	}
}
