package gesture

import (
	"math"
	"testing"

	"github.com/soocke/overlay-calibrator/domain/geometry"
)

const tol = 1e-9

var reference = geometry.Rect{Top: 25, Left: 55, Width: 43, Height: 65}

func near(a, b float64) bool { return math.Abs(a-b) <= tol }

func TestApplyDelta_KeepsInvariant(t *testing.T) {
	anchors := []geometry.Rect{
		reference,
		{Top: 0, Left: 0, Width: 100, Height: 100},
		{Top: 10, Left: 10, Width: 10, Height: 10},
		{Top: 95, Left: 95, Width: 5, Height: 5},
	}
	deltas := []float64{-250, -60, -7.5, -0.1, 0, 0.1, 3, 42, 250}
	for _, k := range Kinds {
		for _, a := range anchors {
			for _, dx := range deltas {
				for _, dy := range deltas {
					got := ApplyDelta(k, a, dx, dy, geometry.DefaultMinExtent)
					if !geometry.IsValid(got, geometry.DefaultMinExtent) {
						t.Fatalf("%s anchor=%v d=(%v,%v) produced invalid %v", k, a, dx, dy, got)
					}
				}
			}
		}
	}
}

func TestApplyDelta_ZeroDeltaIsIdentity(t *testing.T) {
	for _, k := range Kinds {
		if got := ApplyDelta(k, reference, 0, 0, geometry.DefaultMinExtent); got != reference {
			t.Fatalf("%s: expected identity, got %v", k, got)
		}
	}
}

func TestApplyDelta_MoveClampsAtContainerEdge(t *testing.T) {
	got := ApplyDelta(Move, reference, -200, 0, 5)
	want := geometry.Rect{Top: 25, Left: 0, Width: 43, Height: 65}
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
	got = ApplyDelta(Move, reference, 200, 200, 5)
	if got.Right() != 100 || got.Bottom() != 100 {
		t.Fatalf("expected rect pinned to bottom-right, got %v", got)
	}
}

func TestApplyDelta_SouthEastFloor(t *testing.T) {
	a := geometry.Rect{Top: 10, Left: 10, Width: 10, Height: 10}
	got := ApplyDelta(ResizeSE, a, -50, -50, 5)
	if got.Width != 5 || got.Height != 5 || got.Top != 10 || got.Left != 10 {
		t.Fatalf("unexpected %v", got)
	}
}

func TestApplyDelta_NorthWestKeepsFarCorner(t *testing.T) {
	deltas := []float64{-300, -20, -3.3, 0, 1.7, 12, 80, 300}
	for _, dx := range deltas {
		for _, dy := range deltas {
			got := ApplyDelta(ResizeNW, reference, dx, dy, 5)
			if !near(got.Bottom(), reference.Bottom()) || !near(got.Right(), reference.Right()) {
				t.Fatalf("d=(%v,%v): far corner moved to (%v,%v)", dx, dy, got.Right(), got.Bottom())
			}
		}
	}
}

func TestApplyDelta_FixedEdges(t *testing.T) {
	cases := []struct {
		name  string
		kind  Kind
		check func(got geometry.Rect) bool
	}{
		{"sw keeps right and top", ResizeSW, func(g geometry.Rect) bool {
			return near(g.Right(), reference.Right()) && g.Top == reference.Top
		}},
		{"ne keeps bottom and left", ResizeNE, func(g geometry.Rect) bool {
			return near(g.Bottom(), reference.Bottom()) && g.Left == reference.Left
		}},
		{"se keeps top and left", ResizeSE, func(g geometry.Rect) bool {
			return g.Top == reference.Top && g.Left == reference.Left
		}},
	}
	for _, c := range cases {
		for _, d := range []float64{-90, -10, 5, 30} {
			if got := ApplyDelta(c.kind, reference, d, -d, 5); !c.check(got) {
				t.Fatalf("%s: d=%v got %v", c.name, d, got)
			}
		}
	}
}

func TestApplyDelta_SouthWestFollowsPointer(t *testing.T) {
	got := ApplyDelta(ResizeSW, reference, -10, 5, 5)
	want := geometry.Rect{Top: 25, Left: 45, Width: 53, Height: 70}
	if !near(got.Top, want.Top) || !near(got.Left, want.Left) || !near(got.Width, want.Width) || !near(got.Height, want.Height) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestPercentDelta(t *testing.T) {
	dx, dy := PercentDelta(geometry.Point{X: 100, Y: 100}, geometry.Point{X: 150, Y: 75}, geometry.Size{W: 1000, H: 500})
	if dx != 5 || dy != -5 {
		t.Fatalf("got (%v,%v)", dx, dy)
	}
	dx, dy = PercentDelta(geometry.Point{}, geometry.Point{X: 10, Y: 10}, geometry.Size{})
	if dx != 0 || dy != 0 {
		t.Fatalf("empty container should yield zero delta, got (%v,%v)", dx, dy)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("round trip %s: got %v err=%v", k, got, err)
		}
	}
	if _, err := ParseKind("spin"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
