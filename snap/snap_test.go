package snap

import (
	"fmt"
	"testing"

	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/grdrag/memdoc"
	"github.com/tdewolff/test"
)

func TestFreeSnap(t *testing.T) {
	s := New(2.0)
	s.SetLevels([]float64{0.0, 50.0}, []float64{100.0})
	s.Points = []grdrag.Point{{30.0, 30.0}}

	var tests = []struct {
		p       grdrag.Point
		q       grdrag.Point
		snapped bool
		guides  int
	}{
		{grdrag.Point{99.0, 20.0}, grdrag.Point{100.0, 20.0}, true, 1},
		{grdrag.Point{99.0, 49.0}, grdrag.Point{100.0, 50.0}, true, 2},
		{grdrag.Point{31.0, 29.0}, grdrag.Point{30.0, 30.0}, true, 0},
		{grdrag.Point{70.0, 20.0}, grdrag.Point{70.0, 20.0}, false, 0},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			q, snapped := s.FreeSnap(tt.p, grdrag.SnapHandle)
			test.T(t, q, tt.q)
			test.T(t, snapped, tt.snapped)
			test.T(t, len(s.Guides()), tt.guides)
		})
	}

	s.MidStops = false
	_, snapped := s.FreeSnap(grdrag.Point{99.0, 20.0}, grdrag.SnapMidStop)
	test.That(t, !snapped)
}

func TestGrid(t *testing.T) {
	s := New(1.0)
	s.Grid = 10.0
	s.Origin = grdrag.Point{5.0, 0.0}

	q, snapped := s.FreeSnap(grdrag.Point{24.5, 40.8}, grdrag.SnapHandle)
	test.That(t, snapped)
	test.T(t, q, grdrag.Point{25.0, 40.0})
	test.T(t, s.Guides(), []Guide{{true, 25.0}, {false, 40.0}})

	q, snapped = s.FreeSnap(grdrag.Point{20.0, 45.0}, grdrag.SnapHandle)
	test.That(t, !snapped)
	test.T(t, q, grdrag.Point{20.0, 45.0})
}

func TestConstrainedSnap(t *testing.T) {
	s := New(2.0)
	s.SetLevels(nil, []float64{40.0})
	c := grdrag.Constraint{Origin: grdrag.Point{0.0, 0.0}, Direction: grdrag.Point{1.0, 1.0}}

	q, snapped := s.ConstrainedSnap(grdrag.Point{41.0, 39.0}, grdrag.SnapHandle, c)
	test.That(t, snapped)
	test.T(t, q, grdrag.Point{40.0, 40.0})
	test.T(t, s.Guides(), []Guide{{true, 40.0}})

	// no target nearby, the projection is returned
	q, snapped = s.ConstrainedSnap(grdrag.Point{10.0, 0.0}, grdrag.SnapHandle, c)
	test.That(t, !snapped)
	test.T(t, q, grdrag.Point{5.0, 5.0})

	// target points snap to their projection
	s.Points = []grdrag.Point{{21.0, 19.0}}
	q, snapped = s.ConstrainedSnap(grdrag.Point{20.0, 21.0}, grdrag.SnapHandle, c)
	test.That(t, snapped)
	test.T(t, q, grdrag.Point{20.0, 20.0})
	test.T(t, len(s.Guides()), 0)

	_, snapped = s.ConstrainedSnap(grdrag.Point{20.0, 21.0}, grdrag.SnapHandle, grdrag.Constraint{})
	test.That(t, !snapped, "degenerate constraint")
}

func TestDragSnapping(t *testing.T) {
	doc := memdoc.New()
	a := doc.NewItem("a", "rect", grdrag.Rect{0.0, 0.0, 100.0, 50.0})
	v := &memdoc.Vector{ID: "v", Stops: []grdrag.Stop{{Offset: 0.0}, {Offset: 0.5}, {Offset: 1.0}}}
	a.Fill.Gradient = memdoc.NewLinear("g", v, grdrag.Point{20.0, 25.0}, grdrag.Point{80.0, 25.0})
	doc.Selection().Set(a)

	s := New(3.0)
	d := grdrag.New(doc, doc.Selection(), memdoc.NewHistory(doc), s, nil, nil)
	s.SetLevels(d.Levels())

	// the end snaps to the right edge of the bounding box
	end := d.DraggerFor(a, grdrag.LinearEnd, 2, grdrag.Fill)
	d.PointerDown(end)
	d.PointerMove(grdrag.Point{98.0, 30.0}, 0)
	test.T(t, d.State(), grdrag.Snapping)
	test.T(t, end.Point(), grdrag.Point{100.0, 30.0})
	d.PointerUp(0)

	// mid stops snap to levels along their axis
	mid := d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill)
	d.PointerDown(mid)
	d.PointerMove(end.Point().Interpolate(grdrag.Point{20.0, 25.0}, 0.61), 0)
	test.T(t, d.State(), grdrag.Snapping)
	testNear(t, mid.Point().X, 50.0)
	d.PointerUp(0)
}

func testNear(t *testing.T, got, want float64) {
	t.Helper()
	test.FloatDiff(t, got, want, 1e-6)
}
