package memdoc

import (
	"testing"

	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/test"
)

func TestHistory(t *testing.T) {
	doc := New()
	a := doc.NewItem("a", "rect", grdrag.Rect{0, 0, 100, 100})
	a.Fill.Gradient = NewLinear("g", threeStops(), grdrag.Point{0, 0}, grdrag.Point{100, 0})
	h := NewHistory(doc)

	_, err := h.Undo()
	test.T(t, err, ErrNothingToUndo)

	doc.SetCoords(a, grdrag.LinearEnd, 2, grdrag.Fill, grdrag.Point{50, 0}, true, false)
	h.Done("Move gradient handle")
	doc.SetCoords(a, grdrag.LinearEnd, 2, grdrag.Fill, grdrag.Point{80, 0}, true, false)
	h.Done("Move gradient handle")
	test.T(t, h.Actions(), []string{"Move gradient handle", "Move gradient handle"})

	action, err := h.Undo()
	test.Error(t, err)
	test.String(t, action, "Move gradient handle")
	p, _ := doc.Coords(a, grdrag.LinearEnd, 2, grdrag.Fill)
	testPoint(t, p, grdrag.Point{50, 0})

	_, err = h.Undo()
	test.Error(t, err)
	p, _ = doc.Coords(a, grdrag.LinearEnd, 2, grdrag.Fill)
	testPoint(t, p, grdrag.Point{100, 0})

	_, err = h.Redo()
	test.Error(t, err)
	p, _ = doc.Coords(a, grdrag.LinearEnd, 2, grdrag.Fill)
	testPoint(t, p, grdrag.Point{50, 0})

	// a new record drops the redo records
	doc.SetCoords(a, grdrag.LinearBegin, 0, grdrag.Fill, grdrag.Point{10, 0}, true, false)
	h.Done("Move gradient handle")
	_, err = h.Redo()
	test.T(t, err, ErrNothingToRedo)
	test.T(t, len(h.Recs), 3)
}

func TestHistoryMaybeDone(t *testing.T) {
	doc := New()
	a := doc.NewItem("a", "rect", grdrag.Rect{0, 0, 100, 100})
	a.Fill.Gradient = NewLinear("g", threeStops(), grdrag.Point{0, 0}, grdrag.Point{100, 0})
	h := NewHistory(doc)

	for i := 1; i <= 3; i++ {
		doc.SetCoords(a, grdrag.LinearBegin, 0, grdrag.Fill, grdrag.Point{float64(2 * i), 0}, true, false)
		h.MaybeDone("grmoveh", "Move gradient handle(s)")
	}
	test.T(t, h.Actions(), []string{"Move gradient handle(s)"})

	h.Done("Delete gradient stop(s)")
	h.MaybeDone("grmoveh", "Move gradient handle(s)")
	test.T(t, len(h.Actions()), 3, "coalescing stops at other records")

	_, _ = h.Undo()
	_, _ = h.Undo()
	_, _ = h.Undo()
	p, _ := doc.Coords(a, grdrag.LinearBegin, 0, grdrag.Fill)
	testPoint(t, p, grdrag.Point{0, 0})
}

func TestHistorySharedVectors(t *testing.T) {
	doc := New()
	v := threeStops()
	a := doc.NewItem("a", "rect", grdrag.Rect{0, 0, 100, 100})
	b := doc.NewItem("b", "rect", grdrag.Rect{0, 0, 100, 100})
	a.Fill.Gradient = NewLinear("ga", v, grdrag.Point{0, 0}, grdrag.Point{100, 0})
	b.Fill.Gradient = NewLinear("gb", v, grdrag.Point{0, 0}, grdrag.Point{100, 0})
	h := NewHistory(doc)

	doc.SetStops(a, grdrag.Fill, []grdrag.Stop{{0.0, red}, {1.0, blue}})
	h.Done("Delete gradient stop(s)")
	test.That(t, a.Fill.Gradient.Vector != b.Fill.Gradient.Vector)

	_, err := h.Undo()
	test.Error(t, err)
	test.That(t, a.Fill.Gradient.Vector == b.Fill.Gradient.Vector, "vector is shared again")
	test.T(t, len(doc.Stops(a, grdrag.Fill)), 3)
}
