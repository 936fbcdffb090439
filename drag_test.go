package grdrag_test

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"testing"

	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/grdrag/memdoc"
	"github.com/tdewolff/test"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	green = color.NRGBA{0, 255, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
)

func testPoint(t *testing.T, got, want grdrag.Point) {
	t.Helper()
	test.Float(t, got.X, want.X, "x")
	test.Float(t, got.Y, want.Y, "y")
}

func stops(offsets ...float64) []grdrag.Stop {
	colors := []color.NRGBA{red, green, blue}
	s := []grdrag.Stop{}
	for i, offset := range offsets {
		s = append(s, grdrag.Stop{Offset: offset, Color: colors[i%len(colors)]})
	}
	return s
}

func linearItem(doc *memdoc.Document, id string, p1, p2 grdrag.Point, offsets ...float64) *memdoc.Item {
	it := doc.NewItem(id, "rect", grdrag.RectFromPoints(p1, p2))
	v := &memdoc.Vector{ID: id + "-vector", Stops: stops(offsets...)}
	it.Fill.Gradient = memdoc.NewLinear(id+"-gradient", v, p1, p2)
	return it
}

func radialItem(doc *memdoc.Document, id string, c grdrag.Point, r float64, offsets ...float64) *memdoc.Item {
	it := doc.NewItem(id, "circle", grdrag.Rect{c.X - r, c.Y - r, 2 * r, 2 * r})
	v := &memdoc.Vector{ID: id + "-vector", Stops: stops(offsets...)}
	it.Fill.Gradient = memdoc.NewRadial(id+"-gradient", v, c, r)
	return it
}

func newDrag(doc *memdoc.Document, items ...*memdoc.Item) (*grdrag.Drag, *memdoc.History, *grdrag.Headless) {
	doc.Selection().Set(items...)
	hist := memdoc.NewHistory(doc)
	desktop := grdrag.NewHeadless()
	return grdrag.New(doc, doc.Selection(), hist, nil, desktop, nil), hist, desktop
}

func draggables(dr *grdrag.Dragger) []string {
	s := []string{}
	for _, da := range dr.Draggables() {
		s = append(s, da.String())
	}
	sort.Strings(s)
	return s
}

func TestRebuildLinear(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.5, 1.0)
	d, _, _ := newDrag(doc, a)

	draggers := d.Draggers()
	test.T(t, len(draggers), 3)
	testPoint(t, draggers[0].Point(), grdrag.Point{0, 0})
	testPoint(t, draggers[1].Point(), grdrag.Point{50, 0})
	testPoint(t, draggers[2].Point(), grdrag.Point{100, 0})
	test.T(t, draggers[1].Shape(), grdrag.DiamondShape)
	test.T(t, a.Holds(), 3)
	test.T(t, len(d.Lines()), 1)

	d.Close()
	test.T(t, a.Holds(), 0)
	test.T(t, len(d.Draggers()), 0)
}

func TestRebuildRadial(t *testing.T) {
	doc := memdoc.New()
	a := radialItem(doc, "a", grdrag.Point{50, 50}, 50, 0.0, 0.5, 1.0)
	d, _, _ := newDrag(doc, a)

	// center and focus coincide and share a dragger
	draggers := d.Draggers()
	test.T(t, len(draggers), 5)
	n := 0
	for _, dr := range draggers {
		n += len(dr.Draggables())
	}
	test.T(t, n, 6)

	center := d.DraggerFor(a, grdrag.RadialCenter, 0, grdrag.Fill)
	test.T(t, center, d.DraggerFor(a, grdrag.RadialFocus, 0, grdrag.Fill))
	test.T(t, center.Draggables()[0].Role, grdrag.RadialFocus)
	test.T(t, center.Shape(), grdrag.SquareShape)
	test.String(t, center.Tip(), "Radial gradient center and focus; drag with Shift to separate focus")
	test.T(t, len(d.Lines()), 2)
}

func TestRebuildShared(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	b := linearItem(doc, "b", grdrag.Point{0, 0}, grdrag.Point{100, 50}, 0.0, 1.0)
	d, _, _ := newDrag(doc, a, b)

	test.T(t, len(d.Draggers()), 3)
	dr := d.DraggerFor(b, grdrag.LinearBegin, 0, grdrag.Fill)
	test.T(t, draggables(dr), []string{"a:LinearBegin[0]:Fill", "b:LinearBegin[0]:Fill"})
	test.String(t, dr.Tip(), "Gradient point shared by 2 gradients; drag with Shift to separate")
}

func TestDragLinearBegin(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.5, 1.0)
	d, hist, _ := newDrag(doc, a)

	begin := d.DraggerFor(a, grdrag.LinearBegin, 0, grdrag.Fill)
	d.PointerDown(begin)
	test.T(t, d.State(), grdrag.Dragging)
	d.PointerMove(grdrag.Point{10, 0}, 0)
	test.T(t, len(hist.Actions()), 0, "no undo step while dragging")
	test.T(t, doc.Writes(), 0)

	d.PointerUp(0)
	test.T(t, d.State(), grdrag.Released)
	test.T(t, hist.Actions(), []string{"Move gradient handle"})

	end, _ := doc.Coords(a, grdrag.LinearEnd, 2, grdrag.Fill)
	testPoint(t, end, grdrag.Point{100, 0})
	testPoint(t, d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill).Point(), grdrag.Point{55, 0})
	testPoint(t, begin.Original(), grdrag.Point{10, 0})
	test.That(t, d.IsSelected(begin))
	test.T(t, len(d.Draggers()), 3, "draggers are refreshed and not rebuilt")
}

func TestDragRadialCenter(t *testing.T) {
	doc := memdoc.New()
	a := radialItem(doc, "a", grdrag.Point{50, 50}, 50, 0.0, 0.5, 1.0)
	d, _, _ := newDrag(doc, a)

	center := d.DraggerFor(a, grdrag.RadialCenter, 0, grdrag.Fill)
	d.PointerDown(center)
	d.PointerMove(grdrag.Point{60, 55}, 0)
	d.PointerUp(0)

	testPoint(t, d.DraggerFor(a, grdrag.RadialR1, 2, grdrag.Fill).Point(), grdrag.Point{110, 55})
	testPoint(t, d.DraggerFor(a, grdrag.RadialR2, 2, grdrag.Fill).Point(), grdrag.Point{60, 5})
	testPoint(t, d.DraggerFor(a, grdrag.RadialMid1, 1, grdrag.Fill).Point(), grdrag.Point{85, 55})
	testPoint(t, d.DraggerFor(a, grdrag.RadialMid2, 1, grdrag.Fill).Point(), grdrag.Point{60, 30})
	focus, _ := doc.Coords(a, grdrag.RadialFocus, 0, grdrag.Fill)
	testPoint(t, focus, grdrag.Point{60, 55})
}

func TestMergeCommutative(t *testing.T) {
	setup := func() (*grdrag.Drag, *memdoc.History, *memdoc.Item, *memdoc.Item) {
		doc := memdoc.New()
		a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
		b := linearItem(doc, "b", grdrag.Point{0, 50}, grdrag.Point{100, 50}, 0.0, 1.0)
		d, hist, _ := newDrag(doc, a, b)
		return d, hist, a, b
	}

	d, hist, a, b := setup()
	d.PointerDown(d.DraggerFor(a, grdrag.LinearBegin, 0, grdrag.Fill))
	d.PointerMove(grdrag.Point{0, 45}, 0)
	test.T(t, d.State(), grdrag.Merging)
	test.T(t, hist.Actions(), []string{"Merge gradient handles"})
	test.T(t, len(d.Draggers()), 3)
	ab := d.DraggerFor(a, grdrag.LinearBegin, 0, grdrag.Fill)
	testPoint(t, ab.Point(), grdrag.Point{0, 50})
	test.That(t, d.IsSelected(ab))
	begin, _ := d.Selected()[0].Draggables()[0].Item.(*memdoc.Item)
	test.T(t, begin, a, "moved draggable comes first")
	d.PointerUp(0)
	test.T(t, len(hist.Actions()), 1, "release after merge commits nothing")

	d2, _, a2, b2 := setup()
	d2.PointerDown(d2.DraggerFor(b2, grdrag.LinearBegin, 0, grdrag.Fill))
	d2.PointerMove(grdrag.Point{5, 5}, 0)
	ba := d2.DraggerFor(a2, grdrag.LinearBegin, 0, grdrag.Fill)
	testPoint(t, ba.Point(), grdrag.Point{0, 0})

	test.T(t, draggables(ab), draggables(ba))
	test.T(t, d.DraggerFor(b, grdrag.LinearBegin, 0, grdrag.Fill), ab)
}

func TestSplitMerge(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	b := linearItem(doc, "b", grdrag.Point{0, 0}, grdrag.Point{100, 50}, 0.0, 1.0)
	d, hist, _ := newDrag(doc, a, b)

	shared := d.DraggerFor(a, grdrag.LinearBegin, 0, grdrag.Fill)
	before := draggables(shared)
	d.PointerDown(shared)
	d.PointerMove(grdrag.Point{30, 0}, grdrag.Shift)
	test.T(t, len(d.Draggers()), 4)
	test.T(t, len(shared.Draggables()), 1)
	test.T(t, shared.Draggables()[0].Item.ID(), "b")
	split := d.Draggers()[0]
	test.T(t, split.Draggables()[0].Item.ID(), "a")
	testPoint(t, split.Point(), grdrag.Point{0, 0})
	testPoint(t, shared.Point(), grdrag.Point{30, 0})

	// moving back without Shift merges them again
	d.PointerMove(grdrag.Point{2, 0}, 0)
	test.T(t, d.State(), grdrag.Merging)
	test.T(t, len(d.Draggers()), 3)
	merged := d.DraggerFor(a, grdrag.LinearBegin, 0, grdrag.Fill)
	test.T(t, draggables(merged), before)
	testPoint(t, merged.Point(), grdrag.Point{0, 0})
	p, _ := doc.Coords(b, grdrag.LinearBegin, 0, grdrag.Fill)
	testPoint(t, p, grdrag.Point{0, 0})
	test.T(t, hist.Actions(), []string{"Merge gradient handles"})
}

func TestSplitCenterFocus(t *testing.T) {
	doc := memdoc.New()
	a := radialItem(doc, "a", grdrag.Point{50, 50}, 50, 0.0, 1.0)
	d, hist, _ := newDrag(doc, a)

	center := d.DraggerFor(a, grdrag.RadialCenter, 0, grdrag.Fill)
	d.PointerDown(center)
	d.PointerMove(grdrag.Point{70, 50}, grdrag.Shift)

	test.T(t, len(center.Draggables()), 1)
	test.T(t, center.Draggables()[0].Role, grdrag.RadialFocus)
	front := d.Draggers()[0]
	test.T(t, front.Draggables()[0].Role, grdrag.RadialCenter)
	testPoint(t, front.Point(), grdrag.Point{50, 50})

	focus, _ := doc.Coords(a, grdrag.RadialFocus, 0, grdrag.Fill)
	testPoint(t, focus, grdrag.Point{70, 50})
	c, _ := doc.Coords(a, grdrag.RadialCenter, 0, grdrag.Fill)
	testPoint(t, c, grdrag.Point{50, 50})
	test.T(t, len(hist.Actions()), 0)

	d.PointerUp(grdrag.Shift)
	test.T(t, hist.Actions(), []string{"Move gradient handle"})
}

func TestAngleConstraint(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	d, _, _ := newDrag(doc, a)

	end := d.DraggerFor(a, grdrag.LinearEnd, 1, grdrag.Fill)
	d.PointerDown(end)
	d.PointerMove(grdrag.Point{90, 30}, grdrag.Ctrl)
	test.T(t, d.State(), grdrag.Constraining)

	// 12 snaps per half turn gives steps of 15 degrees
	sin, cos := math.Sincos(15.0 * math.Pi / 180.0)
	r := 90.0*cos + 30.0*sin
	testPoint(t, end.Point(), grdrag.Point{r * cos, r * sin})
}

func TestMidpointSnap(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.3, 1.0)
	d, hist, _ := newDrag(doc, a)

	mid := d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill)
	d.PointerDown(mid)
	d.PointerMove(grdrag.Point{52, 10}, grdrag.Ctrl)
	testPoint(t, mid.Point(), grdrag.Point{50, 0})
	test.Float(t, doc.Stops(a, grdrag.Fill)[1].Offset, 0.5)

	d.PointerMove(grdrag.Point{150, 10}, 0)
	testPoint(t, mid.Point(), grdrag.Point{100, 0})

	d.PointerUp(0)
	test.Float(t, doc.Stops(a, grdrag.Fill)[1].Offset, 1.0)
	test.T(t, hist.Actions(), []string{"Move gradient handle"})
}

func TestMidpointsMoveTogether(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.2, 0.4, 1.0)
	d, _, _ := newDrag(doc, a)

	mid1 := d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill)
	mid2 := d.DraggerFor(a, grdrag.LinearMid, 2, grdrag.Fill)
	d.SetSelected(mid1, false, true)
	d.SetSelected(mid2, true, false)

	d.PointerDown(mid1)
	d.PointerMove(grdrag.Point{30, 0}, 0)
	testPoint(t, mid1.Point(), grdrag.Point{30, 0})
	testPoint(t, mid2.Point(), grdrag.Point{50, 0})

	// the pair is limited by the end stop
	d.PointerMove(grdrag.Point{90, 0}, 0)
	testPoint(t, mid1.Point(), grdrag.Point{80, 0})
	testPoint(t, mid2.Point(), grdrag.Point{100, 0})
	d.PointerUp(0)
	test.That(t, d.IsSelected(mid1) && d.IsSelected(mid2), "selection is kept")
}

func TestClick(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.5, 1.0)
	d, hist, _ := newDrag(doc, a)

	begin := d.DraggerFor(a, grdrag.LinearBegin, 0, grdrag.Fill)
	end := d.DraggerFor(a, grdrag.LinearEnd, 2, grdrag.Fill)
	d.Click(begin, 0)
	d.Click(end, grdrag.Shift)
	test.T(t, d.Selected(), []*grdrag.Dragger{begin, end})
	d.Click(begin, grdrag.Shift)
	test.T(t, d.Selected(), []*grdrag.Dragger{end})
	d.Click(begin, 0)
	test.T(t, d.Selected(), []*grdrag.Dragger{begin})

	d.Click(d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill), grdrag.Ctrl|grdrag.Alt)
	test.T(t, len(doc.Stops(a, grdrag.Fill)), 2)
	test.T(t, len(d.Draggers()), 2)
	test.T(t, hist.Actions(), []string{"Delete gradient stop"})

	// a gradient keeps at least two stops
	d.Click(d.DraggerFor(a, grdrag.LinearEnd, 1, grdrag.Fill), grdrag.Ctrl|grdrag.Alt)
	test.T(t, len(doc.Stops(a, grdrag.Fill)), 2)
	test.T(t, len(hist.Actions()), 1)
}

func TestDeleteFirstStop(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.25, 0.5, 1.0)
	d, hist, _ := newDrag(doc, a)

	d.SetSelected(d.DraggerFor(a, grdrag.LinearBegin, 0, grdrag.Fill), false, true)
	d.DeleteSelected(false)
	test.T(t, hist.Actions(), []string{"Delete gradient stop(s)"})

	s := doc.Stops(a, grdrag.Fill)
	test.T(t, len(s), 3)
	test.Float(t, s[0].Offset, 0.0)
	test.Float(t, s[1].Offset, 1.0/3.0)
	test.Float(t, s[2].Offset, 1.0)
	test.T(t, s[0].Color, green)

	begin, _ := doc.Coords(a, grdrag.LinearBegin, 0, grdrag.Fill)
	testPoint(t, begin, grdrag.Point{25, 0})
	test.T(t, len(d.Draggers()), 3)
	test.T(t, len(d.Selected()), 0)
}

func TestDeleteLastStops(t *testing.T) {
	var tests = []struct {
		role   grdrag.Role
		offset float64
		p      grdrag.Point
	}{
		{grdrag.LinearEnd, 0.5, grdrag.Point{50, 0}},
		{grdrag.RadialR1, 0.5, grdrag.Point{75, 50}},
		{grdrag.RadialCenter, 0.0, grdrag.Point{50, 50}},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			doc := memdoc.New()
			var a *memdoc.Item
			if tt.role == grdrag.LinearEnd {
				a = linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.5, 1.0)
			} else {
				a = radialItem(doc, "a", grdrag.Point{50, 50}, 50, 0.0, 0.5, 1.0)
			}
			d, _, _ := newDrag(doc, a)

			d.SetSelected(d.DraggerFor(a, tt.role, -1, grdrag.Fill), false, true)
			d.DeleteSelected(false)
			s := doc.Stops(a, grdrag.Fill)
			test.T(t, len(s), 2)
			test.Float(t, s[0].Offset, 0.0)
			test.Float(t, s[1].Offset, 1.0)

			p, ok := doc.Coords(a, tt.role, 1, grdrag.Fill)
			test.That(t, ok)
			testPoint(t, p, tt.p)
		})
	}
}

func TestDeleteUnsetsGradient(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	d, hist, _ := newDrag(doc, a)

	d.SelectAll()
	d.DeleteSelected(true)
	test.T(t, doc.Kind(a, grdrag.Fill), grdrag.NoGradient)
	test.T(t, a.Fill, memdoc.Paint{Set: true, Color: green})
	test.T(t, len(d.Draggers()), 0)
	test.T(t, hist.Actions(), []string{"Delete gradient stop(s)"})
}

func TestKeyPress(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.5, 1.0)
	d, hist, desktop := newDrag(doc, a)

	test.That(t, !d.KeyPress(grdrag.KeyRight, 0), "nothing selected")
	test.That(t, d.KeyPress(grdrag.KeyTab, 0))
	test.That(t, d.KeyPress(grdrag.KeyTab, 0))
	test.That(t, d.KeyPress(grdrag.KeyTab, 0))
	end := d.DraggerFor(a, grdrag.LinearEnd, 2, grdrag.Fill)
	test.T(t, d.Selected(), []*grdrag.Dragger{end})

	test.That(t, d.KeyPress(grdrag.KeyRight, 0))
	test.That(t, d.KeyPress(grdrag.KeyRight, grdrag.Shift))
	testPoint(t, end.Point(), grdrag.Point{122, 0})
	test.T(t, hist.Actions(), []string{"Move gradient handle(s)"}, "nudges coalesce")

	test.That(t, d.KeyPress(grdrag.KeyUp, 0))
	testPoint(t, end.Point(), grdrag.Point{122, -2})
	desktop.YDown = false
	test.That(t, d.KeyPress(grdrag.KeyUp, 0))
	testPoint(t, end.Point(), grdrag.Point{122, 0})

	desktop.Scale = 4.0
	test.That(t, d.KeyPress(grdrag.KeyLeft, grdrag.Alt))
	testPoint(t, end.Point(), grdrag.Point{121.75, 0})
	test.That(t, !d.KeyPress(grdrag.KeyLeft, grdrag.Ctrl))

	test.That(t, d.KeyPress(grdrag.KeyTab, grdrag.Shift))
	test.T(t, d.Selected()[0], d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill))
	test.That(t, d.KeyPress(grdrag.KeyEscape, 0))
	test.T(t, len(d.Selected()), 0)
	test.That(t, !d.KeyPress(grdrag.KeyDelete, 0))
}

func TestSelection(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.5, 1.0)
	b := radialItem(doc, "b", grdrag.Point{50, 100}, 20, 0.0, 1.0)
	d, _, _ := newDrag(doc, a, b)

	d.SelectRect(grdrag.Rect{-10, -10, 70, 20})
	test.T(t, len(d.Selected()), 2)
	d.SelectByCoords([]grdrag.Point{{50, 100}, {1000, 1000}})
	test.T(t, len(d.Selected()), 3)
	d.DeselectAll()

	dr := d.SelectByStop(grdrag.StopRef{Item: b, Target: grdrag.Fill, Index: 1}, false, true)
	test.That(t, dr != nil)
	test.That(t, dr.Selected())
	test.T(t, dr.Draggables()[0].Role, grdrag.RadialR1)
	test.That(t, d.SelectByStop(grdrag.StopRef{Item: b, Target: grdrag.Stroke, Index: 0}, false, true) == nil)

	d.SelectAll()
	test.T(t, len(d.Selected()), len(d.Draggers()))
	d.SetDeselected(dr)
	test.T(t, len(d.Selected()), len(d.Draggers())-1)
}

func TestSelectionRestored(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	doc.Selection().Set(a)
	hist := memdoc.NewHistory(doc)
	desktop := grdrag.NewHeadless()

	d := grdrag.New(doc, doc.Selection(), hist, nil, desktop, nil)
	d.SetSelected(d.DraggerFor(a, grdrag.LinearEnd, 1, grdrag.Fill), false, true)
	d.Close()

	d = grdrag.New(doc, doc.Selection(), hist, nil, desktop, nil)
	test.T(t, len(d.Selected()), 1)
	test.T(t, d.Selected()[0], d.DraggerFor(a, grdrag.LinearEnd, 1, grdrag.Fill))
}

func TestSelectionChanged(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	b := radialItem(doc, "b", grdrag.Point{50, 100}, 20, 0.0, 1.0)
	d, _, _ := newDrag(doc, a)
	test.T(t, len(d.Draggers()), 2)

	doc.Selection().Add(b)
	test.T(t, len(d.Draggers()), 5)
	doc.Selection().Clear()
	test.T(t, len(d.Draggers()), 0)
	test.T(t, a.Holds(), 0)
}

func TestRejectedMoveRebuilds(t *testing.T) {
	doc := memdoc.New()
	a := radialItem(doc, "a", grdrag.Point{50, 50}, 50, 0.0, 1.0)
	a.Fill.Gradient.F = grdrag.Point{70, 50}
	d, _, _ := newDrag(doc, a)
	test.T(t, len(d.Draggers()), 4)

	// a zero radius is refused and the document is left untouched
	d.PointerDown(d.DraggerFor(a, grdrag.RadialR1, 1, grdrag.Fill))
	d.PointerMove(grdrag.Point{50, 50}, 0)
	d.PointerUp(0)
	r1, _ := doc.Coords(a, grdrag.RadialR1, 1, grdrag.Fill)
	testPoint(t, r1, grdrag.Point{100, 50})

	// later modifications from elsewhere rebuild the draggers
	doc.SetStops(a, grdrag.Fill, stops(0.0, 0.5, 1.0))
	test.T(t, len(d.Draggers()), 6)
	test.That(t, d.DraggerFor(a, grdrag.RadialMid1, 1, grdrag.Fill) != nil)
	test.That(t, d.DraggerFor(a, grdrag.RadialMid2, 1, grdrag.Fill) != nil)
}

func TestUndoRebuilds(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.5, 1.0)
	d, hist, _ := newDrag(doc, a)

	d.PointerDown(d.DraggerFor(a, grdrag.LinearEnd, 2, grdrag.Fill))
	d.PointerMove(grdrag.Point{200, 0}, 0)
	d.PointerUp(0)
	testPoint(t, d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill).Point(), grdrag.Point{100, 0})

	_, err := hist.Undo()
	test.Error(t, err)
	testPoint(t, d.DraggerFor(a, grdrag.LinearEnd, 2, grdrag.Fill).Point(), grdrag.Point{100, 0})
	testPoint(t, d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill).Point(), grdrag.Point{50, 0})
}

func TestAddStopNearPoint(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	b := radialItem(doc, "b", grdrag.Point{50, 100}, 40, 0.0, 1.0)
	d, _, _ := newDrag(doc, a, b)

	_, ok := d.AddStopNearPoint(a, grdrag.Point{25, 10}, 5.0)
	test.That(t, !ok)

	ref, ok := d.AddStopNearPoint(a, grdrag.Point{25, 1}, 5.0)
	test.That(t, ok)
	test.T(t, ref, grdrag.StopRef{Item: a, Target: grdrag.Fill, Index: 1})
	s := doc.Stops(a, grdrag.Fill)
	test.T(t, len(s), 3)
	test.Float(t, s[1].Offset, 0.25)
	test.T(t, s[1].Color, color.NRGBA{191, 64, 0, 255})

	mid := d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill)
	test.That(t, mid != nil)
	test.T(t, d.Selected(), []*grdrag.Dragger{mid})

	// the second radius of a radial gradient points up
	ref, ok = d.AddStopNearPoint(b, grdrag.Point{51, 80}, 5.0)
	test.That(t, ok)
	test.T(t, ref.Index, 1)
	test.Float(t, doc.Stops(b, grdrag.Fill)[1].Offset, 0.5)
	test.That(t, d.DraggerFor(b, grdrag.RadialMid2, 1, grdrag.Fill) != nil)
}

func TestDropColor(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	d, hist, _ := newDrag(doc, a)

	test.That(t, d.DropColor(blue, grdrag.Point{98, 2}))
	test.T(t, doc.Stops(a, grdrag.Fill)[1].Color, blue)

	test.That(t, d.DropColor(blue, grdrag.Point{50, 2}))
	s := doc.Stops(a, grdrag.Fill)
	test.T(t, len(s), 3)
	test.T(t, s[1].Color, blue)
	test.T(t, hist.Actions(), []string{"Set gradient stop color", "Add gradient stop"})

	test.That(t, !d.DropColor(blue, grdrag.Point{50, 50}))
}

func TestColor(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	d, _, _ := newDrag(doc, a)

	_, ok := d.Color()
	test.That(t, !ok)

	d.SelectAll()
	c, ok := d.Color()
	test.That(t, ok)
	test.T(t, c, color.NRGBA{128, 128, 0, 255})

	test.That(t, d.SetSelectedColor(blue))
	c, _ = d.Color()
	test.T(t, c, blue)
}

func TestReverseVector(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.3, 1.0)
	d, hist, _ := newDrag(doc, a)

	test.That(t, !d.SelectedReverseVector())
	d.SetSelected(d.DraggerFor(a, grdrag.LinearBegin, 0, grdrag.Fill), false, true)
	test.That(t, d.SelectedReverseVector())

	s := doc.Stops(a, grdrag.Fill)
	test.T(t, s[0].Color, blue)
	test.Float(t, s[1].Offset, 0.7)
	test.T(t, s[2].Color, red)
	testPoint(t, d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill).Point(), grdrag.Point{70, 0})
	test.T(t, hist.Actions(), []string{"Reverse gradient"})
}

func TestMouseOver(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 1.0)
	d, _, desktop := newDrag(doc, a)

	test.That(t, !d.MouseOver())
	desktop.Hover(grdrag.Point{99, 1}, 5.0)
	test.That(t, d.MouseOver())
	test.That(t, d.DraggerFor(a, grdrag.LinearEnd, 1, grdrag.Fill).MouseOver())
	desktop.Hover(grdrag.Point{50, 50}, 5.0)
	test.That(t, !d.MouseOver())
}

func TestMesh(t *testing.T) {
	doc := memdoc.New()
	a := doc.NewItem("a", "rect", grdrag.Rect{0, 0, 90, 90})
	a.Fill.Gradient = memdoc.NewMesh("m", grdrag.Rect{0, 0, 90, 90}, 1, 1, []color.NRGBA{red, green, blue, red})
	d, hist, _ := newDrag(doc, a)

	test.T(t, len(d.Draggers()), 16)
	visible := 0
	for _, dr := range d.Draggers() {
		if dr.Visible() {
			visible++
		}
	}
	test.T(t, visible, 4, "unset handles and tensors are hidden")
	test.T(t, len(d.Lines()), 4)

	corner := d.DraggerFor(a, grdrag.MeshCorner, 0, grdrag.Fill)
	handle := d.DraggerFor(a, grdrag.MeshHandle, 0, grdrag.Fill)
	d.PointerDown(corner)
	test.That(t, handle.Highlighted())
	d.PointerMove(grdrag.Point{10, 10}, 0)
	d.PointerUp(0)

	testPoint(t, corner.Point(), grdrag.Point{10, 10})
	testPoint(t, handle.Point(), grdrag.Point{10 + 80.0/3.0, 10 - 10.0/3.0})
	test.T(t, hist.Actions(), []string{"Move gradient handle"})

	// a click on the top edge splits the column
	ref, ok := d.AddStopNearPoint(a, grdrag.Point{45, 5}, 2.0)
	test.That(t, ok)
	test.T(t, ref.Index, -1)
	test.T(t, len(d.Draggers()), 28)
	test.T(t, hist.Actions()[1], "Added patch row or column")
}

func TestDoubleClickGrabKnot(t *testing.T) {
	doc := memdoc.New()
	a := linearItem(doc, "a", grdrag.Point{0, 0}, grdrag.Point{100, 0}, 0.0, 0.5, 1.0)
	d, hist, _ := newDrag(doc, a)

	mid := d.DraggerFor(a, grdrag.LinearMid, 1, grdrag.Fill)
	ref, ok := d.DoubleClick(mid)
	test.That(t, ok)
	test.T(t, ref, grdrag.StopRef{Item: a, Target: grdrag.Fill, Index: 1})
	test.T(t, d.Selected(), []*grdrag.Dragger{mid})

	ref, ok = d.DoubleClick(d.DraggerFor(a, grdrag.LinearEnd, -1, grdrag.Fill))
	test.That(t, ok)
	test.T(t, ref.Index, 2)
	_, ok = d.DoubleClick(nil)
	test.That(t, !ok)

	end := d.GrabKnot(a, grdrag.LinearEnd, -1, grdrag.Fill)
	test.That(t, end != nil)
	test.T(t, d.Grabbed(), end)
	test.T(t, d.State(), grdrag.Dragging)
	d.PointerMove(grdrag.Point{50, 40}, 0)
	d.PointerUp(0)
	testPoint(t, end.Point(), grdrag.Point{50, 40})
	test.T(t, hist.Actions(), []string{"Move gradient handle"})
	test.That(t, d.GrabKnot(a, grdrag.RadialCenter, 0, grdrag.Fill) == nil)
}
