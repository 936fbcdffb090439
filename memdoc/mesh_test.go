package memdoc

import (
	"image/color"
	"testing"

	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/test"
)

func TestNewMesh(t *testing.T) {
	g := NewMesh("m", grdrag.Rect{0, 0, 90, 60}, 1, 2, nil)
	rows, cols := grdrag.MeshSize(g.Nodes)
	test.T(t, rows, 1)
	test.T(t, cols, 2)
	test.T(t, len(g.Nodes), 4)
	test.T(t, len(g.Nodes[0]), 7)

	testPoint(t, g.Nodes[0][1].Point, grdrag.Point{15, 0})
	testPoint(t, g.Nodes[1][0].Point, grdrag.Point{0, 20})
	testPoint(t, g.Nodes[1][1].Point, grdrag.Point{15, 20})
	testPoint(t, g.Nodes[2][5].Point, grdrag.Point{75, 40})
	test.T(t, g.Nodes[1][1].Type, grdrag.TensorNode)
	test.That(t, !g.Nodes[1][1].Set)
	test.That(t, g.Nodes[3][6].Set)
}

func TestSplitRow(t *testing.T) {
	g := NewMesh("m", grdrag.Rect{0, 0, 90, 90}, 1, 1, []color.NRGBA{red, red, blue, blue})
	nodes, ok := splitRow(g.Nodes, 0, 0.5)
	test.That(t, ok)
	rows, cols := grdrag.MeshSize(nodes)
	test.T(t, rows, 2)
	test.T(t, cols, 1)
	testPoint(t, nodes[3][0].Point, grdrag.Point{0, 45})
	testPoint(t, nodes[3][3].Point, grdrag.Point{90, 45})
	testPoint(t, nodes[1][0].Point, grdrag.Point{0, 15})
	test.T(t, nodes[3][0].Type, grdrag.CornerNode)
	test.T(t, nodes[3][1].Type, grdrag.HandleNode)
	test.T(t, nodes[3][0].Color, lerpColor(red, blue, 0.5))

	_, ok = splitRow(g.Nodes, 1, 0.5)
	test.That(t, !ok, "row out of range")
	_, ok = splitRow(g.Nodes, 0, 1.0)
	test.That(t, !ok, "split at the edge")
}

func TestSplitColumn(t *testing.T) {
	doc := New()
	a := doc.NewItem("a", "rect", grdrag.Rect{0, 0, 90, 90})
	a.Fill.Gradient = NewMesh("m", grdrag.Rect{0, 0, 90, 90}, 1, 1, nil)

	doc.SplitMeshColumn(a, grdrag.Fill, 0, 1.0/3.0)
	nodes := doc.MeshNodes(a, grdrag.Fill)
	rows, cols := grdrag.MeshSize(nodes)
	test.T(t, rows, 1)
	test.T(t, cols, 2)
	testPoint(t, nodes[0][3].Point, grdrag.Point{30, 0})
	testPoint(t, nodes[3][3].Point, grdrag.Point{30, 90})

	p, ok := doc.Coords(a, grdrag.MeshCorner, 1, grdrag.Fill)
	test.That(t, ok)
	testPoint(t, p, grdrag.Point{30, 0})
}

func TestMoveHandles(t *testing.T) {
	doc := New()
	a := doc.NewItem("a", "rect", grdrag.Rect{0, 0, 90, 90})
	a.Transform = grdrag.Identity.Translate(100.0, 0.0)
	a.Fill.Gradient = NewMesh("m", grdrag.Rect{0, 0, 90, 90}, 1, 1, nil)

	// an explicitly set handle follows its corner, the others stay on the thirds
	doc.SetCoords(a, grdrag.MeshHandle, 0, grdrag.Fill, grdrag.Point{130, -10}, true, false)
	old, _ := doc.Coords(a, grdrag.MeshCorner, 0, grdrag.Fill)
	doc.SetCoords(a, grdrag.MeshCorner, 0, grdrag.Fill, grdrag.Point{100, 30}, false, false)
	doc.UpdateMeshHandles(a, grdrag.Fill, 0, old)

	nodes := doc.MeshNodes(a, grdrag.Fill)
	testPoint(t, nodes[0][1].Point, grdrag.Point{130, 20})
	testPoint(t, nodes[1][0].Point, grdrag.Point{100, 50})
	testPoint(t, nodes[2][0].Point, grdrag.Point{100, 70})
}
