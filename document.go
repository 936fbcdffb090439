package grdrag

import (
	"image/color"
)

// Item is an object in the document that may be filled or stroked with a gradient. Items are compared by identity.
type Item interface {
	ID() string
}

// Stop is one color sample along a gradient's parametrization. The alpha channel holds the stop opacity.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// StopRef identifies a stop in the gradient vector of an item's fill or stroke.
type StopRef struct {
	Item   Item
	Target Target
	Index  int
}

// MeshNode is one node of a mesh gradient's node grid in desktop coordinates.
type MeshNode struct {
	Type  NodeType
	Set   bool
	Point Point
	Color color.NRGBA // corners only
}

// Document is the object model that owns the gradients. All points are in desktop coordinates, the document maps them to and from gradient space. Lookups report failure instead of panicking so that a stale model degrades to a no-op.
type Document interface {
	// Kind returns the gradient kind of the item's fill or stroke. Solid gradients, those that are flagged as a swatch or have fewer than two stops, report NoGradient.
	Kind(Item, Target) Kind
	// Describe returns a short human readable description of the item.
	Describe(Item) string
	// Bounds returns the visual bounding box of the item.
	Bounds(Item) (Rect, bool)
	// Hold and Release keep an item alive while a draggable refers to it.
	Hold(Item)
	Release(Item)

	Coords(item Item, role Role, index int, target Target) (Point, bool)
	// SetCoords moves a control point. Without write only the live representation is updated. With scaleRadial the radii of a radial gradient scale together.
	SetCoords(item Item, role Role, index int, target Target, p Point, write, scaleRadial bool)

	// Stops returns a copy of the stop vector.
	Stops(Item, Target) []Stop
	// SetStops replaces the stop vector, forking a shared vector first.
	SetStops(Item, Target, []Stop)
	// UnsetGradient removes the gradient from the item. If flat is valid the paint becomes that color, otherwise the property is unset.
	UnsetGradient(item Item, target Target, flat color.NRGBA, valid bool)

	// MeshNodes returns the node grid of a mesh gradient, with 3*rows+1 rows of 3*columns+1 nodes.
	MeshNodes(Item, Target) [][]MeshNode
	SetMeshCornerColor(item Item, target Target, corner int, c color.NRGBA)
	SplitMeshRow(item Item, target Target, row int, t float64)
	SplitMeshColumn(item Item, target Target, col int, t float64)
	// UpdateMeshHandles moves the handles adjacent to a corner that was moved away from old, and recomputes the tensors that were not set explicitly.
	UpdateMeshHandles(item Item, target Target, corner int, old Point)
}

// Undo is the document's undo log.
type Undo interface {
	// Done commits one undoable transaction.
	Done(label string)
	// MaybeDone commits a transaction that coalesces with the previous one if it has the same key.
	MaybeDone(key, label string)
}

// Selection is the set of selected items.
type Selection interface {
	Items() []Item
	// OnChanged is called when items enter or leave the selection. The returned function disconnects the callback.
	OnChanged(func()) func()
	// OnModified is called when a selected item or its paint servers are modified.
	OnModified(func()) func()
}

// SnapSource tags the kind of point that is being snapped.
type SnapSource int

// see SnapSource
const (
	SnapHandle SnapSource = iota
	SnapMidStop
)

// Constraint is a line through Origin along Direction.
type Constraint struct {
	Origin    Point
	Direction Point
}

// Project returns the point on the constraint closest to p.
func (c Constraint) Project(p Point) Point {
	d := c.Direction.Dot(c.Direction)
	if equal(d, 0.0) {
		return c.Origin
	}
	return c.Origin.Add(c.Direction.Mul(p.Sub(c.Origin).Dot(c.Direction) / d))
}

// Snapper snaps candidate points to guides, grids and other objects. The returned bool reports whether a snap target was found, otherwise the point is returned unchanged (or projected onto the constraint).
type Snapper interface {
	FreeSnap(p Point, source SnapSource) (Point, bool)
	ConstrainedSnap(p Point, source SnapSource, c Constraint) (Point, bool)
}

// Desktop is the canvas that displays the markers.
type Desktop interface {
	Zoom() float64
	// YAxisDown is true if the y-axis points downwards on screen.
	YAxisDown() bool
	NewMarker(Shape) Marker
	// LastSelected and SetLastSelected persist the selected point between controllers.
	LastSelected() (Draggable, bool)
	SetLastSelected(Draggable, bool)
}

// Marker is the on-canvas knot of a dragger.
type Marker interface {
	MoveTo(Point)
	SetShape(Shape)
	SetVisible(bool)
	SetSelected(bool)
	SetHighlighted(bool)
	SetTip(string)
	// MouseOver is true if the pointer is over the marker.
	MouseOver() bool
	Remove()
}

// MeshIndex returns the index of the node at (row,col) among the nodes of the same type, counted in row-major order.
func MeshIndex(nodes [][]MeshNode, row, col int) int {
	typ := NodeTypeAt(row, col)
	index := 0
	for i := range nodes {
		for j := range nodes[i] {
			if i == row && j == col {
				return index
			} else if NodeTypeAt(i, j) == typ {
				index++
			}
		}
	}
	return -1
}

// MeshPosition returns the grid position of the index'th node of the given type.
func MeshPosition(nodes [][]MeshNode, typ NodeType, index int) (int, int, bool) {
	for i := range nodes {
		for j := range nodes[i] {
			if NodeTypeAt(i, j) == typ {
				if index == 0 {
					return i, j, true
				}
				index--
			}
		}
	}
	return 0, 0, false
}

// MeshSize returns the number of patch rows and columns of a node grid.
func MeshSize(nodes [][]MeshNode) (int, int) {
	if len(nodes) < 4 || len(nodes[0]) < 4 {
		return 0, 0
	}
	return (len(nodes) - 1) / 3, (len(nodes[0]) - 1) / 3
}
