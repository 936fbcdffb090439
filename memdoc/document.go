// Package memdoc is an in-memory document model with gradients, a selection and an undo history. It implements the collaborators that the gradient drag controller needs.
package memdoc

import (
	"fmt"
	"image/color"
	"math"

	"github.com/tdewolff/grdrag"
)

// Vector is a list of gradient stops, which may be shared by several gradients.
type Vector struct {
	ID     string
	Stops  []grdrag.Stop
	Swatch bool
}

func (v *Vector) clone() *Vector {
	return &Vector{
		ID:     v.ID,
		Stops:  append([]grdrag.Stop{}, v.Stops...),
		Swatch: v.Swatch,
	}
}

// Gradient is a paint server in gradient space, which maps to item space through Transform. Linear gradients run from P1 to P2, radial gradients have a center C, focus F and radius R, and mesh gradients have a grid of Nodes.
type Gradient struct {
	ID        string
	Kind      grdrag.Kind
	Vector    *Vector
	Transform grdrag.Matrix

	P1, P2 grdrag.Point
	C, F   grdrag.Point
	R      float64
	Nodes  [][]grdrag.MeshNode
}

// Clone returns a copy of the gradient that shares its vector.
func (g *Gradient) Clone() *Gradient {
	h := *g
	h.Nodes = make([][]grdrag.MeshNode, len(g.Nodes))
	for i := range g.Nodes {
		h.Nodes[i] = append([]grdrag.MeshNode{}, g.Nodes[i]...)
	}
	return &h
}

// Paint is the fill or stroke of an item: nothing, a flat color or a gradient.
type Paint struct {
	Set      bool
	Color    color.NRGBA
	Gradient *Gradient
}

// Item is a shape in the document with a bounding box in item space and a transformation from item space to desktop space.
type Item struct {
	Tag       string
	Box       grdrag.Rect
	Transform grdrag.Matrix
	Fill      Paint
	Stroke    Paint

	id    string
	doc   *Document
	holds int
}

// ID returns the identifier of the item.
func (it *Item) ID() string {
	return it.id
}

// Holds returns the number of draggables that refer to the item.
func (it *Item) Holds() int {
	return it.holds
}

// Paint returns the fill or stroke.
func (it *Item) Paint(target grdrag.Target) *Paint {
	if target == grdrag.Stroke {
		return &it.Stroke
	}
	return &it.Fill
}

// Document holds the items and implements grdrag.Document. Every mutation of a selected item notifies the modified subscribers of the selection.
type Document struct {
	Width, Height float64

	items  []*Item
	sel    *Selection
	writes int
	forks  int
}

// New returns an empty document.
func New() *Document {
	doc := &Document{}
	doc.sel = newSelection(doc)
	return doc
}

// Selection returns the selection of the document.
func (doc *Document) Selection() *Selection {
	return doc.sel
}

// NewItem appends an item with an identity transformation and no paint.
func (doc *Document) NewItem(id, tag string, box grdrag.Rect) *Item {
	it := &Item{
		Tag:       tag,
		Box:       box,
		Transform: grdrag.Identity,
		id:        id,
		doc:       doc,
	}
	doc.items = append(doc.items, it)
	return it
}

// Items returns all items in document order.
func (doc *Document) Items() []*Item {
	return append([]*Item{}, doc.items...)
}

// Item returns the item with the given identifier, or nil.
func (doc *Document) Item(id string) *Item {
	for _, it := range doc.items {
		if it.id == id {
			return it
		}
	}
	return nil
}

// Writes returns the number of committed writes, which excludes the live updates during a drag.
func (doc *Document) Writes() int {
	return doc.writes
}

func (doc *Document) item(item grdrag.Item) (*Item, bool) {
	it, ok := item.(*Item)
	if !ok || it == nil || it.doc != doc {
		return nil, false
	}
	return it, true
}

func (doc *Document) gradient(item grdrag.Item, target grdrag.Target) (*Item, *Gradient, bool) {
	it, ok := doc.item(item)
	if !ok {
		return nil, nil, false
	}
	g := it.Paint(target).Gradient
	if g == nil {
		return nil, nil, false
	}
	return it, g, true
}

// modified records a mutation of the item.
func (doc *Document) modified(it *Item, write bool) {
	if write {
		doc.writes++
	}
	if doc.sel.Contains(it) {
		doc.sel.emitModified()
	}
}

// toDesktop returns the transformation from gradient space to desktop space.
func toDesktop(it *Item, g *Gradient) grdrag.Matrix {
	return it.Transform.Mul(g.Transform)
}

// Kind implements grdrag.Document.
func (doc *Document) Kind(item grdrag.Item, target grdrag.Target) grdrag.Kind {
	_, g, ok := doc.gradient(item, target)
	if !ok {
		return grdrag.NoGradient
	} else if g.Kind == grdrag.Mesh {
		if rows, cols := grdrag.MeshSize(g.Nodes); rows == 0 || cols == 0 {
			return grdrag.NoGradient
		}
		return grdrag.Mesh
	} else if g.Vector == nil || g.Vector.Swatch || len(g.Vector.Stops) < 2 {
		return grdrag.NoGradient
	}
	return g.Kind
}

// Describe implements grdrag.Document.
func (doc *Document) Describe(item grdrag.Item) string {
	it, ok := doc.item(item)
	if !ok {
		return "unknown item"
	}
	tag := it.Tag
	if tag == "" {
		tag = "item"
	}
	return fmt.Sprintf("%s #%s", tag, it.id)
}

// Bounds implements grdrag.Document.
func (doc *Document) Bounds(item grdrag.Item) (grdrag.Rect, bool) {
	it, ok := doc.item(item)
	if !ok {
		return grdrag.Rect{}, false
	}
	return it.Box.Transform(it.Transform), true
}

// Hold implements grdrag.Document.
func (doc *Document) Hold(item grdrag.Item) {
	if it, ok := doc.item(item); ok {
		it.holds++
	}
}

// Release implements grdrag.Document.
func (doc *Document) Release(item grdrag.Item) {
	if it, ok := doc.item(item); ok && 0 < it.holds {
		it.holds--
	}
}

// Coords implements grdrag.Document.
func (doc *Document) Coords(item grdrag.Item, role grdrag.Role, index int, target grdrag.Target) (grdrag.Point, bool) {
	it, g, ok := doc.gradient(item, target)
	if !ok || role.Kind() != g.Kind {
		return grdrag.Point{}, false
	}
	m := toDesktop(it, g)
	switch role {
	case grdrag.LinearBegin:
		return m.Dot(g.P1), true
	case grdrag.LinearEnd:
		return m.Dot(g.P2), true
	case grdrag.RadialCenter:
		return m.Dot(g.C), true
	case grdrag.RadialFocus:
		return m.Dot(g.F), true
	case grdrag.RadialR1:
		return m.Dot(g.C.Add(grdrag.Point{X: g.R})), true
	case grdrag.RadialR2:
		return m.Dot(g.C.Add(grdrag.Point{Y: -g.R})), true
	case grdrag.LinearMid, grdrag.RadialMid1, grdrag.RadialMid2:
		if g.Vector == nil || index <= 0 || len(g.Vector.Stops)-1 <= index {
			return grdrag.Point{}, false
		}
		offset := g.Vector.Stops[index].Offset
		switch role {
		case grdrag.LinearMid:
			return m.Dot(g.P1.Interpolate(g.P2, offset)), true
		case grdrag.RadialMid1:
			return m.Dot(g.C.Add(grdrag.Point{X: g.R * offset})), true
		}
		return m.Dot(g.C.Add(grdrag.Point{Y: -g.R * offset})), true
	case grdrag.MeshCorner, grdrag.MeshHandle, grdrag.MeshTensor:
		typ := grdrag.CornerNode
		if role == grdrag.MeshHandle {
			typ = grdrag.HandleNode
		} else if role == grdrag.MeshTensor {
			typ = grdrag.TensorNode
		}
		i, j, ok := grdrag.MeshPosition(g.Nodes, typ, index)
		if !ok {
			return grdrag.Point{}, false
		}
		return m.Dot(g.Nodes[i][j].Point), true
	}
	return grdrag.Point{}, false
}

// SetCoords implements grdrag.Document. Moving a linear end point with scaleRadial moves the other end point in the opposite direction. Moving a radius rotates and scales the gradient around its center, both radii scale together with scaleRadial.
func (doc *Document) SetCoords(item grdrag.Item, role grdrag.Role, index int, target grdrag.Target, p grdrag.Point, write, scaleRadial bool) {
	it, g, ok := doc.gradient(item, target)
	if !ok || role.Kind() != g.Kind {
		return
	}
	m := toDesktop(it, g)
	if !m.IsInvertible() {
		return
	}
	q := m.Inv().Dot(p)

	switch role {
	case grdrag.LinearBegin:
		if scaleRadial {
			g.P2 = g.P2.Add(g.P1.Sub(q))
		}
		g.P1 = q
	case grdrag.LinearEnd:
		if scaleRadial {
			g.P1 = g.P1.Add(g.P2.Sub(q))
		}
		g.P2 = q
	case grdrag.RadialCenter:
		g.F = g.F.Add(q.Sub(g.C))
		g.C = q
	case grdrag.RadialFocus:
		g.F = q
	case grdrag.RadialR1, grdrag.RadialR2:
		center := m.Dot(g.C)
		var axis grdrag.Point
		if role == grdrag.RadialR1 {
			axis = m.Dot(g.C.Add(grdrag.Point{X: g.R})).Sub(center)
		} else {
			axis = m.Dot(g.C.Add(grdrag.Point{Y: -g.R})).Sub(center)
		}
		v := p.Sub(center)
		if axis.IsZero() || v.IsZero() {
			return
		}
		s := v.Length() / axis.Length()
		sy := 1.0
		if scaleRadial {
			sy = s
		}
		angle := axis.Angle() * 180.0 / math.Pi
		rotate := v.Angle()*180.0/math.Pi - angle
		move := grdrag.Identity.Translate(center.X, center.Y).Rotate(angle+rotate).Scale(s, sy).Rotate(-angle).Translate(-center.X, -center.Y)
		if !it.Transform.IsInvertible() {
			return
		}
		g.Transform = it.Transform.Inv().Mul(move).Mul(it.Transform).Mul(g.Transform)
	case grdrag.LinearMid, grdrag.RadialMid1, grdrag.RadialMid2:
		stops := g.Vector.Stops
		if index <= 0 || len(stops)-1 <= index {
			return
		}
		var begin, end grdrag.Point
		switch role {
		case grdrag.LinearMid:
			begin, end = g.P1, g.P2
		case grdrag.RadialMid1:
			begin, end = g.C, g.C.Add(grdrag.Point{X: g.R})
		default:
			begin, end = g.C, g.C.Add(grdrag.Point{Y: -g.R})
		}
		offset := grdrag.LineNearestTime(begin, end, q)
		offset = math.Max(stops[index-1].Offset, math.Min(stops[index+1].Offset, offset))
		doc.forkVector(g)
		g.Vector.Stops[index].Offset = offset
	case grdrag.MeshCorner, grdrag.MeshHandle, grdrag.MeshTensor:
		typ := grdrag.CornerNode
		if role == grdrag.MeshHandle {
			typ = grdrag.HandleNode
		} else if role == grdrag.MeshTensor {
			typ = grdrag.TensorNode
		}
		i, j, ok := grdrag.MeshPosition(g.Nodes, typ, index)
		if !ok {
			return
		}
		g.Nodes[i][j].Point = q
		if typ != grdrag.CornerNode {
			g.Nodes[i][j].Set = true
		}
	default:
		return
	}
	doc.modified(it, write)
}

// Stops implements grdrag.Document.
func (doc *Document) Stops(item grdrag.Item, target grdrag.Target) []grdrag.Stop {
	_, g, ok := doc.gradient(item, target)
	if !ok || g.Vector == nil {
		return nil
	}
	return append([]grdrag.Stop{}, g.Vector.Stops...)
}

// SetStops implements grdrag.Document.
func (doc *Document) SetStops(item grdrag.Item, target grdrag.Target, stops []grdrag.Stop) {
	it, g, ok := doc.gradient(item, target)
	if !ok {
		return
	}
	if g.Vector == nil {
		g.Vector = &Vector{}
	} else {
		doc.forkVector(g)
	}
	g.Vector.Stops = append([]grdrag.Stop{}, stops...)
	doc.modified(it, true)
}

// forkVector gives the gradient its own copy of its vector if other gradients use it too.
func (doc *Document) forkVector(g *Gradient) {
	if g.Vector == nil || doc.vectorUsers(g.Vector) < 2 {
		return
	}
	doc.forks++
	v := g.Vector.clone()
	v.ID = fmt.Sprintf("%s-%d", v.ID, doc.forks)
	g.Vector = v
}

func (doc *Document) vectorUsers(v *Vector) int {
	n := 0
	for _, it := range doc.items {
		for _, target := range grdrag.Targets {
			if g := it.Paint(target).Gradient; g != nil && g.Vector == v {
				n++
			}
		}
	}
	return n
}

// UnsetGradient implements grdrag.Document.
func (doc *Document) UnsetGradient(item grdrag.Item, target grdrag.Target, flat color.NRGBA, valid bool) {
	it, ok := doc.item(item)
	if !ok {
		return
	}
	*it.Paint(target) = Paint{
		Set:   valid,
		Color: flat,
	}
	doc.modified(it, true)
}

// MeshNodes implements grdrag.Document.
func (doc *Document) MeshNodes(item grdrag.Item, target grdrag.Target) [][]grdrag.MeshNode {
	it, g, ok := doc.gradient(item, target)
	if !ok || g.Kind != grdrag.Mesh {
		return nil
	}
	m := toDesktop(it, g)
	nodes := make([][]grdrag.MeshNode, len(g.Nodes))
	for i := range g.Nodes {
		nodes[i] = make([]grdrag.MeshNode, len(g.Nodes[i]))
		for j, node := range g.Nodes[i] {
			node.Point = m.Dot(node.Point)
			nodes[i][j] = node
		}
	}
	return nodes
}

// SetMeshCornerColor implements grdrag.Document.
func (doc *Document) SetMeshCornerColor(item grdrag.Item, target grdrag.Target, corner int, c color.NRGBA) {
	it, g, ok := doc.gradient(item, target)
	if !ok || g.Kind != grdrag.Mesh {
		return
	}
	if i, j, ok := grdrag.MeshPosition(g.Nodes, grdrag.CornerNode, corner); ok {
		g.Nodes[i][j].Color = c
		doc.modified(it, true)
	}
}

// SplitMeshRow implements grdrag.Document.
func (doc *Document) SplitMeshRow(item grdrag.Item, target grdrag.Target, row int, t float64) {
	it, g, ok := doc.gradient(item, target)
	if !ok || g.Kind != grdrag.Mesh {
		return
	}
	if nodes, ok := splitRow(g.Nodes, row, t); ok {
		g.Nodes = nodes
		doc.modified(it, true)
	}
}

// SplitMeshColumn implements grdrag.Document.
func (doc *Document) SplitMeshColumn(item grdrag.Item, target grdrag.Target, col int, t float64) {
	it, g, ok := doc.gradient(item, target)
	if !ok || g.Kind != grdrag.Mesh {
		return
	}
	if nodes, ok := splitRow(transpose(g.Nodes), col, t); ok {
		g.Nodes = transpose(nodes)
		doc.modified(it, true)
	}
}

// UpdateMeshHandles implements grdrag.Document.
func (doc *Document) UpdateMeshHandles(item grdrag.Item, target grdrag.Target, corner int, old grdrag.Point) {
	it, g, ok := doc.gradient(item, target)
	if !ok || g.Kind != grdrag.Mesh {
		return
	}
	m := toDesktop(it, g)
	if !m.IsInvertible() {
		return
	}
	if moveHandles(g.Nodes, corner, m.Inv().Dot(old)) {
		doc.modified(it, false)
	}
}

// NewLinear returns a linear gradient from p1 to p2 in item space.
func NewLinear(id string, v *Vector, p1, p2 grdrag.Point) *Gradient {
	return &Gradient{
		ID:        id,
		Kind:      grdrag.Linear,
		Vector:    v,
		Transform: grdrag.Identity,
		P1:        p1,
		P2:        p2,
	}
}

// NewRadial returns a radial gradient with its focus on its center in item space.
func NewRadial(id string, v *Vector, c grdrag.Point, r float64) *Gradient {
	return &Gradient{
		ID:        id,
		Kind:      grdrag.Radial,
		Vector:    v,
		Transform: grdrag.Identity,
		C:         c,
		F:         c,
		R:         r,
	}
}

// NewMesh returns a mesh gradient of rows by cols patches covering the rectangle, with straight edges and the given corner colors in row-major order. Missing colors are transparent.
func NewMesh(id string, r grdrag.Rect, rows, cols int, colors []color.NRGBA) *Gradient {
	nodes := make([][]grdrag.MeshNode, 3*rows+1)
	k := 0
	for i := range nodes {
		nodes[i] = make([]grdrag.MeshNode, 3*cols+1)
		for j := range nodes[i] {
			typ := grdrag.NodeTypeAt(i, j)
			node := grdrag.MeshNode{
				Type: typ,
				Set:  typ == grdrag.CornerNode,
				Point: grdrag.Point{
					X: r.X + r.W*float64(j)/float64(3*cols),
					Y: r.Y + r.H*float64(i)/float64(3*rows),
				},
			}
			if typ == grdrag.CornerNode {
				if k < len(colors) {
					node.Color = colors[k]
				}
				k++
			}
			nodes[i][j] = node
		}
	}
	resetUnset(nodes)
	return &Gradient{
		ID:        id,
		Kind:      grdrag.Mesh,
		Transform: grdrag.Identity,
		Nodes:     nodes,
	}
}

// NewMeshNodes returns a mesh gradient with the given node grid in item space. Handles and tensors that are not set are placed as for straight edges.
func NewMeshNodes(id string, nodes [][]grdrag.MeshNode) *Gradient {
	resetUnset(nodes)
	return &Gradient{
		ID:        id,
		Kind:      grdrag.Mesh,
		Transform: grdrag.Identity,
		Nodes:     nodes,
	}
}
