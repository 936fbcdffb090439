package grdrag

// Line is a connector drawn between draggers: a straight line along a gradient axis, or a cubic Bézier edge of a mesh patch.
type Line struct {
	Item   Item
	Target Target
	// Points holds the two end points of a straight line, or the four control points of a mesh edge.
	Points []Point
	// Corners and Handles hold the indices of the mesh nodes of an edge, -1 for straight lines.
	Corners     [2]int
	Handles     [2]int
	Highlighted bool
}

// IsStraight is true for gradient axes.
func (l Line) IsStraight() bool {
	return len(l.Points) == 2
}

// Distance returns the distance from p to the line.
func (l Line) Distance(p Point) float64 {
	if l.IsStraight() {
		return l.Points[0].Interpolate(l.Points[1], LineNearestTime(l.Points[0], l.Points[1], p)).Distance(p)
	}
	t := CubicBezierNearestTime(l.Points[0], l.Points[1], l.Points[2], l.Points[3], p)
	return CubicBezierPos(l.Points[0], l.Points[1], l.Points[2], l.Points[3], t).Distance(p)
}

// UpdateLines regenerates the connector lines of the selected items' gradients.
func (d *Drag) UpdateLines() {
	d.lines = d.lines[:0]
	for _, item := range d.sel.Items() {
		for _, target := range Targets {
			switch d.doc.Kind(item, target) {
			case Linear:
				d.addLine(item, target, LinearBegin, LinearEnd)
			case Radial:
				d.addLine(item, target, RadialCenter, RadialR1)
				d.addLine(item, target, RadialCenter, RadialR2)
			case Mesh:
				if target == Fill && d.opts.EditMeshFill || target == Stroke && d.opts.EditMeshStroke {
					d.addMeshLines(item, target)
				}
			}
		}
	}
}

func (d *Drag) addLine(item Item, target Target, from, to Role) {
	n := len(d.doc.Stops(item, target))
	p0, ok0 := d.doc.Coords(item, from, 0, target)
	p1, ok1 := d.doc.Coords(item, to, n-1, target)
	if !ok0 || !ok1 {
		return
	}
	d.lines = append(d.lines, Line{
		Item:    item,
		Target:  target,
		Points:  []Point{p0, p1},
		Corners: [2]int{-1, -1},
		Handles: [2]int{-1, -1},
	})
}

// addMeshLines adds the top and left edge of every patch, plus the right edges of the last column and the bottom edges of the last row. Edges run clockwise around their patch.
func (d *Drag) addMeshLines(item Item, target Target) {
	nodes := d.doc.MeshNodes(item, target)
	rows, cols := MeshSize(nodes)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			corner0 := i*(cols+1) + j
			corner1 := corner0 + 1
			corner2 := corner1 + cols + 1
			corner3 := corner2 - 1
			handle0 := 2*j + i*(2+4*cols)
			handle1 := handle0 + 1
			handle2 := j + i*(2+4*cols) + 2*cols + 1
			handle3 := j + i*(2+4*cols) + 3*cols + 2
			handle4 := handle1 + (2 + 4*cols)
			handle5 := handle0 + (2 + 4*cols)
			handle6 := handle3 - 1
			handle7 := handle2 - 1

			r, c := 3*i, 3*j
			top := []Point{nodes[r][c].Point, nodes[r][c+1].Point, nodes[r][c+2].Point, nodes[r][c+3].Point}
			d.addCurve(item, target, top, corner0, corner1, handle0, handle1)
			if j == cols-1 {
				right := []Point{nodes[r][c+3].Point, nodes[r+1][c+3].Point, nodes[r+2][c+3].Point, nodes[r+3][c+3].Point}
				d.addCurve(item, target, right, corner1, corner2, handle2, handle3)
			}
			if i == rows-1 {
				bottom := []Point{nodes[r+3][c+3].Point, nodes[r+3][c+2].Point, nodes[r+3][c+1].Point, nodes[r+3][c].Point}
				d.addCurve(item, target, bottom, corner2, corner3, handle4, handle5)
			}
			left := []Point{nodes[r+3][c].Point, nodes[r+2][c].Point, nodes[r+1][c].Point, nodes[r][c].Point}
			d.addCurve(item, target, left, corner3, corner0, handle6, handle7)
		}
	}
}

// addCurve adds a mesh edge, highlighted if the pointer is over one of its draggers.
func (d *Drag) addCurve(item Item, target Target, points []Point, corner0, corner1, handle0, handle1 int) {
	highlighted := false
	for _, dr := range []*Dragger{
		d.DraggerFor(item, MeshCorner, corner0, target),
		d.DraggerFor(item, MeshCorner, corner1, target),
		d.DraggerFor(item, MeshHandle, handle0, target),
		d.DraggerFor(item, MeshHandle, handle1, target),
	} {
		if dr != nil && dr.marker.MouseOver() {
			highlighted = true
			break
		}
	}
	d.lines = append(d.lines, Line{
		Item:        item,
		Target:      target,
		Points:      points,
		Corners:     [2]int{corner0, corner1},
		Handles:     [2]int{handle0, handle1},
		Highlighted: highlighted,
	})
}
