package grdrag

import (
	"image/color"
	"math"
	"slices"
)

// AddStopNearPoint inserts a stop into the fill or stroke gradient of the item where p lies within tolerance of a gradient axis, and selects its dragger. For mesh gradients the row or column of patches nearest to p is split instead, and the returned stop has index -1. It returns false if p is not near any axis or edge.
func (d *Drag) AddStopNearPoint(item Item, p Point, tolerance float64) (StopRef, bool) {
	for _, target := range Targets {
		switch d.doc.Kind(item, target) {
		case Linear:
			n := len(d.doc.Stops(item, target))
			begin, ok0 := d.doc.Coords(item, LinearBegin, 0, target)
			end, ok1 := d.doc.Coords(item, LinearEnd, n-1, target)
			if ok0 && ok1 {
				if offset, ok := axisOffset(begin, end, p, tolerance); ok {
					return d.insertStop(item, target, offset)
				}
			}
		case Radial:
			n := len(d.doc.Stops(item, target))
			center, ok := d.doc.Coords(item, RadialCenter, 0, target)
			if !ok {
				continue
			}
			for _, role := range []Role{RadialR1, RadialR2} {
				if r, ok := d.doc.Coords(item, role, n-1, target); ok {
					if offset, ok := axisOffset(center, r, p, tolerance); ok {
						return d.insertStop(item, target, offset)
					}
				}
			}
		case Mesh:
			if d.splitMeshNear(item, target, p, tolerance) {
				return StopRef{Item: item, Target: target, Index: -1}, true
			}
		}
	}
	return StopRef{}, false
}

// axisOffset returns the relative position along begin-end of the point nearest to p, if p is within tolerance.
func axisOffset(begin, end, p Point, tolerance float64) (float64, bool) {
	t := LineNearestTime(begin, end, p)
	if tolerance <= begin.Interpolate(end, t).Distance(p) {
		return 0.0, false
	}
	return t, true
}

func (d *Drag) insertStop(item Item, target Target, offset float64) (StopRef, bool) {
	stops := d.doc.Stops(item, target)
	for i := 0; i+1 < len(stops); i++ {
		prev, next := stops[i], stops[i+1]
		if prev.Offset < offset && offset < next.Offset {
			t := (offset - prev.Offset) / (next.Offset - prev.Offset)
			stops = slices.Insert(stops, i+1, Stop{
				Offset: offset,
				Color:  lerpColor(prev.Color, next.Color, t),
			})

			d.write(func() { d.doc.SetStops(item, target, stops) })
			d.Rebuild()
			d.UpdateLines()
			d.UpdateLevels()

			ref := StopRef{Item: item, Target: target, Index: i + 1}
			d.SelectByStop(ref, false, true)
			Logger().Debug("added gradient stop", "item", item.ID(), "target", target, "offset", offset)
			return ref, true
		}
	}
	Logger().Debug("no room for a gradient stop", "item", item.ID(), "target", target, "offset", offset)
	return StopRef{}, false
}

// splitMeshNear splits the row or column of patches whose edge passes nearest to p. Edges are visited like the mesh lines, and each edge splits the row or column that it crosses.
func (d *Drag) splitMeshNear(item Item, target Target, p Point, tolerance float64) bool {
	nodes := d.doc.MeshNodes(item, target)
	rows, cols := MeshSize(nodes)
	if rows == 0 || cols == 0 {
		return false
	}

	closest := math.Inf(1)
	row, col, coord := -1, -1, 0.5
	try := func(ps [4]Point, r, c int, reverse bool) {
		t := CubicBezierNearestTime(ps[0], ps[1], ps[2], ps[3], p)
		if dist := CubicBezierPos(ps[0], ps[1], ps[2], ps[3], t).Distance(p); dist < closest {
			if reverse {
				t = 1.0 - t
			}
			closest, row, col, coord = dist, r, c, t
		}
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			r, c := 3*i, 3*j
			try([4]Point{nodes[r][c].Point, nodes[r][c+1].Point, nodes[r][c+2].Point, nodes[r][c+3].Point}, -1, j, false)
			if j == cols-1 {
				try([4]Point{nodes[r][c+3].Point, nodes[r+1][c+3].Point, nodes[r+2][c+3].Point, nodes[r+3][c+3].Point}, i, -1, false)
			}
			if i == rows-1 {
				try([4]Point{nodes[r+3][c+3].Point, nodes[r+3][c+2].Point, nodes[r+3][c+1].Point, nodes[r+3][c].Point}, -1, j, true)
			}
			try([4]Point{nodes[r+3][c].Point, nodes[r+2][c].Point, nodes[r+1][c].Point, nodes[r][c].Point}, i, -1, true)
		}
	}
	if tolerance <= closest {
		return false
	}

	if row != -1 {
		d.doc.SplitMeshRow(item, target, row, coord)
	} else {
		d.doc.SplitMeshColumn(item, target, col, coord)
	}
	d.Rebuild()
	d.UpdateLines()
	d.undo.Done("Added patch row or column")
	return true
}

// DropColor sets the color of the stops of the dragger within the drop distance of p. Otherwise, if p lies on a gradient axis, a stop with the color is inserted there. It returns false if the color landed nowhere.
func (d *Drag) DropColor(c color.NRGBA, p Point) bool {
	if dr := d.DraggerAt(p); dr != nil {
		for _, da := range dr.draggables {
			d.setDraggableColor(da, c)
		}
		d.undo.Done("Set gradient stop color")
		return true
	}

	tolerance := d.opts.DropDistance / d.zoom()
	for _, line := range d.lines {
		if !line.IsStraight() || tolerance <= line.Distance(p) {
			continue
		}
		if ref, ok := d.AddStopNearPoint(line.Item, p, tolerance); ok && 0 <= ref.Index {
			stops := d.doc.Stops(ref.Item, ref.Target)
			if ref.Index < len(stops) {
				stops[ref.Index].Color = c
				d.write(func() { d.doc.SetStops(ref.Item, ref.Target, stops) })
			}
			d.undo.Done("Add gradient stop")
			return true
		}
	}
	return false
}

// setDraggableColor sets the color of the stop or mesh corner that the draggable edits.
func (d *Drag) setDraggableColor(da *Draggable, c color.NRGBA) {
	if da.Role.IsMesh() {
		if da.Role == MeshCorner {
			d.write(func() { d.doc.SetMeshCornerColor(da.Item, da.Target, da.Index, c) })
		}
		return
	}
	stops := d.doc.Stops(da.Item, da.Target)
	if i := da.StopIndex(len(stops)); 0 <= i && i < len(stops) {
		stops[i].Color = c
		d.write(func() { d.doc.SetStops(da.Item, da.Target, stops) })
	}
}

// SetSelectedColor sets the color of the stops of all selected draggers. It returns false if nothing is selected.
func (d *Drag) SetSelectedColor(c color.NRGBA) bool {
	if len(d.selected) == 0 {
		return false
	}
	for _, dr := range d.selected {
		for _, da := range dr.draggables {
			d.setDraggableColor(da, c)
		}
	}
	d.undo.MaybeDone("grcolor", "Set gradient stop color")
	return true
}

// Color returns the average color of the stops of all selected draggers, or false if nothing is selected.
func (d *Drag) Color() (color.NRGBA, bool) {
	var r, g, b, a float64
	count := 0
	for _, dr := range d.selected {
		for _, da := range dr.draggables {
			if c, ok := d.stopColor(da); ok {
				r += float64(c.R)
				g += float64(c.G)
				b += float64(c.B)
				a += float64(c.A)
				count++
			}
		}
	}
	if count == 0 {
		return color.NRGBA{}, false
	}
	n := float64(count)
	return color.NRGBA{
		R: uint8(math.Round(r / n)),
		G: uint8(math.Round(g / n)),
		B: uint8(math.Round(b / n)),
		A: uint8(math.Round(a / n)),
	}, true
}

// SelectedReverseVector reverses the stop vectors of the gradients of the first selected dragger.
func (d *Drag) SelectedReverseVector() bool {
	if len(d.selected) == 0 {
		return false
	}

	did := false
	var seen []gradientKey
	for _, da := range d.selected[0].draggables {
		key := gradientKey{da.Item, da.Target}
		if da.Role.IsMesh() || slices.Contains(seen, key) {
			continue
		}
		seen = append(seen, key)

		stops := d.doc.Stops(da.Item, da.Target)
		slices.Reverse(stops)
		for i := range stops {
			stops[i].Offset = 1.0 - stops[i].Offset
		}
		d.write(func() { d.doc.SetStops(da.Item, da.Target, stops) })
		did = true
	}
	if !did {
		return false
	}
	d.Rebuild()
	d.UpdateLines()
	d.undo.Done("Reverse gradient")
	return true
}
