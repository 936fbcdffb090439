package grdrag

import (
	"image/color"
	"slices"
	"sort"
)

// DeleteSelected deletes the stops of the selected draggers, or of the first selected dragger only with justOne. Deleting an end stop re-anchors the gradient's end point at the neighbouring stop so that the remaining stops keep their place on the canvas. A gradient that would keep fewer than two stops is removed from its item, which is painted with the color of the remaining stop instead.
func (d *Drag) DeleteSelected(justOne bool) {
	if len(d.selected) == 0 {
		return
	}

	var das []*Draggable
	for _, dr := range slices.Clone(d.selected) {
		for _, da := range dr.draggables {
			cp := *da
			das = append(das, &cp)
		}
		d.SetDeselected(dr)
		if justOne {
			break
		}
	}
	if d.deleteDraggables(das) {
		d.undo.Done("Delete gradient stop(s)")
	}
}

type gradientKey struct {
	item   Item
	target Target
}

type endStop struct {
	gradientKey
	role Role
}

// deleteDraggables deletes the stops of the draggables and rebuilds the draggers, it returns true if the document changed. Mid stops are deleted first, then the end stops one by one.
func (d *Drag) deleteDraggables(das []*Draggable) bool {
	mids := map[gradientKey][]int{}
	var midKeys []gradientKey
	var ends []endStop
	for _, da := range das {
		key := gradientKey{da.Item, da.Target}
		switch da.Role {
		case LinearMid, RadialMid1, RadialMid2:
			if _, ok := mids[key]; !ok {
				midKeys = append(midKeys, key)
			}
			if !slices.Contains(mids[key], da.Index) {
				mids[key] = append(mids[key], da.Index)
			}
		case LinearBegin, LinearEnd, RadialCenter, RadialR1, RadialR2:
			end := endStop{key, da.Role}
			if da.Role == RadialR2 {
				// both radii edit the last stop
				end.role = RadialR1
			}
			if !slices.Contains(ends, end) {
				ends = append(ends, end)
			}
		}
	}
	if len(midKeys) == 0 && len(ends) == 0 {
		return false
	}

	for _, key := range midKeys {
		stops := d.doc.Stops(key.item, key.target)
		indices := mids[key]
		sort.Sort(sort.Reverse(sort.IntSlice(indices)))
		for _, i := range indices {
			if 0 < i && i < len(stops)-1 {
				stops = slices.Delete(stops, i, i+1)
			}
		}
		d.write(func() { d.doc.SetStops(key.item, key.target, stops) })
	}
	for _, end := range ends {
		d.deleteEndStop(end)
	}

	Logger().Debug("deleted gradient stops", "mid", len(midKeys), "end", len(ends))
	d.Rebuild()
	d.UpdateLines()
	d.UpdateLevels()
	return true
}

// deleteEndStop deletes the first or last stop of a gradient and moves the end point onto the new end stop, or removes the gradient if it would keep a single stop.
func (d *Drag) deleteEndStop(end endStop) {
	item, target := end.item, end.target
	stops := d.doc.Stops(item, target)
	n := len(stops)
	if n == 0 {
		return
	} else if n <= 2 {
		flat := stops[0].Color
		if end.role == LinearBegin || end.role == RadialCenter {
			flat = stops[n-1].Color
		}
		d.write(func() { d.doc.UnsetGradient(item, target, flat, true) })
		return
	}

	switch end.role {
	case LinearBegin:
		begin, ok0 := d.doc.Coords(item, LinearBegin, 0, target)
		last, ok1 := d.doc.Coords(item, LinearEnd, n-1, target)
		stops = stops[1:]
		offset := stops[0].Offset
		if ok0 && ok1 {
			d.write(func() { d.doc.SetCoords(item, LinearBegin, 0, target, begin.Interpolate(last, offset), true, false) })
		}
		rescaleStops(stops, offset, 1.0)
	case LinearEnd:
		begin, ok0 := d.doc.Coords(item, LinearBegin, 0, target)
		last, ok1 := d.doc.Coords(item, LinearEnd, n-1, target)
		stops = stops[:n-1]
		offset := stops[n-2].Offset
		if ok0 && ok1 {
			d.write(func() { d.doc.SetCoords(item, LinearEnd, n-2, target, begin.Interpolate(last, offset), true, false) })
		}
		rescaleStops(stops, 0.0, offset)
	case RadialCenter:
		// the center stays, the next stop moves onto it
		stops[1].Offset = 0.0
		stops = stops[1:]
	case RadialR1:
		center, ok0 := d.doc.Coords(item, RadialCenter, 0, target)
		r1, ok1 := d.doc.Coords(item, RadialR1, n-1, target)
		stops = stops[:n-1]
		offset := stops[n-2].Offset
		if ok0 && ok1 {
			d.write(func() { d.doc.SetCoords(item, RadialR1, n-2, target, center.Interpolate(r1, offset), true, true) })
		}
		rescaleStops(stops, 0.0, offset)
	}
	d.write(func() { d.doc.SetStops(item, target, stops) })
}

// rescaleStops maps the offsets in [lo,hi] to [0,1].
func rescaleStops(stops []Stop, lo, hi float64) {
	if equal(hi, lo) {
		stops[0].Offset = 0.0
		stops[len(stops)-1].Offset = 1.0
		return
	}
	for i := range stops {
		stops[i].Offset = (stops[i].Offset - lo) / (hi - lo)
	}
	stops[0].Offset = 0.0
	stops[len(stops)-1].Offset = 1.0
}

// stopColor returns the color of the stop that the draggable edits.
func (d *Drag) stopColor(da *Draggable) (color.NRGBA, bool) {
	if da.Role.IsMesh() {
		if da.Role != MeshCorner {
			return color.NRGBA{}, false
		}
		nodes := d.doc.MeshNodes(da.Item, da.Target)
		if i, j, ok := MeshPosition(nodes, CornerNode, da.Index); ok {
			return nodes[i][j].Color, true
		}
		return color.NRGBA{}, false
	}
	stops := d.doc.Stops(da.Item, da.Target)
	if i := da.StopIndex(len(stops)); 0 <= i && i < len(stops) {
		return stops[i].Color, true
	}
	return color.NRGBA{}, false
}
