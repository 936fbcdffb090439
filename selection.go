package grdrag

import "slices"

// SetSelected selects the dragger. With add it is added to the selection, where an already selected dragger is deselected again unless override is set. Without add the selection is replaced. Mesh handles and tensors cannot be selected.
func (d *Drag) SetSelected(dr *Dragger, add, override bool) {
	if dr.isA(MeshHandle) || dr.isA(MeshTensor) {
		return
	}
	if add {
		if !slices.Contains(d.selected, dr) {
			d.selected = append(d.selected, dr)
			dr.selectMarker()
		} else if !override {
			d.SetDeselected(dr)
		}
	} else {
		d.DeselectAll()
		d.selected = append(d.selected, dr)
		dr.selectMarker()
	}
}

// SetDeselected removes the dragger from the selection.
func (d *Drag) SetDeselected(dr *Dragger) {
	if i := slices.Index(d.selected, dr); i != -1 {
		d.selected = slices.Delete(d.selected, i, i+1)
		dr.deselectMarker()
	}
}

// DeselectAll empties the selection.
func (d *Drag) DeselectAll() {
	for _, dr := range d.selected {
		dr.deselectMarker()
	}
	d.selected = d.selected[:0]
}

// SelectAll selects all selectable draggers.
func (d *Drag) SelectAll() {
	for _, dr := range d.draggers {
		d.SetSelected(dr, true, true)
	}
}

// SelectByCoords adds the draggers at any of the given positions to the selection.
func (d *Drag) SelectByCoords(coords []Point) {
	for _, dr := range d.draggers {
		for _, p := range coords {
			if dr.point.Distance(p) < d.opts.SelectTolerance {
				d.SetSelected(dr, true, true)
			}
		}
	}
}

// SelectRect adds the draggers inside the rectangle to the selection.
func (d *Drag) SelectRect(r Rect) {
	for _, dr := range d.draggers {
		if r.Contains(dr.point) {
			d.SetSelected(dr, true, true)
		}
	}
}

// SelectByStop selects the dragger that edits the given stop and returns it, or nil if there is none.
func (d *Drag) SelectByStop(stop StopRef, add, override bool) *Dragger {
	n := len(d.doc.Stops(stop.Item, stop.Target))
	for _, dr := range d.draggers {
		for _, da := range dr.draggables {
			if da.Item == stop.Item && da.Target == stop.Target && da.StopIndex(n) == stop.Index {
				d.SetSelected(dr, add, override)
				return dr
			}
		}
	}
	return nil
}

// SelectNext selects the dragger after the first selected one in tab order, wrapping around. Mesh handles and tensors are skipped.
func (d *Drag) SelectNext() *Dragger {
	return d.selectCycle(1)
}

// SelectPrev selects the dragger before the first selected one in tab order, wrapping around.
func (d *Drag) SelectPrev() *Dragger {
	return d.selectCycle(-1)
}

func (d *Drag) selectCycle(dir int) *Dragger {
	n := len(d.draggers)
	if n == 0 {
		return nil
	}

	start := -1
	if 0 < len(d.selected) {
		start = slices.Index(d.draggers, d.selected[0])
	}
	if start == -1 && dir < 0 {
		start = 0
	}
	for k := 1; k <= n; k++ {
		i := ((start+dir*k)%n + n) % n
		if dr := d.draggers[i]; !dr.isA(MeshHandle) && !dr.isA(MeshTensor) {
			d.SetSelected(dr, false, true)
			return dr
		}
	}
	return nil
}
