package grdrag

import (
	"math"
	"slices"
)

// SelectedMove translates the selected draggers. Mid stops are not translated, and neither are the radii and focus of a radial gradient whose center is selected too since the center drags them along. If only mid stops are selected, the first selected mid stop and its contiguous selected neighbours slide along their gradient axis instead. Without write only the live representation of the document is updated.
func (d *Drag) SelectedMove(delta Point, write, scaleRadial bool) {
	if len(d.selected) == 0 {
		return
	}

	did := false
	for _, dr := range slices.Clone(d.selected) {
		if dr.isA(LinearMid) || dr.isA(RadialMid1) || dr.isA(RadialMid2) {
			continue
		}
		if dr.isA(RadialR1) || dr.isA(RadialR2) || dr.isA(RadialFocus) && !dr.isA(RadialCenter) {
			first := dr.draggables[0]
			if d.centerSelected(first.Item, first.Target) {
				continue
			}
		}

		did = true
		old := dr.point
		dr.moveTo(dr.point.Add(delta))
		dr.original = dr.point
		dr.FireDraggables(write, scaleRadial, false)
		dr.MoveMeshHandles(old)
		dr.UpdateDependencies(write)
	}
	if did {
		if write {
			d.undo.MaybeDone("grmoveh", "Move gradient handle(s)")
		}
		return
	}

	// only mid stops are selected
	dr := d.selected[0]
	if !dr.isMid() {
		return
	}
	lim := d.midpointLimits(dr)
	p := lim.low.Interpolate(lim.high, LineNearestTime(lim.low, lim.high, dr.point.Add(delta)))
	displacement := p.Sub(dr.point)
	for _, drg := range lim.moving {
		drg.moveTo(drg.point.Add(displacement))
		drg.FireDraggables(true, false, false)
		drg.UpdateDependencies(true)
		did = true
	}
	if write && did {
		d.undo.MaybeDone("grmovem", "Move gradient mid stop(s)")
	}
}

// SelectedMoveNoWrite translates the selected draggers without writing to the document.
func (d *Drag) SelectedMoveNoWrite(delta Point, scaleRadial bool) {
	d.SelectedMove(delta, false, scaleRadial)
}

// SelectedMoveScreen translates the selected draggers by a distance in screen pixels.
func (d *Drag) SelectedMoveScreen(delta Point) {
	d.SelectedMove(delta.Div(d.zoom()), true, false)
}

func (d *Drag) centerSelected(item Item, target Target) bool {
	for _, dr := range d.selected {
		if dr.has(item, RadialCenter, 0, target) {
			return true
		}
	}
	return false
}

// midpointLimits describes where a mid stop may move: the neighbouring stops begin and end, the segment low-high for the dragged mid stop, and the contiguous selected mid stops that move along.
type midpointLimits struct {
	begin, end Point
	low, high  Point
	moving     []*Dragger
}

func (d *Drag) midpointLimits(dr *Dragger) midpointLimits {
	da := dr.draggables[0]
	moving := []*Dragger{dr}
	lowest, highest := da.Index, da.Index
	lowestDragger, highestDragger := dr, dr
	if dr.selected {
		for {
			add := d.DraggerFor(da.Item, da.Role, lowest-1, da.Target)
			if add == nil || !add.selected {
				break
			}
			lowest--
			moving = append([]*Dragger{add}, moving...)
			lowestDragger = add
		}
		for {
			add := d.DraggerFor(da.Item, da.Role, highest+1, da.Target)
			if add == nil || !add.selected {
				break
			}
			highest++
			moving = append(moving, add)
			highestDragger = add
		}
	}

	n := len(d.doc.Stops(da.Item, da.Target))
	var first, last Role
	switch da.Role {
	case LinearMid:
		first, last = LinearBegin, LinearEnd
	case RadialMid1:
		first, last = RadialCenter, RadialR1
	case RadialMid2:
		first, last = RadialCenter, RadialR2
	}

	lim := midpointLimits{moving: moving}
	var begin, end *Dragger
	if lowest == 1 {
		begin = d.DraggerFor(da.Item, first, 0, da.Target)
	} else {
		begin = d.DraggerFor(da.Item, da.Role, lowest-1, da.Target)
	}
	if begin != nil {
		lim.begin = begin.point
	} else {
		Logger().Warn("mid stop has no lower neighbour", "draggable", da.String())
	}
	if end = d.DraggerFor(da.Item, da.Role, highest+1, da.Target); end == nil {
		end = d.DraggerFor(da.Item, last, n-1, da.Target)
	}
	if end != nil {
		lim.end = end.point
	} else {
		Logger().Warn("mid stop has no upper neighbour", "draggable", da.String())
	}

	lim.low = dr.point.Sub(lowestDragger.point.Sub(lim.begin))
	lim.high = dr.point.Sub(highestDragger.point.Sub(lim.end))
	return lim
}

// snapVectorMidpoint snaps p to multiples of fraction along the segment from begin to end.
func snapVectorMidpoint(p, begin, end Point, fraction float64) Point {
	length := begin.Distance(end)
	if equal(length, 0.0) {
		return begin
	}
	be := end.Sub(begin).Div(length)
	r := p.Sub(begin).Dot(be)
	if r < 0.0 {
		return begin
	} else if length < r {
		return end
	}
	if 0.0 < fraction {
		step := length * fraction
		r = math.Round(r/step) * step
	}
	return begin.Add(be.Mul(r))
}

// fallOff scales a mid stop's displacement by a cosine profile over its relative distance x in [0,1] from the dragged stop.
func fallOff(x float64) float64 {
	return 0.5*math.Cos(math.Pi*x) + 0.5
}
