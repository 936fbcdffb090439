package grdrag

import (
	"math"
	"slices"
	"strconv"
)

// Modifiers is a set of held modifier keys.
type Modifiers int

// see Modifiers
const (
	Shift Modifiers = 1 << iota
	Ctrl
	Alt
)

// Has returns true if all modifiers in m are held.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

func (mods Modifiers) String() string {
	s := ""
	for _, m := range []struct {
		mod  Modifiers
		name string
	}{{Shift, "Shift"}, {Ctrl, "Ctrl"}, {Alt, "Alt"}} {
		if mods.Has(m.mod) {
			if s != "" {
				s += "+"
			}
			s += m.name
		}
	}
	return s
}

// Key is a key that the controller handles.
type Key int

// see Key
const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyTab
	KeyDelete
	KeyBackspace
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyTab:
		return "Tab"
	case KeyDelete:
		return "Delete"
	case KeyBackspace:
		return "Backspace"
	case KeyEscape:
		return "Escape"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// GestureState is the state of a pointer gesture on a dragger.
type GestureState int

// see GestureState
const (
	Idle GestureState = iota
	Dragging
	Snapping
	Constraining
	Merging
	Released
)

func (s GestureState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Dragging:
		return "Dragging"
	case Snapping:
		return "Snapping"
	case Constraining:
		return "Constraining"
	case Merging:
		return "Merging"
	case Released:
		return "Released"
	}
	return "Invalid(" + strconv.Itoa(int(s)) + ")"
}

type grab struct {
	dragger *Dragger
	state   GestureState
}

// State returns the state of the current pointer gesture.
func (d *Drag) State() GestureState {
	return d.grab.state
}

// Grabbed returns the dragger held by the pointer, or nil.
func (d *Drag) Grabbed() *Dragger {
	return d.grab.dragger
}

// PointerDown grabs the dragger and highlights the handles of its mesh corner.
func (d *Drag) PointerDown(dr *Dragger) {
	if dr == nil || !slices.Contains(d.draggers, dr) {
		return
	}
	d.grab = grab{dragger: dr, state: Dragging}
	dr.original = dr.point

	for _, o := range d.draggers {
		o.HighlightCorner(false)
	}
	if corner := dr.meshCorner(); corner != nil {
		corner.HighlightCorner(true)
	}
}

// GrabKnot grabs the dragger of the given point as if the pointer went down on it, and returns it or nil if there is no such dragger.
func (d *Drag) GrabKnot(item Item, role Role, index int, target Target) *Dragger {
	dr := d.DraggerFor(item, role, index, target)
	if dr != nil {
		d.PointerDown(dr)
	}
	return dr
}

// PointerMove drags the grabbed dragger to p. With Shift a dragger with multiple draggables splits off all but its first one. Without Shift and Ctrl the dragger merges into another dragger within the snap distance, or snaps freely. With Ctrl the dragger is constrained to angles around its gradient's anchor, and with Ctrl+Shift radial gradients scale around their center.
func (d *Drag) PointerMove(p Point, mods Modifiers) {
	dr := d.grab.dragger
	if dr == nil {
		return
	} else if !slices.Contains(d.draggers, dr) {
		Logger().Debug("grabbed dragger is gone")
		d.grab = grab{}
		return
	} else if dr.isMid() {
		d.moveMidpoint(dr, p, mods)
		return
	}

	d.grab.state = Dragging
	if mods.Has(Shift) {
		if 1 < len(dr.draggables) {
			d.split(dr)
		}
	} else if !mods.Has(Ctrl) {
		dist := d.opts.SnapDistance / d.zoom()
		for _, other := range d.draggers {
			if dr.MayMerge(other) && other.point.Distance(p) < dist {
				d.merge(dr, other)
				return
			}
		}
	}

	if !mods.Has(Shift) && !mods.Has(Ctrl) {
		if d.snapper != nil {
			if q, ok := d.snapper.FreeSnap(p, SnapHandle); ok {
				p = q
				d.grab.state = Snapping
			}
		}
	} else if mods.Has(Ctrl) {
		p = d.constrainAngle(dr, p, mods)
		d.grab.state = Constraining
	}

	d.keepSelection = dr.selected
	scaleRadial := mods.Has(Ctrl) && mods.Has(Shift)
	if d.keepSelection {
		d.SelectedMoveNoWrite(p.Sub(dr.point), scaleRadial)
	} else {
		old := dr.point
		dr.moveTo(p)
		dr.FireDraggables(false, scaleRadial, false)
		dr.UpdateDependencies(false)
		dr.MoveMeshHandles(old)
	}
}

// split moves all but the first draggable to a new dragger at the front of the tab order.
func (d *Drag) split(dr *Dragger) {
	nd := newDragger(d, dr.point, nil)
	for _, da := range dr.draggables[1:] {
		nd.addDraggable(da)
	}
	dr.draggables = dr.draggables[:1]
	d.draggers = append([]*Dragger{nd}, d.draggers...)
	nd.updateMarker()
	dr.updateMarker()
	Logger().Debug("split dragger", "dragger", dr.String(), "new", nd.String())
}

// merge moves the draggables of dr into target and ends the gesture.
func (d *Drag) merge(dr, target *Dragger) {
	for _, da := range dr.draggables {
		target.addDraggable(newDraggable(d.doc, da.Item, da.Role, da.Index, da.Target))
	}
	Logger().Debug("merge dragger", "dragger", dr.String(), "into", target.String())
	d.removeDragger(dr)

	target.FireDraggables(true, false, true)
	d.UpdateLines()
	d.SetSelected(target, false, true)
	target.updateMarker()
	target.UpdateDependencies(true)
	d.undo.Done("Merge gradient handles")
	d.grab = grab{state: Merging}
}

// constrainAngle returns p constrained to the nearest direction from the anchors of the dragger's draggables, preferring directions where the snapper found a target.
func (d *Drag) constrainAngle(dr *Dragger, p Point, mods Modifiers) Point {
	best, bestSnapped := p, p
	dist, distSnapped := math.Inf(1), math.Inf(1)
	for _, da := range dr.draggables {
		origin, ok := d.angleAnchor(dr, da, mods)
		if !ok {
			continue
		}

		var c Constraint
		if mods.Has(Alt) {
			// keep the original angle or its perpendicular
			c, ok = nearestDirection(p, origin, dr.original.Sub(origin).Angle(), 2)
		} else {
			c, ok = nearestDirection(p, origin, 0.0, d.opts.RotationSnapsPerPi)
		}
		if !ok {
			continue
		}

		q := c.Project(p)
		if dq := q.Distance(p); dq < dist {
			best, dist = q, dq
		}
		if d.snapper != nil {
			if s, snapped := d.snapper.ConstrainedSnap(q, SnapHandle, c); snapped {
				if ds := s.Distance(p); ds < distSnapped {
					bestSnapped, distSnapped = s, ds
				}
			}
		}
	}
	if !math.IsInf(distSnapped, 1) {
		return bestSnapped
	}
	return best
}

// angleAnchor returns the point around which a draggable rotates when constrained.
func (d *Drag) angleAnchor(dr *Dragger, da *Draggable, mods Modifiers) (Point, bool) {
	switch da.Role {
	case LinearBegin, LinearEnd:
		role := LinearEnd
		if da.Role == LinearEnd {
			role = LinearBegin
		}
		if other := d.DraggerFor(da.Item, role, -1, da.Target); other != nil && other != dr {
			if mods.Has(Shift) {
				return other.point.Add(dr.point).Mul(0.5), true
			}
			return other.point, true
		}
	case RadialR1, RadialR2, RadialFocus:
		if center := d.DraggerFor(da.Item, RadialCenter, -1, da.Target); center != nil && center != dr {
			return center.point, true
		}
	case RadialCenter:
		return dr.original, true
	}
	return Point{}, false
}

// nearestDirection returns the line through origin whose angle is closest to that of p, out of the angles base+k*pi/snaps.
func nearestDirection(p, origin Point, base float64, snaps int) (Constraint, bool) {
	if snaps <= 0 {
		return Constraint{}, false
	}
	v := p.Sub(origin)
	if v.IsZero() {
		return Constraint{Origin: origin, Direction: Point{math.Cos(base), math.Sin(base)}}, true
	}
	step := math.Pi / float64(snaps)
	theta := base + math.Round((v.Angle()-base)/step)*step
	return Constraint{Origin: origin, Direction: Point{math.Cos(theta), math.Sin(theta)}}, true
}

// moveMidpoint drags a mid stop along its limiting segment, together with the contiguous selected mid stops. With Alt the others move less the farther they are from the dragged one.
func (d *Drag) moveMidpoint(dr *Dragger, p Point, mods Modifiers) {
	d.grab.state = Dragging
	lim := d.midpointLimits(dr)
	if mods.Has(Ctrl) {
		p = snapVectorMidpoint(p, lim.low, lim.high, d.opts.MidSnapFraction)
		d.grab.state = Constraining
	} else {
		p = lim.low.Interpolate(lim.high, LineNearestTime(lim.low, lim.high, p))
		if !mods.Has(Shift) && d.snapper != nil {
			c := Constraint{Origin: lim.low, Direction: lim.high.Sub(lim.low)}
			if q, ok := d.snapper.ConstrainedSnap(p, SnapMidStop, c); ok {
				p = q
				d.grab.state = Snapping
			}
		}
	}

	displacement := p.Sub(dr.point)
	for _, drg := range lim.moving {
		move := displacement
		if mods.Has(Alt) && drg != dr {
			var span float64
			if drg.point.Distance(dr.point)+drg.point.Distance(lim.begin)-1e-3 > dr.point.Distance(lim.begin) {
				span = lim.end.Distance(dr.point)
			} else {
				span = lim.begin.Distance(dr.point)
			}
			x := 0.0
			if !equal(span, 0.0) {
				x = math.Min(drg.point.Distance(dr.point)/span, 1.0)
			}
			move = move.Mul(fallOff(x))
		}
		drg.moveTo(drg.point.Add(move))
		drg.FireDraggables(false, false, false)
		drg.UpdateDependencies(false)
	}
	d.keepSelection = dr.selected
}

// PointerUp releases the grabbed dragger and commits its position to the document. The dragger becomes the only selected one unless it was selected while dragging.
func (d *Drag) PointerUp(mods Modifiers) {
	dr := d.grab.dragger
	if dr == nil {
		d.grab = grab{}
		return
	} else if !slices.Contains(d.draggers, dr) {
		Logger().Debug("released dragger is gone")
		d.grab = grab{}
		return
	}

	dr.original = dr.point
	dr.FireDraggables(true, mods.Has(Ctrl) && mods.Has(Shift), false)
	for _, o := range slices.Clone(d.selected) {
		if o != dr {
			o.FireDraggables(true, false, false)
		}
	}
	if !d.keepSelection {
		d.SetSelected(dr, false, true)
	}
	d.keepSelection = false
	dr.UpdateDependencies(true)
	d.undo.Done("Move gradient handle")
	d.grab = grab{state: Released}
}

// Click handles a click on a dragger without dragging. Shift toggles the dragger in the selection, Ctrl+Alt deletes its stop if the gradient keeps at least two stops, otherwise the dragger becomes the only selected one.
func (d *Drag) Click(dr *Dragger, mods Modifiers) {
	if dr == nil || len(dr.draggables) == 0 || !slices.Contains(d.draggers, dr) {
		return
	}
	d.grab = grab{}

	if mods.Has(Ctrl | Alt) {
		da := dr.draggables[0]
		if da.Role.IsMesh() || len(d.doc.Stops(da.Item, da.Target)) <= 2 {
			return
		}
		if d.deleteDraggables([]*Draggable{da}) {
			d.undo.Done("Delete gradient stop")
		}
		return
	}

	dr.original = dr.point
	if mods.Has(Shift) {
		d.SetSelected(dr, true, false)
	} else {
		d.SetSelected(dr, false, true)
	}
}

// DoubleClick makes the dragger the only selected one and returns the stop it edits, so that the caller can open it in a stop editor.
func (d *Drag) DoubleClick(dr *Dragger) (StopRef, bool) {
	if dr == nil || len(dr.draggables) == 0 || !slices.Contains(d.draggers, dr) {
		return StopRef{}, false
	}
	dr.original = dr.point
	d.SetSelected(dr, false, true)

	da := dr.draggables[0]
	if da.Role.IsMesh() {
		return StopRef{}, false
	}
	n := len(d.doc.Stops(da.Item, da.Target))
	return StopRef{Item: da.Item, Target: da.Target, Index: da.StopIndex(n)}, true
}

// KeyPress handles a key press and returns true if it was consumed. Arrows nudge the selected draggers, with Shift ten times as far and with Alt by screen pixels. Tab cycles the selection, Delete and Backspace delete the selected stops (only the first with Ctrl) and Escape deselects.
func (d *Drag) KeyPress(key Key, mods Modifiers) bool {
	switch key {
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		if mods.Has(Ctrl) || len(d.selected) == 0 {
			return false
		}
		var dir Point
		switch key {
		case KeyLeft:
			dir = Point{-1.0, 0.0}
		case KeyRight:
			dir = Point{1.0, 0.0}
		case KeyUp:
			dir = Point{0.0, 1.0}
		case KeyDown:
			dir = Point{0.0, -1.0}
		}
		if d.desktop.YAxisDown() {
			dir.Y = -dir.Y
		}
		if mods.Has(Shift) {
			dir = dir.Mul(10.0)
		}
		if mods.Has(Alt) {
			d.SelectedMoveScreen(dir)
		} else {
			d.SelectedMove(dir.Mul(d.opts.NudgeDistance), true, false)
		}
		return true
	case KeyTab:
		if len(d.draggers) == 0 {
			return false
		}
		if mods.Has(Shift) {
			d.SelectPrev()
		} else {
			d.SelectNext()
		}
		return true
	case KeyDelete, KeyBackspace:
		if len(d.selected) == 0 {
			return false
		}
		d.DeleteSelected(mods.Has(Ctrl))
		return true
	case KeyEscape:
		if len(d.selected) == 0 {
			return false
		}
		d.DeselectAll()
		return true
	}
	return false
}
