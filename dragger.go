package grdrag

import (
	"fmt"
	"strings"
)

// Dragger is an on-canvas handle that owns the draggables that currently coincide. The most recently added draggable comes first. A dragger holds a non-owning reference to its controller.
type Dragger struct {
	drag       *Drag
	point      Point
	original   Point
	draggables []*Draggable
	marker     Marker

	selected    bool
	highlighted bool
	visible     bool
}

func newDragger(d *Drag, p Point, da *Draggable) *Dragger {
	dr := &Dragger{
		drag:     d,
		point:    p,
		original: p,
		visible:  true,
	}
	if da != nil {
		dr.draggables = append(dr.draggables, da)
	}
	dr.marker = d.desktop.NewMarker(dr.Shape())
	dr.marker.MoveTo(p)
	dr.updateMarker()
	return dr
}

// Point returns the current position.
func (dr *Dragger) Point() Point {
	return dr.point
}

// Original returns the position at the start of the last move.
func (dr *Dragger) Original() Point {
	return dr.original
}

// Draggables returns the draggables of the dragger.
func (dr *Dragger) Draggables() []*Draggable {
	return append([]*Draggable{}, dr.draggables...)
}

// Selected is true if the dragger is in the controller's selection.
func (dr *Dragger) Selected() bool {
	return dr.selected
}

// Visible is false for hidden mesh handles and tensors.
func (dr *Dragger) Visible() bool {
	return dr.visible
}

// Highlighted is true for mesh handles of the highlighted corner.
func (dr *Dragger) Highlighted() bool {
	return dr.highlighted
}

// MouseOver is true if the pointer is over the marker.
func (dr *Dragger) MouseOver() bool {
	return dr.marker.MouseOver()
}

// Shape returns the marker shape, which is that of the oldest draggable.
func (dr *Dragger) Shape() Shape {
	if len(dr.draggables) == 0 {
		return SquareShape
	}
	return dr.draggables[len(dr.draggables)-1].Role.Shape()
}

// Tip returns a status message describing the dragger.
func (dr *Dragger) Tip() string {
	if len(dr.draggables) == 1 {
		da := dr.draggables[0]
		desc := dr.drag.doc.Describe(da.Item)
		stroke := ""
		if da.Target == Stroke {
			stroke = " (stroke)"
		}
		switch {
		case da.Role.IsMid():
			return fmt.Sprintf("%s %d for: %s%s; drag with Ctrl to snap offset; click with Ctrl+Alt to delete stop", da.Role.Description(), da.Index, desc, stroke)
		case da.Role.IsMesh():
			return fmt.Sprintf("%s for: %s%s", da.Role.Description(), desc, stroke)
		}
		return fmt.Sprintf("%s for: %s%s; drag with Ctrl to snap angle, with Ctrl+Alt to preserve angle, with Ctrl+Shift to scale around center", da.Role.Description(), desc, stroke)
	} else if len(dr.draggables) == 2 && dr.isA(RadialCenter) && dr.isA(RadialFocus) {
		return "Radial gradient center and focus; drag with Shift to separate focus"
	}
	return fmt.Sprintf("Gradient point shared by %d gradients; drag with Shift to separate", len(dr.draggables))
}

func (dr *Dragger) String() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%v[", dr.point)
	for i, da := range dr.draggables {
		if i != 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(da.String())
	}
	sb.WriteString("]")
	return sb.String()
}

func (dr *Dragger) updateMarker() {
	dr.marker.SetShape(dr.Shape())
	dr.marker.SetTip(dr.Tip())
}

func (dr *Dragger) moveTo(p Point) {
	dr.point = p
	dr.marker.MoveTo(p)
}

func (dr *Dragger) setVisible(visible bool) {
	dr.visible = visible
	dr.marker.SetVisible(visible)
}

func (dr *Dragger) setHighlighted(highlighted bool) {
	dr.highlighted = highlighted
	dr.marker.SetHighlighted(highlighted)
}

func (dr *Dragger) selectMarker() {
	dr.selected = true
	dr.marker.SetSelected(true)
	dr.HighlightCorner(true)
}

func (dr *Dragger) deselectMarker() {
	dr.selected = false
	dr.marker.SetSelected(false)
	dr.HighlightCorner(false)
}

func (dr *Dragger) remove() {
	for _, da := range dr.draggables {
		da.release(dr.drag.doc)
	}
	dr.draggables = nil
	dr.marker.Remove()
}

// addDraggable prepends the draggable.
func (dr *Dragger) addDraggable(da *Draggable) {
	dr.draggables = append([]*Draggable{da}, dr.draggables...)
}

// isA returns true if any of the draggables has the given role.
func (dr *Dragger) isA(role Role) bool {
	for _, da := range dr.draggables {
		if da.Role == role {
			return true
		}
	}
	return false
}

// has returns true if any of the draggables matches, where index -1 matches any index.
func (dr *Dragger) has(item Item, role Role, index int, target Target) bool {
	for _, da := range dr.draggables {
		if da.Is(item, role, index, target) {
			return true
		}
	}
	return false
}

func (dr *Dragger) isMid() bool {
	return 0 < len(dr.draggables) && dr.draggables[0].Role.IsMid()
}

// MayMerge returns true if all draggables of both draggers may share a dragger.
func (dr *Dragger) MayMerge(other *Dragger) bool {
	if dr == other {
		return false
	}
	for _, da := range dr.draggables {
		for _, da2 := range other.draggables {
			if !da.MayMerge(da2) {
				return false
			}
		}
	}
	return true
}

func (dr *Dragger) mayMergeDraggable(da *Draggable) bool {
	for _, da2 := range dr.draggables {
		if !da.MayMerge(da2) {
			return false
		}
	}
	return true
}

// FireDraggables writes the dragger's position to the gradient points of all its draggables, and to the document too if write is set. A focus that coincides with its center is left alone unless mergingFocus is set.
func (dr *Dragger) FireDraggables(write, scaleRadial, mergingFocus bool) {
	for _, da := range dr.draggables {
		if mergingFocus || da.Role != RadialFocus || !dr.has(da.Item, RadialCenter, da.Index, da.Target) {
			dr.drag.write(func() { dr.drag.doc.SetCoords(da.Item, da.Role, da.Index, da.Target, dr.point, write, scaleRadial) })
		}
	}
}

// UpdateDependencies relocates the draggers of the points that depend on the moved points of this dragger.
func (dr *Dragger) UpdateDependencies(write bool) {
	for _, da := range dr.draggables {
		switch da.Role {
		case LinearBegin:
			// the end point only moves when scaling around the center
			dr.moveOtherToDraggable(da.Item, LinearEnd, -1, da.Target, write)
			dr.updateMidstopDependencies(da, write)
		case LinearEnd:
			dr.moveOtherToDraggable(da.Item, LinearBegin, 0, da.Target, write)
			dr.updateMidstopDependencies(da, write)
		case LinearMid, RadialFocus:
			// nothing depends on these
		case RadialCenter:
			dr.moveOtherToDraggable(da.Item, RadialR1, -1, da.Target, write)
			dr.moveOtherToDraggable(da.Item, RadialR2, -1, da.Target, write)
			dr.moveOtherToDraggable(da.Item, RadialFocus, -1, da.Target, write)
			dr.updateMidstopDependencies(da, write)
		case RadialR1:
			dr.moveOtherToDraggable(da.Item, RadialR2, -1, da.Target, write)
			dr.moveOtherToDraggable(da.Item, RadialFocus, -1, da.Target, write)
			dr.updateMidstopDependencies(da, write)
		case RadialR2:
			dr.moveOtherToDraggable(da.Item, RadialR1, -1, da.Target, write)
			dr.moveOtherToDraggable(da.Item, RadialFocus, -1, da.Target, write)
			dr.updateMidstopDependencies(da, write)
		case RadialMid1:
			dr.moveOtherToDraggable(da.Item, RadialMid2, da.Index, da.Target, write)
		case RadialMid2:
			dr.moveOtherToDraggable(da.Item, RadialMid1, da.Index, da.Target, write)
		case MeshCorner, MeshHandle, MeshTensor:
			// handles and tensors of the patch follow the document
			dr.drag.refreshMesh(da.Item, da.Target)
		}
	}
}

// updateMidstopDependencies relocates all mid stop draggers of the draggable's gradient to the positions that follow from their offsets.
func (dr *Dragger) updateMidstopDependencies(da *Draggable, write bool) {
	n := len(dr.drag.doc.Stops(da.Item, da.Target))
	if n <= 2 {
		return
	}
	for i := 1; i < n-1; i++ {
		switch da.Role.Kind() {
		case Linear:
			dr.moveOtherToDraggable(da.Item, LinearMid, i, da.Target, write)
		case Radial:
			dr.moveOtherToDraggable(da.Item, RadialMid1, i, da.Target, write)
			dr.moveOtherToDraggable(da.Item, RadialMid2, i, da.Target, write)
		}
	}
}

// moveOtherToDraggable relocates the dragger, other than this one, that owns the given point.
func (dr *Dragger) moveOtherToDraggable(item Item, role Role, index int, target Target, write bool) {
	d := dr.drag.DraggerFor(item, role, index, target)
	if d != nil && d != dr {
		d.moveThisToDraggable(item, role, index, target, write)
	}
}

// moveThisToDraggable moves the dragger to the document position of its first draggable, and moves its other draggables along except for the given point.
func (dr *Dragger) moveThisToDraggable(item Item, role Role, index int, target Target, write bool) {
	if len(dr.draggables) == 0 {
		return
	}
	first := dr.draggables[0]
	p, ok := dr.drag.doc.Coords(first.Item, first.Role, first.Index, first.Target)
	if !ok {
		Logger().Warn("gradient point vanished", "draggable", first.String())
		return
	}
	dr.moveTo(p)
	dr.original = p
	for _, da := range dr.draggables {
		if da.Is(item, role, index, target) {
			continue
		}
		dr.drag.write(func() { dr.drag.doc.SetCoords(da.Item, da.Role, da.Index, da.Target, p, write, false) })
	}
}

// MoveMeshHandles moves the handles adjacent to the mesh corners of this dragger after the corners moved away from old.
func (dr *Dragger) MoveMeshHandles(old Point) {
	for _, da := range dr.draggables {
		if da.Role != MeshCorner {
			continue
		}
		dr.drag.write(func() { dr.drag.doc.UpdateMeshHandles(da.Item, da.Target, da.Index, old) })
		dr.drag.refreshMesh(da.Item, da.Target)
	}
}

// HighlightCorner highlights the handles around a mesh corner, walking the node grid in the four cardinal directions from the corner.
func (dr *Dragger) HighlightCorner(highlight bool) {
	if len(dr.draggables) == 0 || dr.draggables[0].Role != MeshCorner {
		return
	}
	da := dr.draggables[0]
	nodes := dr.drag.doc.MeshNodes(da.Item, da.Target)
	rows, cols := MeshSize(nodes)
	if rows == 0 || cols == 0 {
		Logger().Warn("empty mesh", "draggable", da.String())
		return
	}
	crow, ccol := da.Index/(cols+1), da.Index%(cols+1)
	if rows < crow {
		Logger().Warn("mesh corner out of range", "draggable", da.String())
		return
	}
	nrow, ncol := 3*crow, 3*ccol
	neighbours := [4][2]int{{nrow - 1, ncol}, {nrow, ncol + 1}, {nrow + 1, ncol}, {nrow, ncol - 1}}
	for _, n := range neighbours {
		if n[0] < 0 || len(nodes) <= n[0] || n[1] < 0 || len(nodes[n[0]]) <= n[1] {
			continue
		}
		index := MeshIndex(nodes, n[0], n[1])
		if h := dr.drag.DraggerFor(da.Item, MeshHandle, index, da.Target); h != nil {
			h.setHighlighted(highlight)
		}
	}
}

// meshCorner returns the dragger of the mesh corner that owns this corner or handle.
func (dr *Dragger) meshCorner() *Dragger {
	if len(dr.draggables) == 0 {
		return nil
	}
	da := dr.draggables[0]
	if da.Role == MeshCorner {
		return dr
	} else if da.Role != MeshHandle {
		return nil
	}

	nodes := dr.drag.doc.MeshNodes(da.Item, da.Target)
	i, j, ok := MeshPosition(nodes, HandleNode, da.Index)
	if !ok {
		return nil
	}
	for _, n := range [4][2]int{{i + 1, j}, {i, j - 1}, {i - 1, j}, {i, j + 1}} {
		if n[0] < 0 || len(nodes) <= n[0] || n[1] < 0 || len(nodes[n[0]]) <= n[1] {
			continue
		} else if NodeTypeAt(n[0], n[1]) == CornerNode {
			return dr.drag.DraggerFor(da.Item, MeshCorner, MeshIndex(nodes, n[0], n[1]), da.Target)
		}
	}
	return nil
}
