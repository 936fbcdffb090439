package grdrag

import (
	"slices"
)

// Drag is the controller of the on-canvas gradient handles of the selected items. It maps the control points of the items' gradients to draggers, keeps a selection of draggers, and updates the gradients as draggers move.
//
// A Drag is not safe for concurrent use, all calls happen on the event loop of the editor.
type Drag struct {
	doc     Document
	sel     Selection
	undo    Undo
	snapper Snapper
	desktop Desktop
	opts    Options

	draggers []*Dragger
	selected []*Dragger
	hlevels  []float64
	vlevels  []float64
	lines    []Line

	// localChange is set while the controller modifies the document, see write.
	localChange bool
	// keepSelection is set while dragging a selected dragger, so that releasing it does not reset the selection.
	keepSelection bool
	mouseOver     bool
	rebuilding    bool
	pending       bool

	grab       grab
	disconnect []func()
}

// New returns a controller for the items in the selection. The snapper may be nil to disable snapping, the desktop may be nil for a headless desktop and opts may be nil for DefaultOptions.
func New(doc Document, sel Selection, undo Undo, snapper Snapper, desktop Desktop, opts *Options) *Drag {
	if desktop == nil {
		desktop = NewHeadless()
	}
	if opts == nil {
		opts = &DefaultOptions
	}
	d := &Drag{
		doc:     doc,
		sel:     sel,
		undo:    undo,
		snapper: snapper,
		desktop: desktop,
		opts:    *opts,
	}
	d.disconnect = append(d.disconnect, sel.OnChanged(d.selectionChanged), sel.OnModified(d.selectionModified))

	d.Rebuild()
	if da, ok := desktop.LastSelected(); ok {
		if dr := d.DraggerFor(da.Item, da.Role, da.Index, da.Target); dr != nil {
			d.SetSelected(dr, false, true)
		}
	}
	d.UpdateLines()
	d.UpdateLevels()
	return d
}

// Close disconnects the controller from the selection and removes all draggers. The first selected point is remembered by the desktop for the next controller.
func (d *Drag) Close() {
	if 0 < len(d.selected) && 0 < len(d.selected[0].draggables) {
		d.desktop.SetLastSelected(*d.selected[0].draggables[0], true)
	} else {
		d.desktop.SetLastSelected(Draggable{}, false)
	}
	for _, disconnect := range d.disconnect {
		disconnect()
	}
	d.disconnect = nil
	d.grab = grab{}
	d.clear()
}

// Options returns the options of the controller.
func (d *Drag) Options() Options {
	return d.opts
}

// Draggers returns all draggers in tab order.
func (d *Drag) Draggers() []*Dragger {
	return append([]*Dragger{}, d.draggers...)
}

// Selected returns the selected draggers in the order they were selected.
func (d *Drag) Selected() []*Dragger {
	return append([]*Dragger{}, d.selected...)
}

// IsSelected returns true if the dragger is selected.
func (d *Drag) IsSelected(dr *Dragger) bool {
	return slices.Contains(d.selected, dr)
}

// Levels returns the horizontal and vertical alignment levels of the selected items.
func (d *Drag) Levels() ([]float64, []float64) {
	return append([]float64{}, d.hlevels...), append([]float64{}, d.vlevels...)
}

// Lines returns the connector lines and mesh edges between the draggers.
func (d *Drag) Lines() []Line {
	return append([]Line{}, d.lines...)
}

// DraggerFor returns the dragger that owns the given point, where index -1 matches any index, or nil if none does.
func (d *Drag) DraggerFor(item Item, role Role, index int, target Target) *Dragger {
	for _, dr := range d.draggers {
		if dr.has(item, role, index, target) {
			return dr
		}
	}
	return nil
}

// DraggerAt returns the visible dragger nearest to p within the drop distance in screen pixels, or nil.
func (d *Drag) DraggerAt(p Point) *Dragger {
	var best *Dragger
	dist := d.opts.DropDistance / d.zoom()
	for _, dr := range d.draggers {
		if !dr.visible {
			continue
		} else if dp := dr.point.Distance(p); dp <= dist {
			best, dist = dr, dp
		}
	}
	return best
}

func (d *Drag) zoom() float64 {
	if zoom := d.desktop.Zoom(); 0.0 < zoom {
		return zoom
	}
	return 1.0
}

func (d *Drag) clear() {
	for _, dr := range d.draggers {
		dr.remove()
	}
	d.draggers = d.draggers[:0]
	d.selected = d.selected[:0]
	d.lines = d.lines[:0]
}

// Rebuild discards all draggers and selection and creates new draggers for the gradients of the selected items. Reentrant rebuilds are deferred until the running one finishes.
func (d *Drag) Rebuild() {
	if d.rebuilding {
		d.pending = true
		return
	}
	d.rebuilding = true
	defer func() { d.rebuilding = false }()

	for {
		d.pending = false
		d.clear()
		for _, item := range d.sel.Items() {
			for _, target := range Targets {
				switch d.doc.Kind(item, target) {
				case Linear:
					d.addDraggersLinear(item, target)
				case Radial:
					d.addDraggersRadial(item, target)
				case Mesh:
					if target == Fill && d.opts.EditMeshFill || target == Stroke && d.opts.EditMeshStroke {
						d.addDraggersMesh(item, target)
					}
				}
			}
		}
		if !d.pending {
			break
		}
	}
	Logger().Debug("rebuilt gradient draggers", "draggers", len(d.draggers))
}

func (d *Drag) addDraggersLinear(item Item, target Target) {
	n := len(d.doc.Stops(item, target))
	d.addDragger(newDraggable(d.doc, item, LinearBegin, 0, target))
	for i := 1; i < n-1; i++ {
		d.addDragger(newDraggable(d.doc, item, LinearMid, i, target))
	}
	d.addDragger(newDraggable(d.doc, item, LinearEnd, n-1, target))
}

func (d *Drag) addDraggersRadial(item Item, target Target) {
	n := len(d.doc.Stops(item, target))
	d.addDragger(newDraggable(d.doc, item, RadialCenter, 0, target))
	for i := 1; i < n-1; i++ {
		d.addDragger(newDraggable(d.doc, item, RadialMid1, i, target))
	}
	d.addDragger(newDraggable(d.doc, item, RadialR1, n-1, target))
	for i := 1; i < n-1; i++ {
		d.addDragger(newDraggable(d.doc, item, RadialMid2, i, target))
	}
	d.addDragger(newDraggable(d.doc, item, RadialR2, n-1, target))
	d.addDragger(newDraggable(d.doc, item, RadialFocus, 0, target))
}

func (d *Drag) addDraggersMesh(item Item, target Target) {
	nodes := d.doc.MeshNodes(item, target)
	if rows, cols := MeshSize(nodes); rows == 0 || cols == 0 {
		Logger().Warn("empty mesh, no draggers", "item", item.ID())
		return
	}

	var counts [3]int
	for i := range nodes {
		for j, node := range nodes[i] {
			typ := NodeTypeAt(i, j)
			dr := d.addDragger(newDraggable(d.doc, item, typ.Role(), counts[typ], target))
			if dr != nil && typ != CornerNode && (!d.opts.ShowMeshHandles || !node.Set) {
				dr.setVisible(false)
			}
			counts[typ]++
		}
	}
}

// addDragger adds the draggable to the first dragger within the merge distance that it may merge with, or to a new dragger otherwise.
func (d *Drag) addDragger(da *Draggable) *Dragger {
	p, ok := d.doc.Coords(da.Item, da.Role, da.Index, da.Target)
	if !ok {
		Logger().Warn("gradient point has no coordinates", "draggable", da.String())
		da.release(d.doc)
		return nil
	}
	for _, dr := range d.draggers {
		if dr.mayMergeDraggable(da) && p.Distance(dr.point) < d.opts.MergeDistance {
			dr.addDraggable(da)
			dr.updateMarker()
			return dr
		}
	}
	dr := newDragger(d, p, da)
	d.draggers = append(d.draggers, dr)
	return dr
}

// removeDragger removes the dragger from the draggers and the selection, and releases its draggables.
func (d *Drag) removeDragger(dr *Dragger) {
	if i := slices.Index(d.draggers, dr); i != -1 {
		d.draggers = slices.Delete(d.draggers, i, i+1)
	}
	if i := slices.Index(d.selected, dr); i != -1 {
		d.selected = slices.Delete(d.selected, i, i+1)
	}
	dr.remove()
}

// Refresh moves the mesh handle and tensor draggers to their document positions and updates their visibility, without rebuilding.
func (d *Drag) Refresh() {
	for _, item := range d.sel.Items() {
		for _, target := range Targets {
			if d.doc.Kind(item, target) == Mesh {
				d.refreshMesh(item, target)
			}
		}
	}
}

func (d *Drag) refreshMesh(item Item, target Target) {
	nodes := d.doc.MeshNodes(item, target)
	if rows, cols := MeshSize(nodes); rows == 0 || cols == 0 {
		Logger().Warn("empty mesh, no draggers to refresh", "item", item.ID())
		return
	}

	var counts [3]int
	for i := range nodes {
		for j, node := range nodes[i] {
			typ := NodeTypeAt(i, j)
			index := counts[typ]
			counts[typ]++
			if typ == CornerNode {
				continue
			}
			dr := d.DraggerFor(item, typ.Role(), index, target)
			if dr == nil {
				continue
			}
			dr.moveTo(node.Point)
			dr.setVisible(d.opts.ShowMeshHandles && node.Set)
		}
	}
}

// UpdateLevels recomputes the alignment levels from the bounding boxes of the selected items.
func (d *Drag) UpdateLevels() {
	d.hlevels = d.hlevels[:0]
	d.vlevels = d.vlevels[:0]
	for _, item := range d.sel.Items() {
		r, ok := d.doc.Bounds(item)
		if !ok {
			continue
		}
		d.hlevels = append(d.hlevels, r.Y, r.Y+r.H, r.Y+r.H/2.0)
		d.vlevels = append(d.vlevels, r.X, r.X+r.W, r.X+r.W/2.0)
	}
}

// MouseOver returns true if the pointer is over any dragger. Lines are regenerated when the pointer enters or leaves a dragger.
func (d *Drag) MouseOver() bool {
	over := false
	for _, dr := range d.draggers {
		if dr.marker.MouseOver() {
			over = true
			break
		}
	}
	if over != d.mouseOver {
		d.mouseOver = over
		d.UpdateLines()
	}
	return over
}

func (d *Drag) selectionChanged() {
	d.Rebuild()
	d.UpdateLines()
	d.UpdateLevels()
}

// write runs f with localChange set, so that the modification notifications that f causes refresh the draggers instead of rebuilding them. The flag is reset even if f emits no notification.
func (d *Drag) write(f func()) {
	prev := d.localChange
	d.localChange = true
	defer func() { d.localChange = prev }()
	f()
}

func (d *Drag) selectionModified() {
	if d.localChange {
		d.Refresh()
	} else {
		d.Rebuild()
	}
	d.UpdateLines()
	d.UpdateLevels()
}
