package grdrag

import "fmt"

// Draggable is one gradient control point as used by one item: the point with the given role and stop index in the gradient of the item's fill or stroke. An index of -1 matches any index in lookups.
type Draggable struct {
	Item   Item
	Role   Role
	Index  int
	Target Target
}

func newDraggable(doc Document, item Item, role Role, index int, target Target) *Draggable {
	doc.Hold(item)
	return &Draggable{
		Item:   item,
		Role:   role,
		Index:  index,
		Target: target,
	}
}

func (da *Draggable) release(doc Document) {
	doc.Release(da.Item)
}

// Is returns true if the draggable matches the given point, where role -1 and index -1 match anything.
func (da *Draggable) Is(item Item, role Role, index int, target Target) bool {
	return da.Item == item && (role == -1 || da.Role == role) && (index == -1 || da.Index == index) && da.Target == target
}

// MayMerge returns true if both draggables may share a dragger. Mid stops never merge, and distinct points of the same gradient only merge for the center and focus of a radial gradient.
func (da *Draggable) MayMerge(other *Draggable) bool {
	if da.Item == other.Item && da.Target == other.Target {
		if !(da.Role == RadialFocus && other.Role == RadialCenter || da.Role == RadialCenter && other.Role == RadialFocus) {
			return false
		}
	}
	return !da.Role.IsMid() && !other.Role.IsMid()
}

// StopIndex returns the index of the stop that this draggable edits for a stop vector of n stops, or -1 for mesh nodes.
func (da *Draggable) StopIndex(n int) int {
	switch da.Role {
	case LinearBegin, RadialCenter, RadialFocus:
		return 0
	case LinearEnd, RadialR1, RadialR2:
		return n - 1
	case LinearMid, RadialMid1, RadialMid2:
		return da.Index
	}
	return -1
}

func (da *Draggable) String() string {
	return fmt.Sprintf("%s:%s[%d]:%s", da.Item.ID(), da.Role, da.Index, da.Target)
}
