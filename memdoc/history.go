package memdoc

import (
	"errors"

	"github.com/tdewolff/grdrag"
)

// ErrNothingToUndo is returned by Undo at the start of the history.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo is returned by Redo at the end of the history.
var ErrNothingToRedo = errors.New("nothing to redo")

// Rec is one undo record, the state of the document after the action.
type Rec struct {
	Action string
	Key    string
	state  state
}

// History is the undo log of a document. It keeps a full copy of the paints of all items per record and implements grdrag.Undo.
type History struct {
	Idx  int    // index of the record that reflects the current state
	Recs []*Rec // the first record holds the initial state

	doc *Document
}

// NewHistory returns a history that starts at the current state of the document.
func NewHistory(doc *Document) *History {
	return &History{
		Recs: []*Rec{{Action: "Open", state: doc.save()}},
		doc:  doc,
	}
}

// Done implements grdrag.Undo.
func (h *History) Done(action string) {
	h.save(action, "")
	grdrag.Logger().Debug("undo step", "action", action, "index", h.Idx)
}

// MaybeDone implements grdrag.Undo. Consecutive records with the same non-empty key are coalesced into the last one.
func (h *History) MaybeDone(key, action string) {
	if key != "" && 0 < h.Idx && h.Idx == len(h.Recs)-1 && h.Recs[h.Idx].Key == key {
		rec := h.Recs[h.Idx]
		rec.Action = action
		rec.state = h.doc.save()
		return
	}
	h.save(action, key)
	grdrag.Logger().Debug("undo step", "action", action, "key", key, "index", h.Idx)
}

func (h *History) save(action, key string) {
	// recs will be [old..., Idx] after this
	h.Recs = h.Recs[:h.Idx+1]
	h.Recs = append(h.Recs, &Rec{Action: action, Key: key, state: h.doc.save()})
	h.Idx++
}

// IsUndoAvail returns true if there is at least one undo record available.
func (h *History) IsUndoAvail() bool {
	return 0 < h.Idx
}

// IsRedoAvail returns true if there is at least one redo record available.
func (h *History) IsRedoAvail() bool {
	return h.Idx < len(h.Recs)-1
}

// Undo restores the state before the current record and returns the action that was undone.
func (h *History) Undo() (string, error) {
	if !h.IsUndoAvail() {
		return "", ErrNothingToUndo
	}
	action := h.Recs[h.Idx].Action
	h.Idx--
	h.Recs[h.Idx].Key = ""
	h.doc.restore(h.Recs[h.Idx].state)
	return action, nil
}

// Redo restores the state of the next record and returns its action.
func (h *History) Redo() (string, error) {
	if !h.IsRedoAvail() {
		return "", ErrNothingToRedo
	}
	h.Idx++
	h.Recs[h.Idx].Key = ""
	h.doc.restore(h.Recs[h.Idx].state)
	return h.Recs[h.Idx].Action, nil
}

// Actions returns the actions of the records up to the current one, the initial state excluded.
func (h *History) Actions() []string {
	actions := []string{}
	for _, rec := range h.Recs[1 : h.Idx+1] {
		actions = append(actions, rec.Action)
	}
	return actions
}

type itemState struct {
	item         *Item
	fill, stroke Paint
}

type state []itemState

// save copies the paints of all items. Vectors that are shared stay shared within the copy.
func (doc *Document) save() state {
	vectors := map[*Vector]*Vector{}
	s := make(state, 0, len(doc.items))
	for _, it := range doc.items {
		s = append(s, itemState{
			item:   it,
			fill:   copyPaint(it.Fill, vectors),
			stroke: copyPaint(it.Stroke, vectors),
		})
	}
	return s
}

// restore puts back the paints of a saved state and notifies the selection once.
func (doc *Document) restore(s state) {
	vectors := map[*Vector]*Vector{}
	selected := false
	for _, is := range s {
		is.item.Fill = copyPaint(is.fill, vectors)
		is.item.Stroke = copyPaint(is.stroke, vectors)
		selected = selected || doc.sel.Contains(is.item)
	}
	doc.writes++
	if selected {
		doc.sel.emitModified()
	}
}

func copyPaint(p Paint, vectors map[*Vector]*Vector) Paint {
	if p.Gradient == nil {
		return p
	}
	g := p.Gradient.Clone()
	if g.Vector != nil {
		v, ok := vectors[g.Vector]
		if !ok {
			v = g.Vector.clone()
			vectors[g.Vector] = v
		}
		g.Vector = v
	}
	p.Gradient = g
	return p
}
