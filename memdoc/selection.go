package memdoc

import (
	"slices"

	"github.com/tdewolff/grdrag"
)

type listener struct {
	id int
	f  func()
}

// Selection is an ordered set of selected items of a document. It implements grdrag.Selection.
type Selection struct {
	doc   *Document
	items []*Item

	next     int
	changed  []listener
	modified []listener
}

func newSelection(doc *Document) *Selection {
	return &Selection{doc: doc}
}

// Items implements grdrag.Selection.
func (s *Selection) Items() []grdrag.Item {
	items := make([]grdrag.Item, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	return items
}

// Contains returns true if the item is selected.
func (s *Selection) Contains(it *Item) bool {
	return slices.Contains(s.items, it)
}

// Set replaces the selection.
func (s *Selection) Set(items ...*Item) {
	s.items = s.items[:0]
	for _, it := range items {
		if it != nil && it.doc == s.doc && !slices.Contains(s.items, it) {
			s.items = append(s.items, it)
		}
	}
	s.emit(s.changed)
}

// Add adds the item to the selection.
func (s *Selection) Add(it *Item) {
	if it == nil || it.doc != s.doc || slices.Contains(s.items, it) {
		return
	}
	s.items = append(s.items, it)
	s.emit(s.changed)
}

// Remove removes the item from the selection.
func (s *Selection) Remove(it *Item) {
	if i := slices.Index(s.items, it); i != -1 {
		s.items = slices.Delete(s.items, i, i+1)
		s.emit(s.changed)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	if len(s.items) != 0 {
		s.items = s.items[:0]
		s.emit(s.changed)
	}
}

// OnChanged implements grdrag.Selection.
func (s *Selection) OnChanged(f func()) func() {
	return s.connect(&s.changed, f)
}

// OnModified implements grdrag.Selection.
func (s *Selection) OnModified(f func()) func() {
	return s.connect(&s.modified, f)
}

func (s *Selection) connect(ls *[]listener, f func()) func() {
	id := s.next
	s.next++
	*ls = append(*ls, listener{id, f})
	return func() {
		*ls = slices.DeleteFunc(*ls, func(l listener) bool {
			return l.id == id
		})
	}
}

func (s *Selection) emitModified() {
	s.emit(s.modified)
}

func (s *Selection) emit(ls []listener) {
	for _, l := range slices.Clone(ls) {
		l.f()
	}
}
