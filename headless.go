package grdrag

// Headless is a desktop without a screen. Its markers only record their state, which makes it suitable for tools and tests.
type Headless struct {
	Scale   float64
	YDown   bool
	Markers []*HeadlessMarker

	last    Draggable
	hasLast bool
}

// NewHeadless returns a headless desktop at zoom 1 with the y-axis pointing down.
func NewHeadless() *Headless {
	return &Headless{
		Scale: 1.0,
		YDown: true,
	}
}

// Zoom implements Desktop.
func (h *Headless) Zoom() float64 {
	return h.Scale
}

// YAxisDown implements Desktop.
func (h *Headless) YAxisDown() bool {
	return h.YDown
}

// NewMarker implements Desktop.
func (h *Headless) NewMarker(shape Shape) Marker {
	m := &HeadlessMarker{
		Shape:   shape,
		Visible: true,
		desktop: h,
	}
	h.Markers = append(h.Markers, m)
	return m
}

// LastSelected implements Desktop.
func (h *Headless) LastSelected() (Draggable, bool) {
	return h.last, h.hasLast
}

// SetLastSelected implements Desktop.
func (h *Headless) SetLastSelected(da Draggable, ok bool) {
	h.last, h.hasLast = da, ok
}

// MarkerAt returns the visible marker at p within the distance in screen pixels, or nil.
func (h *Headless) MarkerAt(p Point, dist float64) *HeadlessMarker {
	var best *HeadlessMarker
	dist /= h.Scale
	for _, m := range h.Markers {
		if !m.Visible {
			continue
		} else if d := m.Point.Distance(p); d <= dist {
			best, dist = m, d
		}
	}
	return best
}

// Hover sets the pointer position, markers within the distance in screen pixels report MouseOver.
func (h *Headless) Hover(p Point, dist float64) {
	hovered := h.MarkerAt(p, dist)
	for _, m := range h.Markers {
		m.Hover = m == hovered
	}
}

// HeadlessMarker is the marker of a headless desktop.
type HeadlessMarker struct {
	Point       Point
	Shape       Shape
	Tip         string
	Visible     bool
	Selected    bool
	Highlighted bool
	Hover       bool

	desktop *Headless
}

func (m *HeadlessMarker) MoveTo(p Point) {
	m.Point = p
}

func (m *HeadlessMarker) SetShape(shape Shape) {
	m.Shape = shape
}

func (m *HeadlessMarker) SetVisible(visible bool) {
	m.Visible = visible
}

func (m *HeadlessMarker) SetSelected(selected bool) {
	m.Selected = selected
}

func (m *HeadlessMarker) SetHighlighted(highlighted bool) {
	m.Highlighted = highlighted
}

func (m *HeadlessMarker) SetTip(tip string) {
	m.Tip = tip
}

func (m *HeadlessMarker) MouseOver() bool {
	return m.Hover
}

// Remove detaches the marker from its desktop.
func (m *HeadlessMarker) Remove() {
	if m.desktop == nil {
		return
	}
	for i, o := range m.desktop.Markers {
		if o == m {
			m.desktop.Markers = append(m.desktop.Markers[:i], m.desktop.Markers[i+1:]...)
			break
		}
	}
	m.desktop = nil
}
