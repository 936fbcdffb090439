// Package snap implements grdrag.Snapper for alignment levels, a rectangular grid and fixed target points.
package snap

import (
	"math"

	"github.com/tdewolff/grdrag"
)

// Guide is an alignment line that a point snapped to, either vertical at X=Position or horizontal at Y=Position.
type Guide struct {
	Vertical bool
	Position float64
}

// Snapper snaps points to the nearest target within Tolerance. Targets are target points, the horizontal and vertical alignment levels and the grid lines. Points take precedence over lines, and a point that lies on both a vertical and a horizontal line snaps to their crossing.
type Snapper struct {
	Tolerance float64      // in desktop units
	Grid      float64      // grid spacing, zero disables the grid
	Origin    grdrag.Point // grid origin
	HLevels   []float64
	VLevels   []float64
	Points    []grdrag.Point

	// MidStops enables snapping of mid stops to levels and grid lines along their axis.
	MidStops bool

	guides []Guide
}

// New returns a snapper with the given tolerance and no targets.
func New(tolerance float64) *Snapper {
	return &Snapper{
		Tolerance: tolerance,
		MidStops:  true,
	}
}

// SetLevels replaces the alignment levels, such as those returned by grdrag.Drag.Levels.
func (s *Snapper) SetLevels(hlevels, vlevels []float64) {
	s.HLevels = append(s.HLevels[:0], hlevels...)
	s.VLevels = append(s.VLevels[:0], vlevels...)
}

// Guides returns the alignment lines of the last successful snap.
func (s *Snapper) Guides() []Guide {
	return append([]Guide{}, s.guides...)
}

// FreeSnap implements grdrag.Snapper.
func (s *Snapper) FreeSnap(p grdrag.Point, source grdrag.SnapSource) (grdrag.Point, bool) {
	s.guides = s.guides[:0]
	if source == grdrag.SnapMidStop && !s.MidStops {
		return p, false
	}
	if q, ok := s.nearestPoint(p); ok {
		return q, true
	}

	q, snapped := p, false
	if x, ok := s.nearestLine(p.X, s.VLevels, s.Origin.X); ok {
		q.X, snapped = x, true
		s.guides = append(s.guides, Guide{Vertical: true, Position: x})
	}
	if y, ok := s.nearestLine(p.Y, s.HLevels, s.Origin.Y); ok {
		q.Y, snapped = y, true
		s.guides = append(s.guides, Guide{Vertical: false, Position: y})
	}
	if snapped {
		grdrag.Logger().Debug("free snap", "from", p, "to", q)
	}
	return q, snapped
}

// ConstrainedSnap implements grdrag.Snapper. The point is projected onto the constraint and snapped to the nearest crossing of the constraint with a level or grid line, or to the projection of a target point.
func (s *Snapper) ConstrainedSnap(p grdrag.Point, source grdrag.SnapSource, c grdrag.Constraint) (grdrag.Point, bool) {
	s.guides = s.guides[:0]
	p = c.Project(p)
	if source == grdrag.SnapMidStop && !s.MidStops || c.Direction.IsZero() {
		return p, false
	}

	best, bestDist := p, math.Inf(1)
	var bestGuide *Guide
	consider := func(q grdrag.Point, guide *Guide) {
		if d := q.Distance(p); d <= s.Tolerance && d < bestDist {
			best, bestDist, bestGuide = q, d, guide
		}
	}

	for _, pt := range s.Points {
		if q := c.Project(pt); q.Distance(pt) <= s.Tolerance {
			consider(q, nil)
		}
	}
	if bestDist == math.Inf(1) {
		if !equal(c.Direction.X, 0.0) {
			for _, x := range s.lines(p.X, s.VLevels, s.Origin.X) {
				t := (x - c.Origin.X) / c.Direction.X
				consider(c.Origin.Add(c.Direction.Mul(t)), &Guide{Vertical: true, Position: x})
			}
		}
		if !equal(c.Direction.Y, 0.0) {
			for _, y := range s.lines(p.Y, s.HLevels, s.Origin.Y) {
				t := (y - c.Origin.Y) / c.Direction.Y
				consider(c.Origin.Add(c.Direction.Mul(t)), &Guide{Vertical: false, Position: y})
			}
		}
	}
	if math.IsInf(bestDist, 1) {
		return p, false
	}
	if bestGuide != nil {
		s.guides = append(s.guides, *bestGuide)
	}
	grdrag.Logger().Debug("constrained snap", "from", p, "to", best)
	return best, true
}

func (s *Snapper) nearestPoint(p grdrag.Point) (grdrag.Point, bool) {
	best, dist := p, math.Inf(1)
	for _, q := range s.Points {
		if d := q.Distance(p); d <= s.Tolerance && d < dist {
			best, dist = q, d
		}
	}
	return best, !math.IsInf(dist, 1)
}

// nearestLine returns the level or grid line nearest to x within the tolerance.
func (s *Snapper) nearestLine(x float64, levels []float64, origin float64) (float64, bool) {
	best, dist := x, math.Inf(1)
	for _, l := range s.lines(x, levels, origin) {
		if d := math.Abs(l - x); d <= s.Tolerance && d < dist {
			best, dist = l, d
		}
	}
	return best, !math.IsInf(dist, 1)
}

// lines returns the candidate lines near x: the levels and the two grid lines around x.
func (s *Snapper) lines(x float64, levels []float64, origin float64) []float64 {
	lines := append([]float64{}, levels...)
	if 0.0 < s.Grid {
		k := math.Floor((x - origin) / s.Grid)
		lines = append(lines, origin+k*s.Grid, origin+(k+1.0)*s.Grid)
	}
	return lines
}

func equal(a, b float64) bool {
	return math.Abs(a-b) < grdrag.Epsilon
}
