package preview

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/grdrag/memdoc"
)

var infinite = image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)

// blend interpolates two colors in RGB space.
func blend(a, b color.NRGBA, t float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255.0, G: float64(a.G) / 255.0, B: float64(a.B) / 255.0}
	cb := colorful.Color{R: float64(b.R) / 255.0, G: float64(b.G) / 255.0, B: float64(b.B) / 255.0}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	return color.NRGBA{r, g, bl, uint8(math.Round(float64(a.A) + t*(float64(b.A)-float64(a.A))))}
}

// colorAt returns the color of the stops at offset t, padding beyond the first and last stop.
func colorAt(stops []grdrag.Stop, t float64) color.NRGBA {
	if len(stops) == 0 {
		return color.NRGBA{}
	} else if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			a, b := stops[i-1], stops[i]
			if b.Offset-a.Offset < grdrag.Epsilon {
				return b.Color
			}
			return blend(a.Color, b.Color, (t-a.Offset)/(b.Offset-a.Offset))
		}
	}
	return stops[len(stops)-1].Color
}

// gradientShader is an infinite image with the colors of a linear or radial gradient. Pixel centers map to gradient space through inv.
type gradientShader struct {
	g   *memdoc.Gradient
	inv grdrag.Matrix
}

func (s gradientShader) ColorModel() color.Model {
	return color.NRGBAModel
}

func (s gradientShader) Bounds() image.Rectangle {
	return infinite
}

func (s gradientShader) At(x, y int) color.Color {
	var stops []grdrag.Stop
	if s.g.Vector != nil {
		stops = s.g.Vector.Stops
	}
	q := s.inv.Dot(grdrag.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
	return colorAt(stops, s.offset(q))
}

func (s gradientShader) offset(q grdrag.Point) float64 {
	g := s.g
	if g.Kind == grdrag.Linear {
		return grdrag.LineNearestTime(g.P1, g.P2, q)
	} else if g.R < grdrag.Epsilon {
		return 1.0
	}

	// the circle through q centered at F+t(C-F) with radius tR
	d, e := q.Sub(g.F), g.C.Sub(g.F)
	a := e.Dot(e) - g.R*g.R
	de := d.Dot(e)
	var t float64
	if math.Abs(a) < grdrag.Epsilon {
		if de < grdrag.Epsilon {
			return 1.0
		}
		t = d.Dot(d) / (2.0 * de)
	} else {
		disc := de*de - a*d.Dot(d)
		if disc < 0.0 {
			return 1.0
		}
		t = (de - math.Sqrt(disc)) / a
		if t < 0.0 {
			t = (de + math.Sqrt(disc)) / a
		}
	}
	return math.Max(0.0, math.Min(1.0, t))
}

// patchShader is an infinite image with the corner colors of a mesh patch, weighted by their inverse squared distance.
type patchShader struct {
	corners [4]grdrag.Point // in pixels
	colors  [4]color.NRGBA
}

func (s patchShader) ColorModel() color.Model {
	return color.NRGBAModel
}

func (s patchShader) Bounds() image.Rectangle {
	return infinite
}

func (s patchShader) At(x, y int) color.Color {
	p := grdrag.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	var r, g, b, a, sum float64
	for i, corner := range s.corners {
		d := corner.Distance(p)
		if d < 0.5 {
			return s.colors[i]
		}
		w := 1.0 / (d * d)
		r += w * float64(s.colors[i].R)
		g += w * float64(s.colors[i].G)
		b += w * float64(s.colors[i].B)
		a += w * float64(s.colors[i].A)
		sum += w
	}
	return color.NRGBA{uint8(r/sum + 0.5), uint8(g/sum + 0.5), uint8(b/sum + 0.5), uint8(a/sum + 0.5)}
}
