// Package preview rasterizes a document together with the on-canvas gradient editor: the connector lines, the markers of the draggers and the snapping guides.
package preview

import (
	"image"
	"image/color"
	"math"

	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/grdrag/memdoc"
	"github.com/tdewolff/grdrag/snap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Options are the rendering options.
type Options struct {
	Scale      float64 // pixels per desktop unit
	Margin     int     // in pixels
	Background color.Color
	MarkerSize float64 // in pixels
	Guides     []snap.Guide
	Labels     bool // draw the roles next to the selected draggers
}

// DefaultOptions are the default rendering options.
var DefaultOptions = Options{
	Scale:      1.0,
	Margin:     16,
	Background: color.White,
	MarkerSize: 9.0,
}

var (
	lineColor       = color.NRGBA{0, 0, 255, 160}
	highlightColor  = color.NRGBA{255, 128, 0, 255}
	guideColor      = color.NRGBA{255, 0, 255, 128}
	markerColor     = color.NRGBA{255, 255, 255, 255}
	selectedColor   = color.NRGBA{0, 0, 255, 255}
	mouseOverColor  = color.NRGBA{255, 0, 0, 255}
	markerLineColor = color.NRGBA{0, 0, 0, 255}
	labelColor      = color.NRGBA{0, 0, 0, 255}
)

const (
	bezierSegments   = 24
	ellipseKappa     = 4.0 * (math.Sqrt2 - 1.0) / 3.0
	lineWidth        = 1.0
	markerLineWidth  = 1.0
	labelOffsetPixel = 8
)

// Draw draws the document and the editor of the drag controller, which may be nil, on a new image.
func Draw(doc *memdoc.Document, d *grdrag.Drag, opts *Options) *image.RGBA {
	if opts == nil {
		opts = &DefaultOptions
	}
	w := int(doc.Width*opts.Scale+0.5) + 2*opts.Margin
	h := int(doc.Height*opts.Scale+0.5) + 2*opts.Margin
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r := New(img, opts)
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	r.DrawDocument(doc)
	if d != nil {
		r.DrawGuides(opts.Guides)
		r.DrawDrag(d)
	}
	return img
}

// Renderer draws on an image, mapping desktop coordinates to pixels.
type Renderer struct {
	img  draw.Image
	opts Options
	view grdrag.Matrix
}

// New returns a renderer that draws on the image.
func New(img draw.Image, opts *Options) *Renderer {
	if opts == nil {
		opts = &DefaultOptions
	}
	margin := float64(opts.Margin)
	return &Renderer{
		img:  img,
		opts: *opts,
		view: grdrag.Identity.Translate(margin, margin).Scale(opts.Scale, opts.Scale),
	}
}

// ToPixel returns the pixel position of a desktop point.
func (r *Renderer) ToPixel(p grdrag.Point) grdrag.Point {
	return r.view.Dot(p)
}

func (r *Renderer) rasterizer() *vector.Rasterizer {
	size := r.img.Bounds().Size()
	return vector.NewRasterizer(size.X, size.Y)
}

func (r *Renderer) fill(ras *vector.Rasterizer, src image.Image) {
	size := r.img.Bounds().Size()
	ras.Draw(r.img, image.Rect(0, 0, size.X, size.Y), src, image.Point{})
}

// DrawDocument draws the fills and strokes of the items.
func (r *Renderer) DrawDocument(doc *memdoc.Document) {
	for _, it := range doc.Items() {
		m := r.view.Mul(it.Transform)
		r.drawPaint(it, it.Fill, m, false)
		r.drawPaint(it, it.Stroke, m, true)
	}
}

func (r *Renderer) drawPaint(it *memdoc.Item, paint memdoc.Paint, m grdrag.Matrix, stroke bool) {
	outline := func(ras *vector.Rasterizer) {
		if stroke {
			// a stroke of two pixels along the outline
			for _, seg := range shapeOutline(it, m) {
				strokeLine(ras, seg[0], seg[1], 2.0)
			}
		} else {
			addShape(ras, it, m)
		}
	}

	if g := paint.Gradient; g != nil {
		gm := m.Mul(g.Transform)
		if g.Kind == grdrag.Mesh {
			r.drawMesh(g, gm)
			return
		} else if !gm.IsInvertible() {
			return
		}
		ras := r.rasterizer()
		outline(ras)
		r.fill(ras, gradientShader{g: g, inv: gm.Inv()})
	} else if paint.Set {
		ras := r.rasterizer()
		outline(ras)
		r.fill(ras, image.NewUniform(paint.Color))
	}
}

func (r *Renderer) drawMesh(g *memdoc.Gradient, m grdrag.Matrix) {
	rows, cols := grdrag.MeshSize(g.Nodes)
	node := func(i, j int) grdrag.Point {
		return m.Dot(g.Nodes[i][j].Point)
	}
	for pi := 0; pi < rows; pi++ {
		for pj := 0; pj < cols; pj++ {
			i, j := 3*pi, 3*pj
			ras := r.rasterizer()
			start := node(i, j)
			ras.MoveTo(float32(start.X), float32(start.Y))
			cubeTo(ras, node(i, j+1), node(i, j+2), node(i, j+3))
			cubeTo(ras, node(i+1, j+3), node(i+2, j+3), node(i+3, j+3))
			cubeTo(ras, node(i+3, j+2), node(i+3, j+1), node(i+3, j))
			cubeTo(ras, node(i+2, j), node(i+1, j), start)
			ras.ClosePath()

			r.fill(ras, patchShader{
				corners: [4]grdrag.Point{node(i, j), node(i, j+3), node(i+3, j+3), node(i+3, j)},
				colors:  [4]color.NRGBA{g.Nodes[i][j].Color, g.Nodes[i][j+3].Color, g.Nodes[i+3][j+3].Color, g.Nodes[i+3][j].Color},
			})
		}
	}
}

// DrawGuides draws the alignment lines of a snap across the image.
func (r *Renderer) DrawGuides(guides []snap.Guide) {
	if len(guides) == 0 {
		return
	}
	size := r.img.Bounds().Size()
	ras := r.rasterizer()
	for _, guide := range guides {
		if guide.Vertical {
			x := r.ToPixel(grdrag.Point{X: guide.Position}).X
			strokeLine(ras, grdrag.Point{X: x, Y: 0.0}, grdrag.Point{X: x, Y: float64(size.Y)}, lineWidth)
		} else {
			y := r.ToPixel(grdrag.Point{Y: guide.Position}).Y
			strokeLine(ras, grdrag.Point{X: 0.0, Y: y}, grdrag.Point{X: float64(size.X), Y: y}, lineWidth)
		}
	}
	r.fill(ras, image.NewUniform(guideColor))
}

// DrawDrag draws the connector lines and the markers of the visible draggers. Selected draggers are labeled with their role when enabled.
func (r *Renderer) DrawDrag(d *grdrag.Drag) {
	for _, line := range d.Lines() {
		ras := r.rasterizer()
		pts := make([]grdrag.Point, len(line.Points))
		for i, p := range line.Points {
			pts[i] = r.ToPixel(p)
		}
		if line.IsStraight() {
			strokeLine(ras, pts[0], pts[1], lineWidth)
		} else {
			q := pts[0]
			for k := 1; k <= bezierSegments; k++ {
				p := grdrag.CubicBezierPos(pts[0], pts[1], pts[2], pts[3], float64(k)/float64(bezierSegments))
				strokeLine(ras, q, p, lineWidth)
				q = p
			}
		}
		col := lineColor
		if line.Highlighted {
			col = highlightColor
		}
		r.fill(ras, image.NewUniform(col))
	}

	for _, dr := range d.Draggers() {
		if !dr.Visible() {
			continue
		}
		col := markerColor
		switch {
		case dr.MouseOver():
			col = mouseOverColor
		case dr.Selected():
			col = selectedColor
		case dr.Highlighted():
			col = highlightColor
		}
		p := r.ToPixel(dr.Point())
		r.drawMarker(dr.Shape(), p, col)
		if r.opts.Labels && dr.Selected() && 0 < len(dr.Draggables()) {
			r.drawLabel(p, dr.Draggables()[0].Role.String())
		}
	}
}

func (r *Renderer) drawMarker(shape grdrag.Shape, p grdrag.Point, col color.NRGBA) {
	size := r.opts.MarkerSize / 2.0
	outer, inner := r.rasterizer(), r.rasterizer()
	addMarker(outer, shape, p, size+markerLineWidth)
	addMarker(inner, shape, p, size)
	r.fill(outer, image.NewUniform(markerLineColor))
	r.fill(inner, image.NewUniform(col))
}

func (r *Renderer) drawLabel(p grdrag.Point, text string) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(p.X)+labelOffsetPixel, int(p.Y)-labelOffsetPixel),
	}
	d.DrawString(text)
}

func cubeTo(ras *vector.Rasterizer, p1, p2, p3 grdrag.Point) {
	ras.CubeTo(float32(p1.X), float32(p1.Y), float32(p2.X), float32(p2.Y), float32(p3.X), float32(p3.Y))
}

func polygon(ras *vector.Rasterizer, pts ...grdrag.Point) {
	ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		ras.LineTo(float32(p.X), float32(p.Y))
	}
	ras.ClosePath()
}

// strokeLine adds a line segment of the given width as a quadrilateral.
func strokeLine(ras *vector.Rasterizer, a, b grdrag.Point, width float64) {
	dir := b.Sub(a)
	if dir.IsZero() {
		return
	}
	n := dir.Rot90CCW().Norm(width / 2.0)
	polygon(ras, a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
}

// addShape adds the outline of the item under m: an ellipse for circles and ellipses and a rectangle otherwise.
func addShape(ras *vector.Rasterizer, it *memdoc.Item, m grdrag.Matrix) {
	b := it.Box
	if it.Tag != "circle" && it.Tag != "ellipse" {
		polygon(ras, m.Dot(grdrag.Point{X: b.X, Y: b.Y}), m.Dot(grdrag.Point{X: b.X + b.W, Y: b.Y}),
			m.Dot(grdrag.Point{X: b.X + b.W, Y: b.Y + b.H}), m.Dot(grdrag.Point{X: b.X, Y: b.Y + b.H}))
		return
	}
	c := b.Center()
	rx, ry := b.W/2.0, b.H/2.0
	kx, ky := ellipseKappa*rx, ellipseKappa*ry
	pt := func(x, y float64) grdrag.Point {
		return m.Dot(grdrag.Point{X: c.X + x, Y: c.Y + y})
	}
	start := pt(rx, 0.0)
	ras.MoveTo(float32(start.X), float32(start.Y))
	cubeTo(ras, pt(rx, ky), pt(kx, ry), pt(0.0, ry))
	cubeTo(ras, pt(-kx, ry), pt(-rx, ky), pt(-rx, 0.0))
	cubeTo(ras, pt(-rx, -ky), pt(-kx, -ry), pt(0.0, -ry))
	cubeTo(ras, pt(kx, -ry), pt(rx, -ky), start)
	ras.ClosePath()
}

// shapeOutline returns the outline of the item under m as line segments.
func shapeOutline(it *memdoc.Item, m grdrag.Matrix) [][2]grdrag.Point {
	b := it.Box
	var pts []grdrag.Point
	if it.Tag != "circle" && it.Tag != "ellipse" {
		pts = []grdrag.Point{{X: b.X, Y: b.Y}, {X: b.X + b.W, Y: b.Y}, {X: b.X + b.W, Y: b.Y + b.H}, {X: b.X, Y: b.Y + b.H}}
	} else {
		c := b.Center()
		for k := 0; k < 4*bezierSegments; k++ {
			theta := 2.0 * math.Pi * float64(k) / float64(4*bezierSegments)
			pts = append(pts, grdrag.Point{X: c.X + b.W/2.0*math.Cos(theta), Y: c.Y + b.H/2.0*math.Sin(theta)})
		}
	}
	segs := make([][2]grdrag.Point, len(pts))
	for i := range pts {
		segs[i] = [2]grdrag.Point{m.Dot(pts[i]), m.Dot(pts[(i+1)%len(pts)])}
	}
	return segs
}

// addMarker adds a marker shape with the given half size centered at p.
func addMarker(ras *vector.Rasterizer, shape grdrag.Shape, p grdrag.Point, size float64) {
	switch shape {
	case grdrag.SquareShape:
		polygon(ras, p.Add(grdrag.Point{X: -size, Y: -size}), p.Add(grdrag.Point{X: size, Y: -size}),
			p.Add(grdrag.Point{X: size, Y: size}), p.Add(grdrag.Point{X: -size, Y: size}))
	case grdrag.DiamondShape:
		polygon(ras, p.Add(grdrag.Point{Y: -size}), p.Add(grdrag.Point{X: size}),
			p.Add(grdrag.Point{Y: size}), p.Add(grdrag.Point{X: -size}))
	case grdrag.TriangleShape:
		polygon(ras, p.Add(grdrag.Point{Y: -size}), p.Add(grdrag.Point{X: size, Y: size}), p.Add(grdrag.Point{X: -size, Y: size}))
	case grdrag.CrossShape:
		d := size / math.Sqrt2
		strokeLine(ras, p.Add(grdrag.Point{X: -d, Y: -d}), p.Add(grdrag.Point{X: d, Y: d}), size/2.0)
		strokeLine(ras, p.Add(grdrag.Point{X: -d, Y: d}), p.Add(grdrag.Point{X: d, Y: -d}), size/2.0)
	default:
		k := ellipseKappa * size
		ras.MoveTo(float32(p.X+size), float32(p.Y))
		cubeTo(ras, p.Add(grdrag.Point{X: size, Y: k}), p.Add(grdrag.Point{X: k, Y: size}), p.Add(grdrag.Point{Y: size}))
		cubeTo(ras, p.Add(grdrag.Point{X: -k, Y: size}), p.Add(grdrag.Point{X: -size, Y: k}), p.Add(grdrag.Point{X: -size}))
		cubeTo(ras, p.Add(grdrag.Point{X: -size, Y: -k}), p.Add(grdrag.Point{X: -k, Y: -size}), p.Add(grdrag.Point{Y: -size}))
		cubeTo(ras, p.Add(grdrag.Point{X: k, Y: -size}), p.Add(grdrag.Point{X: size, Y: -k}), p.Add(grdrag.Point{X: size}))
		ras.ClosePath()
	}
}
