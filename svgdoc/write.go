package svgdoc

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/grdrag/memdoc"
	"github.com/tdewolff/minify/v2"
)

// Precision is the number of significant digits of written numbers.
var Precision = 8

type num float64

func (f num) String() string {
	s := fmt.Sprintf("%.*g", Precision, f)
	if num(math.MaxInt32) < f || f < num(math.MinInt32) {
		if i := strings.IndexAny(s, ".eE"); i == -1 {
			s += ".0"
		}
	}
	return string(minify.Number([]byte(s), Precision))
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(c color.NRGBA) num {
	return num(float64(c.A) / 255.0)
}

func matrix(m grdrag.Matrix) string {
	return fmt.Sprintf("matrix(%v %v %v %v %v %v)", num(m[0][0]), num(m[1][0]), num(m[0][1]), num(m[1][1]), num(m[0][2]), num(m[1][2]))
}

type svgWriter struct {
	buf     *bytes.Buffer
	defs    *bytes.Buffer
	ids     map[string]bool
	vectors map[*memdoc.Vector]string
}

// id returns a unique identifier based on the given one.
func (w *svgWriter) id(id, prefix string) string {
	if id == "" {
		id = prefix
	}
	if !w.ids[id] && id != prefix {
		w.ids[id] = true
		return id
	}
	for i := 1; ; i++ {
		if s := fmt.Sprintf("%s%d", id, i); !w.ids[s] {
			w.ids[s] = true
			return s
		}
	}
}

func (w *svgWriter) writeVector(v *memdoc.Vector) string {
	if id, ok := w.vectors[v]; ok {
		return id
	}
	id := w.id(v.ID, "vector")
	w.vectors[v] = id

	fmt.Fprintf(w.defs, `<linearGradient id="%s"`, id)
	if v.Swatch {
		fmt.Fprintf(w.defs, ` inkscape:swatch="solid"`)
	}
	fmt.Fprintf(w.defs, ">")
	for _, stop := range v.Stops {
		fmt.Fprintf(w.defs, "\n<stop offset=\"%v\" style=\"stop-color:%s;stop-opacity:%v\"/>", num(stop.Offset), hex(stop.Color), opacity(stop.Color))
	}
	fmt.Fprintf(w.defs, "\n</linearGradient>\n")
	return id
}

func (w *svgWriter) writeGradient(g *memdoc.Gradient) string {
	href := ""
	if g.Vector != nil && g.Kind != grdrag.Mesh {
		href = fmt.Sprintf(` xlink:href="#%s"`, w.writeVector(g.Vector))
	}
	id := w.id(g.ID, "gradient")

	transform := ""
	if !g.Transform.Equals(grdrag.Identity) {
		transform = fmt.Sprintf(` gradientTransform="%s"`, matrix(g.Transform))
	}
	switch g.Kind {
	case grdrag.Linear:
		fmt.Fprintf(w.defs, `<linearGradient id="%s"%s gradientUnits="userSpaceOnUse" x1="%v" y1="%v" x2="%v" y2="%v"%s/>`,
			id, href, num(g.P1.X), num(g.P1.Y), num(g.P2.X), num(g.P2.Y), transform)
	case grdrag.Radial:
		fmt.Fprintf(w.defs, `<radialGradient id="%s"%s gradientUnits="userSpaceOnUse" cx="%v" cy="%v" fx="%v" fy="%v" r="%v"%s/>`,
			id, href, num(g.C.X), num(g.C.Y), num(g.F.X), num(g.F.Y), num(g.R), transform)
	case grdrag.Mesh:
		w.writeMesh(id, g.Nodes, transform)
		return id
	}
	fmt.Fprintf(w.defs, "\n")
	return id
}

// writeMesh writes the patches of a mesh gradient, omitting the edges that are shared with the patch above or to the left.
func (w *svgWriter) writeMesh(id string, nodes [][]grdrag.MeshNode, transform string) {
	rows, cols := grdrag.MeshSize(nodes)
	if rows == 0 || cols == 0 {
		return
	}
	p := func(i, j int) string {
		return fmt.Sprintf("%v,%v", num(nodes[i][j].Point.X), num(nodes[i][j].Point.Y))
	}

	fmt.Fprintf(w.defs, `<meshgradient id="%s" gradientUnits="userSpaceOnUse" x="%v" y="%v"%s>`, id, num(nodes[0][0].Point.X), num(nodes[0][0].Point.Y), transform)
	for pi := 0; pi < rows; pi++ {
		fmt.Fprintf(w.defs, "\n<meshrow>")
		for pj := 0; pj < cols; pj++ {
			r, c := 3*pi, 3*pj
			edges := [4][4][2]int{
				{{r, c}, {r, c + 1}, {r, c + 2}, {r, c + 3}},
				{{r, c + 3}, {r + 1, c + 3}, {r + 2, c + 3}, {r + 3, c + 3}},
				{{r + 3, c + 3}, {r + 3, c + 2}, {r + 3, c + 1}, {r + 3, c}},
				{{r + 3, c}, {r + 2, c}, {r + 1, c}, {r, c}},
			}
			fmt.Fprintf(w.defs, "\n<meshpatch>")
			for e, edge := range edges {
				if e == 0 && 0 < pi || e == 3 && 0 < pj {
					continue
				}
				col := nodes[edge[0][0]][edge[0][1]].Color
				fmt.Fprintf(w.defs, "\n<stop path=\"C %s %s %s\" style=\"stop-color:%s;stop-opacity:%v\"/>",
					p(edge[1][0], edge[1][1]), p(edge[2][0], edge[2][1]), p(edge[3][0], edge[3][1]), hex(col), opacity(col))
			}
			fmt.Fprintf(w.defs, "\n</meshpatch>")
		}
		fmt.Fprintf(w.defs, "\n</meshrow>")
	}
	fmt.Fprintf(w.defs, "\n</meshgradient>\n")
}

func (w *svgWriter) writePaint(name string, paint memdoc.Paint) {
	if paint.Gradient != nil {
		fmt.Fprintf(w.buf, ` %s="url(#%s)"`, name, w.writeGradient(paint.Gradient))
	} else if paint.Set {
		fmt.Fprintf(w.buf, ` %s="%s"`, name, hex(paint.Color))
		if paint.Color.A != 255 {
			fmt.Fprintf(w.buf, ` %s-opacity="%v"`, name, opacity(paint.Color))
		}
	} else if name == "fill" {
		fmt.Fprintf(w.buf, ` fill="none"`)
	}
}

// Write writes the document as SVG. Every vector of stops is written once and referred to by the gradients of the items.
func Write(wr io.Writer, doc *memdoc.Document) error {
	w := &svgWriter{
		buf:     &bytes.Buffer{},
		defs:    &bytes.Buffer{},
		ids:     map[string]bool{},
		vectors: map[*memdoc.Vector]string{},
	}
	items := doc.Items()
	for _, it := range items {
		w.ids[it.ID()] = true
	}

	for _, it := range items {
		b := it.Box
		switch {
		case it.Tag == "circle" && b.W == b.H:
			fmt.Fprintf(w.buf, `<circle id="%s" cx="%v" cy="%v" r="%v"`, it.ID(), num(b.X+b.W/2.0), num(b.Y+b.H/2.0), num(b.W/2.0))
		case it.Tag == "circle" || it.Tag == "ellipse":
			fmt.Fprintf(w.buf, `<ellipse id="%s" cx="%v" cy="%v" rx="%v" ry="%v"`, it.ID(), num(b.X+b.W/2.0), num(b.Y+b.H/2.0), num(b.W/2.0), num(b.H/2.0))
		default:
			fmt.Fprintf(w.buf, `<rect id="%s" x="%v" y="%v" width="%v" height="%v"`, it.ID(), num(b.X), num(b.Y), num(b.W), num(b.H))
		}
		if !it.Transform.Equals(grdrag.Identity) {
			fmt.Fprintf(w.buf, ` transform="%s"`, matrix(it.Transform))
		}
		w.writePaint("fill", it.Fill)
		w.writePaint("stroke", it.Stroke)
		if doc.Selection().Contains(it) {
			fmt.Fprintf(w.buf, ` class="selected"`)
		}
		fmt.Fprintf(w.buf, "/>\n")
	}

	out := &bytes.Buffer{}
	fmt.Fprintf(out, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" width="%v" height="%v" viewBox="0 0 %v %v">`+"\n",
		num(doc.Width), num(doc.Height), num(doc.Width), num(doc.Height))
	if 0 < w.defs.Len() {
		fmt.Fprintf(out, "<defs>\n")
		out.Write(w.defs.Bytes())
		fmt.Fprintf(out, "</defs>\n")
	}
	out.Write(w.buf.Bytes())
	fmt.Fprintf(out, "</svg>\n")
	_, err := wr.Write(out.Bytes())
	return err
}
