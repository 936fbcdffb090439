// Package svgdoc reads and writes documents in SVG. It supports rectangles, circles and ellipses painted with linear, radial and mesh gradients, where gradients may share their stops through href references.
package svgdoc

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/grdrag/memdoc"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/tdewolff/parse/v2/xml"
	"golang.org/x/image/colornames"
)

type stopDef struct {
	path  string
	color color.NRGBA
}

type gradientDef struct {
	id    string
	tag   string
	attrs map[string]string
	stops []grdrag.Stop
	mesh  [][][]stopDef // rows of patches of stops
}

type itemDef struct {
	it           *memdoc.Item
	fill, stroke string
	selected     bool
}

type element struct {
	tag string
	m   grdrag.Matrix
}

type svgParser struct {
	z   *parse.Input
	err error

	doc                     *memdoc.Document
	width, height, diagonal float64

	elems     []element
	gradients map[string]*gradientDef
	grad      *gradientDef
	items     []*itemDef
	vectors   map[string]*memdoc.Vector

	styles          map[string][]string
	stylesSelectors []string
	instyle         bool
}

func (svg *svgParser) error(format string, args ...interface{}) {
	if svg.err == nil {
		svg.err = parse.NewErrorLexer(svg.z, format, args...)
	}
}

func (svg *svgParser) transform() grdrag.Matrix {
	if len(svg.elems) == 0 {
		return grdrag.Identity
	}
	return svg.elems[len(svg.elems)-1].m
}

func (svg *svgParser) pop() {
	if len(svg.elems) == 0 {
		return
	}
	tag := svg.elems[len(svg.elems)-1].tag
	svg.elems = svg.elems[:len(svg.elems)-1]
	switch tag {
	case "linearGradient", "radialGradient", "meshgradient":
		svg.grad = nil
	case "style":
		svg.instyle = false
	}
}

func (svg *svgParser) parseNumber(v string) float64 {
	num, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		svg.error("bad number: %w: %s", err, v)
		return 0.0
	}
	return num
}

func (svg *svgParser) parseDimension(v string, parent float64) float64 {
	v = strings.TrimSpace(v)
	if len(v) == 0 {
		return 0.0
	}

	nn, _ := parse.Dimension([]byte(v))
	num, err := strconv.ParseFloat(v[:nn], 64)
	if err != nil {
		svg.error("bad dimension: %w: %s", err, v)
		return 0.0
	}

	dim := v[nn:]
	switch strings.ToLower(dim) {
	case "cm":
		return num * 10.0 * 96.0 / 25.4
	case "mm":
		return num * 96.0 / 25.4
	case "in":
		return num * 96.0
	case "pc":
		return num * 96.0 / 6.0
	case "pt":
		return num * 96.0 / 72.0
	case "", "px":
		return num
	case "%":
		return num * parent / 100.0
	}
	svg.error("unknown dimension: %s", dim)
	return 0.0
}

// parseFraction parses a number or a percentage as a fraction of one.
func (svg *svgParser) parseFraction(v string) float64 {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "%") {
		return svg.parseNumber(v[:len(v)-1]) / 100.0
	}
	return svg.parseNumber(v)
}

func (svg *svgParser) parseOpacity(v string) uint8 {
	f := math.Max(0.0, math.Min(1.0, svg.parseFraction(v)))
	return uint8(f*255.0 + 0.5)
}

func (svg *svgParser) parseColorComponent(v string) uint8 {
	v = strings.TrimSpace(v)
	if len(v) == 0 {
		return 0
	} else if v[len(v)-1] == '%' {
		num, err := strconv.ParseFloat(v[:len(v)-1], 64)
		if err != nil {
			svg.error("bad color component: %w: %s", err, v)
		}
		return uint8(math.Max(0.0, math.Min(255.0, num*255.0/100.0+0.5)))
	}
	num, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		svg.error("bad color component: %w: %s", err, v)
	}
	return uint8(num)
}

func (svg *svgParser) parseColor(v string) (color.NRGBA, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if len(v) == 0 || v == "none" || v == "transparent" {
		return color.NRGBA{}, false
	} else if v[0] == '#' {
		col, err := parseHex(v[1:])
		if err != nil {
			svg.error("bad color: %w: %s", err, v)
		}
		return col, err == nil
	} else if col, ok := colornames.Map[v]; ok {
		return color.NRGBA{col.R, col.G, col.B, col.A}, true
	}

	var col color.NRGBA
	if strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")") {
		comps := strings.Split(v[4:len(v)-1], ",")
		if len(comps) != 3 {
			svg.error("bad rgb function")
			return col, false
		}
		col.R = svg.parseColorComponent(comps[0])
		col.G = svg.parseColorComponent(comps[1])
		col.B = svg.parseColorComponent(comps[2])
		col.A = 255
	} else if strings.HasPrefix(v, "rgba(") && strings.HasSuffix(v, ")") {
		comps := strings.Split(v[5:len(v)-1], ",")
		if len(comps) != 4 {
			svg.error("bad rgba function")
			return col, false
		}
		col.R = svg.parseColorComponent(comps[0])
		col.G = svg.parseColorComponent(comps[1])
		col.B = svg.parseColorComponent(comps[2])
		col.A = svg.parseOpacity(comps[3])
	} else {
		svg.error("unknown color: %s", v)
		return col, false
	}
	return col, true
}

// ParseColor parses a color as it appears in a fill or stop-color property. The colors none and transparent return a zero color.
func ParseColor(v string) (color.NRGBA, error) {
	svg := svgParser{z: parse.NewInputString(v)}
	col, _ := svg.parseColor(v)
	return col, svg.err
}

func parseHex(s string) (color.NRGBA, error) {
	if len(s) == 3 || len(s) == 4 {
		var long strings.Builder
		for _, c := range s {
			long.WriteRune(c)
			long.WriteRune(c)
		}
		s = long.String()
	}
	if len(s) == 6 {
		s += "ff"
	} else if len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid length")
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

func (svg *svgParser) parsePoints(v string) []float64 {
	v = strings.ReplaceAll(v, "\n", ",")
	v = strings.ReplaceAll(v, "\t", ",")
	v = strings.ReplaceAll(v, " ", ",")

	vals := []float64{}
	for _, item := range strings.Split(v, ",") {
		if 0 < len(item) {
			val, err := strconv.ParseFloat(item, 64)
			if err != nil {
				svg.error("bad number array: %w: %s", err, v)
			}
			vals = append(vals, val)
		}
	}
	return vals
}

func (svg *svgParser) parseTransform(v string) grdrag.Matrix {
	i, j := 0, 0
	m := grdrag.Identity
	var fun string
	for i < len(v) {
		if v[i] == '(' {
			fun = strings.ToLower(strings.Trim(v[j:i], " ,\t\n"))
			j = i + 1
		} else if v[i] == ')' {
			d := svg.parsePoints(v[j:i])
			switch fun {
			case "matrix":
				if len(d) != 6 {
					svg.error("bad transform matrix")
				} else {
					m = m.Mul(grdrag.Matrix{{d[0], d[2], d[4]}, {d[1], d[3], d[5]}})
				}
			case "translate":
				if len(d) != 1 && len(d) != 2 {
					svg.error("bad transform translate")
				} else if len(d) == 1 {
					m = m.Translate(d[0], 0.0)
				} else {
					m = m.Translate(d[0], d[1])
				}
			case "scale":
				if len(d) != 1 && len(d) != 2 {
					svg.error("bad transform scale")
				} else if len(d) == 1 {
					m = m.Scale(d[0], d[0])
				} else {
					m = m.Scale(d[0], d[1])
				}
			case "rotate":
				if len(d) != 1 && len(d) != 3 {
					svg.error("bad transform rotate")
				} else if len(d) == 1 {
					m = m.Rotate(d[0])
				} else {
					m = m.Translate(d[1], d[2]).Rotate(d[0]).Translate(-d[1], -d[2])
				}
			case "skewx":
				if len(d) != 1 {
					svg.error("bad transform skewX")
				} else {
					m = m.Mul(grdrag.Matrix{{1.0, math.Tan(d[0] * math.Pi / 180.0), 0.0}, {0.0, 1.0, 0.0}})
				}
			case "skewy":
				if len(d) != 1 {
					svg.error("bad transform skewY")
				} else {
					m = m.Mul(grdrag.Matrix{{1.0, 0.0, 0.0}, {math.Tan(d[0] * math.Pi / 180.0), 1.0, 0.0}})
				}
			default:
				svg.error("unknown transform: %s", fun)
			}
			j = i + 1
		}
		i++
	}
	return m
}

// parseURL returns the identifier of a url(#id) reference.
func parseURL(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	v = strings.Trim(v[4:len(v)-1], `'" `)
	if !strings.HasPrefix(v, "#") {
		return "", false
	}
	return v[1:], true
}

// properties returns the attributes overridden by matching style sheet rules and by the style attribute.
func (svg *svgParser) properties(tag string, attrs map[string]string) map[string]string {
	props := make(map[string]string, len(attrs))
	for key, val := range attrs {
		props[key] = val
	}
	classes := strings.Fields(attrs["class"])
	for _, sel := range svg.stylesSelectors {
		if !matchSelector(sel, tag, attrs["id"], classes) {
			continue
		}
		for _, style := range svg.styles[sel] {
			if keyVal := strings.SplitN(style, ":", 2); len(keyVal) == 2 {
				props[strings.TrimSpace(keyVal[0])] = strings.TrimSpace(keyVal[1])
			}
		}
	}
	for _, item := range strings.Split(attrs["style"], ";") {
		if keyVal := strings.Split(item, ":"); len(keyVal) == 2 {
			props[strings.TrimSpace(keyVal[0])] = strings.TrimSpace(keyVal[1])
		}
	}
	return props
}

// matchSelector matches simple selectors of the form tag, .class, tag.class and #id.
func matchSelector(sel, tag, id string, classes []string) bool {
	if strings.HasPrefix(sel, "#") {
		return sel[1:] == id
	}
	parts := strings.SplitN(sel, ".", 2)
	if parts[0] != "" && parts[0] != tag {
		return false
	} else if len(parts) == 2 {
		for _, class := range classes {
			if class == parts[1] {
				return true
			}
		}
		return false
	}
	return true
}

func (svg *svgParser) parseStyle(data []byte) {
	parser := css.NewParser(parse.NewInputString(string(data)), false)
	selectors := []string{}
	styles := []string{}
	for {
		gt, _, data := parser.Next()
		if gt == css.QualifiedRuleGrammar || gt == css.BeginRulesetGrammar {
			selector := []string{}
			for _, v := range parser.Values() {
				if v.TokenType == css.DelimToken || v.TokenType == css.IdentToken || v.TokenType == css.HashToken {
					selector = append(selector, string(v.Data))
				} else if v.TokenType == css.CommaToken {
					selectors = append(selectors, strings.Join(selector, ""))
					selector = selector[:0]
				}
			}
			if len(selector) != 0 {
				selectors = append(selectors, strings.Join(selector, ""))
			}
		}

		if gt == css.DeclarationGrammar {
			values := ""
			for _, value := range parser.Values() {
				values += string(value.Data)
			}
			styles = append(styles, fmt.Sprintf("%s:%s", string(data), values))
		}

		if gt == css.ErrorGrammar || gt == css.EndRulesetGrammar {
			for _, sel := range selectors {
				svg.styles[sel] = append(svg.styles[sel], styles...)
				svg.stylesSelectors = append(svg.stylesSelectors, sel)
			}
			selectors = []string{}
			styles = []string{}
		}

		if gt == css.ErrorGrammar {
			break
		}
	}
}

func (svg *svgParser) startSVG(attrs map[string]string) {
	var viewbox [4]float64
	if v, ok := attrs["viewBox"]; ok {
		vals := svg.parsePoints(v)
		if len(vals) != 4 {
			svg.error("bad viewBox")
		} else {
			copy(viewbox[:], vals)
		}
	}
	svg.width, svg.height = viewbox[2], viewbox[3]
	if svg.width == 0.0 {
		svg.width = svg.parseDimension(attrs["width"], 0.0)
	}
	if svg.height == 0.0 {
		svg.height = svg.parseDimension(attrs["height"], 0.0)
	}
	svg.diagonal = math.Sqrt((svg.width*svg.width + svg.height*svg.height) / 2.0)
	svg.doc.Width, svg.doc.Height = svg.width, svg.height
	svg.elems[len(svg.elems)-1].m = grdrag.Identity.Translate(-viewbox[0], -viewbox[1])
}

func (svg *svgParser) startItem(tag string, props map[string]string) {
	var box grdrag.Rect
	switch tag {
	case "rect":
		box.X = svg.parseDimension(props["x"], svg.width)
		box.Y = svg.parseDimension(props["y"], svg.height)
		box.W = svg.parseDimension(props["width"], svg.width)
		box.H = svg.parseDimension(props["height"], svg.height)
	case "circle":
		cx := svg.parseDimension(props["cx"], svg.width)
		cy := svg.parseDimension(props["cy"], svg.height)
		r := svg.parseDimension(props["r"], svg.diagonal)
		box = grdrag.Rect{X: cx - r, Y: cy - r, W: 2.0 * r, H: 2.0 * r}
	case "ellipse":
		cx := svg.parseDimension(props["cx"], svg.width)
		cy := svg.parseDimension(props["cy"], svg.height)
		rx := svg.parseDimension(props["rx"], svg.width)
		ry := svg.parseDimension(props["ry"], svg.height)
		box = grdrag.Rect{X: cx - rx, Y: cy - ry, W: 2.0 * rx, H: 2.0 * ry}
	}

	id := props["id"]
	if id == "" {
		id = fmt.Sprintf("%s%d", tag, len(svg.items)+1)
	}
	it := svg.doc.NewItem(id, tag, box)
	it.Transform = svg.transform()

	def := &itemDef{it: it}
	if v, ok := props["fill"]; ok {
		def.fill = svg.setPaint(&it.Fill, v, props["fill-opacity"])
	} else {
		it.Fill = memdoc.Paint{Set: true, Color: color.NRGBA{0, 0, 0, 255}}
	}
	if v, ok := props["stroke"]; ok {
		def.stroke = svg.setPaint(&it.Stroke, v, props["stroke-opacity"])
	}
	for _, class := range strings.Fields(props["class"]) {
		if class == "selected" {
			def.selected = true
		}
	}
	if v, ok := props["data-selected"]; ok && v != "false" {
		def.selected = true
	}
	svg.items = append(svg.items, def)
}

// setPaint sets a flat paint and returns the gradient identifier for url references.
func (svg *svgParser) setPaint(paint *memdoc.Paint, v, opacity string) string {
	if id, ok := parseURL(v); ok {
		return id
	}
	col, ok := svg.parseColor(v)
	if ok && opacity != "" {
		col.A = uint8(float64(col.A)*float64(svg.parseOpacity(opacity))/255.0 + 0.5)
	}
	*paint = memdoc.Paint{Set: ok, Color: col}
	return ""
}

func (svg *svgParser) startStop(props map[string]string) {
	if svg.grad == nil {
		return
	}
	col, ok := svg.parseColor(props["stop-color"])
	if !ok {
		col = color.NRGBA{0, 0, 0, 255}
	}
	if v, ok := props["stop-opacity"]; ok {
		col.A = svg.parseOpacity(v)
	}

	if svg.grad.tag == "meshgradient" {
		if len(svg.grad.mesh) == 0 || len(svg.grad.mesh[len(svg.grad.mesh)-1]) == 0 {
			svg.error("stop outside mesh patch")
			return
		}
		row := svg.grad.mesh[len(svg.grad.mesh)-1]
		row[len(row)-1] = append(row[len(row)-1], stopDef{path: props["path"], color: col})
		return
	}

	offset := svg.parseFraction(props["offset"])
	offset = math.Max(0.0, math.Min(1.0, offset))
	if n := len(svg.grad.stops); 0 < n && offset < svg.grad.stops[n-1].Offset {
		offset = svg.grad.stops[n-1].Offset
	}
	svg.grad.stops = append(svg.grad.stops, grdrag.Stop{Offset: offset, Color: col})
}

// Read parses an SVG document. Items with the class selected or the data-selected attribute are selected. Each item gets its own gradient, while gradients referring to the same stops through href share a vector.
func Read(r io.Reader) (*memdoc.Document, error) {
	z := parse.NewInput(r)
	defer z.Restore()

	l := xml.NewLexer(z)
	svg := svgParser{
		z:         z,
		doc:       memdoc.New(),
		gradients: map[string]*gradientDef{},
		vectors:   map[string]*memdoc.Vector{},
		styles:    map[string][]string{},
	}
	root := false
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return svg.doc, l.Err()
			} else if svg.err != nil {
				return svg.doc, svg.err
			} else if !root {
				return svg.doc, fmt.Errorf("expected SVG tag")
			}
			svg.resolve()
			return svg.doc, svg.err
		case xml.StartTagToken:
			attrs := map[string]string{}
			for {
				tt, _ = l.Next()
				if tt != xml.AttributeToken {
					break
				}
				val := l.AttrVal()
				if 2 <= len(val) && (val[0] == '"' || val[0] == '\'') {
					val = val[1 : len(val)-1]
				}
				attrs[string(l.Text())] = string(val)
			}

			tag := string(data[1:])
			if !root {
				if tag != "svg" {
					return svg.doc, fmt.Errorf("expected SVG tag")
				}
				root = true
			}
			props := svg.properties(tag, attrs)
			m := svg.transform()
			if v, ok := props["transform"]; ok {
				m = m.Mul(svg.parseTransform(v))
			}
			svg.elems = append(svg.elems, element{tag: tag, m: m})

			switch tag {
			case "svg":
				if len(svg.elems) == 1 {
					svg.startSVG(props)
				}
			case "rect", "circle", "ellipse":
				svg.startItem(tag, props)
			case "linearGradient", "radialGradient", "meshgradient":
				svg.grad = &gradientDef{id: props["id"], tag: tag, attrs: props}
				if svg.grad.id != "" {
					svg.gradients[svg.grad.id] = svg.grad
				}
			case "meshrow":
				if svg.grad != nil {
					svg.grad.mesh = append(svg.grad.mesh, [][]stopDef{})
				}
			case "meshpatch":
				if svg.grad != nil && 0 < len(svg.grad.mesh) {
					row := &svg.grad.mesh[len(svg.grad.mesh)-1]
					*row = append(*row, []stopDef{})
				}
			case "stop":
				svg.startStop(props)
			case "style":
				svg.instyle = true
			}

			if tt == xml.StartTagCloseVoidToken {
				svg.pop()
			}
		case xml.TextToken:
			if svg.instyle {
				svg.parseStyle(data)
			}
		case xml.CDATAToken:
			if svg.instyle {
				svg.parseStyle(l.Text())
			}
		case xml.EndTagToken:
			svg.pop()
		}
	}
}

// lookup returns the attribute of the gradient or of the gradients it refers to.
func (svg *svgParser) lookup(def *gradientDef, key string) (string, bool) {
	for range 16 {
		if v, ok := def.attrs[key]; ok {
			return v, true
		}
		if def = svg.href(def); def == nil {
			break
		}
	}
	return "", false
}

func (svg *svgParser) href(def *gradientDef) *gradientDef {
	v, ok := def.attrs["href"]
	if !ok {
		v = def.attrs["xlink:href"]
	}
	if !strings.HasPrefix(v, "#") {
		return nil
	}
	return svg.gradients[v[1:]]
}

// vector returns the shared stops of the gradient, which are those of the first gradient in the chain of references that has stops.
func (svg *svgParser) vector(def *gradientDef) *memdoc.Vector {
	for range 16 {
		if 0 < len(def.stops) {
			if v, ok := svg.vectors[def.id]; ok && def.id != "" {
				return v
			}
			v := &memdoc.Vector{
				ID:     def.id,
				Stops:  append([]grdrag.Stop{}, def.stops...),
				Swatch: def.attrs["inkscape:swatch"] != "" || def.attrs["data-swatch"] == "true",
			}
			if def.id != "" {
				svg.vectors[def.id] = v
			}
			return v
		}
		if def = svg.href(def); def == nil {
			break
		}
	}
	return &memdoc.Vector{}
}

func (svg *svgParser) resolve() {
	var sel []*memdoc.Item
	for _, def := range svg.items {
		if def.fill != "" {
			svg.resolvePaint(def.it, &def.it.Fill, def.fill)
		}
		if def.stroke != "" {
			svg.resolvePaint(def.it, &def.it.Stroke, def.stroke)
		}
		if def.selected {
			sel = append(sel, def.it)
		}
	}
	svg.doc.Selection().Set(sel...)
}

func (svg *svgParser) resolvePaint(it *memdoc.Item, paint *memdoc.Paint, id string) {
	def, ok := svg.gradients[id]
	if !ok {
		grdrag.Logger().Warn("unknown paint server", "item", it.ID(), "id", id)
		*paint = memdoc.Paint{}
		return
	}
	g := svg.gradient(def, it.Box)
	*paint = memdoc.Paint{Set: true, Gradient: g}
}

// gradient builds a new gradient in item space for an item with the given bounding box.
func (svg *svgParser) gradient(def *gradientDef, box grdrag.Rect) *memdoc.Gradient {
	bbox := true
	if v, _ := svg.lookup(def, "gradientUnits"); v == "userSpaceOnUse" {
		bbox = false
	}
	coord := func(key, dflt string, parent float64) float64 {
		v, ok := svg.lookup(def, key)
		if !ok {
			v = dflt
		}
		if bbox {
			return svg.parseFraction(v)
		}
		return svg.parseDimension(v, parent)
	}

	var g *memdoc.Gradient
	switch def.tag {
	case "linearGradient":
		p1 := grdrag.Point{X: coord("x1", "0", svg.width), Y: coord("y1", "0", svg.height)}
		p2 := grdrag.Point{X: coord("x2", "100%", svg.width), Y: coord("y2", "0", svg.height)}
		g = memdoc.NewLinear(def.id, svg.vector(def), p1, p2)
	case "radialGradient":
		c := grdrag.Point{X: coord("cx", "50%", svg.width), Y: coord("cy", "50%", svg.height)}
		g = memdoc.NewRadial(def.id, svg.vector(def), c, coord("r", "50%", svg.diagonal))
		if _, ok := svg.lookup(def, "fx"); ok {
			g.F.X = coord("fx", "", svg.width)
		}
		if _, ok := svg.lookup(def, "fy"); ok {
			g.F.Y = coord("fy", "", svg.height)
		}
	case "meshgradient":
		start := grdrag.Point{X: coord("x", "0", svg.width), Y: coord("y", "0", svg.height)}
		g = memdoc.NewMeshNodes(def.id, svg.meshNodes(def, start))
	}

	m := grdrag.Identity
	if bbox {
		m = m.Translate(box.X, box.Y).Scale(box.W, box.H)
	}
	if v, ok := svg.lookup(def, "gradientTransform"); ok {
		m = m.Mul(svg.parseTransform(v))
	}
	g.Transform = m
	return g
}

// meshNodes lays out the patches of a mesh gradient. Every patch lists the edges that are not shared with the patch above or to its left, in the order top, right, bottom and left. Each stop holds the path of one edge and the color of the corner it starts from.
func (svg *svgParser) meshNodes(def *gradientDef, start grdrag.Point) [][]grdrag.MeshNode {
	rows := len(def.mesh)
	cols := 0
	if 0 < rows {
		cols = len(def.mesh[0])
	}
	if rows == 0 || cols == 0 {
		svg.error("empty mesh gradient")
		return nil
	}

	nodes := make([][]grdrag.MeshNode, 3*rows+1)
	for i := range nodes {
		nodes[i] = make([]grdrag.MeshNode, 3*cols+1)
		for j := range nodes[i] {
			nodes[i][j].Type = grdrag.NodeTypeAt(i, j)
		}
	}
	nodes[0][0].Point = start
	nodes[0][0].Set = true

	for pi, row := range def.mesh {
		if len(row) != cols {
			svg.error("bad mesh row length")
			return nodes
		}
		for pj, stops := range row {
			r, c := 3*pi, 3*pj
			edges := [4][4][2]int{
				{{r, c}, {r, c + 1}, {r, c + 2}, {r, c + 3}},
				{{r, c + 3}, {r + 1, c + 3}, {r + 2, c + 3}, {r + 3, c + 3}},
				{{r + 3, c + 3}, {r + 3, c + 2}, {r + 3, c + 1}, {r + 3, c}},
				{{r + 3, c}, {r + 2, c}, {r + 1, c}, {r, c}},
			}
			k := 0
			for e, edge := range edges {
				if e == 0 && 0 < pi || e == 3 && 0 < pj {
					continue
				} else if len(stops) <= k {
					svg.error("missing mesh patch stop")
					return nodes
				}
				stop := stops[k]
				k++

				from := &nodes[edge[0][0]][edge[0][1]]
				from.Color = stop.color
				pts := svg.parseEdge(stop.path, from.Point)
				last := 3
				if e == 3 {
					last = 2 // ends at the first corner
				}
				for n := 1; n <= last; n++ {
					node := &nodes[edge[n][0]][edge[n][1]]
					node.Point, node.Set = pts[n-1], true
				}
			}
		}
	}
	return nodes
}

// parseEdge parses a single cubic Bézier or line segment starting at p0 and returns its control points and end point. A line has its control points on the thirds.
func (svg *svgParser) parseEdge(path string, p0 grdrag.Point) [3]grdrag.Point {
	path = strings.TrimSpace(path)
	if len(path) == 0 {
		svg.error("bad mesh path")
		return [3]grdrag.Point{p0, p0, p0}
	}
	cmd, d := path[0], svg.parsePoints(path[1:])
	rel := cmd == 'c' || cmd == 'l'
	pt := func(i int) grdrag.Point {
		p := grdrag.Point{X: d[2*i], Y: d[2*i+1]}
		if rel {
			p = p.Add(p0)
		}
		return p
	}
	switch cmd {
	case 'c', 'C':
		if len(d) != 6 {
			break
		}
		return [3]grdrag.Point{pt(0), pt(1), pt(2)}
	case 'l', 'L':
		if len(d) != 2 {
			break
		}
		p3 := pt(0)
		return [3]grdrag.Point{p0.Interpolate(p3, 1.0/3.0), p0.Interpolate(p3, 2.0/3.0), p3}
	}
	svg.error("bad mesh path: %s", path)
	return [3]grdrag.Point{p0, p0, p0}
}
