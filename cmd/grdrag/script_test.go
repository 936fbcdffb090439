package main

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/grdrag/svgdoc"
	"github.com/tdewolff/test"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100">
<defs>
<linearGradient id="ga" gradientUnits="userSpaceOnUse" x1="0" y1="50" x2="100" y2="50"><stop offset="0" stop-color="red"/><stop offset="1" stop-color="blue"/></linearGradient>
<linearGradient id="gb" gradientUnits="userSpaceOnUse" x1="100" y1="50" x2="200" y2="50"><stop offset="0" stop-color="blue"/><stop offset="1" stop-color="red"/></linearGradient>
</defs>
<rect id="a" x="0" y="0" width="100" height="100" fill="url(#ga)" class="selected"/>
<rect id="b" x="100" y="0" width="100" height="100" fill="url(#gb)" class="selected"/>
</svg>`

func testSession(t *testing.T) *session {
	t.Helper()
	doc, err := svgdoc.Read(strings.NewReader(testSVG))
	test.Error(t, err)
	return newSession(doc, grdrag.DefaultOptions)
}

func testCoords(t *testing.T, s *session, id string, role grdrag.Role, index int) grdrag.Point {
	t.Helper()
	p, ok := s.doc.Coords(s.doc.Item(id), role, index, grdrag.Fill)
	test.That(t, ok, role.String())
	return p
}

func TestScript(t *testing.T) {
	s := testSession(t)
	defer s.drag.Close()
	test.T(t, len(s.drag.Draggers()), 3, "shared point merged")

	out := &bytes.Buffer{}
	sc := NewScript(s, out)
	test.Error(t, sc.Run(strings.NewReader(`# move the shared point
drag 100,50 to 70,30
`)))
	test.T(t, testCoords(t, s, "a", grdrag.LinearEnd, 1), grdrag.Point{70.0, 30.0})
	test.T(t, testCoords(t, s, "b", grdrag.LinearBegin, 0), grdrag.Point{70.0, 30.0})
	test.T(t, s.hist.Actions(), []string{"Move gradient handle"})

	test.Error(t, sc.Run(strings.NewReader("undo\n")))
	test.T(t, testCoords(t, s, "a", grdrag.LinearEnd, 1), grdrag.Point{100.0, 50.0})
	test.String(t, out.String(), "undo Move gradient handle\n")

	out.Reset()
	test.Error(t, sc.Run(strings.NewReader("addstop a 50,50\ncolor #00ff00\n\nprint\n")))
	stops := s.doc.Stops(s.doc.Item("a"), grdrag.Fill)
	test.T(t, len(stops), 3)
	test.Float(t, stops[1].Offset, 0.5)
	test.T(t, stops[1].Color, color.NRGBA{0, 255, 0, 255})
	test.That(t, strings.HasPrefix(out.String(), "stop 1 of Fill added\n"), out.String())
	test.That(t, strings.Contains(out.String(), "a:LinearMid[1]:Fill"), out.String())
}

func TestScriptGrab(t *testing.T) {
	s := testSession(t)
	defer s.drag.Close()

	out := &bytes.Buffer{}
	sc := NewScript(s, out)
	test.Error(t, sc.Run(strings.NewReader("grab a LinearBegin\nmove 25,70\nmove 30,70\nrelease\n")))
	test.T(t, testCoords(t, s, "a", grdrag.LinearBegin, 0), grdrag.Point{30.0, 70.0})
	test.T(t, s.drag.State(), grdrag.Released)

	test.Error(t, sc.Run(strings.NewReader("select b LinearEnd 1 fill\nkey Left\n")))
	test.T(t, testCoords(t, s, "b", grdrag.LinearEnd, 1), grdrag.Point{198.0, 50.0})

	test.Error(t, sc.Run(strings.NewReader("deselect\nkey Escape\n")))
	test.String(t, out.String(), "key Escape not handled\n")
}

func TestScriptErrors(t *testing.T) {
	var tests = []struct {
		script string
		err    string
	}{
		{"jump", "line 1: unknown command: jump"},
		{"\nmove 1,2", "line 2: move: nothing grabbed"},
		{"drag 1;2 to 3,4", "line 1: unknown item: 1;2"},
		{"move 1", "line 1: bad point: 1"},
		{"click c LinearBegin", "line 1: unknown item: c"},
		{"click a LinearCenter", "line 1: unknown role: LinearCenter"},
		{"click a RadialCenter", "line 1: no dragger for a RadialCenter -1 Fill"},
		{"key Enter", "line 1: unknown key: Enter"},
		{"key Tab meta", "line 1: unknown modifier: meta"},
		{"delete all", "line 1: delete: unexpected all"},
		{"undo", "line 1: nothing to undo"},
	}
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			s := testSession(t)
			defer s.drag.Close()
			err := NewScript(s, &bytes.Buffer{}).Run(strings.NewReader(tt.script))
			test.That(t, err != nil)
			test.String(t, err.Error(), tt.err)
		})
	}
}

func TestParseModifiers(t *testing.T) {
	mods, err := parseModifiers([]string{"Shift+ctrl"})
	test.Error(t, err)
	test.T(t, mods, grdrag.Shift|grdrag.Ctrl)

	mods, err = parseModifiers(nil)
	test.Error(t, err)
	test.T(t, mods, grdrag.Modifiers(0))

	_, err = parseModifiers([]string{"alt", "shift"})
	test.That(t, err != nil)

	role, err := parseRole("radialfocus")
	test.Error(t, err)
	test.T(t, role, grdrag.RadialFocus)

	target, err := parseTarget("STROKE")
	test.Error(t, err)
	test.T(t, target, grdrag.Stroke)
}
