package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/grdrag/svgdoc"
)

// Script runs gestures line by line on a session. Empty lines and lines starting with # are skipped.
//
//	grab ITEM ROLE [INDEX] [fill|stroke]   press on a dragger, or grab X,Y for the dragger at a point
//	move X,Y [MODS]                        move the pointer while pressed
//	release [MODS]                         release the pointer
//	drag DRAGGER to X,Y [MODS]             grab, move and release
//	hover X,Y                              move the pointer without pressing
//	click DRAGGER [MODS]                   click a dragger
//	dblclick DRAGGER                       double click a dragger
//	select DRAGGER, deselect, selectall    change the selected draggers
//	rect X0,Y0 X1,Y1                       select the draggers inside a rectangle
//	key NAME [MODS]                        press Left, Right, Up, Down, Tab, Delete, Backspace or Escape
//	delete [one]                           delete the selected stops
//	color COLOR                            set the color of the selected stops
//	drop COLOR X,Y                         drop a color at a point
//	addstop ITEM X,Y [TOLERANCE]           insert a stop near a point
//	reverse                                reverse the stops of the selected gradients
//	grid SPACING                           snap to a grid, zero disables it
//	undo, redo                             step through the history
//	print                                  print the draggers
//
// Modifiers are joined by +, such as shift+ctrl.
type Script struct {
	s *session
	w io.Writer
}

// NewScript returns a script runner that prints its output to w.
func NewScript(s *session, w io.Writer) *Script {
	return &Script{s, w}
}

// Run executes all lines of r and stops at the first error.
func (sc *Script) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for i := 1; scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if err := sc.Exec(strings.Fields(line)); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}
	return scanner.Err()
}

// Exec executes a single command.
func (sc *Script) Exec(args []string) error {
	d := sc.s.drag
	cmd, args := args[0], args[1:]
	switch cmd {
	case "grab":
		dr, _, err := sc.dragger(args)
		if err != nil {
			return err
		}
		sc.s.syncLevels()
		d.PointerDown(dr)
	case "move":
		if len(args) < 1 || 2 < len(args) {
			return fmt.Errorf("move: expected point and modifiers")
		}
		p, err := parsePoint(args[0])
		if err != nil {
			return err
		}
		mods, err := parseModifiers(args[1:])
		if err != nil {
			return err
		}
		if d.Grabbed() == nil {
			return fmt.Errorf("move: nothing grabbed")
		}
		d.PointerMove(p, mods)
	case "release":
		mods, err := parseModifiers(args)
		if err != nil {
			return err
		}
		if d.Grabbed() == nil {
			return fmt.Errorf("release: nothing grabbed")
		}
		d.PointerUp(mods)
	case "drag":
		dr, rest, err := sc.dragger(args)
		if err != nil {
			return err
		} else if len(rest) < 2 || rest[0] != "to" {
			return fmt.Errorf("drag: expected to X,Y")
		}
		p, err := parsePoint(rest[1])
		if err != nil {
			return err
		}
		mods, err := parseModifiers(rest[2:])
		if err != nil {
			return err
		}
		sc.s.syncLevels()
		d.PointerDown(dr)
		d.PointerMove(p, mods)
		d.PointerUp(mods)
	case "hover":
		if len(args) != 1 {
			return fmt.Errorf("hover: expected point")
		}
		p, err := parsePoint(args[0])
		if err != nil {
			return err
		}
		sc.s.desktop.Hover(p, d.Options().DropDistance)
		d.MouseOver()
	case "click":
		dr, rest, err := sc.dragger(args)
		if err != nil {
			return err
		}
		mods, err := parseModifiers(rest)
		if err != nil {
			return err
		}
		d.Click(dr, mods)
	case "dblclick":
		dr, _, err := sc.dragger(args)
		if err != nil {
			return err
		}
		if stop, ok := d.DoubleClick(dr); ok {
			fmt.Fprintf(sc.w, "stop %d of %v\n", stop.Index, stop.Target)
		}
	case "select":
		dr, _, err := sc.dragger(args)
		if err != nil {
			return err
		}
		d.SetSelected(dr, false, true)
	case "deselect":
		d.DeselectAll()
	case "selectall":
		d.SelectAll()
	case "rect":
		if len(args) != 2 {
			return fmt.Errorf("rect: expected two points")
		}
		p0, err := parsePoint(args[0])
		if err != nil {
			return err
		}
		p1, err := parsePoint(args[1])
		if err != nil {
			return err
		}
		d.SelectRect(grdrag.RectFromPoints(p0, p1))
	case "key":
		if len(args) < 1 || 2 < len(args) {
			return fmt.Errorf("key: expected key and modifiers")
		}
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}
		mods, err := parseModifiers(args[1:])
		if err != nil {
			return err
		}
		if !d.KeyPress(key, mods) {
			fmt.Fprintf(sc.w, "key %v not handled\n", key)
		}
	case "delete":
		justOne := len(args) == 1 && args[0] == "one"
		if len(args) != 0 && !justOne {
			return fmt.Errorf("delete: unexpected %s", args[0])
		}
		d.DeleteSelected(justOne)
	case "color":
		if len(args) != 1 {
			return fmt.Errorf("color: expected color")
		}
		c, err := svgdoc.ParseColor(args[0])
		if err != nil {
			return err
		}
		if !d.SetSelectedColor(c) {
			fmt.Fprintln(sc.w, "no stops selected")
		}
	case "drop":
		if len(args) != 2 {
			return fmt.Errorf("drop: expected color and point")
		}
		c, err := svgdoc.ParseColor(args[0])
		if err != nil {
			return err
		}
		p, err := parsePoint(args[1])
		if err != nil {
			return err
		}
		if !d.DropColor(c, p) {
			fmt.Fprintln(sc.w, "color dropped outside")
		}
	case "addstop":
		if len(args) < 2 || 3 < len(args) {
			return fmt.Errorf("addstop: expected item, point and tolerance")
		}
		it := sc.s.doc.Item(args[0])
		if it == nil {
			return fmt.Errorf("unknown item: %s", args[0])
		}
		p, err := parsePoint(args[1])
		if err != nil {
			return err
		}
		tolerance := d.Options().DropDistance
		if len(args) == 3 {
			if tolerance, err = strconv.ParseFloat(args[2], 64); err != nil {
				return err
			}
		}
		if stop, ok := d.AddStopNearPoint(it, p, tolerance); !ok {
			fmt.Fprintln(sc.w, "no gradient near point")
		} else if stop.Index == -1 {
			fmt.Fprintf(sc.w, "mesh of %v split\n", stop.Target)
		} else {
			fmt.Fprintf(sc.w, "stop %d of %v added\n", stop.Index, stop.Target)
		}
	case "reverse":
		if !d.SelectedReverseVector() {
			fmt.Fprintln(sc.w, "nothing to reverse")
		}
	case "grid":
		if len(args) != 1 {
			return fmt.Errorf("grid: expected spacing")
		}
		grid, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		sc.s.snapper.Grid = grid
	case "undo":
		action, err := sc.s.hist.Undo()
		if err != nil {
			return err
		}
		fmt.Fprintf(sc.w, "undo %s\n", action)
	case "redo":
		action, err := sc.s.hist.Redo()
		if err != nil {
			return err
		}
		fmt.Fprintf(sc.w, "redo %s\n", action)
	case "print":
		printDraggers(sc.w, d)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

// dragger parses a dragger reference and returns the remaining arguments. A reference is either a point or an item with a role, an optional stop index and an optional target.
func (sc *Script) dragger(args []string) (*grdrag.Dragger, []string, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("expected dragger")
	}
	d := sc.s.drag
	if strings.Contains(args[0], ",") {
		p, err := parsePoint(args[0])
		if err != nil {
			return nil, nil, err
		}
		dr := d.DraggerAt(p)
		if dr == nil {
			return nil, nil, fmt.Errorf("no dragger at %v", p)
		}
		return dr, args[1:], nil
	} else if len(args) < 2 {
		return nil, nil, fmt.Errorf("expected item and role")
	}

	it := sc.s.doc.Item(args[0])
	if it == nil {
		return nil, nil, fmt.Errorf("unknown item: %s", args[0])
	}
	role, err := parseRole(args[1])
	if err != nil {
		return nil, nil, err
	}
	args = args[2:]
	index := -1
	if 0 < len(args) {
		if i, err := strconv.Atoi(args[0]); err == nil {
			index = i
			args = args[1:]
		}
	}
	target := grdrag.Fill
	if 0 < len(args) {
		if t, err := parseTarget(args[0]); err == nil {
			target = t
			args = args[1:]
		}
	}

	dr := d.DraggerFor(it, role, index, target)
	if dr == nil {
		return nil, nil, fmt.Errorf("no dragger for %s %v %d %v", it.ID(), role, index, target)
	}
	return dr, args, nil
}

func parsePoint(s string) (grdrag.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grdrag.Point{}, fmt.Errorf("bad point: %s", s)
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return grdrag.Point{}, fmt.Errorf("bad point: %w", err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return grdrag.Point{}, fmt.Errorf("bad point: %w", err)
	}
	return grdrag.Point{X: x, Y: y}, nil
}

func parseModifiers(args []string) (grdrag.Modifiers, error) {
	var mods grdrag.Modifiers
	if len(args) == 0 {
		return mods, nil
	} else if 1 < len(args) {
		return mods, fmt.Errorf("unexpected %s", args[1])
	}
	for _, name := range strings.Split(strings.ToLower(args[0]), "+") {
		switch name {
		case "shift":
			mods |= grdrag.Shift
		case "ctrl":
			mods |= grdrag.Ctrl
		case "alt":
			mods |= grdrag.Alt
		default:
			return mods, fmt.Errorf("unknown modifier: %s", name)
		}
	}
	return mods, nil
}

func parseKey(s string) (grdrag.Key, error) {
	for key := grdrag.KeyLeft; key <= grdrag.KeyEscape; key++ {
		if strings.EqualFold(key.String(), s) {
			return key, nil
		}
	}
	return 0, fmt.Errorf("unknown key: %s", s)
}

func parseRole(s string) (grdrag.Role, error) {
	for role := grdrag.LinearBegin; role <= grdrag.MeshTensor; role++ {
		if strings.EqualFold(role.String(), s) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role: %s", s)
}

func parseTarget(s string) (grdrag.Target, error) {
	for _, target := range grdrag.Targets {
		if strings.EqualFold(target.String(), s) {
			return target, nil
		}
	}
	return 0, fmt.Errorf("unknown target: %s", s)
}
