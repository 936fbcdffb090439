package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pkg/browser"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/grdrag"
	"github.com/tdewolff/grdrag/memdoc"
	"github.com/tdewolff/grdrag/preview"
	"github.com/tdewolff/grdrag/snap"
	"github.com/tdewolff/grdrag/svgdoc"
)

type Info struct {
	Config  string `short:"c" desc:"Options file in TOML"`
	Verbose bool   `short:"v" desc:"Log debug messages"`
	Input   string `index:"0" desc:"Input SVG file"`
}

type Run struct {
	Config  string `short:"c" desc:"Options file in TOML"`
	Verbose bool   `short:"v" desc:"Log debug messages"`
	Script  string `short:"s" desc:"Script file with one gesture per line, - for stdin"`
	Output  string `short:"o" desc:"Output SVG file"`
	Input   string `index:"0" desc:"Input SVG file"`
}

type Render struct {
	Config  string  `short:"c" desc:"Options file in TOML"`
	Verbose bool    `short:"v" desc:"Log debug messages"`
	Scale   float64 `default:"1.0" desc:"Pixels per unit"`
	Labels  bool    `short:"l" desc:"Label the selected handles"`
	Script  string  `short:"s" desc:"Script file to run before rendering"`
	Open    bool    `desc:"Open the image in the browser"`
	Output  string  `short:"o" desc:"Output image file, PNG, JPG or GIF"`
	Input   string  `index:"0" desc:"Input SVG file"`
}

type Edit struct {
	Config  string `short:"c" desc:"Options file in TOML"`
	Verbose bool   `short:"v" desc:"Log debug messages"`
	Output  string `short:"o" desc:"Output SVG file, defaults to the input file"`
	Input   string `index:"0" desc:"Input SVG file"`
}

type Options struct {
	Config string `short:"c" desc:"Options file in TOML to start from"`
}

func main() {
	root := argp.NewCmd(&Info{}, "Gradient handle editor for SVG documents")
	root.AddCmd(&Run{}, "run", "Run a gesture script on the selected items")
	root.AddCmd(&Render{}, "render", "Render the document with its gradient handles")
	root.AddCmd(&Edit{}, "edit", "Edit the gradient handles in the terminal")
	root.AddCmd(&Options{}, "options", "Print the options in TOML")
	root.Parse()
	root.PrintHelp()
}

// setup configures logging and loads the options.
func setup(config string, verbose bool) (grdrag.Options, error) {
	if verbose {
		grdrag.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if config == "" {
		return grdrag.DefaultOptions, nil
	}

	f, err := os.Open(config)
	if err != nil {
		return grdrag.DefaultOptions, err
	}
	defer f.Close()
	return grdrag.ParseOptions(f)
}

// session is a document with its drag controller.
type session struct {
	doc     *memdoc.Document
	hist    *memdoc.History
	snapper *snap.Snapper
	desktop *grdrag.Headless
	drag    *grdrag.Drag
}

func newSession(doc *memdoc.Document, opts grdrag.Options) *session {
	s := &session{
		doc:     doc,
		hist:    memdoc.NewHistory(doc),
		snapper: snap.New(opts.SnapDistance),
		desktop: grdrag.NewHeadless(),
	}
	s.drag = grdrag.New(doc, doc.Selection(), s.hist, s.snapper, s.desktop, &opts)
	s.syncLevels()
	return s
}

// syncLevels hands the alignment levels of the current draggers to the snapper.
func (s *session) syncLevels() {
	s.snapper.SetLevels(s.drag.Levels())
}

func openSession(filename string, opts grdrag.Options) (*session, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := svgdoc.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if len(doc.Selection().Items()) == 0 {
		// select everything that has a gradient
		sel := []*memdoc.Item{}
		for _, it := range doc.Items() {
			if doc.Kind(it, grdrag.Fill) != grdrag.NoGradient || doc.Kind(it, grdrag.Stroke) != grdrag.NoGradient {
				sel = append(sel, it)
			}
		}
		doc.Selection().Set(sel...)
	}
	return newSession(doc, opts), nil
}

func (s *session) save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := svgdoc.Write(f, s.doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *session) runScript(filename string, w io.Writer) error {
	var r io.Reader = os.Stdin
	if filename != "-" {
		f, err := os.Open(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return NewScript(s, w).Run(r)
}

func printDraggers(w io.Writer, d *grdrag.Drag) {
	for i, dr := range d.Draggers() {
		sel := " "
		if dr.Selected() {
			sel = "*"
		}
		names := []string{}
		for _, da := range dr.Draggables() {
			names = append(names, da.String())
		}
		sort.Strings(names)
		fmt.Fprintf(w, "%s%3d %v %s\n", sel, i, dr.Point(), strings.Join(names, " "))
	}
}

func (cmd *Info) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	opts, err := setup(cmd.Config, cmd.Verbose)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Input, opts)
	if err != nil {
		return err
	}
	defer s.drag.Close()

	fmt.Printf("Size: %vx%v\n", s.doc.Width, s.doc.Height)
	for _, it := range s.doc.Items() {
		sel := " "
		if s.doc.Selection().Contains(it) {
			sel = "*"
		}
		fmt.Printf("%s %s: fill=%v stroke=%v stops=%d\n", sel, s.doc.Describe(it), s.doc.Kind(it, grdrag.Fill), s.doc.Kind(it, grdrag.Stroke), len(s.doc.Stops(it, grdrag.Fill)))
	}
	hlevels, vlevels := s.drag.Levels()
	fmt.Printf("Levels: horizontal=%v vertical=%v\n", hlevels, vlevels)
	fmt.Printf("Draggers: %d\n", len(s.drag.Draggers()))
	printDraggers(os.Stdout, s.drag)
	return nil
}

func (cmd *Run) Run() error {
	if cmd.Input == "" || cmd.Script == "" {
		return argp.ShowUsage
	}
	opts, err := setup(cmd.Config, cmd.Verbose)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Input, opts)
	if err != nil {
		return err
	}
	defer s.drag.Close()

	var w io.Writer = os.Stdout
	if cmd.Output == "" {
		w = os.Stderr
	}
	if err := s.runScript(cmd.Script, w); err != nil {
		return err
	}
	if cmd.Output == "" {
		return svgdoc.Write(os.Stdout, s.doc)
	}
	return s.save(cmd.Output)
}

func (cmd *Render) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	} else if cmd.Output == "" {
		fmt.Println("ERROR: must specify output filename")
		return argp.ShowUsage
	}
	w, err := preview.WriterFor(cmd.Output)
	if err != nil {
		return err
	}
	opts, err := setup(cmd.Config, cmd.Verbose)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Input, opts)
	if err != nil {
		return err
	}
	defer s.drag.Close()
	if cmd.Script != "" {
		if err := s.runScript(cmd.Script, io.Discard); err != nil {
			return err
		}
	}

	popts := preview.DefaultOptions
	popts.Scale = cmd.Scale
	popts.Labels = cmd.Labels
	popts.Guides = s.snapper.Guides()
	img := preview.Draw(s.doc, s.drag, &popts)

	f, err := os.Create(cmd.Output)
	if err != nil {
		return err
	}
	if err := w(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if cmd.Open {
		return browser.OpenFile(cmd.Output)
	}
	return nil
}

func (cmd *Options) Run() error {
	opts, err := setup(cmd.Config, false)
	if err != nil {
		return err
	}
	return grdrag.WriteOptions(os.Stdout, opts)
}
