package main

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tdewolff/argp"
	"github.com/tdewolff/grdrag"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	mergedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// editor lists the draggers of a session and edits them with the keyboard.
type editor struct {
	s        *session
	filename string
	width    int
	height   int
	status   string
	err      error
	modified bool
}

func newEditor(s *session, filename string) editor {
	return editor{s: s, filename: filename}
}

func (m editor) Init() tea.Cmd {
	return nil
}

// keys maps terminal keys to the keys and modifiers of the controller.
var keys = map[string]struct {
	key  grdrag.Key
	mods grdrag.Modifiers
}{
	"left":        {grdrag.KeyLeft, 0},
	"right":       {grdrag.KeyRight, 0},
	"up":          {grdrag.KeyUp, 0},
	"down":        {grdrag.KeyDown, 0},
	"shift+left":  {grdrag.KeyLeft, grdrag.Shift},
	"shift+right": {grdrag.KeyRight, grdrag.Shift},
	"shift+up":    {grdrag.KeyUp, grdrag.Shift},
	"shift+down":  {grdrag.KeyDown, grdrag.Shift},
	"tab":         {grdrag.KeyTab, 0},
	"shift+tab":   {grdrag.KeyTab, grdrag.Shift},
	"delete":      {grdrag.KeyDelete, 0},
	"backspace":   {grdrag.KeyBackspace, 0},
	"ctrl+d":      {grdrag.KeyDelete, grdrag.Ctrl},
	"esc":         {grdrag.KeyEscape, 0},
}

func (m editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		m.status = ""
		d := m.s.drag
		defer m.s.syncLevels()
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "ctrl+s":
			if m.err = m.s.save(m.filename); m.err == nil {
				m.status = "saved " + m.filename
				m.modified = false
			}
			return m, nil
		case "u", "ctrl+z":
			var action string
			if action, m.err = m.s.hist.Undo(); m.err == nil {
				m.status = "undo " + action
				m.modified = true
			}
			return m, nil
		case "ctrl+y":
			var action string
			if action, m.err = m.s.hist.Redo(); m.err == nil {
				m.status = "redo " + action
				m.modified = true
			}
			return m, nil
		case "a":
			d.SelectAll()
			return m, nil
		case "r":
			if d.SelectedReverseVector() {
				m.status = "reversed"
				m.modified = true
			}
			return m, nil
		}

		if k, ok := keys[msg.String()]; ok {
			if msg.Type == tea.KeyEscape && len(d.Selected()) == 0 {
				return m, tea.Quit
			}
			n := len(m.s.hist.Actions())
			if !d.KeyPress(k.key, k.mods) {
				m.status = fmt.Sprintf("%v not handled", k.key)
			} else if n != len(m.s.hist.Actions()) {
				m.modified = true
			}
		}
	}
	return m, nil
}

func (m editor) View() string {
	sb := strings.Builder{}
	title := m.filename
	if m.modified {
		title += " *"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	d := m.s.drag
	lines := 0
	for i, dr := range d.Draggers() {
		if 0 < m.height && m.height-6 <= lines {
			sb.WriteString(helpStyle.Render(fmt.Sprintf("  ... %d more", len(d.Draggers())-i)))
			sb.WriteString("\n")
			break
		}
		names := []string{}
		for _, da := range dr.Draggables() {
			names = append(names, da.String())
		}
		sort.Strings(names)
		line := fmt.Sprintf("%3d %-24v %s", i, dr.Point(), strings.Join(names, " "))
		if dr.Selected() {
			line = selectedStyle.Render("> " + line)
		} else if 1 < len(names) {
			line = mergedStyle.Render("  " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		lines++
	}

	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(errorStyle.Render("ERROR: " + m.err.Error()))
	} else if m.status != "" {
		sb.WriteString(m.status)
	} else if sel := d.Selected(); len(sel) == 1 {
		sb.WriteString(sel[0].Tip())
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("tab select • arrows move • del delete • r reverse • u undo • ctrl+s save • q quit"))
	return sb.String()
}

func (cmd *Edit) Run() error {
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

	filename := cmd.Output
	if filename == "" {
		filename = cmd.Input
	}
	p := tea.NewProgram(newEditor(s, filename), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
