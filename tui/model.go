// Package tui runs a view inside a terminal using Bubble Tea. The scene is
// drawn onto a character grid and mouse events drive the same pointer
// controller as the window shell.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/orbits/config"
	"github.com/pthm-cable/orbits/frame"
	"github.com/pthm-cable/orbits/input"
	"github.com/pthm-cable/orbits/scene"
	"github.com/pthm-cable/orbits/telemetry"
	"github.com/pthm-cable/orbits/viewer"
	"github.com/pthm-cable/orbits/worlds"
)

// footerRows is the space below the grid for status and detail lines.
const footerRows = 4

// frameMsg triggers one scheduled frame.
type frameMsg time.Time

// Options configures a terminal run.
type Options struct {
	Worlds    []worlds.World
	Output    *telemetry.OutputManager
	FPS       int
	MaxFrames uint64 // 0 = unlimited
}

// Model is the Bubble Tea model wrapping one view.
type Model struct {
	cfg  *config.Config
	opts Options

	sched *frame.Manual
	grid  *Grid
	view  *viewer.View

	width, height int
	entered       bool
	pressed       bool

	titleStyle  lipgloss.Style
	accentStyle lipgloss.Style
	dimStyle    lipgloss.Style
}

// New creates a model. The view mounts on Init.
func New(cfg *config.Config, opts Options) *Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	m := &Model{
		cfg:         cfg,
		opts:        opts,
		sched:       &frame.Manual{},
		grid:        NewGrid(80, 20),
		titleStyle:  lipgloss.NewStyle().Foreground(hex(cfg.Derived.Ink)).Bold(true),
		accentStyle: lipgloss.NewStyle().Foreground(hex(cfg.Derived.Accent)),
		dimStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
	m.view = viewer.New(viewer.FromConfig(cfg), m.grid, m.sched)
	m.view.SetOutput(opts.Output)
	m.view.SetWorlds(opts.Worlds)
	m.resize(80, 20+footerRows)
	return m
}

// Viewer returns the wrapped view.
func (m *Model) Viewer() *viewer.View {
	return m.view
}

// Grid returns the drawing grid.
func (m *Model) Grid() *Grid {
	return m.grid
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.view.Mount()
	return m.tick()
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	rows := max(h-footerRows, 1)
	m.grid.Resize(w, rows)
	gw, gh := m.grid.Size()
	m.view.Resize(gw, gh, 1)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case frameMsg:
		m.sched.Step()
		if m.opts.MaxFrames > 0 && m.view.Frames() >= m.opts.MaxFrames {
			m.view.Unmount()
			return m, tea.Quit
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	cam := m.view.Camera
	switch msg.String() {
	case "q", "ctrl+c":
		m.view.Unmount()
		return tea.Quit
	case "tab":
		m.view.FlyToNext()
	case "esc":
		m.view.Deselect()
	case "m":
		m.view.SetMode(scene.Mode((int(m.view.Mode()) + 1) % 3))
	case "+", "=":
		m.view.SetZoom(cam.Zoom + 0.1)
	case "-":
		m.view.SetZoom(cam.Zoom - 0.1)
	case "]":
		m.view.SetSpeed(cam.Speed + 0.25)
	case "[":
		m.view.SetSpeed(cam.Speed - 0.25)
	case "i":
		m.view.Inspector().Toggle()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	in := m.view.Input()
	cols, rows := m.grid.Cells()
	inside := msg.X >= 0 && msg.Y >= 0 && msg.X < cols && msg.Y < rows
	p := CellCenter(msg.X, msg.Y)

	// Leaving the grid ends any gesture, including a drag in progress.
	if inside && !m.entered {
		m.entered = true
		in.Enter(input.Mouse)
	} else if !inside && m.entered {
		m.entered = false
		m.pressed = false
		in.Leave()
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if inside {
				m.pressed = true
				in.Down(p, input.Mouse, 0)
			}
		case tea.MouseButtonWheelUp:
			m.view.SetZoom(m.view.Camera.Zoom + 0.05)
		case tea.MouseButtonWheelDown:
			m.view.SetZoom(m.view.Camera.Zoom - 0.05)
		}
	case tea.MouseActionMotion:
		if inside {
			in.Move(p, input.Mouse, 0)
		}
	case tea.MouseActionRelease:
		if m.pressed {
			m.pressed = false
			in.Up(p, 0)
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.grid.String())
	b.WriteByte('\n')

	cam := m.view.Camera
	b.WriteString(m.dimStyle.Render(fmt.Sprintf("%s | %d worlds | size %.2f | speed %.2f | %s",
		m.view.Mode(), len(m.opts.Worlds), cam.Zoom, cam.Speed, m.view.Input().State())))
	b.WriteByte('\n')

	for i, line := range m.detailLines() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m *Model) detailLines() []string {
	w := m.view.Selected()
	if w == nil {
		return []string{
			m.dimStyle.Render("drag rotate  click select  [tab] next  [m] mode  [+/-] size  [[/]] speed  [i] inspect  [q] quit"),
		}
	}
	lines := []string{m.titleStyle.Render(w.Title)}
	var meta []string
	for _, s := range []string{w.Category, w.Country, w.Attribution} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		lines = append(lines, m.accentStyle.Render(strings.Join(meta, " / ")))
	}
	if w.Description != "" {
		desc := w.Description
		if m.width > 4 && len([]rune(desc)) > m.width {
			desc = string([]rune(desc)[:m.width-3]) + "..."
		}
		lines = append(lines, desc)
	}
	return lines
}

// Run starts a terminal program for the view and blocks until it quits.
func Run(cfg *config.Config, opts Options) error {
	p := tea.NewProgram(New(cfg, opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
