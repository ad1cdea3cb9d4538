package tui

import (
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/pulse/internal/clock"
	"github.com/san-kum/pulse/internal/multiplier"
	"github.com/san-kum/pulse/internal/raster"
	"github.com/san-kum/pulse/internal/viz"
)

const (
	captionRows  = 3
	statusRows   = 2
	graphRows    = 6
	historyLimit = 240
	minCols      = 10
	minRows      = 4
)

type Options struct {
	Effect multiplier.Config
	FPS    int
	Theme  string
	Seed   int64
	// Scale is how many surface pixels one Braille dot covers.
	Scale  int
	Logger *zap.Logger
}

type Model struct {
	effect  *multiplier.Effect
	surface *raster.Surface
	timers  *clock.Timers
	clk     clock.Clock
	present *viz.Presenter
	theme   viz.Theme
	cfg     multiplier.Config
	log     *zap.Logger

	interval    time.Duration
	scale       int
	width       int
	height      int
	history     []float64
	expandStart time.Time
	showGraph   bool
	err         error
}

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func New(opts Options, effectOpts ...multiplier.Option) (Model, error) {
	clk := clock.Real{}
	timers := clock.NewTimers(clk)
	surface := raster.New(1, 1)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	base := []multiplier.Option{multiplier.WithLogger(opts.Logger.Named("effect"))}
	if opts.Seed != 0 {
		base = append(base, multiplier.WithRand(rand.New(rand.NewSource(opts.Seed))))
	}
	effectOpts = append(base, effectOpts...)
	effect, err := multiplier.New(surface, timers, opts.Effect, effectOpts...)
	if err != nil {
		return Model{}, err
	}
	return newModel(effect, surface, timers, clk, opts), nil
}

func newModel(effect *multiplier.Effect, surface *raster.Surface, timers *clock.Timers, clk clock.Clock, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Scale <= 0 {
		opts.Scale = 3
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	m := Model{
		effect:   effect,
		surface:  surface,
		timers:   timers,
		clk:      clk,
		present:  viz.NewPresenter(80, 20, raster.Background),
		theme:    viz.GetTheme(opts.Theme),
		cfg:      effect.Config(),
		log:      opts.Logger,
		interval: time.Second / time.Duration(opts.FPS),
		scale:    opts.Scale,
		width:    80,
		height:   24,
		history:  make([]float64, 0, historyLimit),
	}

	var mountErr error
	if surface == nil {
		mountErr = effect.Mount(0, 0)
	} else {
		mountErr = m.mount()
	}
	if mountErr != nil {
		m.err = mountErr
		m.log.Warn("terminal host degraded", zap.Error(mountErr))
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.err != nil {
		return nil
	}
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.interact()
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tickMsg:
		return m.step(time.Time(msg))
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.effect.Close()
		return m, tea.Quit
	case " ", "enter":
		m.interact()
	case "t":
		m.theme = viz.NextTheme(m.theme.Name)
	case "g":
		m.showGraph = !m.showGraph
		m.layout()
	}
	return m, nil
}

// step fires due timers, then ticks. The loop ends for good once the effect
// reports it is done.
func (m Model) step(now time.Time) (Model, tea.Cmd) {
	m.timers.Fire(now)
	if !m.effect.Tick() {
		return m, nil
	}

	m.history = append(m.history, float64(m.effect.Population()))
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
	m.present.Draw(m.surface.Image())
	return m, tick(m.interval)
}

func (m *Model) interact() {
	before := m.effect.Phase()
	m.effect.Interact()
	if before != multiplier.PhaseExpanding && m.effect.Phase() == multiplier.PhaseExpanding {
		m.expandStart = m.clk.Now()
	}
}

func (m *Model) mount() error {
	cols, rows := m.canvasSize()
	m.present.Resize(cols, rows)
	sw, sh := m.present.SubPixels()
	return m.effect.Mount(sw*m.scale, sh*m.scale)
}

func (m *Model) layout() {
	cols, rows := m.canvasSize()
	m.present.Resize(cols, rows)
	if m.err != nil {
		return
	}
	sw, sh := m.present.SubPixels()
	m.effect.Resize(sw*m.scale, sh*m.scale)
}

func (m Model) canvasSize() (cols, rows int) {
	cols = m.width
	rows = m.height - captionRows - statusRows
	if m.showGraph {
		rows -= graphRows
	}
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}
	return cols, rows
}

func (m Model) View() string {
	cols, rows := m.canvasSize()
	caption := viz.CaptionView(m.effect.Caption(), m.theme, cols)

	var body string
	if m.err != nil {
		body = viz.Placeholder(cols, rows, m.theme)
	} else {
		body = m.present.Canvas().Render()
	}

	parts := []string{caption, body, m.statusView(cols)}
	if m.showGraph {
		if g := viz.PopulationGraph(m.history, cols-8, graphRows-1); g != "" {
			parts = append(parts, g)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) statusView(width int) string {
	status := viz.StatusLine(m.effect.Phase(), m.effect.Population(), m.cfg.Cap, m.theme, width)
	if m.effect.Phase() != multiplier.PhaseExpanding || m.expandStart.IsZero() {
		return status + "\n"
	}
	progress := float64(m.clk.Now().Sub(m.expandStart)) / float64(m.cfg.ExpandDelay)
	return status + "\n" + viz.ProgressBar(progress, width, m.theme)
}

func (m Model) Effect() *multiplier.Effect { return m.effect }

// Degraded reports why the animation is not rendering, if it is not.
func (m Model) Degraded() error { return m.err }

// Run hosts the effect in the terminal until the user quits.
func Run(opts Options, effectOpts ...multiplier.Option) error {
	m, err := New(opts, effectOpts...)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.effect.Close()
	} else {
		m.effect.Close()
	}
	return err
}
