package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

// defaultPlayInterval is the delay between steps during auto-playback.
const defaultPlayInterval = 600 * time.Millisecond

// Playback styles
var (
	playFreshStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	playStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	playHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// playCommand creates the play command for terminal playback.
func (c *CLI) playCommand() *cobra.Command {
	var noCache bool
	interval := defaultPlayInterval
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "play [family.json]",
		Short: "Replay the layout placement step by step in the terminal",
		Long: `Replay the layout placement step by step in the terminal.

The play command computes the layout in incremental mode and steps
through the per-placement snapshots: each frame shows the chart after
one more person has been placed, with the newest arrivals highlighted.
Playback starts automatically; space pauses, arrow keys scrub.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			opts.Incremental = true
			c.applyConfig(&opts)
			return c.runPlay(cmd.Context(), opts, noCache, interval)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&interval, "interval", defaultPlayInterval, "delay between steps during playback")
	inputFlags(cmd, &opts)
	spacingFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, opts pipeline.Options, noCache bool, interval time.Duration) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	g, rootID, err := runner.Parse(ctx, opts)
	if err != nil {
		return err
	}

	l, _, err := runner.ComputeLayoutWithCacheInfo(ctx, g, rootID, opts)
	if err != nil {
		return err
	}
	if len(l.Steps) == 0 {
		l.Steps = [][]graph.Position{l.Positions}
	}

	m := newPlayModel(l, interval)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// =============================================================================
// Key bindings
// =============================================================================

type playKeys struct {
	Next      key.Binding
	Prev      key.Binding
	PlayPause key.Binding
	Restart   key.Binding
	Quit      key.Binding
}

var defaultPlayKeys = playKeys{
	Next: key.NewBinding(
		key.WithKeys("right", "l", "n"),
		key.WithHelp("→/n", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h", "p"),
		key.WithHelp("←/p", "prev"),
	),
	PlayPause: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "play/pause"),
	),
	Restart: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "restart"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k playKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Next, k.Prev, k.Quit}
}

func (k playKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Next, k.Prev},
		{k.Restart, k.Quit},
	}
}

// =============================================================================
// playModel - step-through of incremental snapshots
// =============================================================================

type playTickMsg time.Time

// playModel is the bubbletea model for layout playback.
type playModel struct {
	steps    [][]graph.Position
	bounds   canvasBounds
	root     string
	step     int
	playing  bool
	interval time.Duration
	width    int
	height   int
	keys     playKeys
	help     help.Model
}

// newPlayModel creates a playback model for the layout's snapshots.
func newPlayModel(l graph.Layout, interval time.Duration) playModel {
	if interval <= 0 {
		interval = defaultPlayInterval
	}
	return playModel{
		steps:    l.Steps,
		bounds:   boundsOf(l.Steps),
		root:     l.Root,
		playing:  true,
		interval: interval,
		width:    80,
		height:   24,
		keys:     defaultPlayKeys,
		help:     help.New(),
	}
}

func (m playModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return playTickMsg(t)
	})
}

func (m playModel) Init() tea.Cmd {
	return m.tick()
}

// Update advances the playhead. Exactly one tick is ever in flight:
// Init starts it and every consumed tick schedules the next, so
// pausing never kills the chain and resuming never forks it.
func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.playing = false
			if m.step < len(m.steps)-1 {
				m.step++
			}
		case key.Matches(msg, m.keys.Prev):
			m.playing = false
			if m.step > 0 {
				m.step--
			}
		case key.Matches(msg, m.keys.PlayPause):
			m.playing = !m.playing
			if m.playing && m.step >= len(m.steps)-1 {
				m.step = 0
			}
		case key.Matches(msg, m.keys.Restart):
			m.step = 0
			m.playing = true
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case playTickMsg:
		if m.playing {
			if m.step < len(m.steps)-1 {
				m.step++
			}
			if m.step >= len(m.steps)-1 {
				m.playing = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("pedigraph play"))
	b.WriteString("\n")

	state := "paused"
	if m.playing {
		state = "playing"
	}
	placed := 0
	if len(m.steps) > 0 {
		placed = len(m.steps[m.step])
	}
	b.WriteString(playStatusStyle.Render(fmt.Sprintf(
		"root %s · step %d/%d · %d placed · %s",
		m.root, m.step+1, len(m.steps), placed, state)))
	b.WriteString("\n\n")

	canvasHeight := m.height - 6
	if canvasHeight < 5 {
		canvasHeight = 5
	}
	b.WriteString(renderSnapshot(m.current(), m.previous(), m.bounds, m.width, canvasHeight))
	b.WriteString("\n")

	b.WriteString(playHelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return b.String()
}

func (m playModel) current() []graph.Position {
	if len(m.steps) == 0 {
		return nil
	}
	return m.steps[m.step]
}

func (m playModel) previous() []graph.Position {
	if m.step == 0 {
		return nil
	}
	return m.steps[m.step-1]
}

// =============================================================================
// Canvas - chart coordinates scaled onto a rune grid
// =============================================================================

// canvasBounds is the coordinate envelope of every snapshot, so the
// frame stays put while nodes appear and shift.
type canvasBounds struct {
	minX, maxX float64
	minY, maxY float64
}

func boundsOf(steps [][]graph.Position) canvasBounds {
	b := canvasBounds{}
	first := true
	for _, step := range steps {
		for _, p := range step {
			if first {
				b = canvasBounds{minX: p.X, maxX: p.X, minY: p.Y, maxY: p.Y}
				first = false
				continue
			}
			if p.X < b.minX {
				b.minX = p.X
			}
			if p.X > b.maxX {
				b.maxX = p.X
			}
			if p.Y < b.minY {
				b.minY = p.Y
			}
			if p.Y > b.maxY {
				b.maxY = p.Y
			}
		}
	}
	return b
}

// maxLabelWidth caps node labels so wide names do not swallow the row.
const maxLabelWidth = 14

// renderSnapshot draws one snapshot, highlighting nodes that were not
// present in the previous one.
func renderSnapshot(cur, prev []graph.Position, b canvasBounds, width, height int) string {
	fresh := make(map[string]bool, len(cur))
	seen := make(map[string]bool, len(prev))
	for _, p := range prev {
		seen[p.ID] = true
	}
	for _, p := range cur {
		if !seen[p.ID] {
			fresh[p.ID] = true
		}
	}

	cv := newCanvas(width, height)
	for _, p := range cur {
		row := scale(p.Y, b.minY, b.maxY, height-1)
		col := scale(p.X, b.minX, b.maxX, width-maxLabelWidth-2)
		cv.put(row, col, "• "+nodeLabel(p), fresh[p.ID])
	}
	return cv.render(playFreshStyle)
}

func nodeLabel(p graph.Position) string {
	label := p.Name
	if label == "" {
		label = p.ID
	}
	r := []rune(label)
	if len(r) > maxLabelWidth {
		return string(r[:maxLabelWidth-1]) + "…"
	}
	return label
}

// scale maps v from [lo,hi] onto [0,max], centering when the span is
// degenerate.
func scale(v, lo, hi float64, max int) int {
	if max < 0 {
		max = 0
	}
	span := hi - lo
	if span <= 0 {
		return max / 2
	}
	cell := int((v - lo) / span * float64(max))
	if cell < 0 {
		cell = 0
	}
	if cell > max {
		cell = max
	}
	return cell
}

// canvas is a rune grid with a parallel highlight mask.
type canvas struct {
	w, h  int
	cells [][]rune
	fresh [][]bool
}

func newCanvas(w, h int) *canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	cv := &canvas{w: w, h: h}
	cv.cells = make([][]rune, h)
	cv.fresh = make([][]bool, h)
	for i := range cv.cells {
		cv.cells[i] = make([]rune, w)
		for j := range cv.cells[i] {
			cv.cells[i][j] = ' '
		}
		cv.fresh[i] = make([]bool, w)
	}
	return cv
}

func (cv *canvas) put(row, col int, s string, fresh bool) {
	if row < 0 || row >= cv.h {
		return
	}
	for i, r := range []rune(s) {
		c := col + i
		if c < 0 || c >= cv.w {
			continue
		}
		cv.cells[row][c] = r
		cv.fresh[row][c] = fresh
	}
}

// render assembles the grid into styled lines, grouping runs of
// highlighted cells so escape codes stay off the column math.
func (cv *canvas) render(freshStyle lipgloss.Style) string {
	var b strings.Builder
	for row := 0; row < cv.h; row++ {
		line := strings.TrimRight(string(cv.cells[row]), " ")
		cells := []rune(line)
		col := 0
		for col < len(cells) {
			start := col
			highlighted := cv.fresh[row][col]
			for col < len(cells) && cv.fresh[row][col] == highlighted {
				col++
			}
			run := string(cells[start:col])
			if highlighted {
				b.WriteString(freshStyle.Render(run))
			} else {
				b.WriteString(run)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
