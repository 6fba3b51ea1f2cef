package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/logger"
	"github.com/printwatch/topbar/internal/monitor"
)

// sampleMsg carries one custom monitor sample into the event loop.
type sampleMsg monitor.SampleEvent

// frameMsg carries one tick of the built-in temperature feed.
type frameMsg monitor.TempFrame

// tickMsg triggers a periodic redraw so relative staleness stays honest even
// when no samples arrive.
type tickMsg time.Time

const redrawInterval = time.Second

// spinnerFrames is the animation shown before the first sample arrives.
var spinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// Model is the Bubble Tea model for the top bar. All monitor state lives in
// the controller; the model owns only presentation concerns and the pause
// key handling.
type Model struct {
	controller *monitor.Controller
	samples    <-chan monitor.SampleEvent
	frames     <-chan monitor.TempFrame
	log        logger.Logger

	spin     spinner.Model
	warmedUp bool
	width    int
	detail   bool
	selected int
	quitting bool
}

// NewModel wires a dashboard model around a controller and its event feeds.
func NewModel(controller *monitor.Controller, samples <-chan monitor.SampleEvent, frames <-chan monitor.TempFrame, log logger.Logger) Model {
	if log == nil {
		log = logger.Noop()
	}
	sp := spinner.New()
	sp.Spinner = spinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)
	return Model{
		controller: controller,
		samples:    samples,
		frames:     frames,
		log:        log,
		spin:       sp,
		width:      80,
	}
}

// Init starts the event listeners and the redraw timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listenSamples(), m.listenFrames(), m.tick(), m.spin.Tick)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "p":
			m.controller.SetPaused(!m.controller.Paused())
		case "d":
			m.detail = !m.detail
		case "tab", "right":
			m.selected++
		case "shift+tab", "left":
			if m.selected > 0 {
				m.selected--
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case sampleMsg:
		m.warmedUp = true
		m.controller.OnSample(monitor.SampleEvent(msg))
		return m, m.listenSamples()

	case frameMsg:
		m.warmedUp = true
		m.controller.OnTemperatureTick(monitor.TempFrame(msg))
		return m, m.listenFrames()

	case tickMsg:
		return m, m.tick()

	case spinner.TickMsg:
		if m.warmedUp {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the bar: one segment per visible monitor in display order,
// with an optional sparkline row underneath.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	views := m.controller.Views()
	settings := m.controller.Store().Persisted()

	var segments []string
	var graphs []string
	hasGraph := false

	for _, v := range views {
		if !v.Visible {
			continue
		}
		segments = append(segments, renderSegment(v, settings))

		if v.Graph.Show && len(v.Series) > 1 {
			width := segmentWidth(v)
			graphs = append(graphs, RenderSparkline(v.Series, width, v.GraphLow, graphColor(v.Graph)))
			hasGraph = true
		} else {
			graphs = append(graphs, strings.Repeat(" ", segmentWidth(v)))
		}
	}

	if len(segments) == 0 {
		if !m.warmedUp {
			return BarStyle.Render(m.spin.View() + " waiting for samples  " + HelpStyle.Render("[q]uit"))
		}
		return BarStyle.Render(HelpStyle.Render("no monitors visible  [q]uit"))
	}

	gap := strings.Repeat(" ", settings.InnerMargin)
	bar := strings.Join(segments, gap)

	var lines []string
	if m.controller.Paused() {
		lines = append(lines, PausedStyle.Render("paused"))
	}
	lines = append(lines, BarStyle.Render(bar))
	if hasGraph {
		lines = append(lines, BarStyle.Render(strings.Join(graphs, gap)))
	}
	if m.detail {
		if d := m.detailView(views); d != "" {
			lines = append(lines, d)
		}
	}
	lines = append(lines, HelpStyle.Render("[p]ause  [d]etail  [q]uit"))

	return strings.Join(lines, "\n")
}

// detailWindow matches the span of the popover graph: the last ten minutes.
const detailWindow = 600 * time.Second

// detailView expands one monitor into a wide graph with min/max/current
// stats over the detail window. Tab cycles through the visible monitors.
func (m Model) detailView(views []monitor.MonitorView) string {
	var candidates []monitor.MonitorView
	for _, v := range views {
		if v.Visible {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	v := candidates[m.selected%len(candidates)]

	window := m.controller.Buffer().Window(v.ID.String(), detailWindow)
	if len(window) == 0 {
		return BarStyle.Render(LabelStyle.Render(v.Title) + " " + HelpStyle.Render("no samples yet"))
	}

	series := make([]float64, len(window))
	lo, hi := window[0].Value, window[0].Value
	for i, s := range window {
		series[i] = s.Value
		if s.Value < lo {
			lo = s.Value
		}
		if s.Value > hi {
			hi = s.Value
		}
	}

	width := m.width - 4
	if width < 10 {
		width = 10
	}
	graph := RenderSparkline(series, width, v.GraphLow, graphColor(v.Graph))
	stats := fmt.Sprintf("cur %.1f  min %.1f  max %.1f  n=%d", series[len(series)-1], lo, hi, len(series))

	return BarStyle.Render(LabelStyle.Render(v.Title)+"  "+HelpStyle.Render(stats)) + "\n" +
		BarStyle.Render(graph)
}

// renderSegment builds the one-line display for a single monitor.
func renderSegment(v monitor.MonitorView, settings *config.Settings) string {
	icon := IconStyle
	if v.IconHot {
		icon = IconHotStyle
	}

	var sb strings.Builder
	if settings.LeftAlignIcons {
		sb.WriteString(icon.Render(Icon(v.Icon)))
		sb.WriteString(" ")
	}
	if v.Label != "" {
		sb.WriteString(LabelStyle.Render(v.Label))
	}
	sb.WriteString(ValueStyle.Render(v.Text))
	if v.Target != nil {
		sb.WriteString(TargetGlyph(*v.Target))
	}
	if !settings.LeftAlignIcons {
		sb.WriteString(" ")
		sb.WriteString(icon.Render(Icon(v.Icon)))
	}
	return sb.String()
}

// segmentWidth decides how many columns the monitor's graph row gets:
// the configured width when set, otherwise the rendered text width.
func segmentWidth(v monitor.MonitorView) int {
	if v.Width > 0 {
		return v.Width
	}
	w := lipgloss.Width(v.Text) + 2
	if w < 4 {
		w = 4
	}
	return w
}

func graphColor(g monitor.GraphStyle) lipgloss.Color {
	if g.Color != "" {
		return lipgloss.Color(g.Color)
	}
	return ColorInfo
}

func (m Model) listenSamples() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.samples
		if !ok {
			return nil
		}
		return sampleMsg(ev)
	}
}

func (m Model) listenFrames() tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-m.frames
		if !ok {
			return nil
		}
		return frameMsg(frame)
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
