package monitor

import (
	"time"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/logger"
)

// Controller orchestrates the widget: it routes inbound samples into the
// buffer, keeps the latest built-in readings, derives visibility, formats
// values, and hands render-ready views to the renderer. All handlers run to
// completion on the host's event loop; the controller adds no goroutines.
type Controller struct {
	store    *DraftStore
	buffer   *SampleBuffer
	renderer Renderer
	log      logger.Logger

	caps  Capabilities
	host  HostState
	temps map[string]Reading

	paused  bool
	preview bool

	// invalidCalc records custom monitors whose post-calc expression failed,
	// so the render loop shows their raw value until the config is corrected.
	invalidCalc map[string]bool
}

// NewController assembles a controller around persisted settings.
func NewController(settings *config.Settings, caps Capabilities, renderer Renderer, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Noop()
	}
	return &Controller{
		store:       NewDraftStore(settings, log),
		buffer:      NewSampleBuffer(),
		renderer:    renderer,
		log:         log,
		caps:        caps,
		temps:       make(map[string]Reading),
		invalidCalc: make(map[string]bool),
	}
}

// Buffer exposes the sample buffer, e.g. for rehydration at startup.
func (c *Controller) Buffer() *SampleBuffer {
	return c.buffer
}

// Store exposes the draft store for persistence wiring.
func (c *Controller) Store() *DraftStore {
	return c.store
}

// SetCapabilities updates the printer capability flags (tool count and
// bed/chamber presence change with the connected printer profile).
func (c *Controller) SetCapabilities(caps Capabilities) {
	c.caps = caps
}

// SetHostState updates the operational/printing flags.
func (c *Controller) SetHostState(state HostState) {
	c.host = state
	c.render()
}

// SetPaused freezes or resumes the display. While paused, sample ingestion
// and re-render calls are no-ops (used during drag-reordering).
func (c *Controller) SetPaused(paused bool) {
	c.paused = paused
}

// Paused reports the freeze flag.
func (c *Controller) Paused() bool {
	return c.paused
}

// SetPreview toggles live preview of the open session's working settings.
func (c *Controller) SetPreview(on bool) {
	c.preview = on
	c.render()
}

// OnSample handles one inbound custom-monitor sample push.
func (c *Controller) OnSample(ev SampleEvent) {
	if c.paused {
		return
	}
	if !ev.Success {
		c.log.Debug("dropping failed sample for %s: %s", ev.Key, ev.Error)
		return
	}
	id, err := ParseID(ev.Key)
	if err != nil || !id.IsCustom() {
		c.log.Warn("sample for non-custom key %q ignored", ev.Key)
		return
	}
	c.buffer.Push(ev.Key, Sample{When: ev.When, Value: ev.Value})
	c.render()
}

// OnTemperatureTick handles one frame of the built-in temperature feed.
func (c *Controller) OnTemperatureTick(frame TempFrame) {
	if c.paused {
		return
	}
	if frame.Bed != nil && c.caps.HasBed {
		c.temps["bed"] = *frame.Bed
	}
	if frame.Chamber != nil && c.caps.HasChamber {
		c.temps["chamber"] = *frame.Chamber
	}
	for i, r := range frame.Tools {
		if i >= c.caps.ToolCount {
			break
		}
		c.temps[ToolID(i).String()] = r
	}
	c.render()
}

// OpenSettings begins (or re-enters) the settings edit session.
func (c *Controller) OpenSettings() *Session {
	return c.store.Begin()
}

// CloseSettings ends the session: commit with the given on-screen order when
// save is set, rollback otherwise. Closing without an open session is a
// no-op. On commit, buffers of removed monitors are cleared and post-calc
// invalidation flags reset.
func (c *Controller) CloseSettings(save bool, onScreenOrder []string) *config.Settings {
	if !c.store.InSession() {
		return c.store.Persisted()
	}
	session := c.store.Begin()

	var result *config.Settings
	if save {
		before := c.store.Persisted()
		result = session.Commit(onScreenOrder)
		for key, cm := range before.Custom {
			after, kept := result.Custom[key]
			if !kept || after.Command != cm.Command || after.CommandType != cm.CommandType {
				c.buffer.Clear(key)
			}
		}
		c.invalidCalc = make(map[string]bool)
	} else {
		result = session.Rollback()
	}

	c.preview = false
	c.render()
	return result
}

// settings returns the document the render pass should reflect: the session
// working copy during preview, otherwise the persisted document.
func (c *Controller) settings() *config.Settings {
	if c.preview && c.store.InSession() {
		return c.store.Begin().Settings()
	}
	return c.store.Persisted()
}

// Order returns the current display order, reconciled against the universe
// of known ids.
func (c *Controller) Order() []string {
	s := c.settings()
	custom := make([]string, 0, len(s.Custom))
	for key := range s.Custom {
		custom = append(custom, key)
	}
	caps := c.caps
	if caps.ToolCount > s.NoTools {
		caps.ToolCount = s.NoTools
	}
	return MergedOrder(s.SortOrder, KnownIDs(caps, custom))
}

// Render recomputes every monitor view and hands them to the renderer.
// No-op while paused or without a renderer.
func (c *Controller) render() {
	if c.paused || c.renderer == nil {
		return
	}
	c.renderer.Render(c.Views())
}

// Views builds the render-ready projection of every known monitor in display
// order. Visibility is re-derived on every call, never cached.
func (c *Controller) Views() []MonitorView {
	s := c.settings()
	order := c.Order()

	views := make([]MonitorView, 0, len(order))
	for _, key := range order {
		id, err := ParseID(key)
		if err != nil {
			c.log.Warn("skipping malformed monitor id %q", key)
			continue
		}
		if id.IsCustom() {
			cm, ok := s.Custom[id.Custom]
			if !ok {
				continue
			}
			views = append(views, c.customView(id, cm, s))
		} else {
			m, ok := s.Monitors[key]
			if !ok {
				continue
			}
			views = append(views, c.builtInView(id, m, s))
		}
	}
	return views
}

// visible applies the §policy disjunction for one monitor. Hidden when the
// monitor is switched off, has no value, targets nothing while configured to
// hide then, belongs to an inactive printer, or waits for a print that is
// not running.
func (c *Controller) visible(id ID, show, hideOnNoTarget bool, value *float64, target float64, waitForPrint bool, s *config.Settings) bool {
	if !show || value == nil {
		return false
	}
	if target == 0 && hideOnNoTarget {
		return false
	}
	if !id.IsCustom() && s.HideInactiveTemps && !c.host.Operational {
		return false
	}
	if id.IsCustom() && waitForPrint && !c.host.Printing {
		return false
	}
	return true
}

func (c *Controller) builtInView(id ID, m config.MonitorConfig, s *config.Settings) MonitorView {
	view := MonitorView{
		ID:    id,
		Title: id.DisplayName(),
		Label: m.Label,
		Icon:  m.Icon,
		Width: m.Width,
		Graph: graphStyle(m.Graph),
	}

	reading, ok := c.temps[id.String()]
	if !ok {
		return view
	}
	view.Visible = c.visible(id, m.Show, m.HideOnNoTarget, reading.Actual, reading.Target, false, s)
	if reading.Actual == nil {
		return view
	}
	actual := *reading.Actual

	spec := SpecForBuiltIn(m)
	text, _ := Format(actual, spec, s.Fahrenheit)
	if reading.Target > 0 {
		state := ClassifyTarget(actual, reading.Target)
		view.Target = &state
		if state != TargetOn && m.ShowTargetTemp {
			targetText, _ := Format(reading.Target, spec, s.Fahrenheit)
			if !m.ShowTargetArrow {
				text += "/"
			}
			text += targetText
		}
	}
	view.Text = text
	view.IconHot = m.ColorIcons && actual >= m.ColorChangeLevel
	view.Series = c.builtInSeries(id)
	view.GraphLow = 0
	return view
}

func (c *Controller) customView(id ID, cm config.CustomMonitor, s *config.Settings) MonitorView {
	view := MonitorView{
		ID:    id,
		Title: cm.Name,
		Label: cm.Label,
		Icon:  cm.Icon,
		Width: cm.Width,
		Graph: graphStyle(cm.Graph),
	}

	latest, ok := c.buffer.Latest(id.Custom)
	var value *float64
	if ok {
		value = &latest.Value
	}
	view.Visible = c.visible(id, cm.Show, cm.HideOnNoTarget, value, 1, cm.WaitForPrint, s)
	if value == nil {
		return view
	}

	spec := SpecForCustom(cm)
	if c.invalidCalc[id.Custom] {
		// Known-bad expression: skip the transform until the config changes.
		spec.PostCalc = ""
	}
	text, err := Format(*value, spec, s.Fahrenheit)
	if err != nil {
		c.invalidCalc[id.Custom] = true
		c.log.Error("post-calc failed for %s: %v", id, err)
	}
	view.Text = text
	view.IconHot = cm.ColorIcons && *value >= cm.ColorChangeLevel

	view.Series = c.buffer.Values(id.Custom)
	if cm.IsTemperature {
		low := minOf(view.Series)
		view.GraphLow = low - 5
	}
	return view
}

// builtInSeries returns the chart series for a built-in monitor from the
// host temperature model. Only the latest readings reach the controller, so
// the series accumulates in the buffer under the built-in key.
func (c *Controller) builtInSeries(id ID) []float64 {
	return c.buffer.Values(id.String())
}

// RecordBuiltIn buffers a built-in reading so its trend graph has history.
// Called by the feed adapter alongside OnTemperatureTick.
func (c *Controller) RecordBuiltIn(id ID, when time.Time, actual float64) {
	if c.paused || id.IsCustom() {
		return
	}
	c.buffer.Push(id.String(), Sample{When: when, Value: actual})
}

func graphStyle(g config.GraphSettings) GraphStyle {
	return GraphStyle{
		Show:        g.Show,
		Height:      g.Height,
		StrokeWidth: g.StrokeWidth,
		Opacity:     g.Opacity,
		Color:       g.Color,
	}
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	low := values[0]
	for _, v := range values[1:] {
		if v < low {
			low = v
		}
	}
	return low
}
