package monitor

import "time"

// Reading is one built-in temperature leaf: the actual value (nil while the
// sensor has reported nothing) and the target setpoint (0 means off).
type Reading struct {
	Actual *float64
	Target float64
}

// TempFrame is one tick of the built-in temperature feed.
type TempFrame struct {
	Bed     *Reading
	Chamber *Reading
	Tools   []Reading
}

// SampleEvent is one inbound push from a custom monitor's sample source.
// Events with Success=false are dropped.
type SampleEvent struct {
	Key     string
	Success bool
	When    time.Time
	Value   float64
	Error   string
}

// HostState mirrors the hosting application's printer status flags used by
// the visibility policy.
type HostState struct {
	Operational bool
	Printing    bool
}

// MonitorView is the render-ready projection of one monitor handed to the
// renderer. Series is the chart-ready value sequence, oldest first; GraphLow
// is the low reference value of the y axis.
type MonitorView struct {
	ID       ID
	Title    string
	Label    string
	Text     string
	Icon     string
	IconHot  bool
	Target   *TargetState
	Visible  bool
	Width    int
	Series   []float64
	GraphLow float64
	Graph    GraphStyle
}

// GraphStyle is the subset of graph settings the renderer consumes.
type GraphStyle struct {
	Show        bool
	Height      int
	StrokeWidth int
	Opacity     float64
	Color       string
}

// Renderer consumes render-ready monitor views. The concrete implementation
// lives outside this package (the TUI, or a test double).
type Renderer interface {
	Render(views []MonitorView)
}
