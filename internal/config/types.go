package config

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// CommandType identifies how a custom monitor obtains its samples.
type CommandType string

const (
	// CommandShell runs a shell command and parses its stdout as a number.
	CommandShell CommandType = "cmd"
	// CommandGcodeIn matches lines received from the printer.
	CommandGcodeIn CommandType = "gcIn"
	// CommandGcodeOut matches lines sent to the printer.
	CommandGcodeOut CommandType = "gcOut"
	// CommandSystem reads a system metric by probe id (cpu, memory, disk, ...).
	CommandSystem CommandType = "psutil"
)

// Valid reports whether t is one of the known command types.
func (t CommandType) Valid() bool {
	switch t {
	case CommandShell, CommandGcodeIn, CommandGcodeOut, CommandSystem:
		return true
	}
	return false
}

// Settings is the complete persisted configuration document. It is loaded and
// saved atomically as one unit: global display options, per-monitor settings
// for the built-in temperature sensors, the custom monitor map, and the user
// chosen sort order.
type Settings struct {
	Version           int    `yaml:"version" mapstructure:"version"`
	FirstRun          bool   `yaml:"first_run" mapstructure:"first_run"`
	Fahrenheit        bool   `yaml:"fahrenheit" mapstructure:"fahrenheit"`
	LeftAlignIcons    bool   `yaml:"left_align_icons" mapstructure:"left_align_icons"`
	HideInactiveTemps bool   `yaml:"hide_inactive_temps" mapstructure:"hide_inactive_temps"`
	ClickPopover      bool   `yaml:"click_popover" mapstructure:"click_popover"`
	NoTools           int    `yaml:"no_tools" mapstructure:"no_tools"`
	OuterMargin       int    `yaml:"outer_margin" mapstructure:"outer_margin"`
	InnerMargin       int    `yaml:"inner_margin" mapstructure:"inner_margin"`
	SortOrder         []string `yaml:"sort_order" mapstructure:"sort_order"`

	// Monitors holds the built-in monitor settings keyed by id
	// (bed, chamber, tool0..toolN-1).
	Monitors map[string]MonitorConfig `yaml:"monitors" mapstructure:"monitors"`

	// Custom holds the user-defined monitors keyed by their cu-prefixed id.
	Custom map[string]CustomMonitor `yaml:"custom" mapstructure:"custom"`
}

// MonitorConfig is the per-monitor display configuration shared by built-in
// and custom monitors.
type MonitorConfig struct {
	Show             bool          `yaml:"show" mapstructure:"show"`
	ShowPopover      bool          `yaml:"show_popover" mapstructure:"show_popover"`
	HideOnNoTarget   bool          `yaml:"hide_on_no_target" mapstructure:"hide_on_no_target"`
	ShowTargetTemp   bool          `yaml:"show_target_temp" mapstructure:"show_target_temp"`
	ShowTargetArrow  bool          `yaml:"show_target_arrow" mapstructure:"show_target_arrow"`
	Label            string        `yaml:"label" mapstructure:"label"`
	Width            int           `yaml:"width" mapstructure:"width"`
	Icon             string        `yaml:"icon" mapstructure:"icon"`
	AppendIconNumber bool          `yaml:"append_icon_number" mapstructure:"append_icon_number"`
	ColorIcons       bool          `yaml:"color_icons" mapstructure:"color_icons"`
	ColorChangeLevel float64       `yaml:"color_change_level" mapstructure:"color_change_level"`
	DecimalDigits    int           `yaml:"decimal_digits" mapstructure:"decimal_digits"`
	ShowUnit         bool          `yaml:"show_unit" mapstructure:"show_unit"`
	DecimalSeparator string        `yaml:"decimal_separator" mapstructure:"decimal_separator"`
	Graph            GraphSettings `yaml:"graph" mapstructure:"graph"`
}

// GraphSettings controls the inline trend graph of a monitor.
type GraphSettings struct {
	Show        bool    `yaml:"show" mapstructure:"show"`
	Height      int     `yaml:"height" mapstructure:"height"`
	StrokeWidth int     `yaml:"stroke_width" mapstructure:"stroke_width"`
	Opacity     float64 `yaml:"opacity" mapstructure:"opacity"`
	Color       string  `yaml:"color" mapstructure:"color"`
}

// CustomMonitor is a user-defined monitor: the shared display configuration
// plus the sampling definition and the draft lifecycle metadata. The draft
// flags never persist; they only exist while a settings session is open.
type CustomMonitor struct {
	MonitorConfig `yaml:",inline" mapstructure:",squash"`

	Name          string      `yaml:"name" mapstructure:"name"`
	Command       string      `yaml:"command" mapstructure:"command"`
	CommandType   CommandType `yaml:"command_type" mapstructure:"command_type"`
	Interval      int         `yaml:"interval" mapstructure:"interval"`
	IsTemperature bool        `yaml:"is_temperature" mapstructure:"is_temperature"`
	Unit          string      `yaml:"unit" mapstructure:"unit"`
	PostCalc      string      `yaml:"post_calc" mapstructure:"post_calc"`
	WaitForPrint  bool        `yaml:"wait_for_print" mapstructure:"wait_for_print"`

	// LastUpdated is a unix millisecond timestamp stamped on commit.
	LastUpdated int64 `yaml:"last_updated" mapstructure:"last_updated"`

	// Session-only lifecycle markers, owned by the draft store.
	IsDraftNew        bool `yaml:"-" mapstructure:"-"`
	MarkedForDeletion bool `yaml:"-" mapstructure:"-"`
}

// Clone returns a deep copy of the settings document. Used by the draft store
// to snapshot persisted state at session begin.
func (s *Settings) Clone() *Settings {
	out := *s
	out.SortOrder = append([]string(nil), s.SortOrder...)
	out.Monitors = make(map[string]MonitorConfig, len(s.Monitors))
	for k, v := range s.Monitors {
		out.Monitors[k] = v
	}
	out.Custom = make(map[string]CustomMonitor, len(s.Custom))
	for k, v := range s.Custom {
		out.Custom[k] = v
	}
	return &out
}
