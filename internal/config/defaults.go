package config

import "fmt"

// DefaultToolCount matches the number of tool slots seeded into a fresh
// configuration. Only tool0 is shown by default.
const DefaultToolCount = 10

// MonitorTemplate returns the baseline per-monitor configuration every
// monitor starts from.
func MonitorTemplate() MonitorConfig {
	return MonitorConfig{
		Show:             true,
		ShowPopover:      true,
		HideOnNoTarget:   false,
		ShowTargetTemp:   true,
		ShowTargetArrow:  true,
		Label:            "",
		Width:            0,
		Icon:             "thermometer",
		ColorIcons:       true,
		ColorChangeLevel: 60,
		DecimalDigits:    0,
		ShowUnit:         true,
		DecimalSeparator: ",",
		Graph: GraphSettings{
			Show:        true,
			Height:      50,
			StrokeWidth: 1,
			Opacity:     0.2,
			Color:       "#000000",
		},
	}
}

// CustomTemplate returns the default settings skeleton for a freshly created
// custom monitor. This is the "default settings template" handed to the draft
// store when the user adds a monitor.
func CustomTemplate() CustomMonitor {
	return CustomMonitor{
		MonitorConfig: MonitorTemplate(),
		Name:          "",
		Command:       "",
		CommandType:   CommandShell,
		Interval:      25,
		IsTemperature: true,
		Unit:          "",
		PostCalc:      "",
		WaitForPrint:  false,
	}
}

// DefaultSettings returns a complete settings document with the built-in
// monitors seeded: bed, chamber, and DefaultToolCount tool slots.
func DefaultSettings() *Settings {
	s := &Settings{
		Version:           CurrentConfigVersion,
		FirstRun:          true,
		Fahrenheit:        false,
		LeftAlignIcons:    false,
		HideInactiveTemps: true,
		ClickPopover:      false,
		NoTools:           DefaultToolCount,
		OuterMargin:       4,
		InnerMargin:       8,
		SortOrder:         []string{"bed", "tool0", "tool1", "chamber", "cu0"},
		Monitors:          make(map[string]MonitorConfig),
		Custom:            make(map[string]CustomMonitor),
	}

	bed := MonitorTemplate()
	bed.Label = "B: "
	bed.Icon = "bed"
	s.Monitors["bed"] = bed

	chamber := MonitorTemplate()
	chamber.Label = "C: "
	chamber.Icon = "chamber"
	s.Monitors["chamber"] = chamber

	for i := 0; i < s.NoTools; i++ {
		tool := MonitorTemplate()
		tool.Label = fmt.Sprintf("T%d: ", i)
		tool.Icon = "flame"
		tool.AppendIconNumber = true
		if i > 0 {
			tool.Show = false
		}
		s.Monitors[fmt.Sprintf("tool%d", i)] = tool
	}

	return s
}

// SeedFirstRun fills a first-run settings document with the two starter
// custom monitors: a CPU temperature probe when a working command was
// discovered, and the cooling fan speed gcode monitor. Mirrors what a user
// would otherwise set up by hand.
func SeedFirstRun(s *Settings, cpuTempCommand string) {
	if !s.FirstRun {
		return
	}
	s.FirstRun = false

	if cpuTempCommand != "" {
		cpu := CustomTemplate()
		cpu.Command = cpuTempCommand
		cpu.Name = "CPU temperature"
		cpu.CommandType = CommandShell
		cpu.IsTemperature = true
		cpu.ShowTargetTemp = false
		cpu.Label = "CPU:"
		cpu.Icon = "thermometer"
		cpu.ColorIcons = true
		cpu.ColorChangeLevel = 80
		cpu.ShowUnit = true
		s.Custom["cu0"] = cpu
	}

	fan := CustomTemplate()
	fan.Command = `^M106.*?S([^ ]+)`
	fan.Name = "Cooling fan speed"
	fan.CommandType = CommandGcodeOut
	fan.IsTemperature = false
	fan.ShowTargetTemp = false
	fan.Label = "F:"
	fan.Icon = "fan"
	fan.ColorIcons = false
	fan.ShowUnit = false
	fan.WaitForPrint = true
	fan.PostCalc = "x/255*100"
	fan.Unit = "%"
	s.Custom["cu1"] = fan
}
