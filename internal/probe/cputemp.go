package probe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/printwatch/topbar/internal/logger"
)

// TempCommand is one candidate shell command for reading the CPU
// temperature, plus the probe binary or file whose presence gates it.
type TempCommand struct {
	Name    string
	Command string
	Gate    string
}

// cpuTempCandidates lists the known ways of reading a CPU temperature on
// Linux, in preference order. Raspberry Pi firmware tools first, then ACPI,
// then the generic thermal zone path discovered at runtime.
func cpuTempCandidates(ctx context.Context) []TempCommand {
	candidates := []TempCommand{
		{
			Name:    "CPU vcgencmd 1",
			Command: `/opt/vc/bin/vcgencmd measure_temp|cut -d "=" -f2|cut -d"'" -f1`,
			Gate:    "/opt/vc/bin/vcgencmd",
		},
		{
			Name:    "CPU vcgencmd 2",
			Command: `/usr/bin/vcgencmd measure_temp|cut -d "=" -f2|cut -d"'" -f1`,
			Gate:    "/usr/bin/vcgencmd",
		},
		{
			Name:    "CPU ACPI",
			Command: `/usr/bin/acpi -t |cut -d "," -f2| cut -d" " -f2`,
			Gate:    "/usr/bin/acpi",
		},
	}

	// Look for a cpu-thermal zone in sysfs.
	zone := RunShell(ctx, `for i in /sys/class/thermal/thermal_zone*; do if grep -qi cpu-thermal $i/type && test -f $i/temp ; then echo $i/temp;exit 0; fi; done; exit 1`)
	if zone.ReturnCode == 0 && zone.Error == "" && zone.Raw != "" {
		candidates = append(candidates, TempCommand{
			Name:    "CPU thermal zone",
			Command: `awk '{print $0/1000}' ` + zone.Raw,
			Gate:    zone.Raw,
		})
	}

	// DS18B20 1-wire sensors report in millidegrees via w1_slave.
	sensors, _ := filepath.Glob("/sys/bus/w1/devices/28-*")
	for _, sensor := range sensors {
		slave := filepath.Join(sensor, "w1_slave")
		if _, err := os.Stat(slave); err != nil {
			continue
		}
		crc := RunShell(ctx, `grep -iqP "crc=(.*)YES" `+slave)
		if crc.ReturnCode != 0 || crc.Error != "" {
			continue
		}
		candidates = append(candidates, TempCommand{
			Name:    "DS18B20 sensor (" + filepath.Base(sensor) + ")",
			Command: `awk -F'[ =]' '$10=="t"{printf("%.2f\n",$11/1000)}' ` + slave,
			Gate:    sensor,
		})
	}

	return candidates
}

// DiscoverCPUTemp returns every candidate CPU temperature command that
// actually produces a numeric reading on this host. The first entry is the
// preferred one used for first-run seeding. Non-Linux hosts get nothing.
func DiscoverCPUTemp(ctx context.Context, log logger.Logger) []TempCommand {
	if log == nil {
		log = logger.Noop()
	}
	if runtime.GOOS != "linux" {
		return nil
	}

	var working []TempCommand
	for _, candidate := range cpuTempCandidates(ctx) {
		if _, err := os.Stat(candidate.Gate); err != nil {
			log.Debug("cpu temp probe %s not present", candidate.Gate)
			continue
		}
		result := RunShell(ctx, candidate.Command)
		if !result.Success {
			log.Debug("cpu temp probe %q failed: %s", candidate.Name, result.Error)
			continue
		}
		log.Debug("cpu temp probe %q works: %.2f", candidate.Name, result.Value)
		working = append(working, candidate)
	}
	return working
}
