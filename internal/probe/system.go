package probe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/printwatch/topbar/internal/errors"
)

const bytesPerMB = 1048576

// Metric is one readable system metric, keyed by its probe id. Disk metrics
// carry the mountpoint and temperature metrics the sensor key discovered at
// catalogue build time.
type Metric struct {
	ID          string
	Description string

	mount  string
	sensor string
}

// SystemReader reads system metrics by probe id. The catalogue of available
// ids is partly static (cpu, load, memory, swap) and partly discovered from
// the running host (one entry per disk partition and temperature sensor).
type SystemReader struct {
	mu        sync.Mutex
	cpuPrimed bool
	catalog   map[string]Metric
}

// NewSystemReader builds a reader with the static catalogue. Call Refresh to
// discover the per-host disk and sensor entries.
func NewSystemReader() *SystemReader {
	r := &SystemReader{catalog: make(map[string]Metric)}
	for id, desc := range staticMetrics {
		r.catalog[id] = Metric{ID: id, Description: desc}
	}
	return r
}

var staticMetrics = map[string]string{
	"cpup":      "CPU usage %",
	"cpuf":      "CPU frequency in MHz",
	"loadavg1":  "Average system load last 1 minute",
	"loadavg5":  "Average system load last 5 minutes",
	"loadavg15": "Average system load last 15 minutes",
	"memtotal":  "Total physical memory (exclusive swap) in MB",
	"memavail":  "Total available memory in MB",
	"memused":   "Memory used in MB",
	"memfree":   "Memory not being used at all in MB",
	"memp":      "Memory used %",
	"swaptotal": "Total swap memory in MB",
	"swapused":  "Used swap memory in MB",
	"swapfree":  "Free swap memory in MB",
	"swapperc":  "Used swap %",
}

// Refresh rediscovers the dynamic catalogue entries: one metric family per
// mounted partition and one entry per temperature sensor.
func (r *SystemReader) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.catalog {
		if _, static := staticMetrics[id]; !static {
			delete(r.catalog, id)
		}
	}

	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrProbe,
			"Couldn't list disk partitions", "")
	}
	for i, p := range partitions {
		for _, family := range []struct{ prefix, what string }{
			{"diskfree", "Disk free"},
			{"disktotal", "Disk total"},
			{"diskused", "Disk used"},
			{"diskperc", "Disk used %"},
		} {
			id := fmt.Sprintf("%s_%d", family.prefix, i)
			r.catalog[id] = Metric{
				ID:          id,
				Description: fmt.Sprintf("%s %q", family.what, p.Mountpoint),
				mount:       p.Mountpoint,
			}
		}
	}

	// Sensor support varies by platform; an error just means no temp entries.
	if temps, err := host.SensorsTemperaturesWithContext(ctx); err == nil {
		for i, t := range temps {
			id := fmt.Sprintf("temp_%d", i)
			r.catalog[id] = Metric{
				ID:          id,
				Description: "Temperature " + t.SensorKey,
				sensor:      t.SensorKey,
			}
		}
	}
	return nil
}

// Catalog returns the known metrics sorted by id, for the settings dialog's
// metric picker.
func (r *SystemReader) Catalog() []Metric {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Metric, 0, len(r.catalog))
	for _, m := range r.catalog {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Read samples one metric by probe id.
func (r *SystemReader) Read(ctx context.Context, id string) (float64, error) {
	r.mu.Lock()
	metric, known := r.catalog[id]
	r.mu.Unlock()

	switch id {
	case "cpup":
		return r.cpuPercent(ctx)
	case "cpuf":
		info, err := cpu.InfoWithContext(ctx)
		if err != nil || len(info) == 0 {
			return 0, wrapProbe(err, "Couldn't read the CPU frequency")
		}
		return info[0].Mhz, nil
	case "loadavg1", "loadavg5", "loadavg15":
		avg, err := load.AvgWithContext(ctx)
		if err != nil {
			return 0, wrapProbe(err, "Couldn't read the load average")
		}
		switch id {
		case "loadavg1":
			return avg.Load1, nil
		case "loadavg5":
			return avg.Load5, nil
		}
		return avg.Load15, nil
	case "memtotal", "memavail", "memused", "memfree", "memp":
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return 0, wrapProbe(err, "Couldn't read memory usage")
		}
		switch id {
		case "memtotal":
			return float64(vm.Total) / bytesPerMB, nil
		case "memavail":
			return float64(vm.Available) / bytesPerMB, nil
		case "memused":
			return float64(vm.Used) / bytesPerMB, nil
		case "memfree":
			return float64(vm.Free) / bytesPerMB, nil
		}
		return vm.UsedPercent, nil
	case "swaptotal", "swapused", "swapfree", "swapperc":
		swap, err := mem.SwapMemoryWithContext(ctx)
		if err != nil {
			return 0, wrapProbe(err, "Couldn't read swap usage")
		}
		switch id {
		case "swaptotal":
			return float64(swap.Total) / bytesPerMB, nil
		case "swapused":
			return float64(swap.Used) / bytesPerMB, nil
		case "swapfree":
			return float64(swap.Free) / bytesPerMB, nil
		}
		return swap.UsedPercent, nil
	}

	if !known {
		return 0, errors.New(errors.ErrProbe,
			fmt.Sprintf("Unknown system metric %q", id),
			"Refresh the metric catalogue and pick an id from it.")
	}

	switch {
	case strings.HasPrefix(id, "disk"):
		usage, err := disk.UsageWithContext(ctx, metric.mount)
		if err != nil {
			return 0, wrapProbe(err, fmt.Sprintf("Couldn't read disk usage for %q", metric.mount))
		}
		switch {
		case strings.HasPrefix(id, "diskfree"):
			return float64(usage.Free) / bytesPerMB, nil
		case strings.HasPrefix(id, "disktotal"):
			return float64(usage.Total) / bytesPerMB, nil
		case strings.HasPrefix(id, "diskused"):
			return float64(usage.Used) / bytesPerMB, nil
		}
		return usage.UsedPercent, nil

	case strings.HasPrefix(id, "temp"):
		temps, err := host.SensorsTemperaturesWithContext(ctx)
		if err != nil {
			return 0, wrapProbe(err, "Couldn't read temperature sensors")
		}
		for _, t := range temps {
			if t.SensorKey == metric.sensor {
				return t.Temperature, nil
			}
		}
		return 0, errors.New(errors.ErrProbe,
			fmt.Sprintf("Sensor %q is gone", metric.sensor),
			"Refresh the metric catalogue.")
	}

	return 0, errors.New(errors.ErrProbe,
		fmt.Sprintf("Unknown system metric %q", id), "")
}

// cpuPercent reports usage since the previous call. The first ever call
// primes the baseline and would report zero, so it samples twice.
func (r *SystemReader) cpuPercent(ctx context.Context) (float64, error) {
	r.mu.Lock()
	primed := r.cpuPrimed
	r.cpuPrimed = true
	r.mu.Unlock()

	if !primed {
		if _, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
			return 0, wrapProbe(err, "Couldn't read CPU usage")
		}
	}
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(percents) == 0 {
		return 0, wrapProbe(err, "Couldn't read CPU usage")
	}
	return percents[0], nil
}

func wrapProbe(err error, msg string) error {
	if err == nil {
		return errors.New(errors.ErrProbe, msg, "")
	}
	return errors.WrapWithCode(err, errors.ErrProbe, msg, "")
}
