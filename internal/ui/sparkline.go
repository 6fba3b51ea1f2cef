package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders a single-row trend graph from a value series.
// low sets the bottom of the y axis: temperature series pass a few degrees
// under their minimum so small swings stay visible, while everything else
// passes zero for an honest baseline. The top of the axis is the series
// maximum.
func RenderSparkline(data []float64, width int, low float64, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	resampled := resample(data, width)

	high := resampled[0]
	for _, v := range resampled {
		if v > high {
			high = v
		}
	}

	var sb strings.Builder
	sb.Grow(len(resampled) * 3)
	levels := len(sparklineBlocks)
	span := high - low

	for _, v := range resampled {
		level := levels / 2
		if span > 0 {
			normalized := (v - low) / span
			level = int(normalized * float64(levels-1))
			if level < 0 {
				level = 0
			} else if level >= levels {
				level = levels - 1
			}
		}
		sb.WriteRune(sparklineBlocks[level])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// resample fits a series into width columns. Downsampling takes the maximum
// of each bucket so short spikes survive compression; a shorter series is
// used as-is, filling from the left.
func resample(data []float64, width int) []float64 {
	if len(data) <= width {
		return data
	}

	result := make([]float64, width)
	bucket := float64(len(data)) / float64(width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * bucket)
		end := int(float64(i+1) * bucket)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			start = end - 1
		}
		high := data[start]
		for j := start + 1; j < end; j++ {
			if data[j] > high {
				high = data[j]
			}
		}
		result[i] = high
	}
	return result
}
