// Package probe produces the samples that feed custom monitors: shell
// commands run on a timer, system metrics read through gopsutil, and gcode
// traffic matched against user regular expressions.
package probe
