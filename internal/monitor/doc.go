// Package monitor implements the dashboard widget core: monitor identity,
// the bounded per-monitor sample buffers, value formatting, sort-order
// reconciliation, the draft/commit settings lifecycle, and the controller
// that ties them together in response to inbound samples.
package monitor
