package monitor

import "sort"

// Capabilities describes which built-in monitors currently exist. Built-in
// ids are never created or destroyed by the user; they follow these flags.
type Capabilities struct {
	HasBed     bool
	HasChamber bool
	ToolCount  int
}

// KnownIDs enumerates the full current universe of monitor ids in natural
// order: fixed kinds first, then tools by index, then custom monitors by
// their numeric suffix (creation order).
func KnownIDs(caps Capabilities, customKeys []string) []string {
	var out []string
	if caps.HasBed {
		out = append(out, "bed")
	}
	if caps.HasChamber {
		out = append(out, "chamber")
	}
	for i := 0; i < caps.ToolCount; i++ {
		out = append(out, ToolID(i).String())
	}

	sorted := append([]string(nil), customKeys...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := CustomID(sorted[i]).CustomIndex(), CustomID(sorted[j]).CustomIndex()
		if a != b {
			return a < b
		}
		return sorted[i] < sorted[j]
	})
	return append(out, sorted...)
}

// MergedOrder reconciles a persisted display order with the current universe
// of known ids. Ids from persisted keep their relative order; ids no longer
// known are dropped; ids the order has never seen are appended in their
// natural enumeration order. The result is always a permutation of known.
func MergedOrder(persisted, known []string) []string {
	remaining := make(map[string]struct{}, len(known))
	for _, id := range known {
		remaining[id] = struct{}{}
	}

	result := make([]string, 0, len(known))
	for _, id := range persisted {
		if _, ok := remaining[id]; ok {
			result = append(result, id)
			delete(remaining, id)
		}
	}
	for _, id := range known {
		if _, ok := remaining[id]; ok {
			result = append(result, id)
		}
	}
	return result
}
