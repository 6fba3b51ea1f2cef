package monitor

import (
	"fmt"
	"strconv"
	"strings"
)

// CustomPrefix is the reserved two-character namespace for user-defined
// monitor ids (cu0, cu1, ...).
const CustomPrefix = "cu"

// Kind discriminates the monitor id namespaces. Built-in kinds exist or not
// based on printer capability; custom monitors are created by the user.
type Kind int

const (
	KindBed Kind = iota
	KindChamber
	KindTool
	KindCustom
)

// ID identifies a monitor. The namespace is decided once at parse time
// instead of re-testing the string prefix at every use site.
type ID struct {
	Kind Kind
	// Tool is the tool index, valid only for KindTool.
	Tool int
	// Custom is the full cu-prefixed key, valid only for KindCustom.
	Custom string
}

// ParseID converts a string monitor key into a tagged ID. This is the single
// place in the module that inspects the key's shape.
func ParseID(s string) (ID, error) {
	switch {
	case s == "bed":
		return ID{Kind: KindBed}, nil
	case s == "chamber":
		return ID{Kind: KindChamber}, nil
	case strings.HasPrefix(s, "tool"):
		n, err := strconv.Atoi(s[len("tool"):])
		if err != nil || n < 0 {
			return ID{}, fmt.Errorf("malformed tool id %q", s)
		}
		return ID{Kind: KindTool, Tool: n}, nil
	case strings.HasPrefix(s, CustomPrefix):
		if len(s) == len(CustomPrefix) {
			return ID{}, fmt.Errorf("malformed custom id %q", s)
		}
		return ID{Kind: KindCustom, Custom: s}, nil
	}
	return ID{}, fmt.Errorf("unknown monitor id %q", s)
}

// MustParseID is ParseID for ids known to be well-formed, such as literals
// in tests and ids enumerated from capability flags.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ToolID returns the ID for the n-th tool.
func ToolID(n int) ID {
	return ID{Kind: KindTool, Tool: n}
}

// CustomID returns the ID for a cu-prefixed key.
func CustomID(key string) ID {
	return ID{Kind: KindCustom, Custom: key}
}

// String returns the persisted string form of the id.
func (id ID) String() string {
	switch id.Kind {
	case KindBed:
		return "bed"
	case KindChamber:
		return "chamber"
	case KindTool:
		return "tool" + strconv.Itoa(id.Tool)
	case KindCustom:
		return id.Custom
	}
	return "unknown"
}

// IsCustom reports whether the id is in the user-defined namespace.
func (id ID) IsCustom() bool {
	return id.Kind == KindCustom
}

// DisplayName returns the human-readable name for built-in monitors
// ("Bed", "Chamber", "Tool 0"). Custom monitors use their configured name.
func (id ID) DisplayName() string {
	switch id.Kind {
	case KindBed:
		return "Bed"
	case KindChamber:
		return "Chamber"
	case KindTool:
		return fmt.Sprintf("Tool %d", id.Tool)
	}
	return id.Custom
}

// CustomIndex returns the numeric suffix of a custom id, or -1 if the suffix
// is not numeric. Used to keep custom monitors in a stable creation order.
func (id ID) CustomIndex() int {
	if id.Kind != KindCustom {
		return -1
	}
	n, err := strconv.Atoi(id.Custom[len(CustomPrefix):])
	if err != nil {
		return -1
	}
	return n
}
