package key

import (
	"sort"
	"strings"
)

// Modifier represents one of the three keyboard modifiers macroforge
// understands. Unlike the reference teacher's Modifier type, there is no
// Meta: the engine's modifier set per spec is exactly {Shift, Control, Alt}.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

// With returns a copy of m with mod added.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// IsEmpty reports whether no modifiers are set.
func (m Modifier) IsEmpty() bool { return m == ModNone }

// Equal reports canonical equality: modifier sets are equal regardless
// of the order in which they were parsed or constructed.
func (m Modifier) Equal(other Modifier) bool { return m == other }

var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModControl, "CONTROL"},
	{ModAlt, "ALT"},
	{ModShift, "SHIFT"},
}

// String renders the modifier set in canonical CONTROL+ALT+SHIFT order,
// joined by "+". An empty set renders as "".
func (m Modifier) String() string {
	var parts []string
	for _, e := range modifierOrder {
		if m.Has(e.mod) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "+")
}

var modifierNames = map[string]Modifier{
	"SHIFT":   ModShift,
	"S":       ModShift,
	"CONTROL": ModControl,
	"CTRL":    ModControl,
	"C":       ModControl,
	"ALT":     ModAlt,
	"A":       ModAlt,
	"OPTION":  ModAlt,
}

// ModifierFromName resolves a single modifier token (case-insensitive).
func ModifierFromName(name string) (Modifier, bool) {
	m, ok := modifierNames[strings.ToUpper(strings.TrimSpace(name))]
	return m, ok
}

// RobotgoNames renders the set as the lowercase modifier tokens robotgo's
// KeyTap/KeyToggle variadic args expect (e.g. "shift", "alt", "control").
func (m Modifier) RobotgoNames() []string {
	var names []string
	for _, e := range modifierOrder {
		if m.Has(e.mod) {
			names = append(names, strings.ToLower(e.name))
		}
	}
	return names
}

// sortedModifierNames returns the set as individual canonical names in
// alphabetical order, for enumerating the set rather than rendering a
// joined string.
func sortedModifierNames(m Modifier) []string {
	var names []string
	for _, e := range modifierOrder {
		if m.Has(e.mod) {
			names = append(names, e.name)
		}
	}
	sort.Strings(names)
	return names
}
