package profile

import (
	"github.com/miraines/macroforge/internal/key"
)

// Compiled is the output of compiling a Profile: two disjoint sets of
// raw output keys.
type Compiled struct {
	ConundrumKeys map[key.OutputKey]bool
	SafeKeys      map[key.OutputKey]bool
}

// IsConundrum reports whether base requires traffic-controller
// serialization.
func (c Compiled) IsConundrum(base key.OutputKey) bool {
	return c.ConundrumKeys[base]
}

// Compile partitions every raw output key referenced by the profile's
// steps into conundrum and safe sets. A base is conundrum if it appears
// in at least two of the four distinct qualified forms (bare,
// Shift-only, Alt-only, Alt+Shift — the latter treated as its own form
// per the decision recorded in SPEC_FULL.md §3/§9). A base is safe if it
// appears in exactly one form and that form is bare. Runs once per
// profile load; O(total steps).
func Compile(p Profile) Compiled {
	forms := make(map[key.OutputKey]map[key.Form]bool)

	note := func(q key.Qualified) {
		form, ok := key.FormOf(q)
		if !ok {
			// Control-bearing qualified keys fall outside the four
			// tracked forms; they don't participate in conundrum
			// classification (no source variant treats them as raw
			// key contention, since Control is never dropped to
			// produce a "raw" form clash).
			return
		}
		set, ok := forms[q.Raw()]
		if !ok {
			set = make(map[key.Form]bool)
			forms[q.Raw()] = set
		}
		set[form] = true
	}

	for _, b := range p.Bindings {
		for _, step := range b.Steps {
			if step.IsScroll() {
				continue
			}
			if q, err := key.ParseQualified(step.Key); err == nil {
				note(q)
			}
			if step.DualKey != "" {
				if q, err := key.ParseQualified(step.DualKey); err == nil {
					note(q)
				}
			}
		}
	}

	conundrum := make(map[key.OutputKey]bool)
	safe := make(map[key.OutputKey]bool)

	for base, set := range forms {
		switch {
		case len(set) >= 2:
			conundrum[base] = true
		case set[key.FormBare]:
			safe[base] = true
		}
	}

	return Compiled{ConundrumKeys: conundrum, SafeKeys: safe}
}
