package key

import (
	"fmt"
	"strings"
)

// Qualified is an output key together with its modifier set. External
// representation is "MOD+MOD+...+BASE" in uppercase; canonical equality
// ignores the order modifiers were written in.
type Qualified struct {
	Base      OutputKey
	Modifiers Modifier
}

// Raw discards the modifiers, returning the projection used for
// traffic-controller bookkeeping and conundrum/safe classification.
func (q Qualified) Raw() OutputKey { return q.Base }

// Equal reports canonical equality between two qualified keys.
func (q Qualified) Equal(other Qualified) bool {
	return q.Base == other.Base && q.Modifiers == other.Modifiers
}

// String renders the qualified key as "MOD+MOD+BASE", e.g. "SHIFT+A" or
// just "A" when there are no modifiers.
func (q Qualified) String() string {
	mods := q.Modifiers.String()
	if mods == "" {
		return q.Base.String()
	}
	return mods + "+" + q.Base.String()
}

// ParseQualified parses a "MOD+MOD+...+BASE" string. The base key is
// always the final token; every earlier token must be a recognized
// modifier name. Returns an error for an unknown base, an unknown
// modifier, or an empty spec.
func ParseQualified(spec string) (Qualified, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Qualified{}, fmt.Errorf("key: empty qualified key spec")
	}

	tokens := strings.Split(spec, "+")
	baseTok := tokens[len(tokens)-1]
	base, ok := OutputKeyFromName(baseTok)
	if !ok {
		return Qualified{}, fmt.Errorf("key: unknown base key %q in %q", baseTok, spec)
	}

	var mods Modifier
	for _, tok := range tokens[:len(tokens)-1] {
		mod, ok := ModifierFromName(tok)
		if !ok {
			return Qualified{}, fmt.Errorf("key: unknown modifier %q in %q", tok, spec)
		}
		mods = mods.With(mod)
	}

	return Qualified{Base: base, Modifiers: mods}, nil
}

// Form classifies the presence of a qualified key among the four forms
// the profile compiler tracks for a given raw base.
type Form uint8

const (
	FormBare Form = iota
	FormShiftOnly
	FormAltOnly
	FormAltShift
)

// FormOf classifies q's modifier combination. Control-bearing qualified
// keys and Shift+Alt+Control combinations fall outside the four
// compiler-tracked forms and are reported via ok=false; the compiler
// skips such keys, so they count toward no form of their base.
func FormOf(q Qualified) (Form, bool) {
	switch q.Modifiers {
	case ModNone:
		return FormBare, true
	case ModShift:
		return FormShiftOnly, true
	case ModAlt:
		return FormAltOnly, true
	case ModAlt | ModShift:
		return FormAltShift, true
	default:
		return 0, false
	}
}
