package executor

import (
	"github.com/miraines/macroforge/internal/profile"
)

// validateBinding re-exposes profile.Binding.Validate under the
// executor's name so execution call sites read naturally; the
// aggregate and per-step rules are the same ones config.LoadProfile
// already enforces at load time through Profile.Validate, so there is
// exactly one implementation of them.
func validateBinding(b profile.Binding) error {
	return b.Validate()
}
