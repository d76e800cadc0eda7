// Package key defines the closed enumerations of input and output keys,
// the modifier set, and the qualified-key encoding ("MOD+MOD+BASE") used
// throughout macroforge to describe both operator gestures and synthesized
// keystrokes.
package key
