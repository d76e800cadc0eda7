// Package traffic serializes access to output keys that appear in more
// than one qualified form across a profile ("conundrum keys"), so that
// concurrently executing macro sequences never leak modifiers into each
// other's keystrokes.
package traffic
