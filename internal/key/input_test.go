package key

import "testing"

func TestCanonicalizeInputName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"F1", "F1"},
		{"f1", "F1"},
		{"MOUSE MIDDLE", "MIDDLE_CLICK"},
		{"mouse x1", "X1_CLICK"},
		{"  F12  ", "F12"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := CanonicalizeInputName(tt.raw); got != tt.want {
				t.Errorf("CanonicalizeInputName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestInputKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		want InputKey
		ok   bool
	}{
		{"F1", InputF1, true},
		{"9", Input9, true},
		{"MIDDLE_CLICK", InputMiddleClick, true},
		{"mouse middle", InputMiddleClick, true},
		{"BOGUS", InputNone, false},
		{"", InputNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InputKeyFromName(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("InputKeyFromName(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestInputKeyIsValid(t *testing.T) {
	for _, k := range AllInputKeys() {
		if !k.IsValid() {
			t.Errorf("%v should be valid", k)
		}
	}
	if InputNone.IsValid() {
		t.Errorf("InputNone should not be valid")
	}
}
