package key

import "testing"

func TestParseQualified(t *testing.T) {
	tests := []struct {
		spec    string
		want    Qualified
		wantErr bool
	}{
		{"A", Qualified{Base: OutputA}, false},
		{"SHIFT+A", Qualified{Base: OutputA, Modifiers: ModShift}, false},
		{"ALT+SHIFT+R", Qualified{Base: OutputR, Modifiers: ModAlt | ModShift}, false},
		{"shift+alt+r", Qualified{Base: OutputR, Modifiers: ModAlt | ModShift}, false},
		{"", Qualified{}, true},
		{"BOGUS", Qualified{}, true},
		{"CMD+A", Qualified{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseQualified(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseQualified(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("ParseQualified(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestQualifiedEqualIgnoresModifierOrder(t *testing.T) {
	a, err := ParseQualified("SHIFT+ALT+R")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseQualified("ALT+SHIFT+R")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("expected %v to equal %v regardless of modifier order", a, b)
	}
}

func TestQualifiedString(t *testing.T) {
	q := Qualified{Base: OutputR, Modifiers: ModAlt | ModShift}
	if got, want := q.String(), "ALT+SHIFT+R"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	bare := Qualified{Base: OutputA}
	if got, want := bare.String(), "A"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFormOf(t *testing.T) {
	tests := []struct {
		spec string
		want Form
	}{
		{"A", FormBare},
		{"SHIFT+A", FormShiftOnly},
		{"ALT+A", FormAltOnly},
		{"ALT+SHIFT+A", FormAltShift},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			q, err := ParseQualified(tt.spec)
			if err != nil {
				t.Fatal(err)
			}
			got, ok := FormOf(q)
			if !ok || got != tt.want {
				t.Errorf("FormOf(%v) = (%v, %v), want (%v, true)", q, got, ok, tt.want)
			}
		})
	}

	_, ok := FormOf(Qualified{Base: OutputA, Modifiers: ModControl})
	if ok {
		t.Errorf("FormOf should reject Control-bearing qualified keys")
	}
}

func TestRobotgoName(t *testing.T) {
	tests := []struct {
		key  OutputKey
		want string
	}{
		{OutputA, "a"},
		{OutputEnter, "enter"},
		{OutputPageUp, "pageup"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.key.RobotgoName(); got != tt.want {
				t.Errorf("RobotgoName() = %q, want %q", got, tt.want)
			}
		})
	}
}
