package profile

import (
	"testing"

	"github.com/miraines/macroforge/internal/key"
)

func lowStep(k string) Step {
	return Step{Key: k, BufferTier: BufferLow}
}

func TestCompileConundrumRequiresTwoForms(t *testing.T) {
	p := Profile{
		Bindings: []Binding{
			{Name: "a", Enabled: true, Trigger: Trigger{Key: "1", Gesture: "single"}, Steps: []Step{lowStep("R")}},
			{Name: "b", Enabled: true, Trigger: Trigger{Key: "2", Gesture: "single"}, Steps: []Step{lowStep("SHIFT+R")}},
		},
	}

	c := Compile(p)
	if !c.IsConundrum(key.OutputR) {
		t.Fatal("R should be conundrum: appears bare and Shift-qualified")
	}
	if c.SafeKeys[key.OutputR] {
		t.Fatal("R should not be in the safe set")
	}
}

func TestCompileSafeKeyBareOnly(t *testing.T) {
	p := Profile{
		Bindings: []Binding{
			{Name: "a", Enabled: true, Trigger: Trigger{Key: "1", Gesture: "single"}, Steps: []Step{lowStep("A"), lowStep("A")}},
		},
	}

	c := Compile(p)
	if !c.SafeKeys[key.OutputA] {
		t.Fatal("A should be safe: only ever appears bare")
	}
	if c.IsConundrum(key.OutputA) {
		t.Fatal("A should not be conundrum")
	}
}

func TestCompileAltShiftIsFourthForm(t *testing.T) {
	p := Profile{
		Bindings: []Binding{
			{Name: "a", Enabled: true, Trigger: Trigger{Key: "1", Gesture: "single"}, Steps: []Step{lowStep("Q")}},
			{Name: "b", Enabled: true, Trigger: Trigger{Key: "2", Gesture: "single"}, Steps: []Step{lowStep("ALT+SHIFT+Q")}},
		},
	}

	c := Compile(p)
	if !c.IsConundrum(key.OutputQ) {
		t.Fatal("bare + Alt+Shift should count as two distinct forms and be conundrum")
	}
}

func TestCompileNeitherBareNorSingleFormIsUnclassified(t *testing.T) {
	p := Profile{
		Bindings: []Binding{
			{Name: "a", Enabled: true, Trigger: Trigger{Key: "1", Gesture: "single"}, Steps: []Step{lowStep("SHIFT+Z")}},
		},
	}

	c := Compile(p)
	if c.IsConundrum(key.OutputZ) || c.SafeKeys[key.OutputZ] {
		t.Fatal("a key appearing only Shift-qualified is neither conundrum nor safe")
	}
}

func TestCompileIsIdempotentAcrossRecompiles(t *testing.T) {
	p := Profile{
		Bindings: []Binding{
			{Name: "a", Enabled: true, Trigger: Trigger{Key: "1", Gesture: "single"}, Steps: []Step{lowStep("R"), lowStep("SHIFT+R")}},
			{Name: "b", Enabled: true, Trigger: Trigger{Key: "2", Gesture: "single"}, Steps: []Step{lowStep("A")}},
		},
	}

	first := Compile(p)
	second := Compile(p)

	if len(first.ConundrumKeys) != len(second.ConundrumKeys) {
		t.Fatal("recompiling the same profile must yield the same conundrum set size")
	}
	for k := range first.ConundrumKeys {
		if !second.ConundrumKeys[k] {
			t.Fatalf("conundrum set mismatch on recompile for %v", k)
		}
	}
	for k := range first.SafeKeys {
		if !second.SafeKeys[k] {
			t.Fatalf("safe set mismatch on recompile for %v", k)
		}
	}
}

func TestCompileDualKeyParticipatesInFormTracking(t *testing.T) {
	p := Profile{
		Bindings: []Binding{
			{Name: "a", Enabled: true, Trigger: Trigger{Key: "1", Gesture: "single"}, Steps: []Step{
				{Key: "A", DualKey: "SHIFT+B", BufferTier: BufferLow},
			}},
			{Name: "b", Enabled: true, Trigger: Trigger{Key: "2", Gesture: "single"}, Steps: []Step{lowStep("B")}},
		},
	}

	c := Compile(p)
	if !c.IsConundrum(key.OutputB) {
		t.Fatal("B appears bare in one binding and Shift-qualified as a dual key in another: should be conundrum")
	}
}
