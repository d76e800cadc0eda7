package profile

import "testing"

func TestStepValidateRequiresDelaySource(t *testing.T) {
	s := Step{Key: "A"}
	if err := s.Validate(); err == nil {
		t.Fatal("expected error: step has neither bufferTier nor explicit delay")
	}
}

func TestStepValidateExplicitDelayMinimums(t *testing.T) {
	s := Step{Key: "A", MinDelay: 10, MaxDelay: 20}
	if err := s.Validate(); err == nil {
		t.Fatal("expected error: minDelay below 25")
	}

	s = Step{Key: "A", MinDelay: 25, MaxDelay: 27}
	if err := s.Validate(); err == nil {
		t.Fatal("expected error: delay span below 4ms")
	}

	s = Step{Key: "A", MinDelay: 25, MaxDelay: 30}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStepValidateEchoHitsBounds(t *testing.T) {
	s := Step{Key: "A", BufferTier: BufferLow, EchoHits: 7}
	if err := s.Validate(); err == nil {
		t.Fatal("expected error: echoHits above 6")
	}
}

func TestStepValidateDualKeyMustDifferFromPrimary(t *testing.T) {
	s := Step{Key: "A", DualKey: "SHIFT+A", BufferTier: BufferLow}
	if err := s.Validate(); err == nil {
		t.Fatal("expected error: dual key shares raw base with primary")
	}
}

func TestStepValidateScrollStepSkipsKeyRequirement(t *testing.T) {
	s := Step{ScrollDirection: "down", ScrollMagnitude: 3}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error for valid scroll step: %v", err)
	}
}

func TestBindingValidateRejectsTooManyBases(t *testing.T) {
	b := Binding{
		Name:    "five-bases",
		Enabled: true,
		Trigger: Trigger{Key: "1", Gesture: "single"},
		Steps: []Step{
			lowStep("A"), lowStep("B"), lowStep("C"), lowStep("D"), lowStep("E"),
		},
	}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error: 5 distinct bases exceeds max of 4")
	}
}

func TestBindingValidateRejectsTooManyStepsPerBase(t *testing.T) {
	steps := make([]Step, 7)
	for i := range steps {
		steps[i] = lowStep("A")
	}
	b := Binding{Name: "many-a", Enabled: true, Trigger: Trigger{Key: "1", Gesture: "single"}, Steps: steps}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error: 7 steps on one base exceeds max of 6")
	}
}

func TestBindingParsedTriggerRejectsUnknownGesture(t *testing.T) {
	b := Binding{Name: "x", Trigger: Trigger{Key: "1", Gesture: "quintuple"}}
	if _, _, err := b.ParsedTrigger(); err == nil {
		t.Fatal("expected error for unknown gesture name")
	}
}

func TestProfileValidateRejectsDuplicateBindingNames(t *testing.T) {
	p := Profile{
		Timing: TimingConfig{
			MultiPressWindowMs: 350, LongPressMinMs: 500, LongPressMaxMs: 1200,
			SuperLongMinMs: 1500, SuperLongMaxMs: 3000, CancelThresholdMs: 5000,
		},
		Bindings: []Binding{
			{Name: "dup", Enabled: true, Trigger: Trigger{Key: "1", Gesture: "single"}, Steps: []Step{lowStep("A")}},
			{Name: "dup", Enabled: true, Trigger: Trigger{Key: "2", Gesture: "single"}, Steps: []Step{lowStep("B")}},
		},
	}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for duplicate binding name")
	}
}
