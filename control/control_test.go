package control

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		action string
		want   Instruction
		ok     bool
	}{
		{"shoot", Shoot, true},
		{"move_forward", MoveForward, true},
		{"move_backward", MoveBackward, true},
		{"rotate_left", RotateLeft, true},
		{"rotate_right", RotateRight, true},
		{"spin_left", SpinTurretLeft, true},
		{"spin_right", SpinTurretRight, true},
		{"wait", 0, false},
		{"", 0, false},
		{"SHOOT", 0, false},
		{"fly", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			got, ok := ParseAction(tt.action)
			if ok != tt.ok {
				t.Fatalf("ParseAction(%q) ok = %v, want %v", tt.action, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseAction(%q) = %v, want %v", tt.action, got, tt.want)
			}
		})
	}
}

func TestInstructionStringRoundTrip(t *testing.T) {
	for i := MoveForward; i <= Shoot; i++ {
		got, ok := ParseAction(i.String())
		if !ok || got != i {
			t.Errorf("%v does not parse back: got %v ok=%v", i, got, ok)
		}
	}
	if s := Instruction(99).String(); s != "Instruction(99)" {
		t.Errorf("unknown instruction string = %q", s)
	}
}

func TestOutcomeString(t *testing.T) {
	if Win.String() != "win" || Loss.String() != "loss" {
		t.Errorf("outcome strings = %q, %q", Win, Loss)
	}
}

func TestIdleIsController(t *testing.T) {
	var c Controller = Idle{}
	if c.Poll() != nil {
		t.Error("idle issued instructions")
	}
	c.Observe(Observation{})
	c.Finish(Win)
}
