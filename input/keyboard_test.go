package input

import (
	"reflect"
	"testing"

	"github.com/pthm-cable/tankarena/control"
)

func held(keys ...int32) func(int32) bool {
	set := map[int32]bool{}
	for _, k := range keys {
		set[k] = true
	}
	return func(k int32) bool { return set[k] }
}

func TestPoll(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		keys   []int32
		want   []control.Instruction
	}{
		{"nothing held", WASD, nil, nil},
		{"forward", WASD, []int32{WASD.Forward}, []control.Instruction{control.MoveForward}},
		{"forward wins over backward", WASD, []int32{WASD.Forward, WASD.Backward}, []control.Instruction{control.MoveForward}},
		{"left wins over right", Arrows, []int32{Arrows.RotateLeft, Arrows.RotateRight}, []control.Instruction{control.RotateLeft}},
		{
			"everything at once", Arrows,
			[]int32{Arrows.Backward, Arrows.RotateRight, Arrows.SpinRight, Arrows.Shoot},
			[]control.Instruction{control.MoveBackward, control.RotateRight, control.SpinTurretRight, control.Shoot},
		},
		{"spin left", WASD, []int32{WASD.SpinLeft}, []control.Instruction{control.SpinTurretLeft}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := &Keyboard{Layout: tt.layout, IsDown: held(tt.keys...)}
			if got := k.Poll(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Poll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLayoutByName(t *testing.T) {
	if l, err := LayoutByName("wasd"); err != nil || l.Name != "wasd" {
		t.Errorf("wasd: %v %v", l.Name, err)
	}
	if l, err := LayoutByName("arrow"); err != nil || l.Name != "arrow" {
		t.Errorf("arrow: %v %v", l.Name, err)
	}
	if _, err := LayoutByName("joystick"); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestFinishFirstWins(t *testing.T) {
	k := &Keyboard{Layout: WASD, IsDown: held()}
	if _, ok := k.Outcome(); ok {
		t.Fatal("outcome before Finish")
	}
	k.Finish(control.Win)
	k.Finish(control.Loss)
	if o, ok := k.Outcome(); !ok || o != control.Win {
		t.Errorf("Outcome() = %v, %v; want win", o, ok)
	}
}
