// Package control defines what a player can tell its tank to do, what it is
// told back, and the simple controllers that need no I/O.
package control

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/components"
)

// Instruction is a single command for one tank.
type Instruction uint8

const (
	MoveForward Instruction = iota
	MoveBackward
	RotateLeft
	RotateRight
	SpinTurretLeft
	SpinTurretRight
	Shoot
)

var instructionNames = [...]string{
	MoveForward:     "move_forward",
	MoveBackward:    "move_backward",
	RotateLeft:      "rotate_left",
	RotateRight:     "rotate_right",
	SpinTurretLeft:  "spin_left",
	SpinTurretRight: "spin_right",
	Shoot:           "shoot",
}

// String returns the action name used on the wire.
func (i Instruction) String() string {
	if int(i) < len(instructionNames) {
		return instructionNames[i]
	}
	return fmt.Sprintf("Instruction(%d)", i)
}

// ActionWait is the action that asks for nothing this cycle.
const ActionWait = "wait"

// ParseAction maps an action name to an instruction. The second result is
// false for "wait" and for names outside the vocabulary.
func ParseAction(action string) (Instruction, bool) {
	for i, name := range instructionNames {
		if name == action {
			return Instruction(i), true
		}
	}
	return 0, false
}

// Outcome is how a match ended for one player.
type Outcome uint8

const (
	Loss Outcome = iota
	Win
)

// String returns "win" or "loss".
func (o Outcome) String() string {
	if o == Win {
		return "win"
	}
	return "loss"
}

// Observation is what a player learns about its tank after a tick.
type Observation struct {
	Pos          r2.Vec
	HullAngle    float64
	TurretAngle  float64 // world angle
	HullVision   []components.Hit
	TurretVision []components.Hit
}

// Controller drives one tank.
type Controller interface {
	// Poll returns the instructions received since the last call, oldest first.
	// It never blocks.
	Poll() []Instruction
	// Observe hands over the latest observation. It never blocks.
	Observe(Observation)
	// Finish reports the match outcome. Only the first call counts.
	Finish(Outcome)
}
