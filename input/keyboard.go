// Package input turns raylib keyboard state into tank instructions.
package input

import (
	"fmt"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tankarena/control"
)

// Layout binds keys to instructions.
type Layout struct {
	Name                    string
	Forward, Backward       int32
	RotateLeft, RotateRight int32
	SpinLeft, SpinRight     int32
	Shoot                   int32
}

// WASD is the left-hand layout.
var WASD = Layout{
	Name:        "wasd",
	Forward:     rl.KeyW,
	Backward:    rl.KeyS,
	RotateLeft:  rl.KeyA,
	RotateRight: rl.KeyD,
	SpinLeft:    rl.KeyQ,
	SpinRight:   rl.KeyE,
	Shoot:       rl.KeySpace,
}

// Arrows is the right-hand layout.
var Arrows = Layout{
	Name:        "arrow",
	Forward:     rl.KeyUp,
	Backward:    rl.KeyDown,
	RotateLeft:  rl.KeyLeft,
	RotateRight: rl.KeyRight,
	SpinLeft:    rl.KeyI,
	SpinRight:   rl.KeyO,
	Shoot:       rl.KeyP,
}

// LayoutByName returns the layout for a -p1/-p2 value.
func LayoutByName(name string) (Layout, error) {
	switch name {
	case WASD.Name:
		return WASD, nil
	case Arrows.Name:
		return Arrows, nil
	}
	return Layout{}, fmt.Errorf("unknown keyboard layout %q", name)
}

// Keyboard is a controller read from held keys once per tick.
type Keyboard struct {
	Layout Layout
	IsDown func(key int32) bool

	mu      sync.Mutex
	last    control.Observation
	outcome *control.Outcome
}

// NewKeyboard creates a controller reading raylib key state.
func NewKeyboard(layout Layout) *Keyboard {
	return &Keyboard{Layout: layout, IsDown: rl.IsKeyDown}
}

// Poll returns the instructions for the keys currently held.
// Opposite keys resolve to forward, left rotation and left spin.
func (k *Keyboard) Poll() []control.Instruction {
	l := k.Layout
	var out []control.Instruction

	switch {
	case k.IsDown(l.Forward):
		out = append(out, control.MoveForward)
	case k.IsDown(l.Backward):
		out = append(out, control.MoveBackward)
	}
	switch {
	case k.IsDown(l.RotateLeft):
		out = append(out, control.RotateLeft)
	case k.IsDown(l.RotateRight):
		out = append(out, control.RotateRight)
	}
	switch {
	case k.IsDown(l.SpinLeft):
		out = append(out, control.SpinTurretLeft)
	case k.IsDown(l.SpinRight):
		out = append(out, control.SpinTurretRight)
	}
	if k.IsDown(l.Shoot) {
		out = append(out, control.Shoot)
	}
	return out
}

// Observe keeps the latest observation for the HUD.
func (k *Keyboard) Observe(o control.Observation) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.last = o
}

// Last returns the latest observation.
func (k *Keyboard) Last() control.Observation {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.last
}

// Finish records the outcome. Only the first call counts.
func (k *Keyboard) Finish(o control.Outcome) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.outcome == nil {
		k.outcome = &o
	}
}

// Outcome returns the recorded outcome, if any.
func (k *Keyboard) Outcome() (control.Outcome, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.outcome == nil {
		return control.Loss, false
	}
	return *k.outcome, true
}
