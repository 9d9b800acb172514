package input

import (
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/scene"
)

// DefaultHoldWindow is how long a held action stays active after its last
// press event. Terminals without key release events resend presses through
// key repeat.
const DefaultHoldWindow = 250 * time.Millisecond

// Axis is one rotation axis whose velocity springs toward a target, so
// turning eases in when a key goes down and eases out when it comes up.
type Axis struct {
	Velocity float64
	accel    float64
	spring   harmonica.Spring
}

// NewAxis creates a critically damped axis stepped at fps.
func NewAxis(fps int) Axis {
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

// Update advances the spring one step toward target and returns the
// velocity.
func (a *Axis) Update(target float64) float64 {
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, target)
	return a.Velocity
}

// Frame is the input for one rendered frame.
type Frame struct {
	Input scene.Input

	Wireframe  bool // flip the wireframe overlay
	Strategy   bool // cycle the interpolation strategy
	Screenshot bool
	Quit       bool
}

// State accumulates actions between frames. Press and Release may be
// called from an event goroutine while Next runs on the render loop.
type State struct {
	HoldWindow time.Duration

	keymap    *Keymap
	moveSpeed float64
	turnSpeed float64

	mu      sync.Mutex
	held    map[Action]time.Time // expiry per held action
	pending []Action

	roll, pitch, yaw Axis
}

// NewState creates input state stepped at fps. moveSpeed is in units per
// second and turnSpeed in radians per second.
func NewState(k *Keymap, moveSpeed, turnSpeed float64, fps int) *State {
	if fps <= 0 {
		fps = 60
	}
	return &State{
		HoldWindow: DefaultHoldWindow,
		keymap:     k,
		moveSpeed:  moveSpeed,
		turnSpeed:  turnSpeed,
		held:       make(map[Action]time.Time),
		roll:       NewAxis(fps),
		pitch:      NewAxis(fps),
		yaw:        NewAxis(fps),
	}
}

// Keymap returns the keymap the state resolves keys with.
func (s *State) Keymap() *Keymap { return s.keymap }

// Press records a key press. Held actions stay active until released or
// until HoldWindow passes without another press.
func (s *State) Press(a Action, now time.Time) {
	if a == ActionNone {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.Held() {
		s.held[a] = now.Add(s.HoldWindow)
		return
	}
	s.pending = append(s.pending, a)
}

// PressKey resolves a key name and presses its action.
func (s *State) PressKey(key string, now time.Time) Action {
	a := s.keymap.Lookup(key)
	s.Press(a, now)
	return a
}

// Release ends a held action.
func (s *State) Release(a Action) {
	s.mu.Lock()
	delete(s.held, a)
	s.mu.Unlock()
}

// Next drains the actions recorded since the previous call and steps the
// rotation springs once.
func (s *State) Next(now time.Time) Frame {
	s.mu.Lock()
	active := func(a Action) float64 {
		exp, ok := s.held[a]
		if !ok {
			return 0
		}
		if now.After(exp) {
			delete(s.held, a)
			return 0
		}
		return 1
	}
	axis := func(pos, neg Action) float64 { return active(pos) - active(neg) }

	move := math3d.V3(
		axis(ActionMoveForward, ActionMoveBack),
		axis(ActionMoveRight, ActionMoveLeft),
		axis(ActionMoveDown, ActionMoveUp),
	)
	turn := math3d.V3(
		axis(ActionRollRight, ActionRollLeft),
		axis(ActionPitchUp, ActionPitchDown),
		axis(ActionYawRight, ActionYawLeft),
	)
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	var f Frame
	f.Input.Move = move.Scale(s.moveSpeed)
	f.Input.Rotate = math3d.V3(
		s.roll.Update(turn.X*s.turnSpeed),
		s.pitch.Update(turn.Y*s.turnSpeed),
		s.yaw.Update(turn.Z*s.turnSpeed),
	)

	for _, a := range pending {
		if i, ok := a.ToggleIndex(); ok {
			f.Input.Toggle = append(f.Input.Toggle, i)
			continue
		}
		switch a {
		case ActionWireframe:
			f.Wireframe = !f.Wireframe
		case ActionStrategy:
			f.Strategy = !f.Strategy
		case ActionScreenshot:
			f.Screenshot = true
		case ActionQuit:
			f.Quit = true
		}
	}
	return f
}
