package input

import (
	"math"
	"slices"
	"testing"
	"time"
)

func TestDefaultKeymap(t *testing.T) {
	k, err := NewKeymap(nil)
	if err != nil {
		t.Fatalf("NewKeymap: %v", err)
	}

	tests := []struct {
		key  string
		want Action
	}{
		{"q", ActionMoveForward},
		{"e", ActionMoveBack},
		{"d", ActionMoveRight},
		{"a", ActionMoveLeft},
		{"w", ActionMoveUp},
		{"s", ActionMoveDown},
		{"up", ActionPitchUp},
		{"left", ActionYawLeft},
		{"O", ActionRollLeft},
		{"p", ActionRollRight},
		{"1", ActionToggle1},
		{"9", ActionToggle9},
		{"\\", ActionQuit},
		{"escape", ActionQuit},
		{"ctrl+c", ActionQuit},
		{"f2", ActionScreenshot},
		{"z", ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := k.Lookup(tt.key); got != tt.want {
				t.Errorf("Lookup(%q) = %s, want %s", tt.key, got, tt.want)
			}
		})
	}
}

func TestKeymapOverrides(t *testing.T) {
	k, err := NewKeymap(map[string][]string{
		"quit":       {"x"},
		"screenshot": {"F12", "c"},
	})
	if err != nil {
		t.Fatalf("NewKeymap: %v", err)
	}

	if got := k.Lookup("x"); got != ActionQuit {
		t.Errorf("x = %s, want quit", got)
	}
	if got := k.Lookup("esc"); got != ActionNone {
		t.Errorf("esc = %s, want none after override", got)
	}
	if got := k.Keys(ActionWireframe); len(got) != 0 {
		t.Errorf("wireframe kept stolen key: %v", got)
	}
	if got := k.Keys(ActionScreenshot); !slices.Equal(got, []string{"f12", "c"}) {
		t.Errorf("screenshot keys = %v", got)
	}

	if _, err := NewKeymap(map[string][]string{"fly": {"f"}}); err == nil {
		t.Error("expected error for unknown action")
	}
	if _, err := NewKeymap(map[string][]string{"quit": {"k"}, "wireframe": {"k"}}); err == nil {
		t.Error("expected error for key bound twice")
	}
}

func TestKeymapMatch(t *testing.T) {
	k, err := NewKeymap(nil)
	if err != nil {
		t.Fatalf("NewKeymap: %v", err)
	}

	pressed := func(key string) func(...string) bool {
		return func(keys ...string) bool { return slices.Contains(keys, key) }
	}
	if got := k.Match(pressed("ctrl+c")); got != ActionQuit {
		t.Errorf("Match(ctrl+c) = %s, want quit", got)
	}
	if got := k.Match(pressed("right")); got != ActionYawRight {
		t.Errorf("Match(right) = %s, want yaw_right", got)
	}
	if got := k.Match(pressed("z")); got != ActionNone {
		t.Errorf("Match(z) = %s, want none", got)
	}
}

func TestParseAction(t *testing.T) {
	for a := ActionNone + 1; a < actionCount; a++ {
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %s, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAction("none"); err == nil {
		t.Error("expected none to be unbindable")
	}
}

func newTestState(t *testing.T) *State {
	t.Helper()
	k, err := NewKeymap(nil)
	if err != nil {
		t.Fatalf("NewKeymap: %v", err)
	}
	return NewState(k, 2, 1.5, 60)
}

func TestHeldMovement(t *testing.T) {
	start := time.Unix(0, 0)

	tests := []struct {
		key     string
		x, y, z float64
	}{
		{"q", 2, 0, 0},
		{"e", -2, 0, 0},
		{"d", 0, 2, 0},
		{"a", 0, -2, 0},
		{"s", 0, 0, 2},
		{"w", 0, 0, -2},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := newTestState(t)
			s.PressKey(tt.key, start)

			got := s.Next(start.Add(10 * time.Millisecond)).Input.Move
			if got.X != tt.x || got.Y != tt.y || got.Z != tt.z {
				t.Errorf("Move = %v, want (%v,%v,%v)", got, tt.x, tt.y, tt.z)
			}
		})
	}
}

func TestHeldActionExpiresAndReleases(t *testing.T) {
	s := newTestState(t)
	start := time.Unix(0, 0)

	s.PressKey("q", start)
	s.PressKey("e", start)
	if got := s.Next(start).Input.Move.X; got != 0 {
		t.Errorf("opposite keys should cancel, got %v", got)
	}

	s.Release(ActionMoveBack)
	if got := s.Next(start.Add(100 * time.Millisecond)).Input.Move.X; got != 2 {
		t.Errorf("after release Move.X = %v, want 2", got)
	}
	if got := s.Next(start.Add(DefaultHoldWindow + time.Millisecond)).Input.Move.X; got != 0 {
		t.Errorf("expired hold Move.X = %v, want 0", got)
	}

	// key repeat renews the hold
	s.PressKey("q", start.Add(time.Second))
	s.PressKey("q", start.Add(time.Second+200*time.Millisecond))
	if got := s.Next(start.Add(time.Second + 400*time.Millisecond)).Input.Move.X; got != 2 {
		t.Errorf("repeated press Move.X = %v, want 2", got)
	}
}

func TestRotationEasesInAndOut(t *testing.T) {
	s := newTestState(t)
	s.HoldWindow = time.Hour
	now := time.Unix(0, 0)

	s.PressKey("right", now)
	prev := 0.0
	for i := range 120 {
		yaw := s.Next(now).Input.Rotate.Z
		if yaw < prev-1e-12 {
			t.Fatalf("frame %d: yaw velocity fell from %v to %v while held", i, prev, yaw)
		}
		if yaw > 1.5+1e-9 {
			t.Fatalf("frame %d: yaw velocity %v overshot 1.5", i, yaw)
		}
		prev = yaw
	}
	if math.Abs(prev-1.5) > 1e-3 {
		t.Errorf("held yaw velocity = %v, want ~1.5", prev)
	}

	s.Release(ActionYawRight)
	for range 120 {
		prev = s.Next(now).Input.Rotate.Z
	}
	if math.Abs(prev) > 1e-3 {
		t.Errorf("released yaw velocity = %v, want ~0", prev)
	}
}

func TestDiscreteActionsFireOnce(t *testing.T) {
	s := newTestState(t)
	now := time.Unix(0, 0)

	s.PressKey("3", now)
	s.PressKey("1", now)
	s.PressKey("x", now)
	s.PressKey("f2", now)
	s.PressKey("esc", now)

	f := s.Next(now)
	if !slices.Equal(f.Input.Toggle, []int{2, 0}) {
		t.Errorf("Toggle = %v, want [2 0]", f.Input.Toggle)
	}
	if !f.Wireframe || !f.Screenshot || !f.Quit || f.Strategy {
		t.Errorf("unexpected commands %+v", f)
	}

	f = s.Next(now)
	if len(f.Input.Toggle) != 0 || f.Wireframe || f.Screenshot || f.Quit {
		t.Errorf("commands repeated on next frame: %+v", f)
	}
}

func TestWireframePressedTwiceCancels(t *testing.T) {
	s := newTestState(t)
	now := time.Unix(0, 0)
	s.PressKey("x", now)
	s.PressKey("x", now)
	if s.Next(now).Wireframe {
		t.Error("two presses in one frame should cancel")
	}
}
