// Package input turns key events into per-frame scene input.
package input

import (
	"fmt"
	"sort"
	"strings"
)

// Action is a named control.
type Action int

const (
	ActionNone Action = iota
	ActionMoveForward
	ActionMoveBack
	ActionMoveRight
	ActionMoveLeft
	ActionMoveUp
	ActionMoveDown
	ActionPitchUp
	ActionPitchDown
	ActionYawLeft
	ActionYawRight
	ActionRollLeft
	ActionRollRight
	ActionToggle1
	ActionToggle2
	ActionToggle3
	ActionToggle4
	ActionToggle5
	ActionToggle6
	ActionToggle7
	ActionToggle8
	ActionToggle9
	ActionWireframe
	ActionStrategy
	ActionScreenshot
	ActionQuit
	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:        "none",
	ActionMoveForward: "move_forward",
	ActionMoveBack:    "move_back",
	ActionMoveRight:   "move_right",
	ActionMoveLeft:    "move_left",
	ActionMoveUp:      "move_up",
	ActionMoveDown:    "move_down",
	ActionPitchUp:     "pitch_up",
	ActionPitchDown:   "pitch_down",
	ActionYawLeft:     "yaw_left",
	ActionYawRight:    "yaw_right",
	ActionRollLeft:    "roll_left",
	ActionRollRight:   "roll_right",
	ActionToggle1:     "toggle_1",
	ActionToggle2:     "toggle_2",
	ActionToggle3:     "toggle_3",
	ActionToggle4:     "toggle_4",
	ActionToggle5:     "toggle_5",
	ActionToggle6:     "toggle_6",
	ActionToggle7:     "toggle_7",
	ActionToggle8:     "toggle_8",
	ActionToggle9:     "toggle_9",
	ActionWireframe:   "wireframe",
	ActionStrategy:    "strategy",
	ActionScreenshot:  "screenshot",
	ActionQuit:        "quit",
}

// String returns the config name of the action.
func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction parses a config name.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name && Action(a) != ActionNone {
			return Action(a), nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// Held reports whether the action acts for as long as its key is down.
// Other actions fire once per press.
func (a Action) Held() bool {
	return a >= ActionMoveForward && a <= ActionRollRight
}

// ToggleIndex returns the body index a toggle action flips.
func (a Action) ToggleIndex() (int, bool) {
	if a < ActionToggle1 || a > ActionToggle9 {
		return 0, false
	}
	return int(a - ActionToggle1), true
}

// DefaultBindings returns the built-in key names per action.
func DefaultBindings() map[Action][]string {
	b := map[Action][]string{
		ActionMoveForward: {"q"},
		ActionMoveBack:    {"e"},
		ActionMoveRight:   {"d"},
		ActionMoveLeft:    {"a"},
		ActionMoveUp:      {"w"},
		ActionMoveDown:    {"s"},
		ActionPitchUp:     {"up"},
		ActionPitchDown:   {"down"},
		ActionYawLeft:     {"left"},
		ActionYawRight:    {"right"},
		ActionRollLeft:    {"o"},
		ActionRollRight:   {"p"},
		ActionWireframe:   {"x"},
		ActionStrategy:    {"m"},
		ActionScreenshot:  {"f2"},
		ActionQuit:        {"\\", "esc", "ctrl+c"},
	}
	for i := range 9 {
		b[ActionToggle1+Action(i)] = []string{fmt.Sprint(i + 1)}
	}
	return b
}

// Keymap resolves key names to actions.
type Keymap struct {
	keys     map[string]Action
	bindings map[Action][]string
}

// NewKeymap builds a keymap from the defaults with per-action overrides.
// An override replaces every default key of its action and takes its keys
// away from other default actions.
func NewKeymap(overrides map[string][]string) (*Keymap, error) {
	k := &Keymap{keys: make(map[string]Action), bindings: make(map[Action][]string)}

	explicit := make(map[Action][]string, len(overrides))
	for name, keys := range overrides {
		a, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		explicit[a] = keys
	}
	for _, a := range sortedActions(explicit) {
		for _, key := range explicit[a] {
			key = normalizeKey(key)
			if prev, ok := k.keys[key]; ok && prev != a {
				return nil, fmt.Errorf("key %q bound to both %s and %s", key, prev, a)
			}
			k.bind(key, a)
		}
	}

	defaults := DefaultBindings()
	for _, a := range sortedActions(defaults) {
		if _, ok := explicit[a]; ok {
			continue
		}
		for _, key := range defaults[a] {
			if _, taken := k.keys[key]; !taken {
				k.bind(key, a)
			}
		}
	}
	return k, nil
}

func (k *Keymap) bind(key string, a Action) {
	k.keys[key] = a
	k.bindings[a] = append(k.bindings[a], key)
}

func sortedActions(m map[Action][]string) []Action {
	actions := make([]Action, 0, len(m))
	for a := range m {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// Lookup returns the action bound to a key name.
func (k *Keymap) Lookup(key string) Action {
	return k.keys[normalizeKey(key)]
}

// Keys returns the key names bound to an action.
func (k *Keymap) Keys(a Action) []string {
	return k.bindings[a]
}

// Match returns the first action whose keys satisfy match. Terminal key
// events pass their MatchString method.
func (k *Keymap) Match(match func(keys ...string) bool) Action {
	for a := ActionNone + 1; a < actionCount; a++ {
		if keys := k.bindings[a]; len(keys) > 0 && match(keys...) {
			return a
		}
	}
	return ActionNone
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "escape" {
		return "esc"
	}
	return key
}
