package scene

import (
	"go.uber.org/zap"

	"github.com/taigrr/ip2k/pkg/math3d"
)

// Input is one frame of named control deltas, already resolved from
// device events.
type Input struct {
	// Move is the camera velocity in camera-local axes, units per second:
	// +X forward, +Y right, +Z down.
	Move math3d.Vec3
	// Rotate is the focus node's angular velocity in radians per second
	// about X, Y and Z.
	Rotate math3d.Vec3
	// Toggle lists body indices (into Bodies) whose visibility flips.
	Toggle []int
}

// IsZero reports whether the input changes nothing.
func (in Input) IsZero() bool {
	return in.Move == (math3d.Vec3{}) && in.Rotate == (math3d.Vec3{}) && len(in.Toggle) == 0
}

// ApplyInput integrates one frame of input over dt seconds: it moves the
// active camera along its own axes, turns the focus node and flips body
// visibility. Camera movement assumes the camera's parent is unrotated.
// Out-of-range toggles are ignored.
func (e *Environment) ApplyInput(in Input, dt float64) {
	if cam := e.active; cam != nil && in.Move != (math3d.Vec3{}) {
		step := math3d.RotateXYZ(in.Move.Scale(dt), cam.World().Rotation)
		cam.Transform.Position = cam.Transform.Position.Add(step)
	}

	if in.Rotate != (math3d.Vec3{}) {
		if t := e.focusTransform(); t != nil {
			t.Rotation = t.Rotation.Add(in.Rotate.Scale(dt))
		}
	}

	for _, i := range in.Toggle {
		if i >= 0 && i < len(e.bodies) {
			b := e.bodies[i]
			b.Toggle()
			e.Log.Debug("body toggled", zap.String("body", b.Name()), zap.Bool("visible", b.Visible()))
		}
	}
}

// focusTransform returns the local transform turned by rotation input.
func (e *Environment) focusTransform() *math3d.Transform {
	switch n := e.focus.(type) {
	case *Group:
		return &n.Transform
	case *CameraNode:
		return &n.Transform
	case *Body:
		return &n.owner.Transform
	}
	for _, c := range e.Root.children {
		if g, ok := c.(*Group); ok && g.model != nil {
			return &g.Transform
		}
	}
	return nil
}
