package math3d

// Transform is a node's placement: position, rotation in radians applied
// X then Y then Z, and a non-uniform scale.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// IdentityTransform returns the transform with zero position and rotation
// and unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: One3()}
}

// At returns an identity transform moved to position p.
func At(p Vec3) Transform {
	return Transform{Position: p, Scale: One3()}
}

// Compose places a local transform inside its parent's final transform and
// returns the node's final transform.
//
// The local position is rotated by the parent's final rotation, scaled by
// the parent's final scale and offset by the parent's final position.
// Rotation accumulates by addition. Scale accumulates by addition of each
// level's offset from unity, so a unit parent scale leaves the local scale
// unchanged.
func Compose(local, parent Transform) Transform {
	p := RotateXYZ(local.Position, parent.Rotation).Mul(parent.Scale).Add(parent.Position)
	return Transform{
		Position: p,
		Rotation: local.Rotation.Add(parent.Rotation),
		Scale:    local.Scale.Add(parent.Scale.Sub(One3())),
	}
}

// Apply maps a model-space point through a final transform the way Compose
// places a child: rotate X→Y→Z, scale, then translate.
func (t Transform) Apply(p Vec3) Vec3 {
	return RotateXYZ(p, t.Rotation).Mul(t.Scale).Add(t.Position)
}

// RotateXYZ rotates p about X, then Y, then Z by the angles in rot using
// the sine table. Each positive angle turns the first of its plane's axes
// toward the second: Y toward Z, X toward Z, X toward Y.
func RotateXYZ(p, rot Vec3) Vec3 {
	if rot.X != 0 {
		s, c := SinCos(rot.X)
		p.Y, p.Z = c*p.Y-s*p.Z, s*p.Y+c*p.Z
	}
	if rot.Y != 0 {
		s, c := SinCos(rot.Y)
		p.X, p.Z = c*p.X-s*p.Z, s*p.X+c*p.Z
	}
	if rot.Z != 0 {
		s, c := SinCos(rot.Z)
		p.X, p.Y = c*p.X-s*p.Y, s*p.X+c*p.Y
	}
	return p
}

// InverseRotateZYX undoes RotateXYZ: it rotates by -rot about Z, then Y,
// then X.
func InverseRotateZYX(p, rot Vec3) Vec3 {
	if rot.Z != 0 {
		s, c := SinCos(-rot.Z)
		p.X, p.Y = c*p.X-s*p.Y, s*p.X+c*p.Y
	}
	if rot.Y != 0 {
		s, c := SinCos(-rot.Y)
		p.X, p.Z = c*p.X-s*p.Z, s*p.X+c*p.Z
	}
	if rot.X != 0 {
		s, c := SinCos(-rot.X)
		p.Y, p.Z = c*p.Y-s*p.Z, s*p.Y+c*p.Z
	}
	return p
}
