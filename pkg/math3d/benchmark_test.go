package math3d

import (
	"testing"
)

func BenchmarkSinCos(b *testing.B) {
	angle := 1.234

	for b.Loop() {
		_, _ = SinCos(angle)
	}
}

func BenchmarkRotateXYZ(b *testing.B) {
	p := V3(1, 2, 3)
	rot := V3(0.1, 0.2, 0.3)

	for b.Loop() {
		_ = RotateXYZ(p, rot)
	}
}

func BenchmarkCompose(b *testing.B) {
	parent := Transform{Position: V3(1, 2, 3), Rotation: V3(0.1, 0.2, 0.3), Scale: V3(2, 2, 2)}
	local := Transform{Position: V3(4, 5, 6), Rotation: V3(0.3, 0.2, 0.1), Scale: One3()}

	for b.Loop() {
		_ = Compose(local, parent)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}
