package math3d

import (
	"math"
	"testing"
)

func TestTrigIndex(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		want  int
	}{
		{"zero", 0, 0},
		{"quarter", math.Pi/2 + TrigStep/2, TrigSize / 4},
		{"half", math.Pi + TrigStep/2, TrigSize / 2},
		{"full turn wraps", 2*math.Pi + TrigStep/2, 0},
		{"small negative", -TrigStep / 2, TrigSize - 1},
		{"negative quarter", -math.Pi/2 + TrigStep/2, 3 * TrigSize / 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TrigIndex(tc.angle); got != tc.want {
				t.Errorf("TrigIndex(%v) = %d, want %d", tc.angle, got, tc.want)
			}
		})
	}
}

func TestSinCosAccuracy(t *testing.T) {
	for angle := -10.0; angle < 10; angle += 0.0137 {
		s, c := SinCos(angle)
		if math.Abs(s-math.Sin(angle)) > 2*TrigStep {
			t.Fatalf("Sin(%v) = %v, want %v", angle, s, math.Sin(angle))
		}
		if math.Abs(c-math.Cos(angle)) > 2*TrigStep {
			t.Fatalf("Cos(%v) = %v, want %v", angle, c, math.Cos(angle))
		}
		if s != Sin(angle) || c != Cos(angle) {
			t.Fatalf("SinCos(%v) disagrees with Sin/Cos", angle)
		}
	}
}

func TestSinWrapsAroundFullTurn(t *testing.T) {
	angles := []float64{0, 0.1, 1, math.Pi / 3, math.Pi, 4.5, -0.3, -2.9, 123.456, -77.7}
	for _, a := range angles {
		for k := -3; k <= 3; k++ {
			shifted := a + float64(k)*2*math.Pi
			if d := math.Abs(Sin(a) - Sin(shifted)); d > 2*TrigStep {
				t.Errorf("Sin(%v) and Sin(%v) differ by %v", a, shifted, d)
			}
			if d := math.Abs(Cos(a) - Cos(shifted)); d > 2*TrigStep {
				t.Errorf("Cos(%v) and Cos(%v) differ by %v", a, shifted, d)
			}
		}
	}
}
