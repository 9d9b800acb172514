package math3d

import "math"

// TrigSize is the number of entries in the sine table: one full period
// mapped onto a 16-bit angle.
const TrigSize = 1 << 16

const (
	trigMask = TrigSize - 1
	// trigScale converts radians to table steps: 2π maps to TrigSize.
	trigScale = TrigSize / 2 / math.Pi
	// trigQuarter is the index offset of a quarter period, cos(a) = sin(a + π/2).
	trigQuarter = TrigSize / 4
)

// TrigStep is the angular resolution of the table in radians.
const TrigStep = 2 * math.Pi / TrigSize

var sineTable = buildSineTable()

func buildSineTable() *[TrigSize]float64 {
	var t [TrigSize]float64
	for i := range t {
		t[i] = math.Sin(float64(i) * TrigStep)
	}
	return &t
}

// TrigIndex maps an angle in radians to its 16-bit table index.
// Angles outside [0, 2π) wrap through the mask.
func TrigIndex(angle float64) int {
	return int(int64(math.Floor(angle*trigScale)) & trigMask)
}

// Sin returns the table sine of angle.
func Sin(angle float64) float64 {
	return sineTable[TrigIndex(angle)]
}

// Cos returns the table cosine of angle.
func Cos(angle float64) float64 {
	return sineTable[(TrigIndex(angle)+trigQuarter)&trigMask]
}

// SinCos returns both the sine and cosine of angle with one index lookup.
func SinCos(angle float64) (sin, cos float64) {
	i := TrigIndex(angle)
	return sineTable[i], sineTable[(i+trigQuarter)&trigMask]
}
