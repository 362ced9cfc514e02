package graph

import "math"

// PanGains returns the constant-power pan law coefficients:
// L = cos((pan+1)*pi/4), R = sin((pan+1)*pi/4). pan is -1 (hard left) to
// +1 (hard right).
func PanGains(pan float64) (left, right float64) {
	theta := (pan + 1) * math.Pi / 4
	return math.Cos(theta), math.Sin(theta)
}
