package inventory

import "math"

// Round2 redondea a 2 decimales (mitad hacia arriba).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
