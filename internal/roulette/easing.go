package roulette

import "math"

// EaseOutCubic starts fast and settles slowly: f(t) = 1 - (1-t)^3, t clamped to [0, 1].
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	return 1 - math.Pow(1-t, 3)
}
