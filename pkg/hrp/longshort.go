package hrp

// adjustLongShort rescales raw sum-to-1 weights into a long/short portfolio:
// assets with side -1 are scaled so their weights sum to -0.5, assets with
// side +1 (the default for missing entries) so theirs sum to +0.5.
//
// If either side is empty the adjustment is a no-op and the raw weights are
// returned unchanged; the empty side's zero sum is never used as a divisor.
func adjustLongShort(weights map[string]float64, sides map[string]float64) map[string]float64 {
	sumLong, sumShort := 0.0, 0.0
	for name, w := range weights {
		if sides[name] < 0 {
			sumShort += w
		} else {
			sumLong += w
		}
	}

	if sumShort <= 0 || sumLong <= 0 {
		return weights
	}

	adjusted := make(map[string]float64, len(weights))
	for name, w := range weights {
		if sides[name] < 0 {
			adjusted[name] = -0.5 * w / sumShort
		} else {
			adjusted[name] = 0.5 * w / sumLong
		}
	}
	return adjusted
}
