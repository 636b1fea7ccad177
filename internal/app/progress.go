package app

import "math"

// Percent returns the progress percentage after processed of total items.
//
// The value is round(processed/total*100), capped at 99 until the last item
// so that 100 is only ever reported once every item has been processed.
func Percent(processed, total int) int {
	if total <= 0 {
		return 0
	}
	if processed >= total {
		return 100
	}
	if processed <= 0 {
		return 0
	}
	p := int(math.Round(float64(processed) / float64(total) * 100))
	if p > 99 {
		p = 99
	}
	return p
}
