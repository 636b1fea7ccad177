package compositor

import "math"

// Placement is where a scaled source lands on the target canvas.
type Placement struct {
	// Scale is the uniform factor applied to both source dimensions.
	Scale float64

	// Width and Height are the scaled source dimensions.
	Width  int
	Height int

	// OffsetX and OffsetY are the top-left corner of the scaled source on the canvas.
	OffsetX int
	OffsetY int
}

// Fit computes the letterbox placement of a srcW x srcH image on a dstW x dstH
// canvas. The scale is min(dstW/srcW, dstH/srcH), so the image always fits
// without distortion or cropping. Scaled dimensions are rounded half to even
// and never drop below one pixel. Offsets use floor division.
func Fit(srcW, srcH, dstW, dstH int) Placement {
	scale := math.Min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))

	w := clampDim(math.RoundToEven(float64(srcW)*scale), dstW)
	h := clampDim(math.RoundToEven(float64(srcH)*scale), dstH)

	return Placement{
		Scale:   scale,
		Width:   w,
		Height:  h,
		OffsetX: (dstW - w) / 2,
		OffsetY: (dstH - h) / 2,
	}
}

// clampDim keeps a rounded dimension within [1, limit].
func clampDim(v float64, limit int) int {
	n := int(v)
	if n > limit {
		n = limit
	}
	if n < 1 {
		n = 1
	}
	return n
}
