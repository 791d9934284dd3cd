package docview

// Placement positions a page inside the raster: page point (x, y) with origin
// at the top-left lands on raster pixel (OffsetX + x*Scale, OffsetY + y*Scale).
type Placement struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Fit scales a pageW×pageH page to fit a bufW×bufH buffer while keeping its
// aspect ratio, centred on both axes.
func Fit(pageW, pageH float64, bufW, bufH int) Placement {
	if pageW <= 0 || pageH <= 0 || bufW <= 0 || bufH <= 0 {
		return Placement{Scale: 1}
	}
	s := min(float64(bufW)/pageW, float64(bufH)/pageH)
	return Placement{
		Scale:   s,
		OffsetX: (float64(bufW) - pageW*s) / 2,
		OffsetY: (float64(bufH) - pageH*s) / 2,
	}
}
