package domain

// Viewport is a snapshot of the host surface's zoom and background-image
// placement. It is owned and mutated by the surface; the engine only ever
// reads copies of it, which keeps the clustering pipeline pure.
type Viewport struct {
	Zoom float64 `json:"zoom"`

	SurfaceWidthPx  float64 `json:"surface_width_px"`
	SurfaceHeightPx float64 `json:"surface_height_px"`

	// Placement rectangle of the background image inside the surface.
	ImageOriginX  float64 `json:"image_origin_x"`
	ImageOriginY  float64 `json:"image_origin_y"`
	ImageWidthPx  float64 `json:"image_width_px"`
	ImageHeightPx float64 `json:"image_height_px"`
}

// ImageReady reports whether the background image has usable dimensions.
// Until the image loads, both mapping directions are undefined.
func (v Viewport) ImageReady() bool {
	return v.ImageWidthPx > 0 && v.ImageHeightPx > 0
}

// ContainsPixel reports whether the pixel lies inside the image placement
// rectangle. Points on the far edges are excluded, matching the inverse
// mapping's open upper bound.
func (v Viewport) ContainsPixel(x, y float64) bool {
	return x >= v.ImageOriginX && x < v.ImageOriginX+v.ImageWidthPx &&
		y >= v.ImageOriginY && y < v.ImageOriginY+v.ImageHeightPx
}
