package domain

// PointerEvent is a primary pointer-down on the rendering surface, in surface
// pixel coordinates.
type PointerEvent struct {
	X float64
	Y float64
}

// NormalizedPoint is a position expressed as fractions of the background
// image's own width and height, independent of zoom or pan.
type NormalizedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
