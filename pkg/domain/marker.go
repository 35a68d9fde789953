package domain

// ObjectID identifies one drawn object on the rendering surface for the
// lifetime of a single render pass.
type ObjectID string

// Disc describes a filled circle primitive for the surface to draw.
type Disc struct {
	CenterX  float64
	CenterY  float64
	RadiusPx float64
	Color    string
}

// Label describes a short text primitive, centered on a point.
type Label struct {
	CenterX float64
	CenterY float64
	Text    string
	Color   string
}

// Marker binds a drawn disc (and optional count label for clusters) back to
// the group it visualizes. Markers live for exactly one render pass: they are
// created fresh and destroyed wholesale whenever pins, statuses, zoom, or the
// viewport change.
type Marker struct {
	DiscID  ObjectID
	LabelID ObjectID // empty for singletons

	Group Group

	// Hit geometry, in surface pixels.
	CenterX  float64
	CenterY  float64
	RadiusPx float64
}

// Hit reports whether the pixel falls inside the marker's disc.
func (m Marker) Hit(x, y float64) bool {
	dx := x - m.CenterX
	dy := y - m.CenterY
	return dx*dx+dy*dy <= m.RadiusPx*m.RadiusPx
}
