package domain

// Group is the transient output of one clustering pass: either a singleton
// wrapping a lone pin, or a cluster of two or more pins rendered as one marker.
// Groups are recomputed wholesale on every render pass and never persisted.
type Group struct {
	// Members holds the pins in this group, in the order the scan collected
	// them. A singleton has exactly one member.
	Members []PinWithStatus

	// CentroidX/CentroidY are the arithmetic mean of the members' normalized
	// coordinates. For a singleton they equal the pin's own position.
	CentroidX float64
	CentroidY float64

	// RepresentativeStatus colors the marker. For clusters this is the status
	// of the anchor pin whose scan discovered the group, not a majority vote.
	RepresentativeStatus Status
}

// IsCluster reports whether the group holds more than one pin.
func (g Group) IsCluster() bool {
	return len(g.Members) > 1
}

// Anchor returns the pin that represents the group outward: the lone member
// for a singleton, the first collected member for a cluster.
func (g Group) Anchor() PinWithStatus {
	return g.Members[0]
}

// Size returns the member count.
func (g Group) Size() int {
	return len(g.Members)
}
