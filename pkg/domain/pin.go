package domain

// EntityType identifies the kind of business entity a pin is bound to.
type EntityType string

const (
	EntityDefect      EntityType = "defect"
	EntitySafetyIssue EntityType = "safety_issue"
)

// Pin is a point annotation bound to an external entity, stored as a
// normalized (0..1) position on the floorplan image. Position is fixed at
// creation; moving a pin means creating a new one upstream.
type Pin struct {
	ID          string     `json:"id"`
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	NormalizedX float64    `json:"x"`
	NormalizedY float64    `json:"y"`
}

// PinWithStatus is a Pin joined with its resolved Status. Pins whose status
// could not be resolved never reach this form.
type PinWithStatus struct {
	Pin
	Status Status `json:"status"`
}

// JoinStatuses filters pins down to those present in the status map,
// preserving input order. Pins without an entry are dropped.
func JoinStatuses(pins []Pin, statuses map[string]Status) []PinWithStatus {
	joined := make([]PinWithStatus, 0, len(pins))
	for _, p := range pins {
		st, ok := statuses[p.ID]
		if !ok {
			continue
		}
		joined = append(joined, PinWithStatus{Pin: p, Status: st})
	}
	return joined
}
