package dto

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/galhadida80/planpin/pkg/domain"
)

// PinDocument is the stored form of a pin. It uses "mapstructure" tags to
// match Frontmatter/YAML keys when loaded from a Loam repository, and "json"
// tags for wire payloads.
type PinDocument struct {
	ID         string  `json:"id" mapstructure:"id"`
	EntityType string  `json:"entity_type" mapstructure:"entity_type"`
	EntityID   string  `json:"entity_id" mapstructure:"entity_id"`
	X          float64 `json:"x" mapstructure:"x"`
	Y          float64 `json:"y" mapstructure:"y"`
	Floorplan  string  `json:"floorplan" mapstructure:"floorplan"`

	// Status is an optional seed status for hosts that have no live status
	// source. The overlay still resolves statuses through its source; this
	// field only primes that source when serving from files.
	Status string `json:"status,omitempty" mapstructure:"status"`
}

// StatusHint parses the optional seed status. Returns false when absent.
func (d PinDocument) StatusHint() (domain.Status, bool, error) {
	if d.Status == "" {
		return "", false, nil
	}
	st, err := domain.ParseStatus(d.Status)
	if err != nil {
		return "", false, fmt.Errorf("pin %s: %w", d.ID, err)
	}
	return st, true, nil
}

// FromArgs decodes a loosely typed argument map (MCP tool calls, frontmatter
// fragments) into a PinDocument.
func FromArgs(args map[string]any) (PinDocument, error) {
	var doc PinDocument
	if err := mapstructure.WeakDecode(args, &doc); err != nil {
		return PinDocument{}, fmt.Errorf("failed to decode pin document: %w", err)
	}
	return doc, nil
}

// ToDomain validates the document and converts it to a domain Pin.
// The stored position must already be normalized to the 0..1 image space.
func (d PinDocument) ToDomain() (domain.Pin, error) {
	if d.ID == "" {
		return domain.Pin{}, fmt.Errorf("pin document missing id")
	}
	switch domain.EntityType(d.EntityType) {
	case domain.EntityDefect, domain.EntitySafetyIssue:
	default:
		return domain.Pin{}, fmt.Errorf("pin %s: %w: %q", d.ID, domain.ErrUnsupportedEntityType, d.EntityType)
	}
	if d.X < 0 || d.X > 1 || d.Y < 0 || d.Y > 1 {
		return domain.Pin{}, fmt.Errorf("pin %s: position (%v, %v) outside normalized range", d.ID, d.X, d.Y)
	}
	return domain.Pin{
		ID:          d.ID,
		EntityType:  domain.EntityType(d.EntityType),
		EntityID:    d.EntityID,
		NormalizedX: d.X,
		NormalizedY: d.Y,
	}, nil
}

// FromDomain converts a domain Pin back into its stored form.
func FromDomain(p domain.Pin, floorplanID string) PinDocument {
	return PinDocument{
		ID:         p.ID,
		EntityType: string(p.EntityType),
		EntityID:   p.EntityID,
		X:          p.NormalizedX,
		Y:          p.NormalizedY,
		Floorplan:  floorplanID,
	}
}
