package http

import (
	"github.com/google/uuid"

	"github.com/galhadida80/planpin/pkg/domain"
)

// GeoJSON types for the normalized-coordinate export. Coordinates are the
// pin's fractions of the floorplan image, not geographic degrees.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func toFeatureCollection(groups []domain.Group) FeatureCollection {
	features := make([]Feature, len(groups))
	for i, g := range groups {
		properties := map[string]any{
			"cluster":     g.IsCluster(),
			"point_count": g.Size(),
			"status":      string(g.RepresentativeStatus),
			"color":       g.RepresentativeStatus.Color(),
		}
		if g.IsCluster() {
			properties["cluster_id"] = uuid.NewString()
		} else {
			properties["pin_id"] = g.Anchor().ID
			properties["entity_type"] = string(g.Anchor().EntityType)
			properties["entity_id"] = g.Anchor().EntityID
		}

		features[i] = Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{g.CentroidX, g.CentroidY},
			},
			Properties: properties,
		}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
