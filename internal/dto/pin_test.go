package dto

import (
	"errors"
	"testing"

	"github.com/galhadida80/planpin/pkg/domain"
)

func TestFromArgs(t *testing.T) {
	args := map[string]any{
		"id":          "p1",
		"entity_type": "defect",
		"entity_id":   "D-100",
		"x":           "0.25",
		"y":           0.5,
	}

	doc, err := FromArgs(args)
	if err != nil {
		t.Fatalf("FromArgs failed: %v", err)
	}
	if doc.ID != "p1" || doc.X != 0.25 || doc.Y != 0.5 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestToDomain(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		doc := PinDocument{ID: "p1", EntityType: "safety_issue", EntityID: "S-7", X: 0.1, Y: 0.9}
		pin, err := doc.ToDomain()
		if err != nil {
			t.Fatalf("ToDomain failed: %v", err)
		}
		if pin.EntityType != domain.EntitySafetyIssue {
			t.Errorf("entity type = %q", pin.EntityType)
		}
	})

	t.Run("unknown entity type", func(t *testing.T) {
		doc := PinDocument{ID: "p1", EntityType: "rfi", X: 0.5, Y: 0.5}
		if _, err := doc.ToDomain(); !errors.Is(err, domain.ErrUnsupportedEntityType) {
			t.Errorf("expected ErrUnsupportedEntityType, got %v", err)
		}
	})

	t.Run("position out of range", func(t *testing.T) {
		doc := PinDocument{ID: "p1", EntityType: "defect", X: 1.2, Y: 0.5}
		if _, err := doc.ToDomain(); err == nil {
			t.Error("expected error for out of range position")
		}
	})

	t.Run("missing id", func(t *testing.T) {
		doc := PinDocument{EntityType: "defect", X: 0.5, Y: 0.5}
		if _, err := doc.ToDomain(); err == nil {
			t.Error("expected error for missing id")
		}
	})
}
