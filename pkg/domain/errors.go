package domain

import "errors"

// ErrImageNotReady is returned while the background image has zero dimensions.
// Callers treat it as a transient precondition, not a failure.
var ErrImageNotReady = errors.New("floorplan image not ready")

// ErrOutsideImage is returned when a pixel cannot be inverse-mapped because it
// lies outside the image placement rectangle.
var ErrOutsideImage = errors.New("pixel outside image rectangle")

// ErrUnsupportedEntityType is returned by status providers for entity types
// outside the supported set.
var ErrUnsupportedEntityType = errors.New("unsupported entity type")

// ErrPinNotFound is returned when a pin ID cannot be found in the current set.
var ErrPinNotFound = errors.New("pin not found")
