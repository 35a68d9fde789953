package domain

import "fmt"

// Status is the closed lifecycle enum for a pin's backing entity.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// statusColors maps each status 1:1 to its fixed display color.
var statusColors = map[Status]string{
	StatusOpen:       "#E53935",
	StatusInProgress: "#FB8C00",
	StatusResolved:   "#43A047",
	StatusClosed:     "#757575",
}

// Color returns the fixed hex display color for the status.
// Unknown values fall back to the closed color rather than panicking.
func (s Status) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return statusColors[StatusClosed]
}

// Valid reports whether s is a member of the closed enum.
func (s Status) Valid() bool {
	_, ok := statusColors[s]
	return ok
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}
