package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/galhadida80/planpin/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// LegendMarkdown builds a markdown summary of the overlay: the status color
// legend plus a per-group breakdown. Rendered through NewRenderer for the
// terminal view. totalPins counts every loaded pin; pins whose status is
// still unresolved carry no marker and are reported as pending.
func LegendMarkdown(groups []domain.Group, totalPins int) string {
	var b strings.Builder

	b.WriteString("# Floorplan Overlay\n\n")
	b.WriteString("## Legend\n\n")
	b.WriteString("| Status | Color |\n|---|---|\n")
	for _, st := range []domain.Status{
		domain.StatusOpen,
		domain.StatusInProgress,
		domain.StatusResolved,
		domain.StatusClosed,
	} {
		fmt.Fprintf(&b, "| %s | `%s` |\n", st, st.Color())
	}

	b.WriteString("\n## Markers\n\n")
	if len(groups) == 0 {
		b.WriteString("_No markers. Statuses may still be resolving._\n")
		return b.String()
	}

	shown := 0
	for _, g := range groups {
		shown += g.Size()
		if g.IsCluster() {
			fmt.Fprintf(&b, "- **cluster of %d** at (%.2f, %.2f), status %s\n",
				g.Size(), g.CentroidX, g.CentroidY, g.RepresentativeStatus)
			for _, m := range g.Members {
				fmt.Fprintf(&b, "  - %s (%s %s): %s\n", m.ID, m.EntityType, m.EntityID, m.Status)
			}
		} else {
			anchor := g.Anchor()
			fmt.Fprintf(&b, "- **%s** (%s %s) at (%.2f, %.2f): %s\n",
				anchor.ID, anchor.EntityType, anchor.EntityID, g.CentroidX, g.CentroidY, anchor.Status)
		}
	}

	if pending := totalPins - shown; pending > 0 {
		fmt.Fprintf(&b, "\n%d pin(s) pending status resolution.\n", pending)
	}
	return b.String()
}
