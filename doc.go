/*
Package planpin is a floorplan pin overlay engine for construction-management
systems. It plots status-colored markers for arbitrary entities (defects,
safety issues) at normalized positions on a floorplan image, clusters nearby
markers as the viewport zooms out, resolves each marker's live status from an
external source, and routes pointer interactions back into an entity-creation
workflow.

The engine is a pure pipeline over host-owned inputs: the pin list arrives
through SetPins exactly like a changed prop, the viewport arrives through the
surface's event stream, and every relevant change recomputes the full
pins -> statuses -> groups -> markers chain. There is no incremental diffing
and no marker reuse across passes.

# Hexagonal Architecture

The core never talks to a concrete backend. Hosts supply:

  - ports.StatusSource: resolves an entity's live status (e.g., the defects API).
  - ports.Surface: the rendering surface (draw primitives, viewport, event streams).
  - ports.StatusCache (optional): a read-through cache in front of the source.

and receive interactions through callbacks:

  - WithOnPinClick: marker clicked; invoked with the representative pin.
  - WithOnCreateRequest: background clicked inside the image; invoked with the
    normalized position for the entity-creation workflow.

# Usage

	surface := myhost.NewSurface()
	overlay, err := planpin.New(surface, myapi.StatusSource(),
		planpin.WithOnPinClick(func(p domain.Pin) { openDetail(p) }),
		planpin.WithOnCreateRequest(func(pos domain.NormalizedPoint) { openCreateModal(pos) }),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer overlay.Close()

	overlay.Start(ctx)
	overlay.SetPins(ctx, pins) // and again whenever the pin list changes

Failure handling is strictly degrading: a failed status lookup drops its pin
for the pass, an unready image defers rendering, and an out-of-bounds click is
ignored. Nothing inside the engine propagates as a panic or error to the host.
*/
package planpin
