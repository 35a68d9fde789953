/*
Package domain contains the core domain models for the planpin overlay engine.

It defines the fundamental entities of the floorplan pin overlay, such as Pins,
Statuses, Groups, and the Viewport. This package is kept pure and free of external
dependencies like I/O or rendering, following Hexagonal Architecture principles.

# Key Entities

  - Pin: A point annotation bound to an external entity, positioned on the floorplan image.
  - Status: The closed lifecycle enum resolved for a pin's backing entity.
  - Group: The transient output of a clustering pass (singleton or cluster).
  - Viewport: The host surface's zoom and image placement snapshot, read-only to the engine.
  - Marker: The description of one drawable overlay object for the current pass.
*/
package domain
