/*
Package ports defines the driven ports (interfaces) for the planpin overlay engine.

These interfaces decouple the core pipeline from external implementations, allowing
the engine to work with various status backends, rendering surfaces, and pin sources.

# Key Interfaces

  - StatusSource: Resolves the live status of one backing entity (e.g., the defects API).
  - Surface: The host rendering surface (draw primitives, viewport, event streams).
  - StatusCache: Optional read-through cache in front of a StatusSource.
  - PinRepository: Loads the pin list for a floorplan (e.g., from Loam or Memory).
*/
package ports
