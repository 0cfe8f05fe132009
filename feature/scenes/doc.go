// Package scenes implements the scene feature: named element trees that are
// updated by joining data records against their elements.
//
// A join is computed by core/join over a core/scene tree. Records that have
// no element enter (an element is created), records that match an element
// update it, and elements no record claims exit (they are removed). Mapped
// attributes and text are then copied from each record to its element.
//
// # Components
//
//   - Store: persistence. Repository uses the scenes and scene_elements
//     tables; MemoryStore is used when no database is configured.
//   - Scheduler: runs joins one at a time per scene and, while a join runs,
//     keeps only the newest waiting request.
//   - Service: loads scenes through a TTL cache, runs joins on a copy, saves
//     the result, and records metrics, traces and logs.
//   - Handler: HTTP endpoints.
//
// # HTTP Endpoints
//
//   - GET /scenes : List scenes.
//   - GET /scenes/:name : Get a scene tree.
//   - POST /scenes/:name/join : Join records into a scene.
//   - POST /scenes/:name/export : Export the scene to object storage.
//   - DELETE /scenes/:name : Delete a scene.
package scenes
