// Package fbx emits ASCII FBX documents.
//
// The writer is the exporter's serialization sink: it receives the
// finalized object set and the assembled animation stack sequence and
// writes document scaffolding, model transform records and animation
// stack/layer/curve records. Geometry and materials are out of scope.
//
// The export session treats this package as an opaque serializer behind an
// interface; its success or failure is propagated, never interpreted.
package fbx
