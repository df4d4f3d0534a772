// Package export coordinates one export invocation as a single linear
// pipeline: transform bake, stack assembly, serialization, guaranteed
// revert.
//
// The pipeline is single-threaded and synchronous; the only blocking
// boundary is the opaque serializer call, and the only branch point is
// whether the bake was requested. The scoped-resource discipline lives
// here: the bake scope's release is deferred the moment it opens, so no
// caller has to remember sequencing to keep the scene intact.
package export
