// Package bake implements the scoped transform correction applied around
// an export.
//
// The bake temporarily reorients the exported roots so the serialized
// coordinate convention matches what game engines expect, and guarantees
// the original transforms come back regardless of export outcome. The
// guarantee is carried by a scope-guard value (Scope) rather than by caller
// discipline: whoever opens the bake defers Release once and every exit
// path — success, serializer failure, cancellation — restores the scene.
//
// The correction only runs under the single supported axis convention
// (forward −Z, up +Y); any other convention turns Begin into a no-op.
package bake
