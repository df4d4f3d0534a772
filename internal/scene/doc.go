// Package scene provides the in-memory scene graph the exporter operates on.
//
// Scene descriptions are loaded from JSONC files (JSON with Comments, via
// github.com/tidwall/jsonc) into an indexed Scene value: objects with
// composed affine transforms (github.com/go-gl/mathgl), weak parent links
// and curve-bound property sets, plus the scene's animation clips.
//
// The scene graph is deliberately passed around as an explicit value rather
// than accessed through ambient globals, so the bake/revert contract can be
// exercised against a plain in-memory object set in tests.
package scene
