package bake

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mmr-tortoise/animstack/internal/scene"
)

// Snapshot captures one object's transform fields at bake start so they can
// be written back verbatim when the bake scope closes.
//
// Exactly one snapshot exists per baked object. A snapshot is consumed by
// Restore and becomes inert afterwards: restoring twice is a no-op on the
// second call, which tolerates double-revert in nested failure paths.
type Snapshot struct {
	obj         *scene.Object
	translation mgl64.Vec3
	rotation    mgl64.Vec3
	scale       mgl64.Vec3
	restored    bool
}

// Capture reads the object's translation, rotation and scale into an
// immutable snapshot. It has no side effects; the object is not mutated.
func Capture(obj *scene.Object) *Snapshot {
	return &Snapshot{
		obj:         obj,
		translation: obj.Transform.Translation,
		rotation:    obj.Transform.Rotation,
		scale:       obj.Transform.Scale,
	}
}

// Restore writes the captured transform fields back onto the originating
// object, overwriting any value set during the bake window. It is
// idempotent: the second and later calls do nothing.
func (s *Snapshot) Restore() {
	if s.restored {
		return
	}
	s.obj.Transform.Translation = s.translation
	s.obj.Transform.Rotation = s.rotation
	s.obj.Transform.Scale = s.scale
	s.restored = true
}

// Object returns the object this snapshot belongs to.
func (s *Snapshot) Object() *scene.Object {
	return s.obj
}

// Restored reports whether the snapshot has already been applied back.
func (s *Snapshot) Restored() bool {
	return s.restored
}
