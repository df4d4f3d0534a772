package bake

import (
	"fmt"
	"math"

	"github.com/mmr-tortoise/animstack/internal/model"
	"github.com/mmr-tortoise/animstack/internal/scene"
)

const (
	// bakeRotationX is the corrective rotation applied around the X axis,
	// in radians. The scene data is reoriented by −90° and the object
	// rotation compensated by +90°, so downstream engines read the asset
	// with a net +90° X convention. The visible effect on an object's
	// transform is this +90° X offset.
	bakeRotationX = math.Pi / 2

	// snapTolerance is the threshold under which a rotation component is
	// snapped to exactly zero after composing the corrective rotation,
	// cleaning up floating-point residue from the compose.
	snapTolerance = 1e-6
)

// Manager orchestrates the scoped scene-wide transform correction.
//
// Begin captures a snapshot of every affected root object, applies the
// corrective rotation, and returns a Scope whose Release restores every
// touched transform in reverse capture order. Release runs on every exit
// path — success, failure or cancellation — so the scene is never left
// half-baked.
type Manager struct{}

// NewManager creates a new bake Manager.
//
// The struct is currently stateless but exists as a receiver so a custom
// corrective rotation or logging hook can be added without breaking callers.
func NewManager() *Manager {
	return &Manager{}
}

// Scope is the scoped resource returned by Begin. It owns the snapshots of
// every baked object and guarantees their restoration.
type Scope struct {
	snapshots []*Snapshot
	released  bool
}

// Release restores every captured snapshot in reverse of capture order and
// makes the scope inert. A second Release is a no-op.
func (s *Scope) Release() {
	if s.released {
		return
	}
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		s.snapshots[i].Restore()
	}
	s.released = true
}

// Released reports whether the scope has already been released.
func (s *Scope) Released() bool {
	return s.released
}

// Count returns the number of objects the scope captured.
func (s *Scope) Count() int {
	return len(s.snapshots)
}

// Begin applies the corrective rotation to the bakeable roots of the given
// object set and returns the scope that undoes it.
//
// Preconditions: the axis convention must be the single supported one
// (forward −Z, up +Y). Under any other convention Begin is a no-op and
// returns an empty, already-inert scope — the feature silently disables
// rather than failing the export.
//
// Only root objects are touched; children inherit the correction through
// the parent relation. Non-bakeable kinds (lights, cameras) are skipped.
//
// If applying the correction to one object fails, every already-captured
// snapshot — including the failing object's own, taken before mutation —
// is restored before the error propagates. Nothing is left half-baked.
func (m *Manager) Begin(objects []*scene.Object, axes model.AxisConfig) (*Scope, error) {
	if !axes.BakeSupported() {
		return &Scope{}, nil
	}

	sc := &Scope{}
	for _, obj := range objects {
		if obj == nil {
			err := model.NewCLIError(model.ExitBakeFailed, "cannot bake nil object")
			sc.Release()
			return nil, err
		}
		if !obj.IsRoot() || !obj.Kind.Bakeable() {
			continue
		}

		// Capture before any mutation so a failed apply can still be
		// reverted together with everything captured earlier.
		sc.snapshots = append(sc.snapshots, Capture(obj))

		if err := applyCorrective(obj); err != nil {
			sc.Release()
			return nil, model.WrapCLIError(model.ExitBakeFailed, "transform bake failed", err)
		}
	}
	return sc, nil
}

// applyCorrective composes the corrective rotation into the object's
// current transform and writes it back.
func applyCorrective(obj *scene.Object) error {
	tf := obj.Transform
	for _, v := range []float64{
		tf.Translation.X(), tf.Translation.Y(), tf.Translation.Z(),
		tf.Rotation.X(), tf.Rotation.Y(), tf.Rotation.Z(),
		tf.Scale.X(), tf.Scale.Y(), tf.Scale.Z(),
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("object %q has a non-finite transform", obj.ID)
		}
	}

	rot := tf.Rotation
	rot[0] += bakeRotationX
	for i := range rot {
		if math.Abs(rot[i]) < snapTolerance {
			rot[i] = 0
		}
	}
	obj.Transform.Rotation = rot
	return nil
}
