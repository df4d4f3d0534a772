package export

import (
	"context"

	"github.com/mmr-tortoise/animstack/internal/anim"
	"github.com/mmr-tortoise/animstack/internal/bake"
	"github.com/mmr-tortoise/animstack/internal/model"
	"github.com/mmr-tortoise/animstack/internal/scene"
)

// Serializer is the opaque sink that receives the finalized object set and
// animation stack sequence. It is invoked exactly once per export and never
// retried; its success or failure is propagated, not interpreted.
type Serializer interface {
	Serialize(sc *scene.Scene, stacks []*model.AnimStack) error
}

// Result reports what one export produced.
type Result struct {
	// Stacks is the assembled sequence, in the order it was serialized.
	Stacks []*model.AnimStack

	// Warnings lists the non-fatal per-action problems (incompatible or
	// unknown actions) encountered during assembly.
	Warnings []model.Warning

	// BakedObjects is the number of objects the transform bake touched.
	// Zero when the bake was not requested or was disabled by axis gating.
	BakedObjects int

	// BakeDisabled is true when the bake was requested but silently
	// disabled because the axis convention is unsupported.
	BakeDisabled bool
}

// Session is the top-level export coordinator. It runs the bake, delegates
// to the assembler and the serializer, and guarantees the bake is reverted
// on every exit path.
//
// Session is the only component permitted to call the serializer.
type Session struct {
	bake       *bake.Manager
	assembler  *anim.Assembler
	serializer Serializer
}

// NewSession wires the pipeline together.
func NewSession(bakeMgr *bake.Manager, assembler *anim.Assembler, serializer Serializer) *Session {
	return &Session{bake: bakeMgr, assembler: assembler, serializer: serializer}
}

// Run executes one export: open the bake scope (if requested), assemble the
// stack list, hand scene and stacks to the serializer, then release the
// scope unconditionally.
//
// The scope release is deferred immediately after Begin succeeds, so the
// scene's transforms are restored whether serialization succeeds, fails or
// the context is cancelled. A bake apply failure has already restored the
// partially captured snapshots inside Begin before the error reaches here.
func (s *Session) Run(ctx context.Context, sc *scene.Scene, sel model.ExportSelection) (*Result, error) {
	result := &Result{}

	if sel.BakeTransform {
		scope, err := s.bake.Begin(sc.Objects, sel.Axes)
		if err != nil {
			return nil, err
		}
		defer scope.Release()

		result.BakedObjects = scope.Count()
		result.BakeDisabled = !sel.Axes.BakeSupported()
	}

	result.Stacks, result.Warnings = s.assembler.Assemble(sc, sel)

	// Cancellation is a one-shot abort: the deferred release above still
	// restores the scene before control returns to the caller.
	if err := ctx.Err(); err != nil {
		return nil, model.WrapCLIError(model.ExitUserCancelled, "export cancelled", err)
	}

	if err := s.serializer.Serialize(sc, result.Stacks); err != nil {
		return nil, err
	}
	return result, nil
}
