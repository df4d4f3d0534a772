package export

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/animstack/internal/anim"
	"github.com/mmr-tortoise/animstack/internal/bake"
	"github.com/mmr-tortoise/animstack/internal/model"
	"github.com/mmr-tortoise/animstack/internal/scene"
)

// recordingSerializer captures what the serializer observes at call time,
// so tests can assert it saw the baked pose and was called exactly once.
type recordingSerializer struct {
	calls     int
	rootRotX  float64
	stackSeen []string
	err       error
}

func (s *recordingSerializer) Serialize(sc *scene.Scene, stacks []*model.AnimStack) error {
	s.calls++
	s.rootRotX = sc.Objects[0].Transform.Rotation.X()
	for _, st := range stacks {
		s.stackSeen = append(s.stackSeen, st.Name)
	}
	return s.err
}

// sessionScene builds a scene with one bakeable root and one action.
func sessionScene(t *testing.T) *scene.Scene {
	t.Helper()
	sc, err := scene.NewScene("Demo",
		[]*scene.Object{{
			ID:        "hero",
			Name:      "Hero",
			Kind:      scene.KindMesh,
			Transform: scene.IdentityTransform(),
		}},
		[]*model.Action{{
			Name: "Walk",
			Channels: []model.CurveChannel{{
				TargetID:     "hero",
				PropertyPath: "location",
				Keys:         []model.Keyframe{{Frame: 1}, {Frame: 40}},
			}},
		}},
	)
	require.NoError(t, err)
	sc.FrameStart = 1
	sc.FrameEnd = 250
	return sc
}

// newSession wires a session around the given serializer.
func newSession(serializer Serializer) *Session {
	return NewSession(bake.NewManager(), anim.NewAssembler(anim.NewChecker(), nil), serializer)
}

// baseSelection is a bake-enabled selection exporting the Walk action.
func baseSelection() model.ExportSelection {
	return model.ExportSelection{
		NameFormat:      model.NameFormatAction,
		SelectedActions: []string{"Walk"},
		BakeTransform:   true,
		Axes:            model.DefaultAxisConfig(),
	}
}

// TestRun_SerializerSeesBakedPose verifies the ordering guarantee: the bake
// fully applies before the serializer is invoked, and the revert runs after
// it returns.
func TestRun_SerializerSeesBakedPose(t *testing.T) {
	sc := sessionScene(t)
	ser := &recordingSerializer{}

	result, err := newSession(ser).Run(context.Background(), sc, baseSelection())
	require.NoError(t, err)

	assert.Equal(t, 1, ser.calls, "serializer is invoked exactly once")
	assert.InDelta(t, math.Pi/2, ser.rootRotX, 1e-12, "serializer observes the corrected pose")
	assert.Equal(t, []string{"Walk"}, ser.stackSeen)

	// After Run returns the scene is restored.
	assert.Equal(t, mgl64.Vec3{}, sc.Objects[0].Transform.Rotation)
	assert.Equal(t, 1, result.BakedObjects)
	assert.False(t, result.BakeDisabled)
}

// TestRun_SerializerFailureStillReverts verifies the revert-on-failure
// guarantee: the opaque serializer error propagates unchanged, and the
// scene is restored first.
func TestRun_SerializerFailureStillReverts(t *testing.T) {
	sc := sessionScene(t)
	sentinel := errors.New("sink exploded")
	ser := &recordingSerializer{err: sentinel}

	_, err := newSession(ser).Run(context.Background(), sc, baseSelection())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel), "serializer failure propagates unchanged")

	assert.Equal(t, mgl64.Vec3{}, sc.Objects[0].Transform.Rotation, "revert runs before the error reaches the caller")
}

// TestRun_CancellationReverts verifies a cancelled export never reaches the
// serializer but still restores the scene.
func TestRun_CancellationReverts(t *testing.T) {
	sc := sessionScene(t)
	ser := &recordingSerializer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSession(ser).Run(ctx, sc, baseSelection())
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitUserCancelled, cliErr.Code)

	assert.Equal(t, 0, ser.calls, "serializer is never invoked after cancellation")
	assert.Equal(t, mgl64.Vec3{}, sc.Objects[0].Transform.Rotation)
}

// TestRun_AxisGatingDisablesBake verifies an unsupported convention exports
// unbaked and flags the silent disable.
func TestRun_AxisGatingDisablesBake(t *testing.T) {
	sc := sessionScene(t)
	ser := &recordingSerializer{}

	sel := baseSelection()
	sel.Axes = model.AxisConfig{Forward: model.AxisZ, Up: model.AxisY}

	result, err := newSession(ser).Run(context.Background(), sc, sel)
	require.NoError(t, err)

	assert.Equal(t, 1, ser.calls)
	assert.Equal(t, 0.0, ser.rootRotX, "serializer observes the unbaked pose")
	assert.Equal(t, 0, result.BakedObjects)
	assert.True(t, result.BakeDisabled)
}

// TestRun_NoBakeRequested verifies the bake-disabled branch.
func TestRun_NoBakeRequested(t *testing.T) {
	sc := sessionScene(t)
	ser := &recordingSerializer{}

	sel := baseSelection()
	sel.BakeTransform = false

	result, err := newSession(ser).Run(context.Background(), sc, sel)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ser.rootRotX)
	assert.Equal(t, 0, result.BakedObjects)
	assert.False(t, result.BakeDisabled)
}

// TestRun_WarningsSurface verifies non-fatal per-action problems reach the
// result without failing the export.
func TestRun_WarningsSurface(t *testing.T) {
	sc := sessionScene(t)
	ser := &recordingSerializer{}

	sel := baseSelection()
	sel.SelectedActions = []string{"Walk", "Missing"}

	result, err := newSession(ser).Run(context.Background(), sc, sel)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Missing", result.Warnings[0].ActionName)
	assert.Equal(t, []string{"Walk"}, ser.stackSeen)
}
