package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/animstack/internal/model"
)

// sampleScene is a JSONC scene description exercising comments, trailing
// commas, parent references and transform defaults.
const sampleScene = `{
	// demo scene for loader tests
	"name": "Demo",
	"frameStart": 1,
	"frameEnd": 100,
	"objects": [
		{"id": "hero", "name": "Hero", "kind": "mesh", "rotationDeg": [0, 0, 90]},
		{"id": "sword", "kind": "mesh", "parent": "hero", "translation": [0, 1, 0]},
		{"id": "sun", "kind": "light"},
	],
	"actions": [
		{
			"name": "Walk",
			"linkedObject": "hero",
			"channels": [
				{"target": "hero", "path": "location", "index": 1, "keys": [{"frame": 1, "value": 0}, {"frame": 40, "value": 2}]},
			],
		},
	],
}`

// TestParse_Sample verifies JSONC parsing, defaulting, indexing and parent
// resolution on a representative scene file.
func TestParse_Sample(t *testing.T) {
	sc, err := Parse([]byte(sampleScene), "sample.jsonc")
	require.NoError(t, err)

	assert.Equal(t, "Demo", sc.Name)
	assert.Equal(t, 1.0, sc.FrameStart)
	assert.Equal(t, 100.0, sc.FrameEnd)
	require.Len(t, sc.Objects, 3)
	require.Len(t, sc.Actions, 1)

	hero := sc.Object("hero")
	require.NotNil(t, hero)
	assert.Equal(t, "Hero", hero.Name)
	assert.True(t, hero.IsRoot())
	// Rotation is authored in degrees and stored in radians.
	assert.InDelta(t, 1.5707963, hero.Transform.Rotation.Z(), 1e-6)
	// Scale defaults to unit when omitted.
	assert.Equal(t, 1.0, hero.Transform.Scale.X())

	sword := sc.Object("sword")
	require.NotNil(t, sword)
	assert.Equal(t, "sword", sword.Name, "name defaults to id")
	require.NotNil(t, sword.Parent)
	assert.Same(t, hero, sword.Parent)
	assert.False(t, sword.IsRoot())

	walk := sc.Action("Walk")
	require.NotNil(t, walk)
	assert.Equal(t, "hero", walk.LinkedObject)
	require.Len(t, walk.Channels, 1)
	assert.Equal(t, "location[1]", walk.Channels[0].ResolvedPath())
}

// TestParse_Defaults checks scene name, kind and frame range defaults.
func TestParse_Defaults(t *testing.T) {
	sc, err := Parse([]byte(`{"objects": [{"id": "a"}]}`), "min.jsonc")
	require.NoError(t, err)

	assert.Equal(t, "Scene", sc.Name)
	assert.Equal(t, 1.0, sc.FrameStart)
	assert.Equal(t, 250.0, sc.FrameEnd)
	assert.Equal(t, KindEmpty, sc.Object("a").Kind)
}

// TestParse_Errors verifies the loader rejects malformed scenes with
// the scene-not-found exit code.
func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty object id", `{"objects": [{"id": ""}]}`},
		{"duplicate object id", `{"objects": [{"id": "a"}, {"id": "a"}]}`},
		{"unknown kind", `{"objects": [{"id": "a", "kind": "volume"}]}`},
		{"unknown parent", `{"objects": [{"id": "a", "parent": "ghost"}]}`},
		{"self parent", `{"objects": [{"id": "a", "parent": "a"}]}`},
		{"duplicate action name", `{"objects": [], "actions": [{"name": "W"}, {"name": "W"}]}`},
		{"inverted frame range", `{"frameStart": 50, "frameEnd": 10, "objects": []}`},
		{"not json", `objects:`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), "bad.jsonc")
			require.Error(t, err)

			var cliErr *model.CLIError
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, model.ExitSceneNotFound, cliErr.Code)
		})
	}
}

// TestLoad_MissingFile verifies the exit code for an absent scene file.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.jsonc"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitSceneNotFound, cliErr.Code)
}

// TestLoad_RoundTrip writes a scene file to disk and loads it back.
func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0o644))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Demo", sc.Name)
}

// TestObject_HasProperty checks standard transform paths and custom bound
// paths.
func TestObject_HasProperty(t *testing.T) {
	obj := &Object{ID: "a", BoundPaths: []string{"energy"}}

	assert.True(t, obj.HasProperty("location"))
	assert.True(t, obj.HasProperty("rotation_euler"))
	assert.True(t, obj.HasProperty("rotation_quaternion"))
	assert.True(t, obj.HasProperty("scale"))
	assert.True(t, obj.HasProperty("energy"))
	assert.False(t, obj.HasProperty("influence"))
}

// TestScene_Roots verifies root filtering preserves file order.
func TestScene_Roots(t *testing.T) {
	a := &Object{ID: "a", Kind: KindMesh}
	b := &Object{ID: "b", Kind: KindMesh, Parent: a}
	c := &Object{ID: "c", Kind: KindEmpty}

	sc, err := NewScene("S", []*Object{a, b, c}, nil)
	require.NoError(t, err)

	roots := sc.Roots()
	require.Len(t, roots, 2)
	assert.Same(t, a, roots[0])
	assert.Same(t, c, roots[1])
}

// TestObjectKind_Bakeable checks the bake participation filter.
func TestObjectKind_Bakeable(t *testing.T) {
	assert.True(t, KindMesh.Bakeable())
	assert.True(t, KindArmature.Bakeable())
	assert.True(t, KindEmpty.Bakeable())
	assert.False(t, KindLight.Bakeable())
	assert.False(t, KindCamera.Bakeable())
}
