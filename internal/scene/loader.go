package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/animstack/internal/model"
)

// rawScene mirrors the on-disk scene description. Scene files are JSONC
// (JSON with Comments): they are hand-edited interchange snapshots, so
// comments and trailing commas are expected in the wild.
type rawScene struct {
	// Name is the scene's display name. Defaults to "Scene" when omitted.
	Name string `json:"name"`

	// FrameStart and FrameEnd delimit the playback range.
	// They default to 1 and 250 when omitted.
	FrameStart *float64 `json:"frameStart,omitempty"`
	FrameEnd   *float64 `json:"frameEnd,omitempty"`

	// Objects lists the scene objects in file order.
	Objects []rawObject `json:"objects"`

	// Actions lists the animation clips in file order.
	Actions []*model.Action `json:"actions,omitempty"`
}

// rawObject is the on-disk form of one scene object.
type rawObject struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"`

	// Parent is the id of the parent object, empty for roots.
	Parent string `json:"parent,omitempty"`

	// Translation, RotationDeg and Scale are the local transform.
	// Rotation is authored in degrees for readability and converted to
	// radians on load.
	Translation [3]float64 `json:"translation,omitempty"`
	RotationDeg [3]float64 `json:"rotationDeg,omitempty"`
	Scale       *[3]float64 `json:"scale,omitempty"`

	// BoundPaths lists custom animated property paths on this object.
	BoundPaths []string `json:"boundPaths,omitempty"`
}

// Load reads a scene description file, strips JSONC comments, parses it and
// builds the indexed Scene.
//
// Returns a CLIError with ExitSceneNotFound if the file does not exist or
// cannot be parsed, so the CLI layer maps scene problems to a stable exit
// code.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitSceneNotFound,
				fmt.Sprintf("scene file not found: %s", path),
				err,
			)
		}
		return nil, model.WrapCLIError(model.ExitSceneNotFound, "failed to read scene file", err)
	}
	return Parse(data, path)
}

// Parse builds a Scene from raw JSONC bytes. The path parameter is only
// used in error messages.
func Parse(data []byte, path string) (*Scene, error) {
	// Strip JSONC comments (// and /* */) and trailing commas before
	// handing the bytes to encoding/json.
	cleanJSON := jsonc.ToJSON(data)

	var raw rawScene
	if err := json.Unmarshal(cleanJSON, &raw); err != nil {
		return nil, model.WrapCLIError(
			model.ExitSceneNotFound,
			fmt.Sprintf("failed to parse scene file %s", path),
			err,
		)
	}

	name := raw.Name
	if name == "" {
		name = "Scene"
	}

	// First pass: build the objects without parent links so forward
	// references ("parent" declared before the parent object) work.
	objects := make([]*Object, 0, len(raw.Objects))
	for _, ro := range raw.Objects {
		obj, err := buildObject(ro)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitSceneNotFound, "invalid scene object", err)
		}
		objects = append(objects, obj)
	}

	s, err := NewScene(name, objects, raw.Actions)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitSceneNotFound, "invalid scene", err)
	}

	// Second pass: resolve parent references against the id index.
	for i, ro := range raw.Objects {
		if ro.Parent == "" {
			continue
		}
		parent := s.Object(ro.Parent)
		if parent == nil {
			return nil, model.NewCLIError(
				model.ExitSceneNotFound,
				fmt.Sprintf("object %q references unknown parent %q", ro.ID, ro.Parent),
			)
		}
		if parent == objects[i] {
			return nil, model.NewCLIError(
				model.ExitSceneNotFound,
				fmt.Sprintf("object %q is its own parent", ro.ID),
			)
		}
		objects[i].Parent = parent
	}

	s.FrameStart = 1
	s.FrameEnd = 250
	if raw.FrameStart != nil {
		s.FrameStart = *raw.FrameStart
	}
	if raw.FrameEnd != nil {
		s.FrameEnd = *raw.FrameEnd
	}
	if s.FrameEnd < s.FrameStart {
		return nil, model.NewCLIError(
			model.ExitSceneNotFound,
			fmt.Sprintf("scene frame range is inverted (%g > %g)", s.FrameStart, s.FrameEnd),
		)
	}

	return s, nil
}

// buildObject converts one raw object entry into a scene Object,
// validating its kind and defaulting the transform.
func buildObject(ro rawObject) (*Object, error) {
	if ro.ID == "" {
		return nil, fmt.Errorf("object with empty id")
	}

	kind := ObjectKind(ro.Kind)
	if ro.Kind == "" {
		kind = KindEmpty
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("object %q has unknown kind %q", ro.ID, ro.Kind)
	}

	name := ro.Name
	if name == "" {
		name = ro.ID
	}

	tf := IdentityTransform()
	tf.Translation = mgl64.Vec3{ro.Translation[0], ro.Translation[1], ro.Translation[2]}
	tf.Rotation = mgl64.Vec3{
		mgl64.DegToRad(ro.RotationDeg[0]),
		mgl64.DegToRad(ro.RotationDeg[1]),
		mgl64.DegToRad(ro.RotationDeg[2]),
	}
	if ro.Scale != nil {
		tf.Scale = mgl64.Vec3{ro.Scale[0], ro.Scale[1], ro.Scale[2]}
	}

	return &Object{
		ID:         ro.ID,
		Name:       name,
		Kind:       kind,
		Transform:  tf,
		BoundPaths: ro.BoundPaths,
	}, nil
}
