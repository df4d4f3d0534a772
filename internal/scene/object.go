package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mmr-tortoise/animstack/internal/model"
)

// ObjectKind classifies a scene object. The kind decides whether the
// transform bake applies to the object.
type ObjectKind string

const (
	KindMesh     ObjectKind = "mesh"
	KindCurve    ObjectKind = "curve"
	KindSurface  ObjectKind = "surface"
	KindMeta     ObjectKind = "meta"
	KindFont     ObjectKind = "font"
	KindArmature ObjectKind = "armature"
	KindEmpty    ObjectKind = "empty"
	KindLight    ObjectKind = "light"
	KindCamera   ObjectKind = "camera"
)

// String returns the string representation of ObjectKind.
func (k ObjectKind) String() string {
	return string(k)
}

// IsValid checks whether the ObjectKind value is one of the known kinds.
func (k ObjectKind) IsValid() bool {
	switch k {
	case KindMesh, KindCurve, KindSurface, KindMeta, KindFont, KindArmature, KindEmpty, KindLight, KindCamera:
		return true
	default:
		return false
	}
}

// Bakeable reports whether the corrective transform bake applies to this
// kind. Lights and cameras keep their authored orientation; everything
// else participates in the bake.
func (k ObjectKind) Bakeable() bool {
	switch k {
	case KindMesh, KindCurve, KindSurface, KindMeta, KindFont, KindArmature, KindEmpty:
		return true
	default:
		return false
	}
}

// Transform is a composed affine value: translation, XYZ euler rotation in
// radians, and per-axis scale. It is the unit the bake snapshots capture
// and restore.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Vec3
	Scale       mgl64.Vec3
}

// IdentityTransform returns a transform with zero translation and rotation
// and unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// Matrix composes the transform into a single affine matrix, applying
// scale, then XYZ euler rotation, then translation.
func (t Transform) Matrix() mgl64.Mat4 {
	m := mgl64.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	m = m.Mul4(mgl64.HomogRotate3DZ(t.Rotation.Z()))
	m = m.Mul4(mgl64.HomogRotate3DY(t.Rotation.Y()))
	m = m.Mul4(mgl64.HomogRotate3DX(t.Rotation.X()))
	return m.Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Quat returns the rotation part as a quaternion (XYZ euler order).
func (t Transform) Quat() mgl64.Quat {
	return mgl64.AnglesToQuat(t.Rotation.Z(), t.Rotation.Y(), t.Rotation.X(), mgl64.ZYX)
}

// Object is one node of the exported scene graph.
//
// The Parent pointer is a weak reference: objects do not own their parents
// and the scene is responsible for keeping the graph alive. Transform is
// mutated in place during the bake window, which is intentional — the
// serializer must observe the corrected pose.
type Object struct {
	// ID is the object's stable identity, unique within one scene.
	ID string

	// Name is the display name, used for "Object|Action" stack naming.
	Name string

	// Kind classifies the object and gates bake participation.
	Kind ObjectKind

	// Parent references the parent object, nil for roots.
	Parent *Object

	// Transform is the object's current local transform.
	Transform Transform

	// BoundPaths lists custom property paths that carry animation curves,
	// beyond the standard transform paths every object resolves.
	BoundPaths []string
}

// IsRoot reports whether the object has no parent.
func (o *Object) IsRoot() bool {
	return o.Parent == nil
}

// HasProperty reports whether a curve channel's property path resolves on
// this object. The standard transform paths always resolve; anything else
// must be listed in BoundPaths.
func (o *Object) HasProperty(path string) bool {
	switch path {
	case "location", "rotation_euler", "rotation_quaternion", "scale":
		return true
	}
	for _, p := range o.BoundPaths {
		if p == path {
			return true
		}
	}
	return false
}

// Scene is the exported object set plus the scene's actions.
// It is read-mostly: only the bake window mutates object transforms.
type Scene struct {
	// Name is the scene's display name, used for the whole-scene
	// fallback stack.
	Name string

	// FrameStart and FrameEnd delimit the scene's playback range.
	FrameStart float64
	FrameEnd   float64

	// Objects holds all scene objects in file order.
	Objects []*Object

	// Actions holds all actions in file order.
	Actions []*model.Action

	byID     map[string]*Object
	byAction map[string]*model.Action
}

// NewScene builds a Scene from objects and actions and indexes them by id
// and name. Duplicate object ids or action names are an error: stable
// identity is the invariant every later lookup relies on.
func NewScene(name string, objects []*Object, actions []*model.Action) (*Scene, error) {
	s := &Scene{
		Name:     name,
		Objects:  objects,
		Actions:  actions,
		byID:     make(map[string]*Object, len(objects)),
		byAction: make(map[string]*model.Action, len(actions)),
	}
	for _, obj := range objects {
		if obj.ID == "" {
			return nil, fmt.Errorf("scene object %q has an empty id", obj.Name)
		}
		if _, dup := s.byID[obj.ID]; dup {
			return nil, fmt.Errorf("duplicate scene object id %q", obj.ID)
		}
		s.byID[obj.ID] = obj
	}
	for _, act := range actions {
		if act.Name == "" {
			return nil, fmt.Errorf("scene action with empty name")
		}
		if _, dup := s.byAction[act.Name]; dup {
			return nil, fmt.Errorf("duplicate action name %q", act.Name)
		}
		s.byAction[act.Name] = act
	}
	return s, nil
}

// Object returns the object with the given id, or nil if absent.
func (s *Scene) Object(id string) *Object {
	return s.byID[id]
}

// Action returns the action with the given name, or nil if absent.
func (s *Scene) Action(name string) *model.Action {
	return s.byAction[name]
}

// Roots returns the parentless objects in file order. The bake applies its
// corrective rotation to roots only; children inherit it.
func (s *Scene) Roots() []*Object {
	var roots []*Object
	for _, obj := range s.Objects {
		if obj.IsRoot() {
			roots = append(roots, obj)
		}
	}
	return roots
}
