package fbx

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mmr-tortoise/animstack/internal/model"
	"github.com/mmr-tortoise/animstack/internal/scene"
)

const (
	// headerVersion and documentVersion identify the emitted FBX dialect.
	headerVersion   = 1003
	documentVersion = 7400

	// ktimePerSecond is the FBX time unit: 46186158000 KTime ticks per second.
	ktimePerSecond = 46186158000

	// defaultFPS converts scene frames to KTime. The exporter emits at the
	// film-standard 24 frames per second.
	defaultFPS = 24.0
)

// Writer serializes a finalized scene and stack sequence to an ASCII FBX
// document on disk. It is invoked exactly once per export and holds no
// state between exports.
type Writer struct {
	path string
}

// NewWriter creates a Writer that will emit to the given file path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Serialize writes the document. The scene's transforms are read as-is —
// if a bake window is open, the serializer observes the corrected pose,
// which is the point of the bake.
func (w *Writer) Serialize(sc *scene.Scene, stacks []*model.AnimStack) error {
	f, err := os.Create(w.path)
	if err != nil {
		return model.WrapCLIError(model.ExitSerializerFailed, "failed to create output file", err)
	}
	defer func() { _ = f.Close() }()

	if err := Emit(f, sc, stacks); err != nil {
		return model.WrapCLIError(model.ExitSerializerFailed, "failed to write FBX document", err)
	}
	return f.Close()
}

// Emit writes the full ASCII FBX document to an arbitrary writer.
func Emit(w io.Writer, sc *scene.Scene, stacks []*model.AnimStack) error {
	fmt.Fprintln(w, "; FBX project file")
	fmt.Fprintln(w, "; Generator: animstack")
	fmt.Fprintln(w, "; -----------------------------------------------")

	for _, n := range buildDocument(sc, stacks) {
		if err := n.Dump(w, 0); err != nil {
			return err
		}
	}
	return nil
}

// buildDocument assembles the top-level records: header, global settings,
// object models and the animation stacks.
func buildDocument(sc *scene.Scene, stacks []*model.AnimStack) []*Node {
	header := NewNode("FBXHeaderExtension")
	header.AddNew("FBXHeaderVersion", headerVersion)
	header.AddNew("FBXVersion", documentVersion)
	header.AddNew("Creator", "animstack")

	settings := NewNode("GlobalSettings")
	props := settings.AddNew("Properties70")
	props.AddNew("P", "UpAxis", "int", "Integer", "", 1)
	props.AddNew("P", "FrontAxis", "int", "Integer", "", 2)
	props.AddNew("P", "FrontAxisSign", "int", "Integer", "", -1)
	props.AddNew("P", "TimeSpanStart", "KTime", "Time", "", frameToKTime(sc.FrameStart))
	props.AddNew("P", "TimeSpanStop", "KTime", "Time", "", frameToKTime(sc.FrameEnd))

	objects := NewNode("Objects")
	for _, obj := range sc.Objects {
		objects.Add(modelNode(obj))
	}
	for _, st := range stacks {
		objects.Add(stackNode(st))
	}

	return []*Node{header, settings, objects}
}

// modelNode emits one scene object with its local transform. Rotation is
// emitted in degrees, the unit FBX models use.
func modelNode(obj *scene.Object) *Node {
	n := NewNode("Model", "Model::"+obj.Name, modelClass(obj.Kind))
	n.AddNew("Version", 232)

	tf := obj.Transform
	props := n.AddNew("Properties70")
	props.AddNew("P", "Lcl Translation", "Lcl Translation", "", "A",
		tf.Translation.X(), tf.Translation.Y(), tf.Translation.Z())
	props.AddNew("P", "Lcl Rotation", "Lcl Rotation", "", "A",
		mgl64.RadToDeg(tf.Rotation.X()), mgl64.RadToDeg(tf.Rotation.Y()), mgl64.RadToDeg(tf.Rotation.Z()))
	props.AddNew("P", "Lcl Scaling", "Lcl Scaling", "", "A",
		tf.Scale.X(), tf.Scale.Y(), tf.Scale.Z())
	if obj.Parent != nil {
		props.AddNew("P", "Parent", "KString", "", "", obj.Parent.Name)
	}
	return n
}

// stackNode emits one animation stack with its layer and, for each member
// action, the curve data.
func stackNode(st *model.AnimStack) *Node {
	n := NewNode("AnimationStack", "AnimStack::"+st.Name)

	props := n.AddNew("Properties70")
	props.AddNew("P", "LocalStart", "KTime", "Time", "", frameToKTime(st.FrameStart))
	props.AddNew("P", "LocalStop", "KTime", "Time", "", frameToKTime(st.FrameEnd))

	layer := n.AddNew("AnimationLayer", "AnimLayer::"+st.Name)
	if st.RestPose || st.SceneSpan {
		// No curves: the stack carries the current transforms only.
		return n
	}
	for _, act := range st.Actions {
		for _, ch := range act.Channels {
			layer.Add(curveNode(act, ch))
		}
	}
	return n
}

// curveNode emits one animated channel's keyframes.
func curveNode(act *model.Action, ch model.CurveChannel) *Node {
	n := NewNode("AnimationCurveNode", fmt.Sprintf("AnimCurveNode::%s|%s", act.Name, ch.ResolvedPath()))
	n.AddNew("Target", ch.TargetID)

	times := make([]interface{}, len(ch.Keys))
	values := make([]interface{}, len(ch.Keys))
	for i, k := range ch.Keys {
		times[i] = frameToKTime(k.Frame)
		values[i] = k.Value
	}
	n.AddNew("KeyTime", times...)
	n.AddNew("KeyValueFloat", values...)
	return n
}

// modelClass maps an object kind to the FBX model class attribute.
func modelClass(kind scene.ObjectKind) string {
	switch kind {
	case scene.KindMesh:
		return "Mesh"
	case scene.KindArmature:
		return "LimbNode"
	case scene.KindLight:
		return "Light"
	case scene.KindCamera:
		return "Camera"
	default:
		return "Null"
	}
}

// frameToKTime converts a frame number to FBX KTime ticks.
func frameToKTime(frame float64) int64 {
	return int64(frame / defaultFPS * ktimePerSecond)
}
