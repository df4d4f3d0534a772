// Package model defines the domain types for the animstack exporter.
//
// All entities in this package represent the core data structures passed
// between the bake, assembly and export components. They are transient:
// nothing here survives past one export invocation.
//
// Key design decision: this package has no dependencies outside the standard
// library. Every other internal package imports model, so it must stay free
// of import cycles and heavyweight types.
package model

import (
	"fmt"
	"strings"
)

// NameFormat selects how an assembled animation stack is named.
// It mirrors the exporter's "Action Name Format" setting.
type NameFormat string

const (
	// NameFormatAction names the stack after the action alone. If the stored
	// action name already carries an "Object|" prefix, the prefix is stripped.
	NameFormatAction NameFormat = "action"

	// NameFormatObjectAction names the stack "<object>|<action>", using the
	// action's linked-object hint. Actions without a hint fall back to
	// NameFormatAction for that entry.
	NameFormatObjectAction NameFormat = "object-action"
)

// String returns the string representation of NameFormat.
func (f NameFormat) String() string {
	return string(f)
}

// IsValid checks whether the NameFormat value is one of the predefined modes.
func (f NameFormat) IsValid() bool {
	switch f {
	case NameFormatAction, NameFormatObjectAction:
		return true
	default:
		return false
	}
}

// ParseNameFormat converts a string to a NameFormat.
// Returns an error if the string does not match any valid mode.
func ParseNameFormat(s string) (NameFormat, error) {
	format := NameFormat(strings.ToLower(s))
	if !format.IsValid() {
		return "", fmt.Errorf("invalid name format: %q (valid: action, object-action)", s)
	}
	return format, nil
}

// Axis identifies one signed principal axis of the export coordinate
// convention, in the notation target engines use ("Y", "-Z", ...).
type Axis string

const (
	AxisX    Axis = "X"
	AxisY    Axis = "Y"
	AxisZ    Axis = "Z"
	AxisNegX Axis = "-X"
	AxisNegY Axis = "-Y"
	AxisNegZ Axis = "-Z"
)

// String returns the string representation of Axis.
func (a Axis) String() string {
	return string(a)
}

// IsValid checks whether the Axis value is one of the six signed axes.
func (a Axis) IsValid() bool {
	switch a {
	case AxisX, AxisY, AxisZ, AxisNegX, AxisNegY, AxisNegZ:
		return true
	default:
		return false
	}
}

// ParseAxis converts a string to an Axis. Input is case-insensitive.
func ParseAxis(s string) (Axis, error) {
	axis := Axis(strings.ToUpper(strings.TrimSpace(s)))
	if !axis.IsValid() {
		return "", fmt.Errorf("invalid axis: %q (valid: X, Y, Z, -X, -Y, -Z)", s)
	}
	return axis, nil
}

// AxisConfig is the coordinate convention requested for the export.
type AxisConfig struct {
	// Forward is the axis the target engine treats as "forward".
	Forward Axis

	// Up is the axis the target engine treats as "up".
	Up Axis
}

// DefaultAxisConfig returns the exporter's default convention
// (forward −Z, up +Y), the convention most game engines expect.
func DefaultAxisConfig() AxisConfig {
	return AxisConfig{Forward: AxisNegZ, Up: AxisY}
}

// BakeSupported reports whether the transform bake may run under this
// convention. The corrective rotation is only defined for forward = −Z,
// up = +Y; any other convention silently disables the bake.
func (c AxisConfig) BakeSupported() bool {
	return c.Forward == AxisNegZ && c.Up == AxisY
}

// String returns a human-readable "forward/up" description.
func (c AxisConfig) String() string {
	return fmt.Sprintf("forward=%s up=%s", c.Forward, c.Up)
}

// Keyframe is a single (frame, value) sample on a curve channel.
type Keyframe struct {
	Frame float64 `json:"frame"`
	Value float64 `json:"value"`
}

// CurveChannel is one animated property path on one target object.
// Channels are read-only to this core; they are resolved against the
// exported object set during compatibility checking and handed to the
// serializer unchanged.
type CurveChannel struct {
	// TargetID is the stable id of the scene object the channel animates.
	TargetID string `json:"target"`

	// PropertyPath is the animated property ("location", "rotation_euler",
	// custom paths, ...).
	PropertyPath string `json:"path"`

	// ArrayIndex selects a component of a vector property. For scalar
	// properties it is 0.
	ArrayIndex int `json:"index"`

	// Keys holds the keyframe samples in frame order.
	Keys []Keyframe `json:"keys,omitempty"`
}

// ResolvedPath returns the property path including the array index suffix,
// matching the form used in incompatibility reasons ("location[2]").
func (c CurveChannel) ResolvedPath() string {
	if c.ArrayIndex != 0 {
		return fmt.Sprintf("%s[%d]", c.PropertyPath, c.ArrayIndex)
	}
	return c.PropertyPath
}

// Action is a named collection of animation curves (a clip).
type Action struct {
	// Name is the action's identity. It may already contain an "Object|"
	// prefix from the authoring tool.
	Name string `json:"name"`

	// LinkedObject is the optional id of the object whose name is used for
	// "Object|Action" naming. Empty when the action has no linked-object hint.
	LinkedObject string `json:"linkedObject,omitempty"`

	// Channels holds the action's curve channels in authoring order.
	Channels []CurveChannel `json:"channels,omitempty"`
}

// FrameRange returns the first and last keyed frame across all channels.
// An action with no keys spans (0, 0).
func (a *Action) FrameRange() (start, end float64) {
	first := true
	for _, ch := range a.Channels {
		for _, k := range ch.Keys {
			if first {
				start, end = k.Frame, k.Frame
				first = false
				continue
			}
			if k.Frame < start {
				start = k.Frame
			}
			if k.Frame > end {
				end = k.Frame
			}
		}
	}
	return start, end
}

// BareName returns the action name with any "Object|" prefix removed.
// Authoring tools commonly store per-object actions as "Cube|Walk"; in
// action naming mode only the part after the first "|" is wanted.
func (a *Action) BareName() string {
	if i := strings.Index(a.Name, "|"); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

// AnimStack is one exportable named animation unit, consumed exactly once
// by the serializer. It references either a single action, a merged group
// of actions, or no action at all (rest pose and whole-scene stacks).
type AnimStack struct {
	// Name is the final display name, unique within one export session.
	Name string

	// Actions are the member actions, in assembly order. Empty for the
	// rest-pose stack and the whole-scene fallback stack.
	Actions []*Action

	// RestPose marks the synthesized "Bind Pose" stack: no keyframes, the
	// current (post-bake) transform only.
	RestPose bool

	// SceneSpan marks the whole-scene fallback stack emitted when no actions
	// were selected and no rest pose was requested.
	SceneSpan bool

	// FrameStart and FrameEnd delimit the stack's keyed range. Rest-pose
	// stacks span a single frame.
	FrameStart float64
	FrameEnd   float64
}

// IsGroup reports whether the stack merges more than one action.
func (s *AnimStack) IsGroup() bool {
	return len(s.Actions) > 1
}

// ExportSelection is the immutable user input to stack assembly and baking.
type ExportSelection struct {
	// RestPose requests the synthesized "Bind Pose" stack, exported first.
	RestPose bool

	// NameFormat selects per-action stack naming.
	NameFormat NameFormat

	// SelectedActions lists the chosen action names in selection order.
	SelectedActions []string

	// IncludeGroups enables merging of externally defined clip groups.
	// It has no effect when no group mapping collaborator is present.
	IncludeGroups bool

	// BakeTransform requests the scoped corrective-rotation bake.
	BakeTransform bool

	// Axes is the requested export coordinate convention. The bake silently
	// disables itself for anything other than the default convention.
	Axes AxisConfig
}

// CompatibilityIssue names one curve channel that failed to resolve against
// the exported object set.
type CompatibilityIssue struct {
	// TargetID is the object id the channel references.
	TargetID string

	// PropertyPath is the channel's resolved property path, including the
	// array index suffix where applicable.
	PropertyPath string

	// Reason is the human-readable explanation. When empty, String falls
	// back to the standard unresolved-target wording.
	Reason string
}

// String returns a human-readable description of the issue.
func (i CompatibilityIssue) String() string {
	if i.Reason != "" {
		return i.Reason
	}
	return fmt.Sprintf("channel %q targets object %q which is not in the export set", i.PropertyPath, i.TargetID)
}

// CompatibilityResult is the outcome of checking one action against the
// exported object set. It is a set of reasons rather than a boolean so the
// caller can report every unmatched channel, not just the first.
type CompatibilityResult struct {
	// Issues lists every channel that failed to resolve. Empty means the
	// action is compatible.
	Issues []CompatibilityIssue

	// MatchedObjects lists the ids of exported objects the action's channels
	// did resolve against, in first-reference order.
	MatchedObjects []string
}

// Compatible reports whether the action passed the check.
func (r CompatibilityResult) Compatible() bool {
	return len(r.Issues) == 0
}

// Warning is a non-fatal, per-action problem surfaced to the caller.
// The export continues without the named action.
type Warning struct {
	// ActionName identifies the excluded action.
	ActionName string

	// Issues holds the compatibility reasons for the exclusion.
	Issues []CompatibilityIssue
}

// String returns a single-line summary suitable for CLI output.
func (w Warning) String() string {
	reasons := make([]string, len(w.Issues))
	for i, issue := range w.Issues {
		reasons[i] = issue.String()
	}
	return fmt.Sprintf("action %q excluded: %s", w.ActionName, strings.Join(reasons, "; "))
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of an export.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitSceneNotFound indicates the scene description file was not found
	// or could not be parsed.
	ExitSceneNotFound ExitCode = 2

	// ExitGroupMappingNotFound indicates the group mapping file was requested
	// but missing or invalid.
	ExitGroupMappingNotFound ExitCode = 3

	// ExitBakeFailed indicates the corrective transform could not be applied.
	// Scene state has already been restored when this code is returned.
	ExitBakeFailed ExitCode = 4

	// ExitSerializerFailed indicates the serializer reported an error.
	ExitSerializerFailed ExitCode = 5

	// ExitUserCancelled indicates the export was cancelled mid-run.
	ExitUserCancelled ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
