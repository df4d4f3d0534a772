// Package cli — export.go implements the "animstack export" command.
//
// The export command is the primary user-facing operation. It runs the full
// pipeline over one scene file:
//
//  1. Load and index the scene description (JSONC)
//  2. Load the optional clip group mapping (YAML)
//  3. Build the export selection from flags
//  4. Run the export session: bake, assemble, serialize, revert
//  5. Output results and warnings (text or JSON)
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/animstack/internal/anim"
	"github.com/mmr-tortoise/animstack/internal/bake"
	"github.com/mmr-tortoise/animstack/internal/export"
	"github.com/mmr-tortoise/animstack/internal/fbx"
	"github.com/mmr-tortoise/animstack/internal/model"
	"github.com/mmr-tortoise/animstack/internal/scene"
)

// exportFlags holds the flag values for the export command.
// These are bound to cobra flags in NewExportCommand.
type exportFlags struct {
	out           string   // --out: output FBX path
	actions       []string // --action: selected action names, in flag order
	nameFormat    string   // --name-format: action | object-action
	restPose      bool     // --rest-pose: synthesize the "Bind Pose" stack
	groupsPath    string   // --groups: YAML group mapping file
	includeGroups bool     // --include-groups: merge clip groups into stacks
	bakeTransform bool     // --bake: apply the scoped transform correction
	axisForward   string   // --axis-forward: export forward axis
	axisUp        string   // --axis-up: export up axis
}

// NewExportCommand creates the "export" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <scene-file>",
		Short: "Export a scene's animation stacks to an ASCII FBX document",
		Long: `Export assembles the selected actions into named animation stacks and
serializes the scene to FBX.

Actions that reference objects outside the export set are excluded with a
warning; the export continues without them. When --bake is set and the axis
convention is forward -Z / up +Y, the exported roots are temporarily
reoriented and restored after the export.

Examples:
  animstack export scene.jsonc
  animstack export --action Walk --action Run --rest-pose scene.jsonc
  animstack export --action Walk --name-format object-action scene.jsonc
  animstack export --groups groups.yaml --include-groups --action A --action B scene.jsonc
  animstack export --bake --out hero.fbx scene.jsonc`,

		// Args validates that exactly one positional argument (scene file)
		// is provided.
		Args: cobra.ExactArgs(1),

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags)
		},
	}

	// Register command-specific flags.
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Output FBX path (default: <scene-file>.fbx)")
	cmd.Flags().StringArrayVar(&flags.actions, "action", nil, "Action to export (repeatable, order preserved)")
	cmd.Flags().StringVar(&flags.nameFormat, "name-format", "action", "Stack naming mode: action | object-action")
	cmd.Flags().BoolVar(&flags.restPose, "rest-pose", false, "Export the bind pose as the first stack")
	cmd.Flags().StringVar(&flags.groupsPath, "groups", "", "YAML clip group mapping file")
	cmd.Flags().BoolVar(&flags.includeGroups, "include-groups", false, "Merge clip groups into single stacks")
	cmd.Flags().BoolVar(&flags.bakeTransform, "bake", false, "Apply the corrective transform bake during export")
	cmd.Flags().StringVar(&flags.axisForward, "axis-forward", "-Z", "Export forward axis")
	cmd.Flags().StringVar(&flags.axisUp, "axis-up", "Y", "Export up axis")

	return cmd
}

// runExport is the main orchestration function for the export command.
func runExport(cmd *cobra.Command, scenePath string, flags *exportFlags) error {
	// Step 1: Parse and validate flag values before touching the scene.
	nameFormat, err := model.ParseNameFormat(flags.nameFormat)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid --name-format", err)
	}
	forward, err := model.ParseAxis(flags.axisForward)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid --axis-forward", err)
	}
	up, err := model.ParseAxis(flags.axisUp)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid --axis-up", err)
	}
	axes := model.AxisConfig{Forward: forward, Up: up}
	VerboseLog("Axis convention: %s", axes)

	// Step 2: Load the scene description.
	sc, err := scene.Load(scenePath)
	if err != nil {
		return err // scene.Load already returns CLIError
	}
	VerboseLog("Loaded scene %q: %d objects, %d actions", sc.Name, len(sc.Objects), len(sc.Actions))

	// Step 3: Load the optional group mapping. A nil mapping models the
	// absent collaborator: the assembler skips group merging entirely.
	var groups *anim.GroupMapping
	if flags.groupsPath != "" {
		groups, err = anim.LoadGroupMapping(flags.groupsPath)
		if err != nil {
			return err
		}
		VerboseLog("Loaded group mapping: %d groups", len(groups.Groups))
	}

	// Step 4: Build the selection and the output path.
	selection := model.ExportSelection{
		RestPose:        flags.restPose,
		NameFormat:      nameFormat,
		SelectedActions: flags.actions,
		IncludeGroups:   flags.includeGroups,
		BakeTransform:   flags.bakeTransform,
		Axes:            axes,
	}

	outPath := flags.out
	if outPath == "" {
		outPath = defaultOutPath(scenePath)
	}
	VerboseLog("Output path: %s", outPath)

	// Step 5: Run the export session. The session owns the bake scope and
	// guarantees the scene is restored on every exit path.
	session := export.NewSession(
		bake.NewManager(),
		anim.NewAssembler(anim.NewChecker(), groups),
		fbx.NewWriter(outPath),
	)

	result, err := session.Run(cmd.Context(), sc, selection)
	if err != nil {
		return err
	}

	// Step 6: Output results. Warnings go to stderr in both modes so stdout
	// stays parseable.
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	if result.BakeDisabled {
		fmt.Fprintf(os.Stderr, "Warning: transform bake disabled: unsupported axis convention (%s)\n", axes)
	}

	printExportResult(outPath, result)
	return nil
}

// defaultOutPath derives the output file path from the scene file path by
// swapping the extension for .fbx.
func defaultOutPath(scenePath string) string {
	base := scenePath
	if i := strings.LastIndex(base, "."); i > strings.LastIndex(base, "/") {
		base = base[:i]
	}
	return base + ".fbx"
}

// printExportResult outputs the export results in text or JSON format.
func printExportResult(outPath string, result *export.Result) {
	if IsJSONOutput() {
		printExportResultJSON(outPath, result)
	} else {
		printExportResultText(outPath, result)
	}
}

// printExportResultJSON outputs the export result as structured JSON.
func printExportResultJSON(outPath string, result *export.Result) {
	type stackJSON struct {
		Name       string   `json:"name"`
		Actions    []string `json:"actions,omitempty"`
		RestPose   bool     `json:"restPose,omitempty"`
		SceneSpan  bool     `json:"sceneSpan,omitempty"`
		FrameStart float64  `json:"frameStart"`
		FrameEnd   float64  `json:"frameEnd"`
	}

	type resultJSON struct {
		Output       string      `json:"output"`
		Stacks       []stackJSON `json:"stacks"`
		Warnings     []string    `json:"warnings,omitempty"`
		BakedObjects int         `json:"bakedObjects"`
	}

	out := resultJSON{Output: outPath, BakedObjects: result.BakedObjects}
	for _, st := range result.Stacks {
		sj := stackJSON{
			Name:       st.Name,
			RestPose:   st.RestPose,
			SceneSpan:  st.SceneSpan,
			FrameStart: st.FrameStart,
			FrameEnd:   st.FrameEnd,
		}
		for _, act := range st.Actions {
			sj.Actions = append(sj.Actions, act.Name)
		}
		out.Stacks = append(out.Stacks, sj)
	}
	for _, w := range result.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}

	printJSON(out)
}

// printExportResultText outputs the export result as human-readable text.
func printExportResultText(outPath string, result *export.Result) {
	fmt.Printf("Exported %d stack(s) to %s\n", len(result.Stacks), outPath)
	for _, st := range result.Stacks {
		switch {
		case st.RestPose:
			fmt.Printf("  %-24s (rest pose)\n", st.Name)
		case st.SceneSpan:
			fmt.Printf("  %-24s (scene, frames %g-%g)\n", st.Name, st.FrameStart, st.FrameEnd)
		case st.IsGroup():
			names := make([]string, len(st.Actions))
			for i, act := range st.Actions {
				names[i] = act.Name
			}
			fmt.Printf("  %-24s (group: %s, frames %g-%g)\n", st.Name, strings.Join(names, ", "), st.FrameStart, st.FrameEnd)
		default:
			fmt.Printf("  %-24s (frames %g-%g)\n", st.Name, st.FrameStart, st.FrameEnd)
		}
	}
	if result.BakedObjects > 0 {
		fmt.Printf("Transform bake applied to %d object(s) and reverted\n", result.BakedObjects)
	}
}
