// Package cli — actions.go implements the "animstack actions" command.
//
// The actions command is the inspection surface of the exporter: it lists
// every action in a scene with its compatibility verdict against the full
// object set, the objects its channels resolved to, and the reasons for any
// incompatibility. It is the non-interactive equivalent of the exporter's
// action list panel.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/animstack/internal/anim"
	"github.com/mmr-tortoise/animstack/internal/scene"
)

// NewActionsCommand creates the "actions" cobra command.
func NewActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions <scene-file>",
		Short: "List a scene's actions and their export compatibility",
		Long: `Actions checks every animation clip in the scene against the exported
object set and reports, per clip, whether it can be exported and why not.

An action is compatible when every one of its curve channels resolves
against an object in the scene. Actions with no channels are trivially
compatible.

Examples:
  animstack actions scene.jsonc
  animstack actions --json scene.jsonc`,

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActions(args[0])
		},
	}
}

// actionReport is the per-action verdict assembled for output.
type actionReport struct {
	Name           string   `json:"name"`
	Compatible     bool     `json:"compatible"`
	Channels       int      `json:"channels"`
	MatchedObjects []string `json:"matchedObjects,omitempty"`
	Issues         []string `json:"issues,omitempty"`
}

// runActions loads the scene and reports compatibility for every action.
func runActions(scenePath string) error {
	sc, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	VerboseLog("Loaded scene %q: %d objects, %d actions", sc.Name, len(sc.Objects), len(sc.Actions))

	checker := anim.NewChecker()
	reports := make([]actionReport, 0, len(sc.Actions))
	for _, act := range sc.Actions {
		result := checker.Check(act, sc.Objects)
		report := actionReport{
			Name:           act.Name,
			Compatible:     result.Compatible(),
			Channels:       len(act.Channels),
			MatchedObjects: result.MatchedObjects,
		}
		for _, issue := range result.Issues {
			report.Issues = append(report.Issues, issue.String())
		}
		reports = append(reports, report)
	}

	if IsJSONOutput() {
		printJSON(reports)
		return nil
	}

	if len(reports) == 0 {
		fmt.Println("No actions in scene")
		return nil
	}
	for _, r := range reports {
		verdict := "compatible"
		if !r.Compatible {
			verdict = "INCOMPATIBLE"
		}
		fmt.Printf("%-24s %s (%d channel(s))\n", r.Name, verdict, r.Channels)
		for _, id := range r.MatchedObjects {
			fmt.Printf("    resolves: %s\n", id)
		}
		for _, issue := range r.Issues {
			fmt.Printf("    issue: %s\n", issue)
		}
	}
	return nil
}
