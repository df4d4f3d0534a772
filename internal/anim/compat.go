package anim

import (
	"fmt"

	"github.com/mmr-tortoise/animstack/internal/model"
	"github.com/mmr-tortoise/animstack/internal/scene"
)

// Checker decides whether an action can be safely exported given the
// current object export set.
//
// The check is pure: it never mutates the action or the scene, and it
// returns the full set of reasons rather than a boolean so callers can
// report every unmatched channel, not just the first.
type Checker struct{}

// NewChecker creates a new compatibility Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check resolves every curve channel of the action against the exported
// object set.
//
// A channel fails when its target id is absent from the set, or when the
// target exists but the property path does not resolve on it. An action
// with zero channels is trivially compatible — there is nothing to
// validate. MatchedObjects records which exported objects the action's
// channels did resolve against, in first-reference order, for UI reporting.
func (c *Checker) Check(action *model.Action, exported []*scene.Object) model.CompatibilityResult {
	var result model.CompatibilityResult
	if action == nil || len(action.Channels) == 0 {
		return result
	}

	byID := make(map[string]*scene.Object, len(exported))
	for _, obj := range exported {
		if obj != nil {
			byID[obj.ID] = obj
		}
	}

	seen := make(map[string]bool)
	for _, ch := range action.Channels {
		path := ch.ResolvedPath()

		obj, ok := byID[ch.TargetID]
		if !ok {
			result.Issues = append(result.Issues, model.CompatibilityIssue{
				TargetID:     ch.TargetID,
				PropertyPath: path,
			})
			continue
		}

		if !obj.HasProperty(ch.PropertyPath) {
			result.Issues = append(result.Issues, model.CompatibilityIssue{
				TargetID:     ch.TargetID,
				PropertyPath: path,
				Reason:       fmt.Sprintf("channel %q does not resolve on object %q", path, ch.TargetID),
			})
			continue
		}

		if !seen[obj.ID] {
			seen[obj.ID] = true
			result.MatchedObjects = append(result.MatchedObjects, obj.ID)
		}
	}
	return result
}
