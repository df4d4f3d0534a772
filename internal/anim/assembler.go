package anim

import (
	"fmt"
	"strings"

	"github.com/mmr-tortoise/animstack/internal/model"
	"github.com/mmr-tortoise/animstack/internal/scene"
)

// restPoseStackName is the literal name of the synthesized bind-pose stack.
const restPoseStackName = "Bind Pose"

// Assembler produces the ordered, named list of animation stacks to hand to
// the serializer. It consults the compatibility Checker per candidate
// action and, when a group mapping collaborator is present, merges clip
// groups into single stacks.
type Assembler struct {
	checker *Checker

	// groups is the optional clip grouping collaborator. nil means the
	// collaborator is not installed and the merge step is skipped.
	groups *GroupMapping
}

// NewAssembler creates an Assembler. Pass a nil mapping when the grouping
// collaborator is absent.
func NewAssembler(checker *Checker, groups *GroupMapping) *Assembler {
	return &Assembler{checker: checker, groups: groups}
}

// Assemble builds the final stack sequence for one export.
//
// The sequence is assembled in four steps:
//  1. the optional rest-pose stack, always first;
//  2. one stack per selected, compatible action, in selection order;
//  3. group merging, when enabled and a mapping is present — a merged stack
//     supersedes the standalone stacks of its members and takes the list
//     position of its earliest member;
//  4. name collision disambiguation ("<name> (2)", "<name> (3)", ...),
//     first-produced keeps the bare name.
//
// Incompatible and unknown actions are excluded and surfaced as warnings;
// the export continues without them. When nothing was selected and no rest
// pose was requested, a single whole-scene stack named after the scene is
// emitted instead, spanning the scene's playback range.
//
// The returned sequence is consumed exactly once per export.
func (a *Assembler) Assemble(sc *scene.Scene, sel model.ExportSelection) ([]*model.AnimStack, []model.Warning) {
	var stacks []*model.AnimStack
	var warnings []model.Warning

	if sel.RestPose {
		// The rest pose references no curves, so it can never fail the
		// compatibility check and is never renamed.
		stacks = append(stacks, &model.AnimStack{
			Name:     restPoseStackName,
			RestPose: true,
		})
	}

	for _, name := range sel.SelectedActions {
		act := sc.Action(name)
		if act == nil {
			warnings = append(warnings, model.Warning{
				ActionName: name,
				Issues: []model.CompatibilityIssue{{
					Reason: fmt.Sprintf("action %q does not exist in the scene", name),
				}},
			})
			continue
		}

		result := a.checker.Check(act, sc.Objects)
		if !result.Compatible() {
			warnings = append(warnings, model.Warning{ActionName: act.Name, Issues: result.Issues})
			continue
		}

		start, end := act.FrameRange()
		stacks = append(stacks, &model.AnimStack{
			Name:       a.displayName(sc, act, sel.NameFormat),
			Actions:    []*model.Action{act},
			FrameStart: start,
			FrameEnd:   end,
		})
	}

	if sel.IncludeGroups && a.groups != nil {
		stacks = a.mergeGroups(stacks)
	}

	if len(sel.SelectedActions) == 0 && !sel.RestPose {
		// No explicit clip selection: fall back to one scene-spanning stack,
		// the way a plain timeline export behaves.
		stacks = append(stacks, &model.AnimStack{
			Name:       sc.Name,
			SceneSpan:  true,
			FrameStart: sc.FrameStart,
			FrameEnd:   sc.FrameEnd,
		})
	}

	disambiguate(stacks)
	return stacks, warnings
}

// displayName computes a stack's name for one action per the selected
// naming mode.
func (a *Assembler) displayName(sc *scene.Scene, act *model.Action, format model.NameFormat) string {
	if format == model.NameFormatObjectAction {
		if obj := sc.Object(act.LinkedObject); obj != nil {
			if strings.Contains(act.Name, "|") {
				// The stored name already carries the object prefix.
				return act.Name
			}
			return obj.Name + "|" + act.Name
		}
		// No linked-object hint: fall back to action naming for this entry.
	}
	return act.BareName()
}

// mergeGroups replaces the standalone stacks of each group's members with
// one merged stack named after the group.
//
// For each group, in mapping order, the members that are currently present
// as standalone stacks (selected, compatible, and not yet claimed by an
// earlier group) are collected; a non-empty member set yields one merged
// stack at the position of the earliest member. Groups whose member set is
// empty after filtering are skipped silently — a mapping is global while
// selection is per-export, so partial overlap is the normal case.
func (a *Assembler) mergeGroups(stacks []*model.AnimStack) []*model.AnimStack {
	// merged marks group stacks produced by earlier iterations; their member
	// actions are no longer standalone even when the group kept only one.
	mergedStacks := make(map[*model.AnimStack]bool)

	for _, group := range a.groups.Groups {
		// Index the standalone per-action stacks still in the list. Stacks
		// already claimed by an earlier group are no longer standalone, so a
		// member action can never appear twice in the output.
		idxByAction := make(map[string]int, len(stacks))
		for i, st := range stacks {
			if !st.RestPose && !st.SceneSpan && !mergedStacks[st] && len(st.Actions) == 1 {
				idxByAction[st.Actions[0].Name] = i
			}
		}

		merged := &model.AnimStack{Name: group.Name}
		removed := make(map[int]bool, len(group.Actions))
		firstIdx := len(stacks)
		for _, name := range group.Actions {
			i, ok := idxByAction[name]
			if !ok || removed[i] {
				// Member never selected, incompatible, or already taken:
				// skipped silently.
				continue
			}
			st := stacks[i]
			if len(merged.Actions) == 0 || st.FrameStart < merged.FrameStart {
				merged.FrameStart = st.FrameStart
			}
			if len(merged.Actions) == 0 || st.FrameEnd > merged.FrameEnd {
				merged.FrameEnd = st.FrameEnd
			}
			merged.Actions = append(merged.Actions, st.Actions[0])
			removed[i] = true
			if i < firstIdx {
				firstIdx = i
			}
		}
		if len(merged.Actions) == 0 {
			continue
		}
		mergedStacks[merged] = true

		out := make([]*model.AnimStack, 0, len(stacks)-len(removed)+1)
		for i, st := range stacks {
			if i == firstIdx {
				out = append(out, merged)
				continue
			}
			if removed[i] {
				continue
			}
			out = append(out, st)
		}
		stacks = out
	}
	return stacks
}

// disambiguate enforces unique stack names in production order. A later
// stack whose name equals an earlier one's gets a numeric suffix; the
// rest-pose stack is never renamed.
func disambiguate(stacks []*model.AnimStack) {
	used := make(map[string]bool, len(stacks))
	for _, st := range stacks {
		name := st.Name
		if used[name] && !st.RestPose {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s (%d)", st.Name, n)
				if !used[candidate] {
					name = candidate
					break
				}
			}
		}
		st.Name = name
		used[name] = true
	}
}
