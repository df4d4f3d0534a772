package anim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/animstack/internal/model"
)

// Group is one externally defined clip group: a name plus the ordered list
// of member action names.
type Group struct {
	// Name becomes the merged stack's display name.
	Name string `yaml:"name"`

	// Actions lists the member action names in group order.
	Actions []string `yaml:"actions"`
}

// GroupMapping is the read-only mapping supplied by the optional clip
// grouping collaborator. It is nil-absent by design: when the collaborator
// is not installed, the assembler simply receives no mapping and skips the
// merge step entirely.
type GroupMapping struct {
	// Groups holds the groups in file order. Order matters: merged stacks
	// are emitted deterministically in this order.
	Groups []Group `yaml:"groups"`
}

// LoadGroupMapping reads a YAML group mapping file.
//
// Returns a CLIError with ExitGroupMappingNotFound if the file is missing
// or invalid, so requesting groups with a bad mapping fails loudly instead
// of silently exporting ungrouped stacks.
func LoadGroupMapping(path string) (*GroupMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitGroupMappingNotFound,
				fmt.Sprintf("group mapping file not found: %s", path),
				err,
			)
		}
		return nil, model.WrapCLIError(model.ExitGroupMappingNotFound, "failed to read group mapping", err)
	}

	var mapping GroupMapping
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, model.WrapCLIError(
			model.ExitGroupMappingNotFound,
			fmt.Sprintf("failed to parse group mapping %s", path),
			err,
		)
	}

	seen := make(map[string]bool, len(mapping.Groups))
	for _, g := range mapping.Groups {
		if g.Name == "" {
			return nil, model.NewCLIError(model.ExitGroupMappingNotFound, "group mapping contains a group with an empty name")
		}
		if seen[g.Name] {
			return nil, model.NewCLIError(
				model.ExitGroupMappingNotFound,
				fmt.Sprintf("duplicate group name %q in mapping", g.Name),
			)
		}
		seen[g.Name] = true
	}
	return &mapping, nil
}
