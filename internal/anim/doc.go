// Package anim decides which animation clips become exported stacks.
//
// The Checker validates each clip's curve channels against the exported
// object set; the Assembler turns the user's selection into the ordered,
// uniquely named AnimStack sequence the serializer consumes, optionally
// folding externally defined clip groups (loaded from YAML mappings) into
// single merged stacks.
//
// Both components are pure with respect to the scene: nothing here mutates
// objects or actions, and every exclusion is reported as a non-fatal
// warning rather than an error.
package anim
