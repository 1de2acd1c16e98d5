// Package mutate implements id- and path-based edits of a checkout
// configuration. Every operation returns a new tree and leaves its input
// untouched: the steps, sections and fields slices on the way to the edited
// node are copied, everything else is shared.
//
// Lookups are first-match in step, section, field order. When an id cannot be
// found the input tree is returned unchanged together with ErrNotFound.
package mutate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/tbxark/checkoutbuilder/types"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrOutOfRange = errors.New("index out of range")
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Location is the position of a field in the tree.
type Location struct {
	Step    int
	Section int
	Field   int
}

func (l Location) Path() string {
	return fmt.Sprintf("steps[%d].sections[%d].fields[%d]", l.Step, l.Section, l.Field)
}

// NewID returns a short random id with the given prefix.
func NewID(prefix string) string {
	id := uuid.NewString()[:8]
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func cloneRoot(cfg *types.CheckoutConfiguration) *types.CheckoutConfiguration {
	out := *cfg
	out.Steps = slices.Clone(cfg.Steps)
	return &out
}

func stepIndex(cfg *types.CheckoutConfiguration, stepID string) int {
	return slices.IndexFunc(cfg.Steps, func(s types.Step) bool { return s.ID == stepID })
}

func sectionIndex(step types.Step, sectionID string) int {
	return slices.IndexFunc(step.Sections, func(s types.Section) bool { return s.ID == sectionID })
}

// locateSection finds the first section with sectionID in any step.
func locateSection(cfg *types.CheckoutConfiguration, sectionID string) (int, int, bool) {
	for i, step := range cfg.Steps {
		if j := sectionIndex(step, sectionID); j >= 0 {
			return i, j, true
		}
	}
	return -1, -1, false
}

// FindField returns the first field with fieldID and its location.
func FindField(cfg *types.CheckoutConfiguration, fieldID string) (types.Field, Location, bool) {
	if cfg == nil {
		return types.Field{}, Location{}, false
	}
	for i, step := range cfg.Steps {
		for j, section := range step.Sections {
			for k, field := range section.Fields {
				if field.ID == fieldID {
					return field, Location{Step: i, Section: j, Field: k}, true
				}
			}
		}
	}
	return types.Field{}, Location{}, false
}

// editStep copies the root and the step at si, then hands the copy to fn.
func editStep(cfg *types.CheckoutConfiguration, si int, fn func(step *types.Step) error) (*types.CheckoutConfiguration, error) {
	out := cloneRoot(cfg)
	step := out.Steps[si]
	if err := fn(&step); err != nil {
		return cfg, err
	}
	out.Steps[si] = step
	return out, nil
}

// editSection copies the path root -> step -> section and hands the section
// copy to fn. fn receives slices that may still alias the input and must
// replace, not modify, them.
func editSection(cfg *types.CheckoutConfiguration, si, sj int, fn func(section *types.Section) error) (*types.CheckoutConfiguration, error) {
	return editStep(cfg, si, func(step *types.Step) error {
		step.Sections = slices.Clone(step.Sections)
		section := step.Sections[sj]
		if err := fn(&section); err != nil {
			return err
		}
		step.Sections[sj] = section
		return nil
	})
}

// editFields copies the field slice of the addressed section and passes it to fn.
func editFields(cfg *types.CheckoutConfiguration, si, sj int, fn func(fields []types.Field) ([]types.Field, error)) (*types.CheckoutConfiguration, error) {
	return editSection(cfg, si, sj, func(section *types.Section) error {
		fields, err := fn(slices.Clone(section.Fields))
		if err != nil {
			return err
		}
		section.Fields = fields
		return nil
	})
}
