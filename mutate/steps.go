package mutate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tbxark/checkoutbuilder/treepath"
	"github.com/tbxark/checkoutbuilder/types"
)

// UpdateStepByID shallow-merges updates into the first step with stepID.
func UpdateStepByID(cfg *types.CheckoutConfiguration, stepID string, updates map[string]any) (*types.CheckoutConfiguration, error) {
	return updateStep(cfg, stepID, updates, shallowMerge[types.Step])
}

// MergeStepByID deep-merges patch into the first step with stepID.
func MergeStepByID(cfg *types.CheckoutConfiguration, stepID string, patch map[string]any) (*types.CheckoutConfiguration, error) {
	return updateStep(cfg, stepID, patch, deepMerge[types.Step])
}

func updateStep(cfg *types.CheckoutConfiguration, stepID string, updates map[string]any, merge func(types.Step, map[string]any) (types.Step, error)) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("step", stepID)
	}
	si := stepIndex(cfg, stepID)
	if si < 0 {
		return cfg, notFound("step", stepID)
	}
	return editStep(cfg, si, func(step *types.Step) error {
		merged, err := merge(*step, updates)
		if err != nil {
			return fmt.Errorf("update step %q: %w", stepID, err)
		}
		*step = merged
		return nil
	})
}

// UpdateSectionByID shallow-merges updates into the first section with
// sectionID across all steps.
func UpdateSectionByID(cfg *types.CheckoutConfiguration, sectionID string, updates map[string]any) (*types.CheckoutConfiguration, error) {
	return updateSection(cfg, sectionID, updates, shallowMerge[types.Section])
}

// MergeSectionByID deep-merges patch into the first section with sectionID.
func MergeSectionByID(cfg *types.CheckoutConfiguration, sectionID string, patch map[string]any) (*types.CheckoutConfiguration, error) {
	return updateSection(cfg, sectionID, patch, deepMerge[types.Section])
}

func updateSection(cfg *types.CheckoutConfiguration, sectionID string, updates map[string]any, merge func(types.Section, map[string]any) (types.Section, error)) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("section", sectionID)
	}
	si, sj, ok := locateSection(cfg, sectionID)
	if !ok {
		return cfg, notFound("section", sectionID)
	}
	return editSection(cfg, si, sj, func(section *types.Section) error {
		merged, err := merge(*section, updates)
		if err != nil {
			return fmt.Errorf("update section %q: %w", sectionID, err)
		}
		*section = merged
		return nil
	})
}

// SetPath writes value at a dotted path such as
// "steps[0].sections[1].fields[zipCode].label".
func SetPath(cfg *types.CheckoutConfiguration, path string, value any) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, fmt.Errorf("set %q: %w", path, ErrNotFound)
	}
	out, err := treepath.SetConfig(cfg, path, value)
	if err != nil {
		if errors.Is(err, treepath.ErrFieldNotFound) {
			return cfg, fmt.Errorf("set %q: %w: %w", path, ErrNotFound, err)
		}
		return cfg, fmt.Errorf("set %q: %w", path, err)
	}
	return out, nil
}

// AddStep appends step. A step without an id is given a generated one.
func AddStep(cfg *types.CheckoutConfiguration, step types.Step) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, fmt.Errorf("add step: %w", ErrNotFound)
	}
	if step.ID == "" {
		step.ID = NewID("step")
	}
	out := cloneRoot(cfg)
	out.Steps = append(out.Steps, step)
	return out, nil
}

// RemoveStep deletes the first step with stepID.
func RemoveStep(cfg *types.CheckoutConfiguration, stepID string) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("step", stepID)
	}
	si := stepIndex(cfg, stepID)
	if si < 0 {
		return cfg, notFound("step", stepID)
	}
	out := cloneRoot(cfg)
	out.Steps = slices.Delete(out.Steps, si, si+1)
	return out, nil
}

// MoveStep swaps the step with its neighbour, with the same boundary rule as
// MoveField.
func MoveStep(cfg *types.CheckoutConfiguration, stepID string, direction Direction) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("step", stepID)
	}
	si := stepIndex(cfg, stepID)
	if si < 0 {
		return cfg, notFound("step", stepID)
	}
	target := si
	switch direction {
	case Up:
		target--
	case Down:
		target++
	default:
		return cfg, fmt.Errorf("unknown direction %q", direction)
	}
	if target < 0 || target >= len(cfg.Steps) {
		return cfg, nil
	}
	out := cloneRoot(cfg)
	out.Steps[si], out.Steps[target] = out.Steps[target], out.Steps[si]
	return out, nil
}

// AddSection appends section to step stepID.
func AddSection(cfg *types.CheckoutConfiguration, stepID string, section types.Section) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("step", stepID)
	}
	si := stepIndex(cfg, stepID)
	if si < 0 {
		return cfg, notFound("step", stepID)
	}
	if section.ID == "" {
		section.ID = NewID("section")
	}
	return editStep(cfg, si, func(step *types.Step) error {
		step.Sections = append(slices.Clone(step.Sections), section)
		return nil
	})
}

// RemoveSection deletes the first section with sectionID.
func RemoveSection(cfg *types.CheckoutConfiguration, sectionID string) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("section", sectionID)
	}
	si, sj, ok := locateSection(cfg, sectionID)
	if !ok {
		return cfg, notFound("section", sectionID)
	}
	return editStep(cfg, si, func(step *types.Step) error {
		step.Sections = slices.Delete(slices.Clone(step.Sections), sj, sj+1)
		return nil
	})
}
