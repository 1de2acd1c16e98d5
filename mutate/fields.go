package mutate

import (
	"fmt"
	"slices"

	"github.com/tbxark/checkoutbuilder/types"
)

// AddField appends field to the section sectionID of step stepID. A field
// without an id is given a generated one.
func AddField(cfg *types.CheckoutConfiguration, stepID, sectionID string, field types.Field) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("step", stepID)
	}
	si := stepIndex(cfg, stepID)
	if si < 0 {
		return cfg, notFound("step", stepID)
	}
	sj := sectionIndex(cfg.Steps[si], sectionID)
	if sj < 0 {
		return cfg, notFound("section", sectionID)
	}
	if field.ID == "" {
		field.ID = NewID("field")
	}
	return editFields(cfg, si, sj, func(fields []types.Field) ([]types.Field, error) {
		if fields == nil {
			fields = []types.Field{}
		}
		return append(fields, field), nil
	})
}

// RemoveField deletes the first field with fieldID.
func RemoveField(cfg *types.CheckoutConfiguration, fieldID string) (*types.CheckoutConfiguration, error) {
	_, loc, ok := FindField(cfg, fieldID)
	if !ok {
		return cfg, notFound("field", fieldID)
	}
	return editFields(cfg, loc.Step, loc.Section, func(fields []types.Field) ([]types.Field, error) {
		return slices.Delete(fields, loc.Field, loc.Field+1), nil
	})
}

// MoveField swaps the field with its neighbour in direction. Moving the first
// field up or the last field down leaves the tree unchanged.
func MoveField(cfg *types.CheckoutConfiguration, fieldID string, direction Direction) (*types.CheckoutConfiguration, error) {
	_, loc, ok := FindField(cfg, fieldID)
	if !ok {
		return cfg, notFound("field", fieldID)
	}
	target := loc.Field
	switch direction {
	case Up:
		target--
	case Down:
		target++
	default:
		return cfg, fmt.Errorf("unknown direction %q", direction)
	}
	count := len(cfg.Steps[loc.Step].Sections[loc.Section].Fields)
	if target < 0 || target >= count {
		return cfg, nil
	}
	return editFields(cfg, loc.Step, loc.Section, func(fields []types.Field) ([]types.Field, error) {
		fields[loc.Field], fields[target] = fields[target], fields[loc.Field]
		return fields, nil
	})
}

// ReorderFields removes the field at oldIndex of section sectionID and
// reinserts it at newIndex. newIndex past the end moves the field last.
func ReorderFields(cfg *types.CheckoutConfiguration, sectionID string, oldIndex, newIndex int) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("section", sectionID)
	}
	si, sj, ok := locateSection(cfg, sectionID)
	if !ok {
		return cfg, notFound("section", sectionID)
	}
	count := len(cfg.Steps[si].Sections[sj].Fields)
	if oldIndex < 0 || oldIndex >= count || newIndex < 0 {
		return cfg, fmt.Errorf("reorder %d -> %d in section %q: %w", oldIndex, newIndex, sectionID, ErrOutOfRange)
	}
	if newIndex >= count {
		newIndex = count - 1
	}
	if oldIndex == newIndex {
		return cfg, nil
	}
	return editFields(cfg, si, sj, func(fields []types.Field) ([]types.Field, error) {
		moved := fields[oldIndex]
		fields = slices.Delete(fields, oldIndex, oldIndex+1)
		return slices.Insert(fields, newIndex, moved), nil
	})
}

// UpdateFieldByID shallow-merges updates into the first field with fieldID.
// Nested objects such as styling or validation are replaced, not merged; use
// MergeFieldByID for a deep merge.
func UpdateFieldByID(cfg *types.CheckoutConfiguration, fieldID string, updates map[string]any) (*types.CheckoutConfiguration, error) {
	return updateField(cfg, fieldID, updates, shallowMerge[types.Field])
}

// MergeFieldByID applies patch to the first field with fieldID as an RFC 7386
// merge patch, merging nested objects key by key.
func MergeFieldByID(cfg *types.CheckoutConfiguration, fieldID string, patch map[string]any) (*types.CheckoutConfiguration, error) {
	return updateField(cfg, fieldID, patch, deepMerge[types.Field])
}

func updateField(cfg *types.CheckoutConfiguration, fieldID string, updates map[string]any, merge func(types.Field, map[string]any) (types.Field, error)) (*types.CheckoutConfiguration, error) {
	_, loc, ok := FindField(cfg, fieldID)
	if !ok {
		return cfg, notFound("field", fieldID)
	}
	return editFields(cfg, loc.Step, loc.Section, func(fields []types.Field) ([]types.Field, error) {
		merged, err := merge(fields[loc.Field], updates)
		if err != nil {
			return nil, fmt.Errorf("update field %q: %w", fieldID, err)
		}
		fields[loc.Field] = merged
		return fields, nil
	})
}
