package checkoutbuilder

import (
	"errors"

	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/mutate"
	"github.com/tbxark/checkoutbuilder/patch"
	"github.com/tbxark/checkoutbuilder/types"
)

// edit runs fn against the current tree and publishes the result. A missing
// id leaves the tree as is and reports false; so does a result that would
// break the tree's invariants.
func (b *Builder) edit(op string, fn func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.editLocked(op, fn)
}

func (b *Builder) editLocked(op string, fn func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error)) bool {
	out, err := fn(b.cfg)
	if err != nil {
		if errors.Is(err, mutate.ErrNotFound) {
			b.logger.Debug("mutation target not found", zap.String("op", op), zap.Error(err))
		} else {
			b.logger.Warn("mutation failed", zap.String("op", op), zap.Error(err))
		}
		return false
	}
	if out == b.cfg {
		return true
	}
	if err := types.Check(out); err != nil {
		b.logger.Warn("mutation rejected", zap.String("op", op), zap.Error(err))
		return false
	}
	b.cfg = out
	return true
}

func (b *Builder) AddField(stepID, sectionID string, field types.Field) bool {
	return b.edit("addField", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.AddField(cfg, stepID, sectionID, field)
	})
}

// RemoveField deletes the field and drops its value and error.
func (b *Builder) RemoveField(fieldID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ok := b.editLocked("removeField", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.RemoveField(cfg, fieldID)
	})
	if ok {
		b.forgetFields([]string{fieldID})
	}
	return ok
}

func (b *Builder) MoveField(fieldID string, direction mutate.Direction) bool {
	return b.edit("moveField", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.MoveField(cfg, fieldID, direction)
	})
}

func (b *Builder) ReorderFields(sectionID string, oldIndex, newIndex int) bool {
	return b.edit("reorderFields", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.ReorderFields(cfg, sectionID, oldIndex, newIndex)
	})
}

// UpdateFieldByID shallow-merges updates; nested objects are replaced.
func (b *Builder) UpdateFieldByID(fieldID string, updates map[string]any) bool {
	return b.edit("updateField", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.UpdateFieldByID(cfg, fieldID, updates)
	})
}

func (b *Builder) UpdateSectionByID(sectionID string, updates map[string]any) bool {
	return b.edit("updateSection", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.UpdateSectionByID(cfg, sectionID, updates)
	})
}

func (b *Builder) UpdateStepByID(stepID string, updates map[string]any) bool {
	return b.edit("updateStep", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.UpdateStepByID(cfg, stepID, updates)
	})
}

// MergeFieldByID deep-merges patch, so {"styling":{"color":"red"}} keeps the
// other styling keys.
func (b *Builder) MergeFieldByID(fieldID string, patch map[string]any) bool {
	return b.edit("mergeField", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.MergeFieldByID(cfg, fieldID, patch)
	})
}

func (b *Builder) MergeSectionByID(sectionID string, patch map[string]any) bool {
	return b.edit("mergeSection", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.MergeSectionByID(cfg, sectionID, patch)
	})
}

func (b *Builder) MergeStepByID(stepID string, patch map[string]any) bool {
	return b.edit("mergeStep", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.MergeStepByID(cfg, stepID, patch)
	})
}

// SetPath writes value at a dotted path, e.g. from a style editor.
func (b *Builder) SetPath(path string, value any) bool {
	return b.edit("setPath", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.SetPath(cfg, path, value)
	})
}

func (b *Builder) AddStep(step types.Step) bool {
	return b.edit("addStep", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.AddStep(cfg, step)
	})
}

func (b *Builder) RemoveStep(stepID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	var removed []string
	for _, step := range b.cfg.Steps {
		if step.ID == stepID {
			for _, section := range step.Sections {
				removed = appendFieldIDs(removed, section)
			}
			break
		}
	}
	ok := b.editLocked("removeStep", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.RemoveStep(cfg, stepID)
	})
	if ok {
		b.forgetFields(removed)
		b.currentStep = min(b.currentStep, max(len(b.cfg.Steps)-1, 0))
	}
	return ok
}

func (b *Builder) MoveStep(stepID string, direction mutate.Direction) bool {
	return b.edit("moveStep", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.MoveStep(cfg, stepID, direction)
	})
}

func (b *Builder) AddSection(stepID string, section types.Section) bool {
	return b.edit("addSection", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.AddSection(cfg, stepID, section)
	})
}

// RemoveSection deletes the section and drops the values and errors of its
// fields. RemoveStep does the same for every section of the step.
func (b *Builder) RemoveSection(sectionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	var removed []string
found:
	for _, step := range b.cfg.Steps {
		for _, section := range step.Sections {
			if section.ID == sectionID {
				removed = appendFieldIDs(removed, section)
				break found
			}
		}
	}
	ok := b.editLocked("removeSection", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.RemoveSection(cfg, sectionID)
	})
	if ok {
		b.forgetFields(removed)
	}
	return ok
}

func appendFieldIDs(ids []string, section types.Section) []string {
	for _, f := range section.Fields {
		ids = append(ids, f.ID)
	}
	return ids
}

func (b *Builder) forgetFields(ids []string) {
	for _, id := range ids {
		delete(b.formData, id)
		delete(b.errors, id)
	}
}

func (b *Builder) AddAddon(sectionID string, addon types.Addon) bool {
	return b.edit("addAddon", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.AddAddon(cfg, sectionID, addon)
	})
}

// RemoveAddon deletes the addon from the tree and from the cart.
func (b *Builder) RemoveAddon(addonID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ok := b.editLocked("removeAddon", func(cfg *types.CheckoutConfiguration) (*types.CheckoutConfiguration, error) {
		return mutate.RemoveAddon(cfg, addonID)
	})
	if ok && b.cart.IsSelected(addonID) {
		b.cart, _ = b.cart.Toggle(types.Addon{ID: addonID}, 0)
	}
	return ok
}

// ApplyPatch applies RFC 6902 operations. Unlike the id-based mutators it
// reports why a patch was refused.
func (b *Builder) ApplyPatch(ops []patch.Operation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out, err := patch.Apply(b.cfg, ops)
	if err != nil {
		return err
	}
	if err := types.Check(out); err != nil {
		return err
	}
	b.cfg = out
	return nil
}
