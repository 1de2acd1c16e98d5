package mutate

import (
	"slices"

	"github.com/tbxark/checkoutbuilder/types"
)

// FindAddon returns the first addon with addonID and the section holding it.
func FindAddon(cfg *types.CheckoutConfiguration, addonID string) (types.Addon, types.Section, bool) {
	if cfg == nil {
		return types.Addon{}, types.Section{}, false
	}
	for _, step := range cfg.Steps {
		for _, section := range step.Sections {
			for _, addon := range section.Addons {
				if addon.ID == addonID {
					return addon, section, true
				}
			}
		}
	}
	return types.Addon{}, types.Section{}, false
}

// AddAddon appends addon to the first section with sectionID.
func AddAddon(cfg *types.CheckoutConfiguration, sectionID string, addon types.Addon) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("section", sectionID)
	}
	si, sj, ok := locateSection(cfg, sectionID)
	if !ok {
		return cfg, notFound("section", sectionID)
	}
	if addon.ID == "" {
		addon.ID = NewID("addon")
	}
	return editSection(cfg, si, sj, func(section *types.Section) error {
		section.Addons = append(slices.Clone(section.Addons), addon)
		return nil
	})
}

// RemoveAddon deletes the first addon with addonID.
func RemoveAddon(cfg *types.CheckoutConfiguration, addonID string) (*types.CheckoutConfiguration, error) {
	if cfg == nil {
		return cfg, notFound("addon", addonID)
	}
	for i, step := range cfg.Steps {
		for j, section := range step.Sections {
			k := slices.IndexFunc(section.Addons, func(a types.Addon) bool { return a.ID == addonID })
			if k < 0 {
				continue
			}
			return editSection(cfg, i, j, func(section *types.Section) error {
				section.Addons = slices.Delete(slices.Clone(section.Addons), k, k+1)
				return nil
			})
		}
	}
	return cfg, notFound("addon", addonID)
}

// Addons lists every addon in tree order.
func Addons(cfg *types.CheckoutConfiguration) []types.Addon {
	var out []types.Addon
	if cfg == nil {
		return out
	}
	for _, step := range cfg.Steps {
		for _, section := range step.Sections {
			out = append(out, section.Addons...)
		}
	}
	return out
}
