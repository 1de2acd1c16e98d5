package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateID    = errors.New("duplicate id")
	ErrMissingID      = errors.New("missing id")
	ErrMissingSpacing = errors.New("theme spacing value missing")
)

// Issues walks cfg and reports structural problems: empty or duplicated step
// ids, section ids repeated within a step, field ids repeated anywhere in the
// tree, and an incomplete theme spacing scale.
func Issues(cfg *CheckoutConfiguration) []Issue {
	if cfg == nil {
		return nil
	}
	var issues []Issue
	add := func(pointer, name string, err error) {
		issues = append(issues, Issue{
			JSONPointer: pointer,
			DisplayName: name,
			Description: err.Error(),
			err:         err,
		})
	}

	spacing := cfg.CheckoutConfig.Theme.Spacing
	for _, s := range []struct{ key, value string }{
		{"xs", spacing.XS}, {"sm", spacing.SM}, {"md", spacing.MD}, {"lg", spacing.LG}, {"xl", spacing.XL},
	} {
		if strings.TrimSpace(s.value) == "" {
			add("/checkoutConfig/theme/spacing/"+s.key, s.key, fmt.Errorf("%w: %s", ErrMissingSpacing, s.key))
		}
	}

	steps := make(map[string]string)
	fields := make(map[string]string)
	for i, step := range cfg.Steps {
		stepPtr := fmt.Sprintf("/steps/%d", i)
		switch prev, dup := steps[step.ID]; {
		case step.ID == "":
			add(stepPtr+"/id", step.Title, fmt.Errorf("%w: step %d", ErrMissingID, i))
		case dup:
			add(stepPtr+"/id", step.Title, fmt.Errorf("%w: step %q also at %s", ErrDuplicateID, step.ID, prev))
		default:
			steps[step.ID] = stepPtr
		}

		sections := make(map[string]string)
		for j, section := range step.Sections {
			secPtr := fmt.Sprintf("%s/sections/%d", stepPtr, j)
			switch prev, dup := sections[section.ID]; {
			case section.ID == "":
				add(secPtr+"/id", section.Title, fmt.Errorf("%w: section %d of step %q", ErrMissingID, j, step.ID))
			case dup:
				add(secPtr+"/id", section.Title, fmt.Errorf("%w: section %q also at %s", ErrDuplicateID, section.ID, prev))
			default:
				sections[section.ID] = secPtr
			}

			for k, field := range section.Fields {
				fieldPtr := fmt.Sprintf("%s/fields/%d", secPtr, k)
				switch prev, dup := fields[field.ID]; {
				case field.ID == "":
					add(fieldPtr+"/id", field.Label, fmt.Errorf("%w: field %d of section %q", ErrMissingID, k, section.ID))
				case dup:
					add(fieldPtr+"/id", field.Label, fmt.Errorf("%w: field %q also at %s", ErrDuplicateID, field.ID, prev))
				default:
					fields[field.ID] = fieldPtr
				}
			}
		}
	}
	return issues
}

// Check returns the joined errors of Issues, or nil for a well-formed tree.
func Check(cfg *CheckoutConfiguration) error {
	if cfg == nil {
		return errors.New("nil configuration")
	}
	issues := Issues(cfg)
	if len(issues) == 0 {
		return nil
	}
	errs := make([]error, 0, len(issues))
	for _, issue := range issues {
		errs = append(errs, fmt.Errorf("%s: %w", issue.JSONPointer, issue.err))
	}
	return errors.Join(errs...)
}
