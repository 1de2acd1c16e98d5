package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/types"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestValidateField(t *testing.T) {
	zip := types.Field{
		ID:       "zip",
		Label:    "ZIP",
		Required: true,
		Validation: &types.ValidationRules{
			Pattern: `^\d{5}$`,
		},
	}
	qty := types.Field{
		ID:    "qty",
		Label: "Quantity",
		Validation: &types.ValidationRules{
			Min: floatPtr(1),
			Max: floatPtr(5),
		},
	}
	name := types.Field{
		ID:    "name",
		Label: "Name",
		Validation: &types.ValidationRules{
			MinLength:    intPtr(2),
			MaxLength:    intPtr(4),
			ErrorMessage: "",
		},
	}

	tests := []struct {
		name  string
		field types.Field
		value any
		want  string
	}{
		{"required nil", zip, nil, "ZIP is required"},
		{"required blank", zip, "   ", "ZIP is required"},
		{"required empty list", zip, []string{}, "ZIP is required"},
		{"required unchecked", zip, false, "ZIP is required"},
		{"pattern fails", zip, "abc", "ZIP has an invalid format"},
		{"pattern passes", zip, "12345", ""},
		{"optional empty skips rules", name, "", ""},
		{"too short", name, "a", "Name must be at least 2 characters"},
		{"too long", name, "abcde", "Name must be at most 4 characters"},
		{"runes not bytes", name, "äöü", ""},
		{"below min", qty, "0", "Quantity must be at least 1"},
		{"above max", qty, 6.0, "Quantity must be at most 5"},
		{"in range", qty, "3", ""},
		{"not a number", qty, "many", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(tt.field, tt.value))
		})
	}
}

func TestRequiredBeatsPattern(t *testing.T) {
	field := types.Field{
		ID:       "email",
		Label:    "Email",
		Required: true,
		Validation: &types.ValidationRules{
			Pattern: `@`,
		},
	}
	assert.Equal(t, "Email is required", ValidateField(field, ""))
}

func TestCustomMessageAppliesToEveryRule(t *testing.T) {
	field := types.Field{
		ID:       "code",
		Label:    "Code",
		Required: true,
		Validation: &types.ValidationRules{
			MinLength:    intPtr(3),
			ErrorMessage: "Enter a code",
		},
	}
	assert.Equal(t, "Enter a code", ValidateField(field, ""))
	assert.Equal(t, "Enter a code", ValidateField(field, "ab"))
	assert.Equal(t, "", ValidateField(field, "abc"))
}

func TestLengthPrecedesBounds(t *testing.T) {
	field := types.Field{
		ID:    "n",
		Label: "N",
		Validation: &types.ValidationRules{
			MaxLength: intPtr(2),
			Max:       floatPtr(10),
		},
	}
	assert.Equal(t, "N must be at most 2 characters", ValidateField(field, "100"))
}

func TestInvalidPatternIsSkippedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	v := New(zap.New(core))
	field := types.Field{
		ID:         "broken",
		Label:      "Broken",
		Validation: &types.ValidationRules{Pattern: `(unclosed`},
	}
	assert.Equal(t, "", v.ValidateField(field, "anything"))
	assert.Equal(t, "", v.ValidateField(field, "again"))
	assert.Equal(t, 1, logs.FilterMessage("invalid validation pattern, check skipped").Len())
}

func TestConditionalFieldExcluded(t *testing.T) {
	step := types.Step{
		ID: "s",
		Sections: []types.Section{{
			ID: "sec",
			Fields: []types.Field{
				{ID: "x", Label: "X"},
				{
					ID:          "dependent",
					Label:       "Dependent",
					Required:    true,
					Validation:  &types.ValidationRules{Pattern: `^\d+$`},
					Conditional: &types.Conditional{Field: "x", Operator: types.OperatorEquals, Value: "yes"},
				},
			},
		}},
	}

	for _, value := range []any{nil, "no", "YES", true} {
		errs := ValidateStep(step, types.FormData{"x": value, "dependent": "bad"})
		assert.NotContains(t, errs, "dependent")
		assert.Contains(t, errs, "x")
	}

	errs := ValidateStep(step, types.FormData{"x": "yes"})
	assert.Equal(t, "Dependent is required", errs["dependent"])
	assert.True(t, HasErrors(errs))
}

func TestUnsupportedOperatorHidesField(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	v := New(zap.New(core))
	step := types.Step{
		ID: "s",
		Sections: []types.Section{{
			Fields: []types.Field{{
				ID:          "f",
				Required:    true,
				Conditional: &types.Conditional{Field: "x", Operator: "not_equals", Value: "a"},
			}},
		}},
	}
	errs := v.ValidateStep(step, types.FormData{"x": "b"})
	assert.Empty(t, errs)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "f", logs.All()[0].ContextMap()["field"])

	_, err := IsVisible(step.Sections[0].Fields[0], nil)
	assert.ErrorIs(t, err, ErrUnsupportedOperator)
}

func TestHoldsComparesNumbers(t *testing.T) {
	cond := &types.Conditional{Field: "n", Operator: types.OperatorEquals, Value: 3}
	ok, err := Holds(cond, types.FormData{"n": 3.0})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = Holds(cond, types.FormData{"n": "3"})
	assert.False(t, ok)

	ok, _ = Holds(nil, nil)
	assert.True(t, ok)
}

func TestDefaultCheckoutSteps(t *testing.T) {
	cfg := defaults.Configuration()

	errs := ValidateStep(cfg.Steps[0], types.FormData{
		"email":       "buyer@example.com",
		"accountType": "personal",
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"address":     "12 Analytical Way",
		"city":        "London",
		"zipCode":     "1234",
		"country":     "GB",
	})
	assert.NotContains(t, errs, "companyName")
	assert.Equal(t, "Please enter a valid ZIP code", errs["zipCode"])
	assert.Equal(t, "", errs["email"])

	errs = ValidateStep(cfg.Steps[1], types.FormData{"paymentMethod": "paypal"})
	assert.False(t, HasErrors(errs))
	assert.NotContains(t, errs, "cardNumber")

	errs = ValidateStep(cfg.Steps[3], types.FormData{"terms": false})
	assert.Equal(t, "You must accept the terms to continue", errs["terms"])
}

func TestAdvance(t *testing.T) {
	clean := types.FieldErrors{"a": ""}
	dirty := types.FieldErrors{"a": "", "b": "B is required"}

	assert.Equal(t, Next, Advance(0, 4, clean))
	assert.Equal(t, Submit, Advance(3, 4, clean))
	assert.Equal(t, Stay, Advance(0, 4, dirty))
	assert.Equal(t, Stay, Advance(3, 4, dirty))
	assert.Equal(t, Next, Advance(1, 4, nil))
	assert.Equal(t, "submit", Submit.String())
}
