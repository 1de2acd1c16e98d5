package types_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/types"
)

func TestOptionsDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want types.Options
	}{
		{"null", `null`, nil},
		{"array", `[{"value":"a","label":"A"}]`, types.Options{{Value: "a", Label: "A"}}},
		{"text", `"a|Alpha\r\n\n  b  \nc|"`, types.Options{{Value: "a", Label: "Alpha"}, {Value: "b", Label: "b"}, {Value: "c", Label: "c"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got types.Options
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionsText(t *testing.T) {
	opts := types.ParseOptions("us|United States\nca")
	assert.Equal(t, "us|United States\nca", opts.Text())
}

func TestFieldErrorsEncodeNull(t *testing.T) {
	errs := types.FieldErrors{"email": "Email is required", "phone": ""}
	data, err := json.Marshal(errs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"Email is required","phone":null}`, string(data))

	var back types.FieldErrors
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, errs, back)
	assert.True(t, back.Any())
	assert.False(t, types.FieldErrors{"phone": ""}.Any())
}

func TestCheckDefaults(t *testing.T) {
	assert.NoError(t, types.Check(defaults.Configuration()))
	assert.Empty(t, types.Issues(defaults.Configuration()))
	assert.Error(t, types.Check(nil))
}

func TestCheckReportsProblems(t *testing.T) {
	cfg := defaults.Configuration()
	cfg.CheckoutConfig.Theme.Spacing.LG = " "
	cfg.Steps[2].ID = ""
	cfg.Steps[3].ID = cfg.Steps[0].ID
	cfg.Steps[1].Sections[1].ID = cfg.Steps[1].Sections[0].ID
	cfg.Steps[1].Sections[0].Fields[0].ID = "zipCode"

	issues := types.Issues(cfg)
	pointers := make([]string, 0, len(issues))
	for _, issue := range issues {
		pointers = append(pointers, issue.JSONPointer)
	}
	assert.Equal(t, []string{
		"/checkoutConfig/theme/spacing/lg",
		"/steps/1/sections/0/fields/0/id",
		"/steps/1/sections/1/id",
		"/steps/2/id",
		"/steps/3/id",
	}, pointers)

	err := types.Check(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDuplicateID))
	assert.True(t, errors.Is(err, types.ErrMissingID))
	assert.True(t, errors.Is(err, types.ErrMissingSpacing))
}

func TestSectionIDsMayRepeatAcrossSteps(t *testing.T) {
	cfg := defaults.Configuration()
	cfg.Steps[1].Sections[0].ID = cfg.Steps[0].Sections[0].ID
	assert.NoError(t, types.Check(cfg))
}

func TestCodecRoundTrip(t *testing.T) {
	cfg := defaults.Configuration()
	clone, err := types.Clone(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, clone)
	clone.Steps[0].Title = "changed"
	assert.NotEqual(t, cfg.Steps[0].Title, clone.Steps[0].Title)

	tree, err := types.ToTree(cfg)
	require.NoError(t, err)
	steps := tree.(map[string]any)["steps"].([]any)
	assert.Len(t, steps, 4)

	back, err := types.FromTree(tree)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)

	_, err = types.FromTree(map[string]any{"steps": "nope"})
	assert.Error(t, err)
}

func TestJSONSchema(t *testing.T) {
	s, err := types.JSONSchema()
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	assert.Equal(t, "Checkout configuration", doc["title"])
	assert.Contains(t, s, "maxSelections")
}

func TestFormatIssues(t *testing.T) {
	out, err := types.FormatIssues(nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	cfg := defaults.Configuration()
	cfg.Steps[1].ID = cfg.Steps[0].ID
	out, err = types.FormatIssues(types.Issues(cfg))
	require.NoError(t, err)
	assert.Contains(t, out, "/steps/1/id")
	assert.Contains(t, out, "duplicate id")
}

func TestPromptMessage(t *testing.T) {
	req := &types.EditRequest{
		Instruction:  "Make phone required",
		Config:       defaults.Configuration(),
		AllowedPaths: []string{"/steps/-/sections/-/fields/-/required"},
	}
	msg, err := req.ToPromptMessage()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(msg, "# Merchant instruction:\nMake phone required"))
	assert.Contains(t, msg, "- /steps/-/sections/-/fields/-/required")
	assert.NotContains(t, msg, "# Known problems")
	assert.NotContains(t, msg, "# Configuration schema JSON")

	req.AllowedPaths = nil
	msg, err = req.ToPromptMessage()
	require.NoError(t, err)
	assert.Contains(t, msg, "all (no restriction)")
}

func TestPricingModelValid(t *testing.T) {
	assert.True(t, types.PricingYearly.Valid())
	assert.False(t, types.PricingModel("weekly").Valid())
}
