package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// EditRequest carries everything an assistant needs to turn a merchant
// instruction into configuration patch operations.
type EditRequest struct {
	Instruction  string
	Config       *CheckoutConfiguration
	ConfigSchema string
	AllowedPaths []string
	Issues       []Issue
	History      []EditTurn
}

// EditTurn is an earlier instruction of the same merchant and the number of
// operations it produced.
type EditTurn struct {
	Instruction string `json:"instruction"`
	Operations  int    `json:"operations"`
}

// FormatIssues renders issues as a markdown table.
func FormatIssues(issues []Issue) (string, error) {
	if len(issues) == 0 {
		return "", nil
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Pointer", "Node", "Problem")
	for _, issue := range issues {
		if err := table.Append(issue.JSONPointer, issue.DisplayName, issue.Description); err != nil {
			return "", fmt.Errorf("failed to append issue row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("failed to render issue table: %w", err)
	}
	return buf.String(), nil
}

func formatAllowedPaths(paths []string) string {
	if len(paths) == 0 {
		return "all (no restriction)"
	}
	var sb strings.Builder
	for _, path := range paths {
		sb.WriteString("- ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r *EditRequest) ToPromptMessage() (string, error) {
	configJSON, err := json.Marshal(r.Config)
	if err != nil {
		return "", err
	}
	sections := []string{
		fmt.Sprintf("# Checkout configuration JSON:\n```json\n%s\n```", string(configJSON)),
		fmt.Sprintf("# Allowed paths:\n%s", formatAllowedPaths(r.AllowedPaths)),
	}
	if r.ConfigSchema != "" {
		sections = append(sections, fmt.Sprintf("# Configuration schema JSON:\n```json\n%s\n```", r.ConfigSchema))
	}
	issues, err := FormatIssues(r.Issues)
	if err != nil {
		return "", err
	}
	if issues != "" {
		sections = append(sections, "# Known problems:\n"+issues)
	}
	if len(r.History) > 0 {
		var sb strings.Builder
		sb.WriteString("# Earlier instructions (already applied):")
		for _, turn := range r.History {
			fmt.Fprintf(&sb, "\n- %s (%d operations)", turn.Instruction, turn.Operations)
		}
		sections = append(sections, sb.String())
	}
	sections = append(sections, fmt.Sprintf("# Merchant instruction:\n%s", r.Instruction))
	return strings.Join(sections, "\n\n"), nil
}
