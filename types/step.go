package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Step is one page of a multi-step checkout. Rendering order is slice order;
// Order is carried for compatibility and is not used for sorting.
type Step struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Sections    []Section    `json:"sections"`
	Order       *int         `json:"order,omitempty"`
	Required    *bool        `json:"required,omitempty"`
	Visible     *bool        `json:"visible,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty"`
}

// Section groups fields or addons. Both slices may be populated at once.
type Section struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Fields        []Field `json:"fields,omitempty"`
	Addons        []Addon `json:"addons,omitempty"`
	DisplayType   string  `json:"displayType,omitempty" jsonschema:"enum=list,enum=grid,enum=cards"`
	MaxSelections int     `json:"maxSelections,omitempty" jsonschema:"description=Upper bound on selected addons; 0 means unlimited"`
}

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldNumber   FieldType = "number"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldDate     FieldType = "date"
	FieldFile     FieldType = "file"
	FieldCard     FieldType = "card"
)

type Field struct {
	ID           string           `json:"id"`
	Type         FieldType        `json:"type"`
	Label        string           `json:"label"`
	Placeholder  string           `json:"placeholder,omitempty"`
	Required     bool             `json:"required"`
	Validation   *ValidationRules `json:"validation,omitempty"`
	Styling      Style            `json:"styling,omitempty"`
	Conditional  *Conditional     `json:"conditional,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty"`
	Options      Options          `json:"options,omitempty"`
}

type ValidationRules struct {
	Pattern      string   `json:"pattern,omitempty"`
	MinLength    *int     `json:"minLength,omitempty"`
	MaxLength    *int     `json:"maxLength,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}

const OperatorEquals = "equals"

// Conditional shows the owning node only when FormData[Field] satisfies Operator against Value.
type Conditional struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type Option struct {
	Value       string  `json:"value"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
}

// Options decodes from either a JSON array of Option objects or a
// newline-delimited string as produced by the field editor.
type Options []Option

func (o *Options) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*o = ParseOptions(raw)
		return nil
	}
	var list []Option
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*o = list
	return nil
}

// ParseOptions splits editor text into options, one per non-blank line.
// A line of the form "value|label" sets both parts; otherwise the trimmed
// line is used as value and label.
func ParseOptions(text string) Options {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make(Options, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		value, label, ok := strings.Cut(line, "|")
		if !ok {
			out = append(out, Option{Value: line, Label: line})
			continue
		}
		value, label = strings.TrimSpace(value), strings.TrimSpace(label)
		if label == "" {
			label = value
		}
		out = append(out, Option{Value: value, Label: label})
	}
	return out
}

// Text renders options back into the newline-delimited editor format.
func (o Options) Text() string {
	lines := make([]string, 0, len(o))
	for _, opt := range o {
		if opt.Label == "" || opt.Label == opt.Value {
			lines = append(lines, opt.Value)
			continue
		}
		lines = append(lines, opt.Value+"|"+opt.Label)
	}
	return strings.Join(lines, "\n")
}

// Addon is an optional purchasable extra. Quantity is zero in the catalog
// copy and set once the addon is selected.
type Addon struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Type        string  `json:"type,omitempty" jsonschema:"enum=one-time,enum=recurring"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
	MaxQuantity int     `json:"maxQuantity,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
}

const DefaultMaxAddonQuantity = 10

// QuantityLimit returns MaxQuantity, or DefaultMaxAddonQuantity when unset.
func (a Addon) QuantityLimit() int {
	if a.MaxQuantity > 0 {
		return a.MaxQuantity
	}
	return DefaultMaxAddonQuantity
}
