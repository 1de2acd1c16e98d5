// Package validation evaluates field rules and aggregates them per step.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/types"
)

var ErrUnsupportedOperator = errors.New("unsupported conditional operator")

// Validator caches compiled patterns. The zero value is not usable; use New.
type Validator struct {
	logger *zap.Logger

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

func New(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{logger: logger, patterns: map[string]*regexp.Regexp{}}
}

var std = New(nil)

// ValidateField runs the field rules against value with a silent validator.
func ValidateField(field types.Field, value any) string {
	return std.ValidateField(field, value)
}

// ValidateStep validates the visible fields of step with a silent validator.
func ValidateStep(step types.Step, data types.FormData) types.FieldErrors {
	return std.ValidateStep(step, data)
}

// ValidateField returns the first failing rule's message, or "" when value
// passes. Rules run in a fixed order: required, pattern, minLength,
// maxLength, min, max. Only required applies to an empty value.
func (v *Validator) ValidateField(field types.Field, value any) string {
	if isEmpty(value) {
		if field.Required {
			return message(field, fmt.Sprintf("%s is required", field.Label))
		}
		return ""
	}
	rules := field.Validation
	if rules == nil {
		return ""
	}
	if rules.Pattern != "" {
		if re := v.pattern(field.ID, rules.Pattern); re != nil && !re.MatchString(stringify(value)) {
			return message(field, fmt.Sprintf("%s has an invalid format", field.Label))
		}
	}
	if s, ok := value.(string); ok {
		n := utf8.RuneCountInString(s)
		if rules.MinLength != nil && n < *rules.MinLength {
			return message(field, fmt.Sprintf("%s must be at least %d characters", field.Label, *rules.MinLength))
		}
		if rules.MaxLength != nil && n > *rules.MaxLength {
			return message(field, fmt.Sprintf("%s must be at most %d characters", field.Label, *rules.MaxLength))
		}
	}
	if rules.Min != nil || rules.Max != nil {
		n := number(value)
		if rules.Min != nil && n < *rules.Min {
			return message(field, fmt.Sprintf("%s must be at least %s", field.Label, formatNumber(*rules.Min)))
		}
		if rules.Max != nil && n > *rules.Max {
			return message(field, fmt.Sprintf("%s must be at most %s", field.Label, formatNumber(*rules.Max)))
		}
	}
	return ""
}

// ValidateStep returns one entry per visible field of step. Fields whose
// conditional does not hold are left out of the result entirely.
func (v *Validator) ValidateStep(step types.Step, data types.FormData) types.FieldErrors {
	out := types.FieldErrors{}
	for _, section := range step.Sections {
		for _, field := range section.Fields {
			visible, err := IsVisible(field, data)
			if err != nil {
				v.logger.Warn("field treated as hidden",
					zap.String("step", step.ID),
					zap.String("field", field.ID),
					zap.Error(err))
				continue
			}
			if !visible {
				continue
			}
			out[field.ID] = v.ValidateField(field, data[field.ID])
		}
	}
	return out
}

func (v *Validator) pattern(fieldID, expr string) *regexp.Regexp {
	v.mu.Lock()
	defer v.mu.Unlock()
	if re, ok := v.patterns[expr]; ok {
		return re
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		v.logger.Warn("invalid validation pattern, check skipped",
			zap.String("field", fieldID),
			zap.String("pattern", expr),
			zap.Error(err))
		re = nil
	}
	v.patterns[expr] = re
	return re
}

func message(field types.Field, fallback string) string {
	if field.Validation != nil && field.Validation.ErrorMessage != "" {
		return field.Validation.ErrorMessage
	}
	return fallback
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case bool:
		return !v
	}
	return false
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(value)
}

// number converts value for min/max checks. Values that are not numeric
// become NaN, which never fails a bound.
func number(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
