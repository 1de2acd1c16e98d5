package patch

import (
	"fmt"
	"strings"
)

// ValidateOperations checks every Path and From against allowed. An allowed
// pattern may use "-" or "*" for any single segment. An empty allowed list
// permits everything.
func ValidateOperations(ops []Operation, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	patterns := make([][]string, 0, len(allowed))
	for _, a := range allowed {
		patterns = append(patterns, strings.Split(a, "/"))
	}
	for i, op := range ops {
		if !pathAllowed(op.Path, patterns) {
			return fmt.Errorf("operation %d: %q: %w", i, op.Path, ErrPathNotAllowed)
		}
		if op.From != "" && !pathAllowed(op.From, patterns) {
			return fmt.Errorf("operation %d: from %q: %w", i, op.From, ErrPathNotAllowed)
		}
	}
	return nil
}

func pathAllowed(path string, patterns [][]string) bool {
	segments := strings.Split(path, "/")
	for _, pattern := range patterns {
		if matchSegments(pattern, segments) {
			return true
		}
	}
	return false
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if p == "-" || p == "*" {
			continue
		}
		if p != segments[i] {
			return false
		}
	}
	return true
}
