// Package treepath addresses nodes of a checkout configuration with dotted,
// bracketed paths such as "steps[0].sections[1].fields[2].styling".
//
// Two resolution strategies exist. A bracket holding a non-negative integer is
// a positional index. A bracket on a "fields" segment holding anything else
// (or a quoted value) is a field id and is resolved by scanning the section's
// field list for a matching "id".
package treepath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidPath   = errors.New("invalid path")
	ErrNotContainer  = errors.New("path traverses a non-container value")
	ErrFieldNotFound = errors.New("field id not found")
	ErrUnknownKey    = errors.New("path names a key the configuration does not have")
)

const fieldsKey = "fields"

type Kind int

const (
	KindKey Kind = iota
	KindIndex
	KindFieldID
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindIndex:
		return "index"
	case KindFieldID:
		return "field_id"
	default:
		return "unknown"
	}
}

type Segment struct {
	Key   string
	Kind  Kind
	Index int
	ID    string
}

func (s Segment) String() string {
	switch s.Kind {
	case KindIndex:
		return fmt.Sprintf("%s[%d]", s.Key, s.Index)
	case KindFieldID:
		if _, err := strconv.Atoi(s.ID); err == nil {
			return fmt.Sprintf("%s[%q]", s.Key, s.ID)
		}
		return fmt.Sprintf("%s[%s]", s.Key, s.ID)
	default:
		return s.Key
	}
}

// Parse splits path into segments. Empty segments, unbalanced brackets,
// negative indexes and id lookups outside "fields" are rejected.
func Parse(path string) ([]Segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	parts := strings.Split(path, ".")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q: %v", ErrInvalidPath, part, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func parseSegment(part string) (Segment, error) {
	if part == "" {
		return Segment{}, errors.New("empty segment")
	}
	open := strings.IndexByte(part, '[')
	if open < 0 {
		if strings.ContainsRune(part, ']') {
			return Segment{}, errors.New("unbalanced bracket")
		}
		return Segment{Key: part, Kind: KindKey}, nil
	}
	if !strings.HasSuffix(part, "]") || open == 0 {
		return Segment{}, errors.New("malformed bracket")
	}
	key := part[:open]
	arg := part[open+1 : len(part)-1]
	if arg == "" || strings.ContainsAny(arg, "[]") {
		return Segment{}, errors.New("malformed bracket")
	}

	if quoted, ok := unquote(arg); ok {
		if key != fieldsKey {
			return Segment{}, fmt.Errorf("id lookup is only supported on %q", fieldsKey)
		}
		return Segment{Key: key, Kind: KindFieldID, ID: quoted}, nil
	}
	if index, err := strconv.Atoi(arg); err == nil {
		if index < 0 {
			return Segment{}, errors.New("negative index")
		}
		return Segment{Key: key, Kind: KindIndex, Index: index}, nil
	}
	if key != fieldsKey {
		return Segment{}, fmt.Errorf("non-numeric index %q", arg)
	}
	return Segment{Key: key, Kind: KindFieldID, ID: arg}, nil
}

func unquote(arg string) (string, bool) {
	if len(arg) < 2 {
		return "", false
	}
	first, last := arg[0], arg[len(arg)-1]
	if (first == '"' || first == '\'') && first == last {
		return arg[1 : len(arg)-1], true
	}
	return "", false
}

// Join renders segments back into path syntax.
func Join(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}
