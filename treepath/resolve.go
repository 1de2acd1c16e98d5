package treepath

import (
	"fmt"
	"strconv"
	"strings"
)

// Get returns the value at path, or false when any segment is absent.
func Get(tree any, path string) (any, bool) {
	segments, err := Parse(path)
	if err != nil {
		return nil, false
	}
	return GetSegments(tree, segments)
}

func GetSegments(tree any, segments []Segment) (any, bool) {
	cur := tree
	for _, seg := range segments {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		child, ok := obj[seg.Key]
		if !ok {
			return nil, false
		}
		switch seg.Kind {
		case KindKey:
			cur = child
		case KindIndex:
			list, ok := child.([]any)
			if !ok || seg.Index >= len(list) {
				return nil, false
			}
			cur = list[seg.Index]
		case KindFieldID:
			list, ok := child.([]any)
			if !ok {
				return nil, false
			}
			idx := FieldIndex(list, seg.ID)
			if idx < 0 {
				return nil, false
			}
			cur = list[idx]
		}
	}
	return cur, true
}

// Set returns a copy of tree with value stored at path. Every map and slice
// on the way from the root to the parent is shallow-cloned; everything else
// is shared with the input. Missing objects are created, missing array slots
// are filled with empty objects. Field id segments never create entries.
func Set(tree any, path string, value any) (any, error) {
	segments, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return SetSegments(tree, segments, value)
}

func SetSegments(tree any, segments []Segment, value any) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	return setAt(tree, segments, value, 0)
}

func setAt(node any, segments []Segment, value any, depth int) (any, error) {
	if depth == len(segments) {
		return value, nil
	}
	seg := segments[depth]

	var obj map[string]any
	switch n := node.(type) {
	case nil:
		obj = map[string]any{}
	case map[string]any:
		obj = cloneObject(n)
	default:
		return nil, fmt.Errorf("%w: %s is %T", ErrNotContainer, Join(segments[:depth]), node)
	}

	if seg.Kind == KindKey {
		child, err := setAt(obj[seg.Key], segments, value, depth+1)
		if err != nil {
			return nil, err
		}
		obj[seg.Key] = child
		return obj, nil
	}

	var list []any
	switch l := obj[seg.Key].(type) {
	case nil:
	case []any:
		list = l
	default:
		return nil, fmt.Errorf("%w: %s is %T", ErrNotContainer, Join(segments[:depth+1]), l)
	}

	index := seg.Index
	if seg.Kind == KindFieldID {
		index = FieldIndex(list, seg.ID)
		if index < 0 {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, seg.ID)
		}
	}

	size := len(list)
	if index >= size {
		size = index + 1
	}
	next := make([]any, size)
	copy(next, list)
	for i := len(list); i < size; i++ {
		next[i] = map[string]any{}
	}

	child, err := setAt(next[index], segments, value, depth+1)
	if err != nil {
		return nil, err
	}
	next[index] = child
	obj[seg.Key] = next
	return obj, nil
}

// FieldIndex finds the first element of fields whose "id" equals id.
func FieldIndex(fields []any, id string) int {
	for i, f := range fields {
		obj, ok := f.(map[string]any)
		if !ok {
			continue
		}
		if fid, ok := obj["id"].(string); ok && fid == id {
			return i
		}
	}
	return -1
}

// Pointer converts path into an RFC 6901 JSON pointer against tree, resolving
// field ids to their current positions.
func Pointer(tree any, path string) (string, error) {
	segments, err := Parse(path)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	cur := tree
	for i, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(escapeToken(seg.Key))
		obj, _ := cur.(map[string]any)
		child := obj[seg.Key]
		switch seg.Kind {
		case KindKey:
			cur = child
		case KindIndex:
			sb.WriteByte('/')
			sb.WriteString(strconv.Itoa(seg.Index))
			list, _ := child.([]any)
			cur = nil
			if seg.Index < len(list) {
				cur = list[seg.Index]
			}
		case KindFieldID:
			list, _ := child.([]any)
			idx := FieldIndex(list, seg.ID)
			if idx < 0 {
				return "", fmt.Errorf("%w: %q at %s", ErrFieldNotFound, seg.ID, Join(segments[:i+1]))
			}
			sb.WriteByte('/')
			sb.WriteString(strconv.Itoa(idx))
			cur = list[idx]
		}
	}
	return sb.String(), nil
}

func escapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
