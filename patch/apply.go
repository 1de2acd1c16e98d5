package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/tbxark/checkoutbuilder/treepath"
	"github.com/tbxark/checkoutbuilder/types"
)

// Apply runs ops against cfg and returns the patched copy. cfg is not
// modified.
func Apply(cfg *types.CheckoutConfiguration, ops []Operation) (*types.CheckoutConfiguration, error) {
	return ApplyTo(cfg, ops)
}

// ApplyTo runs ops against the JSON form of current and decodes the result
// back into T. Dotted paths are resolved and ops are normalised with
// FixOperations first.
func ApplyTo[T any](current T, ops []Operation) (T, error) {
	var zero T
	if len(ops) == 0 {
		return current, nil
	}

	doc, err := sonic.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("marshal current state: %w", err)
	}
	var tree any
	if err := sonic.Unmarshal(doc, &tree); err != nil {
		return zero, fmt.Errorf("decode current state: %w", err)
	}

	ops, err = Resolve(tree, ops)
	if err != nil {
		return zero, err
	}
	ops = FixOperations(tree, ops)

	raw, err := sonic.Marshal(ops)
	if err != nil {
		return zero, fmt.Errorf("marshal operations: %w", err)
	}
	p, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	modified, err := p.Apply(doc)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}

	var out T
	if err := sonic.Unmarshal(modified, &out); err != nil {
		return zero, fmt.Errorf("patched document does not fit %T: %w", zero, err)
	}
	return out, nil
}

// Resolve converts dotted Path and From values to JSON pointers against tree.
func Resolve(tree any, ops []Operation) ([]Operation, error) {
	out := make([]Operation, len(ops))
	for i, op := range ops {
		var err error
		if op.Path, err = resolvePath(tree, op.Path); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if op.From != "" {
			if op.From, err = resolvePath(tree, op.From); err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
		}
		out[i] = op
	}
	return out, nil
}

func resolvePath(tree any, path string) (string, error) {
	if path == "" || strings.HasPrefix(path, "/") {
		return path, nil
	}
	return treepath.Pointer(tree, path)
}

// FixOperations relaxes ops so that a replace of a missing node becomes an
// add and a remove of a missing node is dropped.
func FixOperations(tree any, ops []Operation) []Operation {
	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		switch op.Op {
		case OpReplace:
			if !exists(tree, op.Path) {
				op.Op = OpAdd
			}
		case OpRemove:
			if !exists(tree, op.Path) {
				continue
			}
		}
		fixed = append(fixed, op)
	}
	return fixed
}

func exists(tree any, pointer string) bool {
	if pointer == "" {
		return true
	}
	if !strings.HasPrefix(pointer, "/") {
		return false
	}
	node := tree
	for _, token := range strings.Split(pointer[1:], "/") {
		token = strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[token]
			if !ok {
				return false
			}
			node = v
		case []any:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(n) {
				return false
			}
			node = n[i]
		default:
			return false
		}
	}
	return true
}
