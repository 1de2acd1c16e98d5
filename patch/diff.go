package patch

import (
	"reflect"
	"slices"
	"strings"

	"github.com/tbxark/checkoutbuilder/types"
)

// Diff returns operations that turn from into to. Objects are compared key
// by key; arrays that differ are replaced whole.
func Diff(from, to *types.CheckoutConfiguration) ([]Operation, error) {
	a, err := types.ToTree(from)
	if err != nil {
		return nil, err
	}
	b, err := types.ToTree(to)
	if err != nil {
		return nil, err
	}
	ops := make([]Operation, 0)
	diffNode("", a, b, &ops)
	return ops, nil
}

func diffNode(path string, from, to any, ops *[]Operation) {
	fromObj, ok1 := from.(map[string]any)
	toObj, ok2 := to.(map[string]any)
	if ok1 && ok2 {
		diffObject(path, fromObj, toObj, ops)
		return
	}
	if !reflect.DeepEqual(from, to) {
		*ops = append(*ops, Operation{Op: OpReplace, Path: path, Value: to})
	}
}

func diffObject(path string, from, to map[string]any, ops *[]Operation) {
	for _, key := range sortedKeys(from) {
		if _, ok := to[key]; !ok {
			*ops = append(*ops, Operation{Op: OpRemove, Path: path + "/" + escape(key)})
		}
	}
	for _, key := range sortedKeys(to) {
		p := path + "/" + escape(key)
		prev, ok := from[key]
		if !ok {
			*ops = append(*ops, Operation{Op: OpAdd, Path: p, Value: to[key]})
			continue
		}
		diffNode(p, prev, to[key], ops)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func escape(token string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}
