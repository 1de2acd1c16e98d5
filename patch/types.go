// Package patch applies, validates and computes JSON patches over a checkout
// configuration.
package patch

import "errors"

const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpMove    = "move"
	OpCopy    = "copy"
	OpTest    = "test"
)

var (
	ErrPathNotAllowed = errors.New("path is not in the allowed set")
	ErrInvalidPatch   = errors.New("invalid patch")
)

// Operation is one RFC 6902 operation. Path and From may also be written as
// dotted paths such as "steps[0].sections[1].fields[zipCode].label"; they are
// converted to JSON pointers before the patch is applied.
type Operation struct {
	Op    string `json:"op" jsonschema:"enum=add,enum=remove,enum=replace,enum=move,enum=copy,enum=test"`
	Path  string `json:"path" jsonschema:"description=JSON pointer or dotted path of the target node"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Operations is the argument payload of a configuration edit.
type Operations struct {
	Ops []Operation `json:"ops" jsonschema:"description=RFC 6902 operations to apply in order"`
}
