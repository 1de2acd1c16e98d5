package treepath

import (
	"encoding/json"
	"reflect"
	"strings"
)

var rawMessageType = reflect.TypeOf(json.RawMessage(nil))

// Pointers lists the JSON pointer templates reachable in T. Array elements are
// written as "-" and map values as "*", matching the wildcard syntax accepted
// by patch.ValidateOperations.
func Pointers[T any]() []string {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil {
		return []string{}
	}
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return []string{}
	}

	w := &pointerWalker{seen: make(map[reflect.Type]bool)}
	w.walk(typ, "")
	return w.out
}

type pointerWalker struct {
	out  []string
	seen map[reflect.Type]bool
}

func (w *pointerWalker) walk(typ reflect.Type, prefix string) {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == rawMessageType || w.seen[typ] {
		return
	}

	switch typ.Kind() {
	case reflect.Struct:
		w.seen[typ] = true
		defer delete(w.seen, typ)
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			name := jsonName(field)
			if !field.IsExported() || name == "" {
				continue
			}
			p := prefix + "/" + name
			w.out = append(w.out, p)
			w.walk(field.Type, p)
		}
	case reflect.Slice, reflect.Array:
		p := prefix + "/-"
		w.out = append(w.out, p)
		if isStructLike(typ.Elem()) {
			w.walk(typ.Elem(), p)
		}
	case reflect.Map:
		p := prefix + "/*"
		w.out = append(w.out, p)
		if isStructLike(typ.Elem()) {
			w.walk(typ.Elem(), p)
		}
	}
}

func isStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}
