package mutate

import (
	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// shallowMerge overlays updates on the top-level keys of node.
func shallowMerge[T any](node T, updates map[string]any) (T, error) {
	var out T
	data, err := sonic.Marshal(node)
	if err != nil {
		return out, err
	}
	obj := map[string]any{}
	if err := sonic.Unmarshal(data, &obj); err != nil {
		return out, err
	}
	for k, v := range updates {
		obj[k] = v
	}
	data, err = sonic.Marshal(obj)
	if err != nil {
		return out, err
	}
	err = sonic.Unmarshal(data, &out)
	return out, err
}

// deepMerge applies updates to node as a JSON merge patch. A null value
// removes the key.
func deepMerge[T any](node T, updates map[string]any) (T, error) {
	var out T
	doc, err := sonic.Marshal(node)
	if err != nil {
		return out, err
	}
	patch, err := sonic.Marshal(updates)
	if err != nil {
		return out, err
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return out, err
	}
	err = sonic.Unmarshal(merged, &out)
	return out, err
}
