package patch

import (
	"fmt"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/tbxark/checkoutbuilder/types"
)

// Merge applies an RFC 7386 merge patch to doc.
func Merge(doc, mergePatch []byte) ([]byte, error) {
	out, err := jsonpatch.MergePatch(doc, mergePatch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	return out, nil
}

// MergeConfig merges updates into cfg; a null value deletes the key.
func MergeConfig(cfg *types.CheckoutConfiguration, updates map[string]any) (*types.CheckoutConfiguration, error) {
	doc, err := types.Encode(cfg)
	if err != nil {
		return nil, err
	}
	mp, err := sonic.Marshal(updates)
	if err != nil {
		return nil, fmt.Errorf("marshal merge patch: %w", err)
	}
	merged, err := Merge(doc, mp)
	if err != nil {
		return nil, err
	}
	return types.Decode(merged)
}

// MergeDiff returns the merge patch that turns from into to.
func MergeDiff(from, to *types.CheckoutConfiguration) ([]byte, error) {
	a, err := types.Encode(from)
	if err != nil {
		return nil, err
	}
	b, err := types.Encode(to)
	if err != nil {
		return nil, err
	}
	return jsonpatch.CreateMergePatch(a, b)
}
