package assist

import (
	"context"
	"slices"

	"github.com/tbxark/checkoutbuilder/store"
	"github.com/tbxark/checkoutbuilder/types"
)

const DefaultHistorySize = 10

// History keeps each tenant's most recent applied instructions so follow-up
// requests such as "now do the same for the payment step" have context.
type History struct {
	turns store.Scoped[[]types.EditTurn]
	keep  int
}

// NewHistory keeps the last keep turns per tenant; keep <= 0 keeps
// DefaultHistorySize.
func NewHistory(cache store.Cache[[]types.EditTurn], keep int) *History {
	if keep <= 0 {
		keep = DefaultHistorySize
	}
	return &History{
		turns: store.NewScoped(cache, "assist:history", store.Tenant),
		keep:  keep,
	}
}

func NewMemoryHistory(keep int) *History {
	return NewHistory(store.NewMemoryCache[[]types.EditTurn](), keep)
}

func (h *History) Load(ctx context.Context) ([]types.EditTurn, error) {
	turns, _, err := h.turns.Get(ctx)
	return slices.Clone(turns), err
}

// Append records turn, skipping a repeat of the previous instruction, and
// trims to the newest entries.
func (h *History) Append(ctx context.Context, turn types.EditTurn) ([]types.EditTurn, error) {
	turns, err := h.Load(ctx)
	if err != nil {
		return nil, err
	}
	if n := len(turns); n > 0 && turns[n-1].Instruction == turn.Instruction {
		turns[n-1] = turn
	} else {
		turns = append(turns, turn)
	}
	if len(turns) > h.keep {
		turns = turns[len(turns)-h.keep:]
	}
	if err := h.turns.Set(ctx, turns); err != nil {
		return nil, err
	}
	return turns, nil
}

func (h *History) Clear(ctx context.Context) error {
	return h.turns.Del(ctx)
}
