// Package assist turns a merchant's plain-language instruction into JSON
// patch operations on the checkout configuration using a tool-calling chat
// model.
package assist

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/patch"
	"github.com/tbxark/checkoutbuilder/treepath"
	"github.com/tbxark/checkoutbuilder/types"
)

const (
	editToolName        = "edit_checkout"
	editToolDescription = "Generate RFC6902 JSON Patch operations that apply the merchant's instruction to the checkout configuration. Only change what the instruction asks for."
)

var (
	ErrNoToolCall = errors.New("model did not call the edit tool")
	ErrRejected   = errors.New("edit rejected")
)

// Generator produces patch operations for an edit request.
type Generator interface {
	Generate(ctx context.Context, req *types.EditRequest) (*patch.Operations, error)
}

type PatchGenerator struct {
	chain *Chain[*types.EditRequest, patch.Operations]
}

func NewPatchGenerator(chatModel model.ToolCallingChatModel) (*PatchGenerator, error) {
	chain, err := NewChain[*types.EditRequest, patch.Operations](
		chatModel,
		buildEditPrompt,
		editToolName,
		editToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &PatchGenerator{chain: chain}, nil
}

func (g *PatchGenerator) Generate(ctx context.Context, req *types.EditRequest) (*patch.Operations, error) {
	result, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	return result, nil
}

func buildEditPrompt(ctx context.Context, req *types.EditRequest) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf("You edit checkout page configurations. Call %s with RFC6902 JSON Patch operations. Rules: use JSON pointers or paths like steps[0].sections[1].fields[zipCode].label; use replace to change values and add to append; only touch allowed paths; keep step, section and field ids unique; if the instruction needs no change, return empty operations.", editToolName)
	userPrompt, err := req.ToPromptMessage()
	if err != nil {
		return nil, fmt.Errorf("format edit request: %w", err)
	}
	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}, nil
}

// Result is an applied edit.
type Result struct {
	Config     *types.CheckoutConfiguration `json:"config"`
	Operations []patch.Operation            `json:"operations"`
}

// Assistant validates and applies generated edits.
type Assistant struct {
	gen     Generator
	logger  *zap.Logger
	allowed []string
	schema  bool
	history *History
}

type Option func(*Assistant)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Assistant) { a.logger = logger }
}

// WithAllowedPaths restricts edits to the given pointer patterns.
func WithAllowedPaths(paths []string) Option {
	return func(a *Assistant) { a.allowed = paths }
}

// WithHistory feeds each tenant's earlier instructions into the prompt.
func WithHistory(h *History) Option {
	return func(a *Assistant) { a.history = h }
}

// WithSchema includes the configuration JSON schema in every prompt.
func WithSchema(include bool) Option {
	return func(a *Assistant) { a.schema = include }
}

func New(gen Generator, opts ...Option) *Assistant {
	a := &Assistant{
		gen:     gen,
		logger:  zap.NewNop(),
		allowed: treepath.Pointers[types.CheckoutConfiguration](),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Edit asks the generator for operations and applies them to cfg. The result
// must still pass types.Check; cfg itself is never modified.
func (a *Assistant) Edit(ctx context.Context, cfg *types.CheckoutConfiguration, instruction string) (res Result, err error) {
	ctx = callbacks.EnsureRunInfo(ctx, "CheckoutAssistant", "Assistant")
	ctx = callbacks.OnStart(ctx, map[string]any{
		"instruction": instruction,
	})
	defer func() {
		if r := recover(); r != nil {
			callbacks.OnError(ctx, fmt.Errorf("panic in Assistant.Edit: %v", r))
			panic(r)
		}
		if err != nil {
			callbacks.OnError(ctx, err)
			return
		}
		callbacks.OnEnd(ctx, map[string]any{
			"operations": res.Operations,
		})
	}()

	res, err = a.edit(ctx, cfg, instruction)
	if err != nil || a.history == nil {
		return res, err
	}
	if _, herr := a.history.Append(ctx, types.EditTurn{Instruction: instruction, Operations: len(res.Operations)}); herr != nil {
		a.logger.Warn("record edit history", zap.Error(herr))
	}
	return res, nil
}

// ClearHistory forgets the context tenant's earlier instructions.
func (a *Assistant) ClearHistory(ctx context.Context) error {
	if a.history == nil {
		return nil
	}
	return a.history.Clear(ctx)
}

func (a *Assistant) edit(ctx context.Context, cfg *types.CheckoutConfiguration, instruction string) (Result, error) {
	req := &types.EditRequest{
		Instruction:  instruction,
		Config:       cfg,
		AllowedPaths: a.allowed,
		Issues:       types.Issues(cfg),
	}
	if a.schema {
		s, err := types.JSONSchema()
		if err != nil {
			return Result{}, err
		}
		req.ConfigSchema = s
	}
	if a.history != nil {
		turns, err := a.history.Load(ctx)
		if err != nil {
			return Result{}, err
		}
		req.History = turns
	}

	generated, err := a.gen.Generate(ctx, req)
	if err != nil {
		a.logger.Error("generate edit", zap.Error(err))
		return Result{}, err
	}
	if generated == nil || len(generated.Ops) == 0 {
		return Result{Config: cfg, Operations: []patch.Operation{}}, nil
	}

	tree, err := types.ToTree(cfg)
	if err != nil {
		return Result{}, err
	}
	ops, err := patch.Resolve(tree, generated.Ops)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	if err := patch.ValidateOperations(ops, a.allowed); err != nil {
		a.logger.Warn("edit outside allowed paths", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	out, err := patch.Apply(cfg, ops)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	if err := types.Check(out); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	a.logger.Info("edit applied", zap.Int("operations", len(ops)))
	return Result{Config: out, Operations: ops}, nil
}
