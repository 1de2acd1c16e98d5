package assist

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// PromptBuilder turns a request into the messages sent to the model.
type PromptBuilder[In any] func(ctx context.Context, in In) ([]*schema.Message, error)

// Chain asks the model for exactly one thing: a call of its tool whose
// arguments decode into Out. The assistant never talks back to the merchant,
// so plain text replies count as failures.
type Chain[In, Out any] struct {
	prompt PromptBuilder[In]
	model  model.ToolCallingChatModel
	tool   *schema.ToolInfo
}

// NewChain derives the tool's parameter schema from Out.
func NewChain[In, Out any](chatModel model.ToolCallingChatModel, prompt PromptBuilder[In], toolName, toolDesc string) (*Chain[In, Out], error) {
	tool, err := utils.GoStruct2ToolInfo[Out](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("describe tool %s: %w", toolName, err)
	}
	return &Chain[In, Out]{prompt: prompt, model: chatModel, tool: tool}, nil
}

// Tool is the tool definition offered to the model.
func (c *Chain[In, Out]) Tool() *schema.ToolInfo {
	return c.tool
}

func (c *Chain[In, Out]) Invoke(ctx context.Context, in In) (*Out, error) {
	messages, err := c.prompt(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}
	reply, err := c.model.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{c.tool}),
		model.WithToolChoice(schema.ToolChoiceForced, c.tool.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	args, ok := c.arguments(reply)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoToolCall, reply.Content)
	}
	var out Out
	if err := sonic.UnmarshalString(args, &out); err != nil {
		return nil, fmt.Errorf("decode %s arguments: %w", c.tool.Name, err)
	}
	return &out, nil
}

// arguments picks the first call of the chain's tool. Some providers prepend
// unrelated calls even when the choice is forced; those are skipped.
func (c *Chain[In, Out]) arguments(reply *schema.Message) (string, bool) {
	if reply == nil {
		return "", false
	}
	for _, call := range reply.ToolCalls {
		if call.Function.Name == c.tool.Name {
			return call.Function.Arguments, true
		}
	}
	return "", false
}
