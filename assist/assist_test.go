package assist

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/checkoutbuilder/defaults"
	"github.com/tbxark/checkoutbuilder/patch"
	"github.com/tbxark/checkoutbuilder/store"
	"github.com/tbxark/checkoutbuilder/types"
)

type fakeModel struct {
	leading   []schema.ToolCall
	arguments string
	content   string
	err       error
	prompts   [][]*schema.Message
}

func (m *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.prompts = append(m.prompts, input)
	if m.err != nil {
		return nil, m.err
	}
	msg := &schema.Message{Role: schema.Assistant, Content: m.content}
	msg.ToolCalls = append(msg.ToolCalls, m.leading...)
	if m.arguments != "" {
		msg.ToolCalls = append(msg.ToolCalls, schema.ToolCall{
			ID:       "call-1",
			Function: schema.FunctionCall{Name: editToolName, Arguments: m.arguments},
		})
	}
	return msg, nil
}

func (m *fakeModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func (m *fakeModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func newAssistant(t *testing.T, m *fakeModel, opts ...Option) *Assistant {
	t.Helper()
	gen, err := NewPatchGenerator(m)
	require.NoError(t, err)
	return New(gen, opts...)
}

func TestEditAppliesOperations(t *testing.T) {
	m := &fakeModel{arguments: `{"ops":[
		{"op":"replace","path":"/checkoutConfig/theme/colors/primary","value":"#16a34a"},
		{"op":"replace","path":"steps[0].sections[1].fields[zipCode].label","value":"Postcode"}
	]}`}
	a := newAssistant(t, m)
	cfg := defaults.Configuration()

	res, err := a.Edit(context.Background(), cfg, "make it green and call the zip a postcode")
	require.NoError(t, err)
	assert.Equal(t, "#16a34a", res.Config.CheckoutConfig.Theme.Colors.Primary)
	assert.Equal(t, "Postcode", res.Config.Steps[0].Sections[1].Fields[4].Label)
	assert.Equal(t, "/steps/0/sections/1/fields/4/label", res.Operations[1].Path)
	assert.Equal(t, "#3b82f6", cfg.CheckoutConfig.Theme.Colors.Primary)

	require.Len(t, m.prompts, 1)
	user := m.prompts[0][1].Content
	assert.Contains(t, user, "make it green")
	assert.Contains(t, user, "/steps/-/sections/-/fields/-/label")
}

func TestEditWithNoOperations(t *testing.T) {
	a := newAssistant(t, &fakeModel{arguments: `{"ops":[]}`})
	cfg := defaults.Configuration()
	res, err := a.Edit(context.Background(), cfg, "looks fine")
	require.NoError(t, err)
	assert.Same(t, cfg, res.Config)
	assert.Empty(t, res.Operations)
}

func TestEditRejectsDisallowedPath(t *testing.T) {
	a := newAssistant(t,
		&fakeModel{arguments: `{"ops":[{"op":"replace","path":"/version","value":"9"}]}`},
		WithAllowedPaths([]string{"/checkoutConfig/theme/colors/*"}),
	)
	_, err := a.Edit(context.Background(), defaults.Configuration(), "bump version")
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, patch.ErrPathNotAllowed)
}

func TestEditRejectsDuplicateIDs(t *testing.T) {
	a := newAssistant(t, &fakeModel{arguments: `{"ops":[{"op":"replace","path":"/steps/1/id","value":"customer-info"}]}`})
	_, err := a.Edit(context.Background(), defaults.Configuration(), "rename payment step")
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, types.ErrDuplicateID)
}

func TestEditWithoutToolCall(t *testing.T) {
	a := newAssistant(t, &fakeModel{content: "I cannot help"})
	_, err := a.Edit(context.Background(), defaults.Configuration(), "?")
	assert.ErrorIs(t, err, ErrNoToolCall)
}

func TestEditSkipsOtherToolCalls(t *testing.T) {
	m := &fakeModel{
		leading:   []schema.ToolCall{{ID: "call-0", Function: schema.FunctionCall{Name: "lookup_docs", Arguments: `{"q":"x"}`}}},
		arguments: `{"ops":[{"op":"replace","path":"steps[0].title","value":"You"}]}`,
	}
	res, err := newAssistant(t, m).Edit(context.Background(), defaults.Configuration(), "rename the first step")
	require.NoError(t, err)
	assert.Equal(t, "You", res.Config.Steps[0].Title)

	m = &fakeModel{leading: m.leading}
	_, err = newAssistant(t, m).Edit(context.Background(), defaults.Configuration(), "rename the first step")
	assert.ErrorIs(t, err, ErrNoToolCall)
}

func TestEditModelFailure(t *testing.T) {
	boom := errors.New("rate limited")
	a := newAssistant(t, &fakeModel{err: boom})
	_, err := a.Edit(context.Background(), defaults.Configuration(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestPromptIncludesSchemaAndIssues(t *testing.T) {
	m := &fakeModel{arguments: `{"ops":[]}`}
	a := newAssistant(t, m, WithSchema(true))
	cfg := defaults.Configuration()
	cfg.CheckoutConfig.Theme.Spacing.XL = ""

	_, err := a.Edit(context.Background(), cfg, "fix spacing")
	require.NoError(t, err)
	user := m.prompts[0][1].Content
	assert.Contains(t, user, "# Configuration schema JSON")
	assert.Contains(t, user, "/checkoutConfig/theme/spacing/xl")
	assert.True(t, strings.HasPrefix(m.prompts[0][0].Content, "You edit checkout page configurations"))
}

func TestEditHistoryFeedsPrompt(t *testing.T) {
	m := &fakeModel{arguments: `{"ops":[{"op":"replace","path":"/checkoutConfig/theme/colors/primary","value":"#16a34a"}]}`}
	h := NewMemoryHistory(2)
	a := newAssistant(t, m, WithHistory(h))
	ctx := store.WithTenant(context.Background(), "acme")
	cfg := defaults.Configuration()

	for _, instruction := range []string{"make it green", "make it green", "again", "once more"} {
		_, err := a.Edit(ctx, cfg, instruction)
		require.NoError(t, err)
	}
	require.Len(t, m.prompts, 4)
	assert.NotContains(t, m.prompts[0][1].Content, "# Earlier instructions")
	assert.Contains(t, m.prompts[1][1].Content, "- make it green (1 operations)")

	turns, err := h.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.EditTurn{{Instruction: "again", Operations: 1}, {Instruction: "once more", Operations: 1}}, turns)

	other, err := h.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, a.ClearHistory(ctx))
	turns, err = h.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestFailedEditIsNotRecorded(t *testing.T) {
	h := NewMemoryHistory(0)
	a := newAssistant(t, &fakeModel{err: errors.New("down")}, WithHistory(h))
	_, err := a.Edit(context.Background(), defaults.Configuration(), "x")
	require.Error(t, err)
	turns, err := h.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestLiveEdit(t *testing.T) {
	if os.Getenv("CHECKOUTBUILDER_RUN_LIVE_TESTS") != "1" {
		t.Skip("set CHECKOUTBUILDER_RUN_LIVE_TESTS=1 to run live LLM tests")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY is empty")
	}
	ctx := context.Background()
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   os.Getenv("OPENAI_MODEL"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	})
	require.NoError(t, err)

	gen, err := NewPatchGenerator(chatModel)
	require.NoError(t, err)
	res, err := New(gen).Edit(ctx, defaults.Configuration(), "Change the primary color to #000000")
	require.NoError(t, err)
	assert.Equal(t, "#000000", res.Config.CheckoutConfig.Theme.Colors.Primary)
}
