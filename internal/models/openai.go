package models

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIGenerator drives an OpenAI-compatible chat endpoint with a structured
// reply schema, so responses parse without prompt acrobatics.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	schema map[string]any
	logger *slog.Logger
}

// NewOpenAIGenerator builds the adapter. baseURL may be empty for the
// default endpoint; any OpenAI-compatible server works.
func NewOpenAIGenerator(apiKey, baseURL, model string, logger *slog.Logger) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	schema, err := replySchema()
	if err != nil {
		return nil, fmt.Errorf("failed to build reply schema: %w", err)
	}

	return &OpenAIGenerator{
		client: &client,
		model:  model,
		schema: schema,
		logger: logger,
	}, nil
}

// replySchema derives the JSON schema the endpoint must answer with.
func replySchema() (map[string]any, error) {
	s, err := jsonschema.For[Reply](nil)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (Reply, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemPrompt(req.Speaker)),
			openai.UserMessage(buildUserPrompt(req)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "npc_reply",
					Schema: g.schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		g.logger.Error("failed to call llm API", "error", err.Error())
		return Reply{}, fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("empty completion response")
	}

	var reply Reply
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &reply); err != nil {
		return Reply{}, fmt.Errorf("failed to parse reply: %w", err)
	}
	if strings.TrimSpace(reply.Text) == "" {
		return Reply{}, fmt.Errorf("model returned an empty line")
	}
	return reply, nil
}

func buildSystemPrompt(p SpeakerProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s in the world of Veilsong.", p.Name, p.Archetype)
	if p.Mood != "" {
		fmt.Fprintf(&b, " Your current mood is %s.", p.Mood)
	}
	if p.Relationship != "" {
		fmt.Fprintf(&b, " The person speaking to you is your %s.", p.Relationship)
	}
	if len(p.MemoryHighlights) > 0 {
		b.WriteString(" You remember:")
		for _, m := range p.MemoryHighlights {
			fmt.Fprintf(&b, " %s.", m)
		}
	}
	b.WriteString(" Answer with one short in-character line.")
	return b.String()
}

func buildUserPrompt(req GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "They say: %q", req.PlayerLine)
	if req.Intent != "" {
		fmt.Fprintf(&b, " (intent: %s)", req.Intent)
	}
	if req.Topic != "" {
		fmt.Fprintf(&b, " (topic: %s)", req.Topic)
	}
	return b.String()
}
