package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client against any OpenAI-compatible
// chat-completions endpoint using the official openai-go SDK.
type OpenAIClient struct {
	settings Settings
	opts     []option.RequestOption
}

// NewOpenAIClient validates settings and returns a client. BaseURL is
// optional and allows OpenAI-compatible gateways.
func NewOpenAIClient(settings Settings) (*OpenAIClient, error) {
	if settings.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	if settings.Model == "" {
		return nil, errors.New("model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(settings.APIKey)}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}
	return &OpenAIClient{settings: settings, opts: opts}, nil
}

// Complete makes one chat-completions call and returns the raw message
// content. When req.Schema is set the response format is constrained to the
// declared JSON schema in strict mode.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	client := openai.NewClient(c.opts...)

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.Instruction),
	}
	for _, t := range req.Turns {
		switch t.Role {
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(t.Content))
		default:
			msgs = append(msgs, openai.UserMessage(t.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(req.Input))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.settings.Model),
		Messages:    msgs,
		Temperature: openai.Float(c.settings.Temperature),
	}
	if c.settings.Deterministic {
		params.Seed = openai.Int(c.settings.Seed)
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.Schema.Name,
					Schema: req.Schema.Definition,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
