// Package gateway is the single seam between the pipeline and the remote LLM.
// It owns credentials, the daily call budget, and transport error mapping;
// the rest of the core never sees provider details.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/casedeck/casedeck/internal/config"
	"github.com/casedeck/casedeck/internal/models"
)

// Request describes one model invocation. When Schema is set the response is
// guaranteed to be a JSON document; otherwise the raw text comes back as-is.
type Request struct {
	Prompt       string
	SystemPrompt string
	Schema       *jsonschema.Definition
	SchemaName   string
	Model        string
	Temperature  float32
	MaxTokens    int
}

// Invoker is the gateway contract consumed by the pipeline.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (json.RawMessage, error)
}

// OpenAIGateway implements Invoker against the OpenAI chat completions API.
type OpenAIGateway struct {
	client    *openai.Client
	model     string
	maxTokens int
	budget    *dailyBudget
}

// New creates a gateway from configuration.
func New(cfg *config.LLMConfig, clock models.Clock) (*OpenAIGateway, error) {
	if cfg.APIKey == "" {
		return nil, models.NewError(models.KindMisconfigured, "LLM API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &OpenAIGateway{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		budget:    newDailyBudget(cfg.MaxCallsPerDay, clock),
	}, nil
}

// Invoke sends one prompt to the model. Cost is charged per call, including
// failed ones past the budget check; idempotence is not assumed.
func (g *OpenAIGateway) Invoke(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := g.budget.reserve(); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = g.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}

	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
	if req.Schema != nil {
		name := req.SchemaName
		if name == "" {
			name = "response"
		}
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   name,
				Schema: req.Schema,
			},
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapProviderError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, models.NewError(models.KindTransportFailure, "model returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if req.Schema != nil {
		content = stripCodeFence(content)
		if !json.Valid([]byte(content)) {
			return nil, models.NewError(models.KindSchemaViolation, "model response is not valid JSON")
		}
	}
	return json.RawMessage(content), nil
}

// mapProviderError converts provider and transport failures into the stable
// error kinds the pipeline surfaces.
func mapProviderError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return models.WrapError(models.KindMisconfigured, err, "provider rejected credentials")
		case 429:
			return models.WrapError(models.KindRateLimited, err, "provider rate limit hit")
		}
		return models.WrapError(models.KindTransportFailure, err, "provider request failed")
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return models.WrapError(models.KindTransportFailure, err, "provider request failed")
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return models.WrapError(models.KindTransportFailure, err, "network failure reaching provider")
	}

	return models.WrapError(models.KindTransportFailure, err, "LLM call failed")
}

// stripCodeFence unwraps ```json fences some models still emit around
// structured output.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
