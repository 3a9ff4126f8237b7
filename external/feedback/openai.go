package feedback

import (
	"context"
	"errors"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
	"github.com/speakband/speakband/internal/feedback"
)

// Low sampling temperature: rater consistency matters more than creative
// phrasing.
const samplingTemperature = 0.3

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(cfg OpenAIConfig) feedback.Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

// Generate scores one response. A transport failure is fatal and aborts the
// pipeline; a successful call whose content cannot be parsed yields the fixed
// fallback payload instead, so a formatting glitch never blocks the user.
func (g *OpenAIGenerator) Generate(ctx context.Context, input feedback.Input) (feedback.Payload, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: feedback.BuildPrompt(input)},
		},
		Temperature: samplingTemperature,
	})
	if err != nil {
		return feedback.Payload{}, generationError(err)
	}
	if len(resp.Choices) == 0 {
		return feedback.Payload{}, &feedback.GenerationError{Message: "completion has no choices"}
	}

	content := resp.Choices[0].Message.Content
	payload, err := feedback.ParsePayload([]byte(content))
	if err != nil {
		slog.Warn("model output unparsable; substituting fallback payload", "error", err, "task_type", input.TaskType)
		return feedback.FallbackPayload(), nil
	}
	return payload, nil
}

func generationError(err error) *feedback.GenerationError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &feedback.GenerationError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &feedback.GenerationError{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Err:        err,
		}
	}
	return &feedback.GenerationError{Message: err.Error(), Err: err}
}
