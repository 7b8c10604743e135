package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const (
	// ArkBaseURL is the OpenAI-compatible Volcengine Ark endpoint serving
	// Doubao and DeepSeek models.
	ArkBaseURL = "https://ark.cn-beijing.volces.com/api/v3"

	openAIDefaultModel   = "gpt-4o-mini"
	arkDefaultModel      = "doubao-1-5-lite-32k-250115"
	deepSeekDefaultModel = "deepseek-v3-250324"

	chatTemperature = 0.5
)

// OpenAIClient talks to any OpenAI-compatible chat completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a client for model. An empty baseURL uses the
// OpenAI default.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIClient) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
