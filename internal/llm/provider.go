package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/Harshitk-cp/homesense/internal/domain"
)

// Provider constants
const (
	ProviderSpark     = "spark"
	ProviderQianfan   = "qianfan"
	ProviderArk       = "ark"
	ProviderDeepSeek  = "deepseek"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Config carries the credentials of every supported provider; only the ones
// for Provider are read.
type Config struct {
	Provider string
	Timeout  time.Duration

	SparkAppID     string
	SparkAPIKey    string
	SparkAPISecret string

	QianfanAPIKey    string
	QianfanSecretKey string

	ArkAPIKey      string
	ArkModel       string
	DeepSeekAPIKey string

	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// NewClient creates an LLM client based on the provider name.
// Returns an error if the provider is unknown or its credentials are empty (except for mock).
func NewClient(cfg Config) (domain.LLMClient, error) {
	var client domain.LLMClient
	switch cfg.Provider {
	case ProviderSpark:
		if cfg.SparkAppID == "" || cfg.SparkAPIKey == "" || cfg.SparkAPISecret == "" {
			return nil, fmt.Errorf("SPARK_APP_ID, SPARK_API_KEY and SPARK_API_SECRET are required for Spark provider")
		}
		client = NewSparkClient(cfg.SparkAppID, cfg.SparkAPIKey, cfg.SparkAPISecret)

	case ProviderQianfan:
		if cfg.QianfanAPIKey == "" || cfg.QianfanSecretKey == "" {
			return nil, fmt.Errorf("QIANFAN_API_KEY and QIANFAN_SECRET_KEY are required for Qianfan provider")
		}
		client = NewQianfanClient(cfg.QianfanAPIKey, cfg.QianfanSecretKey)

	case ProviderArk:
		if cfg.ArkAPIKey == "" {
			return nil, fmt.Errorf("ARK_API_KEY is required for Ark provider")
		}
		model := cfg.ArkModel
		if model == "" {
			model = arkDefaultModel
		}
		client = NewOpenAIClient(cfg.ArkAPIKey, ArkBaseURL, model)

	case ProviderDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			return nil, fmt.Errorf("DS_API_KEY is required for DeepSeek provider")
		}
		client = NewOpenAIClient(cfg.DeepSeekAPIKey, ArkBaseURL, deepSeekDefaultModel)

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		client = NewOpenAIClient(cfg.OpenAIAPIKey, "", openAIDefaultModel)

	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		client = NewAnthropicClient(cfg.AnthropicAPIKey)

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: spark, qianfan, ark, deepseek, openai, anthropic, mock)", cfg.Provider)
	}

	if cfg.Timeout > 0 {
		client = WithTimeout(client, cfg.Timeout)
	}
	return client, nil
}

type timeoutClient struct {
	next    domain.LLMClient
	timeout time.Duration
}

// WithTimeout bounds every Chat call of next by timeout.
func WithTimeout(next domain.LLMClient, timeout time.Duration) domain.LLMClient {
	return &timeoutClient{next: next, timeout: timeout}
}

func (c *timeoutClient) Chat(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.next.Chat(ctx, prompt)
}
