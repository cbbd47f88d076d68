package translator

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// defaultOpenAIModel is used when no model is configured.
const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient calls an OpenAI-compatible chat completions endpoint. With a
// custom BaseURL it also covers Groq, Ollama, and similar services.
type OpenAIClient struct {
	client *openai.Client
	cfg    Config
}

// NewOpenAI creates an OpenAI-compatible client from cfg.
func NewOpenAI(cfg Config) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = makeHTTPClient(cfg.Proxy, cfg.effectiveTimeout())

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Translate sends one string and returns its translation.
func (o *OpenAIClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	system := systemPrompt(o.cfg.SystemPrompt, sourceLang, targetLang)
	raw, err := o.call(ctx, system, singularPrompt(text))
	if err != nil {
		return "", err
	}
	return parseSingular(raw)
}

// TranslatePlural sends a singular/plural pair and returns nplurals forms.
func (o *OpenAIClient) TranslatePlural(ctx context.Context, singular, plural, sourceLang, targetLang string, nplurals int) ([]string, error) {
	system := systemPrompt(o.cfg.SystemPrompt, sourceLang, targetLang)
	raw, err := o.call(ctx, system, pluralPrompt(singular, plural, nplurals))
	if err != nil {
		return nil, err
	}
	return parsePlural(raw, nplurals)
}

func (o *OpenAIClient) call(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &APIError{Reason: "no choices in response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// mapOpenAIError converts go-openai errors into the package taxonomy.
func mapOpenAIError(err error) error {
	if isTimeoutErr(err) {
		return &TimeoutError{Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return &RateLimitError{Body: apiErr.Message}
		}
		return &APIError{
			StatusCode: apiErr.HTTPStatusCode,
			Reason:     apiErr.Message,
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return &RateLimitError{}
		}
		return &APIError{StatusCode: reqErr.HTTPStatusCode, Reason: reqErr.Error(), Err: err}
	}

	return &APIError{Reason: "request failed", Err: err}
}
