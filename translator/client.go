// Package translator implements clients for cloud AI translation services.
//
// Each call translates exactly one catalog entry: there is no batching,
// caching, or built-in retry. Failures surface as typed errors (APIError,
// RateLimitError, TimeoutError) so the caller can decide how to react.
package translator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Provider identifiers.
const (
	ProviderGoogle = "google" // Google AI (Gemini), native generateContent API
	ProviderOpenAI = "openai" // OpenAI-compatible chat completions endpoint
)

// Client translates single strings between languages.
type Client interface {
	// Translate sends one source string to the service and returns the
	// translation.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	// TranslatePlural translates an entry with plural forms, returning
	// exactly nplurals target-language forms.
	TranslatePlural(ctx context.Context, singular, plural, sourceLang, targetLang string, nplurals int) ([]string, error)
}

// Config holds the settings shared by all provider clients.
type Config struct {
	// Provider selects the client implementation (google, openai).
	Provider string
	// APIKey authenticates requests.
	APIKey string
	// Model is the model identifier (e.g. "gemini-2.0-flash", "gpt-4o-mini").
	Model string
	// BaseURL overrides the provider's default endpoint.
	BaseURL string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// SystemPrompt overrides the built-in prompt ({{targetLang}} is replaced
	// with the target language's native name).
	SystemPrompt string
}

// DefaultTimeout bounds a translation request when Config.Timeout is unset.
const DefaultTimeout = 120 * time.Second

func (c Config) effectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// New returns the client for the configured provider.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderGoogle, "":
		return NewGemini(cfg), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown translation provider: %q", cfg.Provider)
	}
}

// makeHTTPClient builds an HTTP client honoring the proxy setting; without
// an explicit proxy, HTTP_PROXY/HTTPS_PROXY environment variables apply.
func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
