package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// GeminiBaseURL is the default Google AI Generative Language endpoint.
const GeminiBaseURL = "https://generativelanguage.googleapis.com"

// defaultGeminiModel matches the model the tool was built around.
const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient calls the Google AI generateContent API.
type GeminiClient struct {
	cfg  Config
	http *http.Client
}

// NewGemini creates a Gemini client from cfg.
func NewGemini(cfg Config) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = GeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	return &GeminiClient{
		cfg:  cfg,
		http: makeHTTPClient(cfg.Proxy, cfg.effectiveTimeout()),
	}
}

// Translate sends one string and returns its translation.
func (g *GeminiClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	system := systemPrompt(g.cfg.SystemPrompt, sourceLang, targetLang)
	raw, err := g.call(ctx, system, singularPrompt(text))
	if err != nil {
		return "", err
	}
	return parseSingular(raw)
}

// TranslatePlural sends a singular/plural pair and returns nplurals forms.
func (g *GeminiClient) TranslatePlural(ctx context.Context, singular, plural, sourceLang, targetLang string, nplurals int) ([]string, error) {
	system := systemPrompt(g.cfg.SystemPrompt, sourceLang, targetLang)
	raw, err := g.call(ctx, system, pluralPrompt(singular, plural, nplurals))
	if err != nil {
		return nil, err
	}
	return parsePlural(raw, nplurals)
}

// call performs one generateContent request and returns the model text.
func (g *GeminiClient) call(ctx context.Context, system, user string) (string, error) {
	body, err := buildGeminiRequest(system, user, 0.3)
	if err != nil {
		return "", &APIError{Reason: "building request", Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &APIError{Reason: "creating request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("x-goog-api-key", g.cfg.APIKey)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		if isTimeoutErr(err) {
			return "", &TimeoutError{Err: err}
		}
		return "", &APIError{Reason: "request failed", Err: err}
	}

	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &RateLimitError{
			RetryAfter: parseRetryDelay(respBody),
			Body:       truncate(string(respBody), 300),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Reason:     truncate(string(respBody), 500),
		}
	}

	text, err := extractResponseText(respBody)
	if err != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Reason: err.Error(), Err: err}
	}
	return text, nil
}

// buildGeminiRequest marshals a generateContent request body.
func buildGeminiRequest(systemPrompt, userPrompt string, temperature float64) ([]byte, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}
	type genConfig struct {
		Temperature float64 `json:"temperature"`
	}
	req := struct {
		Contents          []content `json:"contents"`
		GenerationConfig  genConfig `json:"generationConfig"`
		SystemInstruction *content  `json:"systemInstruction,omitempty"`
	}{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userPrompt}}},
		},
		GenerationConfig: genConfig{Temperature: temperature},
	}
	if systemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	return json.Marshal(req)
}

// extractResponseText pulls the model text out of a response body. Gemini's
// candidates shape is primary; the OpenAI choices shape and a bare
// {"translation": "..."} object are also accepted so tests and
// OpenAI-compatible proxies work against the same parser.
func extractResponseText(body []byte) (string, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}

	if errObj, ok := raw["error"]; ok {
		if errMap, ok := errObj.(map[string]any); ok {
			if msg, ok := errMap["message"].(string); ok {
				return "", fmt.Errorf("API error: %s", msg)
			}
		}
		return "", fmt.Errorf("API error: %v", errObj)
	}

	// Gemini: candidates[0].content.parts[0].text
	if candidates, ok := raw["candidates"].([]any); ok && len(candidates) > 0 {
		if candidate, ok := candidates[0].(map[string]any); ok {
			if content, ok := candidate["content"].(map[string]any); ok {
				if parts, ok := content["parts"].([]any); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]any); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}

	// OpenAI chat: choices[0].message.content
	if choices, ok := raw["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if message, ok := choice["message"].(map[string]any); ok {
				if content, ok := message["content"].(string); ok {
					return content, nil
				}
			}
		}
	}

	// Plain translation object.
	if translation, ok := raw["translation"].(string); ok {
		return translation, nil
	}

	return "", fmt.Errorf("could not extract text from response: %s", truncate(string(body), 500))
}

// parseRetryDelay extracts the retry delay from a 429 response body, looking
// for Google's RetryInfo detail. Defaults to 60s plus a small buffer.
func parseRetryDelay(body []byte) time.Duration {
	const defaultDelay = 65 * time.Second

	var errResp struct {
		Error struct {
			Details []struct {
				Type       string `json:"@type"`
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return defaultDelay
	}

	for _, detail := range errResp.Error.Details {
		if strings.Contains(detail.Type, "RetryInfo") && detail.RetryDelay != "" {
			d := strings.TrimSuffix(detail.RetryDelay, "s")
			if secs, err := strconv.ParseFloat(d, 64); err == nil {
				return time.Duration(secs*1000)*time.Millisecond + 5*time.Second
			}
		}
	}

	return defaultDelay
}

// isTimeoutErr reports whether a transport error was caused by a timeout or
// an expired context deadline.
func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return os.IsTimeout(err)
}

// truncate shortens a string for error messages.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
