package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// API Docs: https://ai.google.dev/api/generate-content
const (
	geminiBaseURL   = "https://generativelanguage.googleapis.com"
	geminiUserAgent = "weather-dashboard/1.0"
)

// GeminiClient calls the generative-language generateContent endpoint with a
// structured (JSON schema) response.
type GeminiClient struct {
	client *resty.Client
	apiKey string
	model  string
}

// NewGeminiClient creates a client. An empty apiKey yields an unconfigured
// client that must not be called.
func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	client := resty.New().
		SetBaseURL(geminiBaseURL).
		SetHeader("User-Agent", geminiUserAgent).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &GeminiClient{
		client: client,
		apiKey: apiKey,
		model:  model,
	}
}

// WithBaseURL points the client at another host.
func (g *GeminiClient) WithBaseURL(baseURL string) *GeminiClient {
	g.client.SetBaseURL(baseURL)
	return g
}

// Configured reports whether a credential is present.
func (g *GeminiClient) Configured() bool {
	return g.apiKey != ""
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string         `json:"responseMimeType"`
		ResponseSchema   map[string]any `json:"responseSchema"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateJSON sends prompt and returns the text of the first candidate,
// which the model constrains to schema. An empty string means the model
// produced no text.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	if !g.Configured() {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	var body geminiRequest
	body.Contents = []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}}
	body.GenerationConfig.ResponseMimeType = "application/json"
	body.GenerationConfig.ResponseSchema = schema

	var (
		out    geminiResponse
		apiErr geminiError
	)
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1beta/models/" + g.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode(), resp.String())
	}

	if len(out.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
