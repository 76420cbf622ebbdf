package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
)

const (
	BackendClaudeAPI = "claude-api"

	DefaultAPIURL    = "https://api.anthropic.com/v1/messages"
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 2048
	apiVersion       = "2023-06-01"
)

// ClaudeAPIGateway implements GenerationGateway over the Claude Messages API
type ClaudeAPIGateway struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	model      string
	maxTokens  int
}

// ClaudeAPIOption customizes a ClaudeAPIGateway.
type ClaudeAPIOption func(*ClaudeAPIGateway)

func WithAPIURL(url string) ClaudeAPIOption {
	return func(g *ClaudeAPIGateway) {
		if url != "" {
			g.apiURL = url
		}
	}
}

func WithModel(model string) ClaudeAPIOption {
	return func(g *ClaudeAPIGateway) {
		if model != "" {
			g.model = model
		}
	}
}

func WithHTTPClient(c *http.Client) ClaudeAPIOption {
	return func(g *ClaudeAPIGateway) {
		if c != nil {
			g.httpClient = c
		}
	}
}

func WithDefaultMaxTokens(n int) ClaudeAPIOption {
	return func(g *ClaudeAPIGateway) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// NewClaudeAPIGateway creates a new Claude Messages API gateway
func NewClaudeAPIGateway(apiKey string, opts ...ClaudeAPIOption) *ClaudeAPIGateway {
	g := &ClaudeAPIGateway{
		apiKey: apiKey,
		apiURL: DefaultAPIURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends the prompt as a single user message
func (g *ClaudeAPIGateway) Generate(ctx context.Context, req output.GenerationRequest) (*output.GenerationResponse, error) {
	start := time.Now()

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	claudeReq := ClaudeRequest{
		Model:       g.model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Messages: []Message{
			{Role: "user", Content: req.Prompt},
		},
	}

	resp, err := g.callClaudeAPI(ctx, claudeReq)
	if err != nil {
		return nil, fmt.Errorf("claude API call failed: %w", err)
	}

	return &output.GenerationResponse{
		Text:       resp.Text(),
		Duration:   time.Since(start),
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
		Backend:    BackendClaudeAPI,
		Metadata: map[string]string{
			"model":         resp.Model,
			"purpose":       string(req.Purpose),
			"stop_reason":   resp.StopReason,
			"input_tokens":  fmt.Sprintf("%d", resp.Usage.InputTokens),
			"output_tokens": fmt.Sprintf("%d", resp.Usage.OutputTokens),
		},
	}, nil
}

func (g *ClaudeAPIGateway) GetCapability() output.GenerationCapability {
	return output.GenerationCapability{
		Backend:       BackendClaudeAPI,
		Model:         g.model,
		MaxPromptSize: 200000,
	}
}

// HealthCheck sends a minimal ping request
func (g *ClaudeAPIGateway) HealthCheck(ctx context.Context) error {
	req := ClaudeRequest{
		Model:     g.model,
		MaxTokens: 10,
		Messages: []Message{
			{Role: "user", Content: "ping"},
		},
	}

	_, err := g.callClaudeAPI(ctx, req)
	return err
}

// callClaudeAPI makes an HTTP request to Claude API
func (g *ClaudeAPIGateway) callClaudeAPI(ctx context.Context, req ClaudeRequest) (*ClaudeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", g.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer httpResp.Body.Close()

	var claudeResp ClaudeResponse
	decodeErr := json.NewDecoder(httpResp.Body).Decode(&claudeResp)

	if httpResp.StatusCode != http.StatusOK {
		if decodeErr == nil && claudeResp.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s - %s", httpResp.StatusCode, claudeResp.Error.Type, claudeResp.Error.Message)
		}
		return nil, fmt.Errorf("API error: status %d", httpResp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	return &claudeResp, nil
}

// Claude API request/response types
type ClaudeRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ClaudeResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Role       string          `json:"role"`
	Content    []ContentBlock  `json:"content"`
	Model      string          `json:"model"`
	StopReason string          `json:"stop_reason"`
	Usage      Usage           `json:"usage"`
	Error      ClaudeErrorResp `json:"error,omitempty"`
}

// Text joins every text block of the response.
func (r *ClaudeResponse) Text() string {
	var parts []string
	for _, b := range r.Content {
		if b.Type == "" || b.Type == "text" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type ClaudeErrorResp struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
