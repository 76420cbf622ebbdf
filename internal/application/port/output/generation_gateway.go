package output

import (
	"context"
	"time"
)

// GenerationGateway is the interface for the external text-generation service.
// This abstraction allows different backends (Claude API, Claude CLI, mock).
type GenerationGateway interface {
	// Generate sends a prompt and returns free text
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)

	// GetCapability returns the backend's capabilities
	GetCapability() GenerationCapability

	// HealthCheck verifies if the backend is available
	HealthCheck(ctx context.Context) error
}

// GenerationPurpose tells the backend which flow issued the request.
type GenerationPurpose string

const (
	PurposeAnalyze   GenerationPurpose = "analyze"
	PurposeDecompose GenerationPurpose = "decompose"
)

// GenerationRequest represents a request to the generation service
type GenerationRequest struct {
	Purpose     GenerationPurpose // Which flow issued the request
	Prompt      string            // The prompt to send
	Timeout     time.Duration     // Transport timeout (0 = backend default)
	MaxTokens   int               // Maximum tokens to generate (if applicable)
	Temperature float64           // Temperature for generation (0.0-1.0)
}

// GenerationResponse represents the response from the generation service
type GenerationResponse struct {
	Text       string            // Generated text
	Duration   time.Duration     // Call duration
	TokensUsed int               // Number of tokens used (if applicable)
	Backend    string            // Backend that produced the text
	Metadata   map[string]string // Additional metadata
}

// GenerationCapability describes a backend
type GenerationCapability struct {
	Backend       string // Backend identifier
	Model         string // Model name, if known
	MaxPromptSize int    // Maximum prompt size in bytes
}
