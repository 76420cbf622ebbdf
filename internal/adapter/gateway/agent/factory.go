package agent

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
)

// APIKeyEnv holds the Claude API key for the claude-api backend.
const APIKeyEnv = "ANTHROPIC_API_KEY"

// Config selects and tunes a generation backend
type Config struct {
	Type    string // claude-api, claude-cli or mock
	Model   string
	APIURL  string
	APIKey  string // falls back to $ANTHROPIC_API_KEY
	Bin     string // claude binary for claude-cli
	Timeout time.Duration
	Script  string // YAML reply script for mock
}

// NewGenerationGateway creates a gateway based on cfg.Type
// Supported types: claude-api, claude-cli, mock
// Note: User is responsible for ensuring the backend is available (e.g., claude CLI installed)
func NewGenerationGateway(cfg Config, fs afero.Fs) (output.GenerationGateway, error) {
	switch cfg.Type {
	case BackendClaudeAPI:
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv(APIKeyEnv)
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable not set for %s", APIKeyEnv, BackendClaudeAPI)
		}
		return NewClaudeAPIGateway(apiKey, WithAPIURL(cfg.APIURL), WithModel(cfg.Model)), nil

	case BackendClaudeCLI, "":
		return NewClaudeCLIGateway(cfg.Bin, cfg.Model, cfg.Timeout), nil

	case BackendMock:
		if cfg.Script == "" {
			return NewScriptedGateway(nil), nil
		}
		script, err := LoadScript(fs, cfg.Script)
		if err != nil {
			return nil, err
		}
		return NewScriptedGateway(script), nil

	default:
		return nil, fmt.Errorf("unknown generator type: %s (supported: %v)", cfg.Type, Backends())
	}
}

// Backends lists the supported generator types
func Backends() []string {
	return []string{BackendClaudeAPI, BackendClaudeCLI, BackendMock}
}

// DefaultBackend returns the generator type used when none is configured
func DefaultBackend() string {
	return BackendClaudeCLI
}
