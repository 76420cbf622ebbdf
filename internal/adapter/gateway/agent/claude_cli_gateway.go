package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/external/claudecli"
)

const BackendClaudeCLI = "claude-cli"

// cliRunner is the subset of claudecli.Runner the gateway needs.
type cliRunner interface {
	RunWithOptions(ctx context.Context, prompt string, opts *claudecli.RunOptions, extraArgs ...string) (*claudecli.Result, error)
	Version(ctx context.Context) (string, error)
}

// ClaudeCLIGateway implements GenerationGateway by running `claude -p`.
// Tools are disabled: the prompts only ask for text.
type ClaudeCLIGateway struct {
	runner cliRunner
	model  string
}

// NewClaudeCLIGateway creates a gateway that runs bin (default "claude").
func NewClaudeCLIGateway(bin, model string, timeout time.Duration) *ClaudeCLIGateway {
	return &ClaudeCLIGateway{
		runner: claudecli.Runner{Bin: bin, Timeout: timeout},
		model:  model,
	}
}

func (g *ClaudeCLIGateway) Generate(ctx context.Context, req output.GenerationRequest) (*output.GenerationResponse, error) {
	start := time.Now()

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	res, err := g.runner.RunWithOptions(ctx, req.Prompt, &claudecli.RunOptions{
		Model:           g.model,
		DisallowedTools: []string{"Bash", "Edit", "Write", "WebFetch"},
	})
	if err != nil {
		return nil, fmt.Errorf("claude CLI execution failed: %w", err)
	}

	meta := map[string]string{
		"purpose": string(req.Purpose),
	}
	if res.SessionID != "" {
		meta["session_id"] = res.SessionID
	}
	if res.Raw {
		meta["raw"] = "true"
	}

	return &output.GenerationResponse{
		Text:     res.Text,
		Duration: time.Since(start),
		Backend:  BackendClaudeCLI,
		Metadata: meta,
	}, nil
}

func (g *ClaudeCLIGateway) GetCapability() output.GenerationCapability {
	return output.GenerationCapability{
		Backend:       BackendClaudeCLI,
		Model:         g.model,
		MaxPromptSize: 200000,
	}
}

// HealthCheck verifies the claude binary is installed
func (g *ClaudeCLIGateway) HealthCheck(ctx context.Context) error {
	if _, err := g.runner.Version(ctx); err != nil {
		return fmt.Errorf("claude CLI health check failed: %w", err)
	}
	return nil
}
