package claudecli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds one CLI invocation when Runner.Timeout is zero.
const DefaultTimeout = 5 * time.Minute

// ErrEmptyPrompt is returned before spawning the process.
var ErrEmptyPrompt = errors.New("claude prompt is empty")

type Runner struct {
	Bin     string
	Timeout time.Duration
}

// ClaudeResponse represents the JSON response from claude
type ClaudeResponse struct {
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype"`
	IsError    bool    `json:"is_error"`
	DurationMs int     `json:"duration_ms"`
	Result     string  `json:"result"`
	SessionID  string  `json:"session_id"`
	TotalCost  float64 `json:"total_cost_usd"`
}

// RunOptions contains options for one claude invocation
type RunOptions struct {
	Model           string
	AllowedTools    []string
	DisallowedTools []string
}

// Result is the parsed output of one run.
type Result struct {
	Text      string
	SessionID string
	CostUSD   float64
	// Raw is true when the CLI did not print JSON and Text is its plain output.
	Raw bool
}

func (r Runner) Run(ctx context.Context, prompt string, extraArgs ...string) (string, error) {
	res, err := r.RunWithOptions(ctx, prompt, nil, extraArgs...)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Args builds the argument list passed to the binary.
func (r Runner) Args(prompt string, opts *RunOptions, extraArgs ...string) []string {
	args := []string{"-p", "--output-format", "json"}
	if opts != nil {
		if opts.Model != "" {
			args = append(args, "--model", opts.Model)
		}
		if len(opts.AllowedTools) > 0 {
			args = append(args, "--allowed-tools", strings.Join(opts.AllowedTools, ","))
		}
		if len(opts.DisallowedTools) > 0 {
			args = append(args, "--disallowed-tools", strings.Join(opts.DisallowedTools, ","))
		}
	}
	args = append(args, extraArgs...)
	return append(args, prompt)
}

func (r Runner) RunWithOptions(ctx context.Context, prompt string, opts *RunOptions, extraArgs ...string) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	cmd := exec.CommandContext(cctx, r.bin(), r.Args(prompt, opts, extraArgs...)...)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		if cctx.Err() != nil {
			return nil, fmt.Errorf("claude execution aborted: %w", cctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("claude execution failed: %w (stderr: %s)", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("claude execution failed: %w", err)
	}

	return Parse(out)
}

// Parse decodes CLI output. Non-JSON output is returned verbatim as a raw result.
func Parse(out []byte) (*Result, error) {
	var response ClaudeResponse
	if err := json.Unmarshal(out, &response); err != nil {
		return &Result{Text: string(out), Raw: true}, nil
	}
	if response.IsError {
		return nil, fmt.Errorf("claude returned error: %s", response.Result)
	}
	return &Result{
		Text:      response.Result,
		SessionID: response.SessionID,
		CostUSD:   response.TotalCost,
	}, nil
}

// Version runs `claude --version`; used as a cheap availability probe.
func (r Runner) Version(ctx context.Context) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(cctx, r.bin(), "--version").Output()
	if err != nil {
		return "", fmt.Errorf("claude --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (r Runner) bin() string {
	if r.Bin == "" {
		return "claude"
	}
	return r.Bin
}

func (r Runner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}
