package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/stagelist/internal/adapter/gateway/agent"
	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
)

func TestClaudeAPIGateway_Generate(t *testing.T) {
	var got agent.ClaudeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"model": "test-model",
			"content": [{"type": "text", "text": "- 予算を確認する"}, {"type": "text", "text": "- 見積もりを取る"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 8}
		}`))
	}))
	defer srv.Close()

	gw := agent.NewClaudeAPIGateway("test-key",
		agent.WithAPIURL(srv.URL),
		agent.WithModel("test-model"),
		agent.WithHTTPClient(srv.Client()),
	)

	resp, err := gw.Generate(context.Background(), output.GenerationRequest{
		Purpose:     output.PurposeAnalyze,
		Prompt:      "分析してください",
		Temperature: 0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, "- 予算を確認する\n- 見積もりを取る", resp.Text)
	assert.Equal(t, agent.BackendClaudeAPI, resp.Backend)
	assert.Equal(t, 20, resp.TokensUsed)
	assert.Equal(t, "end_turn", resp.Metadata["stop_reason"])
	assert.Equal(t, "analyze", resp.Metadata["purpose"])

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, agent.DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "分析してください", got.Messages[0].Content)
}

func TestClaudeAPIGateway_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "api error body",
			status:  http.StatusTooManyRequests,
			body:    `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`,
			wantMsg: "rate_limit_error - slow down",
		},
		{
			name:    "status only",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantMsg: "status 502",
		},
		{
			name:    "garbage with 200",
			status:  http.StatusOK,
			body:    `not json`,
			wantMsg: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			gw := agent.NewClaudeAPIGateway("k", agent.WithAPIURL(srv.URL))
			_, err := gw.Generate(context.Background(), output.GenerationRequest{Prompt: "p"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClaudeAPIGateway_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	gw := agent.NewClaudeAPIGateway("k", agent.WithAPIURL(srv.URL))
	_, err := gw.Generate(context.Background(), output.GenerationRequest{
		Prompt:  "p",
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClaudeAPIGateway_Capability(t *testing.T) {
	gw := agent.NewClaudeAPIGateway("k")
	c := gw.GetCapability()
	assert.Equal(t, agent.BackendClaudeAPI, c.Backend)
	assert.Equal(t, agent.DefaultModel, c.Model)
}

func TestScriptedGateway(t *testing.T) {
	gw := agent.NewScriptedGateway(&agent.Script{
		Decompose: []string{"- a\n- b", "- c"},
	})
	ctx := context.Background()

	texts := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := gw.Generate(ctx, output.GenerationRequest{Purpose: output.PurposeDecompose, Prompt: "p"})
		require.NoError(t, err)
		assert.Equal(t, agent.BackendMock, resp.Backend)
		texts = append(texts, resp.Text)
	}
	assert.Equal(t, []string{"- a\n- b", "- c", "- c"}, texts)

	resp, err := gw.Generate(ctx, output.GenerationRequest{Purpose: output.PurposeAnalyze, Prompt: "q"})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "[準備]")

	assert.Equal(t, []string{"p", "p", "p", "q"}, gw.Prompts())
	assert.NoError(t, gw.HealthCheck(ctx))
}

func TestScriptedGateway_ErrAndDelay(t *testing.T) {
	boom := errors.New("boom")
	gw := agent.NewScriptedGateway(nil)
	gw.Err = boom
	_, err := gw.Generate(context.Background(), output.GenerationRequest{Purpose: output.PurposeAnalyze})
	assert.ErrorIs(t, err, boom)

	gw = agent.NewScriptedGateway(nil)
	gw.Delay = time.Second
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gw.Generate(ctx, output.GenerationRequest{Purpose: output.PurposeAnalyze})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadScript(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/script.yaml", []byte(`
analyze:
  - |
    [調査]
    - 相場を調べる
decompose:
  - "- 一つ目\n- 二つ目"
`), 0o644))

	s, err := agent.LoadScript(fs, "/script.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"[調査]\n- 相場を調べる\n"}, s.Analyze)
	assert.Equal(t, []string{"- 一つ目\n- 二つ目"}, s.Decompose)

	_, err = agent.LoadScript(fs, "/missing.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("analyze: [unclosed"), 0o644))
	_, err = agent.LoadScript(fs, "/bad.yaml")
	assert.Error(t, err)
}

func TestNewGenerationGateway(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s.yaml", []byte("analyze: [\"- x\"]\n"), 0o644))

	tests := []struct {
		name        string
		cfg         agent.Config
		env         string
		wantBackend string
		wantErr     bool
	}{
		{name: "mock", cfg: agent.Config{Type: "mock"}, wantBackend: agent.BackendMock},
		{name: "mock with script", cfg: agent.Config{Type: "mock", Script: "/s.yaml"}, wantBackend: agent.BackendMock},
		{name: "mock with missing script", cfg: agent.Config{Type: "mock", Script: "/nope.yaml"}, wantErr: true},
		{name: "cli", cfg: agent.Config{Type: "claude-cli"}, wantBackend: agent.BackendClaudeCLI},
		{name: "empty defaults to cli", cfg: agent.Config{}, wantBackend: agent.BackendClaudeCLI},
		{name: "api with key", cfg: agent.Config{Type: "claude-api", APIKey: "k"}, wantBackend: agent.BackendClaudeAPI},
		{name: "api with env key", cfg: agent.Config{Type: "claude-api"}, env: "k", wantBackend: agent.BackendClaudeAPI},
		{name: "api without key", cfg: agent.Config{Type: "claude-api"}, wantErr: true},
		{name: "unknown", cfg: agent.Config{Type: "gpt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(agent.APIKeyEnv, tt.env)

			gw, err := agent.NewGenerationGateway(tt.cfg, fs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBackend, gw.GetCapability().Backend)
		})
	}
}

func TestBackends(t *testing.T) {
	assert.ElementsMatch(t, []string{"claude-api", "claude-cli", "mock"}, agent.Backends())
	assert.Contains(t, agent.Backends(), agent.DefaultBackend())
}
