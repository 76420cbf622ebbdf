package claudecli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClaude writes a shell script standing in for the claude binary.
func fakeClaude(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claude")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestArgs(t *testing.T) {
	r := Runner{}
	assert.Equal(t, []string{"-p", "--output-format", "json", "hello"}, r.Args("hello", nil))

	got := r.Args("hello", &RunOptions{Model: "sonnet", DisallowedTools: []string{"Bash", "Edit"}}, "--verbose")
	assert.Equal(t, []string{
		"-p", "--output-format", "json",
		"--model", "sonnet",
		"--disallowed-tools", "Bash,Edit",
		"--verbose",
		"hello",
	}, got)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    *Result
		wantErr bool
	}{
		{
			name: "json result",
			out:  `{"type":"result","is_error":false,"result":"- 予算を確認する","session_id":"s1","total_cost_usd":0.01}`,
			want: &Result{Text: "- 予算を確認する", SessionID: "s1", CostUSD: 0.01},
		},
		{
			name: "plain text",
			out:  "- just text\n",
			want: &Result{Text: "- just text\n", Raw: true},
		},
		{
			name:    "error flag",
			out:     `{"is_error":true,"result":"rate limited"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.out))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun(t *testing.T) {
	bin := fakeClaude(t, `echo '{"type":"result","is_error":false,"result":"ok"}'`)
	out, err := Runner{Bin: bin, Timeout: 5 * time.Second}.Run(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestRun_EchoesPromptLast(t *testing.T) {
	// The prompt is the final positional argument.
	bin := fakeClaude(t, `for a in "$@"; do last="$a"; done; printf '%s' "$last"`)
	out, err := Runner{Bin: bin}.Run(context.Background(), "最後の引数")
	require.NoError(t, err)
	assert.Equal(t, "最後の引数", out)
}

func TestRun_Failures(t *testing.T) {
	t.Run("empty prompt", func(t *testing.T) {
		_, err := Runner{Bin: "/nonexistent"}.Run(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrEmptyPrompt)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		bin := fakeClaude(t, `echo "boom" >&2; exit 3`)
		_, err := Runner{Bin: bin}.Run(context.Background(), "ping")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("timeout", func(t *testing.T) {
		bin := fakeClaude(t, `exec sleep 5`)
		_, err := Runner{Bin: bin, Timeout: 50 * time.Millisecond}.Run(context.Background(), "ping")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "aborted")
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := Runner{Bin: filepath.Join(t.TempDir(), "nope")}.Run(context.Background(), "ping")
		assert.Error(t, err)
	})
}

func TestVersion(t *testing.T) {
	bin := fakeClaude(t, `echo "1.2.3 (Claude Code)"`)
	v, err := Runner{Bin: bin}.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.3 (Claude Code)", v)
}
