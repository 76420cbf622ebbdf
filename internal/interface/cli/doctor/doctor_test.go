package doctor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agentgateway "github.com/YoshitsuguKoike/stagelist/internal/adapter/gateway/agent"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

type unhealthy struct {
	*agentgateway.ScriptedGateway
}

func (unhealthy) HealthCheck(context.Context) error {
	return errors.New("claude: command not found")
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		opts       func(fs afero.Fs) *common.Options
		wantFailed int
		wantChecks []string
	}{
		{
			name: "healthy",
			opts: func(fs afero.Fs) *common.Options {
				return &common.Options{Home: "/h", Fs: fs, Gateway: agentgateway.NewScriptedGateway(nil)}
			},
			wantChecks: []string{"settings", "store", "generator"},
		},
		{
			name: "generator down",
			opts: func(fs afero.Fs) *common.Options {
				return &common.Options{Home: "/h", Fs: fs, Gateway: unhealthy{agentgateway.NewScriptedGateway(nil)}}
			},
			wantFailed: 1,
			wantChecks: []string{"settings", "store", "generator"},
		},
		{
			name: "invalid settings",
			opts: func(fs afero.Fs) *common.Options {
				return &common.Options{Home: "/h", Fs: fs, Store: "floppy"}
			},
			wantFailed: 1,
			wantChecks: []string{"settings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			report := Run(context.Background(), tt.opts(fs), &bytes.Buffer{})

			names := make([]string, 0, len(report.Checks))
			for _, c := range report.Checks {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.wantChecks, names)
			assert.Equal(t, tt.wantFailed, report.Failed())
		})
	}
}

func TestCommand_Output(t *testing.T) {
	o := &common.Options{Home: "/h", Fs: afero.NewMemMapFs(), Gateway: agentgateway.NewScriptedGateway(nil)}

	var buf bytes.Buffer
	cmd := NewCommand(o)
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ generator")
	assert.Contains(t, buf.String(), "すべて正常です")

	buf.Reset()
	o.Format = "json"
	require.NoError(t, cmd.Execute())
	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "/h", report.Home)
	assert.Len(t, report.Checks, 3)
}
