package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
)

const BackendMock = "mock"

// Canned replies used when a script has nothing for a purpose.
const (
	defaultAnalyzeReply = `[準備]
- 目的を一行で書き出す
- 必要な情報を洗い出す
- 関係者に連絡する
[実行]
- 最初の作業に着手する
- 進捗を共有する
`
	defaultDecomposeReply = `- 前提を確認する
- 手順を書き出す
- 最初の手順を実行する
`
)

// Script maps a purpose to the replies returned for it, in order.
// The last reply repeats once the list is exhausted.
type Script struct {
	Analyze   []string `yaml:"analyze"`
	Decompose []string `yaml:"decompose"`
}

// LoadScript reads a YAML script from fs.
func LoadScript(fs afero.Fs, path string) (*Script, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	return &s, nil
}

// ScriptedGateway is an offline GenerationGateway returning scripted text.
type ScriptedGateway struct {
	mu      sync.Mutex
	replies map[output.GenerationPurpose][]string
	calls   map[output.GenerationPurpose]int
	prompts []string

	// Err, when set, is returned by every Generate call.
	Err error
	// Delay simulates latency; Generate honors ctx while waiting.
	Delay time.Duration
}

// NewScriptedGateway creates a mock gateway. A nil script uses canned replies.
func NewScriptedGateway(script *Script) *ScriptedGateway {
	g := &ScriptedGateway{
		replies: map[output.GenerationPurpose][]string{
			output.PurposeAnalyze:   {defaultAnalyzeReply},
			output.PurposeDecompose: {defaultDecomposeReply},
		},
		calls: make(map[output.GenerationPurpose]int),
	}
	if script != nil {
		if len(script.Analyze) > 0 {
			g.replies[output.PurposeAnalyze] = script.Analyze
		}
		if len(script.Decompose) > 0 {
			g.replies[output.PurposeDecompose] = script.Decompose
		}
	}
	return g
}

func (g *ScriptedGateway) Generate(ctx context.Context, req output.GenerationRequest) (*output.GenerationResponse, error) {
	if g.Delay > 0 {
		t := time.NewTimer(g.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, req.Prompt)
	if g.Err != nil {
		return nil, g.Err
	}

	replies := g.replies[req.Purpose]
	n := g.calls[req.Purpose]
	g.calls[req.Purpose] = n + 1

	var text string
	if len(replies) > 0 {
		if n >= len(replies) {
			n = len(replies) - 1
		}
		text = replies[n]
	}

	return &output.GenerationResponse{
		Text:       text,
		Duration:   g.Delay,
		TokensUsed: len(req.Prompt) / 4,
		Backend:    BackendMock,
		Metadata: map[string]string{
			"mock":    "true",
			"purpose": string(req.Purpose),
		},
	}, nil
}

// Prompts returns every prompt received so far.
func (g *ScriptedGateway) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func (g *ScriptedGateway) GetCapability() output.GenerationCapability {
	return output.GenerationCapability{
		Backend:       BackendMock,
		Model:         "scripted",
		MaxPromptSize: 200000,
	}
}

func (g *ScriptedGateway) HealthCheck(ctx context.Context) error {
	return nil
}
