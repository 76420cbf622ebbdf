package config

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
)

var (
	storeBackends     = []string{"file", "sqlite", "s3", "memory"}
	generatorBackends = []string{"claude-api", "claude-cli", "mock"}
)

// Validate checks the resolved settings and reports every bad field at once.
func (s *Settings) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("list", s.List, list.ValidateID),
		criterio.Run("store.backend", s.Store.Backend, oneOf(storeBackends)),
		s.validateS3(),
		criterio.Run("generator.type", s.Generator.Type, oneOf(generatorBackends)),
		criterio.Run("generator.timeout_sec", int(s.Generator.Timeout.Seconds()), atLeast(1)),
		criterio.Run("generator.max_tokens", s.Generator.MaxTokens, atLeast(1)),
		criterio.Run("generator.temperature", s.Generator.Temperature, unitInterval),
		criterio.Run("stage.min_done", s.Stage.MinDone, atLeast(1)),
		criterio.Run("stage.max_remaining", s.Stage.MaxRemaining, atLeast(0)),
		criterio.Run("stage.max_picks", s.Stage.MaxPicks, atLeast(1)),
		criterio.Run("stage.history_limit", s.Stage.HistoryLimit, atLeast(1)),
		criterio.Run("log.level", s.Log.Level, logLevel),
	)
}

func (s *Settings) validateS3() error {
	if s.Store.Backend != "s3" {
		return nil
	}
	return criterio.Run("store.s3_bucket", s.Store.Bucket, required)
}

func oneOf(allowed []string) func(string) error {
	return func(v string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s, got %q", strings.Join(allowed, ", "), v)
	}
}

func atLeast(floor int) func(int) error {
	return func(v int) error {
		if v < floor {
			return fmt.Errorf("must be at least %d, got %d", floor, v)
		}
		return nil
	}
}

func unitInterval(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("must be between 0 and 1, got %g", v)
	}
	return nil
}

func required(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

func logLevel(v string) error {
	if _, err := zerolog.ParseLevel(v); err != nil {
		return fmt.Errorf("unknown level %q", v)
	}
	return nil
}
