package config

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the default home directory.
const HomeEnv = "STAGELIST_HOME"

// DefaultHome returns $STAGELIST_HOME, else ~/.stagelist, else ./.stagelist.
func DefaultHome() string {
	if v := os.Getenv(HomeEnv); v != "" {
		return v
	}
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".stagelist")
	}
	return ".stagelist"
}

// Overrides carries command-line flags. Empty fields leave settings as loaded.
type Overrides struct {
	List      string
	LogLevel  string
	LogFile   string
	Backend   string
	Generator string
}

// Apply layers o over s and re-validates.
func (s *Settings) Apply(o Overrides) error {
	if o.List != "" {
		s.List = o.List
	}
	if o.LogLevel != "" {
		s.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		s.Log.File = o.LogFile
	}
	if o.Backend != "" {
		s.Store.Backend = o.Backend
	}
	if o.Generator != "" {
		s.Generator.Type = o.Generator
	}
	return s.Validate()
}

// DefaultYAML is written by `stagelist init`.
const DefaultYAML = `# stagelist settings. Relative paths are resolved against this directory.
list: default

store:
  backend: file        # file | sqlite | s3 | memory
  dir: lists
  sqlite_path: stagelist.db
  s3_bucket: ""
  s3_prefix: stagelist
  s3_region: ""

generator:
  type: claude-cli     # claude-api | claude-cli | mock
  model: ""
  bin: claude
  timeout_sec: 300
  max_tokens: 2048
  temperature: 0.3
  script: ""           # reply script for the mock generator

stage:
  min_done: 3
  max_remaining: 2
  max_picks: 5
  history_limit: 20

log:
  level: warn
  file: ""
`
