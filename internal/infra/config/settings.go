// Package config loads <home>/config.yaml into Settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file inside the home directory.
const FileName = "config.yaml"

// RawSettings mirrors config.yaml. Pointer fields tell "unset" from zero so
// applyDefaults only fills what the file left out.
type RawSettings struct {
	List      *string      `yaml:"list"`
	Store     RawStore     `yaml:"store"`
	Generator RawGenerator `yaml:"generator"`
	Stage     RawStage     `yaml:"stage"`
	Log       RawLog       `yaml:"log"`
}

type RawStore struct {
	Backend *string `yaml:"backend"` // file, sqlite, s3, memory
	Dir     *string `yaml:"dir"`
	SQLite  *string `yaml:"sqlite_path"`
	Bucket  *string `yaml:"s3_bucket"`
	Prefix  *string `yaml:"s3_prefix"`
	Region  *string `yaml:"s3_region"`
}

type RawGenerator struct {
	Type        *string  `yaml:"type"` // claude-api, claude-cli, mock
	Model       *string  `yaml:"model"`
	Bin         *string  `yaml:"bin"`
	APIURL      *string  `yaml:"api_url"`
	TimeoutSec  *int     `yaml:"timeout_sec"`
	MaxTokens   *int     `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
	Script      *string  `yaml:"script"`
}

type RawStage struct {
	MinDone      *int `yaml:"min_done"`
	MaxRemaining *int `yaml:"max_remaining"`
	MaxPicks     *int `yaml:"max_picks"`
	HistoryLimit *int `yaml:"history_limit"`
}

type RawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// Settings is the resolved configuration.
type Settings struct {
	Home   string
	Source string // "default" or "yaml"
	Path   string // config file used, empty when defaults only

	List      string
	Store     StoreSettings
	Generator GeneratorSettings
	Stage     StageSettings
	Log       LogSettings
}

type StoreSettings struct {
	Backend string
	Dir     string
	SQLite  string
	Bucket  string
	Prefix  string
	Region  string
}

type GeneratorSettings struct {
	Type        string
	Model       string
	Bin         string
	APIURL      string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	Script      string
}

type StageSettings struct {
	MinDone      int
	MaxRemaining int
	MaxPicks     int
	HistoryLimit int
}

type LogSettings struct {
	Level string
	File  string
}

// LoadSettings reads <home>/config.yaml when present, fills defaults and
// validates the result.
// Priority: flags (see Apply) > config.yaml > defaults
func LoadSettings(fs afero.Fs, home string) (*Settings, error) {
	raw := &RawSettings{}
	source := "default"
	path := ""

	candidate := filepath.Join(home, FileName)
	data, err := afero.ReadFile(fs, candidate)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", candidate, err)
		}
		source = "yaml"
		path = candidate
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", candidate, err)
	}

	applyDefaults(raw)

	s := build(raw, home)
	s.Source = source
	s.Path = path

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func str(p **string, v string) {
	if *p == nil {
		*p = &v
	}
}

func num(p **int, v int) {
	if *p == nil {
		*p = &v
	}
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(r *RawSettings) {
	str(&r.List, "default")

	str(&r.Store.Backend, "file")
	str(&r.Store.Dir, "lists")
	str(&r.Store.SQLite, "stagelist.db")
	str(&r.Store.Bucket, "")
	str(&r.Store.Prefix, "stagelist")
	str(&r.Store.Region, "")

	str(&r.Generator.Type, "claude-cli")
	str(&r.Generator.Model, "")
	str(&r.Generator.Bin, "claude")
	str(&r.Generator.APIURL, "")
	num(&r.Generator.TimeoutSec, 300)
	num(&r.Generator.MaxTokens, 2048)
	if r.Generator.Temperature == nil {
		v := 0.3
		r.Generator.Temperature = &v
	}
	str(&r.Generator.Script, "")

	num(&r.Stage.MinDone, 3)
	num(&r.Stage.MaxRemaining, 2)
	num(&r.Stage.MaxPicks, 5)
	num(&r.Stage.HistoryLimit, 20)

	str(&r.Log.Level, "warn")
	str(&r.Log.File, "")
}

// resolve makes relative paths relative to home.
func resolve(home, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, p)
}

func build(r *RawSettings, home string) *Settings {
	return &Settings{
		Home: home,
		List: *r.List,
		Store: StoreSettings{
			Backend: *r.Store.Backend,
			Dir:     resolve(home, *r.Store.Dir),
			SQLite:  resolve(home, *r.Store.SQLite),
			Bucket:  *r.Store.Bucket,
			Prefix:  *r.Store.Prefix,
			Region:  *r.Store.Region,
		},
		Generator: GeneratorSettings{
			Type:        *r.Generator.Type,
			Model:       *r.Generator.Model,
			Bin:         *r.Generator.Bin,
			APIURL:      *r.Generator.APIURL,
			Timeout:     time.Duration(*r.Generator.TimeoutSec) * time.Second,
			MaxTokens:   *r.Generator.MaxTokens,
			Temperature: *r.Generator.Temperature,
			Script:      resolve(home, *r.Generator.Script),
		},
		Stage: StageSettings{
			MinDone:      *r.Stage.MinDone,
			MaxRemaining: *r.Stage.MaxRemaining,
			MaxPicks:     *r.Stage.MaxPicks,
			HistoryLimit: *r.Stage.HistoryLimit,
		},
		Log: LogSettings{
			Level: *r.Log.Level,
			File:  resolve(home, *r.Log.File),
		},
	}
}
