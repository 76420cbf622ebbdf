package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/infra/config"
	"github.com/YoshitsuguKoike/stagelist/internal/infra/logging"
	"github.com/YoshitsuguKoike/stagelist/internal/infrastructure/di"
)

// Options holds the global flags shared by every command
type Options struct {
	Home      string
	List      string
	LogLevel  string
	LogFile   string
	Format    string
	Store     string
	Generator string

	// Fs defaults to the OS filesystem
	Fs afero.Fs
	// Gateway, when set, replaces the configured generator
	Gateway output.GenerationGateway
}

// NewOptions returns options with the default home directory
func NewOptions() *Options {
	return &Options{Home: config.DefaultHome(), Format: "text"}
}

// AddFlags registers the persistent flags on the root command
func (o *Options) AddFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.Home, "home", o.Home, "Settings and data directory (env: "+config.HomeEnv+")")
	f.StringVarP(&o.List, "list", "l", "", "List id to operate on (default from config)")
	f.StringVar(&o.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&o.LogFile, "log-file", "", "Write logs to this file instead of stderr")
	f.StringVar(&o.Format, "format", "text", "Output format: text or json")
	f.StringVar(&o.Store, "store", "", "Store backend: file, sqlite, s3, memory")
	f.StringVar(&o.Generator, "generator", "", "Generator: claude-api, claude-cli, mock")
}

// FS returns the filesystem commands read and write
func (o *Options) FS() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

// LoadSettings reads config.yaml under the home directory and applies flags
func (o *Options) LoadSettings() (*config.Settings, error) {
	s, err := config.LoadSettings(o.FS(), o.Home)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(config.Overrides{
		List:      o.List,
		LogLevel:  o.LogLevel,
		LogFile:   o.LogFile,
		Backend:   o.Store,
		Generator: o.Generator,
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Session is one command invocation: settings, logger and container
type Session struct {
	Settings  *config.Settings
	Container *di.Container
	ListID    string

	closeLog func()
}

// Open loads settings and builds the container, writing results to out
func (o *Options) Open(ctx context.Context, out io.Writer) (*Session, error) {
	settings, err := o.LoadSettings()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(settings.Log.Level, settings.Log.File)
	if err != nil {
		return nil, err
	}

	container, err := di.NewContainer(ctx, di.Config{
		Settings:     settings,
		Fs:           o.FS(),
		Logger:       logger,
		OutputFormat: o.Format,
		OutputWriter: out,
		Gateway:      o.Gateway,
	})
	if err != nil {
		closeLog()
		return nil, err
	}

	return &Session{
		Settings:  settings,
		Container: container,
		ListID:    settings.List,
		closeLog:  closeLog,
	}, nil
}

// Close releases the container and the log file
func (s *Session) Close() {
	_ = s.Container.Close()
	s.closeLog()
}

// Action is the body of a command: it returns the success message and payload
type Action func(ctx context.Context, s *Session) (string, interface{}, error)

// Run opens a session, runs fn and presents its result
func Run(cmd *cobra.Command, o *Options, fn Action) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := o.Open(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer s.Close()

	message, data, err := fn(ctx, s)
	p := s.Container.GetPresenter()
	if err != nil {
		return Reported(p.PresentError(err))
	}
	return p.PresentSuccess(message, data)
}

// ReadText returns args joined by spaces, or the contents of file when set.
// file "-" reads stdin.
func ReadText(cmd *cobra.Command, o *Options, args []string, file string) (string, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := afero.ReadFile(o.FS(), file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	default:
		return strings.Join(args, " "), nil
	}
}

type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported marks err as already shown to the user
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was already shown by a presenter
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// Exit prints unreported errors and exits non-zero
func Exit(err error) {
	if err == nil {
		return
	}
	if !IsReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
