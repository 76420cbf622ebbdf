package di

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	agentgateway "github.com/YoshitsuguKoike/stagelist/internal/adapter/gateway/agent"
	storagegateway "github.com/YoshitsuguKoike/stagelist/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/stagelist/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/stagelist/internal/application/port/input"
	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/application/prompt"
	"github.com/YoshitsuguKoike/stagelist/internal/application/usecase/stagelist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/stage"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/textnorm"
	"github.com/YoshitsuguKoike/stagelist/internal/infra/config"
	"github.com/YoshitsuguKoike/stagelist/internal/infra/logging"
	sqlitestore "github.com/YoshitsuguKoike/stagelist/internal/infrastructure/persistence/sqlite"
)

// Container is the DI container that holds all dependencies
// This implements manual dependency injection for Clean Architecture
type Container struct {
	// Infrastructure Layer
	db      *sql.DB
	store   output.DocumentStore
	gateway output.GenerationGateway

	// Application Layer
	useCase *stagelist.Service

	// Adapter Layer
	presenter output.Presenter

	config Config
}

// Config holds configuration for the container
type Config struct {
	Settings     *config.Settings
	Fs           afero.Fs // defaults to the OS filesystem
	Logger       zerolog.Logger
	OutputFormat string // text or json
	OutputWriter io.Writer

	// Store and Gateway, when set, replace the configured backends.
	Store   output.DocumentStore
	Gateway output.GenerationGateway
}

// NewContainer creates and initializes the DI container
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("settings are required")
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.OutputWriter == nil {
		cfg.OutputWriter = os.Stdout
	}

	c := &Container{config: cfg}

	if err := c.initializeInfrastructure(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	c.initializeApplication()
	if err := c.initializeAdapters(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize adapters: %w", err)
	}
	return c, nil
}

// initializeInfrastructure selects the document store and generation gateway
func (c *Container) initializeInfrastructure(ctx context.Context) error {
	s := c.config.Settings

	// 1. Document store
	if c.config.Store != nil {
		c.store = c.config.Store
	} else {
		store, err := c.newStore(ctx, s.Store)
		if err != nil {
			return err
		}
		c.store = store
	}

	// 2. Generation gateway
	if c.config.Gateway != nil {
		c.gateway = c.config.Gateway
		return nil
	}
	gateway, err := agentgateway.NewGenerationGateway(agentgateway.Config{
		Type:    s.Generator.Type,
		Model:   s.Generator.Model,
		APIURL:  s.Generator.APIURL,
		Bin:     s.Generator.Bin,
		Timeout: s.Generator.Timeout,
		Script:  s.Generator.Script,
	}, c.config.Fs)
	if err != nil {
		return fmt.Errorf("failed to create generation gateway: %w", err)
	}
	c.gateway = gateway
	return nil
}

func (c *Container) newStore(ctx context.Context, s config.StoreSettings) (output.DocumentStore, error) {
	switch s.Backend {
	case "file":
		store, err := storagegateway.NewLocalDocumentStore(c.config.Fs, s.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file store: %w", err)
		}
		return store, nil

	case "sqlite":
		db, err := sqlitestore.Open(s.SQLite)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		c.db = db
		return sqlitestore.NewDocumentStore(db), nil

	case "s3":
		store, err := storagegateway.NewS3DocumentStore(ctx, storagegateway.S3Config{
			BucketName: s.Bucket,
			Prefix:     s.Prefix,
			Region:     s.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 store: %w", err)
		}
		return store, nil

	case "memory":
		return storagegateway.NewMemoryDocumentStore(), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", s.Backend)
	}
}

// initializeApplication wires the use case
func (c *Container) initializeApplication() {
	s := c.config.Settings
	canonicalizer := textnorm.NewJapaneseCanonicalizer()
	engine := stage.NewEngine(stage.Policy{
		MinDone:      s.Stage.MinDone,
		MaxRemaining: s.Stage.MaxRemaining,
		MaxPicks:     s.Stage.MaxPicks,
	}, canonicalizer)

	c.useCase = stagelist.NewService(c.store, c.gateway, prompt.MustNewBuilder(),
		stagelist.WithEngine(engine),
		stagelist.WithCanonicalizer(canonicalizer),
		stagelist.WithHistoryLimit(s.Stage.HistoryLimit),
		stagelist.WithLogger(logging.ComponentOf(c.config.Logger, "usecase")),
		stagelist.WithGenerationSettings(stagelist.GenerationSettings{
			Timeout:     s.Generator.Timeout,
			MaxTokens:   s.Generator.MaxTokens,
			Temperature: s.Generator.Temperature,
		}),
	)
}

// initializeAdapters selects the presenter
func (c *Container) initializeAdapters() error {
	switch c.config.OutputFormat {
	case "", "text":
		c.presenter = presenter.NewCLIPresenter(c.config.OutputWriter)
	case "json":
		c.presenter = presenter.NewJSONPresenter(c.config.OutputWriter)
	default:
		return fmt.Errorf("unknown output format: %s (supported: text, json)", c.config.OutputFormat)
	}
	return nil
}

func (c *Container) GetUseCase() input.StagelistUseCase {
	return c.useCase
}

func (c *Container) GetStore() output.DocumentStore {
	return c.store
}

func (c *Container) GetGateway() output.GenerationGateway {
	return c.gateway
}

func (c *Container) GetPresenter() output.Presenter {
	return c.presenter
}

func (c *Container) Settings() *config.Settings {
	return c.config.Settings
}

// Close releases the database connection, if any
func (c *Container) Close() error {
	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}
