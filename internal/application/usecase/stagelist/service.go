// Package stagelist implements the use cases that drive one list document:
// load, mutate through the domain core, save.
package stagelist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/input"
	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/application/prompt"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/stage"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/textnorm"
	"github.com/YoshitsuguKoike/stagelist/internal/pkg/kv"
)

var _ input.StagelistUseCase = (*Service)(nil)

// GenerationSettings are passed through to every generation request.
type GenerationSettings struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Service implements input.StagelistUseCase.
type Service struct {
	store         output.DocumentStore
	gateway       output.GenerationGateway
	prompts       *prompt.Builder
	engine        *stage.Engine
	canonicalizer textnorm.Canonicalizer
	ids           model.IDGenerator
	now           func() time.Time
	logger        zerolog.Logger
	historyLimit  int
	generation    GenerationSettings

	locks *kv.Store[string, *sync.Mutex]
	busy  *kv.Store[string, time.Time]
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(ids model.IDGenerator) Option {
	return func(s *Service) { s.ids = ids }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithEngine replaces the stage engine.
func WithEngine(e *stage.Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithCanonicalizer replaces the imperative rewriter used for sub-tasks.
func WithCanonicalizer(c textnorm.Canonicalizer) Option {
	return func(s *Service) { s.canonicalizer = c }
}

// WithHistoryLimit caps the snapshot log.
func WithHistoryLimit(n int) Option {
	return func(s *Service) { s.historyLimit = n }
}

// WithGenerationSettings sets the per-request generation parameters.
func WithGenerationSettings(g GenerationSettings) Option {
	return func(s *Service) { s.generation = g }
}

// NewService creates a new Service.
func NewService(store output.DocumentStore, gateway output.GenerationGateway, prompts *prompt.Builder, opts ...Option) *Service {
	s := &Service{
		store:         store,
		gateway:       gateway,
		prompts:       prompts,
		canonicalizer: textnorm.NewJapaneseCanonicalizer(),
		ids:           model.NewULIDGenerator(),
		now:           func() time.Time { return time.Now().UTC() },
		logger:        zerolog.Nop(),
		locks:         kv.New[string, *sync.Mutex](),
		busy:          kv.New[string, time.Time](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = stage.NewEngine(stage.DefaultPolicy(), s.canonicalizer)
	}
	return s
}

func (s *Service) env() list.Env {
	return list.Env{Now: s.now(), IDs: s.ids}
}

func (s *Service) lock(listID string) func() {
	mu := s.locks.GetOrCreate(listID, func() *sync.Mutex { return &sync.Mutex{} })
	mu.Lock()
	return mu.Unlock
}

// load reads and decodes a document. A missing document is a fresh one.
func (s *Service) load(ctx context.Context, listID string) (*list.Document, error) {
	if err := list.ValidateID(listID); err != nil {
		return nil, err
	}
	data, err := s.store.Load(ctx, listID)
	var doc *list.Document
	switch {
	case errors.Is(err, output.ErrDocumentNotFound):
		doc = list.New(s.now())
	case err != nil:
		return nil, fmt.Errorf("failed to load list %s: %w", listID, err)
	default:
		doc = list.Decode(data)
	}
	doc.HistoryLimit = s.historyLimit
	return doc, nil
}

func (s *Service) save(ctx context.Context, listID string, doc *list.Document) error {
	data, err := list.Encode(doc)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, listID, data); err != nil {
		return fmt.Errorf("failed to save list %s: %w", listID, err)
	}
	return nil
}

// read loads a document under the list lock without saving it.
func (s *Service) read(ctx context.Context, listID string) (*list.Document, error) {
	unlock := s.lock(listID)
	defer unlock()
	return s.load(ctx, listID)
}

// mutate runs fn against a freshly loaded document and saves the result.
// When fn fails nothing is saved, so a failed step never leaves a partial
// mutation behind.
func (s *Service) mutate(ctx context.Context, listID, op string, fn func(doc *list.Document, env list.Env) error) (*list.Document, error) {
	unlock := s.lock(listID)
	defer unlock()

	doc, err := s.load(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := fn(doc, s.env()); err != nil {
		s.logger.Debug().Str("list", listID).Str("op", op).Err(err).Msg("mutation refused")
		return nil, err
	}
	if err := s.save(ctx, listID, doc); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("list", listID).Str("op", op).Msg("mutation saved")
	return doc, nil
}

// resolveItem finds an item by "#n" position, exact id, or unique id prefix.
func resolveItem(doc *list.Document, ref string) (checklist.Item, error) {
	ref = strings.TrimSpace(ref)
	if n, ok := position(ref); ok {
		if n < 1 || n > len(doc.Checklist) {
			return checklist.Item{}, failure.Newf(failure.KindNotFound, "no item at position %s", ref)
		}
		return doc.Checklist[n-1], nil
	}
	if it, ok := doc.Checklist.Find(ref); ok {
		return it, nil
	}

	var match []checklist.Item
	if len(ref) >= 4 {
		for _, it := range doc.Checklist {
			if strings.HasPrefix(strings.ToLower(it.ID), strings.ToLower(ref)) {
				match = append(match, it)
			}
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
		return checklist.Item{}, failure.Newf(failure.KindNotFound, "item %s not found", ref)
	default:
		return checklist.Item{}, failure.Newf(failure.KindInvalid, "item prefix %s is ambiguous (%d matches)", ref, len(match))
	}
}

func position(ref string) (int, bool) {
	if !strings.HasPrefix(ref, "#") {
		return 0, false
	}
	n, err := strconv.Atoi(ref[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
