package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/odiscan/internal/adapters/driven/ai"
	filecache "github.com/custodia-labs/odiscan/internal/adapters/driven/cache/file"
	"github.com/custodia-labs/odiscan/internal/adapters/driven/config/file"
	"github.com/custodia-labs/odiscan/internal/adapters/driven/metrics"
	"github.com/custodia-labs/odiscan/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/odiscan/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
	"github.com/custodia-labs/odiscan/internal/core/services"
	"github.com/custodia-labs/odiscan/internal/logger"
)

// App holds the services a command needs, wired from the configuration.
type App struct {
	Settings   domain.Settings
	Store      *file.SettingsStore
	Lexicon    *domain.Lexicon
	Classifier *services.Classifier
	Extractor  *services.HybridExtractor
	Pipeline   *services.Pipeline
	Cache      driven.ResponseCache
	Client     driven.CompletionClient
	Logger     *zap.Logger

	closers []func() error
}

// loadSettings opens the settings store for the --config-dir flag and loads it.
func loadSettings() (*file.SettingsStore, domain.Settings, error) {
	store, err := file.NewSettingsStore(configDir)
	if err != nil {
		return nil, domain.Settings{}, err
	}
	settings, err := store.Load()
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return store, settings, nil
}

// newClassifierApp wires only what classification needs.
func newClassifierApp() (*App, error) {
	store, settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	log := logger.L()

	lexicon, err := file.NewLexiconStore(settings.LexiconFile).Load()
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	return &App{
		Settings:   settings,
		Store:      store,
		Lexicon:    lexicon,
		Classifier: services.NewClassifier(lexicon, log),
		Logger:     log,
	}, nil
}

// appOptions are command flags that override the configuration.
type appOptions struct {
	metricsFile string
}

// newApp wires the full pipeline. A model that cannot be reached downgrades
// extraction to rule-only mode instead of failing.
func newApp(ctx context.Context, opts appOptions) (*App, error) {
	app, err := newClassifierApp()
	if err != nil {
		return nil, err
	}
	if opts.metricsFile != "" {
		app.Settings.Output.MetricsFile = opts.metricsFile
	}
	settings := app.Settings
	log := app.Logger

	if settings.Cache.Enabled {
		cache, closer, err := openCache(settings.Cache)
		if err != nil {
			return nil, err
		}
		app.Cache = cache
		app.addCloser(closer)
	}

	logger.Section("Model setup")
	logger.Debug("Provider: %s, cache: %t (%s)", settings.LLM.Provider, settings.Cache.Enabled, settings.Cache.Backend)

	var model services.ModelCaller
	if !ruleOnly && settings.LLM.IsConfigured() {
		client, err := ai.CreateAndValidateCompletionClient(ctx, &settings.LLM)
		if err != nil {
			logger.Warn("Language model unavailable, using rule extraction only: %v", err)
		} else if client != nil {
			app.Client = client
			app.addCloser(client.Close)
			logger.Info("Language model ready: %s (%s)", client.ModelName(), settings.LLM.Provider)
			model = services.NewModelAdapter(client, app.Cache, settings.LLM, log)
		}
	} else {
		logger.Info("Language model disabled, using rule extraction only")
	}

	prompts, err := file.NewPromptStore(promptDir(app.Store))
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Extractor = services.NewHybridExtractor(
		services.NewRuleExtractor(app.Lexicon, log),
		services.NewPromptBuilder(prompts, settings.Extraction.MaxTextChars),
		model,
		settings.Extraction.RuleFallback,
		log,
	)

	var recorder driven.MetricsRecorder
	if settings.Output.MetricsFile != "" {
		r, err := metrics.NewRecorder(settings.Output.MetricsFile)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		recorder = r
	}

	app.Pipeline = services.NewPipeline(app.Classifier, app.Extractor, app.Extractor, recorder, log)
	return app, nil
}

// openCache opens the configured cache backend. The returned closer is
// never nil.
func openCache(cfg domain.CacheSettings) (driven.ResponseCache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case domain.CacheBackendMemory:
		return memory.NewResponseCache(), noop, nil
	case domain.CacheBackendSQLite:
		store, err := sqlite.NewStore(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return store, store.Close, nil
	case domain.CacheBackendFile:
		cache, err := filecache.NewCache(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file cache: %w", err)
		}
		return cache, noop, nil
	default:
		return nil, nil, fmt.Errorf("%w: cache backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
}

func (a *App) addCloser(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases the cache and the completion client.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
