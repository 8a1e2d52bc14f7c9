// Package bootstrap builds the service graph from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	rediscache "voicecat/internal/adapters/cache/redis"
	"voicecat/internal/adapters/db/memory"
	"voicecat/internal/adapters/db/sqldb"
	"voicecat/internal/adapters/events"
	"voicecat/internal/adapters/ids"
	llmfactory "voicecat/internal/adapters/llm/factory"
	"voicecat/internal/adapters/llm/registry"
	"voicecat/internal/adapters/metrics"
	"voicecat/internal/adapters/prompt"
	"voicecat/internal/adapters/queue"
	"voicecat/internal/adapters/stt/whisper"
	"voicecat/internal/adapters/translate/google"
	"voicecat/internal/adapters/translate/libretranslate"
	"voicecat/internal/config"
	"voicecat/internal/domain"
	"voicecat/internal/ports"
	"voicecat/internal/usecase/extractor"
	"voicecat/internal/usecase/langdetect"
	"voicecat/internal/usecase/normalizer"
	"voicecat/internal/usecase/pipeline"
	"voicecat/internal/usecase/postprocess"
	translatorusecase "voicecat/internal/usecase/translator"
)

// App holds the long-lived components shared by the API server and the worker.
type App struct {
	Config config.Config
	Logger *slog.Logger

	DB        *sql.DB
	Catalog   ports.CatalogRepository
	Jobs      ports.JobRepository
	Templates ports.TemplateRepository
	Cache     ports.CacheRepository

	Registry  *registry.Registry
	Providers []domain.Provider
	Prompt    *prompt.Renderer

	Pipeline  *pipeline.Service
	Processor *metrics.Processor
	Metrics   *metrics.Metrics
	Events    ports.EventEmitter
	STT       ports.SpeechToText
	Producer  *queue.RabbitMQProducer // nil without queue.url

	closers []func() error
}

// Build connects storage, providers and the broker. The returned App must be
// closed; on error everything opened so far is closed.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *App, err error) {
	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if err := a.openStorage(ctx); err != nil {
		return nil, err
	}
	a.Prompt = prompt.New(a.Templates)

	a.Registry = registry.New()
	if cfg.UsesLLM() {
		p := domain.Provider{Name: cfg.LLM.Name, Type: cfg.LLM.Type, BaseURL: cfg.LLM.BaseURL, Model: cfg.LLM.Model, APIKey: cfg.LLM.APIKey}
		prov, err := llmfactory.FromProvider(p, cfg.LLM.Timeout)
		if err != nil {
			return nil, err
		}
		a.Registry.Register(p.Name, prov)
		a.Providers = append(a.Providers, p)
	}

	translator, err := a.translator()
	if err != nil {
		return nil, err
	}

	a.Events = events.Log{Logger: logger}
	if cfg.Queue.URL != "" {
		a.Producer, err = queue.NewRabbitMQProducer(cfg.Queue.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, a.Producer.Close)
		a.Events = events.Multi{a.Events, events.NewQueue(a.Producer, cfg.Queue.EventsQueue, logger)}
	}

	var primary ports.Extractor
	if cfg.LLM.Enabled {
		llm := extractor.NewLLM(a.Registry, a.Prompt, cfg.LLM.Model)
		llm.Temperature = cfg.LLM.Temperature
		primary = llm
	}
	a.Pipeline = pipeline.New(pipeline.Deps{
		Normalizer:       normalizer.New(),
		Detector:         langdetect.New(domain.Language(cfg.Pipeline.DefaultLanguage)),
		Translator:       translator,
		PostProcessor:    postprocess.New(),
		Extractor:        extractor.NewChain(primary, cfg.LLM.Timeout, logger),
		Catalog:          a.Catalog,
		Events:           a.Events,
		Logger:           logger,
		TranslateTimeout: cfg.Translator.Timeout,
	})
	a.Metrics = metrics.New()
	a.Processor = a.Metrics.WrapProcessor(a.Pipeline)

	if cfg.STT.BaseURL != "" || cfg.STT.APIKey != "" {
		a.STT = whisper.New(cfg.STT.BaseURL, cfg.STT.APIKey, cfg.STT.Model, cfg.STT.Timeout)
	}
	logger.Info("services ready",
		"storage", cfg.Storage.Driver, "cache", cfg.Cache.Backend, "translator", cfg.Translator.Provider,
		"llm_extraction", cfg.LLM.Enabled, "stt", a.STT != nil, "broker", a.Producer != nil)
	return a, nil
}

func (a *App) openStorage(ctx context.Context) error {
	cfg := a.Config
	var idGen ports.IDGenerator = ids.NewUUID()
	if cfg.Storage.IDs == "sequence" {
		idGen = ids.NewSequence("p-", 0)
	}

	dialect, dsn := sqldb.SQLite, cfg.Storage.DSN
	switch cfg.Storage.Driver {
	case "mysql":
		dialect = sqldb.MySQL
	case "memory":
		dsn = ":memory:"
	}
	db, err := sqldb.Init(dialect, dsn)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)

	if cfg.Storage.Driver == "memory" {
		a.Catalog = memory.NewCatalogRepo(idGen)
	} else {
		a.Catalog = sqldb.NewCatalogRepo(db, dialect, idGen)
	}
	a.Jobs = sqldb.NewJobRepo(db, dialect)
	a.Templates = sqldb.NewTemplateRepo(db, dialect)

	switch cfg.Cache.Backend {
	case "sql":
		a.Cache = sqldb.NewCacheRepo(db, dialect)
	case "redis":
		client, err := rediscache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		a.Cache = rediscache.NewCacheRepo(client, cfg.Redis.Prefix, cfg.Cache.TTL)
	}
	return nil
}

func (a *App) translator() (ports.Translator, error) {
	cfg := a.Config.Translator
	switch cfg.Provider {
	case "libretranslate":
		return libretranslate.New(cfg.BaseURL, cfg.APIKey, cfg.Timeout), nil
	case "google":
		return google.New(cfg.BaseURL, cfg.APIKey, cfg.Timeout), nil
	case "llm":
		return translatorusecase.New(translatorusecase.Deps{
			Providers:   a.Registry,
			Cache:       a.Cache,
			Prompt:      a.Prompt,
			Logger:      a.Logger,
			Model:       a.Config.LLM.Model,
			Temperature: a.Config.LLM.Temperature,
		}), nil
	}
	return nil, fmt.Errorf("unknown translator provider %q", cfg.Provider)
}

// Close releases connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
