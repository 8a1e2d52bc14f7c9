package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	csvexp "voicecat/internal/adapters/exporter/csv"
	jsonexp "voicecat/internal/adapters/exporter/json"
	exportreg "voicecat/internal/adapters/exporter/registry"
	csvparser "voicecat/internal/adapters/parser/csv"
	"voicecat/internal/adapters/parser/jsonl"
	parserreg "voicecat/internal/adapters/parser/registry"
	apiapp "voicecat/internal/api/app"
	"voicecat/internal/api/httpapi"
	"voicecat/internal/bootstrap"
	"voicecat/internal/config"
	"voicecat/internal/logging"
	"voicecat/internal/usecase/catalog"
	"voicecat/internal/usecase/importer"
	jobsusecase "voicecat/internal/usecase/jobs"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default ./config.yaml when present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Job runner
	runner := jobsusecase.NewRunner(jobsusecase.Deps{Jobs: a.Jobs, Pipeline: a.Processor, Logger: logger, ItemTimeout: cfg.Batch.ItemTimeout})
	runner.SetEmitter(a.Events)
	importSvc := importer.New(parserreg.New(csvparser.New(), jsonl.New()), cfg.Batch.MaxItems)

	catalogSvc := catalog.New(a.Catalog, exportreg.New(csvexp.New(), jsonexp.New()), a.Events)

	srv := &httpapi.Server{
		Pipeline:       apiapp.NewPipelineAPI(a.Processor, a.STT),
		Catalog:        apiapp.NewCatalogAPI(catalogSvc),
		Jobs:           apiapp.NewJobsAPI(runner, importSvc),
		Providers:      apiapp.NewProviderAPI(a.Registry, a.Providers...),
		Templates:      apiapp.NewTemplatesAPI(a.Templates),
		Logger:         logger,
		Observer:       a.Metrics,
		Metrics:        a.Metrics.Handler(),
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
	}
	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	if n := runner.CancelAll(); n > 0 {
		logger.Warn("canceled running batch jobs", "count", n)
	}
	runner.Wait()
}
