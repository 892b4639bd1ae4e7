package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appcatalog "github.com/lotustea/tea-catalog/app/catalog"
	"github.com/lotustea/tea-catalog/app/categories"
	"github.com/lotustea/tea-catalog/app/observability"
	"github.com/lotustea/tea-catalog/app/routes"
	"github.com/lotustea/tea-catalog/app/views"
	"github.com/lotustea/tea-catalog/catalog"
)

func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}
}

func serve(ctx context.Context, opts *RootOptions) error {
	cfg, logger := opts.cfg, opts.logger

	recs, err := openRecords(ctx, cfg, cfg.AutoMigrate, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recs.close(closeCtx); err != nil {
			logger.Warn("close record store", zap.Error(err))
		}
	}()

	pics, err := openPictures(ctx, cfg)
	if err != nil {
		return err
	}
	defer pics.close()

	renderer, err := views.New(logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := catalog.New(recs.categories, recs.teas, pics.store, logger)
	handler := routes.New(routes.Config{
		Teas:       appcatalog.NewCatalogHandler(svc, renderer, logger),
		Categories: categories.NewCategoryHandler(svc, renderer, logger),
		Images:     pics.images,
		Metrics:    observability.NewMetrics(reg),
		Logger:     logger,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
