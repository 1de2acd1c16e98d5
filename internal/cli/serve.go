package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tbxark/checkoutbuilder/assist"
	"github.com/tbxark/checkoutbuilder/config"
	"github.com/tbxark/checkoutbuilder/httpapi"
	"github.com/tbxark/checkoutbuilder/selection"
	"github.com/tbxark/checkoutbuilder/store"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the checkout builder HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func newAssistant(ctx context.Context, cfg config.AssistantConfig, logger *zap.Logger) (*assist.Assistant, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, err
	}
	gen, err := assist.NewPatchGenerator(chatModel)
	if err != nil {
		return nil, err
	}
	return assist.New(gen, assist.WithLogger(logger), assist.WithHistory(assist.NewMemoryHistory(0))), nil
}

func newServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*httpapi.Server, error) {
	configs := store.NewConfigStore(store.NewMemoryCache[store.Snapshot](), store.WithLogger(logger))
	catalog := store.NewCatalog(store.FileCatalog(cfg.CatalogFile))
	opts := []httpapi.Option{
		httpapi.WithLogger(logger),
		httpapi.WithRates(cfg.Pricing),
		httpapi.WithCoupons(selection.NewCouponBook(cfg.Coupons, cfg.Latency.CouponLookup)),
		httpapi.WithRequestTimeout(cfg.Server.RequestTimeout),
	}
	if cfg.Assistant.Enabled {
		a, err := newAssistant(ctx, cfg.Assistant, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, httpapi.WithAssistant(a))
	}
	return httpapi.New(configs, catalog, opts...), nil
}

// serve runs the API until ctx is done, then drains in-flight requests for
// at most server.shutdown_timeout.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	api, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.Bool("assistant", cfg.Assistant.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
