// @title           Feedback Dashboard API
// @version         1.0
// @description     Read-only views, statistics and CSV/JSON/XLSX exports of customer feedback.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/feedback-dashboard/internal/app"
	"github.com/tbourn/feedback-dashboard/internal/config"
	httpapi "github.com/tbourn/feedback-dashboard/internal/http"
	"github.com/tbourn/feedback-dashboard/internal/observability"
	"github.com/tbourn/feedback-dashboard/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogging(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	store, err := app.OpenStore(ctx, cfg.Store, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}

	r := gin.New()
	svc := httpapi.Services{
		Dashboard: app.NewDashboardService(store, cfg),
		Auth:      app.NewAuthService(store, cfg.Auth),
	}
	if err := httpapi.RegisterRoutes(r, svc, cfg); err != nil {
		log.Fatal().Err(err).Msg("register routes")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := store.Close(shCtx); err != nil {
		log.Error().Err(err).Msg("store close")
	}
	if err := shutdownOTel(shCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("bye")
}
