// Command seed loads sample feedback into the configured store and can
// create or update a dashboard user.
//
//	go run ./cmd/seed                       # embedded sample data
//	go run ./cmd/seed -file my.yaml
//	go run ./cmd/seed -admin-email a@b.c -admin-password '...'
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/feedback-dashboard/internal/app"
	"github.com/tbourn/feedback-dashboard/internal/config"
	"github.com/tbourn/feedback-dashboard/internal/services"
	"github.com/tbourn/feedback-dashboard/internal/sysutil"
)

func main() {
	file := flag.String("file", "", "YAML seed file (defaults to the embedded sample data)")
	skipFeedback := flag.Bool("skip-feedback", false, "do not insert feedback")
	adminEmail := flag.String("admin-email", "", "create or update this dashboard user (or SEED_ADMIN_EMAIL)")
	adminPassword := flag.String("admin-password", "", "password for -admin-email (or SEED_ADMIN_PASSWORD)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()
	sysutil.SetupLogging(cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = log.Logger.WithContext(ctx)

	store, err := app.OpenStore(ctx, cfg.Store, false)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer store.Close(context.Background())

	if !*skipFeedback {
		data := defaultEntries
		if *file != "" {
			if data, err = os.ReadFile(*file); err != nil {
				log.Fatal().Err(err).Str("file", *file).Msg("read seed file")
			}
		}
		docs, err := parseEntries(data)
		if err != nil {
			log.Fatal().Err(err).Msg("seed")
		}

		seeder := &services.Seeder{Store: store}
		rep, err := seeder.Seed(ctx, docs)
		if err != nil {
			log.Fatal().Err(err).Int("added", rep.Added).Int("skipped", rep.Skipped).Msg("seed")
		}
		log.Info().Int("added", rep.Added).Int("skipped", rep.Skipped).Int64("total", rep.Total).Msg("feedback seeded")
	}

	email := sysutil.FirstNonEmpty(*adminEmail, os.Getenv("SEED_ADMIN_EMAIL"))
	if email != "" {
		password := sysutil.FirstNonEmpty(*adminPassword, os.Getenv("SEED_ADMIN_PASSWORD"))
		authSvc := app.NewAuthService(store, cfg.Auth)
		u, err := authSvc.SetPassword(ctx, email, password)
		if err != nil {
			log.Fatal().Err(err).Msg("set admin password")
		}
		log.Info().Str("email", u.Email).Msg("dashboard user ready")
	}
}
