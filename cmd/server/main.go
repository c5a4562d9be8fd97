package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"runtrack/internal/adapters/discord"
	"runtrack/internal/adapters/httpapi"
	"runtrack/internal/adapters/ws"
	"runtrack/internal/application"
	"runtrack/internal/config"
	"runtrack/internal/infrastructure/database"
	"runtrack/internal/infrastructure/i18n"
	"runtrack/internal/ports/output"
	"runtrack/pkg/clock"
)

// fanout forwards each event to every configured publisher.
type fanout []output.Publisher

func (f fanout) ParticipationChanged(ctx context.Context, event output.ParticipationEvent) {
	for _, p := range f {
		p.ParticipationChanged(ctx, event)
	}
}

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("chargement de la configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialisation de la base de données")
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("migrations")
	}

	userRepo := database.NewUserRepository(pool)
	participationRepo := database.NewParticipationRepository(pool)
	runRepo := database.NewRunRepository(pool, participationRepo)
	mediaRepo := database.NewMediaRepository(pool)

	translator := i18n.NewTranslator(cfg.DefaultLocale)
	systemClock := clock.System{}

	hub := ws.NewHub(cfg.AllowedOrigins, logger)
	publishers := fanout{hub}
	if cfg.DiscordToken != "" {
		announcer, err := discord.NewAnnouncer(cfg.DiscordToken, cfg.DiscordChannelID, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("initialisation de l'annonceur Discord")
		}
		defer announcer.Close()
		publishers = append(publishers, announcer)
		logger.Info().Str("channel_id", cfg.DiscordChannelID).Msg("annonces Discord activées")
	}

	userService := application.NewUserService(userRepo, runRepo, participationRepo)
	runService := application.NewRunService(runRepo, systemClock)
	participationService := application.NewParticipationService(participationRepo, userRepo, runRepo, publishers, logger)
	finishService := application.NewFinishService(userRepo, runRepo, participationRepo, publishers, systemClock, translator, logger)

	server := httpapi.NewServer(
		userService,
		runService,
		participationService,
		finishService,
		mediaRepo,
		systemClock,
		hub,
		cfg.JWTSecret,
		cfg.MediaDir,
		cfg.AllowedOrigins,
		logger,
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("arrêt du serveur HTTP")
		}
	}()

	logger.Info().Str("addr", cfg.HTTPAddr).Msg("serveur HTTP démarré")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("serveur HTTP")
	}
}
