package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wellbeing-assessment/internal/agent"
	"wellbeing-assessment/internal/analysis"
	"wellbeing-assessment/internal/assessment"
	"wellbeing-assessment/internal/config"
	"wellbeing-assessment/internal/matching"
	"wellbeing-assessment/internal/platform/middleware"
	"wellbeing-assessment/internal/platform/telegram"
	"wellbeing-assessment/internal/report"
	"wellbeing-assessment/internal/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wellbeing-server",
		Short: "Wellbeing questionnaire and assessment API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("Migrations applied successfully.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Steps(-1); err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			fmt.Println("Rolled back one migration.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			defer m.Close()

			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("No migrations applied.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read migration version: %w", err)
			}
			fmt.Printf("Version: %d (dirty: %t)\n", version, dirty)
			return nil
		},
	})

	return cmd
}

func newMigrator() (*migrate.Migrate, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.UsesDatabase() {
		return nil, fmt.Errorf("DATABASE_URL is required for migrations")
	}
	return migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func openRepository(cfg *config.Config, logger zerolog.Logger) (session.Repository, func(), error) {
	if !cfg.UsesDatabase() {
		logger.Warn().Msg("DATABASE_URL not set, sessions are kept in memory")
		return session.NewMemoryRepository(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	// the database container may still be starting
	for i := 1; i <= 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		logger.Info().Int("attempt", i).Msg("waiting for database")
		time.Sleep(time.Second)
	}
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info().Msg("connected to database")

	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migration init failed: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		db.Close()
		return nil, nil, fmt.Errorf("migration up failed: %w", err)
	}
	m.Close()
	logger.Info().Msg("migrations applied")

	return session.NewRepository(db), func() { db.Close() }, nil
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg)

	repo, closeRepo, err := openRepository(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open repository")
	}
	defer closeRepo()

	ctx := context.Background()
	llmClient, err := agent.New(ctx, agent.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		BaseURL:  cfg.LLMBaseURL,
		Model:    cfg.LLMModel,
		Timeout:  cfg.LLMTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build language model client")
	}
	if _, disabled := llmClient.(agent.Disabled); disabled {
		logger.Warn().Msg("no language model configured, using rule-based analysis only")
	}
	analyzer := analysis.NewLLM(llmClient, analysis.NewRuleBased(), cfg.LLMTimeout, logger)

	var tgClient report.TelegramClient
	if cfg.TelegramBotToken != "" {
		tgClient = telegram.NewClient(cfg.TelegramBotToken)
	}
	if cfg.ReportChatID == 0 {
		logger.Warn().Msg("REPORT_CHAT_ID is not set, clinician reports will not be delivered")
	}
	reportSvc := report.NewService(tgClient, cfg.ReportChatID, cfg.ReportFontPaths, logger)

	sessionSvc := session.NewService(
		repo,
		assessment.DefaultCatalog(),
		matching.DefaultRoster(),
		analyzer,
		reportSvc,
		logger,
	)
	sessionHandler := session.NewHandler(sessionSvc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		session.RegisterRoutes(r, sessionHandler)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	if err := sessionSvc.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("report deliveries did not finish")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
