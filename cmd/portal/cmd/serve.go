package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bankportal/portal-gateway/internal/api"
	"github.com/bankportal/portal-gateway/internal/api/handler"
	"github.com/bankportal/portal-gateway/internal/core/service"
	"github.com/bankportal/portal-gateway/internal/infrastructure/config"
	mongostore "github.com/bankportal/portal-gateway/internal/infrastructure/db/mongo"
	redisstore "github.com/bankportal/portal-gateway/internal/infrastructure/db/redis"
	"github.com/bankportal/portal-gateway/internal/infrastructure/token"
	"github.com/bankportal/portal-gateway/internal/navigation"
	"github.com/bankportal/portal-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var envFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	Long: `Start the HTTP gateway.

The gateway connects to MongoDB (accounts) and Redis (revoked tokens and the
session cache), then serves the API, the metrics endpoint and the portal's
pages. SIGINT or SIGTERM drains in-flight requests before exiting.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "portal-gateway",
		Version: Version,
	})

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	repo := mongostore.NewAuthRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	authService := service.NewAuthService(
		repo,
		token.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		redisstore.NewSessionCache(rdb, cfg.Redis.UserTTL),
		log,
	)

	e := api.NewRouter(api.Deps{
		Auth:  authService,
		Table: navigation.DefaultTable(service.NewRoleRedirector(log)),
		Gate:  service.NewGatekeeper(log),
		Checks: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		StaticDir: cfg.StaticDir,
		Cookie:    handler.CookieOptions{Secure: cfg.CookieSecure, MaxAge: cfg.TokenTTL},
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
