package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"ewintr.nl/codingvideos/catalog"
	"ewintr.nl/codingvideos/handler"
	"ewintr.nl/codingvideos/storage"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	videoRepo, closeRepo, err := newVideoRepository(ctx, getParam("STORAGE", "sqlite"))
	if err != nil {
		logger.Error("unable to open storage", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer closeRepo()

	videos := catalog.NewCatalog(videoRepo, logger)

	port, err := strconv.Atoi(getParam("API_PORT", "8080"))
	if err != nil {
		logger.Error("invalid port", slog.String("err", err.Error()))
		os.Exit(1)
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler.NewServer(videos, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}()
	logger.Info("http server started", slog.Int("port", port))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt)
	<-done

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", slog.String("err", err.Error()))
	}

	logger.Info("service stopped")
}

func newVideoRepository(ctx context.Context, kind string) (storage.VideoRepository, func() error, error) {
	switch kind {
	case "postgres":
		postgres, err := storage.NewPostgres(storage.PostgresInfo{
			Host:     getParam("POSTGRES_HOST", "localhost"),
			Port:     getParam("POSTGRES_PORT", "5432"),
			User:     getParam("POSTGRES_USER", "codingvideos"),
			Password: getParam("POSTGRES_PASSWORD", "codingvideos"),
			Database: getParam("POSTGRES_DB", "codingvideos"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to postgres: %w", err)
		}
		return storage.NewPostgresVideoRepository(postgres), postgres.Close, nil
	case "sqlite":
		sqlite, err := storage.NewSQLite(ctx, getParam("SQLITE_PATH", "codingvideos.db"))
		if err != nil {
			return nil, nil, err
		}
		return sqlite, sqlite.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", kind)
	}
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}
