package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	builder "github.com/goliatone/go-builder"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "", "sqlite database path (empty runs in-memory repositories)")
	logLevel := flag.String("log-level", "info", "log level: trace, debug, info, warn, error")
	logFormat := flag.String("log-format", "text", "log format: text or json")
	flag.Parse()

	if err := run(*addr, *dbPath, *logLevel, *logFormat); err != nil {
		log.Fatalf("builder-server: %v", err)
	}
}

func run(addr, dbPath, logLevel, logFormat string) error {
	ctx := context.Background()

	cfg := builder.DefaultConfig()
	cfg.Logging.Level = logLevel
	cfg.Logging.Format = logFormat

	var opts []builder.Option
	if dbPath != "" {
		sqlDB, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
		if err := builder.Migrate(ctx, bunDB); err != nil {
			return err
		}
		opts = append(opts, builder.WithBunDB(bunDB))
	}

	module, err := builder.New(cfg, opts...)
	if err != nil {
		return err
	}
	logger := module.Logger("builder.server")

	server := &http.Server{
		Addr:              addr,
		Handler:           module.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- server.ListenAndServe()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-sigc:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
