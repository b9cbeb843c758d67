// Command learning imports a learning-list file into the database,
// replacing the stored list, or exports the stored list with --export.
//
// Usage: learning [--export] FILE
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/jlex/internal/adapter/postgres"
	"github.com/heartmarshall/jlex/internal/adapter/postgres/learning"
	"github.com/heartmarshall/jlex/internal/adapter/wordlist"
	"github.com/heartmarshall/jlex/internal/app"
	"github.com/heartmarshall/jlex/internal/config"
)

func main() {
	configPath := flag.String("config", "", "config file (default $JLEX_CONFIG, then ./jlex.yaml)")
	export := flag.Bool("export", false, "write the stored list to FILE instead of importing it")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: learning [--export] FILE")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, logCloser := app.NewLogger(cfg.Log)
	defer logCloser.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := learning.New(pool, postgres.NewTxManager(pool))

	if *export {
		words, err := repo.List(ctx)
		if err != nil {
			logger.Error("list learning words", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := wordlist.WriteFile(path, words); err != nil {
			logger.Error("write learning list", slog.String("path", path), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("learning list exported", slog.String("path", path), slog.Int("words", len(words)))
		return
	}

	words, err := wordlist.ReadFile(path)
	if err != nil {
		logger.Error("read learning list", slog.String("path", path), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := repo.ReplaceAll(ctx, words); err != nil {
		logger.Error("store learning list", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("learning list imported", slog.String("path", path), slog.Int("words", len(words)))
}
