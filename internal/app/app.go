package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/jlex/internal/adapter/postgres"
	"github.com/heartmarshall/jlex/internal/adapter/postgres/dictionary"
	"github.com/heartmarshall/jlex/internal/adapter/postgres/learning"
	"github.com/heartmarshall/jlex/internal/adapter/wordlist"
	"github.com/heartmarshall/jlex/internal/config"
	"github.com/heartmarshall/jlex/internal/conjugation"
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/ranking"
	"github.com/heartmarshall/jlex/internal/script"
	"github.com/heartmarshall/jlex/internal/service/reader"
)

// ReaderOptions tune how OpenReader wires the dictionary.
type ReaderOptions struct {
	// LearningPath overrides cfg.Learning.Path.
	LearningPath string
	// Direct queries the database per lookup instead of loading the whole
	// dictionary into memory. Derived forms are not matched in this mode.
	Direct bool
}

// OpenReader connects to the database and builds a reader service. Call
// release when done to free the connection pool.
func OpenReader(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ReaderOptions) (svc *reader.Service, release func(), err error) {
	logger.Info("starting reader",
		slog.String("version", BuildVersion()),
		slog.Bool("direct", opts.Direct),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	txm := postgres.NewTxManager(pool)
	dictRepo := dictionary.New(pool, txm, cfg.Annotator.PriorityBatch, logger)
	learningRepo := learning.New(pool, txm)
	classifier := script.NewFromConfig(cfg.Script, logger)
	engine := conjugation.NewEngine(logger)

	path := cfg.Learning.Path
	if opts.LearningPath != "" {
		path = opts.LearningPath
	}

	if opts.Direct {
		if path != "" {
			logger.Warn("learning file ignored in direct mode, using stored list", slog.String("path", path))
		}
		words := reader.NewStoredWords(dictRepo, learningRepo, ranking.New(engine, classifier, dictRepo))
		return reader.NewService(logger, dictRepo, words, classifier, cfg.Annotator), pool.Close, nil
	}

	list, err := loadLearning(ctx, path, learningRepo)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	index, err := reader.BuildIndex(ctx, dictRepo, list, engine, classifier, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	// The index holds everything it needs.
	pool.Close()

	return reader.NewService(logger, index, index, classifier, cfg.Annotator), func() {}, nil
}

type learningLister interface {
	List(ctx context.Context) ([]domain.LearningWord, error)
}

// loadLearning reads the learning list from path, or from the store when
// path is empty.
func loadLearning(ctx context.Context, path string, store learningLister) ([]domain.LearningWord, error) {
	if path != "" {
		words, err := wordlist.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read learning list: %w", err)
		}
		return words, nil
	}
	words, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load learning list: %w", err)
	}
	return words, nil
}
