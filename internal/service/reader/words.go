package reader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/jlex/internal/adapter/memory"
	"github.com/heartmarshall/jlex/internal/conjugation"
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/ranking"
	"github.com/heartmarshall/jlex/internal/script"
)

// entryRepo defines the dictionary store lookups needed by StoredWords.
type entryRepo interface {
	FindBySpelling(ctx context.Context, spelling string) ([]*domain.Entry, error)
}

// learningRepo defines the learning list source needed by StoredWords.
type learningRepo interface {
	List(ctx context.Context) ([]domain.LearningWord, error)
}

// StoredWords finds words directly in the dictionary store, without an
// in-memory index.
type StoredWords struct {
	entries  entryRepo
	learning learningRepo
	ranker   *ranking.Ranker
}

// NewStoredWords creates a StoredWords. learning may be nil.
func NewStoredWords(entries entryRepo, learning learningRepo, ranker *ranking.Ranker) *StoredWords {
	return &StoredWords{entries: entries, learning: learning, ranker: ranker}
}

// FindWords returns the stored entries spelled like spelling, wrapped and
// sorted with learning words first.
func (w *StoredWords) FindWords(ctx context.Context, spelling string) ([]*ranking.Word, error) {
	entries, err := w.entries.FindBySpelling(ctx, spelling)
	if err != nil {
		return nil, err
	}

	var list []domain.LearningWord
	if w.learning != nil && len(entries) > 0 {
		list, err = w.learning.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list learning words: %w", err)
		}
	}

	words := make([]*ranking.Word, len(entries))
	for i, e := range entries {
		learning := false
		for _, lw := range list {
			if lw.Matches(e) {
				learning = true
				break
			}
		}
		words[i] = w.ranker.Wrap(e, learning)
	}
	ranking.SortWords(words)
	return words, nil
}

// entrySource defines the dictionary store reads needed by BuildIndex.
type entrySource interface {
	ListAll(ctx context.Context) ([]*domain.Entry, error)
	Priorities(ctx context.Context) (map[domain.PriorityCode][]domain.Priority, error)
}

// BuildIndex loads the whole dictionary store into a memory index.
func BuildIndex(
	ctx context.Context,
	src entrySource,
	learning []domain.LearningWord,
	engine *conjugation.Engine,
	classifier *script.Classifier,
	logger *slog.Logger,
) (*memory.Dictionary, error) {
	start := time.Now()

	entries, err := src.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	priorities, err := src.Priorities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load priorities: %w", err)
	}

	dict := memory.New(memory.Contents{
		Entries:    entries,
		Priorities: priorities,
		Learning:   learning,
	}, engine, classifier, logger)

	logger.InfoContext(ctx, "dictionary loaded",
		slog.Int("entries", dict.Len()),
		slog.Int("priority_codes", len(priorities)),
		slog.Duration("took", time.Since(start)),
	)
	return dict, nil
}
