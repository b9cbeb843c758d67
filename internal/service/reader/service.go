// Package reader annotates documents and explains dictionary words.
package reader

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/jlex/internal/annotate"
	"github.com/heartmarshall/jlex/internal/config"
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/ranking"
	"github.com/heartmarshall/jlex/internal/script"
)

// dictionary finds the longest dictionary word at the start of a fragment.
type dictionary interface {
	SearchBest(ctx context.Context, fragment string) (*domain.SearchResult, error)
}

// wordFinder returns the words spelled exactly like spelling.
type wordFinder interface {
	FindWords(ctx context.Context, spelling string) ([]*ranking.Word, error)
}

// Service implements reader operations.
type Service struct {
	log        *slog.Logger
	annotator  *annotate.Annotator
	words      wordFinder
	classifier *script.Classifier
	cfg        config.AnnotatorConfig
}

// NewService creates a new reader service instance.
func NewService(
	logger *slog.Logger,
	dict dictionary,
	words wordFinder,
	classifier *script.Classifier,
	cfg config.AnnotatorConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "reader"),
		annotator:  annotate.New(dict, cfg, logger),
		words:      words,
		classifier: classifier,
		cfg:        cfg,
	}
}
