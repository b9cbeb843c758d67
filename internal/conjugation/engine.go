package conjugation

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/heartmarshall/jlex/internal/domain"
)

// Engine derives the inflected forms of dictionary entries.
//
// One accumulation buffer is reused across calls, so calls on the same
// Engine are serialized. Give each goroutine its own Engine to run
// derivations in parallel.
type Engine struct {
	log *slog.Logger

	mu   sync.Mutex
	buf  []string
	seen map[string]struct{}
}

// NewEngine creates an Engine that reports skipped tags to logger.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		log:  logger.With("component", "conjugation"),
		seen: make(map[string]struct{}),
	}
}

// DeriveForms returns the deduplicated inflected forms of every spelling on
// side, in derivation order. Tags whose ending does not fit a spelling are
// logged and skipped. The result is a fresh slice, possibly empty.
func (e *Engine) DeriveForms(entry *domain.Entry, side domain.Side) []string {
	tags := entry.PartsOfSpeech()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.buf = e.buf[:0]
	clear(e.seen)

	var scratch []string
	for i := range entry.Count(side) {
		word, _ := entry.Word(side, i)
		for _, pos := range tags {
			if !pos.Class().Inflects() {
				continue
			}
			r, ok := rules[pos]
			if !ok {
				e.log.Debug("no conjugation rule", slog.String("pos", pos.String()), slog.String("word", word))
				continue
			}

			var err error
			scratch, err = r(scratch[:0], word, pos)
			if err != nil {
				var ee *EndingError
				if errors.As(err, &ee) {
					e.log.Warn("skip part of speech",
						slog.String("word", word),
						slog.String("pos", pos.String()),
						slog.Int("seq", entry.Seq),
						slog.String("error", err.Error()),
					)
					continue
				}
				e.log.Error("derive forms", slog.String("word", word), slog.String("error", err.Error()))
				continue
			}
			e.add(scratch)
		}
	}

	return slices.Clone(e.buf)
}

func (e *Engine) add(forms []string) {
	for _, f := range forms {
		if _, ok := e.seen[f]; ok {
			continue
		}
		e.seen[f] = struct{}{}
		e.buf = append(e.buf, f)
	}
}
