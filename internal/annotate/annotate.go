// Package annotate inserts bracketed readings after kanji words in text.
package annotate

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/heartmarshall/jlex/internal/config"
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/script"
	"github.com/heartmarshall/jlex/pkg/ctxutil"
)

// Dictionary finds the longest dictionary word at the start of fragment.
// A nil result means nothing matched.
type Dictionary interface {
	SearchBest(ctx context.Context, fragment string) (*domain.SearchResult, error)
}

// Brackets are the glyphs that delimit annotations.
type Brackets struct {
	Open, Close                 rune
	LearningOpen, LearningClose rune
}

// DefaultBrackets are used unless configured otherwise.
var DefaultBrackets = Brackets{Open: '【', Close: '】', LearningOpen: '《', LearningClose: '》'}

// DefaultMaxWordLength bounds the lookahead window in runes.
const DefaultMaxWordLength = 16

func (b Brackets) isOpen(r rune) bool  { return r == b.Open || r == b.LearningOpen }
func (b Brackets) isClose(r rune) bool { return r == b.Close || r == b.LearningClose }

// ScanError is returned when a dictionary lookup fails mid-scan. Offset is
// the rune position in the partially annotated text where scanning stopped.
type ScanError struct {
	Offset int
	Err    error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("annotate: at rune %d: %v", e.Offset, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Annotator inserts readings using a Dictionary. It holds no per-call state
// and may be shared between goroutines.
type Annotator struct {
	dict     Dictionary
	maxLen   int
	brackets Brackets
	log      *slog.Logger
}

// New creates an Annotator from cfg. Zero values in cfg fall back to the
// defaults.
func New(dict Dictionary, cfg config.AnnotatorConfig, logger *slog.Logger) *Annotator {
	a := &Annotator{
		dict:     dict,
		maxLen:   cfg.MaxWordLength,
		brackets: DefaultBrackets,
		log:      logger.With("component", "annotate"),
	}
	if a.maxLen <= 0 {
		a.maxLen = DefaultMaxWordLength
	}
	if cfg.OpenBracket != "" {
		open, closing, lOpen, lClose := cfg.Brackets()
		a.brackets = Brackets{Open: open, Close: closing, LearningOpen: lOpen, LearningClose: lClose}
	}
	return a
}

// Brackets returns the glyphs the Annotator writes and recognizes.
func (a *Annotator) Brackets() Brackets { return a.brackets }

// Annotate returns text with readings inserted. On error the returned text
// holds every annotation made before the failure.
func (a *Annotator) Annotate(ctx context.Context, text string) (string, error) {
	out, err := a.AnnotateRunes(ctx, []rune(text))
	return string(out), err
}

// AnnotateRunes annotates text in one left-to-right pass and returns the
// grown slice. Text inside brackets is never looked up, so annotating
// already annotated text changes nothing.
func (a *Annotator) AnnotateRunes(ctx context.Context, text []rune) ([]rune, error) {
	if a.dict == nil {
		return text, domain.ErrNoDictionary
	}

	inserted := 0
	inside := false
	for i := 0; i < len(text); {
		r := text[i]
		switch {
		case a.brackets.isOpen(r):
			inside = true
			i++
			continue
		case a.brackets.isClose(r):
			inside = false
			i++
			continue
		case inside || !script.IsIdeograph(r):
			i++
			continue
		}

		if err := ctx.Err(); err != nil {
			return text, &ScanError{Offset: i, Err: err}
		}

		end := a.windowEnd(text, i)
		res, err := a.dict.SearchBest(ctx, string(text[i:end]))
		if err != nil {
			return text, &ScanError{Offset: i, Err: err}
		}
		entry := res.Entry()
		if entry == nil || !res.FullMatch || res.Length <= 0 {
			i++
			continue
		}

		span := i + min(res.Length, end-i)
		if span < len(text) && a.brackets.isOpen(text[span]) {
			i = span
			continue
		}

		ann := a.annotation(entry, string(text[i:span]), res.DerivedWord)
		if ann == nil {
			i++
			continue
		}
		text = slices.Insert(text, span, ann...)
		i = span + len(ann)
		inserted++
	}

	a.log.DebugContext(ctx, "annotated",
		slog.String("document", ctxutil.DocumentFromCtx(ctx)),
		slog.Int("inserted", inserted),
	)
	return text, nil
}

// windowEnd bounds the lookahead at maxLen runes or the next opening bracket.
func (a *Annotator) windowEnd(text []rune, start int) int {
	end := min(len(text), start+a.maxLen)
	for j := start; j < end; j++ {
		if a.brackets.isOpen(text[j]) {
			return j
		}
	}
	return end
}

// annotation builds the bracketed reading for entry, or nil when there is
// nothing to show.
func (a *Annotator) annotation(entry *domain.Entry, matched string, learning bool) []rune {
	kanji := entry.Headline(domain.SideKanji)
	reading := entry.Headline(domain.SideReading)
	differs := kanji != "" && kanji != matched
	if !differs && reading == "" {
		return nil
	}

	open, closing := a.brackets.Open, a.brackets.Close
	if learning {
		open, closing = a.brackets.LearningOpen, a.brackets.LearningClose
	}

	ann := []rune{open}
	if differs {
		ann = append(ann, []rune(kanji+" → ")...)
	}
	ann = append(ann, []rune(reading)...)
	return append(ann, closing)
}
