package reader

import (
	"context"
	"fmt"

	"github.com/heartmarshall/jlex/internal/domain"
)

// Inspect returns every dictionary word spelled exactly like spelling,
// learning words first. Returns domain.ErrNotFound when nothing matches.
func (s *Service) Inspect(ctx context.Context, spelling string) ([]WordInfo, error) {
	spelling = domain.NormalizeSpelling(spelling)
	if spelling == "" {
		return nil, domain.NewValidationError("spelling", "required")
	}

	words, err := s.words.FindWords(ctx, spelling)
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", spelling, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("spelling %s: %w", spelling, domain.ErrNotFound)
	}

	out := make([]WordInfo, 0, len(words))
	for _, w := range words {
		mask, err := w.Mask(ctx)
		if err != nil {
			return nil, fmt.Errorf("inspect %q: %w", spelling, err)
		}
		e := w.Entry()
		info := WordInfo{
			Entry:        e,
			Kanji:        e.Headline(domain.SideKanji),
			Reading:      e.Headline(domain.SideReading),
			KanjiForms:   w.Forms(domain.SideKanji),
			ReadingForms: w.Forms(domain.SideReading),
			Mask:         mask,
			Learning:     w.IsLearning(),
		}
		if info.Kanji != "" {
			info.Script = s.classifier.Classify(info.Kanji)
		} else {
			info.Script = s.classifier.Classify(info.Reading)
		}
		out = append(out, info)
	}
	return out, nil
}
