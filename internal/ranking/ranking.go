// Package ranking computes display preferences and sort order for
// dictionary entries.
package ranking

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/heartmarshall/jlex/internal/conjugation"
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/script"
)

// PriorityDecoder resolves a priority code into its tags.
type PriorityDecoder interface {
	DecodePriority(ctx context.Context, code domain.PriorityCode) ([]domain.Priority, error)
}

// Ranker holds the collaborators shared by every Word it wraps.
type Ranker struct {
	engine     *conjugation.Engine
	classifier *script.Classifier
	decoder    PriorityDecoder
}

// New creates a Ranker. decoder may be nil until a dictionary is attached,
// in which case mask computation fails with domain.ErrNoDictionary.
func New(engine *conjugation.Engine, classifier *script.Classifier, decoder PriorityDecoder) *Ranker {
	return &Ranker{engine: engine, classifier: classifier, decoder: decoder}
}

// Wrap returns a Word for entry. learning marks a learning-list word.
func (r *Ranker) Wrap(entry *domain.Entry, learning bool) *Word {
	return &Word{ranker: r, entry: entry, learning: learning}
}

// Engine returns the conjugation engine used for derived forms.
func (r *Ranker) Engine() *conjugation.Engine { return r.engine }

func (r *Ranker) tags(ctx context.Context, e *domain.Entry, side domain.Side) ([]domain.Priority, error) {
	if e.Count(side) == 0 {
		return nil, nil
	}
	code := e.Priority(side, 0)
	if code == domain.NoPriority {
		return nil, nil
	}
	if r.decoder == nil {
		return nil, domain.ErrNoDictionary
	}
	tags, err := r.decoder.DecodePriority(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("decode priority %d: %w", code, err)
	}
	return tags, nil
}

func (r *Ranker) computeMask(ctx context.Context, e *domain.Entry, learning bool) (Mask, error) {
	readingTags, err := r.tags(ctx, e, domain.SideReading)
	if err != nil {
		return 0, err
	}
	kanjiTags, err := r.tags(ctx, e, domain.SideKanji)
	if err != nil {
		return 0, err
	}

	var m Mask
	if domain.IsCommon(readingTags) {
		m |= For(domain.SideReading, Common)
	}
	if domain.IsCommon(kanjiTags) {
		m |= For(domain.SideKanji, Common)
	}

	hasKanji := e.Count(domain.SideKanji) > 0
	switch {
	case !hasKanji:
		m |= For(domain.SideReading, Preferred)
	case e.Count(domain.SideReading) == 0:
		m |= For(domain.SideKanji, Preferred)
	case domain.MaxRank(kanjiTags) > domain.MaxRank(readingTags):
		m |= For(domain.SideKanji, Preferred)
	default:
		m |= For(domain.SideReading, Preferred)
	}

	if hasKanji && r.classifier.Classify(e.Headline(domain.SideKanji)) == script.ScriptKanji {
		m |= For(domain.SideKanji, UncommonKanji)
	}

	if learning {
		m |= For(domain.SideReading, Preferred) | For(domain.SideKanji, Preferred) | Learning
	}
	return m | computed, nil
}

// Rank returns the highest headline priority rank over both sides of e.
func (r *Ranker) Rank(ctx context.Context, e *domain.Entry) (int, error) {
	rank := 0
	for _, side := range []domain.Side{domain.SideReading, domain.SideKanji} {
		tags, err := r.tags(ctx, e, side)
		if err != nil {
			return 0, err
		}
		rank = max(rank, domain.MaxRank(tags))
	}
	return rank, nil
}

// Candidate is one entry competing for a dictionary match.
type Candidate struct {
	Entry    *domain.Entry
	Learning bool
}

// SelectCandidate returns the index of the preferred candidate: learning
// words first, then the highest Rank, then the earliest position.
// It returns -1 for an empty slice.
func (r *Ranker) SelectCandidate(ctx context.Context, candidates []Candidate) (int, error) {
	best, bestRank := -1, 0
	for i, c := range candidates {
		rank, err := r.Rank(ctx, c.Entry)
		if err != nil {
			return -1, err
		}
		if best < 0 || better(c.Learning, rank, candidates[best].Learning, bestRank) {
			best, bestRank = i, rank
		}
	}
	return best, nil
}

func better(learning bool, rank int, bestLearning bool, bestRank int) bool {
	if learning != bestLearning {
		return learning
	}
	return rank > bestRank
}

// Compare orders learning words before all others, then by dictionary
// sequence.
func Compare(a, b *Word) int {
	if a.learning != b.learning {
		if a.learning {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.entry.Seq, b.entry.Seq)
}

// SortWords sorts words in place by Compare, keeping equal words in order.
func SortWords(words []*Word) {
	slices.SortStableFunc(words, Compare)
}
