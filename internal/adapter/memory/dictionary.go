// Package memory is an in-process dictionary indexed by a rune trie over
// spellings and inflected forms.
package memory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/jlex/internal/conjugation"
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/ranking"
	"github.com/heartmarshall/jlex/internal/script"
)

// Contents is everything a Dictionary is built from.
type Contents struct {
	Entries    []*domain.Entry
	Priorities map[domain.PriorityCode][]domain.Priority
	Learning   []domain.LearningWord
}

// Dictionary is a read-only index safe for concurrent use once built.
type Dictionary struct {
	root       *node
	words      []*ranking.Word
	byID       map[uuid.UUID]*ranking.Word
	byEntry    map[*domain.Entry]*ranking.Word
	priorities map[domain.PriorityCode][]domain.Priority
	ranker     *ranking.Ranker
}

// New indexes c. Every spelling and every derived form of both sides
// becomes a lookup key.
func New(c Contents, engine *conjugation.Engine, classifier *script.Classifier, logger *slog.Logger) *Dictionary {
	log := logger.With("component", "memory_dictionary")
	d := &Dictionary{
		root:       newNode(),
		byID:       make(map[uuid.UUID]*ranking.Word, len(c.Entries)),
		byEntry:    make(map[*domain.Entry]*ranking.Word, len(c.Entries)),
		priorities: c.Priorities,
	}
	d.ranker = ranking.New(engine, classifier, d)

	for _, e := range c.Entries {
		for _, side := range []domain.Side{domain.SideReading, domain.SideKanji} {
			for i := range e.Count(side) {
				w, _ := e.Word(side, i)
				d.root.insert(w, e, false)
			}
		}
	}

	learning := matchLearning(d.root, c.Learning, log)
	d.words = make([]*ranking.Word, 0, len(c.Entries))
	forms := 0
	for _, e := range c.Entries {
		w := d.ranker.Wrap(e, learning[e])
		d.words = append(d.words, w)
		d.byID[e.ID] = w
		d.byEntry[e] = w
		for _, side := range []domain.Side{domain.SideReading, domain.SideKanji} {
			for _, f := range w.Forms(side) {
				d.root.insert(f, e, true)
				forms++
			}
		}
	}

	log.Info("dictionary indexed",
		slog.Int("entries", len(c.Entries)),
		slog.Int("forms", forms),
		slog.Int("learning", len(learning)),
	)
	return d
}

func matchLearning(root *node, words []domain.LearningWord, log *slog.Logger) map[*domain.Entry]bool {
	out := make(map[*domain.Entry]bool, len(words))
	for _, lw := range words {
		n := root.find(domain.NormalizeSpelling(lw.Key()))
		found := false
		if n != nil {
			for _, e := range n.spelled {
				if lw.Matches(e) {
					out[e] = true
					found = true
				}
			}
		}
		if !found {
			log.Debug("learning word not in dictionary", slog.String("kanji", lw.Kanji), slog.String("reading", lw.Reading))
		}
	}
	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.words) }

// Ranker returns the ranker whose words the dictionary holds.
func (d *Dictionary) Ranker() *ranking.Ranker { return d.ranker }

// Words returns the indexed words in insertion order.
func (d *Dictionary) Words() []*ranking.Word { return d.words }

// Word returns the word for an entry ID.
func (d *Dictionary) Word(id uuid.UUID) (*ranking.Word, error) {
	w, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	return w, nil
}

// Lookup returns the words carrying spelling exactly, learning words first.
func (d *Dictionary) Lookup(spelling string) []*ranking.Word {
	n := d.root.find(domain.NormalizeSpelling(spelling))
	if n == nil {
		return nil
	}
	out := make([]*ranking.Word, 0, len(n.spelled))
	for _, e := range n.spelled {
		out = append(out, d.byEntry[e])
	}
	ranking.SortWords(out)
	return out
}

// FindWords is Lookup behind the context-aware finder signature.
func (d *Dictionary) FindWords(_ context.Context, spelling string) ([]*ranking.Word, error) {
	return d.Lookup(spelling), nil
}

// SearchBest returns the entries whose key is the longest prefix of
// fragment, or nil.
func (d *Dictionary) SearchBest(ctx context.Context, fragment string) (*domain.SearchResult, error) {
	n, length := d.root.longest(fragment)
	if n == nil {
		return nil, nil
	}

	entries := n.candidates()
	candidates := make([]ranking.Candidate, len(entries))
	for i, e := range entries {
		candidates[i] = ranking.Candidate{Entry: e, Learning: d.byEntry[e].IsLearning()}
	}
	selected, err := d.ranker.SelectCandidate(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", fragment, err)
	}

	return &domain.SearchResult{
		Entries:     entries,
		Selected:    selected,
		Length:      length,
		FullMatch:   true,
		DerivedWord: candidates[selected].Learning,
	}, nil
}

// DecodePriority resolves code from the table given at construction.
// Unknown codes have no tags.
func (d *Dictionary) DecodePriority(_ context.Context, code domain.PriorityCode) ([]domain.Priority, error) {
	return d.priorities[code], nil
}
