package domain

import (
	"slices"

	"github.com/google/uuid"
)

// Side selects one of an entry's two spelling lists.
type Side int

const (
	SideReading Side = iota
	SideKanji
)

func (s Side) String() string {
	switch s {
	case SideReading:
		return "reading"
	case SideKanji:
		return "kanji"
	}
	return "unknown"
}

func (s Side) IsValid() bool {
	return s == SideReading || s == SideKanji
}

// Spelling is one written form of an entry with its priority code.
type Spelling struct {
	Text     string
	Priority PriorityCode
}

// Sense is one meaning of an entry.
type Sense struct {
	Meaning       string
	Locale        string
	PartsOfSpeech []PartOfSpeech
}

// Entry is a dictionary headword with its spellings and senses.
// It is read-only once constructed.
type Entry struct {
	ID  uuid.UUID
	Seq int

	kanji    []Spelling
	readings []Spelling
	senses   []Sense
}

// NewEntry builds an entry. Spelling texts are normalized; empty spellings
// are dropped. At least one spelling must remain on either side.
func NewEntry(id uuid.UUID, seq int, kanji, readings []Spelling, senses []Sense) (*Entry, error) {
	e := &Entry{
		ID:       id,
		Seq:      seq,
		kanji:    cleanSpellings(kanji),
		readings: cleanSpellings(readings),
		senses:   make([]Sense, len(senses)),
	}
	if len(e.kanji) == 0 && len(e.readings) == 0 {
		return nil, NewValidationError("spellings", "entry needs a kanji or reading spelling")
	}
	for i, s := range senses {
		s.PartsOfSpeech = slices.Clone(s.PartsOfSpeech)
		e.senses[i] = s
	}
	return e, nil
}

func cleanSpellings(in []Spelling) []Spelling {
	out := make([]Spelling, 0, len(in))
	for _, s := range in {
		s.Text = NormalizeSpelling(s.Text)
		if s.Text == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (e *Entry) spellings(side Side) []Spelling {
	if side == SideKanji {
		return e.kanji
	}
	return e.readings
}

// Count returns the number of spellings on a side.
func (e *Entry) Count(side Side) int {
	return len(e.spellings(side))
}

// Word returns the i-th spelling of a side.
func (e *Entry) Word(side Side, i int) (string, bool) {
	sp := e.spellings(side)
	if i < 0 || i >= len(sp) {
		return "", false
	}
	return sp[i].Text, true
}

// Priority returns the priority code of the i-th spelling of a side,
// NoPriority when out of range.
func (e *Entry) Priority(side Side, i int) PriorityCode {
	sp := e.spellings(side)
	if i < 0 || i >= len(sp) {
		return NoPriority
	}
	return sp[i].Priority
}

// Headline returns the first spelling of a side, or "" when the side is empty.
func (e *Entry) Headline(side Side) string {
	w, _ := e.Word(side, 0)
	return w
}

// Spellings returns a copy of a side's spellings.
func (e *Entry) Spellings(side Side) []Spelling {
	return slices.Clone(e.spellings(side))
}

// Senses returns a copy of the senses.
func (e *Entry) Senses() []Sense {
	return slices.Clone(e.senses)
}

// PartsOfSpeech returns the union of all senses' tags in first-seen order.
func (e *Entry) PartsOfSpeech() []PartOfSpeech {
	var out []PartOfSpeech
	seen := make(map[PartOfSpeech]struct{})
	for _, s := range e.senses {
		for _, p := range s.PartsOfSpeech {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// LearningWord is one line of the user's learning list. Kanji may be empty
// for kana-only words.
type LearningWord struct {
	Kanji   string
	Reading string
}

// Key returns the spelling the word is matched by.
func (w LearningWord) Key() string {
	if w.Kanji != "" {
		return w.Kanji
	}
	return w.Reading
}

// Matches reports whether the entry carries the word's spellings.
func (w LearningWord) Matches(e *Entry) bool {
	if e == nil {
		return false
	}
	if w.Kanji != "" && !hasSpelling(e, SideKanji, w.Kanji) {
		return false
	}
	if w.Reading != "" && !hasSpelling(e, SideReading, w.Reading) {
		return false
	}
	return w.Kanji != "" || w.Reading != ""
}

func hasSpelling(e *Entry, side Side, text string) bool {
	text = NormalizeSpelling(text)
	for _, s := range e.spellings(side) {
		if s.Text == text {
			return true
		}
	}
	return false
}
