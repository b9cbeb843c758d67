// Package conjugation derives inflected surface forms of verbs and
// adjectives from their dictionary spellings.
package conjugation

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/jlex/internal/domain"
)

// EndingError reports a spelling whose ending does not fit its
// part-of-speech tag.
type EndingError struct {
	Word string
	Pos  domain.PartOfSpeech
	Want string
}

func (e *EndingError) Error() string {
	return fmt.Sprintf("conjugation: %q tagged %s must end in %s", e.Word, e.Pos, e.Want)
}

func (e *EndingError) Unwrap() error { return domain.ErrEndingMismatch }

// rule appends the forms of word to dst.
type rule func(dst []string, word string, pos domain.PartOfSpeech) ([]string, error)

// rules is the per-tag dispatch table. Inflecting tags missing here have
// no productive forms.
var rules = map[domain.PartOfSpeech]rule{
	domain.PosAdjI:  adjectiveI,
	domain.PosAdjIx: adjectiveIx,
	domain.PosAdjNa: adjectiveNa,
	domain.PosAdjNo: adjectiveNo,

	domain.PosV1:    ichidan,
	domain.PosV5u:   godan,
	domain.PosV5uS:  godan,
	domain.PosV5k:   godan,
	domain.PosV5kS:  godan,
	domain.PosV5g:   godan,
	domain.PosV5s:   godan,
	domain.PosV5t:   godan,
	domain.PosV5n:   godan,
	domain.PosV5b:   godan,
	domain.PosV5m:   godan,
	domain.PosV5r:   godan,
	domain.PosV5rI:  godan,
	domain.PosV5aru: godan,
	domain.PosVk:    kuru,
	domain.PosVs:    suruNoun,
	domain.PosVsI:   suru,
	domain.PosVsS:   suru,
}

// HasRule reports whether pos has a conjugation rule.
func HasRule(pos domain.PartOfSpeech) bool {
	_, ok := rules[pos]
	return ok
}

// Forms returns the inflected forms of word for a single tag. It returns
// nil without error for tags that have no rule.
func Forms(word string, pos domain.PartOfSpeech) ([]string, error) {
	r, ok := rules[pos]
	if !ok {
		return nil, nil
	}
	return r(nil, word, pos)
}

func adjectiveI(dst []string, word string, pos domain.PartOfSpeech) ([]string, error) {
	trunk, ok := strings.CutSuffix(word, "い")
	if !ok || trunk == "" {
		return dst, &EndingError{Word: word, Pos: pos, Want: "い"}
	}
	return appendAdjectiveI(dst, word, trunk), nil
}

// adjectiveIx covers いい and compounds ending in it, which inflect on よ.
func adjectiveIx(dst []string, word string, pos domain.PartOfSpeech) ([]string, error) {
	prefix, ok := strings.CutSuffix(word, "いい")
	if !ok {
		return dst, &EndingError{Word: word, Pos: pos, Want: "いい"}
	}
	return appendAdjectiveI(dst, word, prefix+"よ"), nil
}

func appendAdjectiveI(dst []string, word, trunk string) []string {
	return append(dst,
		word+"です",
		word+"でした",
		trunk+"くて",
		trunk+"くない",
		trunk+"くありません",
	)
}

func adjectiveNa(dst []string, word string, _ domain.PartOfSpeech) ([]string, error) {
	return append(dst,
		word+"な",
		word+"です",
		word+"でした",
		word+"ではありません",
		word+"じゃありません",
	), nil
}

func adjectiveNo(dst []string, word string, _ domain.PartOfSpeech) ([]string, error) {
	return append(dst, word+"の"), nil
}
