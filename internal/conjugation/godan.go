package conjugation

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/jlex/internal/domain"
)

// row describes one godan conjugation row by its dictionary ending.
type row struct {
	i  string // 連用形 vowel, before ます
	a  string // 未然形 vowel, before ない
	te string // euphonic te-form suffix replacing the ending
	ta string
}

var godanRows = map[rune]row{
	'う': {i: "い", a: "わ", te: "って", ta: "った"},
	'く': {i: "き", a: "か", te: "いて", ta: "いた"},
	'ぐ': {i: "ぎ", a: "が", te: "いで", ta: "いだ"},
	'す': {i: "し", a: "さ", te: "して", ta: "した"},
	'つ': {i: "ち", a: "た", te: "って", ta: "った"},
	'ぬ': {i: "に", a: "な", te: "んで", ta: "んだ"},
	'ぶ': {i: "び", a: "ば", te: "んで", ta: "んだ"},
	'む': {i: "み", a: "ま", te: "んで", ta: "んだ"},
	'る': {i: "り", a: "ら", te: "って", ta: "った"},
}

// godanEnding is the ending each godan tag requires.
var godanEnding = map[domain.PartOfSpeech]rune{
	domain.PosV5u:   'う',
	domain.PosV5uS:  'う',
	domain.PosV5k:   'く',
	domain.PosV5kS:  'く',
	domain.PosV5g:   'ぐ',
	domain.PosV5s:   'す',
	domain.PosV5t:   'つ',
	domain.PosV5n:   'ぬ',
	domain.PosV5b:   'ぶ',
	domain.PosV5m:   'む',
	domain.PosV5r:   'る',
	domain.PosV5rI:  'る',
	domain.PosV5aru: 'る',
}

// stems holds everything appendVerb needs.
type stems struct {
	masu     string // stem before ます and たい
	negative string // full plain negative
	te, ta   string
}

func appendVerb(dst []string, s stems) []string {
	return append(dst,
		s.masu+"ます",
		s.masu+"ました",
		s.masu+"ません",
		s.masu+"ましょう",
		s.masu+"たい",
		s.te,
		s.ta,
		s.negative,
	)
}

func godan(dst []string, word string, pos domain.PartOfSpeech) ([]string, error) {
	want := godanEnding[pos]
	last, size := utf8.DecodeLastRuneInString(word)
	base := word[:len(word)-size]
	if last != want || base == "" {
		return dst, &EndingError{Word: word, Pos: pos, Want: string(want)}
	}

	r := godanRows[last]
	s := stems{
		masu:     base + r.i,
		negative: base + r.a + "ない",
		te:       base + r.te,
		ta:       base + r.ta,
	}

	switch pos {
	case domain.PosV5kS:
		s.te, s.ta = base+"って", base+"った"
	case domain.PosV5uS:
		s.te, s.ta = base+"うて", base+"うた"
	case domain.PosV5rI:
		// ある has the suppletive negative ない.
		_, n := utf8.DecodeLastRuneInString(base)
		s.negative = base[:len(base)-n] + "ない"
	case domain.PosV5aru:
		s.masu = base + "い"
	}
	return appendVerb(dst, s), nil
}

func ichidan(dst []string, word string, pos domain.PartOfSpeech) ([]string, error) {
	stem, ok := strings.CutSuffix(word, "る")
	if !ok || stem == "" {
		return dst, &EndingError{Word: word, Pos: pos, Want: "る"}
	}
	return appendVerb(dst, stems{
		masu:     stem,
		negative: stem + "ない",
		te:       stem + "て",
		ta:       stem + "た",
	}), nil
}

// kuru handles 来る written in kanji or kana, alone or as a compound tail.
func kuru(dst []string, word string, pos domain.PartOfSpeech) ([]string, error) {
	if prefix, ok := strings.CutSuffix(word, "来る"); ok {
		stem := prefix + "来"
		return appendVerb(dst, stems{masu: stem, negative: stem + "ない", te: stem + "て", ta: stem + "た"}), nil
	}
	if prefix, ok := strings.CutSuffix(word, "くる"); ok {
		return appendVerb(dst, stems{
			masu:     prefix + "き",
			negative: prefix + "こない",
			te:       prefix + "きて",
			ta:       prefix + "きた",
		}), nil
	}
	return dst, &EndingError{Word: word, Pos: pos, Want: "来る"}
}

// suruNoun conjugates a noun that takes する, so the spelling carries no
// verb ending.
func suruNoun(dst []string, word string, _ domain.PartOfSpeech) ([]string, error) {
	dst = append(dst, word+"する")
	return appendSuru(dst, word+"し"), nil
}

func suru(dst []string, word string, pos domain.PartOfSpeech) ([]string, error) {
	if prefix, ok := strings.CutSuffix(word, "する"); ok {
		return appendSuru(dst, prefix+"し"), nil
	}
	if prefix, ok := strings.CutSuffix(word, "為る"); ok {
		return appendSuru(dst, prefix+"為"), nil
	}
	return dst, &EndingError{Word: word, Pos: pos, Want: "する"}
}

func appendSuru(dst []string, stem string) []string {
	return appendVerb(dst, stems{
		masu:     stem,
		negative: stem + "ない",
		te:       stem + "て",
		ta:       stem + "た",
	})
}
