// Package script classifies Japanese words by the writing system they use.
package script

import "unicode"

// Script is the writing-system class of a word.
type Script string

const (
	// ScriptNone is returned for empty input.
	ScriptNone      Script = ""
	ScriptJoyoKanji Script = "JOYO_KANJI"
	ScriptKanji     Script = "KANJI"
	ScriptKatakana  Script = "KATAKANA"
	ScriptHiragana  Script = "HIRAGANA"
	ScriptAlphabet  Script = "ALPHABETIC"
	ScriptOther     Script = "OTHER"
)

func (s Script) String() string { return string(s) }

func (s Script) IsValid() bool {
	switch s {
	case ScriptJoyoKanji, ScriptKanji, ScriptKatakana, ScriptHiragana, ScriptAlphabet, ScriptOther:
		return true
	}
	return false
}

// HasIdeographs reports whether the class contains kanji.
func (s Script) HasIdeographs() bool {
	return s == ScriptJoyoKanji || s == ScriptKanji
}

// iterationMark repeats the preceding kanji and has no grade of its own.
const iterationMark = '々'

// IsIdeograph reports whether r is a CJK ideograph.
func IsIdeograph(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// IsKana reports whether r is hiragana or katakana, including the
// prolonged sound mark.
func IsKana(r rune) bool {
	return unicode.In(r, unicode.Hiragana, unicode.Katakana) || r == 'ー'
}

// Classifier assigns a Script to words using a Jōyō set.
type Classifier struct {
	joyo *JoyoSet
}

// New returns a classifier backed by set. A nil set yields a degraded
// classifier under which no ideograph is Jōyō.
func New(set *JoyoSet) *Classifier {
	return &Classifier{joyo: set}
}

// Joyo returns the set backing the classifier, possibly nil.
func (c *Classifier) Joyo() *JoyoSet { return c.joyo }

// Classify returns the script class of word.
//
// Any ideograph outside the Jōyō set makes the word ScriptKanji. Words whose
// ideographs are all Jōyō are ScriptJoyoKanji. Without ideographs the first
// of katakana, hiragana and Latin letters present anywhere in the word wins.
func (c *Classifier) Classify(word string) Script {
	if word == "" {
		return ScriptNone
	}

	var ideograph, katakana, hiragana, latin bool
	for _, r := range word {
		switch {
		case r == iterationMark:
			ideograph = true
		case IsIdeograph(r):
			if !c.joyo.Contains(r) {
				return ScriptKanji
			}
			ideograph = true
		case unicode.Is(unicode.Katakana, r) || r == 'ー':
			katakana = true
		case unicode.Is(unicode.Hiragana, r):
			hiragana = true
		case unicode.Is(unicode.Latin, r):
			latin = true
		}
	}

	switch {
	case ideograph:
		return ScriptJoyoKanji
	case katakana:
		return ScriptKatakana
	case hiragana:
		return ScriptHiragana
	case latin:
		return ScriptAlphabet
	}
	return ScriptOther
}
