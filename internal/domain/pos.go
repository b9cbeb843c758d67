package domain

import "strings"

// GrammaticalClass groups part-of-speech tags by how they inflect.
type GrammaticalClass string

const (
	ClassVerb      GrammaticalClass = "VERB"
	ClassAdjective GrammaticalClass = "ADJECTIVE"
	ClassOther     GrammaticalClass = "OTHER"
)

func (c GrammaticalClass) String() string { return string(c) }

// Inflects reports whether tags of this class have conjugation rules.
func (c GrammaticalClass) Inflects() bool {
	return c == ClassVerb || c == ClassAdjective
}

// PartOfSpeech is a JMdict part-of-speech entity code.
type PartOfSpeech string

// Adjectives.
const (
	PosAdjI  PartOfSpeech = "adj-i"  // keiyoushi
	PosAdjIx PartOfSpeech = "adj-ix" // yoi/ii class
	PosAdjNa PartOfSpeech = "adj-na" // keiyodoshi
	PosAdjNo PartOfSpeech = "adj-no" // nouns taking the genitive の
	PosAdjPn PartOfSpeech = "adj-pn" // rentaishi
	PosAdjT  PartOfSpeech = "adj-t"  // taru adjective
	PosAdjF  PartOfSpeech = "adj-f"  // noun or verb acting prenominally
)

// Verbs.
const (
	PosV1    PartOfSpeech = "v1"    // ichidan
	PosV5u   PartOfSpeech = "v5u"   // godan, う
	PosV5uS  PartOfSpeech = "v5u-s" // godan, う, special (問う)
	PosV5k   PartOfSpeech = "v5k"   // godan, く
	PosV5kS  PartOfSpeech = "v5k-s" // godan, 行く
	PosV5g   PartOfSpeech = "v5g"   // godan, ぐ
	PosV5s   PartOfSpeech = "v5s"   // godan, す
	PosV5t   PartOfSpeech = "v5t"   // godan, つ
	PosV5n   PartOfSpeech = "v5n"   // godan, ぬ
	PosV5b   PartOfSpeech = "v5b"   // godan, ぶ
	PosV5m   PartOfSpeech = "v5m"   // godan, む
	PosV5r   PartOfSpeech = "v5r"   // godan, る
	PosV5rI  PartOfSpeech = "v5r-i" // godan, る, irregular (ある)
	PosV5aru PartOfSpeech = "v5aru" // godan, -aru special (なさる)
	PosVk    PartOfSpeech = "vk"    // 来る
	PosVs    PartOfSpeech = "vs"    // noun taking する
	PosVsI   PartOfSpeech = "vs-i"  // する, included
	PosVsS   PartOfSpeech = "vs-s"  // する, special class
)

// Everything the conjugation engine ignores.
const (
	PosNoun          PartOfSpeech = "n"
	PosNounAdverbial PartOfSpeech = "n-adv"
	PosNounSuffix    PartOfSpeech = "n-suf"
	PosNounPrefix    PartOfSpeech = "n-pref"
	PosNounTemporal  PartOfSpeech = "n-t"
	PosPronoun       PartOfSpeech = "pn"
	PosAdverb        PartOfSpeech = "adv"
	PosAdverbTo      PartOfSpeech = "adv-to"
	PosParticle      PartOfSpeech = "prt"
	PosConjunction   PartOfSpeech = "conj"
	PosInterjection  PartOfSpeech = "int"
	PosExpression    PartOfSpeech = "exp"
	PosCounter       PartOfSpeech = "ctr"
	PosNumeric       PartOfSpeech = "num"
	PosPrefix        PartOfSpeech = "pref"
	PosSuffix        PartOfSpeech = "suf"
	PosAuxiliary     PartOfSpeech = "aux"
	PosAuxVerb       PartOfSpeech = "aux-v"
	PosAuxAdjective  PartOfSpeech = "aux-adj"
	PosCopula        PartOfSpeech = "cop-da"
)

// posClass is the closed tag set; every tag belongs to exactly one class.
var posClass = map[PartOfSpeech]GrammaticalClass{
	PosAdjI:  ClassAdjective,
	PosAdjIx: ClassAdjective,
	PosAdjNa: ClassAdjective,
	PosAdjNo: ClassAdjective,
	PosAdjPn: ClassAdjective,
	PosAdjT:  ClassAdjective,
	PosAdjF:  ClassAdjective,

	PosV1:    ClassVerb,
	PosV5u:   ClassVerb,
	PosV5uS:  ClassVerb,
	PosV5k:   ClassVerb,
	PosV5kS:  ClassVerb,
	PosV5g:   ClassVerb,
	PosV5s:   ClassVerb,
	PosV5t:   ClassVerb,
	PosV5n:   ClassVerb,
	PosV5b:   ClassVerb,
	PosV5m:   ClassVerb,
	PosV5r:   ClassVerb,
	PosV5rI:  ClassVerb,
	PosV5aru: ClassVerb,
	PosVk:    ClassVerb,
	PosVs:    ClassVerb,
	PosVsI:   ClassVerb,
	PosVsS:   ClassVerb,

	PosNoun:          ClassOther,
	PosNounAdverbial: ClassOther,
	PosNounSuffix:    ClassOther,
	PosNounPrefix:    ClassOther,
	PosNounTemporal:  ClassOther,
	PosPronoun:       ClassOther,
	PosAdverb:        ClassOther,
	PosAdverbTo:      ClassOther,
	PosParticle:      ClassOther,
	PosConjunction:   ClassOther,
	PosInterjection:  ClassOther,
	PosExpression:    ClassOther,
	PosCounter:       ClassOther,
	PosNumeric:       ClassOther,
	PosPrefix:        ClassOther,
	PosSuffix:        ClassOther,
	PosAuxiliary:     ClassOther,
	PosAuxVerb:       ClassOther,
	PosAuxAdjective:  ClassOther,
	PosCopula:        ClassOther,
}

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	_, ok := posClass[p]
	return ok
}

// Class returns the grammatical class of the tag. Unknown tags are ClassOther.
func (p PartOfSpeech) Class() GrammaticalClass {
	if c, ok := posClass[p]; ok {
		return c
	}
	return ClassOther
}

// ParsePartOfSpeech converts a JMdict entity code (with or without the
// surrounding "&" and ";") into a PartOfSpeech.
func ParsePartOfSpeech(s string) (PartOfSpeech, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "&"), ";")
	p := PartOfSpeech(s)
	if !p.IsValid() {
		return "", false
	}
	return p, true
}
