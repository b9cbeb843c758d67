package domain

import (
	"strconv"
	"strings"
)

// PriorityCode is the opaque per-spelling code the dictionary resolves into
// a set of priority tags.
type PriorityCode int16

// NoPriority marks a spelling without priority tags.
const NoPriority PriorityCode = 0

// PriorityType identifies the source list a priority tag comes from.
type PriorityType string

const (
	PriorityNews PriorityType = "news" // Mainichi Shimbun frequency
	PriorityIchi PriorityType = "ichi" // Ichimango goi bunruishuu
	PrioritySpec PriorityType = "spec" // special-interest common words
	PriorityGai  PriorityType = "gai"  // common loanwords
	PriorityNf   PriorityType = "nf"   // frequency band of 500 words
)

func (t PriorityType) String() string { return string(t) }

func (t PriorityType) IsValid() bool {
	switch t {
	case PriorityNews, PriorityIchi, PrioritySpec, PriorityGai, PriorityNf:
		return true
	}
	return false
}

// IsCommon reports whether a tag of this type marks the spelling as common.
func (t PriorityType) IsCommon() bool {
	switch t {
	case PriorityNews, PriorityIchi, PrioritySpec:
		return true
	}
	return false
}

// Priority is a decoded priority tag. Higher Rank means more important.
type Priority struct {
	Type PriorityType
	Rank int
}

// IsCommon reports whether any of the tags marks commonality.
func IsCommon(tags []Priority) bool {
	for _, p := range tags {
		if p.Type.IsCommon() {
			return true
		}
	}
	return false
}

// MaxRank returns the highest rank among tags, 0 when there are none.
func MaxRank(tags []Priority) int {
	rank := 0
	for _, p := range tags {
		rank = max(rank, p.Rank)
	}
	return rank
}

// nfBands is the number of nfXX frequency bands in JMdict (nf01..nf48).
const nfBands = 48

// ParsePriorityTag converts a JMdict ke_pri/re_pri value ("news1", "nf12")
// into a Priority. First-tier list tags outrank second-tier ones, and lower
// nf bands (more frequent) get higher ranks.
func ParsePriorityTag(tag string) (Priority, bool) {
	tag = strings.TrimSpace(tag)
	for _, t := range []PriorityType{PriorityNews, PriorityIchi, PrioritySpec, PriorityGai, PriorityNf} {
		rest, ok := strings.CutPrefix(tag, string(t))
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return Priority{}, false
		}
		if t == PriorityNf {
			if n > nfBands {
				return Priority{}, false
			}
			return Priority{Type: t, Rank: nfBands + 1 - n}, true
		}
		if n > 2 {
			return Priority{}, false
		}
		return Priority{Type: t, Rank: 3 - n}, true
	}
	return Priority{}, false
}
