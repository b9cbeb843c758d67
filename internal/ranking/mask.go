package ranking

import (
	"strings"

	"github.com/heartmarshall/jlex/internal/domain"
)

// Mask packs per-side annotation flags into one byte. Reading-side flags
// occupy the low bits, kanji-side flags the next sideWidth bits.
type Mask uint8

// Per-side flags, as returned by AnnotationMask.
const (
	Common Mask = 1 << iota
	Preferred
	UncommonKanji // kanji side only
)

const (
	sideWidth = 3
	sideBits  = Mask(1<<sideWidth - 1)

	// Learning marks an entry from the user's learning list.
	Learning Mask = 1 << 6
	// computed distinguishes a computed mask from the zero value.
	computed Mask = 1 << 7
)

func shift(side domain.Side) uint {
	if side == domain.SideKanji {
		return sideWidth
	}
	return 0
}

// For moves per-side flags into the position of side.
func For(side domain.Side, flags Mask) Mask {
	return (flags & sideBits) << shift(side)
}

// Side extracts the flags of one side.
func (m Mask) Side(side domain.Side) Mask {
	return (m >> shift(side)) & sideBits
}

// Has reports whether all flags are set on side.
func (m Mask) Has(side domain.Side, flags Mask) bool {
	return m.Side(side)&flags == flags
}

// IsLearning reports whether the Learning flag is set.
func (m Mask) IsLearning() bool { return m&Learning != 0 }

// IsComputed reports whether the mask holds a computed value.
func (m Mask) IsComputed() bool { return m&computed != 0 }

func (m Mask) String() string {
	if !m.IsComputed() {
		return "uncomputed"
	}
	var parts []string
	for _, side := range []domain.Side{domain.SideReading, domain.SideKanji} {
		s := m.Side(side)
		if s&Common != 0 {
			parts = append(parts, side.String()+":common")
		}
		if s&Preferred != 0 {
			parts = append(parts, side.String()+":preferred")
		}
		if s&UncommonKanji != 0 {
			parts = append(parts, side.String()+":uncommon-kanji")
		}
	}
	if m.IsLearning() {
		parts = append(parts, "learning")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}
