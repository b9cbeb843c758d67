package script

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/heartmarshall/jlex/internal/config"
)

//go:embed joyo.txt
var bundledJoyo []byte

// JoyoSet is an immutable set of Jōyō kanji.
type JoyoSet struct {
	runes []rune // sorted, unique
}

// Contains reports whether r is in the set. A nil set contains nothing.
func (s *JoyoSet) Contains(r rune) bool {
	if s == nil {
		return false
	}
	_, ok := slices.BinarySearch(s.runes, r)
	return ok
}

// Len returns the number of kanji in the set.
func (s *JoyoSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.runes)
}

// LoadJoyo parses a kanji list. Each line holds one or more ideographs;
// whitespace is ignored and '#' starts a comment. Any other character is
// an error.
func LoadJoyo(r io.Reader) (*JoyoSet, error) {
	var runes []rune
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text, _, _ := strings.Cut(sc.Text(), "#")
		for _, ch := range text {
			if unicode.IsSpace(ch) || ch == '\uFEFF' {
				continue
			}
			if !IsIdeograph(ch) {
				return nil, fmt.Errorf("load joyo: line %d: %q is not an ideograph", line, ch)
			}
			runes = append(runes, ch)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load joyo: %w", err)
	}
	if len(runes) == 0 {
		return nil, fmt.Errorf("load joyo: list is empty")
	}

	slices.Sort(runes)
	return &JoyoSet{runes: slices.Compact(runes)}, nil
}

// LoadJoyoFile loads a kanji list from path.
func LoadJoyoFile(path string) (*JoyoSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load joyo: %w", err)
	}
	defer f.Close()
	return LoadJoyo(f)
}

// Bundled returns the embedded 2010 Jōyō list.
func Bundled() (*JoyoSet, error) {
	return LoadJoyo(bytes.NewReader(bundledJoyo))
}

var defaultClassifier = sync.OnceValue(func() *Classifier {
	set, err := Bundled()
	if err != nil {
		slog.Default().Warn("joyo list unavailable, kanji will not be graded", slog.String("error", err.Error()))
		return New(nil)
	}
	return New(set)
})

// Default returns a shared classifier backed by the bundled list.
func Default() *Classifier {
	return defaultClassifier()
}

// NewFromConfig returns a classifier backed by cfg.JoyoPath, or by the
// bundled list when no path is set. A list that cannot be loaded is logged
// and the degraded classifier is returned.
func NewFromConfig(cfg config.ScriptConfig, logger *slog.Logger) *Classifier {
	if cfg.JoyoPath == "" {
		return Default()
	}
	set, err := LoadJoyoFile(cfg.JoyoPath)
	if err != nil {
		logger.Warn("joyo list unavailable, kanji will not be graded",
			slog.String("path", cfg.JoyoPath),
			slog.String("error", err.Error()),
		)
		return New(nil)
	}
	logger.Debug("joyo list loaded", slog.String("path", cfg.JoyoPath), slog.Int("kanji", set.Len()))
	return New(set)
}
