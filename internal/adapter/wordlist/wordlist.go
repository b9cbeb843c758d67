// Package wordlist reads and writes the learning list file: one word per
// line as kanji<TAB>reading, UTF-8 with an optional byte order mark.
package wordlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/script"
)

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// Read parses a learning list. Blank lines and lines starting with '#' are
// skipped. A line with a single column is a kanji-only word when it
// contains an ideograph and a kana-only word otherwise.
func Read(r io.Reader) ([]domain.LearningWord, error) {
	cr := newReader(r)

	var words []domain.LearningWord
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read word list: %w", err)
		}

		w, ok := parseFields(fields)
		if !ok {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("read word list: line %d: %w", line,
				domain.NewValidationError("word", "kanji or reading required"))
		}
		words = append(words, w)
	}
	return words, nil
}

func parseFields(fields []string) (domain.LearningWord, bool) {
	for i := range fields {
		fields[i] = domain.NormalizeSpelling(fields[i])
	}
	switch {
	case len(fields) == 0:
		return domain.LearningWord{}, false
	case len(fields) == 1:
		if strings.IndexFunc(fields[0], script.IsIdeograph) >= 0 {
			return domain.LearningWord{Kanji: fields[0]}, true
		}
		return domain.LearningWord{Reading: fields[0]}, fields[0] != ""
	default:
		w := domain.LearningWord{Kanji: fields[0], Reading: fields[1]}
		return w, w.Kanji != "" || w.Reading != ""
	}
}

// ReadFile reads the learning list at path.
func ReadFile(path string) ([]domain.LearningWord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write writes words in the format Read accepts, without a byte order mark.
func Write(w io.Writer, words []domain.LearningWord) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	for _, lw := range words {
		record := []string{lw.Kanji, lw.Reading}
		switch {
		case lw.Kanji == "":
			record = []string{lw.Reading}
		case lw.Reading == "":
			record = []string{lw.Kanji}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write word list: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write word list: %w", err)
	}
	return nil
}

// WriteFile replaces the file at path with words.
func WriteFile(path string, words []domain.LearningWord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write word list: %w", err)
	}
	if err := Write(f, words); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
