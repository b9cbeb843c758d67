package reader

import (
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/ranking"
	"github.com/heartmarshall/jlex/internal/script"
)

// WordInfo describes one dictionary word matching an inspected spelling.
type WordInfo struct {
	Entry        *domain.Entry
	Kanji        string
	Reading      string
	KanjiForms   []string
	ReadingForms []string
	Mask         ranking.Mask
	// Script classifies the kanji headline, or the reading when the entry
	// has no kanji.
	Script   script.Script
	Learning bool
}

// FileResult reports one annotated document.
type FileResult struct {
	Path    string
	OutPath string
	// Inserted counts the runes added to the document.
	Inserted int
}
