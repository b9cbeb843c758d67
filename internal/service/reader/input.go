package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/jlex/internal/domain"
)

// AnnotateFilesInput lists documents to annotate.
type AnnotateFilesInput struct {
	Paths []string
	// OutDir receives the annotated copies under their original base
	// names. Empty writes "<name>.annotated<ext>" next to each input.
	OutDir string
}

// Validate checks all fields and collects all errors.
func (i *AnnotateFilesInput) Validate() error {
	var errs []domain.FieldError

	if len(i.Paths) == 0 {
		errs = append(errs, domain.FieldError{Field: "paths", Message: "required"})
	}

	outs := make(map[string]int, len(i.Paths))
	for n, p := range i.Paths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("paths[%d]", n), Message: "empty path"})
			continue
		}
		out := i.outPath(p)
		if prev, ok := outs[out]; ok {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("paths[%d]", n),
				Message: fmt.Sprintf("writes the same output as paths[%d]", prev),
			})
			continue
		}
		outs[out] = n
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *AnnotateFilesInput) outPath(path string) string {
	if i.OutDir != "" {
		return filepath.Join(i.OutDir, filepath.Base(path))
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".annotated" + ext
}
