package reader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/jlex/pkg/ctxutil"
)

// AnnotateText returns text with readings inserted.
func (s *Service) AnnotateText(ctx context.Context, text string) (string, error) {
	out, err := s.annotator.Annotate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("annotate text: %w", err)
	}
	return out, nil
}

// AnnotateFiles annotates documents concurrently, at most cfg.Workers at a
// time. The first failure cancels the remaining documents; outputs already
// written are kept. Results are in input order.
func (s *Service) AnnotateFiles(ctx context.Context, input AnnotateFilesInput) ([]FileResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.OutDir != "" {
		if err := os.MkdirAll(input.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	ctx = ctxutil.WithRunID(ctx, uuid.New())
	start := time.Now()

	results := make([]FileResult, len(input.Paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Workers, 1))
	for i, path := range input.Paths {
		g.Go(func() error {
			res, err := s.annotateFile(ctxutil.WithDocument(gctx, filepath.Base(path)), path, input.outPath(path))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "documents annotated",
		slog.Int("documents", len(results)),
		slog.Duration("took", time.Since(start)),
	)
	return results, nil
}

func (s *Service) annotateFile(ctx context.Context, path, outPath string) (FileResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		return FileResult{}, fmt.Errorf("read %s: not valid UTF-8", path)
	}

	text := string(raw)
	out, err := s.annotator.Annotate(ctx, text)
	if err != nil {
		return FileResult{}, fmt.Errorf("annotate %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(outPath, []byte(out), info.Mode().Perm()); err != nil {
		return FileResult{}, fmt.Errorf("write %s: %w", outPath, err)
	}

	res := FileResult{
		Path:     path,
		OutPath:  outPath,
		Inserted: utf8.RuneCountInString(out) - utf8.RuneCountInString(text),
	}
	s.log.DebugContext(ctx, "document annotated",
		slog.String("out", outPath),
		slog.Int("inserted", res.Inserted),
	)
	return res, nil
}
