// Command annotate inserts readings after kanji words in Japanese text.
// With file arguments each file is annotated into --out-dir (or next to
// the original as name.annotated.ext); without arguments stdin is
// annotated to stdout.
//
// Flags:
//
//	--out-dir   directory for annotated copies
//	--learning  learning-list file, overrides the configured path
//	--direct    query the database per lookup instead of loading the index
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/jlex/internal/app"
	"github.com/heartmarshall/jlex/internal/config"
	"github.com/heartmarshall/jlex/internal/service/reader"
)

func main() {
	configPath := flag.String("config", "", "config file (default $JLEX_CONFIG, then ./jlex.yaml)")
	outDir := flag.String("out-dir", "", "directory for annotated copies")
	learningPath := flag.String("learning", "", "learning-list file (overrides config)")
	direct := flag.Bool("direct", false, "query the database per lookup instead of loading the index")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, logCloser := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger, app.ReaderOptions{LearningPath: *learningPath, Direct: *direct}, *outDir, flag.Args())
	stop()
	if err != nil {
		logger.Error("annotate failed", slog.String("error", err.Error()))
		_ = logCloser.Close()
		os.Exit(1)
	}
	_ = logCloser.Close()
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts app.ReaderOptions, outDir string, paths []string) error {
	svc, release, err := app.OpenReader(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer release()

	if len(paths) == 0 {
		in, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		out, err := svc.AnnotateText(ctx, string(in))
		if err != nil {
			return err
		}
		_, err = io.WriteString(os.Stdout, out)
		return err
	}

	results, err := svc.AnnotateFiles(ctx, reader.AnnotateFilesInput{Paths: paths, OutDir: outDir})
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Println(r.OutPath)
	}
	return nil
}
