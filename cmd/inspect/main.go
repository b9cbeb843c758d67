// Command inspect prints what the dictionary knows about a spelling:
// headlines, derived forms, annotation flags and script class.
//
// Usage: inspect [--direct] [--learning file] SPELLING
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/jlex/internal/app"
	"github.com/heartmarshall/jlex/internal/config"
	"github.com/heartmarshall/jlex/internal/domain"
	"github.com/heartmarshall/jlex/internal/service/reader"
)

func main() {
	configPath := flag.String("config", "", "config file (default $JLEX_CONFIG, then ./jlex.yaml)")
	learningPath := flag.String("learning", "", "learning-list file (overrides config)")
	direct := flag.Bool("direct", true, "query the database instead of loading the index")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [flags] SPELLING")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, logCloser := app.NewLogger(cfg.Log)
	defer logCloser.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	svc, release, err := app.OpenReader(ctx, cfg, logger, app.ReaderOptions{LearningPath: *learningPath, Direct: *direct})
	if err != nil {
		logger.Error("open reader", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer release()

	infos, err := svc.Inspect(ctx, flag.Arg(0))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fmt.Printf("%s: no dictionary entry\n", flag.Arg(0))
		return
	case err != nil:
		logger.Error("inspect", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, info := range infos {
		printInfo(os.Stdout, info)
	}
}

func printInfo(w io.Writer, info reader.WordInfo) {
	fmt.Fprintf(w, "#%d %s 【%s】\n", info.Entry.Seq, info.Kanji, info.Reading)
	fmt.Fprintf(w, "  script:   %s\n", info.Script)
	fmt.Fprintf(w, "  mask:     %s\n", info.Mask)
	if info.Learning {
		fmt.Fprintln(w, "  learning: yes")
	}
	for _, s := range info.Entry.Senses() {
		tags := make([]string, len(s.PartsOfSpeech))
		for i, p := range s.PartsOfSpeech {
			tags[i] = p.String()
		}
		fmt.Fprintf(w, "  sense:    %s [%s]\n", s.Meaning, strings.Join(tags, ","))
	}
	if len(info.KanjiForms) > 0 {
		fmt.Fprintf(w, "  kanji forms:   %s\n", strings.Join(info.KanjiForms, " "))
	}
	if len(info.ReadingForms) > 0 {
		fmt.Fprintf(w, "  reading forms: %s\n", strings.Join(info.ReadingForms, " "))
	}
}
