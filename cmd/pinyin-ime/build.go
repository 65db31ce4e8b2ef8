package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chaz8081/pinyin-ime/internal/config"
	"github.com/chaz8081/pinyin-ime/internal/corpus"
	"github.com/chaz8081/pinyin-ime/internal/lexicon"
	"github.com/chaz8081/pinyin-ime/internal/ngram"
	"github.com/chaz8081/pinyin-ime/internal/store"
)

func runBuild(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	workers := fs.Int("workers", cfg.Corpus.Workers, "corpus files scanned concurrently")
	resume := fs.Bool("resume", cfg.Corpus.Resume, "extend the tables already in tables_dir")
	stripHTML := fs.Bool("strip-html", cfg.Corpus.StripHTML, "reduce markup fields to their text")
	fs.Parse(args)

	cfg.Corpus.Workers = *workers
	cfg.Corpus.Resume = *resume
	cfg.Corpus.StripHTML = *stripHTML
	if fs.NArg() > 0 {
		cfg.Corpus.Paths = fs.Args()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	printBanner(cfg, "build")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	charset, err := lexicon.LoadCharset(cfg.Lexicon.CharsetPath, cfg.Lexicon.Encoding)
	if err != nil {
		return err
	}
	syllables, err := loadSyllables(cfg, charset)
	if err != nil {
		return err
	}
	log.Printf("Lexicon ready: %d characters, %d syllables", len(charset), len(syllables))

	var files []string
	for _, p := range cfg.Corpus.Paths {
		found, err := corpus.Files(p)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	log.Printf("Scanning %d corpus files with %d workers...", len(files), cfg.Corpus.Workers)

	var acc *ngram.Tables
	if cfg.Corpus.Resume {
		acc, err = store.LoadTables(cfg.TablesDir)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("No tables in %s yet, starting from scratch", cfg.TablesDir)
		case err != nil:
			return fmt.Errorf("resume: %w", err)
		default:
			log.Printf("Resuming from %s (%d characters counted)", cfg.TablesDir, acc.Unigrams.Chars())
		}
	}

	cls := lexicon.NewClassifier(charset, lexicon.NewSeparators(cfg.Corpus.Separators))
	builder := ngram.NewBuilder(cls, ngram.BuildOptions{
		Fields:    cfg.Corpus.Fields,
		Encoding:  cfg.Corpus.Encoding,
		StripHTML: cfg.Corpus.StripHTML,
		Workers:   cfg.Corpus.Workers,
	})

	start := time.Now()
	tables, report, err := builder.Build(ctx, acc, files)
	if err != nil {
		return err
	}
	log.Printf("Scanned %d records (%d malformed, %d fields) in %s",
		report.Records, report.Malformed, report.Fields, time.Since(start).Round(time.Millisecond))
	log.Printf("Tables: %d character occurrences, %d bigrams, %d trigrams",
		tables.Unigrams.Chars(), tables.Bigrams.Len(), tables.Trigrams.Len())

	err = store.Save(&store.Artifacts{Tables: tables, Syllables: syllables}, cfg.TableDirs()...)
	if err != nil {
		return err
	}
	log.Printf("Tables written to %v", cfg.TableDirs())
	return nil
}

// loadSyllables reads the configured syllable table, or derives one from the
// character set when none is configured.
func loadSyllables(cfg *config.Config, charset lexicon.Charset) (lexicon.SyllableTable, error) {
	if cfg.Lexicon.SyllablePath != "" {
		return lexicon.LoadSyllables(cfg.Lexicon.SyllablePath, cfg.Lexicon.Encoding)
	}
	log.Println("No syllable table configured, deriving readings from the character set")
	return lexicon.FromCharset(charset), nil
}
