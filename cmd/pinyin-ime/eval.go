package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/chaz8081/pinyin-ime/internal/config"
	"github.com/chaz8081/pinyin-ime/internal/decode"
	"github.com/chaz8081/pinyin-ime/internal/eval"
	"github.com/chaz8081/pinyin-ime/internal/store"
)

func runEval(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	apply := decoderFlags(fs, cfg)
	input := fs.String("i", "", "input file of whitespace-separated pinyin lines")
	output := fs.String("o", "", "output file for decoded lines (default: stdout)")
	answers := fs.String("s", "", "reference answer file, one sentence per line")
	fromText := fs.Bool("from-text", false, "derive the pinyin input from the answer file")
	workers := fs.Int("workers", cfg.Eval.Workers, "lines decoded concurrently")
	fs.Parse(args)
	cfg.Eval.Workers = *workers
	if err := apply(); err != nil {
		return err
	}
	printBanner(cfg, "eval")

	cases, err := readCases(*input, *answers, *fromText)
	if err != nil {
		return err
	}
	d, err := loadDecoder(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Evaluating %d lines with %d workers...", len(cases), cfg.Eval.Workers)
	lines, report, err := eval.Run(ctx, d, cases, cfg.Eval.Workers)
	if err != nil {
		return err
	}

	if err := writeOutput(*output, lines, cfg.Decoder.K); err != nil {
		return err
	}

	fmt.Fprint(os.Stderr, report.Summary(cfg.Decoder.K))
	return nil
}

func runPlot(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	apply := decoderFlags(fs, cfg)
	input := fs.String("i", "", "input file of whitespace-separated pinyin lines")
	answers := fs.String("s", "", "reference answer file, one sentence per line")
	fromText := fs.Bool("from-text", false, "derive the pinyin input from the answer file")
	ks := fs.String("ks", "1,3,5,10", "comma-separated k values")
	models := fs.String("models", "binary,triple", "comma-separated models to compare")
	out := fs.String("out", "accuracy.png", "chart file (png, svg or pdf)")
	fs.Parse(args)
	if err := apply(); err != nil {
		return err
	}

	kv, err := parseInts(*ks)
	if err != nil {
		return fmt.Errorf("-ks: %w", err)
	}
	kinds, err := parseModels(*models, cfg.DecodeOptions())
	if err != nil {
		return fmt.Errorf("-models: %w", err)
	}
	cases, err := readCases(*input, *answers, *fromText)
	if err != nil {
		return err
	}

	snap, dir, err := store.LoadFirst(cfg.TableDirs(), cfg.Decoder.Pruned)
	if err != nil {
		return fmt.Errorf("loading tables: %w", err)
	}
	log.Printf("Tables loaded from %s", dir)
	model := &decode.Model{Tables: snap.Tables, Syllables: snap.Syllables}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var series []eval.Series
	for _, kind := range kinds {
		name := string(kind)
		opts := cfg.DecodeOptions()
		opts.Model = kind

		log.Printf("Sweeping %s model over k=%v...", name, kv)
		s, err := eval.Sweep(ctx, name, cases, kv, cfg.Eval.Workers, func(k int) (eval.Decoder, error) {
			o := opts
			o.K = k
			return decode.New(model, o)
		})
		if err != nil {
			return err
		}
		for _, p := range s.XYs {
			log.Printf("  %s top%d: %.2f%%", name, int(p.X), p.Y)
		}
		series = append(series, s)
	}

	if err := eval.SavePlot(*out, series...); err != nil {
		return err
	}
	log.Printf("Chart written to %s", *out)
	return nil
}

func readCases(input, answers string, fromText bool) ([]eval.Case, error) {
	if answers == "" {
		return nil, fmt.Errorf("-s answer file is required")
	}
	ans, err := os.Open(answers)
	if err != nil {
		return nil, err
	}
	defer ans.Close()

	if fromText {
		return eval.CasesFromText(ans)
	}
	if input == "" {
		return nil, fmt.Errorf("-i input file is required (or use -from-text)")
	}
	in, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return eval.ReadCases(in, ans)
}

// writeOutput writes decoded lines to path, or to stdout when path is empty.
func writeOutput(path string, lines []eval.Line, k int) error {
	if path == "" {
		return eval.WriteOutput(os.Stdout, lines, k)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := eval.WriteOutput(f, lines, k); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

// parseModels splits a comma-separated model list and checks every entry
// against base, so a bad name fails before any table is loaded.
func parseModels(s string, base decode.Options) ([]decode.Kind, error) {
	var kinds []decode.Kind
	for _, name := range strings.Split(s, ",") {
		opts := base
		opts.Model = decode.Kind(strings.TrimSpace(name))
		if err := opts.Validate(); err != nil {
			return nil, err
		}
		kinds = append(kinds, opts.Model)
	}
	return kinds, nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("k must be >= 1, got %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}
