package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/chaz8081/pinyin-ime/internal/config"
	"github.com/chaz8081/pinyin-ime/internal/decode"
	"github.com/chaz8081/pinyin-ime/internal/store"
)

func runDecode(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	apply := decoderFlags(fs, cfg)
	showCost := fs.Bool("cost", false, "print the cost after each result")
	fs.Parse(args)
	if err := apply(); err != nil {
		return err
	}

	d, err := loadDecoder(cfg)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if fs.NArg() > 0 {
		return decodeLine(out, d, strings.Join(fs.Args(), " "), *showCost)
	}

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if err := decodeLine(out, d, sc.Text(), *showCost); err != nil {
			return err
		}
	}
	return sc.Err()
}

func decodeLine(w *bufio.Writer, d *decode.Decoder, line string, showCost bool) error {
	syllables := strings.Fields(line)
	if err := d.Check(syllables); err != nil {
		log.Printf("Skipping %q: %v", line, err)
		w.WriteByte('\n')
		return w.Flush()
	}

	for i, r := range d.Decode(syllables) {
		if i > 0 {
			w.WriteByte('\t')
		}
		w.WriteString(r.Text)
		if showCost {
			fmt.Fprintf(w, ":%.3f", r.Cost)
		}
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

// loadDecoder reads the tables from the first table directory that loads and
// builds a decoder from the decoder section of cfg.
func loadDecoder(cfg *config.Config) (*decode.Decoder, error) {
	start := time.Now()
	snap, dir, err := store.LoadFirst(cfg.TableDirs(), cfg.Decoder.Pruned)
	if err != nil {
		return nil, fmt.Errorf("loading tables (run 'pinyin-ime build' first): %w", err)
	}
	log.Printf("Tables loaded from %s in %s", dir, time.Since(start).Round(time.Millisecond))

	return decode.New(&decode.Model{Tables: snap.Tables, Syllables: snap.Syllables}, cfg.DecodeOptions())
}
