package ngram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chaz8081/pinyin-ime/internal/corpus"
	"github.com/chaz8081/pinyin-ime/internal/lexicon"
)

// BuildOptions controls a corpus build.
type BuildOptions struct {
	Fields    []string // record fields to scan, e.g. ["title", "html"]
	Encoding  string   // corpus file encoding, e.g. "gbk"
	StripHTML bool     // reduce markup fields to their text first
	Workers   int      // files scanned concurrently; <= 0 means 1
}

// Report summarises a build.
type Report struct {
	Files  int
	Fields int
	corpus.Stats
}

// Builder scans corpus files into count tables.
type Builder struct {
	scanner *Scanner
	opts    BuildOptions
}

// NewBuilder returns a Builder classifying runes with cls.
func NewBuilder(cls *lexicon.Classifier, opts BuildOptions) *Builder {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Builder{
		scanner: NewScanner(cls, opts.Fields, opts.StripHTML),
		opts:    opts,
	}
}

// Build scans each file into its own shard and merges every shard into acc.
// A nil acc starts from empty tables; passing previously built tables extends
// them. The result does not depend on the number of workers. acc is left
// untouched when any file fails.
func (b *Builder) Build(ctx context.Context, acc *Tables, files []string) (*Tables, Report, error) {
	if acc == nil {
		acc = NewTables()
	}

	var (
		mu      sync.Mutex
		scanned = NewTables()
		report  = Report{Files: len(files)}
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	for _, path := range files {
		g.Go(func() error {
			shard, rep, err := b.scanFile(ctx, path)
			if err != nil {
				return err
			}
			mu.Lock()
			scanned.Merge(shard)
			report.Fields += rep.Fields
			report.Stats.Add(rep.Stats)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, report, fmt.Errorf("ngram: build: %w", err)
	}
	acc.Merge(scanned)
	return acc, report, nil
}

func (b *Builder) scanFile(ctx context.Context, path string) (*Tables, Report, error) {
	start := time.Now()
	shard := NewTables()

	var rep Report
	st, err := corpus.ScanFile(ctx, path, b.opts.Encoding, func(rec corpus.Record) {
		rep.Fields += b.scanner.ScanRecord(shard, rec)
	})
	if err != nil {
		return nil, rep, err
	}
	rep.Stats = st

	slog.Info("[build] scanned corpus file",
		"file", path,
		"records", st.Records,
		"malformed", st.Malformed,
		"fields", rep.Fields,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return shard, rep, nil
}
