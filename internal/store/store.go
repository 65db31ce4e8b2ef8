// Package store persists the language model tables.
//
// Each table is one artifact file: a 4-byte magic, a format version byte, the
// BLAKE2b-256 sum of the payload and a gob-encoded payload. Files are written
// to a temporary name and renamed into place, so readers never see a partial
// table. A build can write the same artifacts to several directories; each
// destination is attempted even when another fails.
package store

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/chaz8081/pinyin-ime/internal/lexicon"
	"github.com/chaz8081/pinyin-ime/internal/ngram"
)

const (
	magic   = "PYTB"
	version = 1
	ext     = ".tbl"
)

// Artifact names, one file each.
const (
	Unigram       = "unigram"
	Bigram        = "bigram"
	Trigram       = "trigram"
	BigramPruned  = "bigram_pruned"
	TrigramPruned = "trigram_pruned"
	Syllable      = "syllable"
)

// ErrCorrupt is wrapped by errors for artifacts that fail the header or checksum check.
var ErrCorrupt = errors.New("corrupt table artifact")

// PathError records a failed read or write of one artifact.
type PathError struct {
	Op   string // "write" or "read"
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Snapshot is everything the decoder reads.
type Snapshot struct {
	Tables    *ngram.Tables
	Syllables lexicon.SyllableTable
}

// Artifacts is everything a build writes.
type Artifacts struct {
	Tables    *ngram.Tables // full counts
	Pruned    *ngram.Tables // counts above ngram.PruneThreshold; derived when nil
	Syllables lexicon.SyllableTable
}

// Path returns the file path of artifact name inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+ext)
}

// Save writes every artifact to every directory in dirs. All destinations are
// attempted; the returned error joins one PathError per failed artifact.
func Save(a *Artifacts, dirs ...string) error {
	if a.Pruned == nil {
		a.Pruned = a.Tables.Pruned(ngram.PruneThreshold)
	}
	items := []struct {
		name string
		v    any
	}{
		{Unigram, a.Tables.Unigrams},
		{Bigram, a.Tables.Bigrams},
		{Trigram, a.Tables.Trigrams},
		{BigramPruned, a.Pruned.Bigrams},
		{TrigramPruned, a.Pruned.Trigrams},
		{Syllable, a.Syllables},
	}

	var errs []error
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			errs = append(errs, &PathError{Op: "write", Path: dir, Err: err})
			continue
		}
		failed := 0
		for _, it := range items {
			path := Path(dir, it.name)
			if err := writeArtifact(path, it.v); err != nil {
				errs = append(errs, &PathError{Op: "write", Path: path, Err: err})
				failed++
			}
		}
		if failed == 0 {
			slog.Info("[store] tables saved", "dir", dir, "artifacts", len(items))
		}
	}
	return errors.Join(errs...)
}

// Load reads the decoder inputs from dir. With pruned set the pruned bigram and
// trigram variants are read instead of the full ones.
func Load(dir string, pruned bool) (*Snapshot, error) {
	bigram, trigram := Bigram, Trigram
	if pruned {
		bigram, trigram = BigramPruned, TrigramPruned
	}

	tables := ngram.NewTables()
	snap := &Snapshot{Tables: tables}
	items := []struct {
		name string
		v    any
	}{
		{Unigram, &tables.Unigrams},
		{bigram, &tables.Bigrams},
		{trigram, &tables.Trigrams},
		{Syllable, &snap.Syllables},
	}
	for _, it := range items {
		path := Path(dir, it.name)
		if err := readArtifact(path, it.v); err != nil {
			return nil, &PathError{Op: "read", Path: path, Err: err}
		}
	}
	if snap.Syllables == nil {
		snap.Syllables = make(lexicon.SyllableTable)
	}
	return snap, nil
}

// LoadFirst returns the first directory in dirs that loads, and the snapshot
// read from it. Empty entries are skipped. When none loads, every failure is
// returned.
func LoadFirst(dirs []string, pruned bool) (*Snapshot, string, error) {
	var errs []error
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		snap, err := Load(dir, pruned)
		if err == nil {
			return snap, dir, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, "", errors.New("store: no table directory configured")
	}
	return nil, "", errors.Join(errs...)
}

// LoadTables reads the full, unpruned count tables from dir, for extending a
// model with more corpus.
func LoadTables(dir string) (*ngram.Tables, error) {
	snap, err := Load(dir, false)
	if err != nil {
		return nil, err
	}
	return snap.Tables, nil
}

func writeArtifact(path string, v any) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(v); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	sum := blake2b.Sum256(payload.Bytes())

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	w := bufio.NewWriter(f)
	w.WriteString(magic)
	w.WriteByte(version)
	w.Write(sum[:])
	w.Write(payload.Bytes())
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("moving into place: %w", err)
	}
	return nil
}

func readArtifact(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	header := len(magic) + 1 + blake2b.Size256
	if len(data) < header || string(data[:len(magic)]) != magic {
		return fmt.Errorf("%w: bad header", ErrCorrupt)
	}
	if data[len(magic)] != version {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, data[len(magic)])
	}

	payload := data[header:]
	sum := blake2b.Sum256(payload)
	if !bytes.Equal(sum[:], data[len(magic)+1:header]) {
		return fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(v); err != nil && err != io.EOF {
		return fmt.Errorf("decoding: %w", err)
	}
	return nil
}
