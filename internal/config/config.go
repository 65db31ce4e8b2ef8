// Package config loads the YAML configuration shared by every pinyin-ime
// subcommand: where tables live, how the corpus is read, and how the
// decoder is tuned.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chaz8081/pinyin-ime/internal/corpus"
	"github.com/chaz8081/pinyin-ime/internal/decode"
	"github.com/chaz8081/pinyin-ime/internal/lexicon"
)

// Config holds all application configuration.
type Config struct {
	TablesDir string        `yaml:"tables_dir"`
	MirrorDir string        `yaml:"mirror_dir"` // optional second copy of every artifact
	LogLevel  string        `yaml:"log_level"`
	Lexicon   LexiconConfig `yaml:"lexicon"`
	Corpus    CorpusConfig  `yaml:"corpus"`
	Decoder   DecoderConfig `yaml:"decoder"`
	Eval      EvalConfig    `yaml:"eval"`
	Inject    InjectConfig  `yaml:"inject"`
	Hotkey    HotkeyConfig  `yaml:"hotkey"`
}

// LexiconConfig points at the character set and syllable table sources.
type LexiconConfig struct {
	CharsetPath  string `yaml:"charset_path"`
	SyllablePath string `yaml:"syllable_path"` // empty: derive from the charset
	Encoding     string `yaml:"encoding"`
}

// CorpusConfig controls table building.
type CorpusConfig struct {
	Paths      []string `yaml:"paths"`
	Fields     []string `yaml:"fields"`
	Encoding   string   `yaml:"encoding"`
	Separators []string `yaml:"separators"`
	StripHTML  bool     `yaml:"strip_html"`
	Workers    int      `yaml:"workers"`
	Resume     bool     `yaml:"resume"`
}

// DecoderConfig selects and tunes the scoring model.
type DecoderConfig struct {
	Model  string  `yaml:"model"` // "binary" or "triple"
	K      int     `yaml:"k"`
	Alpha  float64 `yaml:"alpha"`
	Beta   float64 `yaml:"beta"`
	Total  float64 `yaml:"total"`
	Pruned bool    `yaml:"pruned"` // load the pruned bigram/trigram tables
}

// EvalConfig holds evaluation settings.
type EvalConfig struct {
	Workers int `yaml:"workers"`
}

// InjectConfig holds text injection settings.
type InjectConfig struct {
	Method string `yaml:"method"` // "type", "paste" or "stdout"
}

// HotkeyConfig holds the listen trigger.
type HotkeyConfig struct {
	Keys []string `yaml:"keys"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pinyin-ime")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultTablesDir returns where tables are written when nothing else is set.
func DefaultTablesDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "pinyin-ime", "tables")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	d := decode.DefaultOptions()
	return &Config{
		TablesDir: DefaultTablesDir(),
		LogLevel:  "info",
		Lexicon: LexiconConfig{
			CharsetPath: "data/charset.txt",
			Encoding:    "gbk",
		},
		Corpus: CorpusConfig{
			Paths:      []string{"corpus/sina_news_gbk"},
			Fields:     []string{"title", "html"},
			Encoding:   "gbk",
			Separators: append([]string(nil), lexicon.DefaultSeparators...),
			Workers:    4,
		},
		Decoder: DecoderConfig{
			Model: string(d.Model),
			K:     d.K,
			Alpha: d.Alpha,
			Beta:  d.Beta,
			Total: d.Total,
		},
		Eval: EvalConfig{
			Workers: 4,
		},
		Inject: InjectConfig{
			Method: "type",
		},
		Hotkey: HotkeyConfig{
			Keys: []string{"ctrl", "shift", "p"},
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. A leading ~ in any path is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.TablesDir = expandTilde(cfg.TablesDir)
	cfg.MirrorDir = expandTilde(cfg.MirrorDir)
	cfg.Lexicon.CharsetPath = expandTilde(cfg.Lexicon.CharsetPath)
	cfg.Lexicon.SyllablePath = expandTilde(cfg.Lexicon.SyllablePath)
	for i, p := range cfg.Corpus.Paths {
		cfg.Corpus.Paths[i] = expandTilde(p)
	}

	return cfg, nil
}

// DecodeOptions converts the decoder section for decode.New.
func (c *Config) DecodeOptions() decode.Options {
	return decode.Options{
		Model: decode.Kind(c.Decoder.Model),
		K:     c.Decoder.K,
		Alpha: c.Decoder.Alpha,
		Beta:  c.Decoder.Beta,
		Total: c.Decoder.Total,
	}
}

// TableDirs returns the directories tables are saved to and loaded from,
// primary first.
func (c *Config) TableDirs() []string {
	dirs := []string{c.TablesDir}
	if c.MirrorDir != "" && c.MirrorDir != c.TablesDir {
		dirs = append(dirs, c.MirrorDir)
	}
	return dirs
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.TablesDir == "" {
		return fmt.Errorf("tables_dir must not be empty")
	}

	if err := c.DecodeOptions().Validate(); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}

	if err := corpus.CheckEncoding(c.Corpus.Encoding); err != nil {
		return fmt.Errorf("corpus.encoding: %w", err)
	}
	if err := corpus.CheckEncoding(c.Lexicon.Encoding); err != nil {
		return fmt.Errorf("lexicon.encoding: %w", err)
	}

	if len(c.Corpus.Fields) == 0 {
		return fmt.Errorf("corpus.fields must not be empty")
	}

	if c.Corpus.Workers < 1 {
		return fmt.Errorf("corpus.workers must be >= 1, got %d", c.Corpus.Workers)
	}

	if c.Eval.Workers < 1 {
		return fmt.Errorf("eval.workers must be >= 1, got %d", c.Eval.Workers)
	}

	switch c.Inject.Method {
	case "type", "paste", "stdout":
	default:
		return fmt.Errorf("inject.method must be \"type\", \"paste\" or \"stdout\", got %q", c.Inject.Method)
	}

	if len(c.Hotkey.Keys) == 0 {
		return fmt.Errorf("hotkey.keys must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// ParseLogLevel maps a config log level to a slog level. Unknown values
// fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const header = `# pinyin-ime configuration
#
# tables_dir holds the built n-gram tables; mirror_dir (optional) gets a copy.
# decoder.model is "binary" or "triple". decoder.total is the estimated number
# of characters in the training corpus.
`

// WriteDefault writes the default config to DefaultConfigPath. It returns the
// path written, or "" when a config file already exists.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Default()); err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
