// Command pinyin-ime builds character n-gram tables from a corpus and
// converts toneless pinyin into Chinese sentences with them.
//
// Usage:
//
//	pinyin-ime [-config path] <command> [flags]
//
// Commands:
//
//	build    scan the corpus and write the n-gram tables
//	decode   convert pinyin lines from arguments or stdin
//	eval     measure accuracy against reference sentences
//	plot     chart top-k sentence accuracy for several k
//	listen   convert the clipboard on a global hotkey
//	init     write a default config file
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/chaz8081/pinyin-ime/internal/config"
)

type command struct {
	name string
	desc string
	run  func(cfg *config.Config, args []string) error
}

var commands = []command{
	{"build", "scan the corpus and write the n-gram tables", runBuild},
	{"decode", "convert pinyin lines from arguments or stdin", runDecode},
	{"eval", "measure accuracy against reference sentences", runEval},
	{"plot", "chart top-k sentence accuracy for several k", runPlot},
	{"listen", "convert the clipboard on a global hotkey", runListen},
}

func main() {
	flag.Usage = usage
	configPath := flag.String("config", "", "path to config file (default: ~/.config/pinyin-ime/config.yaml)")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	name, args := flag.Arg(0), flag.Args()[1:]

	if name == "init" {
		path, err := config.WriteDefault()
		if err != nil {
			log.Fatalf("init: %v", err)
		}
		if path == "" {
			log.Printf("Config already exists at %s", config.DefaultConfigPath())
			return
		}
		log.Printf("Default config written to %s", path)
		return
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	setupLogging(cfg)

	if err := cmd.run(cfg, args); err != nil {
		log.Fatalf("%s: %v", name, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: pinyin-ime [-config path] <command> [flags]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.desc)
	}
	fmt.Fprintf(os.Stderr, "  %-8s %s\n", "init", "write a default config file")
	fmt.Fprintln(os.Stderr, "\nRun 'pinyin-ime <command> -h' for command flags.")
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		log.Printf("Config loaded from %s", defaultPath)
		return cfg, nil
	}

	log.Println("No config file found, using defaults")
	return config.Default(), nil
}

// setupLogging routes library logs through a text handler on stderr.
func setupLogging(cfg *config.Config) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.LogLevel)})
	slog.SetDefault(slog.New(h))
}

// decoderFlags registers the decoder overrides on fs. The returned function
// applies the flags that were set and revalidates.
func decoderFlags(fs *flag.FlagSet, cfg *config.Config) func() error {
	model := fs.String("m", cfg.Decoder.Model, "scoring model: binary or triple")
	k := fs.Int("k", cfg.Decoder.K, "paths kept per node and results returned")
	alpha := fs.Float64("a", cfg.Decoder.Alpha, "bigram weight (binary smoothing)")
	beta := fs.Float64("b", cfg.Decoder.Beta, "trigram weight (triple smoothing)")
	total := fs.Float64("t", cfg.Decoder.Total, "estimated characters in the training corpus")
	pruned := fs.Bool("pruned", cfg.Decoder.Pruned, "load the pruned bigram and trigram tables")
	return func() error {
		cfg.Decoder.Model = *model
		cfg.Decoder.K = *k
		cfg.Decoder.Alpha = *alpha
		cfg.Decoder.Beta = *beta
		cfg.Decoder.Total = *total
		cfg.Decoder.Pruned = *pruned
		return cfg.Validate()
	}
}

// printBanner displays the configuration summary for a command.
func printBanner(cfg *config.Config, cmd string) {
	fmt.Fprintf(os.Stderr, "=== pinyin-ime %s ===\n", cmd)
	fmt.Fprintf(os.Stderr, "  Tables:  %s\n", strings.Join(cfg.TableDirs(), ", "))
	switch cmd {
	case "build":
		fmt.Fprintf(os.Stderr, "  Corpus:  %s (%s, fields %s)\n",
			strings.Join(cfg.Corpus.Paths, ", "), cfg.Corpus.Encoding, strings.Join(cfg.Corpus.Fields, ","))
		fmt.Fprintf(os.Stderr, "  Workers: %d (resume: %v)\n", cfg.Corpus.Workers, cfg.Corpus.Resume)
	default:
		d := cfg.Decoder
		fmt.Fprintf(os.Stderr, "  Model:   %s (k=%d, alpha=%g, beta=%g, total=%g, pruned=%v)\n",
			d.Model, d.K, d.Alpha, d.Beta, d.Total, d.Pruned)
	}
	if cmd == "listen" {
		fmt.Fprintf(os.Stderr, "  Hotkey:  %s\n", strings.Join(cfg.Hotkey.Keys, "+"))
		fmt.Fprintf(os.Stderr, "  Inject:  %s\n", cfg.Inject.Method)
	}
	fmt.Fprintf(os.Stderr, "  Log:     %s\n", cfg.LogLevel)
	fmt.Fprintln(os.Stderr, strings.Repeat("=", 20))
}
