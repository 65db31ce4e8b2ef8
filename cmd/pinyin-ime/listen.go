package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chaz8081/pinyin-ime/internal/config"
	"github.com/chaz8081/pinyin-ime/internal/decode"
	"github.com/chaz8081/pinyin-ime/internal/hotkey"
	"github.com/chaz8081/pinyin-ime/internal/inject"
)

func runListen(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("listen", flag.ExitOnError)
	apply := decoderFlags(fs, cfg)
	method := fs.String("method", cfg.Inject.Method, "inject method: type, paste or stdout")
	fs.Parse(args)
	cfg.Inject.Method = *method
	if err := apply(); err != nil {
		return err
	}
	printBanner(cfg, "listen")

	d, err := loadDecoder(cfg)
	if err != nil {
		return err
	}

	injector, err := inject.New(cfg.Inject.Method, os.Stdout)
	if err != nil {
		return err
	}
	log.Printf("Text injector ready (method: %s)", cfg.Inject.Method)

	listener := hotkey.NewListener(cfg.Hotkey.Keys)
	log.Printf("Hotkey listener ready (%s)", strings.Join(cfg.Hotkey.Keys, "+"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go listener.Start()

	log.Println("Ready! Copy some pinyin and press", strings.Join(cfg.Hotkey.Keys, "+"), "to convert it. Ctrl+C to quit.")

	events := listener.Events()
	for {
		select {
		case _, ok := <-events:
			if !ok {
				log.Println("Hotkey listener stopped")
				return nil
			}
			convert(d, injector)

		case sig := <-sigCh:
			log.Printf("Received %s, shutting down...", sig)
			log.Println("Goodbye!")
			// Exit directly to avoid gohook's C cleanup crash.
			// The OS reclaims the event hook on process exit.
			os.Exit(0)
		}
	}
}

// convert decodes the pinyin on the clipboard and injects the best sentence.
func convert(d *decode.Decoder, injector inject.TextInjector) {
	text, err := inject.ReadClipboard()
	if err != nil {
		log.Printf("ERROR: %v", err)
		return
	}
	syllables := strings.Fields(text)
	if len(syllables) == 0 {
		log.Println("Clipboard is empty, nothing to convert")
		return
	}

	start := time.Now()
	results := d.Decode(syllables)
	elapsed := time.Since(start).Round(time.Microsecond)
	if len(results) == 0 {
		if err := d.Check(syllables); err != nil {
			log.Printf("Cannot convert %q: %v", text, err)
		} else {
			log.Printf("No sentence found for %q (%s)", text, elapsed)
		}
		return
	}

	log.Printf("Converted in %s: %q -> %q", elapsed, text, results[0].Text)
	if err := injector.Inject(results[0].Text); err != nil {
		log.Printf("ERROR: text injection failed: %v", err)
		return
	}
	log.Println("Text injected")
}
