// Command test-inject is a manual test for text injection.
// It decodes a pinyin line with the built tables, waits 3 seconds, then types
// or pastes the best sentence. Focus a text editor before the countdown finishes.
//
// Usage:
//
//	go run ./cmd/test-inject [--method type|paste|stdout] [--tables dir] [pinyin...]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chaz8081/pinyin-ime/internal/config"
	"github.com/chaz8081/pinyin-ime/internal/decode"
	"github.com/chaz8081/pinyin-ime/internal/inject"
	"github.com/chaz8081/pinyin-ime/internal/store"
)

func main() {
	method := flag.String("method", "type", "inject method: type, paste or stdout")
	tables := flag.String("tables", config.DefaultTablesDir(), "table directory written by 'pinyin-ime build'")
	flag.Parse()

	line := "ni hao shi jie"
	if flag.NArg() > 0 {
		line = strings.Join(flag.Args(), " ")
	}

	snap, err := store.Load(*tables, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	d, err := decode.New(&decode.Model{Tables: snap.Tables, Syllables: snap.Syllables}, decode.DefaultOptions())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	results := d.DecodeLine(line)
	if len(results) == 0 {
		fmt.Printf("No sentence for %q\n", line)
		os.Exit(1)
	}
	text := results[0].Text

	inj, err := inject.New(*method, os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Will inject %q (from %q) using %q method in 3 seconds...\n", text, line, *method)
	fmt.Println("Focus a text editor now!")

	for i := 3; i > 0; i-- {
		fmt.Printf("%d...\n", i)
		time.Sleep(time.Second)
	}

	if err := inj.Inject(text); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("\nDone!")
}
