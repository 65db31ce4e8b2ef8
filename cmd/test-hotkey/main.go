// Command test-hotkey is a manual test for the global hotkey listener.
// Run it, then press Ctrl+Shift+P to see trigger events and the clipboard
// text listen would convert. Press Ctrl+C to exit.
//
// Usage:
//
//	go run ./cmd/test-hotkey [--keys ctrl,shift,p]
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chaz8081/pinyin-ime/internal/hotkey"
	"github.com/chaz8081/pinyin-ime/internal/inject"
)

func main() {
	keysFlag := flag.String("keys", "ctrl,shift,p", "comma-separated key combination")
	flag.Parse()

	keys := strings.Split(*keysFlag, ",")
	fmt.Printf("Listening for %s...\n", strings.Join(keys, "+"))
	fmt.Println("Press Ctrl+C to exit.")

	listener := hotkey.NewListener(keys)

	// Handle Ctrl+C
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nShutting down...")
		listener.Stop()
	}()

	go func() {
		for ev := range listener.Events() {
			text, err := inject.ReadClipboard()
			if err != nil {
				fmt.Printf(">>> TRIGGER #%d (clipboard error: %v)\n", ev.Seq, err)
				continue
			}
			fmt.Printf(">>> TRIGGER #%d at %s, clipboard %q\n", ev.Seq, ev.Time.Format("15:04:05.000"), text)
		}
		fmt.Println("Event channel closed.")
	}()

	// Blocks until stopped
	listener.Start()
	fmt.Println("Done.")
}
