// Package hotkey provides the global trigger for the listen loop using gohook.
// Every press of the configured key combination emits one Event; key repeats
// while the combination is held are folded into the first press.
package hotkey

import (
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// Event is emitted on the channel returned by Events for each trigger.
type Event struct {
	Seq  int       // 1 for the first trigger
	Time time.Time // when the combination went down
}

// Listener manages a global hotkey and emits trigger events.
type Listener struct {
	keys     []string
	debounce time.Duration
	ch       chan Event
	done     chan struct{}
	once     sync.Once

	mu   sync.Mutex
	seq  int
	last time.Time
}

// DefaultDebounce is the minimum gap between two triggers.
const DefaultDebounce = 300 * time.Millisecond

// NewListener creates a Listener for the given key combo.
// keys should be lowercase key names (e.g., ["ctrl", "shift", "p"]).
func NewListener(keys []string) *Listener {
	return &Listener{
		keys:     keys,
		debounce: DefaultDebounce,
		ch:       make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Events returns the channel that receives hotkey events.
// The channel is closed when the listener stops.
func (l *Listener) Events() <-chan Event {
	return l.ch
}

// Start begins listening for the global hotkey.
// This function blocks until Stop is called. Run it in a goroutine.
func (l *Listener) Start() {
	hook.Register(hook.KeyDown, l.keys, func(e hook.Event) {
		l.trigger(time.Now())
	})

	evChan := hook.Start()
	go func() {
		<-l.done
		hook.End()
	}()
	<-hook.Process(evChan)
	close(l.ch)
}

// trigger emits an event unless it falls within the debounce window of the
// previous one. It never blocks: events are dropped when nobody reads them.
func (l *Listener) trigger(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.last.IsZero() && now.Sub(l.last) < l.debounce {
		return false
	}
	l.last = now
	l.seq++
	select {
	case l.ch <- Event{Seq: l.seq, Time: now}:
	default:
	}
	return true
}

// Stop terminates the hotkey listener.
// It is safe to call multiple times.
func (l *Listener) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}
