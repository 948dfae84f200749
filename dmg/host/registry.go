// Package host hands out integer handles for emulator instances, so hosts
// that cannot hold Go pointers (scripts, foreign callers) can drive them.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/valerio/go-dmgcore/dmg"
)

// Handle identifies an emulator in a Registry. Zero is never issued.
type Handle int64

// ErrUnknownHandle is returned for handles that were never issued or
// have been closed.
var ErrUnknownHandle = errors.New("unknown emulator handle")

// Registry owns a set of emulators keyed by handle. Registry methods are
// safe for concurrent use, the emulators themselves are not.
type Registry struct {
	mu        sync.Mutex
	next      Handle
	emulators map[Handle]*dmg.Emulator
}

func NewRegistry() *Registry {
	return &Registry{emulators: make(map[Handle]*dmg.Emulator)}
}

// Add takes ownership of e and returns its handle.
func (r *Registry) Add(e *dmg.Emulator) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.emulators[r.next] = e
	return r.next
}

// Open loads a ROM image from path and registers the new emulator.
func (r *Registry) Open(path string, opts ...dmg.Option) (Handle, error) {
	e, err := dmg.NewWithFile(path, opts...)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	h := r.Add(e)
	slog.Debug("emulator opened", "handle", h, "path", path)
	return h, nil
}

// Get returns the emulator behind h.
func (r *Registry) Get(h Handle) (*dmg.Emulator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.emulators[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return e, nil
}

// Close drops the emulator behind h. Handles are not reused.
func (r *Registry) Close(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.emulators[h]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	delete(r.emulators, h)
	return nil
}

// CloseAll drops every emulator.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.emulators)
}

// Len reports how many emulators are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.emulators)
}
