package kilntest

import (
	"slices"
	"sync"

	"github.com/danpasecinic/kiln/events"
)

// Recorder captures container events for later assertions. It satisfies
// events.Emitter.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(e events.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

func (r *Recorder) Types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]events.Type, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

// OfType returns the recorded events of type t, oldest first.
func (r *Recorder) OfType(t events.Type) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
