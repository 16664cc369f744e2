package events

import (
	"fmt"
	"time"
)

type Type string

const (
	ServiceRegistered  Type = "serviceRegistered"
	InstanceRegistered Type = "instanceRegistered"
	SingletonCreated   Type = "singletonCreated"
	TransientCreated   Type = "transientCreated"
	ScopedCreated      Type = "scopedCreated"
	ScopeCreated       Type = "scopeCreated"
	ScopeDisposed      Type = "scopeDisposed"
	ContainerDisposed  Type = "containerDisposed"
	Error              Type = "error"
)

type Event struct {
	Type      Type
	ServiceID string
	ScopeID   string
	Timestamp time.Time
	Err       error
}

func New(t Type, serviceID string) Event {
	return Event{
		Type:      t,
		ServiceID: serviceID,
		Timestamp: time.Now(),
	}
}

func (e Event) InScope(scopeID string) Event {
	e.ScopeID = scopeID
	return e
}

func (e Event) WithError(err error) Event {
	e.Err = err
	return e
}

func (e Event) String() string {
	s := string(e.Type)
	if e.ServiceID != "" {
		s += fmt.Sprintf(" service=%q", e.ServiceID)
	}
	if e.ScopeID != "" {
		s += fmt.Sprintf(" scope=%q", e.ScopeID)
	}
	if e.Err != nil {
		s += " err=" + e.Err.Error()
	}
	return s
}

// Emitter receives container events. *Bus[Event] implements it.
type Emitter interface {
	Publish(e Event)
}

// EmitterFunc adapts a plain function to Emitter.
type EmitterFunc func(e Event)

func (f EmitterFunc) Publish(e Event) {
	f(e)
}

// OfType wraps h so it only sees events of the listed types. With no types
// it passes everything through.
func OfType(h Handler[Event], types ...Type) Handler[Event] {
	if len(types) == 0 {
		return h
	}
	allowed := make(map[Type]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return Filter(func(e Event) bool { return allowed[e.Type] }, h)
}
