// Package events carries the container's observability bridge: a generic
// publish/subscribe bus, the container event vocabulary, and progress
// reporting.
//
// Subscriptions are explicit handles:
//
//	bus := events.NewBus[events.Event]()
//	sub := bus.Subscribe(events.OfType(func(e events.Event) {
//	    log.Println("created", e.ServiceID)
//	}, events.SingletonCreated, events.TransientCreated))
//	defer sub.Unsubscribe()
//
// A *Bus[Event] satisfies Emitter and can be handed to the container.
package events
