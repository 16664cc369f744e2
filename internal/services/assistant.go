package services

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Assistant stands in for the AI assist layer. It returns canned
// suggestions and never calls out.
type Assistant struct {
	ready atomic.Bool
}

func NewAssistant() *Assistant {
	return &Assistant{}
}

func (a *Assistant) Initialize(context.Context) error {
	a.ready.Store(true)
	return nil
}

func (a *Assistant) Dispose(context.Context) error {
	a.ready.Store(false)
	return nil
}

func (a *Assistant) HealthCheck(context.Context) bool {
	return a.ready.Load()
}

func (a *Assistant) Suggest(f File) []string {
	if !a.ready.Load() {
		return nil
	}
	return []string{
		fmt.Sprintf("add tests for %s", f.Path),
		fmt.Sprintf("document the %s export", f.Kind),
	}
}
