package studio

import (
	"context"
)

// Bindings connects the page controls to the orchestrator and viewport.
type Bindings struct {
	orchestrator *Orchestrator
	viewport     *Viewport
}

func NewBindings(orchestrator *Orchestrator, viewport *Viewport) *Bindings {
	return &Bindings{orchestrator: orchestrator, viewport: viewport}
}

// Submit handles the form submit; it blocks until the design is done.
func (b *Bindings) Submit(ctx context.Context) error {
	return b.orchestrator.GenerateDesign(ctx)
}

// SubmitAsync starts a design and reports its outcome on the returned channel.
func (b *Bindings) SubmitAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- b.orchestrator.GenerateDesign(ctx)
	}()
	return done
}

func (b *Bindings) Reset() {
	b.viewport.Reset()
}
