// Package services holds the background and bootstrap collaborators around
// the transition engine.
package services

import (
	"context"
	"log"
	"time"

	"appointments-server/internal/appointments"
)

// ExpirationService periodically expires overdue appointments through the
// transition engine. It owns no state of its own; each tick is a full sweep
// and partial completion is corrected by the next tick.
type ExpirationService struct {
	engine   *appointments.Engine
	clock    appointments.Clock
	interval time.Duration
}

// NewExpirationService creates a sweeper running every interval.
func NewExpirationService(engine *appointments.Engine, clock appointments.Clock, interval time.Duration) *ExpirationService {
	return &ExpirationService{
		engine:   engine,
		clock:    clock,
		interval: interval,
	}
}

// Run blocks, sweeping on a fixed interval until the context is cancelled.
// An in-flight sweep is abandoned at the next record boundary on shutdown.
func (s *ExpirationService) Run(ctx context.Context) {
	log.Printf("expiration service: checking every %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("expiration service: stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single expiration pass. Per-record failures are logged and do
// not abort the pass; a failure to list appointments aborts it entirely and
// is retried on the next tick.
func (s *ExpirationService) Sweep(ctx context.Context) {
	expired, err := s.engine.ExpireDue(ctx, s.clock.Now())
	if err != nil {
		log.Printf("expiration service: sweep: %v", err)
	}
	if expired > 0 {
		log.Printf("expiration service: expired %d appointment(s)", expired)
	}
}
