// Package scheduler runs the nightly rate recompute. Per-symbol protection
// lives in the resolver, so a scheduled run can never clobber a manual
// override.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/mheijden/portfolio-tracker/internal/dividend"
	"github.com/mheijden/portfolio-tracker/internal/service"
)

// Scheduler owns the cron instance and the jobs registered on it.
type Scheduler struct {
	cron            *cron.Cron
	dividendService *service.DividendService
}

// New creates a Scheduler and registers the recompute job on the given cron
// schedule (standard five-field spec, e.g. "30 2 * * *").
func New(dividendService *service.DividendService, schedule string) (*Scheduler, error) {
	s := &Scheduler{
		cron:            cron.New(),
		dividendService: dividendService,
	}

	if _, err := s.cron.AddFunc(schedule, s.recomputeAll); err != nil {
		return nil, fmt.Errorf("invalid recompute schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running scheduled jobs in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) recomputeAll() {
	log.Println("Starting scheduled rate recompute")

	results, err := s.dividendService.RecomputeAll(context.Background())
	if err != nil {
		log.Printf("Scheduled recompute failed: %v", err)
		return
	}

	var updated, protected int
	for _, r := range results {
		switch r.Outcome {
		case dividend.OutcomeUpdated:
			updated++
		case dividend.OutcomeSkippedProtected:
			protected++
		}
	}
	log.Printf("Scheduled recompute done: %d symbols, %d updated, %d protected", len(results), updated, protected)
}
