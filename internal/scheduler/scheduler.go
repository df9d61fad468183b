package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"StockPulse/internal/ingest"
	"StockPulse/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the bulk ingest on a cron schedule, gated by the freshness
// policy, and records every completed run.
type Scheduler struct {
	Cron     *cron.Cron
	Ingestor *ingest.Ingestor
	Policy   *ingest.Policy
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, ing *ingest.Ingestor, pol *ingest.Policy, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Ingestor: ing,
		Policy:   pol,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// Register installs the ingest task under the given cron spec.
func (s *Scheduler) Register(ingestCron string) error {
	if _, err := s.Cron.AddFunc(ingestCron, s.ingestTask); err != nil {
		return fmt.Errorf("register ingest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// ingestTask is the scheduled path: it only ingests when the data is stale.
func (s *Scheduler) ingestTask() {
	if !s.Policy.NeedsUpdate() {
		log.Println("[INFO] data still fresh, skipping ingest")
		return
	}
	s.runIngest()
}

// RunNow forces an ingest regardless of freshness (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runIngest()
}

func (s *Scheduler) runIngest() {
	log.Println("[INFO] running bulk ingest")
	started := time.Now()

	res, err := s.Ingestor.Run(s.Ctx)
	if err != nil {
		if errors.Is(err, ingest.ErrRunInProgress) {
			log.Println("[WARN] ingest already running, skipping")
			return
		}
		log.Printf("[ERROR] bulk ingest: %v", err)
		return
	}

	rec := &recorder.RunRecord{
		StartedAt:    started,
		SuccessCount: res.SuccessCount,
		ErrorCount:   res.ErrorCount,
		RowsAppended: res.RowsAppended,
		TotalRows:    res.TotalRows,
		Duration:     res.Duration,
	}
	for _, f := range res.Failures {
		rec.Failures = append(rec.Failures, recorder.FailureRecord{Symbol: f.Symbol, Reason: f.Reason})
	}
	if err := s.Recorder.RecordRun(rec); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}
