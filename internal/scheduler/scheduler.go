package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"DayAheadArchiver/internal/pipeline"
)

// Job is one archive run.
type Job interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Scheduler triggers archive runs on a cron schedule.
type Scheduler struct {
	Cron *cron.Cron
	Job  Job
	Ctx  context.Context

	cancel context.CancelFunc
	task   cron.Job

	mu      sync.Mutex
	stopped bool
	manual  sync.WaitGroup
}

// NewScheduler creates a new Scheduler. Cron ticks and RunNow share one
// wrapped task, so a trigger that fires while a run is in progress is
// skipped and runs never overlap.
func NewScheduler(ctx context.Context, job Job, loc *time.Location) *Scheduler {
	logger := cron.VerbosePrintfLogger(log.New(os.Stderr, "[CRON] ", log.LstdFlags))
	ctx, cancel := context.WithCancel(ctx)
	s := &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
		),
		Job:    job,
		Ctx:    ctx,
		cancel: cancel,
	}
	s.task = cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).Then(cron.FuncJob(s.runTask))
	return s
}

// Register adds the archive run under the given cron spec (with seconds).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddJob(spec, s.task); err != nil {
		return fmt.Errorf("register archive task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop cancels the run in progress, then waits for it and for any RunNow
// call to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	<-s.Cron.Stop().Done()
	s.manual.Wait()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the archive task immediately (for RUN_ON_START). It is
// skipped when a run is already in progress or the scheduler is stopped.
func (s *Scheduler) RunNow() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.manual.Add(1)
	s.mu.Unlock()
	defer s.manual.Done()

	s.task.Run()
}

func (s *Scheduler) runTask() {
	log.Println("[INFO] running archive task")
	res, err := s.Job.Run(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] archive run: %v", err)
		return
	}
	log.Printf("[INFO] archive run done: %d weeks, %d records, %d years written", res.Weeks, res.Fetched, len(res.Years))
}
