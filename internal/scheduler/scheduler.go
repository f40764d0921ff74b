package scheduler

import (
	"context"
	"time"

	"github.com/kinstone/starbar/internal/infra"
)

// Mode selects the polling cadence, chosen once at startup.
type Mode int

const (
	// PushAssisted relies on the authenticated webhook channel for
	// donations and totals; polling only keeps metadata and history fresh.
	PushAssisted Mode = iota
	// PullOnly polls donations and the total as well, in place of push
	// delivery.
	PullOnly
)

func (m Mode) String() string {
	if m == PullOnly {
		return "pull-only"
	}
	return "push-assisted"
}

// Default cadences. Metadata and the slow history refresh run in both modes;
// the recent-donation pull only exists without a push channel.
const (
	DefaultMetadataInterval = 2 * time.Minute
	DefaultHistoryInterval  = 15 * time.Minute
	DefaultRecentInterval   = 5 * time.Second
)

// Intervals overrides the default cadences; zero fields keep the default.
type Intervals struct {
	Metadata time.Duration
	History  time.Duration
	Recent   time.Duration
}

type task struct {
	name     string
	interval time.Duration
	run      func(context.Context) error
}

// Scheduler drives the periodic reconciliation pulls. Every tick fires its
// task on a fresh goroutine: a slow or failed cycle never delays the next
// one, and overlapping cycles merge through the engine's idempotent rules.
type Scheduler struct {
	mode  Mode
	tasks []task
	log   infra.Logger
}

// New builds a scheduler for the given mode around a syncer.
func New(mode Mode, sync *Syncer, iv Intervals, log infra.Logger) *Scheduler {
	if iv.Metadata <= 0 {
		iv.Metadata = DefaultMetadataInterval
	}
	if iv.History <= 0 {
		iv.History = DefaultHistoryInterval
	}
	if iv.Recent <= 0 {
		iv.Recent = DefaultRecentInterval
	}

	tasks := []task{
		{name: "metadata", interval: iv.Metadata, run: sync.Metadata},
		{name: "history", interval: iv.History, run: sync.FullHistory},
	}
	if mode == PullOnly {
		tasks = append(tasks, task{name: "recent", interval: iv.Recent, run: sync.Recent})
	}
	return &Scheduler{mode: mode, tasks: tasks, log: log}
}

// Mode returns the mode the scheduler was built for.
func (s *Scheduler) Mode() Mode {
	return s.mode
}

// TaskNames lists the scheduled tasks, mostly for startup logging.
func (s *Scheduler) TaskNames() []string {
	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = t.name
	}
	return names
}

// Run starts one ticker loop per task and returns immediately. Loops stop
// when ctx is cancelled; in-flight cycles are left to finish on their own.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().Str("mode", s.mode.String()).Strs("tasks", s.TaskNames()).Msg("scheduler: started")
	for _, t := range s.tasks {
		go s.loop(ctx, t)
	}
}

func (s *Scheduler) loop(ctx context.Context, t task) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go func() {
				if err := t.run(ctx); err != nil {
					s.log.Warn().Err(err).Str("task", t.name).Msg("scheduler: poll cycle failed")
				}
			}()
		}
	}
}
