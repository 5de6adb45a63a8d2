package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/logger"
)

// DraftJanitor prunes stale local drafts on a cron schedule.
type DraftJanitor struct {
	drafts    domain.DraftStore
	retention time.Duration
	emitter   EventEmitter
	log       *logger.Logger
	now       func() time.Time

	mu        sync.Mutex
	cronSched *cron.Cron
}

func NewDraftJanitor(drafts domain.DraftStore, retention time.Duration, emitter EventEmitter, log *logger.Logger) *DraftJanitor {
	if log == nil {
		log = logger.Nop()
	}
	if emitter == nil {
		emitter = LogEmitter{Log: log}
	}
	return &DraftJanitor{drafts: drafts, retention: retention, emitter: emitter, log: log, now: time.Now}
}

// PruneNow deletes drafts older than the retention and reports how many
// went away.
func (j *DraftJanitor) PruneNow(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.retention)
	n, err := j.drafts.PruneDrafts(cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.log.Info("drafts pruned", "count", n, "cutoff", cutoff.Format(time.RFC3339))
		j.emitter.Emit(ctx, EventDraftsPruned, n)
	}
	return n, nil
}

// Start schedules PruneNow with a standard cron expression or descriptor
// such as "@hourly". Calling Start again replaces the schedule.
func (j *DraftJanitor) Start(ctx context.Context, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := j.PruneNow(ctx); err != nil {
			j.log.Warn("draft janitor: prune failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("draft janitor: invalid schedule %q: %w", schedule, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cronSched != nil {
		j.cronSched.Stop()
	}
	c.Start()
	j.cronSched = c
	j.log.Debug("draft janitor scheduled", "schedule", schedule, "retention", j.retention.String())
	return nil
}

// Stop halts the schedule and waits for a running prune to finish.
func (j *DraftJanitor) Stop() {
	j.mu.Lock()
	c := j.cronSched
	j.cronSched = nil
	j.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
