package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DeviceSweeper marks devices inactive in bulk once they stop sending
// telemetry.
type DeviceSweeper interface {
	MarkInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler runs the periodic maintenance jobs. Currently a single
// cron entry: the stale-device sweep.
type Scheduler struct {
	cron          *cron.Cron
	devices       DeviceSweeper
	inactiveAfter time.Duration
}

func New(devices DeviceSweeper, inactiveAfterMinutes int) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		devices:       devices,
		inactiveAfter: time.Duration(inactiveAfterMinutes) * time.Minute,
	}
}

// Start registers the sweep on the given cron schedule and launches the
// scheduler in its own goroutine.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.sweepStaleDevices); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("Device sweep scheduled", "schedule", schedule, "inactive_after", s.inactiveAfter)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sweepStaleDevices() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.inactiveAfter)
	swept, err := s.devices.MarkInactiveBefore(ctx, cutoff)
	if err != nil {
		slog.Error("Device sweep failed", "error", err)
		return
	}
	if swept > 0 {
		slog.Info("Marked stale devices inactive", "count", swept, "cutoff", cutoff)
	}
}
