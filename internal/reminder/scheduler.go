package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// hourlySpec fires at minute zero of every hour, matching the ±30-minute
// sweep window.
const hourlySpec = "0 * * * *"

// Scheduler drives the dispatcher on a fixed wall-clock cadence.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewScheduler(location *time.Location, log zerolog.Logger) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(location)),
		log:  log,
	}
}

// ScheduleHourlySweep registers the hourly sweep job. Each run is bounded so
// a wedged delivery endpoint cannot pile sweeps on top of each other.
func (scheduler *Scheduler) ScheduleHourlySweep(dispatcher *Dispatcher) error {
	_, err := scheduler.cron.AddFunc(hourlySpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		dispatcher.Sweep(ctx)
	})
	return err
}

func (scheduler *Scheduler) Start() {
	scheduler.log.Info().Str("spec", hourlySpec).Msg("reminder scheduler started")
	scheduler.cron.Start()
}

// Stop halts scheduling and waits for a running sweep to finish, up to the
// context deadline.
func (scheduler *Scheduler) Stop(ctx context.Context) {
	done := scheduler.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		scheduler.log.Warn().Msg("reminder scheduler stop timed out")
	}
}
