package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pinger is satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthJobs pings the database and reports transitions between healthy and unhealthy.
type HealthJobs struct {
	db       Pinger
	interval time.Duration
	onChange func(healthy bool)

	mu      sync.Mutex
	known   bool
	healthy bool
}

func NewHealthJobs(db Pinger, interval time.Duration, onChange func(healthy bool)) *HealthJobs {
	return &HealthJobs{
		db:       db,
		interval: interval,
		onChange: onChange,
	}
}

func (j *HealthJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "ping_database",
		Interval: j.interval,
		Fn:       j.PingDatabase,
		Timeout:  5 * time.Second,
	})
}

// PingDatabase pings the database. onChange runs on the first ping and on every flip.
func (j *HealthJobs) PingDatabase(ctx context.Context) error {
	err := j.db.Ping(ctx)
	healthy := err == nil

	j.mu.Lock()
	changed := !j.known || j.healthy != healthy
	j.known = true
	j.healthy = healthy
	j.mu.Unlock()

	if changed {
		slog.Info("Cron: database health changed", "healthy", healthy)
		if j.onChange != nil {
			j.onChange(healthy)
		}
	}
	return err
}

// Healthy reports the result of the last ping.
func (j *HealthJobs) Healthy() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.known && j.healthy
}
