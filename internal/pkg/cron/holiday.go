package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
)

// HolidayJobs keeps the cached holiday calendar in step with the holidays table.
type HolidayJobs struct {
	holidayService holiday.HolidayService
	interval       time.Duration
}

func NewHolidayJobs(holidayService holiday.HolidayService, interval time.Duration) *HolidayJobs {
	return &HolidayJobs{
		holidayService: holidayService,
		interval:       interval,
	}
}

func (j *HolidayJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "refresh_holidays",
		Interval: j.interval,
		Fn:       j.RefreshHolidays,
		Timeout:  30 * time.Second,
	})
}

func (j *HolidayJobs) RefreshHolidays(ctx context.Context) error {
	if err := j.holidayService.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh holidays: %w", err)
	}
	slog.Info("Cron: holiday calendar refreshed")
	return nil
}
