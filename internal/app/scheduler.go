package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Guard sleep after each fire so clock skew or a DST transition cannot
// double-fire within the same minute.
const fireGuard = 60 * time.Second

// Scheduler drives generation at a configured daily wall-clock time. It is
// a supervisor: a failing generation is logged and the loop keeps running.
type Scheduler struct {
	Generate func(ctx context.Context) error
	Exists   func(date string) bool
	Hour     int
	Minute   int
	Guard    time.Duration
	Now      func() time.Time
}

func NewScheduler(at string, generate func(ctx context.Context) error, exists func(date string) bool) (*Scheduler, error) {
	hour, minute, err := parseClock(at)

	if err != nil {
		return nil, err
	}

	return &Scheduler{
		Generate: generate,
		Exists:   exists,
		Hour:     hour,
		Minute:   minute,
		Guard:    fireGuard,
		Now:      time.Now,
	}, nil
}

func parseClock(at string) (int, int, error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid schedule time %q, want HH:MM", at)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid schedule time %q, want HH:MM", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid schedule time %q, want HH:MM", at)
	}

	return hour, minute, nil
}

// Run generates immediately when forced or when today's batch is missing
// (startup catch-up after downtime), then fires once per day at the
// configured time until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, forceImmediate bool) {
	today := s.Now().Format("2006-01-02")
	if forceImmediate || !s.Exists(today) {
		slog.Info("generating today's ideas now")
		if err := s.Generate(ctx); err != nil {
			slog.Error(fmt.Sprintf("generation failed: %s", err.Error()))
		}
	}

	for {
		wait := s.untilNext(s.Now())
		slog.Info(fmt.Sprintf("next idea generation in %s (at %02d:%02d)", wait.Round(time.Minute), s.Hour, s.Minute))

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if err := s.Generate(ctx); err != nil {
			slog.Error(fmt.Sprintf("scheduled generation failed: %s", err.Error()))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.Guard):
		}
	}
}

// untilNext computes the duration to the next occurrence of the configured
// HH:MM; if that time already passed today, the target is tomorrow.
func (s *Scheduler) untilNext(now time.Time) time.Duration {
	target := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, s.Minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now)
}
