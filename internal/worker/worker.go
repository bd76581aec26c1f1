package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/noahxzhu/timetable-notify/internal/clock"
	"github.com/noahxzhu/timetable-notify/internal/config"
	"github.com/noahxzhu/timetable-notify/internal/model"
	"github.com/noahxzhu/timetable-notify/internal/notify"
	"github.com/noahxzhu/timetable-notify/internal/timetable"
	"github.com/noahxzhu/timetable-notify/internal/window"
)

// NotifyLog is the dedup state consulted before dispatching and updated
// after. Injected so tests can substitute an in-memory fake.
type NotifyLog interface {
	Has(class, period, dateKey string) bool
	MarkNotified(class, period, dateKey string)
}

// Dispatcher fires one reminder through both channels and reports
// per-channel outcome. It never returns an error.
type Dispatcher interface {
	Dispatch(ctx context.Context, lesson model.LessonEntry) notify.Result
}

// Worker runs one reminder pass per invocation: load the timetable,
// match the current window, filter already-notified lessons, dispatch
// the rest sequentially.
type Worker struct {
	cfg        *config.Config
	clock      *clock.Clock
	store      NotifyLog
	dispatcher Dispatcher
}

func NewWorker(cfg *config.Config, clk *clock.Clock, store NotifyLog, dispatcher Dispatcher) *Worker {
	return &Worker{
		cfg:        cfg,
		clock:      clk,
		store:      store,
		dispatcher: dispatcher,
	}
}

// RunOnce performs a single pass. A timetable load failure is returned
// as an error (fatal for this invocation); everything past that point
// is absorbed and logged. Lessons are dispatched sequentially so store
// reads and writes never race in-process; only the two channels within
// one dispatch run concurrently.
//
// Marking policy: a lesson is marked notified after every completed
// dispatch attempt, regardless of per-channel outcome. A failed channel
// is visible in logs only; the window is wide enough that an automatic
// second pass is unnecessary, and a duplicate push is worse than a
// missed secondary email.
func (w *Worker) RunOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reminder pass panicked: %v", r)
		}
	}()

	log := slog.Default().With("run_id", uuid.New().String())

	tt, err := timetable.Load(w.cfg.TimetablePath())
	if err != nil {
		return fmt.Errorf("load timetable %q: %w", w.cfg.TimetablePath(), err)
	}

	now := w.clock.Moment()
	dateKey := w.clock.DateKey()
	log.Info("Reminder pass started",
		"timetable", tt.Meta.ID, "weekday", now.Weekday,
		"time", fmt.Sprintf("%02d:%02d", now.Hour, now.Minute))

	due := window.DueLessons(tt.Lessons(now.Weekday), tt.Periods,
		w.cfg.Notify.OffsetMinutes, w.cfg.Notify.WindowMinutes, now)

	sent, skipped := 0, 0
	for _, lesson := range due {
		if w.store.Has(lesson.Class, lesson.Period, dateKey) {
			log.Info("Already notified today, skipping",
				"class", lesson.Class, "period", lesson.Period, "date", dateKey)
			skipped++
			continue
		}

		result := w.dispatcher.Dispatch(ctx, lesson)
		w.store.MarkNotified(lesson.Class, lesson.Period, dateKey)
		if !result.AnySuccess() {
			log.Error("All channels failed for lesson",
				"class", lesson.Class, "period", lesson.Period)
		}
		sent++
	}

	log.Info("Reminder pass finished", "due", len(due), "sent", sent, "skipped", skipped)
	return nil
}

// RunDaemon runs RunOnce on the given cron spec until ctx is cancelled,
// for hosts without a system scheduler. A failed pass is logged and the
// next tick proceeds normally.
func (w *Worker) RunDaemon(ctx context.Context, cronSpec string) error {
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		if err := w.RunOnce(ctx); err != nil {
			slog.Error("Reminder pass failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", cronSpec, err)
	}

	slog.Info("Daemon started", "cron", cronSpec)
	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	slog.Info("Daemon stopped")
	return nil
}
