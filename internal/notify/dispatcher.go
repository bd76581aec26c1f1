package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/noahxzhu/timetable-notify/internal/model"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result records the per-channel outcome of one dispatched reminder.
type Result struct {
	Push Status
	Mail Status
}

// AnySuccess reports whether at least one channel delivered.
func (r Result) AnySuccess() bool {
	return r.Push == StatusSuccess || r.Mail == StatusSuccess
}

// Sender is one delivery channel: send a titled message, report
// success or failure.
type Sender interface {
	Send(ctx context.Context, title, message string) error
}

// Dispatcher fires a single reminder through both channels. The
// channels run concurrently and independently: one failing never
// prevents or cancels the other. Each channel gets exactly one retry
// after a fixed backoff; Dispatch itself never returns an error.
type Dispatcher struct {
	Push    Sender
	Mail    Sender
	Backoff time.Duration
}

func NewDispatcher(push, mail Sender) *Dispatcher {
	return &Dispatcher{
		Push:    push,
		Mail:    mail,
		Backoff: 3 * time.Second,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, lesson model.LessonEntry) Result {
	title, message := formatReminder(lesson)

	var result Result
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		result.Push = d.sendWithRetry(ctx, "pushover", d.Push, title, message)
	}()
	go func() {
		defer wg.Done()
		result.Mail = d.sendWithRetry(ctx, "mail", d.Mail, title, message)
	}()

	wg.Wait()

	slog.Info("Dispatch finished", "class", lesson.Class, "period", lesson.Period,
		"pushover", result.Push, "mail", result.Mail)
	return result
}

func (d *Dispatcher) sendWithRetry(ctx context.Context, channel string, sender Sender, title, message string) Status {
	err := sender.Send(ctx, title, message)
	if err == nil {
		return StatusSuccess
	}
	slog.Warn("Channel send failed, retrying once", "channel", channel, "backoff", d.Backoff, "error", err)

	select {
	case <-time.After(d.Backoff):
	case <-ctx.Done():
		slog.Error("Channel retry cancelled", "channel", channel, "error", ctx.Err())
		return StatusFailed
	}

	if err := sender.Send(ctx, title, message); err != nil {
		slog.Error("Channel send failed after retry", "channel", channel, "error", err)
		return StatusFailed
	}
	return StatusSuccess
}

func formatReminder(lesson model.LessonEntry) (title, message string) {
	title = fmt.Sprintf("Lesson reminder: %s", lesson.Subject)
	if lesson.Room != "" {
		message = fmt.Sprintf("%s has %s in %s.", lesson.Class, lesson.Subject, lesson.Room)
	} else {
		message = fmt.Sprintf("%s has %s.", lesson.Class, lesson.Subject)
	}
	return title, message
}
