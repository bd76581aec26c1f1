package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noahxzhu/timetable-notify/internal/model"
)

type fakeSender struct {
	calls   atomic.Int32
	failFor int32 // fail the first N calls
}

func (f *fakeSender) Send(ctx context.Context, title, message string) error {
	n := f.calls.Add(1)
	if n <= f.failFor {
		return errors.New("send failed")
	}
	return nil
}

func newTestDispatcher(push, mail Sender) *Dispatcher {
	d := NewDispatcher(push, mail)
	d.Backoff = 0
	return d
}

var testLesson = model.LessonEntry{
	Period:  "1st School",
	Class:   "CMsiW-1",
	Subject: "Single Maths",
	Room:    "A12",
}

func Test_Dispatcher_bothSucceed(t *testing.T) {
	push := &fakeSender{}
	mail := &fakeSender{}

	result := newTestDispatcher(push, mail).Dispatch(context.Background(), testLesson)

	assert.Equal(t, Result{Push: StatusSuccess, Mail: StatusSuccess}, result)
	assert.True(t, result.AnySuccess())
	assert.EqualValues(t, 1, push.calls.Load())
	assert.EqualValues(t, 1, mail.calls.Load())
}

func Test_Dispatcher_partialFailureDoesNotBlockOtherChannel(t *testing.T) {
	push := &fakeSender{failFor: 2} // fails attempt and retry
	mail := &fakeSender{}

	result := newTestDispatcher(push, mail).Dispatch(context.Background(), testLesson)

	assert.Equal(t, Result{Push: StatusFailed, Mail: StatusSuccess}, result)
	assert.True(t, result.AnySuccess())
	assert.EqualValues(t, 2, push.calls.Load(), "failed channel gets exactly one retry")
	assert.EqualValues(t, 1, mail.calls.Load())
}

func Test_Dispatcher_retryRecoversChannel(t *testing.T) {
	push := &fakeSender{failFor: 1} // first attempt fails, retry succeeds
	mail := &fakeSender{}

	result := newTestDispatcher(push, mail).Dispatch(context.Background(), testLesson)

	assert.Equal(t, Result{Push: StatusSuccess, Mail: StatusSuccess}, result)
	assert.EqualValues(t, 2, push.calls.Load())
}

func Test_Dispatcher_bothFail(t *testing.T) {
	push := &fakeSender{failFor: 10}
	mail := &fakeSender{failFor: 10}

	var result Result
	assert.NotPanics(t, func() {
		result = newTestDispatcher(push, mail).Dispatch(context.Background(), testLesson)
	})

	assert.Equal(t, Result{Push: StatusFailed, Mail: StatusFailed}, result)
	assert.False(t, result.AnySuccess())
	assert.EqualValues(t, 2, push.calls.Load())
	assert.EqualValues(t, 2, mail.calls.Load())
}

func Test_formatReminder(t *testing.T) {
	t.Run("Should include the room when present", func(t *testing.T) {
		title, message := formatReminder(testLesson)
		assert.Equal(t, "Lesson reminder: Single Maths", title)
		assert.Equal(t, "CMsiW-1 has Single Maths in A12.", message)
	})

	t.Run("Should omit the room when absent", func(t *testing.T) {
		lesson := testLesson
		lesson.Room = ""
		_, message := formatReminder(lesson)
		assert.Equal(t, "CMsiW-1 has Single Maths.", message)
	})
}
