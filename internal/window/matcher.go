package window

import (
	"log/slog"

	"github.com/noahxzhu/timetable-notify/internal/clock"
	"github.com/noahxzhu/timetable-notify/internal/model"
)

// AddMinutes shifts a time of day forward by m minutes, carrying into
// hours modulo 24.
func AddMinutes(t model.LocalTime, m int) model.LocalTime {
	total := t.Minutes() + m
	total %= 24 * 60
	if total < 0 {
		total += 24 * 60
	}
	return model.LocalTime{Hour: total / 60, Minute: total % 60}
}

// IsDue reports whether now falls inside the notification window for a
// lesson: [start+offset, start+offset+windowMin), compared as plain
// minutes since midnight. The window is deliberately not wrapped past
// midnight; a tail crossing 24:00 is truncated at day end.
//
// An entry referencing an unknown period is never due; it is warned
// about rather than failing the batch.
func IsDue(lesson model.LessonEntry, periods map[string]model.Period, offsetMin, windowMin int, now clock.Moment) bool {
	period, ok := periods[lesson.Period]
	if !ok {
		slog.Warn("Skipping lesson with unknown period", "period", lesson.Period, "class", lesson.Class)
		return false
	}

	notifyMin := period.Start.Minutes() + offsetMin
	nowMin := now.Minutes()
	return notifyMin <= nowMin && nowMin < notifyMin+windowMin
}

// DueLessons filters the day's entries down to those due now,
// preserving order. Concurrent periods, or a window wide enough to
// cover more than one period, can both produce multiple matches.
func DueLessons(lessons []model.LessonEntry, periods map[string]model.Period, offsetMin, windowMin int, now clock.Moment) []model.LessonEntry {
	var due []model.LessonEntry
	for _, lesson := range lessons {
		if IsDue(lesson, periods, offsetMin, windowMin, now) {
			due = append(due, lesson)
		}
	}
	return due
}
