package timetable

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/noahxzhu/timetable-notify/internal/model"
)

var validWeekdays = map[string]bool{
	"mon": true, "tue": true, "wed": true, "thu": true,
	"fri": true, "sat": true, "sun": true,
}

// File-level schema with times as "HH:MM" strings. Parsed into typed
// model values at the load boundary; downstream never re-parses.
type rawPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type rawTimetable struct {
	Meta     model.Meta                     `json:"meta"`
	Periods  map[string]rawPeriod           `json:"periods"`
	Schedule map[string][]model.LessonEntry `json:"schedule"`
}

// Load reads and parses a timetable file. A missing file or JSON parse
// failure is a hard error; everything else is soft validation: issues
// are logged as warnings and the offending pieces dropped, so one bad
// entry never takes out the whole batch.
func Load(path string) (*model.Timetable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timetable: %w", err)
	}

	var raw rawTimetable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse timetable: %w", err)
	}

	tt := &model.Timetable{
		Meta:     raw.Meta,
		Periods:  make(map[string]model.Period, len(raw.Periods)),
		Schedule: make(map[string][]model.LessonEntry, len(raw.Schedule)),
	}

	for name, p := range raw.Periods {
		start, err := parseLocalTime(p.Start)
		if err != nil {
			slog.Warn("Dropping period with malformed start time", "period", name, "start", p.Start, "error", err)
			continue
		}
		end, err := parseLocalTime(p.End)
		if err != nil {
			slog.Warn("Dropping period with malformed end time", "period", name, "end", p.End, "error", err)
			continue
		}
		tt.Periods[name] = model.Period{Start: start, End: end}
	}

	for day, entries := range raw.Schedule {
		if !validWeekdays[day] {
			slog.Warn("Ignoring schedule key that is not a weekday token", "key", day)
			continue
		}
		for _, e := range entries {
			if _, ok := tt.Periods[e.Period]; !ok {
				// Kept in the schedule: the matcher warns and skips it,
				// matching the soft-validation contract.
				slog.Warn("Lesson references unknown period", "day", day, "period", e.Period, "class", e.Class)
			}
		}
		tt.Schedule[day] = entries
	}

	return tt, nil
}

// parseLocalTime parses "HH:MM" (24h).
func parseLocalTime(s string) (model.LocalTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return model.LocalTime{}, fmt.Errorf("want HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return model.LocalTime{}, fmt.Errorf("bad hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return model.LocalTime{}, fmt.Errorf("bad minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return model.LocalTime{}, fmt.Errorf("time %q out of range", s)
	}
	return model.LocalTime{Hour: hour, Minute: minute}, nil
}
