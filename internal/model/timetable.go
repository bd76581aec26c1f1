package model

import "time"

// LocalTime is a wall-clock time of day in the configured timezone.
type LocalTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes returns the time of day as minutes since midnight.
func (t LocalTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Period is a named block of the school day, e.g. "1st School" 09:00-09:40.
type Period struct {
	Start LocalTime `json:"start"`
	End   LocalTime `json:"end"`
}

// LessonEntry is one scheduled occurrence of a lesson on one weekday.
// Period references a key in Timetable.Periods; Class identifies the
// group being reminded. Multiple entries may share a period.
type LessonEntry struct {
	Period  string `json:"period"`
	Class   string `json:"class"`
	Subject string `json:"subject"`
	Room    string `json:"room,omitempty"`
}

// Key is the dedup key for this entry: one notification per class per
// period per day.
func (e LessonEntry) Key() string {
	return e.Class + "|" + e.Period
}

// Meta carries identifying information about a timetable file.
type Meta struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Term string `json:"term,omitempty"`
}

// Timetable is the weekly schedule loaded from a timetable file. It is
// immutable after loading; schedule keys are lowercase weekday tokens
// ("mon".."sun").
type Timetable struct {
	Meta     Meta                     `json:"meta"`
	Periods  map[string]Period        `json:"periods"`
	Schedule map[string][]LessonEntry `json:"schedule"`
}

// Lessons returns the entries for the given weekday token. A weekday
// with no entries is a normal empty day, not an error.
func (t *Timetable) Lessons(weekday string) []LessonEntry {
	return t.Schedule[weekday]
}

// NotifyRecord marks that a lesson entry was notified on a given date.
type NotifyRecord struct {
	Date       string    `json:"date"` // YYYY-MM-DD in the configured timezone
	NotifiedAt time.Time `json:"notified_at"`
}

// StateFile is the persisted dedup state. Records is keyed by
// LessonEntry.Key(); entries from previous dates are purged whenever
// the file is rewritten.
type StateFile struct {
	Records map[string]NotifyRecord `json:"records"`
}
