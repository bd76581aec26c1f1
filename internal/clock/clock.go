package clock

import (
	"fmt"
	"time"
)

// Weekday tokens as used by timetable schedule keys.
var weekdayTokens = map[time.Weekday]string{
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
	time.Sunday:    "sun",
}

// Moment is the current wall-clock position inside a week, resolved in
// the configured timezone.
type Moment struct {
	Hour    int
	Minute  int
	Weekday string // "mon".."sun"
}

// Minutes returns minutes since midnight.
func (m Moment) Minutes() int {
	return m.Hour*60 + m.Minute
}

// Clock resolves "now" in a named IANA timezone. The zone database, not
// the caller, handles daylight-saving transitions. The now func is
// injectable for tests and defaults to time.Now.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func New(timezoneID string) (*Clock, error) {
	loc, err := time.LoadLocation(timezoneID)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone %q: %w", timezoneID, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewAt returns a clock frozen from the given now func. Used in tests.
func NewAt(timezoneID string, now func() time.Time) (*Clock, error) {
	c, err := New(timezoneID)
	if err != nil {
		return nil, err
	}
	c.now = now
	return c, nil
}

// Moment returns the instant of the call; it is not cached, so two
// calls around a slow operation may differ.
func (c *Clock) Moment() Moment {
	t := c.now().In(c.loc)
	return Moment{
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Weekday: weekdayTokens[t.Weekday()],
	}
}

// DateKey returns today's date in the configured zone as YYYY-MM-DD.
func (c *Clock) DateKey() string {
	return c.now().In(c.loc).Format("2006-01-02")
}
