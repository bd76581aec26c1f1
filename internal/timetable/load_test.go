package timetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahxzhu/timetable-notify/internal/model"
)

func writeTimetable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "term.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func Test_Load(t *testing.T) {
	path := writeTimetable(t, `{
		"meta": {"id": "2026-term1", "name": "Spring 2026"},
		"periods": {
			"1st School": {"start": "09:00", "end": "09:40"},
			"2nd School": {"start": "10:00", "end": "10:40"}
		},
		"schedule": {
			"mon": [
				{"period": "1st School", "class": "CMsiW-1", "subject": "Single Maths", "room": "A12"},
				{"period": "2nd School", "class": "CMsiW-1", "subject": "Physics"}
			],
			"tue": []
		}
	}`)

	tt, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2026-term1", tt.Meta.ID)
	assert.Equal(t, model.Period{
		Start: model.LocalTime{Hour: 9, Minute: 0},
		End:   model.LocalTime{Hour: 9, Minute: 40},
	}, tt.Periods["1st School"])
	require.Len(t, tt.Lessons("mon"), 2)
	assert.Equal(t, "Single Maths", tt.Lessons("mon")[0].Subject)
	assert.Empty(t, tt.Lessons("tue"))
	assert.Empty(t, tt.Lessons("wed"), "a day absent from the schedule is an empty day")
}

func Test_Load_hardFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeTimetable(t, `{"periods": `)
		_, err := Load(path)
		assert.ErrorContains(t, err, "parse timetable")
	})
}

func Test_Load_softValidation(t *testing.T) {
	t.Run("Should drop periods with malformed times but keep loading", func(t *testing.T) {
		path := writeTimetable(t, `{
			"periods": {
				"Broken": {"start": "9 o'clock", "end": "09:40"},
				"OutOfRange": {"start": "25:00", "end": "26:00"},
				"Good": {"start": "10:00", "end": "10:40"}
			},
			"schedule": {
				"mon": [{"period": "Broken", "class": "CMsiW-1", "subject": "Maths"}]
			}
		}`)

		tt, err := Load(path)
		require.NoError(t, err)

		assert.NotContains(t, tt.Periods, "Broken")
		assert.NotContains(t, tt.Periods, "OutOfRange")
		assert.Contains(t, tt.Periods, "Good")
		// The referencing lesson stays; it just can never match.
		assert.Len(t, tt.Lessons("mon"), 1)
	})

	t.Run("Should ignore schedule keys that are not weekday tokens", func(t *testing.T) {
		path := writeTimetable(t, `{
			"periods": {"P1": {"start": "09:00", "end": "09:40"}},
			"schedule": {
				"monday": [{"period": "P1", "class": "CMsiW-1", "subject": "Maths"}],
				"fri": [{"period": "P1", "class": "CMsiW-1", "subject": "Maths"}]
			}
		}`)

		tt, err := Load(path)
		require.NoError(t, err)

		assert.Empty(t, tt.Lessons("monday"))
		assert.Len(t, tt.Lessons("fri"), 1)
	})

	t.Run("Should keep entries referencing unknown periods", func(t *testing.T) {
		path := writeTimetable(t, `{
			"periods": {},
			"schedule": {"mon": [{"period": "ghost", "class": "CMsiW-1", "subject": "Maths"}]}
		}`)

		tt, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, tt.Lessons("mon"), 1)
	})
}

func Test_parseLocalTime(t *testing.T) {
	tests := []struct {
		in      string
		want    model.LocalTime
		wantErr bool
	}{
		{in: "09:00", want: model.LocalTime{Hour: 9, Minute: 0}},
		{in: "23:59", want: model.LocalTime{Hour: 23, Minute: 59}},
		{in: "00:00", want: model.LocalTime{}},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLocalTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
