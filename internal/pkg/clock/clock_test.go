package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Minute
		wantErr bool
	}{
		{"midnight", "00:00", 0, false},
		{"office start", "08:00", 480, false},
		{"break end", "12:59", 779, false},
		{"last minute", "23:59", 1439, false},
		{"hour out of range", "24:00", 0, true},
		{"minute out of range", "08:60", 0, true},
		{"not zero padded", "8:00", 0, true},
		{"seconds not accepted", "08:00:00", 0, true},
		{"letters", "ab:cd", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestMinuteOrderingMatchesStrings(t *testing.T) {
	values := []string{"06:00", "08:00", "08:15", "08:16", "11:30", "12:59", "13:00", "17:00"}
	for i := 0; i < len(values); i++ {
		for j := 0; j < len(values); j++ {
			a, b := MustParse(values[i]), MustParse(values[j])
			assert.Equal(t, values[i] < values[j], a < b, "%s vs %s", values[i], values[j])
		}
	}
}

func TestAddWraps(t *testing.T) {
	assert.Equal(t, "08:15", MustParse("08:00").Add(15).String())
	assert.Equal(t, "00:10", MustParse("23:55").Add(15).String())
	assert.Equal(t, "23:50", MustParse("00:05").Add(-15).String())
}

func TestAt(t *testing.T) {
	ts := time.Date(2026, 3, 2, 8, 20, 59, 0, time.UTC)
	assert.Equal(t, MustParse("08:20"), At(ts))
}

func TestParsePtr(t *testing.T) {
	got, err := ParsePtr(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	empty := ""
	got, err = ParsePtr(&empty)
	require.NoError(t, err)
	assert.Nil(t, got)

	v := "13:05"
	got, err = ParsePtr(&v)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "13:05", *Format(got))
}
