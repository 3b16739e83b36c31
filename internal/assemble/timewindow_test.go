package assemble_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remint-io/remint/internal/assemble"
)

func TestDefaultWindow_CoversLegacyUnixRange(t *testing.T) {
	t.Parallel()

	window := assemble.DefaultWindow()

	assert.Equal(t, time.Unix(0, 0).UTC(), window.Begin)
	assert.Equal(t, time.Date(2038, 1, 19, 3, 14, 7, 0, time.UTC), window.End)
}

func TestContains_BoundsAreInclusive(t *testing.T) {
	t.Parallel()

	begin := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	window := assemble.TimeWindow{Begin: begin, End: end}

	assert.True(t, window.Contains(begin))
	assert.True(t, window.Contains(end))
	assert.False(t, window.Contains(begin.Add(-time.Second)))
	assert.False(t, window.Contains(end.Add(time.Second)))
}

func TestParseTimestamp_UnixSeconds(t *testing.T) {
	t.Parallel()

	ts, err := assemble.ParseTimestamp("1000000000")
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1000000000, 0).UTC(), ts)
}

func TestParseTimestamp_DateTimeForms(t *testing.T) {
	t.Parallel()

	tests := []string{
		"2026-08-25 14:30:00",
		"2026/08/25 14:30:00",
		"2026-08-25T14:30:00Z",
	}

	for _, input := range tests {
		ts, err := assemble.ParseTimestamp(input)
		require.NoError(t, err, input)
		assert.Equal(t, 2026, ts.Year(), input)
	}
}

func TestParseTimestamp_Garbage_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := assemble.ParseTimestamp("not-a-time")
	assert.ErrorIs(t, err, assemble.ErrTimeParse)
}
