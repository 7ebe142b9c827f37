package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	for _, bad := range []string{"2024-2-29", "24-02-29", "2024-02-29T00:00:00Z", "2023-02-29", "2024-13-01", "", " 2024-01-01"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDaysUntil(t *testing.T) {
	start, _ := ParseDate("2024-01-01")
	end, _ := ParseDate("2025-01-01")
	assert.Equal(t, 366, start.DaysUntil(end))
	assert.Equal(t, -366, end.DaysUntil(start))
	assert.Equal(t, 0, start.DaysUntil(start))

	// Spans a DST change in most northern zones; date-only values are unaffected.
	march, _ := ParseDate("2024-03-30")
	april, _ := ParseDate("2024-04-01")
	assert.Equal(t, 2, march.DaysUntil(april))
	assert.Equal(t, april, march.AddDays(2))
	assert.True(t, march.Before(april))
	assert.False(t, april.Before(march))
}
