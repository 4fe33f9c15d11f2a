package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayBucket(t *testing.T) {
	at := time.Date(2023, 5, 14, 23, 59, 59, 0, time.UTC)
	require.Equal(t, "2023-05-14", DayBucket(at))
	require.Equal(t, "2023-05-15", DayBucket(at.Add(time.Second)))
}

func TestUntilEndOfDay(t *testing.T) {
	at := time.Date(2023, 5, 14, 23, 0, 0, 0, time.UTC)
	require.Equal(t, time.Hour, UntilEndOfDay(at))
}

func TestWeekBucket(t *testing.T) {
	// 2023-05-14 is a Sunday of ISO week 19.
	at := time.Date(2023, 5, 14, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "week/19/2023", WeekBucket(at))
}
