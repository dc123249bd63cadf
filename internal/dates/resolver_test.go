package dates

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.August, 20, 15, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDayYearMonth(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		day, yearMonth string
		want           time.Time
	}{
		{"05", "2025.08", date(2025, time.August, 5)},
		{"31", "2024.12", date(2024, time.December, 31)},
		{" 29 ", "2024.02", date(2024, time.February, 29)},
		{"1", "2023.1", date(2023, time.January, 1)},
	} {
		t.Run(fmt.Sprintf("%s/%s", tc.day, tc.yearMonth), func(t *testing.T) {
			got, ok := Resolve(now, DayYearMonth(tc.day, tc.yearMonth))
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveDayYearMonthRejectsInvalid(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ day, yearMonth string }{
		{"05", "2025.13"},
		{"00", "2025.08"},
		{"30", "2023.02"},
		{"29", "2023.02"},
		{"xx", "2025.08"},
		{"05", "2025-08"},
		{"05", "2025.08.01"},
		{"", ""},
	} {
		_, ok := Resolve(now, DayYearMonth(tc.day, tc.yearMonth))
		assert.False(t, ok, "day=%q yearMonth=%q", tc.day, tc.yearMonth)
	}
}

func TestResolveFallsThroughInOrder(t *testing.T) {
	t.Parallel()

	got, ok := Resolve(now,
		DayYearMonth("05", "2025.13"),
		Hyphenated("2023-11-01"),
		PathDate("/2022/0101/c1a2/page.htm"),
		Today(),
	)
	require.True(t, ok)
	assert.Equal(t, date(2023, time.November, 1), got)

	got, ok = Resolve(now,
		Hyphenated("not a date"),
		PathDate("https://student.ecust.edu.cn/2023/1101/c1048a162142/page.htm"),
		Today(),
	)
	require.True(t, ok)
	assert.Equal(t, date(2023, time.November, 1), got)

	got, ok = Resolve(now, Hyphenated("2023-02-30"), PathDate("/news/page.htm"), Today())
	require.True(t, ok)
	assert.Equal(t, date(2025, time.August, 20), got)
}

func TestResolvePathDateRequiresSlashes(t *testing.T) {
	t.Parallel()

	_, ok := Resolve(now, PathDate("/2023/1101c1048/page.htm"))
	assert.False(t, ok)

	_, ok = Resolve(now, PathDate("/2023/1301/page.htm"))
	assert.False(t, ok)
}

func TestResolveWithoutCandidates(t *testing.T) {
	t.Parallel()

	_, ok := Resolve(now)
	assert.False(t, ok)
}

func TestDayUsesLocalCalendarDate(t *testing.T) {
	t.Parallel()

	shanghai := time.FixedZone("CST", 8*3600)
	late := time.Date(2025, time.August, 20, 23, 30, 0, 0, shanghai)
	assert.Equal(t, date(2025, time.August, 20), Day(late))
	assert.Equal(t, date(2025, time.August, 20), Day(late.UTC()))

	early := time.Date(2025, time.August, 21, 1, 0, 0, 0, shanghai)
	assert.Equal(t, date(2025, time.August, 21), Day(early))
}
