package analytics

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStartMondayRule(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2024, 1, 1), date(2024, 1, 1)},  // Monday maps to itself
		{date(2024, 1, 2), date(2024, 1, 1)},  // Tuesday
		{date(2024, 1, 7), date(2024, 1, 1)},  // Sunday belongs to the preceding Monday
		{date(2024, 1, 8), date(2024, 1, 8)},  // next Monday
		{date(2024, 3, 2), date(2024, 2, 26)}, // Saturday crossing a month boundary
		{date(2024, 1, 15), date(2024, 1, 15)},
	}
	for _, tc := range cases {
		if got := WeekStart(tc.in); !got.Equal(tc.want) {
			t.Errorf("WeekStart(%s) = %s, want %s", tc.in.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestWeekStartIdempotent(t *testing.T) {
	for day := 0; day < 14; day++ {
		d := date(2024, 1, 1).AddDate(0, 0, day)
		once := WeekStart(d)
		if twice := WeekStart(once); !twice.Equal(once) {
			t.Fatalf("re-bucketing %s moved %s to %s", d, once, twice)
		}
	}
}

func TestWeekStartIgnoresTimeOfDayAndZone(t *testing.T) {
	zone := time.FixedZone("UTC+13", 13*3600)
	late := time.Date(2024, 1, 2, 23, 59, 0, 0, zone)
	if got := WeekStart(late); !got.Equal(date(2024, 1, 1)) {
		t.Fatalf("expected calendar-date bucketing, got %s", got)
	}
}

func TestMonthStart(t *testing.T) {
	if got := MonthStart(date(2024, 2, 29)); !got.Equal(date(2024, 2, 1)) {
		t.Fatalf("MonthStart(2024-02-29) = %s", got)
	}
	if got := MonthStart(date(2024, 12, 1)); !got.Equal(date(2024, 12, 1)) {
		t.Fatalf("MonthStart on a month start moved to %s", got)
	}
}

func TestBucketStartDispatch(t *testing.T) {
	d := date(2024, 5, 17) // Friday
	if got := BucketStart(d, GranularityWeek); !got.Equal(date(2024, 5, 13)) {
		t.Fatalf("week bucket = %s", got)
	}
	if got := BucketStart(d, GranularityMonth); !got.Equal(date(2024, 5, 1)) {
		t.Fatalf("month bucket = %s", got)
	}
}
