package analytics

import "time"

type Granularity string

const (
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// WeekStart returns the Monday on or before the given date, at midnight UTC.
// Only the calendar date component matters; time of day and zone are dropped
// so a rating never shifts buckets across timezones.
func WeekStart(date time.Time) time.Time {
	day := truncateToDay(date)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// MonthStart returns the first calendar day of the date's month, midnight UTC.
func MonthStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func BucketStart(date time.Time, granularity Granularity) time.Time {
	if granularity == GranularityMonth {
		return MonthStart(date)
	}
	return WeekStart(date)
}

func truncateToDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}
