package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// PickupDay anchors a pickup date to its UTC calendar day. Date-only strings
// anchor to UTC midnight; full timestamps are truncated to their UTC date.
func PickupDay(pickupDate string) (time.Time, error) {
	if day, err := time.Parse(dateLayout, pickupDate); err == nil {
		return day.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, pickupDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable pickup date %q: %w", pickupDate, err)
	}
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// SearchWindow computes the provider query window for an anchored pickup
// day: a 48-hour span centered on the day boundary, [day - 12h, day + 36h].
func SearchWindow(day time.Time) (start, end time.Time) {
	return day.Add(-12 * time.Hour), day.Add(36 * time.Hour)
}
