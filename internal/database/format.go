package database

import "time"

// FormatTimestamp formats a stored timestamp for display, e.g.
// "Feb 06, 2026 14:05 UTC". Unparseable values are returned unchanged.
func FormatTimestamp(ts string) string {
	t, err := time.Parse(timeLayout, ts)
	if err != nil {
		return ts
	}
	return t.Format("Jan 02, 2006 15:04 UTC")
}
