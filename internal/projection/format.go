package projection

import "time"

// Timestamp layouts for the list. The lean layout drops the year for narrow
// displays.
const (
	timeLayout     = "02.01.2006 15:04"
	leanTimeLayout = "02.01 15:04"
)

// noTimestamp is shown for items that have never been acted on.
const noTimestamp = "—"

// formatActionTime renders an epoch-millisecond timestamp for display.
func formatActionTime(ts int64, lean bool) string {
	if ts == 0 {
		return noTimestamp
	}
	layout := timeLayout
	if lean {
		layout = leanTimeLayout
	}
	return time.UnixMilli(ts).Format(layout)
}
