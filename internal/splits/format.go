package splits

import (
	"fmt"
	"strconv"
)

// Unreached is shown in place of a split that has not been recorded.
const Unreached = "—"

// Label formats a target as "0 → 100 km/h".
func Label(targetKmh float64) string {
	return "0 → " + strconv.FormatFloat(targetKmh, 'f', -1, 64) + " km/h"
}

// FormatElapsed renders a split time as seconds with two decimals, or
// Unreached when nil.
func FormatElapsed(elapsedMs *int64) string {
	if elapsedMs == nil {
		return Unreached
	}
	return fmt.Sprintf("%.2f s", float64(*elapsedMs)/1000)
}

// Rows pairs each entry's label with its formatted time.
func Rows(entries []Entry) [][2]string {
	rows := make([][2]string, len(entries))
	for i, e := range entries {
		rows[i] = [2]string{Label(e.TargetKmh), FormatElapsed(e.ElapsedMs)}
	}
	return rows
}
