package worktime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDecimal converts an "hours:minutes" form value into decimal hours.
// The parser is deliberately forgiving: an empty string is 0, a bare
// integer is whole hours, and any fragment that does not parse as a number
// counts as 0, so data entry is never blocked by a malformed value.
// Minute overflow is not normalized: "7:90" yields 8.5.
func ParseDecimal(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	hours := coerce(parts[0])
	if len(parts) == 1 {
		return hours
	}
	minutes := coerce(parts[1])
	return hours + minutes/60
}

// FormatDecimal renders decimal hours as "H:MM", rounding to the nearest
// whole minute. Negative or non-finite input clamps to "0:00" so the
// output always keeps the time shape.
func FormatDecimal(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		hours = 0
	}
	totalMinutes := int64(math.Round(hours * 60))
	return fmt.Sprintf("%d:%02d", totalMinutes/60, totalMinutes%60)
}

func coerce(fragment string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(fragment), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
