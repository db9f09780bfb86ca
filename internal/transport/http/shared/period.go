package shared

import (
	"net/http"
	"strconv"
	"time"
)

// ParsePeriod reads year and month query parameters, defaulting to the
// current month when absent.
func ParsePeriod(r *http.Request) (year, month int) {
	now := time.Now()
	year, month = now.Year(), int(now.Month())
	if raw := r.URL.Query().Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			year = v
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			month = v
		}
	}
	return year, month
}
