package quote

import "fmt"

// FormatNumber renders a document number like "7/03/2026". The sequence
// restarts at 1 for every (year, month).
func FormatNumber(sequence, month, year int) string {
	return fmt.Sprintf("%d/%02d/%d", sequence, month, year)
}
