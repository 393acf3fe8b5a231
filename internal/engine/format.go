package engine

import "fmt"

// FormatNumber renders a bufo amount the way the counters show it: two
// decimals with a K, M or B suffix from a thousand up, one decimal below.
func FormatNumber(n float64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.2fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.2fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.2fK", n/1e3)
	}
	return fmt.Sprintf("%.1f", n)
}
