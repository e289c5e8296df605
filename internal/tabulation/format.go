package tabulation

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPercent renders a percentage with two decimals and a percent sign.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// percentage guards against empty denominators.
func percentage(count, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(count) * 100 / float64(denominator)
}

// formatTrace joins per-alternative counts as "2 - 0 - 1".
func formatTrace(counts []int) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, " - ")
}
