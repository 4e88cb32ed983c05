package domain

import (
	"fmt"
	"regexp"
)

var tunnusPattern = regexp.MustCompile(`^HAI\d{2}-\d+$`)

// FormatHankeTunnus builds a human-readable hanke code such as "HAI24-12".
func FormatHankeTunnus(year int, seq int64) string {
	return fmt.Sprintf("HAI%02d-%d", year%100, seq)
}

func ValidHankeTunnus(s string) bool {
	return tunnusPattern.MatchString(s)
}
