package util

import (
	"fmt"
	"strings"
)

const minutesInHour = 60

// FormatRating prints a vote average with one decimal, or "-" when unrated.
func FormatRating(rating float64) string {
	if rating <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", rating)
}

// FormatRuntime prints a runtime in minutes as "2h 28m".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "-"
	}

	hours := minutes / minutesInHour
	rest := minutes % minutesInHour

	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
}

// Truncate shortens text to width runes, marking the cut with an ellipsis.
func Truncate(text string, width int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if width <= 0 || len(runes) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
