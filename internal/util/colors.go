package util

import "github.com/fatih/color"

var colorsOptions = map[string]color.Attribute{
	"red":       color.FgHiRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"cyan":      color.FgCyan,
	"underline": color.Underline,
	"bold":      color.Bold,
	"faint":     color.Faint,
}

// ColorOutput decorates text with the named attributes. Unknown names are ignored.
func ColorOutput(text string, colorOptions ...string) string {
	attributes := []color.Attribute{}
	for _, option := range colorOptions {
		if o, ok := colorsOptions[option]; ok {
			attributes = append(attributes, o)
		}
	}
	c := color.New(attributes...)
	return c.Sprint(text)
}

// RatingColors returns the attributes used to print a vote average.
func RatingColors(rating float64) []string {
	switch {
	case rating >= 7:
		return []string{"green", "bold"}
	case rating >= 5:
		return []string{"yellow"}
	case rating > 0:
		return []string{"red"}
	default:
		return []string{"faint"}
	}
}
