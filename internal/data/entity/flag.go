package entity

import "strings"

// Flag is the condition category a reporter assigns to a billboard.
type Flag string

const (
	FlagRed    Flag = "red"    // damaged
	FlagYellow Flag = "yellow" // needs attention
	FlagGreen  Flag = "green"  // good
	FlagOrange Flag = "orange" // near competitor
)

// DefaultMarkerColor is used for flags outside the fixed palette.
const DefaultMarkerColor = "blue"

var Flags = []Flag{FlagRed, FlagYellow, FlagGreen, FlagOrange}

var markerColors = map[Flag]string{
	FlagRed:    "red",
	FlagYellow: "yellow",
	FlagGreen:  "green",
	FlagOrange: "orange",
}

func NormalizeFlag(raw string) Flag {
	return Flag(strings.ToLower(strings.TrimSpace(raw)))
}

func (f Flag) Valid() bool {
	_, ok := markerColors[f]
	return ok
}

// Color never fails: unknown or empty flags render with the default color.
func (f Flag) Color() string {
	if color, ok := markerColors[f]; ok {
		return color
	}
	return DefaultMarkerColor
}
