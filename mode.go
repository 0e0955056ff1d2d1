package consoleimg

import (
	"fmt"
	"strings"
)

// DisplayMode selects the output encoding.
type DisplayMode int

const (
	// HalfColor draws one pixel per cell as a colored background (the zero value).
	HalfColor DisplayMode = iota
	// FullColor draws two stacked pixels per cell with half-block glyphs.
	FullColor
	// FullNoColor draws two stacked luminance samples per cell with glyphs only.
	FullNoColor
	// Ascii draws one luminance sample per cell with glyphs only.
	Ascii
	WezTerm
	WezTermNoColor
	Kitty
	KittyNoColor
	Iterm2
	Iterm2NoColor
	SixelHalf
	SixelFull
)

var displayModeNames = map[DisplayMode]string{
	HalfColor:      "HalfColor",
	FullColor:      "FullColor",
	FullNoColor:    "FullNoColor",
	Ascii:          "Ascii",
	WezTerm:        "WezTerm",
	WezTermNoColor: "WezTermNoColor",
	Kitty:          "Kitty",
	KittyNoColor:   "KittyNoColor",
	Iterm2:         "Iterm2",
	Iterm2NoColor:  "Iterm2NoColor",
	SixelHalf:      "SixelHalf",
	SixelFull:      "SixelFull",
}

func (m DisplayMode) String() string {
	if name, ok := displayModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DisplayMode(%d)", int(m))
}

// ParseDisplayMode looks a mode up by name, ignoring case.
func ParseDisplayMode(s string) (DisplayMode, error) {
	for mode, name := range displayModeNames {
		if strings.EqualFold(name, s) {
			return mode, nil
		}
	}
	return HalfColor, fmt.Errorf("unknown display mode %q", s)
}

// IsFull reports whether a cell carries two vertically stacked samples.
func (m DisplayMode) IsFull() bool {
	return m != HalfColor && m != Ascii && m != SixelHalf
}

// IsColor reports whether the mode emits color.
func (m DisplayMode) IsColor() bool {
	switch m {
	case FullColor, HalfColor, WezTerm, Kitty, Iterm2, SixelHalf, SixelFull:
		return true
	}
	return false
}

// IsLuma reports whether the mode only uses luminance.
func (m DisplayMode) IsLuma() bool { return !m.IsColor() }

// IsNormal reports whether the mode is a plain character-cell mode.
func (m DisplayMode) IsNormal() bool {
	switch m {
	case HalfColor, FullColor, Ascii, FullNoColor:
		return true
	}
	return false
}

func (m DisplayMode) IsSixel() bool   { return m == SixelHalf || m == SixelFull }
func (m DisplayMode) IsKitty() bool   { return m == Kitty || m == KittyNoColor }
func (m DisplayMode) IsITerm2() bool  { return m == Iterm2 || m == Iterm2NoColor }
func (m DisplayMode) IsWezTerm() bool { return m == WezTerm || m == WezTermNoColor }

// ExpectImageType is the ProcessedImage variant the mode requires.
func (m DisplayMode) ExpectImageType() ImageType {
	switch m {
	case FullColor:
		return ImageBoth
	case SixelHalf, SixelFull:
		return ImageColor2
	case HalfColor, Kitty, Iterm2, WezTerm:
		return ImageColor
	default:
		return ImageNoColor
	}
}
