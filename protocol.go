package consoleimg

import (
	"fmt"
	"os"
	"strings"
)

// Protocol is the terminal output family a DisplayMode belongs to.
type Protocol int

const (
	Auto Protocol = iota
	Normal
	WezTermProtocol
	KittyProtocol
	ITerm2Protocol
	SixelProtocol
)

func (p Protocol) String() string {
	switch p {
	case Auto:
		return "auto"
	case Normal:
		return "normal"
	case WezTermProtocol:
		return "wezterm"
	case KittyProtocol:
		return "kitty"
	case ITerm2Protocol:
		return "iterm2"
	case SixelProtocol:
		return "sixel"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// ParseProtocol parses a protocol name as printed by String.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "normal", "halfblocks", "text":
		return Normal, nil
	case "wezterm":
		return WezTermProtocol, nil
	case "kitty":
		return KittyProtocol, nil
	case "iterm2", "iterm":
		return ITerm2Protocol, nil
	case "sixel":
		return SixelProtocol, nil
	}
	return Auto, fmt.Errorf("unknown protocol %q", s)
}

// DetectProtocol guesses the protocol from environment variables only.
// It never writes query sequences to the terminal.
func DetectProtocol() Protocol {
	return detectProtocol(os.Getenv)
}

func detectProtocol(getenv func(string) string) Protocol {
	termProgram := strings.ToLower(getenv("TERM_PROGRAM"))
	termEnv := strings.ToLower(getenv("TERM"))

	switch {
	case strings.Contains(termProgram, "wezterm") || strings.Contains(termEnv, "wezterm") ||
		getenv("WEZTERM_EXECUTABLE") != "":
		return WezTermProtocol
	case strings.Contains(termProgram, "kitty") || strings.Contains(termEnv, "kitty") ||
		getenv("KITTY_WINDOW_ID") != "" || termProgram == "ghostty":
		return KittyProtocol
	case strings.Contains(termProgram, "iterm") || getenv("ITERM_SESSION_ID") != "" ||
		getenv("LC_TERMINAL") == "iTerm2":
		return ITerm2Protocol
	case strings.Contains(termEnv, "sixel") || strings.Contains(termEnv, "mlterm") ||
		strings.Contains(termEnv, "foot"):
		return SixelProtocol
	}
	return Normal
}

// DisplayModeBuilder turns a protocol choice plus full/color flags into a DisplayMode.
type DisplayModeBuilder struct {
	Protocol Protocol
	Full     bool
	Color    bool
}

// NewDisplayModeBuilder returns a builder for full, colored output.
func NewDisplayModeBuilder(p Protocol) DisplayModeBuilder {
	return DisplayModeBuilder{Protocol: p, Full: true, Color: true}
}

// Build resolves the mode. Auto is resolved with the terminal's detected
// protocol, or Normal when term is nil.
func (b DisplayModeBuilder) Build(term TerminalInfo) DisplayMode {
	p := b.Protocol
	if p == Auto {
		p = Normal
		if term != nil {
			p = term.Protocol()
		}
	}

	switch p {
	case KittyProtocol:
		if b.Color {
			return Kitty
		}
		return KittyNoColor
	case ITerm2Protocol:
		if b.Color {
			return Iterm2
		}
		return Iterm2NoColor
	case WezTermProtocol:
		if b.Color {
			return WezTerm
		}
		return WezTermNoColor
	case SixelProtocol:
		if b.Full {
			return SixelFull
		}
		return SixelHalf
	}

	switch {
	case b.Full && b.Color:
		return FullColor
	case b.Full:
		return FullNoColor
	case b.Color:
		return HalfColor
	default:
		return Ascii
	}
}
