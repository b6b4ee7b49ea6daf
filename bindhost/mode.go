package bindhost

import "strings"

// Mode is a declarative bind policy.
type Mode int

const (
	// ModeLoopback binds to 127.0.0.1, falling back to all interfaces. It is
	// the zero value and the default.
	ModeLoopback Mode = iota
	// ModeLAN binds to all interfaces.
	ModeLAN
	// ModeTailnet binds to the overlay network IPv4 address, falling back to
	// loopback and then all interfaces.
	ModeTailnet
	// ModeAuto binds to loopback when possible, else all interfaces.
	ModeAuto
	// ModeCustom binds to a user-supplied IPv4 address, falling back to all
	// interfaces.
	ModeCustom
	// ModeUnknown is produced by ParseMode for unrecognized text.
	ModeUnknown
)

// ParseMode parses a bind mode name. Matching ignores case and surrounding
// whitespace. Empty text selects ModeLoopback; unrecognized text yields
// ModeUnknown.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loopback":
		return ModeLoopback
	case "lan":
		return ModeLAN
	case "tailnet":
		return ModeTailnet
	case "auto":
		return ModeAuto
	case "custom":
		return ModeCustom
	default:
		return ModeUnknown
	}
}

// String returns the canonical text representation of m.
func (m Mode) String() string {
	switch m {
	case ModeLoopback:
		return "loopback"
	case ModeLAN:
		return "lan"
	case ModeTailnet:
		return "tailnet"
	case ModeAuto:
		return "auto"
	case ModeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the five bind modes.
func (m Mode) Valid() bool {
	return m >= ModeLoopback && m <= ModeCustom
}

// Config is a bind policy with its payload.
type Config struct {
	Mode Mode
	// CustomHost is the IPv4 address used by ModeCustom.
	CustomHost string
}
