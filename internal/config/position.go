package config

import (
	"git.home.luguber.info/inful/styleext/internal/errors"
)

// Position selects where the inlined stylesheet goes.
type Position string

const (
	// PositionPlugin replaces the stylesheet link tag in place.
	PositionPlugin     Position = "plugin"
	PositionHeadTop    Position = "head-top"
	PositionHeadBottom Position = "head-bottom"
	PositionBodyTop    Position = "body-top"
	PositionBodyBottom Position = "body-bottom"
)

// DefaultPosition is used when no position is configured.
const DefaultPosition = PositionHeadBottom

var positions = []Position{PositionPlugin, PositionHeadTop, PositionHeadBottom, PositionBodyTop, PositionBodyBottom}

// AllowedPositions lists the accepted position values.
func AllowedPositions() []string {
	out := make([]string, len(positions))
	for i, p := range positions {
		out[i] = string(p)
	}
	return out
}

// ParsePosition validates a configured position. Empty selects the default;
// anything else must match one of the five values exactly.
func ParsePosition(raw string) (Position, error) {
	if raw == "" {
		return DefaultPosition, nil
	}
	for _, p := range positions {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", errors.InvalidPosition(raw, AllowedPositions())
}

// Replaces reports whether the position rewrites the existing link tag.
func (p Position) Replaces() bool { return p == PositionPlugin }

// InHead reports whether an inserted style block goes into the head.
func (p Position) InHead() bool { return p == PositionHeadTop || p == PositionHeadBottom }

// AtStart reports whether an inserted style block becomes the first child.
func (p Position) AtStart() bool { return p == PositionHeadTop || p == PositionBodyTop }

func (p Position) String() string { return string(p) }
