package mt

import (
	"errors"
	"fmt"
)

// Flags select tracker behaviour, see INPUT_MT_* in input/mt.h.
type Flags uint32

const (
	FlagPointer    Flags = 1 << iota // pointer device, e.g. trackpad
	FlagDirect                       // direct device, e.g. touchscreen
	FlagDropUnused                   // drop contacts not seen in frame
	FlagTrack                        // match unindexed contacts to slots
)

var (
	// ErrNotTracking is returned by the assignment entry points when FlagTrack is unset.
	ErrNotTracking = errors.New("mt: contact tracking not enabled")

	// ErrTrackingManaged is returned by ReportSlotID when tracking ids are allocated internally.
	ErrTrackingManaged = errors.New("mt: tracking ids are allocated by the tracker")
)

// Config is fixed for the lifetime of a tracker.
type Config struct {
	NumSlots int
	Flags    Flags

	// MaxDistance gates contact matching: a contact further than this from a
	// slot's last position never continues that slot. Zero disables gating.
	MaxDistance int32

	// Pressure enables ABS_PRESSURE in the pointer emulation.
	Pressure bool
}

// DefaultConfig returns a touchscreen configuration with in-tracker matching.
func DefaultConfig(numSlots int) Config {
	return Config{
		NumSlots: numSlots,
		Flags:    FlagDirect | FlagDropUnused | FlagTrack,
	}
}

// ConfigError reports an unusable Config.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mt: invalid config %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration without modifying it.
func (c Config) Validate() error {
	if c.NumSlots <= 0 {
		return &ConfigError{Field: "NumSlots", Reason: fmt.Sprintf("must be positive, got %d", c.NumSlots)}
	}
	if c.NumSlots > MaxSlots {
		return &ConfigError{Field: "NumSlots", Reason: fmt.Sprintf("must not exceed %d, got %d", MaxSlots, c.NumSlots)}
	}
	if c.Flags&FlagPointer != 0 && c.Flags&FlagDirect != 0 {
		return &ConfigError{Field: "Flags", Reason: "pointer and direct are mutually exclusive"}
	}
	if c.MaxDistance < 0 {
		return &ConfigError{Field: "MaxDistance", Reason: fmt.Sprintf("must not be negative, got %d", c.MaxDistance)}
	}
	if c.MaxDistance > 0 && c.Flags&FlagTrack == 0 {
		return &ConfigError{Field: "MaxDistance", Reason: "gating requires FlagTrack"}
	}
	return nil
}
