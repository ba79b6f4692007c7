// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kuldippatel.dev/touchtrack/mt"
)

// Output modes.
const (
	OutputUinput = "uinput"
	OutputBus    = "bus"
	OutputTrace  = "trace"
)

type Config struct {
	Touchtrack TouchtrackConfig `yaml:"touchtrack"`
}

type TouchtrackConfig struct {
	Device  DeviceConfig  `yaml:"device"`
	Tracker TrackerConfig `yaml:"tracker"`
	Output  OutputConfig  `yaml:"output"`

	// Synthetic input instead of a device (optional)
	Demo *DemoConfig `yaml:"demo"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Path string `yaml:"path"` // empty: first multi-touch device found
}

// ---- TRACKER ----

type TrackerConfig struct {
	Slots       int   `yaml:"slots"`        // 0: device slot count
	MaxDistance int32 `yaml:"max_distance"` // 0: ungated
	Quiet       bool  `yaml:"quiet"`        // mute drop diagnostics
}

// ---- OUTPUT ----

type OutputConfig struct {
	Mode  string `yaml:"mode"`
	Trace bool   `yaml:"trace"` // dump raw source events
}

// ---- DEMO ----

type DemoConfig struct {
	Width   int32 `yaml:"width"`
	Height  int32 `yaml:"height"`
	Slots   int   `yaml:"slots"`
	MaxStep int32 `yaml:"max_step"`
	Jitter  int32 `yaml:"jitter"`

	FrameIntervalMs int `yaml:"frame_interval_ms"`
	PauseMs         int `yaml:"pause_ms"`

	Swipes []SwipeConfig `yaml:"swipes"`

	// Random multi-finger gestures after the swipes
	Gestures int   `yaml:"gestures"`
	Fingers  int   `yaml:"fingers"`
	Seed     int64 `yaml:"seed"`
}

type SwipeConfig struct {
	From [2]int32 `yaml:"from"`
	To   [2]int32 `yaml:"to"`
}

// Load reads a YAML configuration file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Apply overrides the device-derived tracker configuration with the
// configured slot count and gating distance.
func (t TrackerConfig) Apply(base mt.Config) mt.Config {
	if t.Slots > 0 {
		base.NumSlots = t.Slots
	}
	if base.Flags&mt.FlagTrack != 0 {
		base.MaxDistance = t.MaxDistance
	}
	return base
}

// TrackerConfig returns the tracker configuration for synthetic input.
func (d *DemoConfig) TrackerConfig(t TrackerConfig) mt.Config {
	cfg := mt.DefaultConfig(d.Slots)
	cfg.MaxDistance = t.MaxDistance
	return cfg
}
