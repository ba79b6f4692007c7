// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuldippatel.dev/touchtrack/mt"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "touchtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
touchtrack:
  device:
    path: /dev/input/event3
  tracker:
    slots: 5
    max_distance: 120
  output:
    mode: Bus
    trace: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	tt := cfg.Touchtrack
	assert.Equal(t, "/dev/input/event3", tt.Device.Path)
	assert.Equal(t, TrackerConfig{Slots: 5, MaxDistance: 120}, tt.Tracker)
	assert.Equal(t, OutputConfig{Mode: OutputBus, Trace: true}, tt.Output)
	assert.Nil(t, tt.Demo)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
touchtrack:
  tracker:
    max_distanse: 10
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "max_distanse")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     TouchtrackConfig
		wantErr string
	}{
		{"empty is valid", TouchtrackConfig{}, ""},
		{"negative slots", TouchtrackConfig{Tracker: TrackerConfig{Slots: -1}}, "slots"},
		{"too many slots", TouchtrackConfig{Tracker: TrackerConfig{Slots: mt.MaxSlots + 1}}, "slots"},
		{"negative distance", TouchtrackConfig{Tracker: TrackerConfig{MaxDistance: -5}}, "max_distance"},
		{"unknown mode", TouchtrackConfig{Output: OutputConfig{Mode: "websocket"}}, "unknown mode"},
		{"mode is case insensitive", TouchtrackConfig{Output: OutputConfig{Mode: " TRACE "}}, ""},
		{"demo with device", TouchtrackConfig{
			Device: DeviceConfig{Path: "/dev/input/event0"},
			Demo:   &DemoConfig{},
		}, "device.path"},
		{"demo to uinput", TouchtrackConfig{
			Output: OutputConfig{Mode: OutputUinput},
			Demo:   &DemoConfig{},
		}, "needs a source device"},
		{"demo negative step", TouchtrackConfig{Demo: &DemoConfig{MaxStep: -1}}, "max_step"},
		{"demo negative fingers", TouchtrackConfig{Demo: &DemoConfig{Fingers: -2}}, "fingers"},
		{"swipe outside panel", TouchtrackConfig{Demo: &DemoConfig{
			Width: 100, Height: 100,
			Swipes: []SwipeConfig{{From: [2]int32{10, 10}, To: [2]int32{10, 100}}},
		}}, "swipe 0"},
		{"swipe negative", TouchtrackConfig{Demo: &DemoConfig{
			Swipes: []SwipeConfig{{From: [2]int32{-1, 0}}},
		}}, "negative coordinate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&Config{Touchtrack: tt.cfg})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	t.Parallel()
	cfg := &Config{Touchtrack: TouchtrackConfig{Output: OutputConfig{Mode: " Bus"}, Demo: &DemoConfig{}}}
	require.NoError(t, Validate(cfg))
	assert.Equal(t, " Bus", cfg.Touchtrack.Output.Mode)
	assert.Equal(t, &DemoConfig{}, cfg.Touchtrack.Demo)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("device defaults to uinput", func(t *testing.T) {
		cfg := &Config{}
		Normalize(cfg)
		assert.Equal(t, OutputUinput, cfg.Touchtrack.Output.Mode)
	})

	t.Run("demo defaults", func(t *testing.T) {
		cfg := &Config{Touchtrack: TouchtrackConfig{
			Tracker: TrackerConfig{Slots: 4},
			Demo:    &DemoConfig{},
		}}
		Normalize(cfg)

		d := cfg.Touchtrack.Demo
		assert.Equal(t, OutputTrace, cfg.Touchtrack.Output.Mode)
		assert.Equal(t, int32(defaultDemoWidth), d.Width)
		assert.Equal(t, int32(defaultDemoHeight), d.Height)
		assert.Equal(t, 4, d.Slots)
		assert.Equal(t, int32(defaultDemoStep), d.MaxStep)
		assert.Equal(t, DefaultSwipes, d.Swipes)
		assert.Zero(t, d.Fingers)

		// defaults are copied, not shared
		d.Swipes[0].From[0] = 1
		assert.Equal(t, int32(746), DefaultSwipes[0].From[0])
	})

	t.Run("random gestures skip default swipes", func(t *testing.T) {
		cfg := &Config{Touchtrack: TouchtrackConfig{Demo: &DemoConfig{Gestures: 3}}}
		Normalize(cfg)
		assert.Empty(t, cfg.Touchtrack.Demo.Swipes)
		assert.Equal(t, 2, cfg.Touchtrack.Demo.Fingers)
		assert.Equal(t, defaultDemoSlots, cfg.Touchtrack.Demo.Slots)
	})

	t.Run("nil is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() { Normalize(nil) })
	})
}

func TestTrackerApply(t *testing.T) {
	t.Parallel()

	typeA := mt.Config{NumSlots: 10, Flags: mt.FlagDirect | mt.FlagTrack | mt.FlagDropUnused, MaxDistance: 0}
	got := TrackerConfig{Slots: 6, MaxDistance: 80}.Apply(typeA)
	assert.Equal(t, 6, got.NumSlots)
	assert.Equal(t, int32(80), got.MaxDistance)
	require.NoError(t, got.Validate())

	// type-B passthrough never gates
	typeB := mt.Config{NumSlots: 10, Flags: mt.FlagDirect}
	got = TrackerConfig{MaxDistance: 80}.Apply(typeB)
	assert.Equal(t, typeB, got)
	require.NoError(t, got.Validate())

	demo := (&DemoConfig{Slots: 3}).TrackerConfig(TrackerConfig{MaxDistance: 40})
	assert.Equal(t, mt.Config{NumSlots: 3, Flags: mt.DefaultConfig(3).Flags, MaxDistance: 40}, demo)
}
