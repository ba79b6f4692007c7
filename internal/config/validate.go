// internal/config/validate.go
package config

import (
	"fmt"

	"kuldippatel.dev/touchtrack/mt"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is empty")
	}
	t := &cfg.Touchtrack

	// ------------------------------------------------------------
	// TRACKER
	// ------------------------------------------------------------

	if t.Tracker.Slots < 0 || t.Tracker.Slots > mt.MaxSlots {
		return fmt.Errorf("tracker: slots must be within 0..%d, got %d", mt.MaxSlots, t.Tracker.Slots)
	}
	if t.Tracker.MaxDistance < 0 {
		return fmt.Errorf("tracker: max_distance must not be negative, got %d", t.Tracker.MaxDistance)
	}

	// ------------------------------------------------------------
	// OUTPUT
	// ------------------------------------------------------------

	mode := normMode(t.Output.Mode)
	switch mode {
	case "", OutputUinput, OutputBus, OutputTrace:
	default:
		return fmt.Errorf("output: unknown mode %q", t.Output.Mode)
	}

	// ------------------------------------------------------------
	// DEMO (OPT-IN)
	// ------------------------------------------------------------

	d := t.Demo
	if d == nil {
		return nil
	}

	if t.Device.Path != "" {
		return fmt.Errorf("demo: device.path must be empty, synthetic input replaces the device")
	}
	if mode == OutputUinput {
		return fmt.Errorf("demo: output mode %q needs a source device, use %q or %q",
			OutputUinput, OutputBus, OutputTrace)
	}
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("demo: width and height must not be negative")
	}
	if d.Slots < 0 || d.Slots > mt.MaxSlots {
		return fmt.Errorf("demo: slots must be within 0..%d, got %d", mt.MaxSlots, d.Slots)
	}
	if d.MaxStep < 0 || d.Jitter < 0 {
		return fmt.Errorf("demo: max_step and jitter must not be negative")
	}
	if d.FrameIntervalMs < 0 || d.PauseMs < 0 {
		return fmt.Errorf("demo: intervals must not be negative")
	}
	if d.Gestures < 0 || d.Fingers < 0 {
		return fmt.Errorf("demo: gestures and fingers must not be negative")
	}

	for i, s := range d.Swipes {
		for _, p := range [][2]int32{s.From, s.To} {
			if p[0] < 0 || p[1] < 0 {
				return fmt.Errorf("demo: swipe %d: negative coordinate %v", i, p)
			}
			if (d.Width > 0 && p[0] >= d.Width) || (d.Height > 0 && p[1] >= d.Height) {
				return fmt.Errorf("demo: swipe %d: %v outside %dx%d", i, p, d.Width, d.Height)
			}
		}
	}

	return nil
}
