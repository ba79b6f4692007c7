// internal/config/normalize.go
package config

import "strings"

// Demo defaults follow a common 1080x2340 phone panel.
const (
	defaultDemoWidth   = 1080
	defaultDemoHeight  = 2340
	defaultDemoSlots   = 10
	defaultDemoStep    = 10
	defaultDemoFrameMs = 8
	defaultDemoPauseMs = 3000
)

// DefaultSwipes are the vertical and diagonal swipes run when a demo lists none.
var DefaultSwipes = []SwipeConfig{
	{From: [2]int32{746, 1064}, To: [2]int32{746, 1408}},
	{From: [2]int32{400, 1064}, To: [2]int32{746, 1408}},
	{From: [2]int32{746, 1408}, To: [2]int32{746, 1064}},
	{From: [2]int32{746, 1408}, To: [2]int32{400, 1064}},
}

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	t := &cfg.Touchtrack

	t.Output.Mode = normMode(t.Output.Mode)
	if t.Output.Mode == "" {
		if t.Demo != nil {
			t.Output.Mode = OutputTrace
		} else {
			t.Output.Mode = OutputUinput
		}
	}

	d := t.Demo
	if d == nil {
		return
	}
	if d.Width == 0 {
		d.Width = defaultDemoWidth
	}
	if d.Height == 0 {
		d.Height = defaultDemoHeight
	}
	if d.Slots == 0 {
		d.Slots = defaultDemoSlots
		if t.Tracker.Slots > 0 {
			d.Slots = t.Tracker.Slots
		}
	}
	if d.MaxStep == 0 {
		d.MaxStep = defaultDemoStep
	}
	if d.FrameIntervalMs == 0 {
		d.FrameIntervalMs = defaultDemoFrameMs
	}
	if d.PauseMs == 0 {
		d.PauseMs = defaultDemoPauseMs
	}
	if len(d.Swipes) == 0 && d.Gestures == 0 {
		d.Swipes = append([]SwipeConfig(nil), DefaultSwipes...)
	}
	if d.Gestures > 0 && d.Fingers == 0 {
		d.Fingers = 2
	}
}

func normMode(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
