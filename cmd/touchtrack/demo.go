package main

import (
	"context"
	"math/rand"
	"time"

	"kuldippatel.dev/touchtrack/internal/config"
	"kuldippatel.dev/touchtrack/internal/sim"
	"kuldippatel.dev/touchtrack/mt"
)

// demoFrames expands the demo's swipes and random gestures into contact
// frames. Every gesture ends with an empty frame, lifting all fingers.
func demoFrames(d *config.DemoConfig) [][][]mt.Contact {
	var gestures [][][]mt.Contact

	for _, s := range d.Swipes {
		path := sim.Swipe(mt.Pos{X: s.From[0], Y: s.From[1]}, mt.Pos{X: s.To[0], Y: s.To[1]}, d.MaxStep)
		frames := make([][]mt.Contact, 0, len(path)+1)
		for _, p := range path {
			frames = append(frames, []mt.Contact{{Pos: p, Tool: mt.ToolFinger}})
		}
		gestures = append(gestures, append(frames, nil))
	}

	rng := rand.New(rand.NewSource(d.Seed))
	for i := 0; i < d.Gestures; i++ {
		g := sim.RandomGesture(rng, d.Fingers, d.Width, d.Height, d.MaxStep, d.Jitter)
		gestures = append(gestures, append(g.Frames(rng), nil))
	}
	return gestures
}

// runDemo plays synthetic gestures through m, one frame per tick with a
// pause between gestures.
func runDemo(ctx context.Context, d *config.DemoConfig, m *mt.MT) error {
	tick := time.NewTicker(time.Duration(d.FrameIntervalMs) * time.Millisecond)
	defer tick.Stop()
	pause := time.Duration(d.PauseMs) * time.Millisecond

	for i, frames := range demoFrames(d) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pause):
			}
		}
		for _, contacts := range frames {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick.C:
			}
			if _, err := m.ProcessFrame(contacts); err != nil {
				return err
			}
		}
	}
	return nil
}
