package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuldippatel.dev/touchtrack/internal/config"
	"kuldippatel.dev/touchtrack/mt"
)

func TestBusSinkPublishesFrames(t *testing.T) {
	t.Parallel()

	bus := EventBus.New()
	var got []Frame
	require.NoError(t, bus.Subscribe(frameTopic, func(f Frame) { got = append(got, f) }))

	m, err := mt.New(mt.DefaultConfig(2), newBusSink(bus))
	require.NoError(t, err)

	_, err = m.ProcessFrame([]mt.Contact{{Pos: mt.Pos{X: 4, Y: 5}}})
	require.NoError(t, err)
	_, err = m.ProcessFrame(nil)
	require.NoError(t, err)

	want := []Frame{
		{Seq: 1, Events: []mt.Event{
			{Type: mt.EvAbs, Code: mt.AbsMtTrackingId, Value: 0},
			{Type: mt.EvAbs, Code: mt.AbsMtPositionX, Value: 4},
			{Type: mt.EvAbs, Code: mt.AbsMtPositionY, Value: 5},
			{Type: mt.EvKey, Code: mt.BtnTouch, Value: 1},
			{Type: mt.EvAbs, Code: mt.AbsX, Value: 4},
			{Type: mt.EvAbs, Code: mt.AbsY, Value: 5},
			{Type: mt.EvSyn, Code: mt.SynReport},
		}},
		{Seq: 2, Events: []mt.Event{
			{Type: mt.EvAbs, Code: mt.AbsMtTrackingId, Value: -1},
			{Type: mt.EvKey, Code: mt.BtnTouch, Value: 0},
			{Type: mt.EvSyn, Code: mt.SynReport},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("published frames mismatch (-want +got):\n%s", diff)
	}
}

func TestTraceSink(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := newTraceSink(&out)
	s.Emit(mt.Event{Type: mt.EvAbs, Code: mt.AbsMtPositionX, Value: 12})
	s.Emit(mt.Event{Type: mt.EvSyn, Code: mt.SynReport})

	assert.Equal(t, "EV_ABS ABS_MT_POSITION_X 12\nEV_SYN SYN_REPORT 0\n-------------------------------------\n", out.String())

	out.Reset()
	rawTrace(&out)(mt.Event{Type: mt.EvKey, Code: mt.BtnTouch, Value: 1})
	assert.Equal(t, "< EV_KEY BTN_TOUCH 1\n", out.String())
}

func demoConfig(d config.DemoConfig) *config.DemoConfig {
	cfg := &config.Config{Touchtrack: config.TouchtrackConfig{Demo: &d}}
	config.Normalize(cfg)
	return cfg.Touchtrack.Demo
}

func TestDemoFrames(t *testing.T) {
	t.Parallel()

	d := demoConfig(config.DemoConfig{
		MaxStep: 50,
		Swipes:  []config.SwipeConfig{{From: [2]int32{0, 0}, To: [2]int32{0, 100}}},
	})
	gestures := demoFrames(d)
	require.Len(t, gestures, 1)

	frames := gestures[0]
	require.Len(t, frames, 4)
	assert.Equal(t, mt.Pos{X: 0, Y: 0}, frames[0][0].Pos)
	assert.Equal(t, mt.Pos{X: 0, Y: 100}, frames[2][0].Pos)
	assert.Empty(t, frames[3], "gesture ends with all fingers up")

	rnd := demoConfig(config.DemoConfig{Gestures: 2, Fingers: 3, Seed: 7})
	a, b := demoFrames(rnd), demoFrames(rnd)
	require.Len(t, a, 2)
	assert.Equal(t, a, b, "same seed, same gestures")
}

func TestRunDemo(t *testing.T) {
	t.Parallel()

	d := demoConfig(config.DemoConfig{
		FrameIntervalMs: 1,
		PauseMs:         1,
		MaxStep:         500,
	})
	buf := &mt.Buffer{}
	m, err := mt.New(d.TrackerConfig(config.TrackerConfig{}), buf)
	require.NoError(t, err)

	require.NoError(t, runDemo(context.Background(), d, m))

	var want int
	for _, g := range demoFrames(d) {
		want += len(g)
	}
	assert.Len(t, buf.Frames(), want)
	assert.Equal(t, 0, m.FingerCount())
	assert.Zero(t, m.Stats().DroppedContacts)
}

func TestRunDemoCanceled(t *testing.T) {
	t.Parallel()

	d := demoConfig(config.DemoConfig{FrameIntervalMs: 1})
	m, err := mt.New(d.TrackerConfig(config.TrackerConfig{}), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, runDemo(ctx, d, m), context.Canceled)
}

func TestRunFlushesBusBeforeReturning(t *testing.T) {
	// not parallel: captures the standard logger
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	tt := config.TouchtrackConfig{
		Output: config.OutputConfig{Mode: config.OutputBus},
		Demo: demoConfig(config.DemoConfig{
			FrameIntervalMs: 1,
			MaxStep:         50,
			Swipes:          []config.SwipeConfig{{From: [2]int32{0, 0}, To: [2]int32{0, 100}}},
		}),
	}
	require.NoError(t, run(context.Background(), tt, &bytes.Buffer{}))

	out := logs.String()
	for seq := 1; seq <= 4; seq++ {
		assert.Contains(t, out, fmt.Sprintf("frame %d:", seq))
	}
	assert.Contains(t, out, "touchtrack: 4 frames, 0 dropped contacts, 0 lost contacts")
}

func TestRunTrace(t *testing.T) {
	t.Parallel()

	tt := config.TouchtrackConfig{
		Output: config.OutputConfig{Mode: config.OutputTrace},
		Demo: demoConfig(config.DemoConfig{
			FrameIntervalMs: 1,
			MaxStep:         50,
			Swipes:          []config.SwipeConfig{{From: [2]int32{0, 0}, To: [2]int32{0, 100}}},
		}),
	}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), tt, &out))
	assert.Equal(t, 4, strings.Count(out.String(), "EV_SYN SYN_REPORT 0\n"))
}

func TestRunReturnsErrors(t *testing.T) {
	t.Parallel()

	tt := config.TouchtrackConfig{
		Device: config.DeviceConfig{Path: "/nonexistent/event0"},
		Output: config.OutputConfig{Mode: config.OutputTrace},
	}
	assert.Error(t, run(context.Background(), tt, &bytes.Buffer{}))
}

func TestRunCanceledIsClean(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tt := config.TouchtrackConfig{
		Output: config.OutputConfig{Mode: config.OutputTrace},
		Demo:   demoConfig(config.DemoConfig{FrameIntervalMs: 1}),
	}
	assert.NoError(t, run(ctx, tt, &bytes.Buffer{}))
}
