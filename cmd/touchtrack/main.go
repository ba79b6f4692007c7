// cmd/touchtrack/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"

	"kuldippatel.dev/touchtrack/internal/config"
	"kuldippatel.dev/touchtrack/internal/monitoring"
	"kuldippatel.dev/touchtrack/mt"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: touchtrack <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)
	tt := cfg.Touchtrack

	if tt.Tracker.Quiet {
		monitoring.SetLogger(nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, tt, os.Stdout)
	stop()
	if err != nil {
		log.Fatalf("touchtrack: %v", err)
	}
}

// run tracks the configured input until it ends or ctx is done. Output still
// queued on the bus is flushed before it returns.
func run(ctx context.Context, tt config.TouchtrackConfig, stdout io.Writer) error {
	// --------------------
	// Output
	// --------------------

	var sink mt.Sink
	switch tt.Output.Mode {
	case config.OutputBus:
		bus := EventBus.New()
		if err := bus.SubscribeAsync(frameTopic, logFrame, true); err != nil {
			return fmt.Errorf("bus subscribe: %w", err)
		}
		defer bus.WaitAsync()
		sink = newBusSink(bus)
	case config.OutputTrace:
		sink = newTraceSink(stdout)
	}

	// --------------------
	// Run
	// --------------------

	var err error
	if tt.Demo != nil {
		var m *mt.MT
		m, err = mt.New(tt.Demo.TrackerConfig(tt.Tracker), sink)
		if err != nil {
			return fmt.Errorf("tracker setup: %w", err)
		}
		err = runDemo(ctx, tt.Demo, m)
		report(m)
	} else {
		err = runDevice(ctx, tt, sink)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func report(m *mt.MT) {
	st := m.Stats()
	log.Printf("touchtrack: %d frames, %d dropped contacts, %d lost contacts",
		m.Frame()-1, st.DroppedContacts, st.LostContacts)
}
