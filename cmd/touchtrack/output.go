package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/asaskevich/EventBus"

	"kuldippatel.dev/touchtrack/mt"
)

const frameTopic = "touch:frame"

// Frame is one synced tracker frame as published on the bus.
type Frame struct {
	Seq    uint64
	Events []mt.Event
}

// busSink collects events and publishes them frame by frame.
type busSink struct {
	bus     EventBus.BusPublisher
	seq     uint64
	pending []mt.Event
}

func newBusSink(bus EventBus.BusPublisher) *busSink {
	return &busSink{bus: bus}
}

func (s *busSink) Emit(ev mt.Event) {
	s.pending = append(s.pending, ev)
	if ev.IsSync() {
		s.seq++
		// subscribers own the published slice
		s.bus.Publish(frameTopic, Frame{Seq: s.seq, Events: s.pending})
		s.pending = nil
	}
}

func logFrame(f Frame) {
	parts := make([]string, 0, len(f.Events))
	for _, ev := range f.Events {
		if ev.IsSync() {
			continue
		}
		parts = append(parts, ev.String())
	}
	log.Printf("frame %d: %s", f.Seq, strings.Join(parts, ", "))
}

// traceSink prints every event, one frame per block.
type traceSink struct {
	w io.Writer
}

func newTraceSink(w io.Writer) *traceSink {
	return &traceSink{w: w}
}

func (s *traceSink) Emit(ev mt.Event) {
	fmt.Fprintf(s.w, "%s\n", ev)
	if ev.IsSync() {
		fmt.Fprintf(s.w, "-------------------------------------\n")
	}
}

// rawTrace dumps source events before tracking.
func rawTrace(w io.Writer) func(mt.Event) {
	return func(ev mt.Event) {
		fmt.Fprintf(w, "< %s\n", ev)
	}
}
