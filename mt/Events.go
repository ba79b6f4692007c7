package mt

import "fmt"

// Event is one input event as seen by the event dispatch layer.
type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

func (ev Event) String() string {
	var names map[uint16]string
	typ := fmt.Sprintf("EV_0x%02x", ev.Type)
	switch ev.Type {
	case EvSyn:
		typ, names = "EV_SYN", synNames
	case EvKey:
		typ, names = "EV_KEY", keyNames
	case EvAbs:
		typ, names = "EV_ABS", absNames
	}
	code, ok := names[ev.Code]
	if !ok {
		code = fmt.Sprintf("0x%03x", ev.Code)
	}
	return fmt.Sprintf("%s %s %d", typ, code, ev.Value)
}

// IsSync reports whether ev is the SYN_REPORT that ends a frame.
func (ev Event) IsSync() bool {
	return ev.Type == EvSyn && ev.Code == SynReport
}

// Sink consumes the normalized event stream.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Buffer collects events in memory.
type Buffer struct {
	Events []Event
}

func (b *Buffer) Emit(ev Event) { b.Events = append(b.Events, ev) }

// Reset empties the buffer, keeping its storage.
func (b *Buffer) Reset() { b.Events = b.Events[:0] }

// Frames splits the buffered events at each SYN_REPORT. A trailing partial
// frame is left out.
func (b *Buffer) Frames() [][]Event {
	var frames [][]Event
	start := 0
	for i, ev := range b.Events {
		if ev.IsSync() {
			frames = append(frames, b.Events[start:i+1])
			start = i + 1
		}
	}
	return frames
}

// emulated codes whose last emitted value is remembered
var emuKeys = [...]uint16{BtnTouch, BtnToolFinger, BtnToolDoubleTap, BtnToolTripleTap, BtnToolQuadTap, BtnToolQuintTap}
var emuAbs = [...]uint16{AbsX, AbsY, AbsPressure}

// emitted mirrors what consumers have seen so far.
type emitted struct {
	slot int
	keys [len(emuKeys)]int32
	abs  [len(emuAbs)]int32
}

func (m *MT) emitMt(slot int, code uint16, value int32) {
	if slot != m.out.slot {
		m.out.slot = slot
		m.sink.Emit(Event{Type: EvAbs, Code: AbsMtSlot, Value: int32(slot)})
	}
	m.sink.Emit(Event{Type: EvAbs, Code: code, Value: value})
}

func (m *MT) emitKey(code uint16, down bool) {
	var v int32
	if down {
		v = 1
	}
	for i, c := range emuKeys {
		if c != code {
			continue
		}
		if m.out.keys[i] != v {
			m.out.keys[i] = v
			m.sink.Emit(Event{Type: EvKey, Code: code, Value: v})
		}
		return
	}
}

func (m *MT) emitAbs(code uint16, v int32) {
	for i, c := range emuAbs {
		if c != code {
			continue
		}
		if m.out.abs[i] != v {
			m.out.abs[i] = v
			m.sink.Emit(Event{Type: EvAbs, Code: code, Value: v})
		}
		return
	}
}
