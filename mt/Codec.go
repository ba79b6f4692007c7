package mt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/lunixbochs/struc"
)

// EventSize is the size of a struct input_event on 64-bit Linux.
const EventSize = 24

// inputEvent is the wire layout of struct input_event.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

var wireOptions = &struc.Options{Order: binary.LittleEndian}

// Encoder writes events as input_event records. It is a Sink; the first
// write error stops further output and is kept for Err.
type Encoder struct {
	w   io.Writer
	now func() time.Time
	buf bytes.Buffer
	err error
}

// NewEncoder returns an Encoder stamping events with the wall clock.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, now: time.Now}
}

// Encode writes one event.
func (e *Encoder) Encode(ev Event) error {
	t := e.now()
	e.buf.Reset()
	err := struc.PackWithOptions(&e.buf, &inputEvent{
		Sec:   t.Unix(),
		Usec:  int64(t.Nanosecond() / 1000),
		Type:  ev.Type,
		Code:  ev.Code,
		Value: ev.Value,
	}, wireOptions)
	if err != nil {
		return fmt.Errorf("pack input_event: %w", err)
	}
	if _, err := e.w.Write(e.buf.Bytes()); err != nil {
		return fmt.Errorf("write input_event: %w", err)
	}
	return nil
}

func (e *Encoder) Emit(ev Event) {
	if e.err != nil {
		return
	}
	e.err = e.Encode(ev)
}

// Err returns the first error met by Emit.
func (e *Encoder) Err() error { return e.err }

// Decoder reads input_event records. Every record is read with a single
// Read of EventSize bytes, as evdev character devices require.
type Decoder struct {
	r   io.Reader
	buf [EventSize]byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads the next event and its timestamp.
func (d *Decoder) Decode() (Event, time.Time, error) {
	if _, err := io.ReadFull(d.r, d.buf[:]); err != nil {
		return Event{}, time.Time{}, err
	}
	var raw inputEvent
	if err := struc.UnpackWithOptions(bytes.NewReader(d.buf[:]), &raw, wireOptions); err != nil {
		return Event{}, time.Time{}, fmt.Errorf("unpack input_event: %w", err)
	}
	ev := Event{Type: raw.Type, Code: raw.Code, Value: raw.Value}
	return ev, time.Unix(raw.Sec, raw.Usec*1000), nil
}
