// Package evdev reads Linux touch devices and writes tracked contacts to a
// uinput device.
package evdev

import (
	"errors"
	"fmt"
	"io"

	"kuldippatel.dev/touchtrack/internal/monitoring"
	"kuldippatel.dev/touchtrack/mt"
)

// Protocol is the multi-touch protocol a device speaks.
type Protocol int

const (
	// TypeA devices send anonymous contacts separated by SYN_MT_REPORT.
	TypeA Protocol = iota
	// TypeB devices address contacts by ABS_MT_SLOT and track them themselves.
	TypeB
)

func (p Protocol) String() string {
	if p == TypeB {
		return "type-B"
	}
	return "type-A"
}

// Reader turns a raw input_event stream into tracker input.
type Reader struct {
	dec *mt.Decoder

	// Trace, if set, sees every raw event read.
	Trace func(ev mt.Event)

	// Resync, if set, reloads every slot of m from the device after a
	// SYN_DROPPED and returns the device's current slot. Without it the
	// tracker stays stale until the device resends the lost axes.
	Resync func(m *mt.MT) (int, error)

	dropping bool
	contacts []mt.Contact
	cur      mt.Contact
	touched  bool
	slot     int
	warned   bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: mt.NewDecoder(r)}
}

func (r *Reader) next() (mt.Event, error) {
	ev, _, err := r.dec.Decode()
	if err != nil {
		return mt.Event{}, err
	}
	if r.Trace != nil {
		r.Trace(ev)
	}
	return ev, nil
}

// ReadContacts reads one type-A frame and returns its contacts. The returned
// slice is reused by the next call. Frames cut by SYN_DROPPED are skipped.
func (r *Reader) ReadContacts() ([]mt.Contact, error) {
	r.contacts = r.contacts[:0]
	r.resetContact()

	for {
		ev, err := r.next()
		if err != nil {
			return nil, err
		}

		switch ev.Type {
		case mt.EvSyn:
			switch ev.Code {
			case mt.SynDropped:
				r.dropping = true
			case mt.SynMtReport:
				if !r.dropping && r.touched {
					r.contacts = append(r.contacts, r.cur)
				}
				r.resetContact()
			case mt.SynReport:
				if r.dropping {
					r.dropping = false
					r.contacts = r.contacts[:0]
					r.resetContact()
					continue
				}
				if r.touched {
					// last contact without its SYN_MT_REPORT
					r.contacts = append(r.contacts, r.cur)
					r.resetContact()
				}
				return r.contacts, nil
			}
		case mt.EvAbs:
			r.absA(ev)
		}
	}
}

func (r *Reader) resetContact() {
	r.cur = mt.Contact{}
	r.touched = false
}

func (r *Reader) absA(ev mt.Event) {
	c := &r.cur
	switch ev.Code {
	case mt.AbsMtPositionX:
		c.X = ev.Value
	case mt.AbsMtPositionY:
		c.Y = ev.Value
	case mt.AbsMtPressure:
		c.Pressure = ev.Value
		c.Axes |= mt.HasPressure
	case mt.AbsMtTouchMajor:
		c.TouchMajor = ev.Value
		c.Axes |= mt.HasTouchMajor
	case mt.AbsMtTouchMinor:
		c.TouchMinor = ev.Value
		c.Axes |= mt.HasTouchMinor
	case mt.AbsMtOrientation:
		c.Orientation = ev.Value
		c.Axes |= mt.HasOrientation
	case mt.AbsMtToolType:
		c.Tool = ev.Value
	default:
		return
	}
	r.touched = true
}

// ReadSlots reads one type-B frame, replays its slot updates into m with the
// hardware's own tracking ids and synchronizes m. Slots beyond m's range
// are ignored.
func (r *Reader) ReadSlots(m *mt.MT) error {
	if m.Config().Flags&mt.FlagTrack != 0 {
		return fmt.Errorf("evdev: type-B replay: %w", mt.ErrTrackingManaged)
	}

	for {
		ev, err := r.next()
		if err != nil {
			return err
		}

		switch ev.Type {
		case mt.EvSyn:
			switch ev.Code {
			case mt.SynDropped:
				r.dropping = true
			case mt.SynReport:
				if r.dropping {
					r.dropping = false
					if r.Resync == nil {
						continue
					}
					slot, err := r.Resync(m)
					if err != nil {
						return fmt.Errorf("evdev: resync: %w", err)
					}
					r.slot = slot
				}
				m.SyncFrame()
				return nil
			}
		case mt.EvAbs:
			if r.dropping {
				continue
			}
			if ev.Code == mt.AbsMtSlot {
				r.slot = int(ev.Value)
				continue
			}
			if !mt.IsMtAxis(ev.Code) {
				continue
			}
			if r.slot < 0 || r.slot >= m.NumSlots() {
				if !r.warned {
					r.warned = true
					monitoring.Logf("evdev: ignoring slot %d, tracker has %d slots", r.slot, m.NumSlots())
				}
				continue
			}
			m.Slot(r.slot)
			if ev.Code == mt.AbsMtTrackingId {
				if err := m.ReportSlotID(ev.Value); err != nil {
					return err
				}
				continue
			}
			m.ReportAbs(ev.Code, ev.Value)
		}
	}
}

// IsClosed reports whether err means the event source went away.
func IsClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func hasBit(bits []byte, key int) bool {
	return bits[key/8]&(1<<uint(key%8)) != 0
}
