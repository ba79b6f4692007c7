// Package mt tracks multi-touch contacts in slots and turns them into a
// type-B event stream with single-touch emulation.
package mt

import "fmt"

// Slot holds the current ABS_MT axis values of one tracked contact.
type Slot struct {
	abs [AbsMtLast - AbsMtFirst + 1]int32
}

// Value returns the slot's value for an ABS_MT axis.
func (s *Slot) Value(code uint16) int32 {
	return s.abs[code-AbsMtFirst]
}

// IsActive reports whether the slot holds a contact.
func (s *Slot) IsActive() bool {
	return s.abs[AbsMtTrackingId-AbsMtFirst] >= 0
}

// Stats are diagnostic counters, never reset except by Reset.
type Stats struct {
	DroppedContacts uint64 // contacts that found no free slot
	LostContacts    uint64 // slots dropped by the frame synchronizer
}

// MT is the multi-touch state of one device. It is not safe for concurrent
// use; the caller serializes access.
type MT struct {
	cfg   Config
	sink  Sink
	state FrameState

	slots     []Slot
	slotFrame []uint64
	frame     uint64
	trkid     uint32
	cur       int

	out   emitted
	stats Stats

	// assignment scratch, reused across frames
	cost        []uint64
	active      []int
	rowDone     []bool
	contactDone []bool
	claimed     []bool
	pos         []Pos
	bound       []int
}

// New validates cfg and allocates the slot store. Events are written to sink;
// a nil sink discards them.
func New(cfg Config, sink Sink) (*MT, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = Discard
	}

	n := cfg.NumSlots
	m := &MT{
		cfg:       cfg,
		sink:      sink,
		slots:     make([]Slot, n),
		slotFrame: make([]uint64, n),
		claimed:   make([]bool, n),
		active:    make([]int, 0, n),
		rowDone:   make([]bool, n),
	}
	if cfg.Flags&FlagTrack != 0 {
		m.grow(n)
	}
	m.reset()
	return m, nil
}

// Reset returns the tracker to its freshly initialized state. Contacts still
// active are lifted and every slot axis goes back to zero in one final frame,
// so consumers replaying the stream end up with the same empty slots.
func (m *MT) Reset() {
	for i := range m.slots {
		if m.slots[i].IsActive() {
			m.Set(i, AbsMtTrackingId, InactiveID)
		}
		for code := uint16(AbsMtFirst); code <= AbsMtLast; code++ {
			if code != AbsMtTrackingId && m.slots[i].Value(code) != 0 {
				m.Set(i, code, 0)
			}
		}
	}
	// accumulating: a frame was open or the loop above wrote
	if m.state == Accumulating {
		m.reportPointerEmulation(m.cfg.Flags&FlagPointer != 0)
		m.sink.Emit(Event{Type: EvSyn, Code: SynReport})
	}
	m.reset()
}

// reset clears the store without emitting. The emitted mirror is kept: it
// tracks what consumers have seen, not the store.
func (m *MT) reset() {
	for i := range m.slots {
		m.slots[i] = Slot{}
		m.slots[i].abs[AbsMtTrackingId-AbsMtFirst] = InactiveID
		m.slotFrame[i] = 0
	}
	m.frame = 1
	m.trkid = 0
	m.cur = 0
	m.state = Synced
	m.stats = Stats{}
}

// Config returns the configuration the tracker was built with.
func (m *MT) Config() Config { return m.cfg }

// NumSlots returns the number of slots in the store.
func (m *MT) NumSlots() int { return len(m.slots) }

// Stats returns the diagnostic counters.
func (m *MT) Stats() Stats { return m.stats }

func (m *MT) check(slot int) {
	if slot < 0 || slot >= len(m.slots) {
		panic(fmt.Sprintf("mt: slot %d out of range [0, %d)", slot, len(m.slots)))
	}
}

func checkAxis(code uint16) {
	if !IsMtAxis(code) {
		panic(fmt.Sprintf("mt: axis 0x%02x is not an ABS_MT axis", code))
	}
}

// Get returns the value of axis code in slot.
func (m *MT) Get(slot int, code uint16) int32 {
	m.check(slot)
	checkAxis(code)
	return m.slots[slot].Value(code)
}

// Set writes axis code of slot, marks the slot as seen in the current frame
// and emits the change. Writing InactiveID to ABS_MT_TRACKING_ID ends the
// contact; writing a non-negative id starts one.
func (m *MT) Set(slot int, code uint16, value int32) {
	m.check(slot)
	checkAxis(code)

	m.slotFrame[slot] = m.frame
	m.state = Accumulating

	p := &m.slots[slot].abs[code-AbsMtFirst]
	if *p == value {
		return
	}
	*p = value
	m.emitMt(slot, code, value)
}

// IsActive reports whether slot holds a contact.
func (m *MT) IsActive(slot int) bool {
	m.check(slot)
	return m.slots[slot].IsActive()
}

// SlotState returns a copy of slot.
func (m *MT) SlotState(slot int) Slot {
	m.check(slot)
	return m.slots[slot]
}

// Slot selects the slot subsequent Report calls write to.
func (m *MT) Slot(slot int) {
	m.check(slot)
	m.cur = slot
}

// ReportAbs writes an axis of the selected slot.
func (m *MT) ReportAbs(code uint16, value int32) {
	m.Set(m.cur, code, value)
}

// ReportSlotState marks the selected slot active or inactive. A slot going
// active receives a fresh tracking id; an active slot keeps its id.
func (m *MT) ReportSlotState(tool int32, active bool) {
	if !active {
		m.Set(m.cur, AbsMtTrackingId, InactiveID)
		return
	}
	if !m.slots[m.cur].IsActive() {
		m.Set(m.cur, AbsMtTrackingId, m.NewTrackingID())
	}
	m.Set(m.cur, AbsMtToolType, tool)
}

// ReportSlotID sets a caller-supplied tracking id on the selected slot, for
// hardware that tracks contacts itself. A negative id ends the contact.
func (m *MT) ReportSlotID(id int32) error {
	if m.cfg.Flags&FlagTrack != 0 {
		return ErrTrackingManaged
	}
	if id < 0 {
		id = InactiveID
	}
	m.Set(m.cur, AbsMtTrackingId, id)
	return nil
}
