package mt

import (
	"fmt"
	"math"

	"kuldippatel.dev/touchtrack/internal/monitoring"
)

// Pos is a raw contact position.
type Pos struct {
	X int32
	Y int32
}

// AxisMask tells which optional Contact axes carry data.
type AxisMask uint8

const (
	HasPressure AxisMask = 1 << iota
	HasTouchMajor
	HasTouchMinor
	HasOrientation
)

// Contact is one unindexed detection in a frame.
type Contact struct {
	Pos
	Tool        int32
	Pressure    int32
	TouchMajor  int32
	TouchMinor  int32
	Orientation int32
	Axes        AxisMask
}

// noMatch marks a gated pair. Real costs saturate one below it.
const noMatch = math.MaxUint64

// sqDist is the squared distance between two positions, saturated at
// noMatch-1. Deltas of int32 coordinates reach 2^32-1 and their squares do
// not fit an int64.
func sqDist(ax, ay, bx, by int32) uint64 {
	dx := uint64(absDelta(ax, bx))
	dy := uint64(absDelta(ay, by))
	d := dx*dx + dy*dy
	if d < dx*dx || d >= noMatch {
		return noMatch - 1
	}
	return d
}

func absDelta(a, b int32) int64 {
	d := int64(a) - int64(b)
	if d < 0 {
		return -d
	}
	return d
}

func (m *MT) grow(n int) {
	rows := len(m.slots)
	if cap(m.cost) < rows*n {
		m.cost = make([]uint64, rows*n)
	}
	if cap(m.contactDone) < n {
		m.contactDone = make([]bool, n)
		m.pos = make([]Pos, n)
		m.bound = make([]int, n)
	}
}

// AssignSlots binds each position in pos to a slot and stores the result in
// slots, which must be at least as long as pos. Positions are matched to the
// active slots by repeatedly taking the closest remaining pair, lower slot
// and then lower position index first on ties. Pairs further apart than
// MaxDistance are never matched. Remaining positions take the lowest free
// slots in input order; those that find none get -1. Active slots left
// unmatched are not modified.
//
// It returns the number of bound positions.
func (m *MT) AssignSlots(slots []int, pos []Pos) (int, error) {
	if m.cfg.Flags&FlagTrack == 0 {
		return 0, ErrNotTracking
	}
	n := len(pos)
	if len(slots) < n {
		panic(fmt.Sprintf("mt: %d slot results for %d positions", len(slots), n))
	}
	for i := range slots[:n] {
		slots[i] = -1
	}
	if n == 0 {
		return 0, nil
	}
	if len(m.slots) == 1 {
		return m.assignSingle(slots, n), nil
	}
	m.grow(n)

	active := m.active[:0]
	for i := range m.slots {
		m.claimed[i] = false
		if m.slots[i].IsActive() {
			active = append(active, i)
		}
	}
	m.active = active

	gated := m.cfg.MaxDistance > 0
	gate := uint64(m.cfg.MaxDistance) * uint64(m.cfg.MaxDistance)
	cost := m.cost[:len(active)*n]
	for r, s := range active {
		sx := m.slots[s].Value(AbsMtPositionX)
		sy := m.slots[s].Value(AbsMtPositionY)
		for c, p := range pos {
			d := sqDist(sx, sy, p.X, p.Y)
			if gated && d > gate {
				d = noMatch
			}
			cost[r*n+c] = d
		}
	}

	rowDone := m.rowDone[:len(active)]
	for r := range rowDone {
		rowDone[r] = false
	}
	contactDone := m.contactDone[:n]
	for c := range contactDone {
		contactDone[c] = false
	}

	bound := 0
	for {
		best, br, bc := uint64(noMatch), -1, -1
		for r := range active {
			if rowDone[r] {
				continue
			}
			row := cost[r*n : (r+1)*n]
			for c, d := range row {
				if contactDone[c] || d == noMatch {
					continue
				}
				if best == noMatch || d < best {
					best, br, bc = d, r, c
				}
			}
		}
		if br < 0 {
			break
		}
		rowDone[br] = true
		contactDone[bc] = true
		slots[bc] = active[br]
		m.claimed[active[br]] = true
		bound++
	}

	free := 0
	dropped := 0
	for c := 0; c < n; c++ {
		if contactDone[c] {
			continue
		}
		for free < len(m.slots) && (m.slots[free].IsActive() || m.claimed[free]) {
			free++
		}
		if free == len(m.slots) {
			dropped++
			continue
		}
		slots[c] = free
		m.claimed[free] = true
		bound++
	}

	m.countDropped(dropped)
	return bound, nil
}

// assignSingle overwrites the only slot with the first position.
func (m *MT) assignSingle(slots []int, n int) int {
	slots[0] = 0
	m.countDropped(n - 1)
	return 1
}

func (m *MT) countDropped(dropped int) {
	if dropped == 0 {
		return
	}
	m.stats.DroppedContacts += uint64(dropped)
	monitoring.Logf("mt: frame %d: %d contacts dropped, all %d slots in use", m.frame, dropped, len(m.slots))
}

// ReportContacts assigns contacts to slots and writes each bound contact's
// state, position and optional axes. It returns the number of bound contacts.
func (m *MT) ReportContacts(contacts []Contact) (int, error) {
	if m.cfg.Flags&FlagTrack == 0 {
		return 0, ErrNotTracking
	}
	n := len(contacts)
	m.grow(n)
	pos := m.pos[:n]
	for i := range contacts {
		pos[i] = contacts[i].Pos
	}
	assigned := m.bound[:n]
	bound, err := m.AssignSlots(assigned, pos)
	if err != nil {
		return 0, err
	}

	for i, s := range assigned {
		if s < 0 {
			continue
		}
		c := &contacts[i]
		m.Slot(s)
		m.ReportSlotState(c.Tool, true)
		m.ReportAbs(AbsMtPositionX, c.X)
		m.ReportAbs(AbsMtPositionY, c.Y)
		if c.Axes&HasPressure != 0 {
			m.ReportAbs(AbsMtPressure, c.Pressure)
		}
		if c.Axes&HasTouchMajor != 0 {
			m.ReportAbs(AbsMtTouchMajor, c.TouchMajor)
		}
		if c.Axes&HasTouchMinor != 0 {
			m.ReportAbs(AbsMtTouchMinor, c.TouchMinor)
		}
		if c.Axes&HasOrientation != 0 {
			m.ReportAbs(AbsMtOrientation, c.Orientation)
		}
	}
	return bound, nil
}

// ProcessFrame reports one frame of unindexed contacts and synchronizes it.
func (m *MT) ProcessFrame(contacts []Contact) (int, error) {
	bound, err := m.ReportContacts(contacts)
	if err != nil {
		return 0, err
	}
	m.SyncFrame()
	return bound, nil
}
