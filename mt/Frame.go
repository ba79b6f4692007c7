package mt

// FrameState is the synchronizer state.
type FrameState int

const (
	// Synced means no slot has been written since the last SyncFrame.
	Synced FrameState = iota
	// Accumulating means slots are being written for the current frame.
	Accumulating
)

func (s FrameState) String() string {
	switch s {
	case Synced:
		return "synced"
	case Accumulating:
		return "accumulating"
	}
	return "unknown"
}

// Frame returns the number of the frame currently being accumulated.
func (m *MT) Frame() uint64 { return m.frame }

// State returns the synchronizer state.
func (m *MT) State() FrameState { return m.state }

// DropUnused ends every active contact whose slot was not written during the
// current frame and returns how many were dropped.
func (m *MT) DropUnused() int {
	dropped := 0
	for i := range m.slots {
		if !m.slots[i].IsActive() || m.slotFrame[i] == m.frame {
			continue
		}
		m.Set(i, AbsMtTrackingId, InactiveID)
		dropped++
	}
	m.stats.LostContacts += uint64(dropped)
	return dropped
}

// SyncFrame closes the current frame: stale slots are dropped when
// FlagDropUnused is set, the pointer emulation is reported and SYN_REPORT is
// emitted. A second call without slot writes in between drops every contact.
func (m *MT) SyncFrame() {
	if m.cfg.Flags&FlagDropUnused != 0 {
		m.DropUnused()
	}
	m.reportPointerEmulation(m.cfg.Flags&FlagPointer != 0)
	m.sink.Emit(Event{Type: EvSyn, Code: SynReport})

	m.frame++
	m.state = Synced
}
