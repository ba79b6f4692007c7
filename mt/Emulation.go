package mt

// FingerCount returns the number of active slots.
func (m *MT) FingerCount() int {
	count := 0
	for i := range m.slots {
		if m.slots[i].IsActive() {
			count++
		}
	}
	return count
}

// PointerSlot returns the lowest-indexed active slot, or -1 when there is no
// contact. Single-touch consumers follow this slot.
func (m *MT) PointerSlot() int {
	for i := range m.slots {
		if m.slots[i].IsActive() {
			return i
		}
	}
	return -1
}

// reportFingerCount emits the BTN_TOOL_* key matching count. Counts above
// five keep BTN_TOOL_QUINTTAP down.
func (m *MT) reportFingerCount(count int) {
	m.emitKey(BtnToolFinger, count == 1)
	m.emitKey(BtnToolDoubleTap, count == 2)
	m.emitKey(BtnToolTripleTap, count == 3)
	m.emitKey(BtnToolQuadTap, count == 4)
	m.emitKey(BtnToolQuintTap, count >= 5)
}

// reportPointerEmulation derives the single-touch view from the store.
func (m *MT) reportPointerEmulation(useCount bool) {
	count := m.FingerCount()
	m.emitKey(BtnTouch, count > 0)
	if useCount {
		m.reportFingerCount(count)
	}

	s := m.PointerSlot()
	if s < 0 {
		if m.cfg.Pressure {
			m.emitAbs(AbsPressure, 0)
		}
		return
	}
	slot := &m.slots[s]
	m.emitAbs(AbsX, slot.Value(AbsMtPositionX))
	m.emitAbs(AbsY, slot.Value(AbsMtPositionY))
	if m.cfg.Pressure {
		m.emitAbs(AbsPressure, slot.Value(AbsMtPressure))
	}
}
