package mt

// NewTrackingID returns the next tracking id in [0, TrkIDMax]. The counter
// wraps; ids still held by long-lived contacts are not skipped.
func (m *MT) NewTrackingID() int32 {
	id := int32(m.trkid & TrkIDMax)
	m.trkid++
	return id
}
