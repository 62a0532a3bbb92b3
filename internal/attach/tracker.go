package attach

// MigrationEvent records a serving-cell change for one terminal at one tick.
// FromCell or ToCell may be NoCell for transitions out of or into the
// unattached state.
type MigrationEvent struct {
	TerminalID string
	FromCell   string
	ToCell     string
	Tick       int
}

// Tracker remembers each terminal's previously resolved cell and detects
// migrations. A terminal with no record yet is treated as unattached, so the
// first successful resolution emits a MigrationEvent from NoCell.
type Tracker struct {
	records map[string]string
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{records: make(map[string]string)}
}

// Update stores the resolved cell for the terminal and reports whether that
// changed the attachment record. The returned event is only valid when the
// second return value is true.
func (t *Tracker) Update(terminalID, resolvedCell string, tick int) (MigrationEvent, bool) {
	prev := t.records[terminalID]
	t.records[terminalID] = resolvedCell
	if prev == resolvedCell {
		return MigrationEvent{}, false
	}
	return MigrationEvent{
		TerminalID: terminalID,
		FromCell:   prev,
		ToCell:     resolvedCell,
		Tick:       tick,
	}, true
}

// Record returns the stored serving cell for a terminal, NoCell if none.
func (t *Tracker) Record(terminalID string) string {
	return t.records[terminalID]
}

// Records returns a copy of the full attachment map.
func (t *Tracker) Records() map[string]string {
	out := make(map[string]string, len(t.records))
	for k, v := range t.records {
		out[k] = v
	}
	return out
}

// Reset clears all attachment records, as if no tick had run.
func (t *Tracker) Reset() {
	t.records = make(map[string]string)
}
