package sim

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestReplayLog_FeedsRowsToWriter(t *testing.T) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	for tick := 1; tick <= 3; tick++ {
		if err := enc.Encode(sampleRow(tick)); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	writer := &MockWriter{}
	if err := ReplayLog(strings.NewReader(sb.String()), writer, 0); err != nil {
		t.Fatalf("ReplayLog: %v", err)
	}
	if len(writer.Rows) != 3 {
		t.Fatalf("replayed %d rows, want 3", len(writer.Rows))
	}
	for i, row := range writer.Rows {
		if row.Tick != i+1 {
			t.Errorf("row %d has tick %d, want %d", i, row.Tick, i+1)
		}
	}
}

func TestReplayLog_BadInput(t *testing.T) {
	writer := &MockWriter{}
	if err := ReplayLog(strings.NewReader("not json"), writer, 0); err == nil {
		t.Error("expected error for malformed log")
	}
}
