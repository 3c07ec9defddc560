package history

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/specs-group/kreiosd/internal/acquisition"
	"github.com/specs-group/kreiosd/internal/analyzer"
)

func TestStore_RecordAndList(t *testing.T) {
	t.Parallel()

	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	first := SessionRecord{
		ID:                  uuid.New(),
		RunMode:             analyzer.ModeFAT,
		IterationsRequested: 1,
		IterationsCompleted: 1,
		Shape:               analyzer.Shape{S: 21, V: 1, N: 1},
		StartedAt:           time.Now().Add(-time.Hour),
		EndedAt:             time.Now().Add(-time.Hour + time.Minute),
		FinalState:          acquisition.StateFinished,
		Message:             "finished",
	}
	second := first
	second.ID = uuid.New()
	second.StartedAt = time.Now()
	second.EndedAt = time.Now().Add(time.Minute)
	second.FinalState = acquisition.StateAborted
	second.Message = "user stop"

	if err := store.Record(first); err != nil {
		t.Fatalf("record first: %v", err)
	}
	if err := store.Record(second); err != nil {
		t.Fatalf("record second: %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].ID != second.ID {
		t.Errorf("records[0].ID = %v, want most recent %v", records[0].ID, second.ID)
	}
	if records[1].ID != first.ID {
		t.Errorf("records[1].ID = %v, want %v", records[1].ID, first.ID)
	}
}
