package proofing

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
)

// memStore is an in-memory ObjectStore for change-log tests.
type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: make(map[string][]byte)} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	return m.objects[key], nil
}

func (m *memStore) Put(_ context.Context, key, _ string, data []byte) error {
	m.objects[key] = data
	return nil
}

func readLog(t *testing.T, store *memStore, key string) [][]string {
	t.Helper()
	data, ok := store.objects[key]
	if !ok {
		t.Fatalf("change log %q not written", key)
	}
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse change log: %v", err)
	}
	return rows
}

func TestUpdateChangeLog_NewFile(t *testing.T) {
	store := newMemStore()
	key, err := UpdateChangeLog(context.Background(), store, "logs", "WO-1_logs", []LogEntry{
		{RecordID: "a1", Header: "Observation", Original: "teh door", Proofed: "the door"},
	})
	if err != nil {
		t.Fatalf("UpdateChangeLog: %v", err)
	}
	if key != "logs/WO-1_logs.csv" {
		t.Fatalf("key = %q", key)
	}

	rows := readLog(t, store, key)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1 entry", len(rows))
	}
	wantHeader := []string{"Record ID", "Header", "Original Text", "Proofed Text"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Fatalf("header = %v", rows[0])
		}
	}
	if rows[1][0] != "a1" || rows[1][3] != "the door" {
		t.Errorf("entry row = %v", rows[1])
	}
}

func TestUpdateChangeLog_MergesAndDedupes(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	first := []LogEntry{{RecordID: "a1", Header: "Observation", Original: "teh", Proofed: "the"}}
	if _, err := UpdateChangeLog(ctx, store, "logs", "WO-1_logs", first); err != nil {
		t.Fatalf("first write: %v", err)
	}

	// Second batch repeats the first entry and adds a new one.
	second := []LogEntry{
		{RecordID: "a1", Header: "Observation", Original: "teh", Proofed: "the"},
		{RecordID: "b2", Header: "Action Required", Original: "fix it", Proofed: "Fix it."},
	}
	key, err := UpdateChangeLog(ctx, store, "logs", "WO-1_logs", second)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}

	rows := readLog(t, store, key)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 distinct entries: %v", len(rows), rows)
	}
	if rows[1][0] != "a1" || rows[2][0] != "b2" {
		t.Errorf("merged order = %v", rows)
	}
}

func TestUpdateChangeLog_PreservesCommasAndNewlines(t *testing.T) {
	store := newMemStore()
	entry := LogEntry{
		RecordID: "a1",
		Header:   "Observation",
		Original: "first line\nsecond, with comma",
		Proofed:  "corrected",
	}
	key, err := UpdateChangeLog(context.Background(), store, "logs", "WO-2_logs", []LogEntry{entry})
	if err != nil {
		t.Fatalf("UpdateChangeLog: %v", err)
	}
	rows := readLog(t, store, key)
	if rows[1][2] != entry.Original {
		t.Fatalf("original column = %q, want %q", rows[1][2], entry.Original)
	}
}
