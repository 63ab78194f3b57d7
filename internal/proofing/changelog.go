package proofing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

// ObjectStore is the blob-storage surface the change log needs.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key, contentType string, data []byte) error
}

var changeLogHeader = []string{"Record ID", "Header", "Original Text", "Proofed Text"}

// UpdateChangeLog merges new entries into the work order's CSV change log,
// dropping exact duplicate rows, and writes it back. Returns the object key.
func UpdateChangeLog(ctx context.Context, os ObjectStore, folder, filename string, entries []LogEntry) (string, error) {
	key := folder + "/" + filename + ".csv"

	var existing [][]string
	data, err := os.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load change log: %w", err)
	}
	if len(data) > 0 {
		reader := csv.NewReader(strings.NewReader(string(data)))
		reader.FieldsPerRecord = -1
		existing, err = reader.ReadAll()
		if err != nil {
			return "", fmt.Errorf("parse change log: %w", err)
		}
	}

	merged := make([][]string, 0, len(existing)+len(entries)+1)
	seen := make(map[string]struct{})
	add := func(row []string) {
		k := strings.Join(row, "\x1f")
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		merged = append(merged, row)
	}

	if len(existing) == 0 {
		merged = append(merged, changeLogHeader)
	} else {
		for _, row := range existing {
			add(row)
		}
	}
	for _, e := range entries {
		add([]string{e.RecordID, e.Header, e.Original, e.Proofed})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(merged); err != nil {
		return "", fmt.Errorf("write change log: %w", err)
	}
	if err := os.Put(ctx, key, "text/csv", buf.Bytes()); err != nil {
		return "", fmt.Errorf("store change log: %w", err)
	}
	return key, nil
}
