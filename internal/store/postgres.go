// Package store persists proofing run metadata in Postgres.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one completed (or failed) proofing run for a work order.
type Record struct {
	WorkOrderNumber string            `json:"wo_number"`
	WorkOrderID     string            `json:"wo_id"`
	Building        string            `json:"building"`
	WorkTypeRef     string            `json:"work_type_ref"`
	Outcome         string            `json:"outcome"`
	Answers         map[string]string `json:"answers"`
	SectionsKey     string            `json:"sections_key,omitempty"`
	ChangeLogKey    string            `json:"change_log_key,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type DB struct {
	Pool *pgxpool.Pool
}

func NewDB(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	db := &DB{Pool: pool}
	if err := db.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) ensureSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS proofing_metadata (
			wo_number      TEXT NOT NULL,
			wo_id          TEXT NOT NULL,
			building       TEXT NOT NULL DEFAULT '',
			work_type_ref  TEXT NOT NULL DEFAULT '',
			outcome        TEXT NOT NULL,
			answers        JSONB NOT NULL DEFAULT '{}'::jsonb,
			sections_key   TEXT NOT NULL DEFAULT '',
			change_log_key TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (wo_number, wo_id)
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save inserts or replaces the record for its work order.
func (db *DB) Save(ctx context.Context, rec Record) error {
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO proofing_metadata
			(wo_number, wo_id, building, work_type_ref, outcome, answers, sections_key, change_log_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (wo_number, wo_id) DO UPDATE SET
			building = EXCLUDED.building,
			work_type_ref = EXCLUDED.work_type_ref,
			outcome = EXCLUDED.outcome,
			answers = EXCLUDED.answers,
			sections_key = EXCLUDED.sections_key,
			change_log_key = EXCLUDED.change_log_key,
			created_at = EXCLUDED.created_at`,
		rec.WorkOrderNumber, rec.WorkOrderID, rec.Building, rec.WorkTypeRef,
		rec.Outcome, answers, rec.SectionsKey, rec.ChangeLogKey, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// Get returns the record for a work order, or (nil, nil) when absent.
func (db *DB) Get(ctx context.Context, woNumber, woID string) (*Record, error) {
	var rec Record
	var answers []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT wo_number, wo_id, building, work_type_ref, outcome, answers, sections_key, change_log_key, created_at
		FROM proofing_metadata
		WHERE wo_number = $1 AND wo_id = $2`,
		woNumber, woID).Scan(
		&rec.WorkOrderNumber, &rec.WorkOrderID, &rec.Building, &rec.WorkTypeRef,
		&rec.Outcome, &answers, &rec.SectionsKey, &rec.ChangeLogKey, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if err := json.Unmarshal(answers, &rec.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return &rec, nil
}

// ListRecent returns the newest records, capped at limit.
func (db *DB) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT wo_number, wo_id, building, work_type_ref, outcome, answers, sections_key, change_log_key, created_at
		FROM proofing_metadata
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var answers []byte
		if err := rows.Scan(
			&rec.WorkOrderNumber, &rec.WorkOrderID, &rec.Building, &rec.WorkTypeRef,
			&rec.Outcome, &answers, &rec.SectionsKey, &rec.ChangeLogKey, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal(answers, &rec.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (db *DB) Close() {
	db.Pool.Close()
}
