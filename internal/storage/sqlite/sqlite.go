// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/money"
	"github.com/tabsplit/tabsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path. It creates
// the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRecord persists a computed split and its summary rows.
func (s *SQLiteStore) CreateRecord(ctx context.Context, record *models.SplitRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO split_records
		 (id, user_id, mode, currency, rounding, subtotal, declared_units, computed_units, matched, difference_units, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, string(record.Summary.Type), record.Summary.Currency,
		string(record.Summary.Rounding), record.Summary.Subtotal,
		record.DeclaredTotal, record.ComputedTotal, boolToInt(record.Matched),
		record.Difference, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	for i, p := range record.Summary.Participants {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO record_participants (record_id, participant_id, name, amount, percentage, position)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			record.ID, p.ID, p.Name, p.Amount, p.Percentage, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i, item := range record.Summary.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO record_items (record_id, item_id, name, price, position) VALUES (?, ?, ?, ?, ?)`,
			record.ID, item.ID, item.Name, item.Price, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		for _, participantID := range item.AssignedTo {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO record_item_assignments (record_id, item_id, participant_id) VALUES (?, ?, ?)`,
				record.ID, item.ID, participantID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRecord retrieves a record by ID, including its summary rows.
func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*models.SplitRecord, error) {
	record := &models.SplitRecord{}
	var mode, rounding string
	var matched int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, mode, currency, rounding, subtotal, declared_units, computed_units, matched, difference_units, created_at
		 FROM split_records WHERE id = ?`, id,
	).Scan(&record.ID, &record.UserID, &mode, &record.Summary.Currency, &rounding,
		&record.Summary.Subtotal, &record.DeclaredTotal, &record.ComputedTotal,
		&matched, &record.Difference, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	record.Summary.Type = models.Mode(mode)
	record.Summary.Rounding = models.RoundingPolicy(rounding)
	record.Matched = matched != 0

	if err := s.loadSummaryRows(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// loadSummaryRows fills in the participants and items of a record.
func (s *SQLiteStore) loadSummaryRows(ctx context.Context, record *models.SplitRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT participant_id, name, amount, percentage FROM record_participants
		 WHERE record_id = ? ORDER BY position`, record.ID)
	if err != nil {
		return fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.SummaryParticipant
		if err := rows.Scan(&p.ID, &p.Name, &p.Amount, &p.Percentage); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		record.Summary.Participants = append(record.Summary.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	itemRows, err := s.db.QueryContext(ctx,
		`SELECT item_id, name, price FROM record_items WHERE record_id = ? ORDER BY position`, record.ID)
	if err != nil {
		return fmt.Errorf("failed to query items: %w", err)
	}
	defer itemRows.Close()
	itemIndex := make(map[string]int)
	for itemRows.Next() {
		var item models.SummaryItem
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		itemIndex[item.ID] = len(record.Summary.Items)
		record.Summary.Items = append(record.Summary.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return err
	}

	assignRows, err := s.db.QueryContext(ctx,
		`SELECT item_id, participant_id FROM record_item_assignments WHERE record_id = ?`, record.ID)
	if err != nil {
		return fmt.Errorf("failed to query assignments: %w", err)
	}
	defer assignRows.Close()
	for assignRows.Next() {
		var itemID, participantID string
		if err := assignRows.Scan(&itemID, &participantID); err != nil {
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		if i, ok := itemIndex[itemID]; ok {
			record.Summary.Items[i].AssignedTo = append(record.Summary.Items[i].AssignedTo, participantID)
		}
	}
	return assignRows.Err()
}

// ListRecordsByUser returns a user's history, newest first.
func (s *SQLiteStore) ListRecordsByUser(ctx context.Context, userID string) ([]*models.SplitRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM split_records WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan record id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]*models.SplitRecord, 0, len(ids))
	for _, id := range ids {
		record, err := s.GetRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// UserStats aggregates a user's saved splits.
func (s *SQLiteStore) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	stats := &models.UserStats{TotalComputed: make(map[string]string)}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN matched = 0 THEN 1 ELSE 0 END), 0)
		 FROM split_records WHERE user_id = ?`, userID,
	).Scan(&stats.SplitCount, &stats.MismatchCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT currency, SUM(computed_units) FROM split_records WHERE user_id = ? GROUP BY currency`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum totals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var currency string
		var units int64
		if err := rows.Scan(&currency, &units); err != nil {
			return nil, fmt.Errorf("failed to scan total: %w", err)
		}
		stats.TotalComputed[currency] = money.FromMinorUnits(units, currency).String()
	}
	return stats, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
