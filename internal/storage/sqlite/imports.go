package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabsplit/tabsplit/internal/money"
	"github.com/tabsplit/tabsplit/internal/receipt"
	"github.com/tabsplit/tabsplit/internal/storage"
)

// CreateImport persists a pending receipt import and its items.
func (s *SQLiteStore) CreateImport(ctx context.Context, imp *receipt.Import) error {
	if imp.ID == "" {
		imp.ID = uuid.New().String()
	}
	if imp.CreatedAt == 0 {
		imp.CreatedAt = time.Now().Unix()
	}
	if imp.Status == "" {
		imp.Status = receipt.StatusPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipt_imports (id, user_id, currency, declared_units, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		imp.ID, imp.UserID, imp.Currency, imp.DeclaredTotal.Units(), string(imp.Status), imp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import: %w", err)
	}

	if err := insertImportItems(ctx, tx, imp); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateImport replaces an import's status and item set.
func (s *SQLiteStore) UpdateImport(ctx context.Context, imp *receipt.Import) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE receipt_imports SET status = ? WHERE id = ?`, string(imp.Status), imp.ID)
	if err != nil {
		return fmt.Errorf("failed to update import: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("import %s: %w", imp.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM receipt_items WHERE import_id = ?`, imp.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	if err := insertImportItems(ctx, tx, imp); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertImportItems(ctx context.Context, tx *sql.Tx, imp *receipt.Import) error {
	for i := range imp.Items {
		item := &imp.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		var rx, ry, rw, rh sql.NullFloat64
		if r := item.Region; r != nil {
			rx = sql.NullFloat64{Float64: r.X, Valid: true}
			ry = sql.NullFloat64{Float64: r.Y, Valid: true}
			rw = sql.NullFloat64{Float64: r.Width, Valid: true}
			rh = sql.NullFloat64{Float64: r.Height, Valid: true}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO receipt_items
			 (import_id, item_id, name, quantity, price_units, confidence, region_x, region_y, region_w, region_h, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			imp.ID, item.ID, item.Name, item.Quantity, item.Price.Units(), item.Confidence,
			rx, ry, rw, rh, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt item: %w", err)
		}
	}
	return nil
}

// GetImport retrieves a receipt import with its items.
func (s *SQLiteStore) GetImport(ctx context.Context, id string) (*receipt.Import, error) {
	imp := &receipt.Import{}
	var status string
	var declaredUnits int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, currency, declared_units, status, created_at FROM receipt_imports WHERE id = ?`, id,
	).Scan(&imp.ID, &imp.UserID, &imp.Currency, &declaredUnits, &status, &imp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import: %w", err)
	}
	imp.Status = receipt.ImportStatus(status)
	imp.DeclaredTotal = money.FromMinorUnits(declaredUnits, imp.Currency)

	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, name, quantity, price_units, confidence, region_x, region_y, region_w, region_h
		 FROM receipt_items WHERE import_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipt items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item receipt.ExtractedItem
		var priceUnits int64
		var rx, ry, rw, rh sql.NullFloat64
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &priceUnits, &item.Confidence,
			&rx, &ry, &rw, &rh); err != nil {
			return nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		item.Price = money.FromMinorUnits(priceUnits, imp.Currency)
		if rx.Valid {
			item.Region = &receipt.Region{X: rx.Float64, Y: ry.Float64, Width: rw.Float64, Height: rh.Float64}
		}
		imp.Items = append(imp.Items, item)
	}
	return imp, rows.Err()
}
