// Package storage defines the persistence interface for split history,
// receipt imports, and user accounts. The engine itself never touches a
// store; only the service layer does.
package storage

import (
	"context"
	"errors"

	"github.com/tabsplit/tabsplit/internal/models"
	"github.com/tabsplit/tabsplit/internal/receipt"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store is the persistence interface. Implementations must be safe for
// concurrent use.
type Store interface {
	// CreateRecord persists a computed split into the owner's history,
	// generating IDs and timestamps when unset.
	CreateRecord(ctx context.Context, record *models.SplitRecord) error

	// GetRecord retrieves one history record by ID.
	GetRecord(ctx context.Context, id string) (*models.SplitRecord, error)

	// ListRecordsByUser returns a user's history, newest first.
	ListRecordsByUser(ctx context.Context, userID string) ([]*models.SplitRecord, error)

	// UserStats aggregates a user's saved splits.
	UserStats(ctx context.Context, userID string) (*models.UserStats, error)

	// CreateImport persists a pending receipt import.
	CreateImport(ctx context.Context, imp *receipt.Import) error

	// GetImport retrieves a receipt import with its items.
	GetImport(ctx context.Context, id string) (*receipt.Import, error)

	// UpdateImport replaces an import's status and item set.
	UpdateImport(ctx context.Context, imp *receipt.Import) error

	// CreateUser persists a new account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail looks an account up by its login identifier.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID looks an account up by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases the underlying resources.
	Close() error
}
