package store

import (
	"context"
	"errors"
	"regexp"

	"github.com/evyataryagoni/storefinder/internal/models"
)

// ErrNotFound is returned by SelectOne when no row matches
var ErrNotFound = errors.New("record not found")

// Store is the generic relational table accessor the directory runs on
// Implementations: SQLStore (MySQL or SQLite through GORM) and MockStore for tests
type Store interface {
	// SelectOne returns the first row matching every column in where, or ErrNotFound
	SelectOne(ctx context.Context, table string, where map[string]interface{}) (models.Record, error)

	// SelectAll returns every row of the table in storage order
	SelectAll(ctx context.Context, table string) ([]models.Record, error)

	// Query runs a parameterised SELECT; values are bound, never interpolated
	Query(ctx context.Context, query string, args ...interface{}) ([]models.Record, error)

	// Insert adds one row
	Insert(ctx context.Context, table string, record models.Record) error

	// Update sets the given columns on matching rows and returns the rows matched
	Update(ctx context.Context, table string, record models.Record, where map[string]interface{}) (int64, error)

	// Delete removes up to limit matching rows (0 = no limit) and returns the rows removed
	Delete(ctx context.Context, table string, where map[string]interface{}, limit int) (int64, error)

	// Close cleans up resources (database connections, file handles, etc.)
	Close() error
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidTableName reports whether name is safe to quote into SQL as a table identifier
func ValidTableName(name string) bool {
	return identifierPattern.MatchString(name)
}
