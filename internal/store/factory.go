package store

import (
	"fmt"
	"strings"

	"github.com/evyataryagoni/storefinder/internal/logger"
)

// StoreConfig holds configuration for opening a datastore
type StoreConfig struct {
	Type       string // "mysql" or "sqlite"
	MySQLDSN   string
	SQLitePath string
}

// NewStore opens the SQL store selected by cfg.Type (factory pattern)
func NewStore(cfg StoreConfig, log *logger.Logger) (*SQLStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case DialectMySQL:
		if cfg.MySQLDSN == "" {
			return nil, fmt.Errorf("MYSQL_DSN is required for the mysql datastore")
		}
		return NewMySQLStore(cfg.MySQLDSN, log)

	case DialectSQLite:
		return NewSQLiteStore(cfg.SQLitePath, log)

	default:
		return nil, fmt.Errorf("unknown datastore type: %s (supported: 'mysql', 'sqlite')", cfg.Type)
	}
}
