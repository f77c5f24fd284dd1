package store

import (
	"context"
	"fmt"
)

const (
	createStoreTableMySQL = "CREATE TABLE IF NOT EXISTS `%s` (" +
		"`id` INT UNSIGNED NOT NULL AUTO_INCREMENT, " +
		"`name` VARCHAR(255) NOT NULL, " +
		"`address` TEXT NULL, " +
		"`phone` VARCHAR(32) NULL, " +
		"`postcode` VARCHAR(10) NOT NULL, " +
		"`lat` DECIMAL(10,6) NOT NULL, " +
		"`lng` DECIMAL(10,6) NOT NULL, " +
		"PRIMARY KEY (`id`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

	createStoreTableSQLite = "CREATE TABLE IF NOT EXISTS `%s` (" +
		"`id` INTEGER PRIMARY KEY AUTOINCREMENT, " +
		"`name` TEXT NOT NULL, " +
		"`address` TEXT NULL, " +
		"`phone` TEXT NULL, " +
		"`postcode` TEXT NOT NULL, " +
		"`lat` REAL NOT NULL, " +
		"`lng` REAL NOT NULL" +
		")"
)

// CreateStoreTable provisions the store table for the store's dialect
// It is a no-op when the table already exists
func (s *SQLStore) CreateStoreTable(ctx context.Context, table string) error {
	if !ValidTableName(table) {
		return fmt.Errorf("invalid table name %q", table)
	}

	ddl := createStoreTableMySQL
	if s.dialect == DialectSQLite {
		ddl = createStoreTableSQLite
	}

	if err := s.Exec(ctx, fmt.Sprintf(ddl, table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}
