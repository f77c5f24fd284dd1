package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/evyataryagoni/storefinder/internal/models"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// SQLStore implements Store on top of GORM
// Rows are read and written as plain maps so the table can carry any
// caller-defined columns next to the fixed store fields
type SQLStore struct {
	db      *gorm.DB
	dialect string
}

// NewMySQLStore connects to MySQL
//
// dsn format: user:password@tcp(host:port)/dbname
// ClientFoundRows is forced on so an UPDATE that leaves a row unchanged
// still reports that row as affected
func NewMySQLStore(dsn string, log *logger.Logger) (*SQLStore, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ClientFoundRows = true

	db, err := gorm.Open(mysql.Open(cfg.FormatDSN()), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	return &SQLStore{db: db, dialect: DialectMySQL}, nil
}

// Dialect returns "mysql" or "sqlite"
func (s *SQLStore) Dialect() string {
	return s.dialect
}

// SelectOne returns the first row matching where
// GORM query: SELECT * FROM `table` WHERE ... LIMIT 1
func (s *SQLStore) SelectOne(ctx context.Context, table string, where map[string]interface{}) (models.Record, error) {
	row := map[string]interface{}{}

	result := s.db.WithContext(ctx).Table(table).Where(where).Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database query failed: %w", result.Error)
	}

	return normalizeRecord(row), nil
}

// SelectAll returns every row of table
func (s *SQLStore) SelectAll(ctx context.Context, table string) ([]models.Record, error) {
	var rows []map[string]interface{}

	if err := s.db.WithContext(ctx).Table(table).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	return normalizeRecords(rows), nil
}

// Query runs a raw parameterised query and returns the rows as records
func (s *SQLStore) Query(ctx context.Context, query string, args ...interface{}) ([]models.Record, error) {
	var rows []map[string]interface{}

	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	return normalizeRecords(rows), nil
}

// Insert adds record as a new row of table
func (s *SQLStore) Insert(ctx context.Context, table string, record models.Record) error {
	// GORM only recognises the unnamed map type, and writes the generated
	// key back into it, so it gets a copy
	values := map[string]interface{}(record.Clone())

	if err := s.db.WithContext(ctx).Table(table).Create(values).Error; err != nil {
		return fmt.Errorf("database insert failed: %w", err)
	}
	return nil
}

// Update applies record to the rows matching where and returns how many matched
func (s *SQLStore) Update(ctx context.Context, table string, record models.Record, where map[string]interface{}) (int64, error) {
	result := s.db.WithContext(ctx).Table(table).Where(where).Updates(map[string]interface{}(record))
	if result.Error != nil {
		return 0, fmt.Errorf("database update failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Delete removes matching rows, at most limit of them when the dialect supports
// DELETE ... LIMIT (MySQL); SQLite ignores the limit
func (s *SQLStore) Delete(ctx context.Context, table string, where map[string]interface{}, limit int) (int64, error) {
	tx := s.db.WithContext(ctx).Table(table).Where(where)
	if limit > 0 && s.dialect == DialectMySQL {
		tx = tx.Limit(limit)
	}

	result := tx.Delete(map[string]interface{}{})
	if result.Error != nil {
		return 0, fmt.Errorf("database delete failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Exec runs a statement that returns no rows (DDL, maintenance)
func (s *SQLStore) Exec(ctx context.Context, statement string, args ...interface{}) error {
	return s.db.WithContext(ctx).Exec(statement, args...).Error
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func gormConfig(log *logger.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: newGormLogger(log),
		// Every operation is a single statement
		SkipDefaultTransaction: true,
	}
}

func normalizeRecords(rows []map[string]interface{}) []models.Record {
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, normalizeRecord(row))
	}
	return records
}

// normalizeRecord flattens driver-specific scan values (raw bytes, nullable
// wrappers, pointers) into plain Go values
func normalizeRecord(row map[string]interface{}) models.Record {
	record := make(models.Record, len(row))
	for column, value := range row {
		record[column] = normalizeValue(value)
	}
	return record
}

func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case sql.RawBytes:
		return string(v)
	case *interface{}:
		if v == nil {
			return nil
		}
		return normalizeValue(*v)
	case driver.Valuer:
		inner, err := v.Value()
		if err != nil {
			return nil
		}
		return normalizeValue(inner)
	default:
		return value
	}
}
