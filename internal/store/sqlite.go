package store

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is a go-sqlite3 registration with the functions the
// distance query needs (stock SQLite builds don't ship them) and a lower()
// that folds non-ASCII letters like MySQL does
const sqliteDriverName = "sqlite3_storefinder"

var registerSQLiteOnce sync.Once

func registerSQLiteDriver() {
	registerSQLiteOnce.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				functions := map[string]interface{}{
					"radians":  radians,
					"acos":     math.Acos,
					"cos":      math.Cos,
					"sin":      math.Sin,
					"least":    math.Min,
					"greatest": math.Max,
					"lower":    strings.ToLower,
				}
				for name, fn := range functions {
					if err := conn.RegisterFunc(name, fn, true); err != nil {
						return fmt.Errorf("register %s: %w", name, err)
					}
				}
				return nil
			},
		})
	})
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// NewSQLiteStore opens (or creates) a SQLite database at path
// Use ":memory:" for a throwaway database
func NewSQLiteStore(path string, log *logger.Logger) (*SQLStore, error) {
	registerSQLiteDriver()

	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: sqliteDriverName,
		DSN:        path,
	}), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// A single connection keeps ":memory:" databases alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLStore{db: db, dialect: DialectSQLite}, nil
}
