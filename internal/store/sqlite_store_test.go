package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/evyataryagoni/storefinder/internal/models"
)

func setupSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.CreateStoreTable(context.Background(), "stores"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return s
}

func TestSQLiteStore_Dialect(t *testing.T) {
	s := setupSQLiteStore(t)

	if s.Dialect() != DialectSQLite {
		t.Errorf("expected dialect %q, got %q", DialectSQLite, s.Dialect())
	}
}

func TestSQLiteStore_CreateStoreTable_Idempotent(t *testing.T) {
	s := setupSQLiteStore(t)

	if err := s.CreateStoreTable(context.Background(), "stores"); err != nil {
		t.Errorf("expected second create to be a no-op, got %v", err)
	}
}

func TestSQLiteStore_CreateStoreTable_InvalidName(t *testing.T) {
	s := setupSQLiteStore(t)

	if err := s.CreateStoreTable(context.Background(), "stores; DROP TABLE x"); err == nil {
		t.Error("expected error for invalid table name, got nil")
	}
}

func TestSQLiteStore_CRUD(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	err := s.Insert(ctx, "stores", models.Record{
		"name":     "Hull",
		"postcode": "HU3 1TY",
		"lat":      53.7407,
		"lng":      -0.3591,
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	record, err := s.SelectOne(ctx, "stores", map[string]interface{}{"postcode": "HU3 1TY"})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	id, ok := record.ID()
	if !ok || id != 1 {
		t.Fatalf("expected id 1, got %v (ok=%v)", id, ok)
	}
	if lat, _ := record.Lat(); lat != 53.7407 {
		t.Errorf("expected lat 53.7407, got %v", lat)
	}

	affected, err := s.Update(ctx, "stores", models.Record{"name": "Hull Marina"}, map[string]interface{}{"id": id})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if affected != 1 {
		t.Errorf("expected 1 row updated, got %d", affected)
	}

	all, err := s.SelectAll(ctx, "stores")
	if err != nil {
		t.Fatalf("select all failed: %v", err)
	}
	if len(all) != 1 || all[0].Name() != "Hull Marina" {
		t.Fatalf("expected renamed store, got %v", all)
	}

	removed, err := s.Delete(ctx, "stores", map[string]interface{}{"id": id}, 1)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 row removed, got %d", removed)
	}

	removed, err = s.Delete(ctx, "stores", map[string]interface{}{"id": id}, 1)
	if err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 rows removed on second delete, got %d", removed)
	}

	if _, err := s.SelectOne(ctx, "stores", map[string]interface{}{"id": id}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStore_Update_UnchangedRowCounts(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	record := models.Record{"name": "York", "postcode": "YO1 7HH", "lat": 53.96, "lng": -1.0873}
	if err := s.Insert(ctx, "stores", record); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	affected, err := s.Update(ctx, "stores", record, map[string]interface{}{"id": int64(1)})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if affected != 1 {
		t.Errorf("expected unchanged row to still count as matched, got %d", affected)
	}
}

func TestSQLiteStore_Insert_MissingRequiredColumn(t *testing.T) {
	s := setupSQLiteStore(t)

	err := s.Insert(context.Background(), "stores", models.Record{"postcode": "YO1 7HH", "lat": 53.96, "lng": -1.0873})
	if err == nil {
		t.Error("expected NOT NULL violation, got nil")
	}
}

func TestSQLiteStore_Insert_UnknownColumn(t *testing.T) {
	s := setupSQLiteStore(t)

	err := s.Insert(context.Background(), "stores", models.Record{
		"name": "York", "postcode": "YO1 7HH", "lat": 53.96, "lng": -1.0873, "opening_hours": "9-5",
	})
	if err == nil {
		t.Error("expected error for unknown column, got nil")
	}
}

func TestSQLiteStore_MathFunctions(t *testing.T) {
	s := setupSQLiteStore(t)

	rows, err := s.Query(context.Background(),
		"SELECT radians(?) AS r, acos(?) AS a, cos(?) AS c, sin(?) AS s, least(?, ?) AS lo, greatest(?, ?) AS hi",
		180.0, 1.0, 0.0, 0.0, 2.5, -1.5, 2.5, -1.5)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	want := map[string]float64{"r": math.Pi, "a": 0, "c": 1, "s": 0, "lo": -1.5, "hi": 2.5}
	for column, expected := range want {
		got, ok := models.Record{models.FieldDistance: rows[0][column]}.Distance()
		if !ok {
			t.Errorf("column %s: expected a number, got %T", column, rows[0][column])
			continue
		}
		if math.Abs(got-expected) > 1e-12 {
			t.Errorf("column %s: expected %v, got %v", column, expected, got)
		}
	}
}

func TestSQLiteStore_ClampedAcos(t *testing.T) {
	s := setupSQLiteStore(t)

	tests := []struct {
		input float64
		want  float64
	}{
		{input: 1.0000000000000002, want: 0},
		{input: -1.0000000000000002, want: math.Pi},
		{input: 0.5, want: math.Acos(0.5)},
	}

	for _, tt := range tests {
		rows, err := s.Query(context.Background(), "SELECT acos(least(1.0, greatest(-1.0, ?))) AS a", tt.input)
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		got, ok := models.Record{models.FieldDistance: rows[0]["a"]}.Distance()
		if !ok || math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("acos(clamp(%v)): expected %v, got %v (ok=%v)", tt.input, tt.want, rows[0]["a"], ok)
		}
	}
}

func TestSQLiteStore_LowerFoldsUnicode(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, "stores", models.Record{"name": "ÉCOLE Café", "postcode": "YO1 7HH", "lat": 53.96, "lng": -1.0873}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	rows, err := s.Query(ctx, "SELECT * FROM `stores` WHERE LOWER(`name`) LIKE ? ESCAPE '!'", "%école%")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected the accented name to match case-insensitively, got %v", rows)
	}
}

func TestSQLiteStore_DistanceQuery(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	for _, r := range []models.Record{
		{"name": "Leeds", "postcode": "LS1 4DY", "lat": 53.7974, "lng": -1.5438},
		{"name": "Aberdeen", "postcode": "AB10 1HW", "lat": 57.1437, "lng": -2.0981},
	} {
		if err := s.Insert(ctx, "stores", r); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	query := "SELECT * FROM (SELECT `stores`.*, (3959 * acos(least(1.0, greatest(-1.0, cos(radians(?)) * cos(radians(lat)) * cos(radians(lng) - radians(?)) + sin(radians(?)) * sin(radians(lat)))))) AS `distance` FROM `stores`) AS `ranked` WHERE `distance` < ? ORDER BY `distance` LIMIT ?"
	rows, err := s.Query(ctx, query, 53.6918, -1.312, 53.6918, 100.0, 5)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name() != "Leeds" {
		t.Fatalf("expected only Leeds within 100 miles, got %v", rows)
	}
	if d, ok := rows[0].Distance(); !ok || d <= 0 || d > 20 {
		t.Errorf("expected a short distance to Leeds, got %v", d)
	}

	// the search point itself is 0 miles away, not NULL
	rows, err = s.Query(ctx, query, 53.7974, -1.5438, 53.7974, 1.0, 5)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Name() != "Leeds" {
		t.Fatalf("expected Leeds at its own location, got %v", rows)
	}
	if d, ok := rows[0].Distance(); !ok || d > 1e-3 {
		t.Errorf("expected distance ~0, got %v", d)
	}
}

func TestSQLiteStore_Insert_LeavesRecordUntouched(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	record := models.Record{"name": "York", "postcode": "YO1 7HH", "lat": 53.96, "lng": -1.0873}
	if err := s.Insert(ctx, "stores", record); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if len(record) != 4 {
		t.Errorf("expected the caller's record to keep its 4 fields, got %v", record)
	}
	for key := range record {
		switch key {
		case "name", "postcode", "lat", "lng":
		default:
			t.Errorf("unexpected key %q written into the caller's record", key)
		}
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name        string
		cfg         StoreConfig
		wantDialect string
		wantErr     bool
	}{
		{name: "sqlite", cfg: StoreConfig{Type: "sqlite", SQLitePath: ":memory:"}, wantDialect: DialectSQLite},
		{name: "sqlite mixed case", cfg: StoreConfig{Type: " SQLite ", SQLitePath: ":memory:"}, wantDialect: DialectSQLite},
		{name: "mysql without dsn", cfg: StoreConfig{Type: "mysql"}, wantErr: true},
		{name: "unknown type", cfg: StoreConfig{Type: "csv"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer s.Close()

			if s.Dialect() != tt.wantDialect {
				t.Errorf("expected dialect %q, got %q", tt.wantDialect, s.Dialect())
			}
		})
	}
}
