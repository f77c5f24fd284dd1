package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/evyataryagoni/storefinder/internal/models"
)

// ErrMissingColumn is returned when the header lacks a required column
var ErrMissingColumn = errors.New("missing required column")

// StoreAdder is the part of the directory the importer writes through
type StoreAdder interface {
	AddStore(ctx context.Context, postcode string, attrs models.Record) bool
}

// Result summarizes an import run
type Result struct {
	Added   int
	Skipped int   // malformed rows (wrong column count, empty postcode)
	Failed  []int // 1-based data row numbers the directory rejected
}

// Importer loads stores from CSV into a StoreAdder
//
// CSV Format: name,postcode[,extra columns...]
// Example: York,YO1 7HH,01904 000000
// Every extra column becomes a store attribute named after its header.
// Empty cells are left out so the column stays NULL.
type Importer struct {
	adder StoreAdder
	log   *logger.Logger
}

// New creates an importer writing to adder
func New(adder StoreAdder, log *logger.Logger) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	return &Importer{adder: adder, log: log.WithComponent("importer")}
}

// ImportFile opens filePath and imports it
func (i *Importer) ImportFile(ctx context.Context, filePath string) (Result, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return i.Import(ctx, file)
}

// Import reads CSV rows from r and adds each one
// A rejected row is recorded and the import carries on
func (i *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, postcodeIdx, err := parseHeader(header)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("failed to read CSV row %d: %w", row, err)
		}

		if len(record) != len(columns) || strings.TrimSpace(record[postcodeIdx]) == "" {
			i.log.Warn().Int("row", row).Int("columns", len(record)).Msg("Skipping malformed row")
			result.Skipped++
			continue
		}

		attrs := make(models.Record, len(columns)-1)
		for idx, column := range columns {
			value := strings.TrimSpace(record[idx])
			if idx == postcodeIdx || value == "" {
				continue
			}
			attrs[column] = value
		}

		if !i.adder.AddStore(ctx, record[postcodeIdx], attrs) {
			i.log.Warn().Int("row", row).Str("postcode", record[postcodeIdx]).Msg("Store rejected")
			result.Failed = append(result.Failed, row)
			continue
		}
		result.Added++
	}

	i.log.Info().
		Int("added", result.Added).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Failed)).
		Msg("Import finished")

	return result, nil
}

// parseHeader lower-cases the column names and locates the postcode column
func parseHeader(header []string) ([]string, int, error) {
	columns := make([]string, len(header))
	postcodeIdx, hasName := -1, false

	for idx, raw := range header {
		column := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		columns[idx] = column
		switch column {
		case models.FieldPostcode:
			postcodeIdx = idx
		case models.FieldName:
			hasName = true
		}
	}

	if postcodeIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumn, models.FieldPostcode)
	}
	if !hasName {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumn, models.FieldName)
	}
	return columns, postcodeIdx, nil
}
