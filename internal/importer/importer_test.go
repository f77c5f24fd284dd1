package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evyataryagoni/storefinder/internal/directory"
	"github.com/evyataryagoni/storefinder/internal/geocode"
	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/evyataryagoni/storefinder/internal/models"
	"github.com/evyataryagoni/storefinder/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addCall struct {
	postcode string
	attrs    models.Record
}

// fakeAdder records calls and rejects the postcodes listed in reject
type fakeAdder struct {
	calls  []addCall
	reject map[string]bool
}

func (f *fakeAdder) AddStore(_ context.Context, postcode string, attrs models.Record) bool {
	f.calls = append(f.calls, addCall{postcode: postcode, attrs: attrs})
	return !f.reject[postcode]
}

func TestImport_ExtraColumnsBecomeAttributes(t *testing.T) {
	adder := &fakeAdder{}
	csvData := "Name,Postcode,Address,Phone\n" +
		"Plymouth,PL1 1EA,\"1 Royal Parade, Plymouth\",01752 000000\n" +
		"York,YO1 7HH,,\n"

	result, err := New(adder, logger.Nop()).Import(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Added)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Failed)

	require.Len(t, adder.calls, 2)
	assert.Equal(t, "PL1 1EA", adder.calls[0].postcode)
	assert.Equal(t, models.Record{
		"name":    "Plymouth",
		"address": "1 Royal Parade, Plymouth",
		"phone":   "01752 000000",
	}, adder.calls[0].attrs)
	assert.Equal(t, models.Record{"name": "York"}, adder.calls[1].attrs, "empty cells are left out")
}

func TestImport_RejectedAndMalformedRows(t *testing.T) {
	adder := &fakeAdder{reject: map[string]bool{"ZZ1 1ZZ": true}}
	csvData := "name,postcode\n" +
		"Leeds,LS1 4DY\n" +
		"Nowhere,ZZ1 1ZZ\n" +
		"Broken,LS1 4DY,extra\n" +
		"NoPostcode,\n" +
		"York,YO1 7HH\n"

	result, err := New(adder, nil).Import(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, []int{2}, result.Failed)
	assert.Len(t, adder.calls, 3)
}

func TestImport_HeaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		csvData string
		wantErr error
	}{
		{name: "no postcode column", csvData: "name,address\nYork,High St\n", wantErr: ErrMissingColumn},
		{name: "no name column", csvData: "postcode\nYO1 7HH\n", wantErr: ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&fakeAdder{}, nil).Import(context.Background(), strings.NewReader(tt.csvData))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestImport_EmptyInput(t *testing.T) {
	_, err := New(&fakeAdder{}, nil).Import(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestImport_ByteOrderMark(t *testing.T) {
	adder := &fakeAdder{}

	result, err := New(adder, nil).Import(context.Background(), strings.NewReader("\ufeffname,postcode\nYork,YO1 7HH\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
}

func TestImport_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	adder := &fakeAdder{}

	_, err := New(adder, nil).Import(ctx, strings.NewReader("name,postcode\nYork,YO1 7HH\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, adder.calls)
}

func TestImportFile_MissingFile(t *testing.T) {
	_, err := New(&fakeAdder{}, nil).ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestImportFile_SampleDataIntoSQLite(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.CreateStoreTable(context.Background(), directory.DefaultTableName))

	d := directory.New(s, geocode.NewMockResolver(), nil, logger.Nop())

	samplePath := filepath.Join("..", "..", "data", "stores.csv")
	if _, err := os.Stat(samplePath); errors.Is(err, os.ErrNotExist) {
		t.Skip("sample data not present")
	}

	result, err := New(d, logger.Nop()).ImportFile(context.Background(), samplePath)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Added)

	plymouth, ok := d.GetByID(context.Background(), 7)
	require.True(t, ok)
	assert.Equal(t, "Plymouth", plymouth.Name())
	assert.Equal(t, "1 Royal Parade, Plymouth", plymouth["address"])
	assert.Nil(t, plymouth["phone"])

	closest, ok := d.FindClosest(context.Background(), "WF8 4PQ", 100, 5)
	require.True(t, ok)
	require.Len(t, closest, 5)
	assert.Equal(t, "Leeds", closest[0].Name())
}
