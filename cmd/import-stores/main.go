package main

import (
	"context"
	"fmt"
	"os"

	"github.com/evyataryagoni/storefinder/internal/config"
	"github.com/evyataryagoni/storefinder/internal/directory"
	"github.com/evyataryagoni/storefinder/internal/geocode"
	"github.com/evyataryagoni/storefinder/internal/importer"
	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/evyataryagoni/storefinder/internal/store"
	"github.com/spf13/cobra"
)

// importOptions holds the command line flags
// Anything not given on the command line falls back to the environment config
type importOptions struct {
	File        string
	Table       string
	Datastore   string
	CreateTable bool
}

// This tool loads stores from CSV into the configured datastore
// Every row is geocoded through the same directory the server uses
// Usage: go run ./cmd/import-stores --file data/stores.csv
func main() {
	if err := newImportCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newImportCommand() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:          "import-stores",
		Short:        "Import stores from a CSV file",
		Long:         "Reads a CSV with a name,postcode header (extra columns become store attributes) and adds each row to the store table.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, config.Load())
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "data/stores.csv", "CSV file to import")
	cmd.Flags().StringVar(&opts.Table, "table", "", "store table (default STORE_TABLE)")
	cmd.Flags().StringVar(&opts.Datastore, "datastore", "", "datastore type: mysql|sqlite (default DATASTORE_TYPE)")
	cmd.Flags().BoolVar(&opts.CreateTable, "create-table", false, "create the store table if it does not exist")

	return cmd
}

func runImport(ctx context.Context, opts *importOptions, appConfig *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Table != "" {
		appConfig.StoreTable = opts.Table
	}
	if opts.Datastore != "" {
		appConfig.DatastoreType = opts.Datastore
	}

	log := logger.New(logger.Config{Level: appConfig.LogLevel, Pretty: appConfig.LogPretty})

	dataStore, err := store.NewStore(store.StoreConfig{
		Type:       appConfig.DatastoreType,
		MySQLDSN:   appConfig.MySQLDSN,
		SQLitePath: appConfig.SQLitePath,
	}, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open datastore")
		return err
	}

	if opts.CreateTable || appConfig.AutoMigrate {
		if err := dataStore.CreateStoreTable(ctx, appConfig.StoreTable); err != nil {
			dataStore.Close()
			log.Error().Err(err).Msg("Failed to create store table")
			return err
		}
	}

	geocoder := geocode.NewPostcodesIO(appConfig.GeocoderURL, appConfig.GeocoderTimeout, log)
	storeDirectory := directory.New(dataStore, geocoder, nil, log)
	defer storeDirectory.Close()

	if !storeDirectory.SetTableName(appConfig.StoreTable) {
		err := fmt.Errorf("invalid store table name %q", appConfig.StoreTable)
		log.Error().Err(err).Msg("Failed to configure directory")
		return err
	}

	log.Info().
		Str("file", opts.File).
		Str("table", appConfig.StoreTable).
		Str("dialect", dataStore.Dialect()).
		Msg("Importing stores")

	result, err := importer.New(storeDirectory, log).ImportFile(ctx, opts.File)
	if err != nil {
		log.Error().Err(err).Msg("Import failed")
		return err
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d rows were rejected (rows %v)", len(result.Failed), result.Added+len(result.Failed), result.Failed)
	}
	return nil
}
