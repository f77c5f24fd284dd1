package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/evyataryagoni/storefinder/internal/geocode"
	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/evyataryagoni/storefinder/internal/metrics"
	"github.com/evyataryagoni/storefinder/internal/models"
	"github.com/evyataryagoni/storefinder/internal/store"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultTableName        = "stores"
	DefaultMaxDistanceMiles = 50.0
	DefaultLimit            = 5

	// EarthRadiusMiles is the sphere radius used by the distance formula
	EarthRadiusMiles = 3959
)

// Directory manages a table of physical stores
// This is the service layer - it sits between handlers and the datastore
//
// Responsibilities:
//   - Validate input before any I/O
//   - Geocode postcodes on every write
//   - Run CRUD and proximity queries against the configured table
//   - Collapse every failure into a not-found / false outcome, logging and counting it
type Directory struct {
	store     store.Store
	geocoder  geocode.Resolver
	validator *validator.Validate
	metrics   *metrics.Metrics
	logger    *logger.Logger

	mu          sync.RWMutex
	table       string
	maxDistance float64
	limit       int
}

// New creates a directory over the "stores" table
//
// Parameters:
//   - s: any implementation of the Store interface
//   - geocoder: postcode resolver used by writes and FindClosest
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func New(s store.Store, geocoder geocode.Resolver, m *metrics.Metrics, log *logger.Logger) *Directory {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Directory{
		store:       s,
		geocoder:    geocoder,
		validator:   newValidator(),
		metrics:     m,
		logger:      log.WithComponent("Directory"),
		table:       DefaultTableName,
		maxDistance: DefaultMaxDistanceMiles,
		limit:       DefaultLimit,
	}
}

// SetTableName points the directory at another table
// Surrounding whitespace is trimmed; a blank or non-identifier name is
// rejected and the current table kept
func (d *Directory) SetTableName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || !store.ValidTableName(name) {
		d.logger.Warn().Str("table", name).Msg("Ignoring invalid table name")
		return false
	}

	d.mu.Lock()
	d.table = name
	d.mu.Unlock()
	return true
}

// TableName returns the configured table
func (d *Directory) TableName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table
}

// SetSearchDefaults replaces the radius and row cap used when FindClosest is
// called without them; non-positive values keep the current default
func (d *Directory) SetSearchDefaults(maxDistanceMiles float64, limit int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if maxDistanceMiles > 0 {
		d.maxDistance = maxDistanceMiles
	}
	if limit > 0 {
		d.limit = limit
	}
}

// SearchDefaults returns the radius and row cap applied to unset arguments
func (d *Directory) SearchDefaults() (float64, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.maxDistance, d.limit
}

// GetByID returns the store with the given id
func (d *Directory) GetByID(ctx context.Context, id int64) (models.Record, bool) {
	const op = "get"
	table := d.TableName()
	log := d.logger.WithTable(table)

	if err := d.ValidateID(id); err != nil {
		log.Warn().Err(err).Msg("Rejected store lookup")
		d.countOperation(op, "invalid")
		return nil, false
	}

	start := time.Now()
	record, err := d.store.SelectOne(ctx, table, map[string]interface{}{models.FieldID: id})
	d.observeQuery("select_one", start, err)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug().Int64("id", id).Msg("Store not found")
			d.countOperation(op, "not_found")
		} else {
			log.Error().Err(err).Int64("id", id).Msg("Store lookup failed")
			d.countOperation(op, "error")
		}
		return nil, false
	}

	d.countOperation(op, "success")
	return record, true
}

// ListAll returns every store in storage order, false when the table is empty
func (d *Directory) ListAll(ctx context.Context) ([]models.Record, bool) {
	const op = "list"
	table := d.TableName()

	start := time.Now()
	records, err := d.store.SelectAll(ctx, table)
	d.observeQuery("select_all", start, err)
	if err != nil {
		d.logger.WithTable(table).Error().Err(err).Msg("Listing stores failed")
		d.countOperation(op, "error")
		return nil, false
	}
	if len(records) == 0 {
		d.countOperation(op, "not_found")
		return nil, false
	}

	d.countOperation(op, "success")
	return records, true
}

// FindByName does a case-insensitive substring match on the store name
// A blank query matches nothing
func (d *Directory) FindByName(ctx context.Context, query string) models.NameMatch {
	const op = "search"
	table := d.TableName()
	log := d.logger.WithTable(table)

	query = strings.TrimSpace(query)
	if query == "" {
		d.countOperation(op, "invalid")
		return models.NewNameMatch(nil)
	}

	start := time.Now()
	records, err := d.store.Query(ctx, nameSearchQuery(table), "%"+escapeLike(strings.ToLower(query))+"%")
	d.observeQuery("query", start, err)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Name search failed")
		d.countOperation(op, "error")
		return models.NewNameMatch(nil)
	}

	match := models.NewNameMatch(records)
	log.Debug().Str("query", query).Str("match", match.Kind.String()).Msg("Name search complete")
	if match.Found() {
		d.countOperation(op, "success")
	} else {
		d.countOperation(op, "not_found")
	}
	return match
}

// AddStore geocodes postcode and inserts a store built from attrs
// lat, lng and the uppercased postcode always come from the lookup, never
// from attrs; an id in attrs is ignored
func (d *Directory) AddStore(ctx context.Context, postcode string, attrs models.Record) bool {
	const op = "add"
	table := d.TableName()
	log := d.logger.WithTable(table)

	if err := d.ValidateAdd(postcode, attrs); err != nil {
		log.Warn().Err(err).Msg("Rejected store insert")
		d.countOperation(op, "invalid")
		return false
	}

	coords, ok := d.resolve(ctx, postcode)
	if !ok {
		d.countOperation(op, "geocode_failed")
		return false
	}

	record := buildRecord(postcode, attrs, coords)

	start := time.Now()
	err := d.store.Insert(ctx, table, record)
	d.observeQuery("insert", start, err)
	if err != nil {
		log.Error().Err(err).Str("postcode", record.Postcode()).Msg("Store insert failed")
		d.countOperation(op, "error")
		return false
	}

	log.Info().Str("name", record.Name()).Str("postcode", record.Postcode()).Msg("Store added")
	d.countOperation(op, "success")
	return true
}

// UpdateStore geocodes postcode and rewrites the store with the given id
// Nothing is written unless validation and geocoding both succeed
// An update that changes nothing still succeeds; an unknown id fails
func (d *Directory) UpdateStore(ctx context.Context, id int64, postcode string, attrs models.Record) bool {
	const op = "update"
	table := d.TableName()
	log := d.logger.WithTable(table)

	if err := d.ValidateUpdate(id, postcode, attrs); err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("Rejected store update")
		d.countOperation(op, "invalid")
		return false
	}

	coords, ok := d.resolve(ctx, postcode)
	if !ok {
		d.countOperation(op, "geocode_failed")
		return false
	}

	record := buildRecord(postcode, attrs, coords)

	start := time.Now()
	affected, err := d.store.Update(ctx, table, record, map[string]interface{}{models.FieldID: id})
	d.observeQuery("update", start, err)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Store update failed")
		d.countOperation(op, "error")
		return false
	}
	if affected == 0 {
		log.Debug().Int64("id", id).Msg("No store to update")
		d.countOperation(op, "not_found")
		return false
	}

	log.Info().Int64("id", id).Str("postcode", record.Postcode()).Msg("Store updated")
	d.countOperation(op, "success")
	return true
}

// DeleteStore removes at most one store
func (d *Directory) DeleteStore(ctx context.Context, id int64) bool {
	const op = "delete"
	table := d.TableName()
	log := d.logger.WithTable(table)

	if err := d.ValidateID(id); err != nil {
		log.Warn().Err(err).Msg("Rejected store delete")
		d.countOperation(op, "invalid")
		return false
	}

	start := time.Now()
	removed, err := d.store.Delete(ctx, table, map[string]interface{}{models.FieldID: id}, 1)
	d.observeQuery("delete", start, err)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Store delete failed")
		d.countOperation(op, "error")
		return false
	}
	if removed == 0 {
		d.countOperation(op, "not_found")
		return false
	}

	log.Info().Int64("id", id).Msg("Store deleted")
	d.countOperation(op, "success")
	return true
}

// FindClosest geocodes postcode and returns the nearest stores to it
// When the postcode does not resolve no distance query is run
func (d *Directory) FindClosest(ctx context.Context, postcode string, maxDistanceMiles float64, limit int) ([]models.Record, bool) {
	if err := d.validatePostcode(postcode); err != nil {
		d.logger.Warn().Err(err).Msg("Rejected proximity search")
		d.countOperation("closest", "invalid")
		return nil, false
	}

	coords, ok := d.resolve(ctx, postcode)
	if !ok {
		d.countOperation("closest", "geocode_failed")
		return nil, false
	}

	return d.FindClosestByLatLng(ctx, coords.Latitude, coords.Longitude, maxDistanceMiles, limit)
}

// FindClosestByLatLng returns up to limit stores strictly closer than
// maxDistanceMiles to (lat, lng), nearest first, each carrying its distance
// Non-positive maxDistanceMiles or limit select the configured defaults
func (d *Directory) FindClosestByLatLng(ctx context.Context, lat, lng, maxDistanceMiles float64, limit int) ([]models.Record, bool) {
	const op = "closest"
	table := d.TableName()
	log := d.logger.WithTable(table)

	if err := d.ValidateCoordinates(lat, lng); err != nil {
		log.Warn().Err(err).Msg("Rejected proximity search")
		d.countOperation(op, "invalid")
		return nil, false
	}

	defaultDistance, defaultLimit := d.SearchDefaults()
	if maxDistanceMiles <= 0 {
		maxDistanceMiles = defaultDistance
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	start := time.Now()
	records, err := d.store.Query(ctx, closestQuery(table), lat, lng, lat, maxDistanceMiles, limit)
	d.observeQuery("query", start, err)
	if err != nil {
		log.Error().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("Proximity search failed")
		d.countOperation(op, "error")
		return nil, false
	}

	if d.metrics != nil {
		d.metrics.ClosestResultsSize.Observe(float64(len(records)))
	}

	log.Debug().
		Float64("lat", lat).
		Float64("lng", lng).
		Float64("max_distance", maxDistanceMiles).
		Int("limit", limit).
		Int("results", len(records)).
		Msg("Proximity search complete")

	if len(records) == 0 {
		d.countOperation(op, "not_found")
		return nil, false
	}

	d.countOperation(op, "success")
	return records, true
}

// Close cleans up resources
// This will close the underlying store (database connections, etc.)
func (d *Directory) Close() error {
	return d.store.Close()
}

// resolve geocodes postcode; any failure is logged and reported as !ok
func (d *Directory) resolve(ctx context.Context, postcode string) (models.Coordinates, bool) {
	start := time.Now()
	result, err := d.geocoder.Resolve(ctx, postcode)
	elapsed := time.Since(start)

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
		d.logger.Error().Err(err).Str("postcode", postcode).Msg("Postcode lookup failed")
	case !result.OK():
		outcome = "unresolved"
		d.logger.Info().Str("postcode", postcode).Int("status", result.StatusCode).Msg("Postcode could not be geocoded")
	}

	if d.metrics != nil {
		d.metrics.GeocodeLookupsTotal.WithLabelValues(outcome).Inc()
		d.metrics.GeocodeLookupDuration.Observe(elapsed.Seconds())
	}

	if outcome != "success" {
		return models.Coordinates{}, false
	}
	return *result.Coordinates, true
}

func (d *Directory) observeQuery(operation string, start time.Time, err error) {
	if d.metrics == nil {
		return
	}
	status := "success"
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		status = "error"
	}
	d.metrics.DatastoreQueriesTotal.WithLabelValues(operation, status).Inc()
	d.metrics.DatastoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (d *Directory) countOperation(operation, result string) {
	if d.metrics != nil {
		d.metrics.StoreOperationsTotal.WithLabelValues(operation, result).Inc()
	}
}

// buildRecord merges attrs with the geocoded location
func buildRecord(postcode string, attrs models.Record, coords models.Coordinates) models.Record {
	record := attrs.Clone()
	delete(record, models.FieldID)
	delete(record, models.FieldDistance)
	record[models.FieldLat] = coords.Latitude
	record[models.FieldLng] = coords.Longitude
	record[models.FieldPostcode] = strings.ToUpper(strings.TrimSpace(postcode))
	return record
}

// closestQuery orders the table by great-circle distance from a point
// Bound values: lat, lng, lat, max distance, limit
// The cosine sum is clamped to [-1, 1]: for the search point itself it can
// round to just above 1, where acos is NULL
func closestQuery(table string) string {
	return fmt.Sprintf("SELECT * FROM (SELECT `%[1]s`.*, "+
		"(%[2]d * acos(least(1.0, greatest(-1.0, cos(radians(?)) * cos(radians(lat)) * cos(radians(lng) - radians(?)) + sin(radians(?)) * sin(radians(lat)))))) AS `distance` "+
		"FROM `%[1]s`) AS `ranked` WHERE `distance` < ? ORDER BY `distance` LIMIT ?", table, EarthRadiusMiles)
}

// nameSearchQuery matches a lowercased LIKE pattern escaped with '!'
func nameSearchQuery(table string) string {
	return fmt.Sprintf("SELECT * FROM `%s` WHERE LOWER(`name`) LIKE ? ESCAPE '!'", table)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
