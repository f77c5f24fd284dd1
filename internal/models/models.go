package models

import (
	"strconv"
	"strings"
)

// Field names every store row carries
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldPostcode = "postcode"
	FieldLat      = "lat"
	FieldLng      = "lng"
	FieldDistance = "distance"
)

// Record is a single store row as a column name -> value mapping
// Beyond the fixed fields it is an open attribute bag (address, phone, ...)
// so it maps 1:1 onto whatever columns the configured table has
type Record map[string]interface{}

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Clone returns a shallow copy so callers can merge fields without
// mutating the caller's map
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the storage-assigned id
func (r Record) ID() (int64, bool) {
	return toInt(r[FieldID])
}

// Name returns the store name, or "" when absent or not a string
func (r Record) Name() string {
	return toString(r[FieldName])
}

// Postcode returns the stored postcode
func (r Record) Postcode() string {
	return toString(r[FieldPostcode])
}

// Lat returns the stored latitude
func (r Record) Lat() (float64, bool) {
	return toFloat(r[FieldLat])
}

// Lng returns the stored longitude
func (r Record) Lng() (float64, bool) {
	return toFloat(r[FieldLng])
}

// Distance returns the distance in miles computed by a proximity query
func (r Record) Distance() (float64, bool) {
	return toFloat(r[FieldDistance])
}

// Coordinates returns the stored lat/lng pair when both are present
func (r Record) Coordinates() (Coordinates, bool) {
	lat, ok := r.Lat()
	if !ok {
		return Coordinates{}, false
	}
	lng, ok := r.Lng()
	if !ok {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: lat, Longitude: lng}, true
}

// MatchKind tags the shape of a name search result
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchSingle
	MatchMultiple
)

func (k MatchKind) String() string {
	switch k {
	case MatchSingle:
		return "single"
	case MatchMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// NameMatch is the result of a name search
//   - MatchNone: nothing matched
//   - MatchSingle: exactly one match, held in Store
//   - MatchMultiple: two or more matches, held in Stores in storage order
type NameMatch struct {
	Kind   MatchKind
	Store  Record
	Stores []Record
}

// NewNameMatch tags a list of matches by how many there are
func NewNameMatch(records []Record) NameMatch {
	switch len(records) {
	case 0:
		return NameMatch{Kind: MatchNone}
	case 1:
		return NameMatch{Kind: MatchSingle, Store: records[0]}
	default:
		return NameMatch{Kind: MatchMultiple, Stores: records}
	}
}

// Found reports whether anything matched
func (m NameMatch) Found() bool {
	return m.Kind != MatchNone
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string `json:"error"`
}

// StoreRequest is the body accepted when creating or updating a store
type StoreRequest struct {
	Postcode   string `json:"postcode" example:"WF8 4PQ"`
	Attributes Record `json:"attributes"`
}

// StoresResponse wraps a list of store rows
type StoresResponse struct {
	Stores []Record `json:"stores"`
}

// SearchResponse is the JSON form of a NameMatch
type SearchResponse struct {
	Match  string   `json:"match"`
	Store  Record   `json:"store,omitempty"`
	Stores []Record `json:"stores,omitempty"`
}

// StatusResponse reports the outcome of a write
type StatusResponse struct {
	Success bool `json:"success"`
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

// toFloat accepts the value shapes the SQL drivers hand back:
// float64 from SQLite REAL, string/[]byte from MySQL DECIMAL, ints from JSON-less callers
func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint64:
		return int64(t), true
	case uint32:
		return int64(t), true
	case float64:
		// encoding/json decodes numbers as float64
		if t != float64(int64(t)) {
			return 0, false
		}
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
