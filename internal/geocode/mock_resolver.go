package geocode

import (
	"context"
	"net/http"
	"strings"

	"github.com/evyataryagoni/storefinder/internal/models"
)

// MockResolver is a test double for Resolver backed by a fixed postcode table
// Lookups are case-insensitive; unknown postcodes answer 404
type MockResolver struct {
	Postcodes map[string]models.Coordinates

	// Track method calls for verification in tests
	ResolveCalls []string

	// Control behavior for error scenarios
	ResolveError error
	StatusCode   int
}

// NewMockResolver creates a mock resolver knowing a handful of UK postcodes
func NewMockResolver() *MockResolver {
	return &MockResolver{
		Postcodes: map[string]models.Coordinates{
			"WF8 4PQ":  {Latitude: 53.6918, Longitude: -1.3120},
			"LS1 4DY":  {Latitude: 53.7974, Longitude: -1.5438},
			"YO1 7HH":  {Latitude: 53.9600, Longitude: -1.0873},
			"HU3 1TY":  {Latitude: 53.7407, Longitude: -0.3591},
			"M1 1AE":   {Latitude: 53.4808, Longitude: -2.2426},
			"S1 2HE":   {Latitude: 53.3811, Longitude: -1.4701},
			"NE1 7RU":  {Latitude: 54.9738, Longitude: -1.6132},
			"EH1 1YZ":  {Latitude: 55.9533, Longitude: -3.1883},
			"AB10 1HW": {Latitude: 57.1437, Longitude: -2.0981},
			"SO14 7DU": {Latitude: 50.9039, Longitude: -1.4043},
			"PL1 1EA":  {Latitude: 50.3714, Longitude: -4.1422},
		},
	}
}

// Resolve implements the Resolver interface
func (m *MockResolver) Resolve(_ context.Context, postcode string) (Result, error) {
	m.ResolveCalls = append(m.ResolveCalls, postcode)

	if m.ResolveError != nil {
		return Result{}, m.ResolveError
	}
	if m.StatusCode != 0 && m.StatusCode != http.StatusOK {
		return Result{StatusCode: m.StatusCode}, nil
	}

	coords, ok := m.Postcodes[strings.ToUpper(strings.TrimSpace(postcode))]
	if !ok {
		return Result{StatusCode: http.StatusNotFound}, nil
	}
	return Result{StatusCode: http.StatusOK, Coordinates: &coords}, nil
}
