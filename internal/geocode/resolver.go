package geocode

import (
	"context"
	"errors"
	"net/http"

	"github.com/evyataryagoni/storefinder/internal/models"
)

// ErrLookupFailed is returned when the geocoding service cannot be reached
// or answers with something that is not a geocoding response
var ErrLookupFailed = errors.New("postcode lookup failed")

// Result is the outcome of one postcode lookup
// StatusCode mirrors the service's status; Coordinates is nil unless the
// postcode resolved to a location
type Result struct {
	StatusCode  int
	Coordinates *models.Coordinates
}

// OK reports whether the lookup produced usable coordinates
func (r Result) OK() bool {
	return r.StatusCode == http.StatusOK && r.Coordinates != nil
}

// Resolver turns a postcode into coordinates
// Implementations: PostcodesIO (HTTP) and MockResolver for tests
type Resolver interface {
	Resolve(ctx context.Context, postcode string) (Result, error)
}
