package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evyataryagoni/storefinder/internal/logger"
	"github.com/evyataryagoni/storefinder/internal/models"
)

const (
	DefaultBaseURL = "https://api.postcodes.io"
	DefaultTimeout = 5 * time.Second

	// postcodes.io error bodies are tiny; anything bigger is not a lookup response
	maxResponseBytes = 1 << 20
)

// PostcodesIO resolves UK postcodes with the postcodes.io API
// GET {base}/postcodes/{postcode}
type PostcodesIO struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

// lookupResponse is the subset of the postcodes.io payload we read
//
//	{"status":200,"result":{"postcode":"WF8 4PQ","latitude":53.69,"longitude":-1.31,...}}
//	{"status":404,"error":"Invalid postcode"}
type lookupResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Result *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"result"`
}

// NewPostcodesIO creates a client; an empty baseURL selects the public API
// and a non-positive timeout selects DefaultTimeout
func NewPostcodesIO(baseURL string, timeout time.Duration, log *logger.Logger) *PostcodesIO {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}

	return &PostcodesIO{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log.WithComponent("geocoder"),
	}
}

// Resolve looks up postcode
// A well-formed "not found" answer is a Result with its status and no
// coordinates, not an error; errors mean the lookup itself failed
func (p *PostcodesIO) Resolve(ctx context.Context, postcode string) (Result, error) {
	endpoint := p.baseURL + "/postcodes/" + url.PathEscape(strings.TrimSpace(postcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	var body lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return Result{StatusCode: resp.StatusCode}, fmt.Errorf("%w: unreadable response (HTTP %d): %v", ErrLookupFailed, resp.StatusCode, err)
	}

	status := body.Status
	if status == 0 {
		status = resp.StatusCode
	}
	result := Result{StatusCode: status}

	if body.Result != nil && body.Result.Latitude != nil && body.Result.Longitude != nil {
		result.Coordinates = &models.Coordinates{
			Latitude:  *body.Result.Latitude,
			Longitude: *body.Result.Longitude,
		}
	}

	if !result.OK() {
		p.logger.Debug().
			Str("postcode", postcode).
			Int("status", status).
			Str("reason", body.Error).
			Msg("Postcode did not resolve")
	}

	return result, nil
}
