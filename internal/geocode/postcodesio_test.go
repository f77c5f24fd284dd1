package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *PostcodesIO {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPostcodesIO(srv.URL, time.Second, nil)
}

func TestPostcodesIO_Resolve_Success(t *testing.T) {
	var gotPath string
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"result":{"postcode":"WF8 4PQ","latitude":53.691843,"longitude":-1.312069}}`))
	})

	result, err := p.Resolve(context.Background(), "WF8 4PQ")
	require.NoError(t, err)

	assert.True(t, result.OK())
	assert.Equal(t, http.StatusOK, result.StatusCode)
	require.NotNil(t, result.Coordinates)
	assert.InDelta(t, 53.691843, result.Coordinates.Latitude, 1e-9)
	assert.InDelta(t, -1.312069, result.Coordinates.Longitude, 1e-9)
	assert.Equal(t, "/postcodes/WF8%204PQ", gotPath)
}

func TestPostcodesIO_Resolve_NotFound(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":404,"error":"Invalid postcode"}`))
	})

	result, err := p.Resolve(context.Background(), "NOT A POSTCODE")
	require.NoError(t, err)

	assert.False(t, result.OK())
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Nil(t, result.Coordinates)
}

func TestPostcodesIO_Resolve_NullCoordinates(t *testing.T) {
	// Terminated or non-geographic postcodes come back without a location
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"result":{"postcode":"GIR 0AA","latitude":null,"longitude":null}}`))
	})

	result, err := p.Resolve(context.Background(), "GIR 0AA")
	require.NoError(t, err)

	assert.False(t, result.OK())
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Nil(t, result.Coordinates)
}

func TestPostcodesIO_Resolve_StatusFallsBackToHTTP(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	})

	result, err := p.Resolve(context.Background(), "LS1 4DY")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, result.StatusCode)
	assert.False(t, result.OK())
}

func TestPostcodesIO_Resolve_NonJSON(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<html>maintenance</html>"))
	})

	result, err := p.Resolve(context.Background(), "LS1 4DY")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLookupFailed))
	assert.False(t, result.OK())
}

func TestPostcodesIO_Resolve_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewPostcodesIO(url, time.Second, nil)
	_, err := p.Resolve(context.Background(), "LS1 4DY")
	assert.ErrorIs(t, err, ErrLookupFailed)
}

func TestPostcodesIO_Resolve_ContextCanceled(t *testing.T) {
	p := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"result":{"latitude":1,"longitude":2}}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Resolve(ctx, "LS1 4DY")
	assert.ErrorIs(t, err, ErrLookupFailed)
}

func TestNewPostcodesIO_Defaults(t *testing.T) {
	p := NewPostcodesIO("", 0, nil)

	assert.Equal(t, DefaultBaseURL, p.baseURL)
	assert.Equal(t, DefaultTimeout, p.client.Timeout)

	p = NewPostcodesIO("http://localhost:8000/", 2*time.Second, nil)
	assert.Equal(t, "http://localhost:8000", p.baseURL)
}

func TestMockResolver(t *testing.T) {
	m := NewMockResolver()

	result, err := m.Resolve(context.Background(), "wf8 4pq")
	require.NoError(t, err)
	assert.True(t, result.OK())

	result, err = m.Resolve(context.Background(), "ZZ9 9ZZ")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	m.StatusCode = http.StatusInternalServerError
	result, _ = m.Resolve(context.Background(), "WF8 4PQ")
	assert.False(t, result.OK())

	m.ResolveError = ErrLookupFailed
	_, err = m.Resolve(context.Background(), "WF8 4PQ")
	assert.ErrorIs(t, err, ErrLookupFailed)

	assert.Len(t, m.ResolveCalls, 4)
}

func TestResult_OK(t *testing.T) {
	assert.False(t, Result{}.OK())
	assert.False(t, Result{StatusCode: http.StatusOK}.OK())
}
