package geocode

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ch4xm/landmark-cli/internal/resilience"
)

func TestSearch_ParsesFirstCandidateVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Lost Coast Trail, King Range, Humboldt/Mendocino, California, USA", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "BeaconLandmarkGeocoder/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"lat": "40.2891834", "lon": "-124.3558835", "display_name": "Lost Coast Trail, Humboldt County, California, United States"},
			{"lat": "40.1", "lon": "-124.1", "display_name": "somewhere else"}
		]`)
	}))
	defer srv.Close()

	c := NewClient("BeaconLandmarkGeocoder/1.0", WithBaseURL(srv.URL))
	places, err := c.Search(context.Background(), "Lost Coast Trail, King Range, Humboldt/Mendocino, California, USA")
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.InDelta(t, 40.2891834, places[0].Lat, 1e-9)
	assert.InDelta(t, -124.3558835, places[0].Lon, 1e-9)
	assert.Equal(t, "Lost Coast Trail, Humboldt County, California, United States", places[0].DisplayName)
}

func TestSearch_EmptyResponseIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	places, err := c.Search(context.Background(), "Nowhere, California, USA")
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestSearch_LimitOption(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL), WithLimit(5))
	_, err := c.Search(context.Background(), "anything")
	require.NoError(t, err)
}

func TestSearch_TransientStatusWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err), "5xx should be retryable")
}

func TestSearch_ClientErrorStatusIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err), "4xx (other than 408/429) must not be retried")
}

func TestSearch_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestSearch_BadCoordinateString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"lat": "not-a-number", "lon": "-124.0", "display_name": "x"}]`)
	}))
	defer srv.Close()

	c := NewClient("test-agent", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
}
