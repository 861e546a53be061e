// Package geocode resolves free-text place queries via the Nominatim
// (OpenStreetMap) search API.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ch4xm/landmark-cli/internal/resilience"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Place is one candidate returned by the geocoding service.
type Place struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Client resolves a free-text query to candidate places.
type Client interface {
	// Search returns the candidates for query, best match first. An empty
	// slice means the service knows no match; that is not an error.
	Search(ctx context.Context, query string) ([]Place, error)
}

// Option configures the Nominatim client.
type Option func(*nominatim)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(n *nominatim) {
		n.httpClient = hc
	}
}

// WithBaseURL overrides the Nominatim endpoint.
func WithBaseURL(u string) Option {
	return func(n *nominatim) {
		if u != "" {
			n.baseURL = u
		}
	}
}

// WithLimit sets the maximum number of candidates requested per query.
func WithLimit(limit int) Option {
	return func(n *nominatim) {
		if limit > 0 {
			n.limit = limit
		}
	}
}

type nominatim struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limit      int
}

// NewClient creates a Nominatim-backed Client. userAgent identifies the
// caller, as the provider's usage policy requires.
func NewClient(userAgent string, opts ...Option) Client {
	n := &nominatim{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
		limit:      1,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// nominatimPlace is one element of the Nominatim search response. The
// service encodes coordinates as decimal strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search implements Client against the Nominatim /search endpoint.
func (n *nominatim) Search(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {strconv.Itoa(n.limit)},
	}
	reqURL := n.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: search request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	var raw []nominatimPlace
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "geocode: parse response")
	}

	places := make([]Place, 0, len(raw))
	for _, p := range raw {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "geocode: parse lat %q", p.Lat)
		}
		lon, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "geocode: parse lon %q", p.Lon)
		}
		places = append(places, Place{Lat: lat, Lon: lon, DisplayName: p.DisplayName})
	}
	return places, nil
}
