// Package resolver turns landmark records into authoritative coordinates
// using a two-tier geocoding query with paced, retried provider calls.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/ch4xm/landmark-cli/internal/landmark"
	"github.com/ch4xm/landmark-cli/internal/resilience"
	"github.com/ch4xm/landmark-cli/pkg/geocode"
)

// Config controls query composition, pacing, and retry behavior.
type Config struct {
	// Region is appended to every query, e.g. "California, USA".
	Region string

	// RequestInterval paces successive Resolve calls. Zero disables pacing.
	RequestInterval time.Duration

	// RetryAttempts is the total attempt budget per landmark.
	RetryAttempts int

	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration
}

// Resolver issues the geocoding queries for each landmark.
type Resolver struct {
	client  geocode.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	region  string
}

// New creates a Resolver over client. The pacing gate admits one request
// per cfg.RequestInterval; the first call is never delayed.
func New(client geocode.Client, cfg Config) *Resolver {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}
	return &Resolver{
		client:  client,
		limiter: limiter,
		retry: resilience.RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       cfg.RetryDelay,
			OnRetry:     resilience.RetryLogger("nominatim", "search"),
		},
		region: cfg.Region,
	}
}

// Resolve returns the best candidate for rec, or nil when neither the
// primary nor the fallback query matched. Transient failures are retried up
// to the attempt budget; any other failure is terminal for this landmark.
// The returned error never aborts a run; callers record an absent result
// and move on.
func (r *Resolver) Resolve(ctx context.Context, rec landmark.Record) (*geocode.Place, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "resolver: pacing gate")
	}

	return resilience.DoVal(ctx, r.retry, func(ctx context.Context) (*geocode.Place, error) {
		return r.attempt(ctx, rec)
	})
}

// attempt runs one primary query and, on zero candidates, one simplified
// fallback query dropping the location qualifier. Multi-county descriptors
// like "Humboldt/Mendocino" are often unknown to the geocoding index, which
// is what the fallback compensates for.
func (r *Resolver) attempt(ctx context.Context, rec landmark.Record) (*geocode.Place, error) {
	primary := fmt.Sprintf("%s, %s, %s", rec.Name, rec.Location, r.region)
	places, err := r.client.Search(ctx, primary)
	if err != nil {
		return nil, err
	}
	if len(places) > 0 {
		return &places[0], nil
	}

	fallback := fmt.Sprintf("%s, %s", rec.Name, r.region)
	places, err = r.client.Search(ctx, fallback)
	if err != nil {
		return nil, err
	}
	if len(places) > 0 {
		return &places[0], nil
	}

	// No candidates at either tier: absent, not an error.
	return nil, nil
}
