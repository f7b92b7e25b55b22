// Package quote is the client for the remote fare/distance/route
// backend. All four endpoints are plain unauthenticated GETs returning
// JSON.
package quote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/onlycabs/booking-backend/booking"
)

// Quote is the resolved pricing and routing info for a pickup/dropoff
// pair and ride class.
type Quote struct {
	Fare            float64 `json:"fare"`
	SurgeMultiplier float64 `json:"surgeMultiplier"`
	DistanceKM      float64 `json:"distanceKm"`
	TransitInfo     string  `json:"transitInfo"`
	BestRouteInfo   string  `json:"bestRouteInfo"`
}

// FetchError is the single coarse error surfaced when any of the quote
// requests fails. It does not say which one; the flow reports one
// generic notice and does not retry.
type FetchError struct {
	err error
}

func (e *FetchError) Error() string {
	return "could not fetch ride data: " + e.err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.err
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Fare returns the fare and surge multiplier for a trip.
func (c *Client) Fare(ctx context.Context, pickup, dropoff string, ride booking.RideClass) (fare, surge float64, err error) {
	var resp struct {
		Fare            float64 `json:"fare"`
		SurgeMultiplier float64 `json:"surge_multiplier"`
	}
	params := url.Values{}
	params.Set("pickup", pickup)
	params.Set("dropoff", dropoff)
	params.Set("cab_type", ride.CabType())
	if err := c.get(ctx, "/fare", params, &resp); err != nil {
		return 0, 0, err
	}
	return resp.Fare, resp.SurgeMultiplier, nil
}

// Distance returns the trip distance in kilometers.
func (c *Client) Distance(ctx context.Context, pickup, dropoff string) (float64, error) {
	var resp struct {
		DistanceKM float64 `json:"distance_km"`
	}
	params := url.Values{}
	params.Set("pickup", pickup)
	params.Set("dropoff", dropoff)
	if err := c.get(ctx, "/distance", params, &resp); err != nil {
		return 0, err
	}
	return resp.DistanceKM, nil
}

// TransitInfo returns the bus-alternative text, keyed only on pickup.
func (c *Client) TransitInfo(ctx context.Context, pickup string) (string, error) {
	var resp struct {
		BMTCInfo string `json:"bmtc_info"`
	}
	params := url.Values{}
	params.Set("pickup", pickup)
	if err := c.get(ctx, "/bmtc", params, &resp); err != nil {
		return "", err
	}
	return resp.BMTCInfo, nil
}

// BestRoute returns the suggested route text for a trip.
func (c *Client) BestRoute(ctx context.Context, pickup, dropoff string) (string, error) {
	var resp struct {
		BestRouteInfo string `json:"best_route_info"`
	}
	params := url.Values{}
	params.Set("pickup", pickup)
	params.Set("dropoff", dropoff)
	if err := c.get(ctx, "/best-route", params, &resp); err != nil {
		return "", err
	}
	return resp.BestRouteInfo, nil
}

// FetchAll issues the four quote requests concurrently and waits for all
// of them to settle; there is no ordering guarantee between them and no
// cancellation of the others when one fails. Fields for requests that
// succeeded are filled in even when another failed; any failure comes
// back as a single *FetchError.
func (c *Client) FetchAll(ctx context.Context, pickup, dropoff string, ride booking.RideClass) (Quote, error) {
	var q Quote
	var g errgroup.Group

	g.Go(func() error {
		fare, surge, err := c.Fare(ctx, pickup, dropoff, ride)
		if err != nil {
			return err
		}
		q.Fare, q.SurgeMultiplier = fare, surge
		return nil
	})
	g.Go(func() error {
		distance, err := c.Distance(ctx, pickup, dropoff)
		if err != nil {
			return err
		}
		q.DistanceKM = distance
		return nil
	})
	g.Go(func() error {
		info, err := c.TransitInfo(ctx, pickup)
		if err != nil {
			return err
		}
		q.TransitInfo = info
		return nil
	})
	g.Go(func() error {
		route, err := c.BestRoute(ctx, pickup, dropoff)
		if err != nil {
			return err
		}
		q.BestRouteInfo = route
		return nil
	})

	if err := g.Wait(); err != nil {
		c.logger.ErrorContext(ctx, "quote fetch failed", "pickup", pickup, "dropoff", dropoff, "error", err)
		return q, &FetchError{err: err}
	}
	return q, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}
