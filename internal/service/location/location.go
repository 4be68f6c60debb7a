package location

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/domain/geo"
	"github.com/oshokin/pingo/internal/version"
)

// Provider returns the current position.
type Provider interface {
	CurrentPosition(ctx context.Context) (geo.Coordinate, error)
}

var (
	// ErrPermissionDenied is returned when the position source refuses access.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrUnavailable is returned when no position can be obtained.
	ErrUnavailable = errors.New("location unavailable")
	// errMissingCoordinates is returned when the endpoint answers without a fix.
	errMissingCoordinates = errors.New("response carries no latitude/longitude")
)

// New builds the provider selected in cfg.
func New(cfg config.Location) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderStatic, "":
		return NewStatic(geo.Coordinate{Latitude: cfg.Latitude, Longitude: cfg.Longitude}), nil
	case config.ProviderHTTP:
		return NewHTTP(cfg), nil
	default:
		return nil, fmt.Errorf("unknown location provider %q", cfg.Provider)
	}
}

// Static always reports the same position.
type Static struct {
	// position is the reported coordinate.
	position geo.Coordinate
}

// NewStatic creates a provider fixed at position.
func NewStatic(position geo.Coordinate) *Static {
	return &Static{position: position}
}

// CurrentPosition returns the fixed position.
func (s *Static) CurrentPosition(ctx context.Context) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, err
	}

	return s.position, nil
}

// HTTP fetches the position from a JSON endpoint answering
// {"latitude": <deg>, "longitude": <deg>}.
type HTTP struct {
	// client is the HTTP client.
	client *resty.Client
	// url is the position endpoint.
	url string
}

// NewHTTP creates a provider polling cfg.URL.
func NewHTTP(cfg config.Location) *HTTP {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent())

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &HTTP{
		client: client,
		url:    cfg.URL,
	}
}

// positionFix is the endpoint payload; missing coordinates stay nil.
type positionFix struct {
	// Latitude in degrees.
	Latitude *float64 `json:"latitude"`
	// Longitude in degrees.
	Longitude *float64 `json:"longitude"`
}

// CurrentPosition requests and validates one position fix. An answer that
// does not decode to both coordinates is treated as unavailable.
func (h *HTTP) CurrentPosition(ctx context.Context) (geo.Coordinate, error) {
	var fix positionFix

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&fix).
		Get(h.url)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return geo.Coordinate{}, fmt.Errorf("%w: endpoint answered %d", ErrPermissionDenied, code)
	case resp.IsError():
		return geo.Coordinate{}, fmt.Errorf("%w: endpoint answered %d", ErrUnavailable, code)
	}

	if fix.Latitude == nil || fix.Longitude == nil {
		return geo.Coordinate{}, fmt.Errorf("%w: status %d: %w", ErrUnavailable, resp.StatusCode(), errMissingCoordinates)
	}

	position := geo.Coordinate{Latitude: *fix.Latitude, Longitude: *fix.Longitude}
	if err = position.Validate(); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return position, nil
}
