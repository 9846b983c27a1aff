// Package geo turns the machine's approximate position into a pitch label.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ipinfo/go/v2/ipinfo"
	"go.uber.org/zap"

	"github.com/verte-zerg/ontarget/internal/model"
)

const defaultTimeout = 5 * time.Second

var errNoLocation = errors.New("no location in lookup response")

// Locator resolves a location label for new sessions.
type Locator struct {
	lookup  func(net.IP) (*ipinfo.Core, error)
	log     *zap.Logger
	enabled bool
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger used for failed lookups.
func WithLogger(log *zap.Logger) Option {
	return func(l *Locator) { l.log = log }
}

// WithLookup replaces the ipinfo call.
func WithLookup(fn func(net.IP) (*ipinfo.Core, error)) Option {
	return func(l *Locator) { l.lookup = fn }
}

// New returns a Locator backed by ipinfo. A disabled Locator always
// reports the default location.
func New(enabled bool, token string, opts ...Option) *Locator {
	client := ipinfo.NewClient(&http.Client{Timeout: defaultTimeout}, nil, token)
	l := &Locator{
		lookup:  client.GetIPInfo,
		log:     zap.NewNop(),
		enabled: enabled,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Enabled reports whether lookups are attempted.
func (l *Locator) Enabled() bool { return l != nil && l.enabled }

// Locate returns "Pitch (lat, lon)" or the default location on any failure.
func (l *Locator) Locate(ctx context.Context) string {
	if !l.Enabled() {
		return model.DefaultLocation
	}
	type result struct {
		core *ipinfo.Core
		err  error
	}
	done := make(chan result, 1)
	go func() {
		core, err := l.lookup(nil)
		done <- result{core: core, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		l.log.Debug("location lookup cancelled", zap.Error(ctx.Err()))
		return model.DefaultLocation
	case res = <-done:
	}
	if res.err != nil {
		l.log.Warn("location lookup failed", zap.Error(res.err))
		return model.DefaultLocation
	}
	if res.core == nil {
		return model.DefaultLocation
	}
	lat, lon, err := ParseLoc(res.core.Location)
	if err != nil {
		l.log.Warn("location lookup returned bad coordinates", zap.String("loc", res.core.Location), zap.Error(err))
		return model.DefaultLocation
	}
	return Label(lat, lon)
}

// Label formats coordinates with two decimals.
func Label(lat, lon float64) string {
	return fmt.Sprintf("Pitch (%.2f, %.2f)", lat, lon)
}

// ParseLoc parses ipinfo's "lat,lon" field.
func ParseLoc(loc string) (float64, float64, error) {
	latText, lonText, ok := strings.Cut(strings.TrimSpace(loc), ",")
	if !ok {
		return 0, 0, errNoLocation
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse longitude: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("coordinates out of range: %s", loc)
	}
	return lat, lon, nil
}
