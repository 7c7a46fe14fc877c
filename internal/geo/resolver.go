package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/platform/requestctx"
	"go.uber.org/zap"
)

// Geocoder resolves a postal code to a coordinate.
type Geocoder interface {
	GeocodePostalCode(ctx context.Context, postalCode string) (GeocodeResult, error)
}

// Router computes a one-way driving distance between two coordinates.
type Router interface {
	DrivingDistanceKm(ctx context.Context, from, to Coordinate) (float64, error)
}

// Resolver resolves destination postal codes to a distance from the configured
// origin and a display place name. Resolution degrades from live routing to a
// static regional approximation and never fails: callers always receive a
// best-effort result.
type Resolver struct {
	geocoder Geocoder
	router   Router
	origin   string

	originMu    sync.Mutex
	originCoord *Coordinate
}

// ResolverDeps bundles the dependencies required by NewResolver.
type ResolverDeps struct {
	Geocoder         Geocoder
	Router           Router
	OriginPostalCode string
}

// NewResolver validates the dependencies and returns a ready Resolver.
// Geocoder and Router may be nil, in which case only the static tier is used.
func NewResolver(deps ResolverDeps) (*Resolver, error) {
	origin := strings.TrimSpace(deps.OriginPostalCode)
	if !domain.ValidPostalCode(origin) {
		return nil, errors.New("geo: valid origin postal code is required")
	}
	return &Resolver{
		geocoder: deps.Geocoder,
		router:   deps.Router,
		origin:   origin,
	}, nil
}

// Resolve returns the driving distance and place name for the destination
// postal code. Identical origin and destination yield zero distance.
func (r *Resolver) Resolve(ctx context.Context, destination string) domain.DistanceResult {
	destination = strings.TrimSpace(destination)

	if destination == r.origin {
		return domain.DistanceResult{Km: 0, Place: r.staticPlace(destination)}
	}

	if result, ok := r.resolveLive(ctx, destination); ok {
		return result
	}
	return r.resolveStatic(destination)
}

func (r *Resolver) resolveLive(ctx context.Context, destination string) (domain.DistanceResult, bool) {
	if r.geocoder == nil || r.router == nil {
		return domain.DistanceResult{}, false
	}
	logger := requestctx.Logger(ctx)

	originCoord, err := r.originCoordinate(ctx)
	if err != nil {
		logger.Debug("distance: origin geocode failed", zap.Error(err))
		return domain.DistanceResult{}, false
	}

	dest, err := r.geocoder.GeocodePostalCode(ctx, destination)
	if err != nil {
		logger.Debug("distance: destination geocode failed",
			zap.String("postal_code", destination), zap.Error(err))
		return domain.DistanceResult{}, false
	}

	km, err := r.router.DrivingDistanceKm(ctx, originCoord, dest.Coord)
	if err != nil || km <= 0 || math.IsNaN(km) || math.IsInf(km, 0) {
		logger.Debug("distance: routing failed",
			zap.String("postal_code", destination), zap.Error(err))
		return domain.DistanceResult{}, false
	}

	place := CityFromDisplayName(dest.DisplayName)
	if place == "" {
		place = r.staticPlace(destination)
	}

	return domain.DistanceResult{
		Km:    maxInt(1, int(math.Round(km))),
		Place: place,
	}, true
}

func (r *Resolver) resolveStatic(destination string) domain.DistanceResult {
	originRegion, originOK := RegionForPostalCode(r.origin)
	destRegion, destOK := RegionForPostalCode(destination)
	if !originOK || !destOK {
		return domain.DistanceResult{Km: 1, Place: r.staticPlace(destination)}
	}

	km := int(RoadDistanceKm(originRegion.Coord, destRegion.Coord))
	return domain.DistanceResult{
		Km:    maxInt(1, km),
		Place: destRegion.Name,
	}
}

func (r *Resolver) staticPlace(postalCode string) string {
	if region, ok := RegionForPostalCode(postalCode); ok {
		return region.Name
	}
	return fmt.Sprintf("Region %s", postalCode)
}

func (r *Resolver) originCoordinate(ctx context.Context) (Coordinate, error) {
	r.originMu.Lock()
	defer r.originMu.Unlock()

	if r.originCoord != nil {
		return *r.originCoord, nil
	}
	result, err := r.geocoder.GeocodePostalCode(ctx, r.origin)
	if err != nil {
		return Coordinate{}, err
	}
	coord := result.Coord
	r.originCoord = &coord
	return coord, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
