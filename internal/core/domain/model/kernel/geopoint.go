package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MinLatitude and MaxLatitude bound valid latitudes in degrees.
	MinLatitude = -90.0
	MaxLatitude = 90.0
	// MinLongitude and MaxLongitude bound valid longitudes in degrees.
	MinLongitude = -180.0
	MaxLongitude = 180.0

	// earthRadiusM is the mean Earth radius of the spherical model used by the
	// haversine formula.
	earthRadiusM = 6371000.0

	// metersPerDegreeLat approximates one degree of latitude; used only for
	// the bounding-box prefilter, never for reported distances.
	metersPerDegreeLat = 111320.0
)

// ErrGeoPointIsNotConstructed is returned when using an improperly
// initialized GeoPoint. GeoPoints must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable geographic coordinate value object. Invalid
// components (out of range, non-numeric) and the (0,0) sentinel used by
// devices that cannot obtain a fix are rejected at construction, so a
// constructed GeoPoint always represents a real location. "Absent location"
// is modeled as a nil *GeoPoint, never as a zero value.
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from latitude and longitude in degrees.
// Latitude must lie in [-90,90] and longitude in [-180,180]; NaN, infinities
// and the exact (0,0) pair are treated as "no location" and rejected with an
// InvalidLocationError.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, errs.NewInvalidLocationErrorWithCause(latitude, longitude, err)
	}

	if latitude == 0 && longitude == 0 {
		return GeoPoint{}, errs.NewInvalidLocationErrorWithCause(latitude, longitude,
			errors.New("(0,0) is the null-island sentinel for an absent fix"))
	}

	return p, nil
}

// Validate checks that the GeoPoint was created via NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.latitude, p.longitude)
}

// IsEqual compares two points for exact coordinate equality.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return p.latitude == other.latitude && p.longitude == other.longitude, nil
}

// DistanceTo returns the great-circle distance to another point in meters,
// using the haversine formula over a spherical Earth model. This is a
// geodesic approximation, not a road-network distance.
func (p GeoPoint) DistanceTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := degreesToRadians(p.latitude)
	lon1 := degreesToRadians(p.longitude)
	lat2 := degreesToRadians(other.latitude)
	lon2 := degreesToRadians(other.longitude)

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c, nil
}

// WithinRadius reports whether other lies within radiusMeters of p. It is the
// proximity predicate used by all candidate filtering: reflexive for any
// non-negative radius and monotonic in the radius.
func (p GeoPoint) WithinRadius(other GeoPoint, radiusMeters float64) (bool, error) {
	if radiusMeters < 0 {
		return false, nil
	}

	distance, err := p.DistanceTo(other)
	if err != nil {
		return false, err
	}
	return distance <= radiusMeters, nil
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}

	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}

	p.longitude = longitude
	return nil
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// BoundingBox is a latitude/longitude rectangle enclosing a radius around a
// center point. It exists as a cheap prefilter for proximity queries: SQL can
// range-scan on the box, and exact haversine filtering happens afterwards on
// the survivors. The box deliberately over-covers; it must never exclude a
// point that is actually within the radius.
type BoundingBox struct {
	minLatitude  float64
	maxLatitude  float64
	minLongitude float64
	maxLongitude float64
}

// NewBoundingBox builds the bounding rectangle around center for the given
// radius in meters. Latitude bounds are clamped at the poles; the longitude
// span widens with latitude and degrades to the full [-180,180] range close
// to the poles, where a rectangle cannot represent the circle.
func NewBoundingBox(center GeoPoint, radiusMeters float64) (BoundingBox, error) {
	if err := center.Validate(); err != nil {
		return BoundingBox{}, err
	}
	if radiusMeters < 0 {
		return BoundingBox{}, errs.NewValueIsInvalidError("radius must not be negative")
	}

	latDelta := radiusMeters / metersPerDegreeLat

	lonDelta := 180.0
	cosLat := math.Cos(degreesToRadians(center.latitude))
	if cosLat > 1e-6 {
		lonDelta = radiusMeters / (metersPerDegreeLat * cosLat)
	}

	return BoundingBox{
		minLatitude:  math.Max(center.latitude-latDelta, MinLatitude),
		maxLatitude:  math.Min(center.latitude+latDelta, MaxLatitude),
		minLongitude: math.Max(center.longitude-lonDelta, MinLongitude),
		maxLongitude: math.Min(center.longitude+lonDelta, MaxLongitude),
	}, nil
}

// MinLatitude returns the southern edge of the box.
func (b BoundingBox) MinLatitude() float64 { return b.minLatitude }

// MaxLatitude returns the northern edge of the box.
func (b BoundingBox) MaxLatitude() float64 { return b.maxLatitude }

// MinLongitude returns the western edge of the box.
func (b BoundingBox) MinLongitude() float64 { return b.minLongitude }

// MaxLongitude returns the eastern edge of the box.
func (b BoundingBox) MaxLongitude() float64 { return b.maxLongitude }

// Contains reports whether the point lies inside the rectangle.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.latitude >= b.minLatitude && p.latitude <= b.maxLatitude &&
		p.longitude >= b.minLongitude && p.longitude <= b.maxLongitude
}
