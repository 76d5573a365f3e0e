// Package geo implements the distance-based admission check applied to
// customer-sourced orders.
package geo

import (
	"math"

	"github.com/go-faster/errors"
)

// earthRadius in meters.
const earthRadius = 6371000.0

// Sentinel errors for admission rejections.
var (
	// ErrLocationRequired is returned when the branch enforces a geofence but
	// the customer supplied no coordinates.
	ErrLocationRequired = errors.New("location required")
	// ErrTooFar is returned when the customer is outside the branch radius.
	ErrTooFar = errors.New("too far from branch")
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat  float64
	Long float64
}

// Fence describes a branch's circular admission boundary. Center coordinates
// may be absent; RadiusMeters <= 0 disables the fence.
type Fence struct {
	Center       *Point
	RadiusMeters float64
}

// Enabled reports whether the fence restricts admission at all.
func (f Fence) Enabled() bool {
	return f.Center != nil && f.RadiusMeters > 0
}

// Evaluate decides whether a customer at the given location may order from a
// branch with the given fence. A nil error admits. The check is skipped
// entirely when the fence is disabled; a customer exactly on the boundary is
// admitted.
func Evaluate(fence Fence, customer *Point) error {
	if !fence.Enabled() {
		return nil
	}
	if customer == nil {
		return ErrLocationRequired
	}
	if Distance(*fence.Center, *customer) > fence.RadiusMeters {
		return ErrTooFar
	}
	return nil
}

// Distance returns the great-circle distance between two points in meters,
// using the haversine formula.
func Distance(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLong := radians(b.Long - a.Long)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLong/2)*math.Sin(dLong/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
