package services

import (
	"sort"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
)

const (
	// DefaultSearchRadiusM is how far from the pickup point couriers are
	// considered, in meters.
	DefaultSearchRadiusM = 10_000
	// DefaultCandidateLimit caps how many couriers are offered one task.
	DefaultCandidateLimit = 5
	// DefaultMaxPositionAge is how fresh a courier's position report must be
	// for the courier to count as reachable.
	DefaultMaxPositionAge = 15 * time.Minute
)

// Candidate is one ranked courier for a delivery task, with the straight-line
// distance from the courier to the pickup point and the vehicle-based ride
// estimate.
type Candidate struct {
	Courier           *courier.Courier
	DistanceM         float64
	EstimatedDuration time.Duration
}

// DeliveryDispatcher is a domain service that ranks couriers for an
// unassigned delivery task. It is a pure ranking: it never assigns anything.
// The task is offered to every ranked candidate and the first courier to
// accept wins the compare-and-swap in the persistence layer.
//
// Ranking rules:
//   - only available couriers with a fresh, valid position are considered
//   - only couriers within the search radius of the pickup point qualify
//   - nearest courier first; ties go to the lower completed-delivery count,
//     spreading work toward couriers who have delivered less
//   - at most limit candidates are returned
type DeliveryDispatcher struct {
	radiusM        float64
	limit          int
	maxPositionAge time.Duration
}

// NewDeliveryDispatcher creates a dispatcher with the marketplace defaults.
func NewDeliveryDispatcher() DeliveryDispatcher {
	return DeliveryDispatcher{
		radiusM:        DefaultSearchRadiusM,
		limit:          DefaultCandidateLimit,
		maxPositionAge: DefaultMaxPositionAge,
	}
}

// NewDeliveryDispatcherWith creates a dispatcher with explicit tuning, used
// by configuration and tests. Non-positive values fall back to the defaults.
func NewDeliveryDispatcherWith(radiusM float64, limit int, maxPositionAge time.Duration) DeliveryDispatcher {
	d := NewDeliveryDispatcher()
	if radiusM > 0 {
		d.radiusM = radiusM
	}
	if limit > 0 {
		d.limit = limit
	}
	if maxPositionAge > 0 {
		d.maxPositionAge = maxPositionAge
	}
	return d
}

// RadiusM returns the search radius in meters.
func (d DeliveryDispatcher) RadiusM() float64 {
	return d.radiusM
}

// RankCandidates returns the couriers eligible for the task, nearest first.
// An empty result is not an error: the task simply stays in the pool until a
// courier comes online nearby.
func (d DeliveryDispatcher) RankCandidates(
	task *delivery.Delivery,
	couriers []*courier.Courier,
	now time.Time,
) ([]Candidate, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	pickup := task.PickupPoint()
	if pickup == nil {
		// Degraded task: without a pickup point there is no proximity to
		// rank by. It stays in the pool for manual pickup.
		return nil, nil
	}
	candidates := make([]Candidate, 0, len(couriers))

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsDispatchable(now, d.maxPositionAge) {
			continue
		}

		distance, err := c.Position().DistanceTo(*pickup)
		if err != nil {
			return nil, err
		}
		if distance > d.radiusM {
			continue
		}

		candidates = append(candidates, Candidate{
			Courier:           c,
			DistanceM:         distance,
			EstimatedDuration: c.Vehicle().EstimateDuration(distance),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].DistanceM != candidates[j].DistanceM {
			return candidates[i].DistanceM < candidates[j].DistanceM
		}
		return candidates[i].Courier.CompletedCount() < candidates[j].Courier.CompletedCount()
	})

	if len(candidates) > d.limit {
		candidates = candidates[:d.limit]
	}
	return candidates, nil
}
