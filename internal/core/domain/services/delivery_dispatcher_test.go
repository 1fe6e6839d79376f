package services_test

import (
	"fmt"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPooledDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	pickup, err := kernel.NewGeoPoint(6.1319, 1.2228)
	require.NoError(t, err)

	d, err := delivery.NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(),
		"Marché d'Adawlato", &pickup, "12 Rue du Commerce", nil,
		"call on arrival", decimal.Zero, time.Now(),
	)
	require.NoError(t, err)
	return d
}

// courierAt creates an available courier positioned at the given coordinates
// with a fresh position report.
func courierAt(t *testing.T, name string, lat, lon float64, now time.Time) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name, "+228", courier.VehicleMotorbike, now)
	require.NoError(t, err)
	c.SetAvailability(true, true, now)

	point, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	_, err = c.UpdatePosition(point, now, nil, now)
	require.NoError(t, err)
	return c
}

func TestDeliveryDispatcher_RankCandidates(t *testing.T) {
	now := time.Now()
	dispatcher := services.NewDeliveryDispatcher()

	t.Run("ranks nearest courier first", func(t *testing.T) {
		task := newPooledDelivery(t)
		near := courierAt(t, "near", 6.1410, 1.2228, now)   // ~1 km
		medium := courierAt(t, "medium", 6.1600, 1.2228, now) // ~3 km
		far := courierAt(t, "far", 6.1319, 1.2700, now)     // ~5 km

		candidates, err := dispatcher.RankCandidates(task, []*courier.Courier{far, near, medium}, now)

		require.NoError(t, err)
		require.Len(t, candidates, 3)
		assert.Equal(t, "near", candidates[0].Courier.Name())
		assert.Equal(t, "medium", candidates[1].Courier.Name())
		assert.Equal(t, "far", candidates[2].Courier.Name())
		assert.Less(t, candidates[0].DistanceM, candidates[1].DistanceM)
	})

	t.Run("excludes couriers outside the radius", func(t *testing.T) {
		task := newPooledDelivery(t)
		inside := courierAt(t, "inside", 6.1410, 1.2228, now) // ~1 km
		outside := courierAt(t, "outside", 6.50, 1.2228, now) // ~41 km

		candidates, err := dispatcher.RankCandidates(task, []*courier.Courier{inside, outside}, now)

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "inside", candidates[0].Courier.Name())
	})

	t.Run("excludes unavailable couriers", func(t *testing.T) {
		task := newPooledDelivery(t)
		offDuty := courierAt(t, "off-duty", 6.1410, 1.2228, now)
		offDuty.SetAvailability(false, false, now)

		candidates, err := dispatcher.RankCandidates(task, []*courier.Courier{offDuty}, now)

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("excludes couriers with stale positions", func(t *testing.T) {
		task := newPooledDelivery(t)
		stale, err := courier.NewCourier(kernel.NewUUID(), "stale", "+228", courier.VehicleMotorbike, now)
		require.NoError(t, err)
		stale.SetAvailability(true, true, now)
		point, _ := kernel.NewGeoPoint(6.1410, 1.2228)
		_, err = stale.UpdatePosition(point, now.Add(-time.Hour), nil, now)
		require.NoError(t, err)

		candidates, err := dispatcher.RankCandidates(task, []*courier.Courier{stale}, now)

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("excludes couriers that never reported a position", func(t *testing.T) {
		task := newPooledDelivery(t)
		fresh, err := courier.NewCourier(kernel.NewUUID(), "fresh", "+228", courier.VehicleMotorbike, now)
		require.NoError(t, err)
		fresh.SetAvailability(true, true, now)

		candidates, err := dispatcher.RankCandidates(task, []*courier.Courier{fresh}, now)

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("caps the fan-out at five candidates", func(t *testing.T) {
		task := newPooledDelivery(t)
		couriers := make([]*courier.Courier, 0, 8)
		for i := 0; i < 8; i++ {
			lat := 6.1330 + float64(i)*0.003
			couriers = append(couriers, courierAt(t, fmt.Sprintf("c%d", i), lat, 1.2228, now))
		}

		candidates, err := dispatcher.RankCandidates(task, couriers, now)

		require.NoError(t, err)
		assert.Len(t, candidates, services.DefaultCandidateLimit)
		// The five retained must be the five nearest.
		assert.Equal(t, "c0", candidates[0].Courier.Name())
		assert.Equal(t, "c4", candidates[4].Courier.Name())
	})

	t.Run("breaks distance ties toward the less-worked courier", func(t *testing.T) {
		task := newPooledDelivery(t)
		veteran := courierAt(t, "veteran", 6.1410, 1.2228, now)
		rookie := courierAt(t, "rookie", 6.1410, 1.2228, now)
		for i := 0; i < 10; i++ {
			veteran.RecordCompletedDelivery(now)
		}

		candidates, err := dispatcher.RankCandidates(task, []*courier.Courier{veteran, rookie}, now)

		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, "rookie", candidates[0].Courier.Name())
		assert.Equal(t, "veteran", candidates[1].Courier.Name())
	})

	t.Run("degraded task without a pickup point yields no candidates", func(t *testing.T) {
		task, err := delivery.NewDelivery(
			kernel.NewUUID(), kernel.NewUUID(),
			"Marché d'Adawlato", nil, "12 Rue du Commerce", nil,
			"", decimal.Zero, time.Now(),
		)
		require.NoError(t, err)
		rider := courierAt(t, "rider", 6.1410, 1.2228, now)

		candidates, err := dispatcher.RankCandidates(task, []*courier.Courier{rider}, now)

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("empty pool yields no candidates and no error", func(t *testing.T) {
		task := newPooledDelivery(t)

		candidates, err := dispatcher.RankCandidates(task, nil, now)

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("attaches vehicle based duration estimates", func(t *testing.T) {
		task := newPooledDelivery(t)
		rider := courierAt(t, "rider", 6.1410, 1.2228, now)

		candidates, err := dispatcher.RankCandidates(task, []*courier.Courier{rider}, now)

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		expected := rider.Vehicle().EstimateDuration(candidates[0].DistanceM)
		assert.Equal(t, expected, candidates[0].EstimatedDuration)
	})
}
