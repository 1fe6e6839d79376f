package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newCreatedOrder builds an order in the created state for the given merchant.
func newCreatedOrder(t *testing.T, clientID, merchantID kernel.UUID, now time.Time) *order.Order {
	t.Helper()

	drop, err := kernel.NewGeoPoint(6.1725, 1.2314)
	require.NoError(t, err)

	item, err := order.NewLineItem(kernel.NewUUID(), "Rice 5kg", 2, decimal.NewFromInt(1500))
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), clientID, merchantID,
		"12 Rue du Commerce", &drop, "leave at the gate",
		order.PaymentCash, []order.LineItem{item}, now,
	)
	require.NoError(t, err)
	return o
}

// newUnassignedDelivery builds a pooled task with a pickup point.
func newUnassignedDelivery(t *testing.T, orderID kernel.UUID, now time.Time) *delivery.Delivery {
	t.Helper()

	pickup, err := kernel.NewGeoPoint(6.1319, 1.2228)
	require.NoError(t, err)
	drop, err := kernel.NewGeoPoint(6.1725, 1.2314)
	require.NoError(t, err)

	d, err := delivery.NewDelivery(
		kernel.NewUUID(), orderID,
		"Marché d'Adawlato", &pickup, "12 Rue du Commerce", &drop,
		"call on arrival", delivery.DefaultFee(), now,
	)
	require.NoError(t, err)
	return d
}

// newDispatchableCourier builds an available courier with a fresh position.
func newDispatchableCourier(t *testing.T, id kernel.UUID, lat, lon float64, now time.Time) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(id, "Kossi", "+22890112233", courier.VehicleMotorbike, now)
	require.NoError(t, err)
	c.SetAvailability(true, true, now)

	point, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	_, err = c.UpdatePosition(point, now, nil, now)
	require.NoError(t, err)
	return c
}
