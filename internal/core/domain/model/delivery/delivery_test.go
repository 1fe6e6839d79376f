package delivery_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	pickup, err := kernel.NewGeoPoint(6.1319, 1.2228)
	require.NoError(t, err)

	d, err := delivery.NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(),
		"Marché d'Adawlato", &pickup,
		"12 Rue du Commerce", nil,
		"call on arrival", decimal.Zero, time.Now(),
	)
	require.NoError(t, err)
	return d
}

func courierActor(t *testing.T, id kernel.UUID) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.RoleCourier, id)
	require.NoError(t, err)
	return actor
}

func TestNewDelivery(t *testing.T) {
	t.Run("should start unassigned with the default fee", func(t *testing.T) {
		d := newTestDelivery(t)

		assert.Equal(t, delivery.StatusUnassigned, d.Status())
		assert.Nil(t, d.CourierID())
		assert.True(t, d.Fee().Equal(delivery.DefaultFee()))
	})

	t.Run("should keep an explicit fee", func(t *testing.T) {
		pickup, _ := kernel.NewGeoPoint(6.1319, 1.2228)
		d, err := delivery.NewDelivery(
			kernel.NewUUID(), kernel.NewUUID(),
			"pickup", &pickup, "dropoff", nil,
			"", decimal.NewFromInt(750), time.Now(),
		)

		require.NoError(t, err)
		assert.True(t, d.Fee().Equal(decimal.NewFromInt(750)))
	})

	t.Run("should reject empty pickup address", func(t *testing.T) {
		pickup, _ := kernel.NewGeoPoint(6.1319, 1.2228)
		_, err := delivery.NewDelivery(
			kernel.NewUUID(), kernel.NewUUID(),
			"", &pickup, "dropoff", nil,
			"", decimal.Zero, time.Now(),
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var d delivery.Delivery
		assert.ErrorIs(t, d.Validate(), delivery.ErrDeliveryIsNotConstructed)
	})
}

func TestDeliveryAssign(t *testing.T) {
	t.Run("should assign a courier to an unassigned task", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()

		err := d.Assign(courierID, time.Now())

		require.NoError(t, err)
		assert.Equal(t, delivery.StatusAssigned, d.Status())
		require.NotNil(t, d.CourierID())
		assert.True(t, d.CourierID().IsEqual(courierID))
		assert.NotNil(t, d.AssignedAt())
	})

	t.Run("should reject assigning an already assigned task", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.Assign(kernel.NewUUID(), time.Now()))

		err := d.Assign(kernel.NewUUID(), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestDeliveryAccept(t *testing.T) {
	t.Run("assigned courier accepts", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		require.NoError(t, d.Assign(courierID, time.Now()))

		err := d.Accept(courierActor(t, courierID), time.Now())

		require.NoError(t, err)
		assert.Equal(t, delivery.StatusAccepted, d.Status())
		assert.NotNil(t, d.AcceptedAt())
	})

	t.Run("another courier is forbidden", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.Assign(kernel.NewUUID(), time.Now()))

		err := d.Accept(courierActor(t, kernel.NewUUID()), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, delivery.StatusAssigned, d.Status())
	})

	t.Run("accepting an unassigned task is forbidden", func(t *testing.T) {
		d := newTestDelivery(t)

		err := d.Accept(courierActor(t, kernel.NewUUID()), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestDeliveryRefuse(t *testing.T) {
	t.Run("refusal returns the task to the pool", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		require.NoError(t, d.Assign(courierID, time.Now()))
		require.NoError(t, d.SetEstimates(1200, 3*time.Minute))

		err := d.Refuse(courierActor(t, courierID), time.Now())

		require.NoError(t, err)
		assert.Equal(t, delivery.StatusUnassigned, d.Status())
		assert.Nil(t, d.CourierID())
		assert.Nil(t, d.AssignedAt())
		assert.Nil(t, d.DistanceM())
	})

	t.Run("refusal after acceptance also returns to the pool", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		courier := courierActor(t, courierID)
		require.NoError(t, d.Assign(courierID, time.Now()))
		require.NoError(t, d.Accept(courier, time.Now()))

		err := d.Refuse(courier, time.Now())

		require.NoError(t, err)
		assert.Equal(t, delivery.StatusUnassigned, d.Status())
		assert.Nil(t, d.AcceptedAt())
	})

	t.Run("a re-pooled task can be assigned again", func(t *testing.T) {
		d := newTestDelivery(t)
		first := kernel.NewUUID()
		require.NoError(t, d.Assign(first, time.Now()))
		require.NoError(t, d.Refuse(courierActor(t, first), time.Now()))

		second := kernel.NewUUID()
		err := d.Assign(second, time.Now())

		require.NoError(t, err)
		assert.True(t, d.CourierID().IsEqual(second))
	})

	t.Run("refusal after pickup is an invalid transition", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		courier := courierActor(t, courierID)
		require.NoError(t, d.Assign(courierID, time.Now()))
		require.NoError(t, d.Accept(courier, time.Now()))
		require.NoError(t, d.Start(courier, time.Now()))

		err := d.Refuse(courier, time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestDeliveryExecution(t *testing.T) {
	t.Run("full happy path", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		courier := courierActor(t, courierID)
		now := time.Now()

		require.NoError(t, d.Assign(courierID, now))
		require.NoError(t, d.Accept(courier, now))
		require.NoError(t, d.Start(courier, now))
		require.NoError(t, d.Complete(courier, "proof/abc.jpg", "sig/abc.png", now))

		assert.Equal(t, delivery.StatusCompleted, d.Status())
		assert.NotNil(t, d.CompletedAt())
		assert.Equal(t, "proof/abc.jpg", d.ProofRef())
		assert.Equal(t, "sig/abc.png", d.SignatureRef())
		assert.True(t, d.Status().IsTerminal())
	})

	t.Run("starting before acceptance is rejected", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		require.NoError(t, d.Assign(courierID, time.Now()))

		err := d.Start(courierActor(t, courierID), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("failing an in-progress delivery records the reason", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		courier := courierActor(t, courierID)
		require.NoError(t, d.Assign(courierID, time.Now()))
		require.NoError(t, d.Accept(courier, time.Now()))
		require.NoError(t, d.Start(courier, time.Now()))

		err := d.Fail(courier, "recipient unreachable", time.Now())

		require.NoError(t, err)
		assert.Equal(t, delivery.StatusFailed, d.Status())
		assert.Equal(t, "recipient unreachable", d.FailureReason())
	})
}

func TestDeliveryCancel(t *testing.T) {
	t.Run("system cancels a pooled task", func(t *testing.T) {
		d := newTestDelivery(t)

		err := d.Cancel(kernel.SystemActor(), time.Now())

		require.NoError(t, err)
		assert.Equal(t, delivery.StatusCancelled, d.Status())
	})

	t.Run("courier cannot cancel", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		require.NoError(t, d.Assign(courierID, time.Now()))

		err := d.Cancel(courierActor(t, courierID), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("cancel after pickup is an invalid transition", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		courier := courierActor(t, courierID)
		require.NoError(t, d.Assign(courierID, time.Now()))
		require.NoError(t, d.Accept(courier, time.Now()))
		require.NoError(t, d.Start(courier, time.Now()))

		err := d.Cancel(kernel.SystemActor(), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestDeliveryEvents(t *testing.T) {
	t.Run("records the lifecycle as events", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		courier := courierActor(t, courierID)
		now := time.Now()

		require.NoError(t, d.Assign(courierID, now))
		require.NoError(t, d.Accept(courier, now))
		require.NoError(t, d.Start(courier, now))
		require.NoError(t, d.Complete(courier, "", "", now))

		events := d.Events()
		require.Len(t, events, 4)
		assert.Equal(t, "delivery.assigned", events[0].EventName())
		assert.Equal(t, "delivery.accepted", events[1].EventName())
		assert.Equal(t, "delivery.started", events[2].EventName())
		assert.Equal(t, "delivery.completed", events[3].EventName())

		completed, ok := events[3].(delivery.CompletedEvent)
		require.True(t, ok)
		assert.True(t, completed.CourierID.IsEqual(courierID))
	})
}

func TestRestoreDelivery(t *testing.T) {
	t.Run("captures loaded status for the update guard", func(t *testing.T) {
		pickup, _ := kernel.NewGeoPoint(6.1319, 1.2228)
		courierID := kernel.NewUUID()
		now := time.Now()

		d, err := delivery.RestoreDelivery(
			kernel.NewUUID(), kernel.NewUUID(),
			"pickup", &pickup, "dropoff", nil,
			"", delivery.DefaultFee(), &courierID,
			nil, nil, delivery.StatusAssigned,
			&now, nil, nil, nil, "", "", "", now, now,
		)

		require.NoError(t, err)
		assert.Equal(t, delivery.StatusAssigned, d.Status())
		assert.Equal(t, delivery.StatusAssigned, d.LoadedStatus())
	})
}

func TestEvaluation(t *testing.T) {
	t.Run("should create with valid note and sub scores", func(t *testing.T) {
		e, err := delivery.NewEvaluation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			4, 5, 4, 3, "solid", time.Now(),
		)

		require.NoError(t, err)
		assert.Equal(t, 4, e.Note())
		assert.Equal(t, 5, e.Punctuality())
		assert.Equal(t, 4, e.Professionalism())
		assert.Equal(t, 3, e.PackageCare())
	})

	t.Run("note is the client's verdict, not a sub-score average", func(t *testing.T) {
		e, err := delivery.NewEvaluation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			2, 5, 5, 5, "fast but left the package in the rain", time.Now(),
		)

		require.NoError(t, err)
		assert.Equal(t, 2, e.Note())
	})

	t.Run("should reject out of range scores", func(t *testing.T) {
		_, err := delivery.NewEvaluation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			6, 4, 4, 3, "", time.Now(),
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = delivery.NewEvaluation(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			5, 5, 0, 3, "", time.Now(),
		)
		require.Error(t, err)
	})
}
