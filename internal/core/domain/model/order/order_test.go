package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, name string, quantity int, price string) order.LineItem {
	t.Helper()
	unitPrice, err := decimal.NewFromString(price)
	require.NoError(t, err)
	item, err := order.NewLineItem(kernel.NewUUID(), name, quantity, unitPrice)
	require.NoError(t, err)
	return item
}

func newTestOrder(t *testing.T) (*order.Order, kernel.UUID, kernel.UUID) {
	t.Helper()
	clientID := kernel.NewUUID()
	merchantID := kernel.NewUUID()
	items := []order.LineItem{
		mustItem(t, "Attiéké poisson", 2, "1500.00"),
		mustItem(t, "Sodabi", 1, "800.00"),
	}

	o, err := order.NewOrder(
		kernel.NewUUID(), clientID, merchantID,
		"12 Rue du Commerce, Lomé", nil, "call on arrival",
		order.PaymentCash, items, time.Now(),
	)
	require.NoError(t, err)
	return o, clientID, merchantID
}

func merchantActor(t *testing.T, id kernel.UUID) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.RoleMerchant, id)
	require.NoError(t, err)
	return actor
}

func clientActor(t *testing.T, id kernel.UUID) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.RoleClient, id)
	require.NoError(t, err)
	return actor
}

func TestNewOrder(t *testing.T) {
	t.Run("should create order in created state", func(t *testing.T) {
		o, _, _ := newTestOrder(t)

		assert.Equal(t, order.StatusCreated, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Len(t, o.Items(), 2)
	})

	t.Run("should derive a stable reference from the id", func(t *testing.T) {
		o, _, _ := newTestOrder(t)

		assert.Len(t, o.Reference(), len("ORD-")+8)
		assert.Contains(t, o.Reference(), "ORD-")
	})

	t.Run("should total the line item subtotals", func(t *testing.T) {
		o, _, _ := newTestOrder(t)

		// 2×1500 + 1×800
		assert.True(t, o.Total().Equal(decimal.RequireFromString("3800.00")),
			"got %s", o.Total())
	})

	t.Run("should reject empty item list", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			"somewhere", nil, "",
			order.PaymentCash, nil, time.Now(),
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject empty delivery address", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			"", nil, "",
			order.PaymentCash, []order.LineItem{mustItem(t, "x", 1, "100")}, time.Now(),
		)

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var o order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrderAddItem(t *testing.T) {
	t.Run("should append while created", func(t *testing.T) {
		o, _, _ := newTestOrder(t)

		err := o.AddItem(mustItem(t, "Bissap", 3, "250.00"))

		require.NoError(t, err)
		assert.Len(t, o.Items(), 3)
	})

	t.Run("should lock items once validated", func(t *testing.T) {
		o, _, merchantID := newTestOrder(t)
		require.NoError(t, o.Transition(order.StatusValidated, merchantActor(t, merchantID), time.Now()))

		err := o.AddItem(mustItem(t, "Bissap", 3, "250.00"))

		assert.ErrorIs(t, err, order.ErrItemsLocked)
		assert.Len(t, o.Items(), 2)
	})
}

func TestOrderTransition(t *testing.T) {
	t.Run("should walk the merchant lifecycle", func(t *testing.T) {
		o, _, merchantID := newTestOrder(t)
		merchant := merchantActor(t, merchantID)
		now := time.Now()

		require.NoError(t, o.Transition(order.StatusValidated, merchant, now))
		require.NoError(t, o.Transition(order.StatusPreparing, merchant, now))
		require.NoError(t, o.Transition(order.StatusReady, merchant, now))
		require.NoError(t, o.Transition(order.StatusInDelivery, kernel.SystemActor(), now))
		require.NoError(t, o.Transition(order.StatusDelivered, kernel.SystemActor(), now))

		assert.Equal(t, order.StatusDelivered, o.Status())
		assert.True(t, o.Status().IsTerminal())
	})

	t.Run("should allow system shortcut from validated to in_delivery", func(t *testing.T) {
		o, _, merchantID := newTestOrder(t)
		require.NoError(t, o.Transition(order.StatusValidated, merchantActor(t, merchantID), time.Now()))

		err := o.Transition(order.StatusInDelivery, kernel.SystemActor(), time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.StatusInDelivery, o.Status())
	})

	t.Run("should reject skipping validation", func(t *testing.T) {
		o, _, merchantID := newTestOrder(t)

		err := o.Transition(order.StatusPreparing, merchantActor(t, merchantID), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.StatusCreated, o.Status())
	})

	t.Run("should forbid another merchant", func(t *testing.T) {
		o, _, _ := newTestOrder(t)

		err := o.Transition(order.StatusValidated, merchantActor(t, kernel.NewUUID()), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("should forbid merchant marking delivered directly", func(t *testing.T) {
		o, _, merchantID := newTestOrder(t)
		merchant := merchantActor(t, merchantID)
		now := time.Now()
		require.NoError(t, o.Transition(order.StatusValidated, merchant, now))
		require.NoError(t, o.Transition(order.StatusInDelivery, kernel.SystemActor(), now))

		err := o.Transition(order.StatusDelivered, merchant, now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.StatusInDelivery, o.Status())
	})

	t.Run("should reject transitions out of terminal states", func(t *testing.T) {
		o, clientID, _ := newTestOrder(t)
		require.NoError(t, o.Transition(order.StatusCancelled, clientActor(t, clientID), time.Now()))

		err := o.Transition(order.StatusValidated, kernel.SystemActor(), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("client may cancel while created", func(t *testing.T) {
		o, clientID, _ := newTestOrder(t)

		err := o.Transition(order.StatusCancelled, clientActor(t, clientID), time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, o.Status())
	})

	t.Run("client may cancel while validated", func(t *testing.T) {
		o, clientID, merchantID := newTestOrder(t)
		require.NoError(t, o.Transition(order.StatusValidated, merchantActor(t, merchantID), time.Now()))

		err := o.Transition(order.StatusCancelled, clientActor(t, clientID), time.Now())

		require.NoError(t, err)
	})

	t.Run("client may not cancel once preparing", func(t *testing.T) {
		o, clientID, merchantID := newTestOrder(t)
		merchant := merchantActor(t, merchantID)
		require.NoError(t, o.Transition(order.StatusValidated, merchant, time.Now()))
		require.NoError(t, o.Transition(order.StatusPreparing, merchant, time.Now()))

		err := o.Transition(order.StatusCancelled, clientActor(t, clientID), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.StatusPreparing, o.Status())
	})

	t.Run("merchant may cancel while preparing", func(t *testing.T) {
		o, _, merchantID := newTestOrder(t)
		merchant := merchantActor(t, merchantID)
		require.NoError(t, o.Transition(order.StatusValidated, merchant, time.Now()))
		require.NoError(t, o.Transition(order.StatusPreparing, merchant, time.Now()))

		err := o.Transition(order.StatusCancelled, merchant, time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, o.Status())
	})

	t.Run("another client may not cancel", func(t *testing.T) {
		o, _, _ := newTestOrder(t)

		err := o.Transition(order.StatusCancelled, clientActor(t, kernel.NewUUID()), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("cancel once ready is an invalid transition", func(t *testing.T) {
		o, _, merchantID := newTestOrder(t)
		merchant := merchantActor(t, merchantID)
		require.NoError(t, o.Transition(order.StatusValidated, merchant, time.Now()))
		require.NoError(t, o.Transition(order.StatusPreparing, merchant, time.Now()))
		require.NoError(t, o.Transition(order.StatusReady, merchant, time.Now()))

		err := o.Transition(order.StatusCancelled, merchant, time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrderEvents(t *testing.T) {
	t.Run("should record validated event", func(t *testing.T) {
		o, _, merchantID := newTestOrder(t)
		require.NoError(t, o.Transition(order.StatusValidated, merchantActor(t, merchantID), time.Now()))

		events := o.Events()
		require.Len(t, events, 1)
		validated, ok := events[0].(order.ValidatedEvent)
		require.True(t, ok)
		assert.True(t, validated.OrderID.IsEqual(o.ID()))
		assert.Equal(t, "order.validated", validated.EventName())
	})

	t.Run("should record cancelled event with the actor", func(t *testing.T) {
		o, clientID, _ := newTestOrder(t)
		client := clientActor(t, clientID)
		require.NoError(t, o.Transition(order.StatusCancelled, client, time.Now()))

		events := o.Events()
		require.Len(t, events, 1)
		cancelled, ok := events[0].(order.CancelledEvent)
		require.True(t, ok)
		assert.Equal(t, kernel.RoleClient, cancelled.Actor.Role())
	})

	t.Run("clear drops dispatched events", func(t *testing.T) {
		o, _, merchantID := newTestOrder(t)
		require.NoError(t, o.Transition(order.StatusValidated, merchantActor(t, merchantID), time.Now()))

		o.ClearEvents()

		assert.Empty(t, o.Events())
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should capture loaded status for the update guard", func(t *testing.T) {
		id := kernel.NewUUID()
		items := []order.LineItem{mustItem(t, "x", 1, "100")}

		restored, err := order.RestoreOrder(
			id, kernel.NewUUID(), kernel.NewUUID(), "ORD-ABCD1234",
			"addr", nil, "", order.PaymentMobileMoney, order.PaymentPaid,
			items, order.StatusPreparing, time.Now(), time.Now(),
		)

		require.NoError(t, err)
		assert.Equal(t, order.StatusPreparing, restored.Status())
		assert.Equal(t, order.StatusPreparing, restored.LoadedStatus())
		assert.Equal(t, order.PaymentPaid, restored.PaymentStatus())
	})

	t.Run("should reject invalid stored status", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "ORD-X",
			"addr", nil, "", order.PaymentCash, order.PaymentPending,
			nil, order.StatusUnknown, time.Now(), time.Now(),
		)

		require.Error(t, err)
	})
}

func TestLineItem(t *testing.T) {
	t.Run("should compute subtotal", func(t *testing.T) {
		item := mustItem(t, "Gari", 4, "325.50")

		assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("1302.00")))
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		_, err := order.NewLineItem(kernel.NewUUID(), "Gari", 0, decimal.NewFromInt(100))
		require.Error(t, err)
	})

	t.Run("should reject negative unit price", func(t *testing.T) {
		_, err := order.NewLineItem(kernel.NewUUID(), "Gari", 1, decimal.NewFromInt(-1))
		require.Error(t, err)
	})
}
