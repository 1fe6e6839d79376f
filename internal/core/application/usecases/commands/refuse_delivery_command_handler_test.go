package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func acceptedTaskForOrder(t *testing.T, o *order.Order, courierID kernel.UUID, now time.Time) *delivery.Delivery {
	t.Helper()

	task := newUnassignedDelivery(t, o.ID(), now)
	courierActor, err := kernel.NewActor(kernel.RoleCourier, courierID)
	require.NoError(t, err)
	require.NoError(t, task.Assign(courierID, now))
	require.NoError(t, task.Accept(courierActor, now))
	// A repository load hands back an aggregate with no pending events.
	task.ClearEvents()
	return task
}

func TestRefuseDeliveryCommandHandler_Handle_ReturnsTaskToPool(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	merchantID := kernel.NewUUID()
	testOrder := newCreatedOrder(t, kernel.NewUUID(), merchantID, now)
	merchant, err := kernel.NewActor(kernel.RoleMerchant, merchantID)
	require.NoError(t, err)
	require.NoError(t, testOrder.Transition(order.StatusValidated, merchant, now))

	courierID := kernel.NewUUID()
	task := acceptedTaskForOrder(t, testOrder, courierID, now)

	orderRepo := new(MockOrderRepository)
	deliveryRepo := new(MockDeliveryRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("NotificationRepository").Return(notificationRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveryRepo.On("Get", ctx, task.ID()).Return(task, nil).Once()
	deliveryRepo.On("Update", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once()
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRefuseDeliveryCommandHandler(factory)

	cmd, err := commands.NewRefuseDeliveryCommand(task.ID(), courierID)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, delivery.StatusUnassigned, task.Status())
	assert.Nil(t, task.CourierID())
	// A refusal re-pools the task silently, no courier-facing message goes out.
	notificationRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestRefuseDeliveryCommandHandler_Handle_OrderAlreadyCancelled(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	merchantID := kernel.NewUUID()
	testOrder := newCreatedOrder(t, kernel.NewUUID(), merchantID, now)
	merchant, err := kernel.NewActor(kernel.RoleMerchant, merchantID)
	require.NoError(t, err)
	require.NoError(t, testOrder.Transition(order.StatusValidated, merchant, now))

	courierID := kernel.NewUUID()
	task := acceptedTaskForOrder(t, testOrder, courierID, now)

	// The merchant cancelled while the courier held the task.
	require.NoError(t, testOrder.Transition(order.StatusCancelled, merchant, now))

	orderRepo := new(MockOrderRepository)
	deliveryRepo := new(MockDeliveryRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("NotificationRepository").Return(notificationRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveryRepo.On("Get", ctx, task.ID()).Return(task, nil).Once()
	deliveryRepo.On("Update", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once()
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRefuseDeliveryCommandHandler(factory)

	cmd, err := commands.NewRefuseDeliveryCommand(task.ID(), courierID)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	// The refusal of a dead order's task terminates it instead of re-pooling.
	assert.Equal(t, delivery.StatusCancelled, task.Status())
	uow.AssertExpectations(t)
}
