package commands_test

import (
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	clientID := kernel.NewUUID()
	merchantID := kernel.NewUUID()
	testOrder := newCreatedOrder(t, clientID, merchantID, now)

	pickup, err := kernel.NewGeoPoint(6.1319, 1.2228)
	require.NoError(t, err)

	nearID := kernel.NewUUID()
	near := newDispatchableCourier(t, nearID, 6.1410, 1.2228, now)

	orderRepo := new(MockOrderRepository)
	deliveryRepo := new(MockDeliveryRepository)
	courierRepo := new(MockCourierRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("NotificationRepository").Return(notificationRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	var createdTask *delivery.Delivery
	deliveryRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).
		Run(func(args mock.Arguments) {
			createdTask = args.Get(1).(*delivery.Delivery)
		}).
		Return(nil).Once()

	courierRepo.On("GetAllAvailable", ctx, (*courier.VehicleType)(nil)).Return([]*courier.Courier{near}, nil).Once()

	var offers []*notification.Notification
	notificationRepo.On("AddBatch", ctx, mock.AnythingOfType("[]*notification.Notification")).
		Run(func(args mock.Arguments) {
			offers = args.Get(1).([]*notification.Notification)
		}).
		Return(nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	directory := new(MockDirectory)
	directory.On("Lookup", ctx, merchantID).Return(ports.MerchantInfo{
		ID:      merchantID,
		Name:    "Marché d'Adawlato",
		Address: "Marché d'Adawlato, Lomé",
		Point:   &pickup,
	}, nil).Once()

	handler := commands.NewValidateOrderCommandHandler(
		factory, directory, services.NewDeliveryDispatcher(), delivery.DefaultFee(), discardLogger(),
	)

	cmd, err := commands.NewValidateOrderCommand(testOrder.ID(), merchantID)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.StatusValidated, testOrder.Status())

	require.NotNil(t, createdTask)
	assert.Equal(t, testOrder.ID(), createdTask.OrderID())
	assert.Equal(t, delivery.StatusUnassigned, createdTask.Status())
	require.NotNil(t, createdTask.PickupPoint())
	require.NotNil(t, createdTask.DistanceM())

	require.Len(t, offers, 1)
	assert.Equal(t, nearID, offers[0].CourierID())
	assert.Equal(t, notification.TypeNewDeliveryAvailable, offers[0].Type())
	require.NotNil(t, offers[0].Payload().DeliveryID)
	assert.Equal(t, createdTask.ID(), *offers[0].Payload().DeliveryID)
	require.NotNil(t, offers[0].Payload().DistanceM)

	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	deliveryRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
	directory.AssertExpectations(t)
}

func TestValidateOrderCommandHandler_Handle_DirectoryFailureDegrades(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	merchantID := kernel.NewUUID()
	testOrder := newCreatedOrder(t, kernel.NewUUID(), merchantID, now)
	rider := newDispatchableCourier(t, kernel.NewUUID(), 6.1410, 1.2228, now)

	orderRepo := new(MockOrderRepository)
	deliveryRepo := new(MockDeliveryRepository)
	courierRepo := new(MockCourierRepository)
	notificationRepo := new(MockNotificationRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	var createdTask *delivery.Delivery
	deliveryRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).
		Run(func(args mock.Arguments) {
			createdTask = args.Get(1).(*delivery.Delivery)
		}).
		Return(nil).Once()

	courierRepo.On("GetAllAvailable", ctx, (*courier.VehicleType)(nil)).Return([]*courier.Courier{rider}, nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	directory := new(MockDirectory)
	directory.On("Lookup", ctx, merchantID).
		Return(ports.MerchantInfo{}, errors.New("directory unreachable")).Once()

	handler := commands.NewValidateOrderCommandHandler(
		factory, directory, services.NewDeliveryDispatcher(), delivery.DefaultFee(), discardLogger(),
	)

	cmd, err := commands.NewValidateOrderCommand(testOrder.ID(), merchantID)
	require.NoError(t, err)

	// The cascade must succeed; only the fan-out is skipped.
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.StatusValidated, testOrder.Status())
	require.NotNil(t, createdTask)
	assert.Nil(t, createdTask.PickupPoint())
	assert.Nil(t, createdTask.DistanceM())
	notificationRepo.AssertNotCalled(t, "AddBatch", mock.Anything, mock.Anything)
}

func TestValidateOrderCommandHandler_Handle_WrongMerchant(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	testOrder := newCreatedOrder(t, kernel.NewUUID(), kernel.NewUUID(), now)
	intruderID := kernel.NewUUID()

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewValidateOrderCommandHandler(
		factory, new(MockDirectory), services.NewDeliveryDispatcher(), delivery.DefaultFee(), discardLogger(),
	)

	cmd, err := commands.NewValidateOrderCommand(testOrder.ID(), intruderID)
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, order.StatusCreated, testOrder.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestValidateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.ValidateOrderCommand{} // not constructed properly

	factory := new(MockDispatchUoWFactory)
	handler := commands.NewValidateOrderCommandHandler(
		factory, new(MockDirectory), services.NewDeliveryDispatcher(), delivery.DefaultFee(), discardLogger(),
	)

	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrValidateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
