package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// completedTask builds a delivery in the completed state held by courierID.
func completedTask(t *testing.T, courierID kernel.UUID, now time.Time) *delivery.Delivery {
	t.Helper()

	task := newUnassignedDelivery(t, kernel.NewUUID(), now)
	courierActor, err := kernel.NewActor(kernel.RoleCourier, courierID)
	require.NoError(t, err)
	require.NoError(t, task.Assign(courierID, now))
	require.NoError(t, task.Accept(courierActor, now))
	require.NoError(t, task.Start(courierActor, now))
	require.NoError(t, task.Complete(courierActor, "", "", now))
	return task
}

func TestCreateEvaluationCommandHandler_Handle_RecomputesRating(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	courierID := kernel.NewUUID()
	rider := newDispatchableCourier(t, courierID, 6.1319, 1.2228, now)
	task := completedTask(t, courierID, now)
	clientID := kernel.NewUUID()

	// An older note of 2 already on record; the new note of 4 lands the
	// courier on (2 + 4) / 2 = 3.00. The prior evaluation's flattering
	// sub-scores must not leak into the average.
	previous, err := delivery.NewEvaluation(
		kernel.NewUUID(), kernel.NewUUID(), courierID, kernel.NewUUID(),
		2, 5, 5, 5, "", now.Add(-24*time.Hour),
	)
	require.NoError(t, err)
	current, err := delivery.NewEvaluation(
		kernel.NewUUID(), task.ID(), courierID, clientID,
		4, 4, 4, 4, "solid ride", now,
	)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	courierRepo := new(MockCourierRepository)
	evaluationRepo := new(MockEvaluationRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("EvaluationRepository").Return(evaluationRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveryRepo.On("Get", ctx, task.ID()).Return(task, nil).Once()

	var stored *delivery.Evaluation
	evaluationRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Evaluation")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*delivery.Evaluation)
		}).
		Return(nil).Once()
	evaluationRepo.On("GetAllByCourier", ctx, courierID).
		Return([]*delivery.Evaluation{previous, current}, nil).Once()
	courierRepo.On("Get", ctx, courierID).Return(rider, nil).Once()
	courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once()

	factory := new(MockEvaluationUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateEvaluationCommandHandler(factory)

	cmd, err := commands.NewCreateEvaluationCommand(
		kernel.NewUUID(), task.ID(), clientID, 4, 4, 4, 4, "solid ride",
	)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, stored)
	assert.Equal(t, courierID, stored.CourierID())
	assert.True(t, decimal.NewFromInt(3).Equal(rider.Rating()),
		"expected rating 3.00, got %s", rider.Rating())

	uow.AssertExpectations(t)
	deliveryRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	evaluationRepo.AssertExpectations(t)
}

func TestCreateEvaluationCommandHandler_Handle_RejectsUncompletedDelivery(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	task := newUnassignedDelivery(t, kernel.NewUUID(), now)

	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveryRepo.On("Get", ctx, task.ID()).Return(task, nil).Once()

	factory := new(MockEvaluationUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateEvaluationCommandHandler(factory)

	cmd, err := commands.NewCreateEvaluationCommand(
		kernel.NewUUID(), task.ID(), kernel.NewUUID(), 5, 5, 5, 5, "",
	)
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateEvaluationCommandHandler_Handle_DuplicateEvaluation(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	courierID := kernel.NewUUID()
	task := completedTask(t, courierID, now)

	deliveryRepo := new(MockDeliveryRepository)
	evaluationRepo := new(MockEvaluationRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("EvaluationRepository").Return(evaluationRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveryRepo.On("Get", ctx, task.ID()).Return(task, nil).Once()
	evaluationRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Evaluation")).
		Return(errs.NewConflictError("evaluation", task.ID())).Once()

	factory := new(MockEvaluationUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateEvaluationCommandHandler(factory)

	cmd, err := commands.NewCreateEvaluationCommand(
		kernel.NewUUID(), task.ID(), kernel.NewUUID(), 5, 5, 5, 5, "",
	)
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
