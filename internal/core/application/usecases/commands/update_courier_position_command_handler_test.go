package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateCourierPositionCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	courierID := kernel.NewUUID()
	rider := newDispatchableCourier(t, courierID, 6.1319, 1.2228, now.Add(-time.Minute))

	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	courierRepo.On("Get", ctx, courierID).Return(rider, nil).Once()
	courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once()
	courierRepo.On("AddPositionSample", ctx, mock.AnythingOfType("*courier.PositionSample")).Return(nil).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateCourierPositionCommandHandler(factory, discardLogger())

	point, err := kernel.NewGeoPoint(6.1410, 1.2228)
	require.NoError(t, err)
	cmd, err := commands.NewUpdateCourierPositionCommand(courierID, point, now, nil)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, rider.Position())
	assert.InDelta(t, 6.1410, rider.Position().Latitude(), 1e-9)
	uow.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
}

func TestUpdateCourierPositionCommandHandler_Handle_StaleReportIsDropped(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	courierID := kernel.NewUUID()
	rider := newDispatchableCourier(t, courierID, 6.1319, 1.2228, now)

	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	courierRepo.On("Get", ctx, courierID).Return(rider, nil).Once()

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateCourierPositionCommandHandler(factory, discardLogger())

	point, err := kernel.NewGeoPoint(6.2000, 1.3000)
	require.NoError(t, err)
	cmd, err := commands.NewUpdateCourierPositionCommand(courierID, point, now.Add(-time.Minute), nil)
	require.NoError(t, err)

	// A late report is a silent no-op, not an error.
	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, rider.Position())
	assert.InDelta(t, 6.1319, rider.Position().Latitude(), 1e-9)
	courierRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	courierRepo.AssertNotCalled(t, "AddPositionSample", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestUpdateCourierPositionCommand_RejectsZeroTimestamp(t *testing.T) {
	point, err := kernel.NewGeoPoint(6.1319, 1.2228)
	require.NoError(t, err)

	_, err = commands.NewUpdateCourierPositionCommand(kernel.NewUUID(), point, time.Time{}, nil)

	require.Error(t, err)
}
