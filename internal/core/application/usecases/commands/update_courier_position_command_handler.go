package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/courier"
)

// UpdateCourierPositionCommandHandler applies one GPS report. A report older
// than the stored one is dropped without error: the device will keep sending
// and punishing it for network reordering helps nobody.
type UpdateCourierPositionCommandHandler struct {
	uowFactory CourierUoWFactory
	logger     *slog.Logger
}

// NewUpdateCourierPositionCommandHandler creates a handler for GPS reports.
func NewUpdateCourierPositionCommandHandler(
	uowFactory CourierUoWFactory,
	logger *slog.Logger,
) UpdateCourierPositionCommandHandler {
	return UpdateCourierPositionCommandHandler{uowFactory: uowFactory, logger: logger}
}

// Handle applies the report to the courier and appends it to the history.
func (h *UpdateCourierPositionCommandHandler) Handle(ctx context.Context, cmd UpdateCourierPositionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierAggregate, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	sample, err := courierAggregate.UpdatePosition(cmd.Point(), cmd.RecordedAt(), cmd.SpeedKmh(), time.Now().UTC())
	if err != nil {
		if errors.Is(err, courier.ErrStalePosition) {
			h.logger.Debug("dropping out-of-order position report",
				"courier_id", cmd.CourierID().String(),
				"recorded_at", cmd.RecordedAt())
			return nil
		}
		return err
	}

	if err = uow.CourierRepository().Update(ctx, courierAggregate); err != nil {
		return err
	}

	if err = uow.CourierRepository().AddPositionSample(ctx, sample); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
