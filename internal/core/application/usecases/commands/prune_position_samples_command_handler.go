package commands

import (
	"context"
	"log/slog"
)

// PrunePositionSamplesCommandHandler trims old position history. Runs on a
// schedule; the cutoff comes from the configured retention window.
type PrunePositionSamplesCommandHandler struct {
	uowFactory CourierUoWFactory
	logger     *slog.Logger
}

// NewPrunePositionSamplesCommandHandler creates a handler for history
// retention.
func NewPrunePositionSamplesCommandHandler(
	uowFactory CourierUoWFactory,
	logger *slog.Logger,
) PrunePositionSamplesCommandHandler {
	return PrunePositionSamplesCommandHandler{uowFactory: uowFactory, logger: logger}
}

// Handle deletes samples recorded before the command's cutoff.
func (h *PrunePositionSamplesCommandHandler) Handle(ctx context.Context, cmd PrunePositionSamplesCommand) error {
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

	pruned, err := uow.CourierRepository().PrunePositionSamples(ctx, cmd.Before())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if pruned > 0 {
		h.logger.Info("pruned position samples", "count", pruned, "before", cmd.Before())
	}

	return nil
}
