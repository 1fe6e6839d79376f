package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CreateEvaluationCommandHandler stores a client's rating of a completed
// delivery and recomputes the courier's aggregate rating from every
// evaluation on record. A unique index on the delivery keeps it to one
// evaluation per delivery; a second attempt surfaces as a ConflictError.
type CreateEvaluationCommandHandler struct {
	uowFactory EvaluationUoWFactory
}

// NewCreateEvaluationCommandHandler creates a handler for delivery ratings.
func NewCreateEvaluationCommandHandler(uowFactory EvaluationUoWFactory) CreateEvaluationCommandHandler {
	return CreateEvaluationCommandHandler{uowFactory: uowFactory}
}

// Handle stores the evaluation and refreshes the courier's rating.
func (h *CreateEvaluationCommandHandler) Handle(ctx context.Context, cmd CreateEvaluationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	task, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if task.Status() != delivery.StatusCompleted {
		return errs.NewInvalidTransitionError("delivery", task.Status().String(), "evaluated")
	}
	courierID := task.CourierID()
	if courierID == nil {
		return errs.NewValueIsInvalidError("delivery courier")
	}

	evaluation, err := delivery.NewEvaluation(
		cmd.EvaluationID(), cmd.DeliveryID(), *courierID, cmd.ClientID(),
		cmd.Note(), cmd.Punctuality(), cmd.Professionalism(), cmd.PackageCare(),
		cmd.Comment(), now,
	)
	if err != nil {
		return err
	}

	if err = uow.EvaluationRepository().Add(ctx, evaluation); err != nil {
		return err
	}

	evaluations, err := uow.EvaluationRepository().GetAllByCourier(ctx, *courierID)
	if err != nil {
		return err
	}

	courierAggregate, err := uow.CourierRepository().Get(ctx, *courierID)
	if err != nil {
		return err
	}

	if err = courierAggregate.ApplyRating(averageNote(evaluations), now); err != nil {
		return err
	}

	if err = uow.CourierRepository().Update(ctx, courierAggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// averageNote is the mean of the per-evaluation overall notes, rounded to two
// decimals. The sub-scores never enter the rolling average; they qualify the
// note, not replace it.
func averageNote(evaluations []*delivery.Evaluation) decimal.Decimal {
	if len(evaluations) == 0 {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, e := range evaluations {
		sum = sum.Add(decimal.NewFromInt(int64(e.Note())))
	}

	return sum.Div(decimal.NewFromInt(int64(len(evaluations)))).Round(2)
}
