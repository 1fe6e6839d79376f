package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
)

// CreateOrderCommandHandler places a new order in the created state. Nothing
// is dispatched yet; the merchant must validate the order first.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory}
}

// Handle builds the order aggregate from the command and persists it.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items := make([]order.LineItem, 0, len(cmd.Items()))
	for _, input := range cmd.Items() {
		item, err := order.NewLineItem(input.ProductID, input.Name, input.Quantity, input.UnitPrice)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.ClientID(), cmd.MerchantID(),
		cmd.DeliveryAddress(), cmd.DeliveryPoint(), cmd.Instructions(),
		cmd.PaymentMethod(), items, time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
