package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// GeoPointRequest is a coordinate pair in a request body.
type GeoPointRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// OrderItemRequest is one line item of a new order. The unit price travels as
// a string to keep money out of floats.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	ClientID        string             `json:"client_id"`
	MerchantID      string             `json:"merchant_id"`
	DeliveryAddress string             `json:"delivery_address"`
	DeliveryPoint   *GeoPointRequest   `json:"delivery_point,omitempty"`
	Instructions    string             `json:"instructions,omitempty"`
	PaymentMethod   string             `json:"payment_method"`
	Items           []OrderItemRequest `json:"items"`
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	clientID, err := kernel.UUIDFromString(req.ClientID)
	if err != nil {
		return badRequest(ctx, "Invalid client_id: "+err.Error())
	}
	merchantID, err := kernel.UUIDFromString(req.MerchantID)
	if err != nil {
		return badRequest(ctx, "Invalid merchant_id: "+err.Error())
	}
	paymentMethod, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return badRequest(ctx, "Invalid payment_method: "+err.Error())
	}

	var deliveryPoint *kernel.GeoPoint
	if req.DeliveryPoint != nil {
		point, pointErr := kernel.NewGeoPoint(req.DeliveryPoint.Lat, req.DeliveryPoint.Lon)
		if pointErr != nil {
			return badRequest(ctx, "Invalid delivery_point: "+pointErr.Error())
		}
		deliveryPoint = &point
	}

	items := make([]commands.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, itemErr := kernel.UUIDFromString(item.ProductID)
		if itemErr != nil {
			return badRequest(ctx, "Invalid item product_id: "+itemErr.Error())
		}
		unitPrice, priceErr := decimal.NewFromString(item.UnitPrice)
		if priceErr != nil {
			return badRequest(ctx, "Invalid item unit_price: "+priceErr.Error())
		}
		items = append(items, commands.OrderItemInput{
			ProductID: productID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, clientID, merchantID,
		req.DeliveryAddress, deliveryPoint,
		req.Instructions, paymentMethod, items)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": orderID.String()})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ValidateOrderRequest is the body of POST /api/v1/orders/:id/validate.
type ValidateOrderRequest struct {
	MerchantID string `json:"merchant_id"`
}

// ValidateOrder handles POST /api/v1/orders/:id/validate - the merchant
// confirms the order, which creates and offers the delivery task.
func (s *Server) ValidateOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var req ValidateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	merchantID, err := kernel.UUIDFromString(req.MerchantID)
	if err != nil {
		return badRequest(ctx, "Invalid merchant_id: "+err.Error())
	}

	cmd, err := commands.NewValidateOrderCommand(orderID, merchantID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.validateOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ChangeOrderStatusRequest is the body of POST /api/v1/orders/:id/status.
type ChangeOrderStatusRequest struct {
	MerchantID string `json:"merchant_id"`
	Target     string `json:"target"`
}

// ChangeOrderStatus handles POST /api/v1/orders/:id/status - merchant-driven
// preparing and ready moves.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var req ChangeOrderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	merchantID, err := kernel.UUIDFromString(req.MerchantID)
	if err != nil {
		return badRequest(ctx, "Invalid merchant_id: "+err.Error())
	}
	target, err := order.ParseStatus(req.Target)
	if err != nil {
		return badRequest(ctx, "Invalid target status: "+err.Error())
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, merchantID, target)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrderRequest is the body of POST /api/v1/orders/:id/cancel. Both
// clients and merchants may cancel, so the acting party is explicit.
type CancelOrderRequest struct {
	ActorRole string `json:"actor_role"`
	ActorID   string `json:"actor_id"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var req CancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	role, err := kernel.ParseActorRole(req.ActorRole)
	if err != nil {
		return badRequest(ctx, "Invalid actor_role: "+err.Error())
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor_id: "+err.Error())
	}
	actor, err := kernel.NewActor(role, actorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor: "+err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
