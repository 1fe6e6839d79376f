// Package http exposes the dispatch use cases over a JSON REST surface.
// Handlers translate requests into guarded commands and queries; every
// business decision stays behind the application layer.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler            commands.CreateOrderCommandHandler
	validateOrderHandler          commands.ValidateOrderCommandHandler
	changeOrderStatusHandler      commands.ChangeOrderStatusCommandHandler
	cancelOrderHandler            commands.CancelOrderCommandHandler
	acceptDeliveryHandler         commands.AcceptDeliveryCommandHandler
	startDeliveryHandler          commands.StartDeliveryCommandHandler
	completeDeliveryHandler       commands.CompleteDeliveryCommandHandler
	failDeliveryHandler           commands.FailDeliveryCommandHandler
	refuseDeliveryHandler         commands.RefuseDeliveryCommandHandler
	cancelDeliveryHandler         commands.CancelDeliveryCommandHandler
	updateCourierPositionHandler  commands.UpdateCourierPositionCommandHandler
	setCourierAvailabilityHandler commands.SetCourierAvailabilityCommandHandler
	markNotificationReadHandler   commands.MarkNotificationReadCommandHandler
	createEvaluationHandler       commands.CreateEvaluationCommandHandler

	// Query handlers
	getOrderHandler                  queries.GetOrderQueryHandler
	getDeliveryHandler               queries.GetDeliveryQueryHandler
	listAvailableDeliveriesHandler   queries.ListAvailableDeliveriesQueryHandler
	getCourierPositionHistoryHandler queries.GetCourierPositionHistoryQueryHandler
	listCourierNotificationsHandler  queries.ListCourierNotificationsQueryHandler
}

// ServerHandlers bundles the use case handlers the server dispatches to.
type ServerHandlers struct {
	CreateOrder            commands.CreateOrderCommandHandler
	ValidateOrder          commands.ValidateOrderCommandHandler
	ChangeOrderStatus      commands.ChangeOrderStatusCommandHandler
	CancelOrder            commands.CancelOrderCommandHandler
	AcceptDelivery         commands.AcceptDeliveryCommandHandler
	StartDelivery          commands.StartDeliveryCommandHandler
	CompleteDelivery       commands.CompleteDeliveryCommandHandler
	FailDelivery           commands.FailDeliveryCommandHandler
	RefuseDelivery         commands.RefuseDeliveryCommandHandler
	CancelDelivery         commands.CancelDeliveryCommandHandler
	UpdateCourierPosition  commands.UpdateCourierPositionCommandHandler
	SetCourierAvailability commands.SetCourierAvailabilityCommandHandler
	MarkNotificationRead   commands.MarkNotificationReadCommandHandler
	CreateEvaluation       commands.CreateEvaluationCommandHandler

	GetOrder                  queries.GetOrderQueryHandler
	GetDelivery               queries.GetDeliveryQueryHandler
	ListAvailableDeliveries   queries.ListAvailableDeliveriesQueryHandler
	GetCourierPositionHistory queries.GetCourierPositionHistoryQueryHandler
	ListCourierNotifications  queries.ListCourierNotificationsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(handlers ServerHandlers) *Server {
	return &Server{
		createOrderHandler:            handlers.CreateOrder,
		validateOrderHandler:          handlers.ValidateOrder,
		changeOrderStatusHandler:      handlers.ChangeOrderStatus,
		cancelOrderHandler:            handlers.CancelOrder,
		acceptDeliveryHandler:         handlers.AcceptDelivery,
		startDeliveryHandler:          handlers.StartDelivery,
		completeDeliveryHandler:       handlers.CompleteDelivery,
		failDeliveryHandler:           handlers.FailDelivery,
		refuseDeliveryHandler:         handlers.RefuseDelivery,
		cancelDeliveryHandler:         handlers.CancelDelivery,
		updateCourierPositionHandler:  handlers.UpdateCourierPosition,
		setCourierAvailabilityHandler: handlers.SetCourierAvailability,
		markNotificationReadHandler:   handlers.MarkNotificationRead,
		createEvaluationHandler:       handlers.CreateEvaluation,

		getOrderHandler:                  handlers.GetOrder,
		getDeliveryHandler:               handlers.GetDelivery,
		listAvailableDeliveriesHandler:   handlers.ListAvailableDeliveries,
		getCourierPositionHistoryHandler: handlers.GetCourierPositionHistory,
		listCourierNotificationsHandler:  handlers.ListCourierNotifications,
	}
}

// RegisterRoutes mounts every endpoint under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.GetHealth)

	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/:id", s.GetOrder)
	v1.POST("/orders/:id/validate", s.ValidateOrder)
	v1.POST("/orders/:id/status", s.ChangeOrderStatus)
	v1.POST("/orders/:id/cancel", s.CancelOrder)

	v1.GET("/deliveries/available", s.ListAvailableDeliveries)
	v1.GET("/deliveries/:id", s.GetDelivery)
	v1.POST("/deliveries/:id/accept", s.AcceptDelivery)
	v1.POST("/deliveries/:id/start", s.StartDelivery)
	v1.POST("/deliveries/:id/complete", s.CompleteDelivery)
	v1.POST("/deliveries/:id/fail", s.FailDelivery)
	v1.POST("/deliveries/:id/refuse", s.RefuseDelivery)
	v1.POST("/deliveries/:id/cancel", s.CancelDelivery)
	v1.POST("/deliveries/:id/evaluation", s.CreateEvaluation)

	v1.POST("/couriers/:id/position", s.UpdateCourierPosition)
	v1.POST("/couriers/:id/availability", s.SetCourierAvailability)
	v1.GET("/couriers/:id/positions", s.GetCourierPositionHistory)
	v1.GET("/couriers/:id/notifications", s.ListCourierNotifications)

	v1.POST("/notifications/:id/read", s.MarkNotificationRead)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Error is the JSON error body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError maps application errors onto HTTP status codes. Conflicts are
// a first-class outcome here: two couriers racing for one delivery is normal
// traffic, not a server fault.
func respondError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrInvalidTransition):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrInvalidLocation):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
