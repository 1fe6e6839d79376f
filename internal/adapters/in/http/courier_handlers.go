package http

import (
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// UpdateCourierPositionRequest is the body of POST /api/v1/couriers/:id/position.
type UpdateCourierPositionRequest struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	RecordedAt time.Time `json:"recorded_at"`
	SpeedKmh   *float64  `json:"speed_kmh,omitempty"`
}

// UpdateCourierPosition handles POST /api/v1/couriers/:id/position. Reports
// older than the courier's current position are dropped server-side and still
// answer 204.
func (s *Server) UpdateCourierPosition(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id: "+err.Error())
	}

	var req UpdateCourierPositionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	point, err := kernel.NewGeoPoint(req.Lat, req.Lon)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateCourierPositionCommand(courierID, point, req.RecordedAt, req.SpeedKmh)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.updateCourierPositionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetCourierAvailabilityRequest is the body of POST /api/v1/couriers/:id/availability.
type SetCourierAvailabilityRequest struct {
	IsAvailable bool `json:"is_available"`
	IsOnline    bool `json:"is_online"`
}

// SetCourierAvailability handles POST /api/v1/couriers/:id/availability.
func (s *Server) SetCourierAvailability(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id: "+err.Error())
	}

	var req SetCourierAvailabilityRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierID, req.IsAvailable, req.IsOnline)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.setCourierAvailabilityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetCourierPositionHistory handles GET /api/v1/couriers/:id/positions. The
// since query parameter is RFC 3339; it defaults to the last 24 hours.
func (s *Server) GetCourierPositionHistory(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id: "+err.Error())
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	if sinceParam := ctx.QueryParam("since"); sinceParam != "" {
		since, err = time.Parse(time.RFC3339, sinceParam)
		if err != nil {
			return badRequest(ctx, "Invalid since: "+err.Error())
		}
	}

	query, err := queries.NewGetCourierPositionHistoryQuery(courierID, since)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.getCourierPositionHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ListCourierNotifications handles GET /api/v1/couriers/:id/notifications.
func (s *Server) ListCourierNotifications(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id: "+err.Error())
	}

	limit := 0
	if limitParam := ctx.QueryParam("limit"); limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil {
			return badRequest(ctx, "Invalid limit: "+err.Error())
		}
	}

	query, err := queries.NewListCourierNotificationsQuery(courierID, limit)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.listCourierNotificationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// MarkNotificationReadRequest is the body of POST /api/v1/notifications/:id/read.
type MarkNotificationReadRequest struct {
	CourierID string `json:"courier_id"`
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
func (s *Server) MarkNotificationRead(ctx echo.Context) error {
	notificationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid notification id: "+err.Error())
	}

	var req MarkNotificationReadRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier_id: "+err.Error())
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID, courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.markNotificationReadHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
