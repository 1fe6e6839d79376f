package http

import (
	"net/http"
	"strconv"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// CourierActionRequest names the courier performing a delivery transition.
type CourierActionRequest struct {
	CourierID string `json:"courier_id"`
}

func (s *Server) bindCourierAction(ctx echo.Context) (deliveryID, courierID kernel.UUID, err error) {
	deliveryID, err = kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	var req CourierActionRequest
	if err = ctx.Bind(&req); err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	courierID, err = kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	return deliveryID, courierID, nil
}

// GetDelivery handles GET /api/v1/deliveries/:id.
func (s *Server) GetDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	query, err := queries.NewGetDeliveryQuery(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ListAvailableDeliveries handles GET /api/v1/deliveries/available. With lat,
// lon and radius_m query parameters the pool is filtered and ordered by
// distance from the given point.
func (s *Server) ListAvailableDeliveries(ctx echo.Context) error {
	var center *kernel.GeoPoint
	var radiusM float64

	latParam, lonParam := ctx.QueryParam("lat"), ctx.QueryParam("lon")
	if latParam != "" || lonParam != "" {
		lat, err := strconv.ParseFloat(latParam, 64)
		if err != nil {
			return badRequest(ctx, "Invalid lat: "+err.Error())
		}
		lon, err := strconv.ParseFloat(lonParam, 64)
		if err != nil {
			return badRequest(ctx, "Invalid lon: "+err.Error())
		}
		point, err := kernel.NewGeoPoint(lat, lon)
		if err != nil {
			return badRequest(ctx, "Invalid center: "+err.Error())
		}
		center = &point

		radiusM, err = strconv.ParseFloat(ctx.QueryParam("radius_m"), 64)
		if err != nil {
			return badRequest(ctx, "Invalid radius_m: "+err.Error())
		}
	}

	query, err := queries.NewListAvailableDeliveriesQuery(center, radiusM)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.listAvailableDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// AcceptDelivery handles POST /api/v1/deliveries/:id/accept - first courier
// to land the status change wins; the rest get a 409.
func (s *Server) AcceptDelivery(ctx echo.Context) error {
	deliveryID, courierID, err := s.bindCourierAction(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	cmd, err := commands.NewAcceptDeliveryCommand(deliveryID, courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.acceptDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StartDelivery handles POST /api/v1/deliveries/:id/start - pickup confirmed.
func (s *Server) StartDelivery(ctx echo.Context) error {
	deliveryID, courierID, err := s.bindCourierAction(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	cmd, err := commands.NewStartDeliveryCommand(deliveryID, courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.startDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteDeliveryRequest is the body of POST /api/v1/deliveries/:id/complete.
// Proof and signature references are optional.
type CompleteDeliveryRequest struct {
	CourierID    string `json:"courier_id"`
	ProofRef     string `json:"proof_ref,omitempty"`
	SignatureRef string `json:"signature_ref,omitempty"`
}

// CompleteDelivery handles POST /api/v1/deliveries/:id/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	var req CompleteDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier_id: "+err.Error())
	}

	cmd, err := commands.NewCompleteDeliveryCommand(deliveryID, courierID, req.ProofRef, req.SignatureRef)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FailDeliveryRequest is the body of POST /api/v1/deliveries/:id/fail.
type FailDeliveryRequest struct {
	CourierID string `json:"courier_id"`
	Reason    string `json:"reason"`
}

// FailDelivery handles POST /api/v1/deliveries/:id/fail.
func (s *Server) FailDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	var req FailDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier_id: "+err.Error())
	}

	cmd, err := commands.NewFailDeliveryCommand(deliveryID, courierID, req.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.failDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RefuseDelivery handles POST /api/v1/deliveries/:id/refuse - the courier
// backs out and the task returns to the pool.
func (s *Server) RefuseDelivery(ctx echo.Context) error {
	deliveryID, courierID, err := s.bindCourierAction(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid request: "+err.Error())
	}

	cmd, err := commands.NewRefuseDeliveryCommand(deliveryID, courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.refuseDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelDelivery handles POST /api/v1/deliveries/:id/cancel - a marketplace
// withdrawal of the task.
func (s *Server) CancelDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	cmd, err := commands.NewCancelDeliveryCommand(deliveryID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.cancelDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateEvaluationRequest is the body of POST /api/v1/deliveries/:id/evaluation.
type CreateEvaluationRequest struct {
	ClientID        string `json:"client_id"`
	Note            int    `json:"note"`
	Punctuality     int    `json:"punctuality"`
	Professionalism int    `json:"professionalism"`
	PackageCare     int    `json:"package_care"`
	Comment         string `json:"comment,omitempty"`
}

// CreateEvaluation handles POST /api/v1/deliveries/:id/evaluation.
func (s *Server) CreateEvaluation(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id: "+err.Error())
	}

	var req CreateEvaluationRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	clientID, err := kernel.UUIDFromString(req.ClientID)
	if err != nil {
		return badRequest(ctx, "Invalid client_id: "+err.Error())
	}

	evaluationID := kernel.NewUUID()
	cmd, err := commands.NewCreateEvaluationCommand(
		evaluationID, deliveryID, clientID,
		req.Note, req.Punctuality, req.Professionalism, req.PackageCare,
		req.Comment)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.createEvaluationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": evaluationID.String()})
}
