package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exes/food-network/internal/core/ports"
)

// TelemetryDispatcher is the interface the handler uses to enqueue heartbeats.
type TelemetryDispatcher interface {
	Enqueue(ctx context.Context, event ports.TelemetryEventInput) error
}

// TelemetryHandler handles machine heartbeat ingestion.
type TelemetryHandler struct {
	dispatcher TelemetryDispatcher
}

func NewTelemetryHandler(dispatcher TelemetryDispatcher) *TelemetryHandler {
	return &TelemetryHandler{dispatcher: dispatcher}
}

// Receive handles POST /machine/status. The heartbeat is queued for the
// calling machine and processed asynchronously.
//
// @Summary      Report machine status
// @Tags         machine
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      telemetryRequest  true  "Heartbeat"
// @Success      202   {object}  envelope{data=messageResponse}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /machine/status [post]
func (h *TelemetryHandler) Receive(c echo.Context) error {
	machineID, err := machineClaims(c)
	if err != nil {
		return err
	}

	var req telemetryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.dispatcher.Enqueue(c.Request().Context(), toTelemetryInput(machineID, req)); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "telemetry queue unavailable").SetInternal(err)
	}
	return c.JSON(http.StatusAccepted, envelope{Success: true, Data: messageResponse{Message: "status accepted"}})
}
