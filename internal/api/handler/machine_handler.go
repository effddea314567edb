package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

// MachineHandler serves machine snapshots, the locator view and admin operations.
type MachineHandler struct {
	service ports.MachineService
}

func NewMachineHandler(service ports.MachineService) *MachineHandler {
	return &MachineHandler{service: service}
}

// Snapshot handles GET /v1/public/machines.
//
// @Summary      List every machine
// @Tags         machines
// @Produce      json
// @Success      200  {object}  envelope{data=[]machineResponse}
// @Failure      500  {object}  errorResponse
// @Router       /v1/public/machines [get]
func (h *MachineHandler) Snapshot(c echo.Context) error {
	machines, err := h.service.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: toMachineList(machines)})
}

// Locate handles GET /v1/public/locate.
//
// A missing or unparsable position is not an error: the view degrades to
// registration order.
//
// @Summary      Rank machines for a donor or receiver
// @Tags         machines
// @Produce      json
// @Param        intent  query     string  false  "donor (default) or receiver"
// @Param        lat     query     number  false  "Caller latitude"
// @Param        lng     query     number  false  "Caller longitude"
// @Success      200     {object}  envelope{data=locateResponse}
// @Failure      500     {object}  errorResponse
// @Router       /v1/public/locate [get]
func (h *MachineHandler) Locate(c echo.Context) error {
	in := ports.LocateInput{
		Intent:   domain.ParseIntent(c.QueryParam("intent")),
		Position: queryPosition(c),
	}
	res, err := h.service.Locate(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: toLocateResponse(res)})
}

func queryPosition(c echo.Context) *domain.Position {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return nil
	}
	return &domain.Position{Lat: lat, Lng: lng}
}

// Register handles POST /v1/machines.
//
// @Summary      Register a machine
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerMachineRequest  true  "Machine details"
// @Success      201   {object}  envelope{data=machineResponse}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/machines [post]
func (h *MachineHandler) Register(c echo.Context) error {
	var req registerMachineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	m, err := h.service.Register(c.Request().Context(), toRegisterMachineInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: toMachineResponse(*m)})
}

// Get handles GET /v1/machines/:id.
//
// @Summary      Get a machine
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Machine ID"
// @Success      200  {object}  envelope{data=machineResponse}
// @Failure      404  {object}  errorResponse
// @Router       /v1/machines/{id} [get]
func (h *MachineHandler) Get(c echo.Context) error {
	m, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: toMachineResponse(*m)})
}

// SetStatus handles PUT /v1/machines/:id/status.
//
// @Summary      Override a machine's status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Machine ID"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  envelope{data=machineResponse}
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/machines/{id}/status [put]
func (h *MachineHandler) SetStatus(c echo.Context) error {
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	m, err := h.service.SetStatus(c.Request().Context(), c.Param("id"), domain.MachineStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: toMachineResponse(*m)})
}

// Stats handles GET /v1/admin/stats.
//
// @Summary      Dashboard counters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=domain.DashboardStats}
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/stats [get]
func (h *MachineHandler) Stats(c echo.Context) error {
	st, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: st})
}
