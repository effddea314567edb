package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/exes/food-network/internal/core/ports"
)

// FoodHandler serves the kiosk donate/collect flows and the volunteer work list.
type FoodHandler struct {
	service ports.FoodService
}

func NewFoodHandler(service ports.FoodService) *FoodHandler {
	return &FoodHandler{service: service}
}

// Donate handles POST /food/donate.
//
// @Summary      Stock donated food
// @Tags         machine
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      donateRequest  true  "Donation"
// @Success      201   {object}  envelope{data=donateResponse}
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /food/donate [post]
func (h *FoodHandler) Donate(c echo.Context) error {
	machineID, err := machineClaims(c)
	if err != nil {
		return err
	}

	var req donateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	expiry, _ := time.Parse(time.DateOnly, req.ExpiryDate)

	available, err := h.service.Donate(c.Request().Context(), ports.DonateInput{
		MachineID:  machineID,
		Quantity:   req.Quantity,
		ExpiryDate: expiry,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: donateResponse{
		Donated:       req.Quantity,
		AvailableFood: available,
	}})
}

// Collect handles POST /food/collect.
//
// @Summary      Dispense food to a receiver
// @Tags         machine
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      collectRequest  true  "Quantity (at most 2)"
// @Success      200   {object}  envelope{data=collectResponse}
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /food/collect [post]
func (h *FoodHandler) Collect(c echo.Context) error {
	machineID, err := machineClaims(c)
	if err != nil {
		return err
	}

	var req collectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ids, err := h.service.Collect(c.Request().Context(), machineID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: collectResponse{Dispensed: ids, Count: len(ids)}})
}

// Expired handles GET /v1/volunteer/expired.
//
// @Summary      Machines holding expired food
// @Tags         volunteer
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]domain.ExpiredStock}
// @Failure      403  {object}  errorResponse
// @Router       /v1/volunteer/expired [get]
func (h *FoodHandler) Expired(c echo.Context) error {
	stock, err := h.service.ExpiredStock(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: stock})
}

// ExpiredItems handles GET /v1/volunteer/machines/:id/expired-items.
//
// @Summary      Expired items inside a machine
// @Tags         volunteer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Machine ID"
// @Success      200  {object}  envelope{data=[]expiredItemResponse}
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/volunteer/machines/{id}/expired-items [get]
func (h *FoodHandler) ExpiredItems(c echo.Context) error {
	items, err := h.service.ExpiredItems(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: toExpiredItems(items)})
}

// RemoveExpired handles POST /v1/volunteer/food-items/:id/remove.
//
// @Summary      Record removal of an expired item
// @Tags         volunteer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Food item ID"
// @Success      200  {object}  envelope{data=messageResponse}
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/volunteer/food-items/{id}/remove [post]
func (h *FoodHandler) RemoveExpired(c echo.Context) error {
	cl, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveExpired(c.Request().Context(), c.Param("id"), cl.Username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: messageResponse{Message: "item removed"}})
}
