package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/internal/utils"
	"github.com/fleetops/fleetd/services/fuel"
)

// FuelHandler handles fuel record HTTP requests
type FuelHandler struct {
	fuelUC fuel.FuelUC
}

// NewFuelHandler creates a new fuel handler
func NewFuelHandler(fuelUC fuel.FuelUC) *FuelHandler {
	return &FuelHandler{fuelUC: fuelUC}
}

// RegisterRoutes registers employee-facing fuel endpoints
func (h *FuelHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/fuel", h.CreateRecord)
	g.GET("/fuel", h.ListRecords)
	g.GET("/fuel/:id", h.GetRecord)
}

// RegisterAdminRoutes registers admin-only fuel transitions
func (h *FuelHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/fuel/:id/approve", h.Approve)
	g.POST("/fuel/:id/reject", h.Reject)
	g.POST("/fuel/:id/complete", h.Complete)
}

// CreateRecord handles POST /fuel
func (h *FuelHandler) CreateRecord(c echo.Context) error {
	var req models.FuelCreateRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}
	if req.DriverID == "" {
		if userID, ok := c.Get("user_id").(string); ok {
			req.DriverID = userID
		}
	}

	record, err := h.fuelUC.CreateRecord(c.Request().Context(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Fuel record created", record)
}

// Approve handles POST /fuel/:id/approve
func (h *FuelHandler) Approve(c echo.Context) error {
	record, err := h.fuelUC.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Fuel record approved", record)
}

// Reject handles POST /fuel/:id/reject
func (h *FuelHandler) Reject(c echo.Context) error {
	record, err := h.fuelUC.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Fuel record rejected", record)
}

// Complete handles POST /fuel/:id/complete
func (h *FuelHandler) Complete(c echo.Context) error {
	record, err := h.fuelUC.Complete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Fuel record completed", record)
}

// GetRecord handles GET /fuel/:id
func (h *FuelHandler) GetRecord(c echo.Context) error {
	record, err := h.fuelUC.GetRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Fuel record retrieved", record)
}

// ListRecords handles GET /fuel?vehicle_id=V001&status=PENDING
func (h *FuelHandler) ListRecords(c echo.Context) error {
	records, err := h.fuelUC.ListRecords(c.Request().Context(),
		c.QueryParam("vehicle_id"),
		models.FuelStatus(c.QueryParam("status")))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Fuel records retrieved", records)
}
