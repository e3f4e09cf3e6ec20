package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/internal/utils"
	"github.com/fleetops/fleetd/services/maintenance"
)

// MaintenanceHandler handles maintenance workflow HTTP requests
type MaintenanceHandler struct {
	maintenanceUC maintenance.MaintenanceUC
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenanceUC maintenance.MaintenanceUC) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceUC: maintenanceUC}
}

// RegisterRoutes registers employee-facing maintenance endpoints
func (h *MaintenanceHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/maintenance", h.CreateRequest)
	g.GET("/maintenance", h.ListRecords)
	g.GET("/maintenance/:id", h.GetRecord)
}

// RegisterAdminRoutes registers admin-only workflow transitions
func (h *MaintenanceHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/maintenance/:id/approve", h.Approve)
	g.POST("/maintenance/:id/reject", h.Reject)
	g.POST("/maintenance/:id/start", h.StartWork)
	g.POST("/maintenance/:id/complete", h.Complete)
}

// CreateRequest handles POST /maintenance
func (h *MaintenanceHandler) CreateRequest(c echo.Context) error {
	var req models.MaintenanceCreateRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}
	if req.RequestedBy == "" {
		if userID, ok := c.Get("user_id").(string); ok {
			req.RequestedBy = userID
		}
	}

	record, err := h.maintenanceUC.CreateRequest(c.Request().Context(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Maintenance requested", record)
}

// Approve handles POST /maintenance/:id/approve
func (h *MaintenanceHandler) Approve(c echo.Context) error {
	record, err := h.maintenanceUC.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Maintenance approved", record)
}

// Reject handles POST /maintenance/:id/reject
func (h *MaintenanceHandler) Reject(c echo.Context) error {
	record, err := h.maintenanceUC.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Maintenance rejected", record)
}

// StartWork handles POST /maintenance/:id/start
func (h *MaintenanceHandler) StartWork(c echo.Context) error {
	record, err := h.maintenanceUC.StartWork(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Maintenance started", record)
}

// Complete handles POST /maintenance/:id/complete
func (h *MaintenanceHandler) Complete(c echo.Context) error {
	var req models.MaintenanceCompleteRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	record, err := h.maintenanceUC.Complete(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Maintenance completed", record)
}

// GetRecord handles GET /maintenance/:id
func (h *MaintenanceHandler) GetRecord(c echo.Context) error {
	record, err := h.maintenanceUC.GetRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Maintenance record retrieved", record)
}

// ListRecords handles GET /maintenance?vehicle_id=V001&status=PENDING
func (h *MaintenanceHandler) ListRecords(c echo.Context) error {
	records, err := h.maintenanceUC.ListRecords(c.Request().Context(),
		c.QueryParam("vehicle_id"),
		models.MaintenanceStatus(c.QueryParam("status")))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Maintenance records retrieved", records)
}
