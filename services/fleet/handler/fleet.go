package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/internal/utils"
	"github.com/fleetops/fleetd/services/fleet"
)

// FleetHandler handles user, vehicle and allocation HTTP requests
type FleetHandler struct {
	fleetUC fleet.FleetUC
}

// NewFleetHandler creates a new fleet handler
func NewFleetHandler(fleetUC fleet.FleetUC) *FleetHandler {
	return &FleetHandler{fleetUC: fleetUC}
}

// RegisterPublicRoutes registers endpoints that need no token
func (h *FleetHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
}

// RegisterRoutes registers authenticated fleet endpoints
func (h *FleetHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)

	g.GET("/vehicles", h.ListVehicles)
	g.GET("/vehicles/:id", h.GetVehicle)
	g.GET("/vehicles/maintenance-due", h.MaintenanceDue)
}

// RegisterAdminRoutes registers admin-only fleet endpoints
func (h *FleetHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/users/:id/approve", h.ApproveUser)
	g.POST("/users/:id/deactivate", h.DeactivateUser)

	g.POST("/vehicles", h.CreateVehicle)
	g.PUT("/vehicles/:id/status", h.SetVehicleStatus)

	g.POST("/assignments", h.AssignVehicle)
	g.DELETE("/assignments", h.UnassignVehicle)
	g.POST("/fleet/reconcile", h.Reconcile)
}

// Register handles POST /auth/register
func (h *FleetHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	user, err := h.fleetUC.Register(c.Request().Context(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Registration submitted for approval", user)
}

// Login handles POST /auth/login
func (h *FleetHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	resp, err := h.fleetUC.Login(c.Request().Context(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

// ApproveUser handles POST /users/:id/approve
func (h *FleetHandler) ApproveUser(c echo.Context) error {
	user, err := h.fleetUC.ApproveUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "User approved", user)
}

// DeactivateUser handles POST /users/:id/deactivate
func (h *FleetHandler) DeactivateUser(c echo.Context) error {
	user, err := h.fleetUC.DeactivateUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "User deactivated", user)
}

// GetUser handles GET /users/:id
func (h *FleetHandler) GetUser(c echo.Context) error {
	user, err := h.fleetUC.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "User retrieved", user)
}

// ListUsers handles GET /users
func (h *FleetHandler) ListUsers(c echo.Context) error {
	users, err := h.fleetUC.ListUsers(c.Request().Context())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Users retrieved", users)
}

// CreateVehicle handles POST /vehicles
func (h *FleetHandler) CreateVehicle(c echo.Context) error {
	var req models.VehicleCreateRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	vehicle, err := h.fleetUC.CreateVehicle(c.Request().Context(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Vehicle registered", vehicle)
}

// GetVehicle handles GET /vehicles/:id
func (h *FleetHandler) GetVehicle(c echo.Context) error {
	vehicle, err := h.fleetUC.GetVehicle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved", vehicle)
}

// ListVehicles handles GET /vehicles?status=AVAILABLE
func (h *FleetHandler) ListVehicles(c echo.Context) error {
	status := models.VehicleStatus(c.QueryParam("status"))

	vehicles, err := h.fleetUC.ListVehicles(c.Request().Context(), status)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Vehicles retrieved", vehicles)
}

// MaintenanceDue handles GET /vehicles/maintenance-due
func (h *FleetHandler) MaintenanceDue(c echo.Context) error {
	vehicles, err := h.fleetUC.MaintenanceDue(c.Request().Context())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Vehicles due for maintenance", vehicles)
}

type assignmentRequest struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
}

// SetVehicleStatus handles PUT /vehicles/:id/status
func (h *FleetHandler) SetVehicleStatus(c echo.Context) error {
	var req struct {
		Status models.VehicleStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	vehicle, err := h.fleetUC.SetVehicleStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Vehicle status updated", vehicle)
}

// AssignVehicle handles POST /assignments
func (h *FleetHandler) AssignVehicle(c echo.Context) error {
	var req assignmentRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	if err := h.fleetUC.AssignVehicle(c.Request().Context(), req.DriverID, req.VehicleID); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Vehicle assigned", nil)
}

// UnassignVehicle handles DELETE /assignments
func (h *FleetHandler) UnassignVehicle(c echo.Context) error {
	var req assignmentRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	if err := h.fleetUC.UnassignVehicle(c.Request().Context(), req.DriverID); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Vehicle unassigned", nil)
}

// Reconcile handles POST /fleet/reconcile
func (h *FleetHandler) Reconcile(c echo.Context) error {
	if err := h.fleetUC.Reconcile(c.Request().Context()); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Fleet reconciled", nil)
}
