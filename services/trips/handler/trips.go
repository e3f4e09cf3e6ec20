package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/internal/utils"
	"github.com/fleetops/fleetd/services/trips"
)

// TripHandler handles trip lifecycle HTTP requests
type TripHandler struct {
	tripUC trips.TripUC
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripUC trips.TripUC) *TripHandler {
	return &TripHandler{tripUC: tripUC}
}

// RegisterRoutes registers trip endpoints on the given group
func (h *TripHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/trips", h.StartTrip)
	g.POST("/trips/:id/end", h.EndTrip)
	g.POST("/trips/:id/location", h.UpdateLocation)
	g.GET("/trips", h.ListTrips)
	g.GET("/trips/live", h.ListLivePositions)
	g.GET("/trips/:id", h.GetTrip)
	g.GET("/trips/:id/position", h.GetPosition)
}

// StartTrip handles POST /trips
func (h *TripHandler) StartTrip(c echo.Context) error {
	var req models.TripStartRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	trip, err := h.tripUC.StartTrip(c.Request().Context(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Trip started", trip)
}

// EndTrip handles POST /trips/:id/end
func (h *TripHandler) EndTrip(c echo.Context) error {
	var req models.TripEndRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}
	req.TripID = c.Param("id")

	result, err := h.tripUC.EndTrip(c.Request().Context(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip completed", result)
}

// UpdateLocation handles POST /trips/:id/location
func (h *TripHandler) UpdateLocation(c echo.Context) error {
	var update models.TripLocationUpdate
	if err := c.Bind(&update); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}
	update.TripID = c.Param("id")

	pos, err := h.tripUC.UpdateLocation(c.Request().Context(), &update)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Position updated", pos)
}

// GetTrip handles GET /trips/:id
func (h *TripHandler) GetTrip(c echo.Context) error {
	trip, err := h.tripUC.GetTrip(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip retrieved", trip)
}

// GetPosition handles GET /trips/:id/position
func (h *TripHandler) GetPosition(c echo.Context) error {
	pos, err := h.tripUC.GetPosition(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Position retrieved", pos)
}

// ListLivePositions handles GET /trips/live?lat=..&lon=..&radius_km=..
func (h *TripHandler) ListLivePositions(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "lat must be a number")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "lon must be a number")
	}
	radiusKm, err := strconv.ParseFloat(c.QueryParam("radius_km"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "radius_km must be a number")
	}

	positions, err := h.tripUC.ListLivePositions(c.Request().Context(), lat, lon, radiusKm)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Live positions retrieved", positions)
}

// ListTrips handles GET /trips?driver_id=U001&vehicle_id=V001
func (h *TripHandler) ListTrips(c echo.Context) error {
	tripsList, err := h.tripUC.ListTrips(c.Request().Context(),
		c.QueryParam("driver_id"), c.QueryParam("vehicle_id"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trips retrieved", tripsList)
}
