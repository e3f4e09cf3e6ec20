package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fleetops/fleetd/internal/utils"
	"github.com/fleetops/fleetd/services/routing"
)

// RoutingHandler handles shortest-route HTTP requests
type RoutingHandler struct {
	routeUC routing.RouteUC
}

// NewRoutingHandler creates a new routing handler
func NewRoutingHandler(routeUC routing.RouteUC) *RoutingHandler {
	return &RoutingHandler{routeUC: routeUC}
}

// RegisterRoutes registers routing endpoints on the given group
func (h *RoutingHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/routes", h.GetRoute)
	g.GET("/locations", h.ListLocations)
	g.GET("/roads", h.ListRoads)
}

// GetRoute handles GET /routes?from=0&to=4
func (h *RoutingHandler) GetRoute(c echo.Context) error {
	from, err := strconv.Atoi(c.QueryParam("from"))
	if err != nil {
		return utils.BadRequestResponse(c, "from must be a location id")
	}
	to, err := strconv.Atoi(c.QueryParam("to"))
	if err != nil {
		return utils.BadRequestResponse(c, "to must be a location id")
	}

	route, err := h.routeUC.GetRoute(c.Request().Context(), from, to)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Route computed", route)
}

// ListLocations handles GET /locations
func (h *RoutingHandler) ListLocations(c echo.Context) error {
	locations := h.routeUC.ListLocations(c.Request().Context())
	return utils.SuccessResponse(c, http.StatusOK, "Locations retrieved", locations)
}

// ListRoads handles GET /roads
func (h *RoutingHandler) ListRoads(c echo.Context) error {
	roads := h.routeUC.ListRoads(c.Request().Context())
	return utils.SuccessResponse(c, http.StatusOK, "Roads retrieved", roads)
}
