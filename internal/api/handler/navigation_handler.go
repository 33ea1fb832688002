package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bankportal/portal-gateway/internal/api/middleware"
	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/service"
	"github.com/bankportal/portal-gateway/internal/navigation"
)

type NavigationHandler struct {
	table *navigation.Table
	gate  *service.Gatekeeper
}

func NewNavigationHandler(table *navigation.Table, gate *service.Gatekeeper) *NavigationHandler {
	return &NavigationHandler{table: table, gate: gate}
}

type defaultRouteResponse struct {
	Path string `json:"path"`
}

type checkRequest struct {
	Path string `query:"path" validate:"required,startswith=/"`
}

type checkResponse struct {
	Path     string           `json:"path"`
	Allowed  bool             `json:"allowed"`
	Redirect string           `json:"redirect,omitempty"`
	Replace  bool             `json:"replace"`
	Hops     []navigation.Hop `json:"hops"`
}

// Default returns the landing page for the caller's session.
//
// @Summary      Default route
// @Tags         navigation
// @Produce      json
// @Success      200   {object}  defaultRouteResponse
// @Router       /navigation/default [get]
func (h *NavigationHandler) Default(c echo.Context) error {
	s, err := middleware.CurrentSession(c).Await(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, defaultRouteResponse{Path: domain.DefaultRoute(s)})
}

// Check reports whether the caller may enter path and, if not, where the
// navigation would end up.
//
// @Summary      Check a navigation
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  true  "Target URL, e.g. /admin/clients"
// @Success      200   {object}  checkResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /navigation/check [get]
func (h *NavigationHandler) Check(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	tr, err := navigation.TraceNavigation(c.Request().Context(), h.table, h.gate, middleware.CurrentSession(c), req.Path)
	if err != nil {
		return err
	}

	resp := checkResponse{Path: req.Path, Allowed: !tr.Redirected(), Hops: tr.Hops}
	if tr.Redirected() {
		resp.Redirect = tr.Final
		resp.Replace = tr.Hops[0].Replace
	}
	return c.JSON(http.StatusOK, resp)
}
