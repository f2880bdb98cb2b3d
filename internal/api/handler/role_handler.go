package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vestuario/commerce-api/internal/api/metrics"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

// RoleHandler handles the role change request workflow.
type RoleHandler struct {
	requests ports.RoleRequestService
}

func NewRoleHandler(requests ports.RoleRequestService) *RoleHandler {
	return &RoleHandler{requests: requests}
}

// Submit creates a role change request for the authenticated user.
//
// @Summary      Request a role change
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      requestRoleRequest  true  "Motivation"
// @Success      201   {object}  domain.RoleRequest
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/users/request-role [post]
func (h *RoleHandler) Submit(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req requestRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	request, err := h.requests.Submit(c.Request().Context(), userID, req.Motivation)
	if err != nil {
		return err
	}

	metrics.RoleRequestsTotal.Inc()
	return c.JSON(http.StatusCreated, request)
}

// ListPending returns all pending role requests, oldest first. Admin only.
//
// @Summary      List pending role requests
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.RoleRequest
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users/role-requests [get]
func (h *RoleHandler) ListPending(c echo.Context) error {
	requests, err := h.requests.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

// Decide approves or rejects a pending role request. Admin only.
//
// @Summary      Decide a role request
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Request ID"
// @Param        body  body      decideRoleRequest  true  "Decision"
// @Success      200   {object}  domain.RoleRequest
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/role-requests/{id} [put]
func (h *RoleHandler) Decide(c echo.Context) error {
	adminID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req decideRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	request, err := h.requests.Decide(c.Request().Context(), ports.DecideInput{
		RequestID: c.Param("id"),
		Decision:  req.Decision,
		AdminID:   adminID,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.RoleDecisionsTotal.WithLabelValues(req.Decision).Inc()
	return c.JSON(http.StatusOK, request)
}
