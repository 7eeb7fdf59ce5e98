package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Dashboard(c echo.Context) error {
	data, err := h.views.Dashboard(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) QueueDetail(c echo.Context) error {
	data, err := h.views.QueueDetail(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) PendingCounts(c echo.Context) error {
	data, err := h.views.PendingCounts(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) Stats(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	data, err := h.views.Stats(c.Request().Context(), days)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) QuickStats(c echo.Context) error {
	data, err := h.views.QuickStats(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) MySubmissions(c echo.Context) error {
	user := c.QueryParam("user")
	if !reHex32.MatchString(user) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user must be 32-char lowercase hex"})
	}
	items, err := h.views.MySubmissions(c.Request().Context(), user)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"submissions": items})
}
