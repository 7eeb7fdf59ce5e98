package http

import (
	"net/http"

	"approval-backend/internal/domain/approval"

	"github.com/labstack/echo/v4"
)

type createRuleReq struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	EntityKind  string         `json:"entity_kind" validate:"required"`
	IsActive    *bool          `json:"is_active"`
	Priority    int            `json:"priority"`
	AutoApprove bool           `json:"auto_approve"`
	AutoReject  bool           `json:"auto_reject"`
	AssignTo    string         `json:"assign_to" validate:"omitempty,hex32"`
	Conditions  map[string]any `json:"conditions"`
}

func (h *Handler) CreateRule(c echo.Context) error {
	var req createRuleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	rule := &approval.Rule{
		Name:        req.Name,
		Description: req.Description,
		EntityKind:  approval.EntityKind(req.EntityKind),
		IsActive:    true,
		Priority:    req.Priority,
		AutoApprove: req.AutoApprove,
		AutoReject:  req.AutoReject,
		Conditions:  req.Conditions,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.AssignTo != "" {
		rule.AssignTo = &req.AssignTo
	}
	if err := h.wf.CreateRule(c.Request().Context(), rule); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, rule)
}

func (h *Handler) ListRules(c echo.Context) error {
	kind := approval.EntityKind(c.QueryParam("kind"))
	rules, err := h.wf.ListRules(c.Request().Context(), kind)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"rules": rules})
}

type createQueueReq struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description"`
	Slug           string   `json:"slug" validate:"required,slug"`
	EntityKinds    []string `json:"entity_kinds" validate:"required,min=1"`
	StatusFilter   string   `json:"status_filter" validate:"omitempty,oneof=draft pending approved rejected changes_requested archived"`
	PriorityFilter string   `json:"priority_filter" validate:"omitempty,oneof=low normal high urgent"`
	Reviewers      []string `json:"reviewers" validate:"omitempty,dive,hex32"`
	Color          string   `json:"color"`
	Icon           string   `json:"icon"`
	DisplayOrder   int      `json:"display_order"`
}

func (h *Handler) CreateQueue(c echo.Context) error {
	var req createQueueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	q := &approval.Queue{
		Name:           req.Name,
		Description:    req.Description,
		Slug:           req.Slug,
		EntityKinds:    req.EntityKinds,
		StatusFilter:   approval.Status(req.StatusFilter),
		PriorityFilter: approval.Priority(req.PriorityFilter),
		Reviewers:      req.Reviewers,
		Color:          req.Color,
		Icon:           req.Icon,
		IsActive:       true,
		DisplayOrder:   req.DisplayOrder,
	}
	if q.Color == "" {
		q.Color = "#007bff"
	}
	if err := h.views.CreateQueue(c.Request().Context(), q); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *Handler) ListQueues(c echo.Context) error {
	queues, err := h.views.ListQueues(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"queues": queues})
}
