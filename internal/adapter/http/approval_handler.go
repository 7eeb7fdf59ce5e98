package http

import (
	"net/http"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
)

// reviewActions maps the request vocabulary to audit actions. "submit" is
// exposed separately; review covers the reviewer-side verbs.
var reviewActions = map[string]approval.Action{
	"approve":         approval.ActionApproved,
	"reject":          approval.ActionRejected,
	"request_changes": approval.ActionChangesRequested,
	"archive":         approval.ActionArchived,
}

type submitReq struct {
	Actor string `json:"actor" validate:"omitempty,hex32"`
}

// Submit is the hook attached-entity modules call to push an item into
// review.
func (h *Handler) Submit(c echo.Context) error {
	ref, err := refFromPath(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.wf.Submit(c.Request().Context(), ref, req.Actor); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "submitted"})
}

type reviewReq struct {
	Action   string `json:"action" validate:"required,oneof=approve reject request_changes archive"`
	Reviewer string `json:"reviewer" validate:"required,hex32"`
	Notes    string `json:"notes"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

// Review applies one reviewer action to one item, optionally bumping its
// priority first.
func (h *Handler) Review(c echo.Context) error {
	ref, err := refFromPath(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	in := workflow.ReviewInput{
		Ref:      ref,
		Action:   reviewActions[req.Action],
		Actor:    req.Reviewer,
		Notes:    req.Notes,
		Priority: approval.Priority(req.Priority),
	}
	if err := h.wf.Review(c.Request().Context(), in); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": req.Action})
}

type bulkActionReq struct {
	Action string   `json:"action" validate:"required,oneof=approve reject request_changes archive"`
	Items  []string `json:"items" validate:"required,min=1"` // "kind:id"
	Actor  string   `json:"actor" validate:"required,hex32"`
	Notes  string   `json:"notes"`
}

// BulkAction applies one action to many items; per-item failures are
// collected, never propagated.
func (h *Handler) BulkAction(c echo.Context) error {
	var req bulkActionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	res := workflow.BulkResult{Action: reviewActions[req.Action]}
	var refs []approval.EntityRef
	for _, raw := range req.Items {
		ref, err := approval.ParseRef(raw)
		if err != nil {
			// malformed refs count as failed items, same as transition errors
			res.ErrorCount++
			res.Errors = append(res.Errors, workflow.BulkItemError{Error: err.Error()})
			continue
		}
		refs = append(refs, ref)
	}
	applied := h.wf.BulkApply(c.Request().Context(), reviewActions[req.Action], refs, req.Actor, req.Notes)
	res.SuccessCount = applied.SuccessCount
	res.ErrorCount += applied.ErrorCount
	res.Errors = append(res.Errors, applied.Errors...)
	return c.JSON(http.StatusOK, res)
}

// History returns an entity's audit trail; deleted entities still render
// with an explicit marker.
func (h *Handler) History(c echo.Context) error {
	ref, err := refFromPath(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	res, err := h.wf.History(c.Request().Context(), ref)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ArchiveStale sweeps rejected items past the auto-archive horizon.
func (h *Handler) ArchiveStale(c echo.Context) error {
	res, err := h.wf.ArchiveStaleRejected(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
