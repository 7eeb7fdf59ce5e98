package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/usecase/queueview"
	"approval-backend/internal/usecase/workflow"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	wf    *workflow.Usecase
	views *queueview.Usecase
}

func NewHandler(wf *workflow.Usecase, views *queueview.Usecase) *Handler {
	return &Handler{wf: wf, views: views}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Register wires all approval routes. The idempotency middleware (applied
// by the caller on the group) only touches mutating methods.
func (h *Handler) Register(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	g := e.Group("/approvals", mw...)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/queues", h.ListQueues)
	g.POST("/queues", h.CreateQueue)
	g.GET("/queues/:slug", h.QueueDetail)
	g.GET("/rules", h.ListRules)
	g.POST("/rules", h.CreateRule)
	g.POST("/submit/:kind/:id", h.Submit)
	g.POST("/review/:kind/:id", h.Review)
	g.POST("/bulk-action", h.BulkAction)
	g.GET("/history/:kind/:id", h.History)
	g.GET("/my-submissions", h.MySubmissions)
	g.GET("/stats", h.Stats)
	g.GET("/api/pending-counts", h.PendingCounts)
	g.GET("/api/stats", h.QuickStats)
	g.POST("/maintenance/archive-stale", h.ArchiveStale)
}

// refFromPath reads /:kind/:id path params.
func refFromPath(c echo.Context) (approval.EntityRef, error) {
	kind := c.Param("kind")
	rawID := c.Param("id")
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || kind == "" {
		return approval.EntityRef{}, errors.New("invalid kind/id path params")
	}
	return approval.EntityRef{Kind: approval.EntityKind(kind), ID: id}, nil
}

// domainError maps domain errors onto HTTP responses. Invalid transitions
// surface as a conflict carrying the attempted move.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, approval.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, approval.ErrUnknownEntityKind), errors.Is(err, approval.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, approval.ErrRuleConflict):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
