package handler // handler package contains edit-request workflow handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
	"github.com/ryofujimura/Oshiri-sub000/internal/repository"
	"github.com/ryofujimura/Oshiri-sub000/internal/service"
)

// EditRequestHandler exposes the submit/list/resolve endpoints of the
// moderated-write workflow. All branching between direct admin writes
// and staged proposals lives in the workflow service, not here.
type EditRequestHandler struct {
	Workflow *service.WriteWorkflow
	Requests *repository.EditRequestRepo
}

func NewEditRequestHandler(w *service.WriteWorkflow, r *repository.EditRequestRepo) *EditRequestHandler {
	if w == nil || r == nil {
		panic("nil dependency passed to NewEditRequestHandler")
	}
	return &EditRequestHandler{Workflow: w, Requests: r}
}

// ----- DTOs -----

type submitReq struct {
	RequestType string `json:"request_type" validate:"required"`
	model.ProposedFields
}

type resolveReq struct {
	Action string `json:"action" validate:"required"`
}

// Submit handles POST /v1/reviews/:id/requests. Admins short-circuit
// the workflow and get the mutated review back; authors get their
// PENDING request; everyone else gets 403.
func (h *EditRequestHandler) Submit(c echo.Context) error {
	actor, err := getPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	outcome, err := h.Workflow.SubmitChange(ctx, actor, reviewID, req.RequestType, req.ProposedFields)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	if outcome.Applied {
		return c.JSON(http.StatusOK, toReviewResp(outcome.Review, nil))
	}
	return c.JSON(http.StatusCreated, outcome.Request)
}

// ListPending handles GET /v1/requests/pending (admin only, enforced
// by route middleware). Requests come back joined with their review,
// establishment and requester, oldest first.
func (h *EditRequestHandler) ListPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Requests.ListPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rows)
}

// Resolve handles POST /v1/requests/:id/resolve. A request already
// out of PENDING yields 409; the state machine permits exactly one
// outcome per request.
func (h *EditRequestHandler) Resolve(c echo.Context) error {
	actor, err := getPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req resolveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resolved, err := h.Workflow.Resolve(ctx, actor, id, req.Action)
	if err != nil {
		return writeWorkflowError(c, err)
	}
	return c.JSON(http.StatusOK, resolved)
}

// writeWorkflowError maps workflow errors onto the HTTP taxonomy.
func writeWorkflowError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid input"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrReviewNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	case errors.Is(err, repository.ErrRequestNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "edit request not found"})
	case errors.Is(err, repository.ErrAlreadyProcessed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "request already processed"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
