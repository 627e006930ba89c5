package handler // handler package contains feedback submission and triage handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
	"github.com/ryofujimura/Oshiri-sub000/internal/repository"
)

// FeedbackHandler covers the standalone suggestion board: anyone can
// read it, signed-in users post and vote, admins set the triage
// status. No moderation workflow applies here.
type FeedbackHandler struct {
	Feedback *repository.FeedbackRepo
}

func NewFeedbackHandler(r *repository.FeedbackRepo) *FeedbackHandler {
	if r == nil {
		panic("nil repository passed to NewFeedbackHandler")
	}
	return &FeedbackHandler{Feedback: r}
}

// ----- DTOs -----

type createFeedbackReq struct {
	Content  string `json:"content" validate:"required,min=1,max=4000"`
	Category string `json:"category" validate:"required,min=1,max=64"`
}

type feedbackStatusReq struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /v1/feedback.
func (h *FeedbackHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createFeedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f := &model.Feedback{
		AuthorID: userID,
		Content:  strings.TrimSpace(req.Content),
		Category: strings.TrimSpace(req.Category),
	}
	if err := h.Feedback.Create(ctx, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, f)
}

// List handles GET /v1/feedback. Open to everyone, newest first.
func (h *FeedbackHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Feedback.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Vote handles POST /v1/feedback/:id/vote. Same ledger semantics as
// review votes: every call increments one counter, no dedup.
func (h *FeedbackHandler) Vote(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req voteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	var upvote bool
	switch strings.ToLower(strings.TrimSpace(req.VoteType)) {
	case "upvote":
		upvote = true
	case "downvote":
		upvote = false
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vote type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	up, down, err := h.Feedback.Vote(ctx, id, upvote)
	if err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "feedback not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "upvotes": up, "downvotes": down})
}

// SetStatus handles PATCH /v1/feedback/:id/status (admin via route
// middleware). The status is informational and never gates listing.
func (h *FeedbackHandler) SetStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req feedbackStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case model.FeedbackPending, model.FeedbackInProgress, model.FeedbackCompleted, model.FeedbackDeclined:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Feedback.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "feedback not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	f, err := h.Feedback.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, f)
}
