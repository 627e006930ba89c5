package handler // handler package contains seat-review handlers

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

// ReviewHandler bundles the repositories behind the review endpoints.
type ReviewHandler struct {
	Reviews        *repository.ReviewRepo
	Establishments *repository.EstablishmentRepo
	Images         *repository.ImageRepo
}

func NewReviewHandler(r *repository.ReviewRepo, e *repository.EstablishmentRepo, i *repository.ImageRepo) *ReviewHandler {
	if r == nil || e == nil || i == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: r, Establishments: e, Images: i}
}

// ----- DTOs -----

type createReviewReq struct {
	SeatType       string  `json:"seat_type" validate:"required"`
	Capacity       uint32  `json:"capacity" validate:"required,min=1"`
	ComfortRating  string  `json:"comfort_rating" validate:"required"`
	HasPowerOutlet *bool   `json:"has_power_outlet" validate:"required"`
	NoiseLevel     *string `json:"noise_level"`
	Description    *string `json:"description"`
}

type voteReq struct {
	VoteType string `json:"vote_type" validate:"required"`
}

type visibilityReq struct {
	IsVisible *bool `json:"is_visible" validate:"required"`
}

// reviewResp carries a review plus its relevance score and whatever
// images the viewer is entitled to see.
type reviewResp struct {
	ID              uint64        `json:"id"`
	EstablishmentID uint64        `json:"establishment_id"`
	AuthorID        uint64        `json:"author_id"`
	SeatType        string        `json:"seat_type"`
	Capacity        uint32        `json:"capacity"`
	ComfortRating   string        `json:"comfort_rating"`
	HasPowerOutlet  bool          `json:"has_power_outlet"`
	NoiseLevel      *string       `json:"noise_level,omitempty"`
	Description     *string       `json:"description,omitempty"`
	Upvotes         uint32        `json:"upvotes"`
	Downvotes       uint32        `json:"downvotes"`
	IsVisible       bool          `json:"is_visible"`
	Score           float64       `json:"score"`
	Images          []model.Image `json:"images,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func toReviewResp(rv *model.Review, images []model.Image) reviewResp {
	return reviewResp{
		ID:              rv.ID,
		EstablishmentID: rv.EstablishmentID,
		AuthorID:        rv.AuthorID,
		SeatType:        rv.SeatType,
		Capacity:        rv.Capacity,
		ComfortRating:   rv.ComfortRating,
		HasPowerOutlet:  rv.HasPowerOutlet,
		NoiseLevel:      rv.NoiseLevel,
		Description:     rv.Description,
		Upvotes:         rv.Upvotes,
		Downvotes:       rv.Downvotes,
		IsVisible:       rv.IsVisible,
		Score:           rv.Score(),
		Images:          images,
		CreatedAt:       rv.CreatedAt,
		UpdatedAt:       rv.UpdatedAt,
	}
}

// visibleImages loads a review's images and filters them through the
// projection for the viewer.
func (h *ReviewHandler) visibleImages(ctx context.Context, rv *model.Review, viewer model.Viewer) []model.Image {
	imgs, err := h.Images.ListByReview(ctx, rv.ID)
	if err != nil {
		return nil
	}
	out := make([]model.Image, 0, len(imgs))
	for i := range imgs {
		if model.ImageVisibleTo(&imgs[i], rv, viewer) {
			out = append(out, imgs[i])
		}
	}
	return out
}

// CreateReview handles POST /v1/establishments/:id/reviews. The new
// review starts with zero counters, visible and ACTIVE.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	estID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Establishments.GetByID(ctx, estID); err != nil {
		if errors.Is(err, repository.ErrEstablishmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "establishment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	rv := &model.Review{
		EstablishmentID: estID,
		AuthorID:        uid,
		SeatType:        strings.TrimSpace(req.SeatType),
		Capacity:        req.Capacity,
		ComfortRating:   strings.TrimSpace(req.ComfortRating),
		HasPowerOutlet:  *req.HasPowerOutlet,
		NoiseLevel:      req.NoiseLevel,
		Description:     req.Description,
	}
	if err := h.Reviews.Create(ctx, rv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	fresh, err := h.Reviews.GetByID(ctx, rv.ID)
	if err != nil {
		return c.JSON(http.StatusCreated, toReviewResp(rv, nil))
	}
	return c.JSON(http.StatusCreated, toReviewResp(fresh, nil))
}

// ListByEstablishment handles GET /v1/establishments/:id/reviews.
// Works for guests too: the viewer built from an absent token is
// anonymous and only sees visible, approved content.
func (h *ReviewHandler) ListByEstablishment(c echo.Context) error {
	estID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	viewer := getViewer(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reviews, err := h.Reviews.ListByEstablishment(ctx, estID, viewer)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	resp := make([]reviewResp, 0, len(reviews))
	for i := range reviews {
		rv := &reviews[i]
		resp = append(resp, toReviewResp(rv, h.visibleImages(ctx, rv, viewer)))
	}
	return c.JSON(http.StatusOK, resp)
}

// ListMine handles GET /v1/reviews/mine: the caller's own reviews,
// or every review when the caller is an admin.
func (h *ReviewHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	viewer := getViewer(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var reviews []model.Review
	if viewer.IsAdmin {
		reviews, err = h.Reviews.ListAll(ctx)
	} else {
		reviews, err = h.Reviews.ListByAuthor(ctx, uid)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	resp := make([]reviewResp, 0, len(reviews))
	for i := range reviews {
		rv := &reviews[i]
		resp = append(resp, toReviewResp(rv, h.visibleImages(ctx, rv, viewer)))
	}
	return c.JSON(http.StatusOK, resp)
}

// Vote handles POST /v1/reviews/:id/vote. The increment is a single
// atomic UPDATE; two simultaneous votes both land. Voting twice from
// the same account counts twice: the ledger has no deduplication.
func (h *ReviewHandler) Vote(c echo.Context) error {
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

	up, down, err := h.Reviews.Vote(ctx, id, upvote)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "vote failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        id,
		"upvotes":   up,
		"downvotes": down,
		"score":     model.RelevanceScore(up, down),
	})
}

// SetVisibility handles PATCH /v1/reviews/:id/visibility (admin
// only, enforced by route middleware). The operation is idempotent.
func (h *ReviewHandler) SetVisibility(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req visibilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reviews.SetVisibility(ctx, id, *req.IsVisible); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toReviewResp(updated, nil))
}
