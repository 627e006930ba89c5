package handler // handler package contains image registration and moderation handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
	"github.com/ryofujimura/Oshiri-sub000/internal/queue"
	"github.com/ryofujimura/Oshiri-sub000/internal/repository"
	"github.com/ryofujimura/Oshiri-sub000/internal/service"
)

// ImageHandler registers uploaded images against reviews and lets
// admins moderate them. The actual bytes live at an external image
// host; we store the URL plus our storage key.
type ImageHandler struct {
	Images  *repository.ImageRepo
	Reviews *repository.ReviewRepo
	Events  service.EventPublisher
}

func NewImageHandler(images *repository.ImageRepo, reviews *repository.ReviewRepo, events service.EventPublisher) *ImageHandler {
	if images == nil || reviews == nil {
		panic("nil repository passed to NewImageHandler")
	}
	return &ImageHandler{Images: images, Reviews: reviews, Events: events}
}

// ----- DTOs -----

type registerImageReq struct {
	URL    string  `json:"url" validate:"required,url"`
	Width  *uint32 `json:"width,omitempty" validate:"omitempty,min=1"`
	Height *uint32 `json:"height,omitempty" validate:"omitempty,min=1"`
	Format *string `json:"format,omitempty"`
}

type moderateImageReq struct {
	Status string `json:"status" validate:"required"`
}

// Register handles POST /v1/reviews/:id/images. Only the review's
// author or an admin may attach images; every upload starts PENDING.
func (h *ImageHandler) Register(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req registerImageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rv, err := h.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if rv.Status != model.ReviewStatusActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	}
	if rv.AuthorID != userID && getRole(c) != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	img := &model.Image{
		ReviewID:   reviewID,
		URL:        req.URL,
		StorageKey: uuid.NewString(),
		Width:      req.Width,
		Height:     req.Height,
		Format:     req.Format,
	}
	if err := h.Images.Create(ctx, img); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, img)
}

// Moderate handles PATCH /v1/images/:id/moderation (admin via route
// middleware). A second decision on the same image overwrites the
// first; the moderation stamp always names the last deciding admin.
func (h *ImageHandler) Moderate(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req moderateImageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var status string
	switch strings.ToLower(strings.TrimSpace(req.Status)) {
	case "approved":
		status = model.ModerationApproved
	case "rejected":
		status = model.ModerationRejected
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid moderation status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Images.Moderate(ctx, id, status, adminID); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	img, err := h.Images.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if h.Events != nil {
		_ = h.Events.PublishModerationDecided(ctx, queue.ModerationDecidedEvent{
			Kind:      queue.EventImageModerated,
			SubjectID: img.ID,
			ReviewID:  img.ReviewID,
			AdminID:   adminID,
			Decision:  status,
			DecidedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, img)
}
