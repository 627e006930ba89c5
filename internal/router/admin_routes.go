package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ryofujimura/Oshiri-sub000/internal/handler"
	"github.com/ryofujimura/Oshiri-sub000/internal/middleware"
	"github.com/ryofujimura/Oshiri-sub000/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1. All
// routes require a valid JWT and the ADMIN role; handlers can assume
// the caller is an admin and skip per-request role checks.
func RegisterAdmin(e *echo.Echo, rv *handler.ReviewHandler, er *handler.EditRequestHandler,
	img *handler.ImageHandler, fb *handler.FeedbackHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Edit-request moderation ----
	g.GET("/requests/pending", er.ListPending)
	g.POST("/requests/:id/resolve", er.Resolve)

	// ---- Content management ----
	g.PATCH("/reviews/:id/visibility", rv.SetVisibility)
	g.PATCH("/images/:id/moderation", img.Moderate)
	g.PATCH("/feedback/:id/status", fb.SetStatus)
}
