package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ryofujimura/Oshiri-sub000/internal/handler"
	"github.com/ryofujimura/Oshiri-sub000/internal/middleware"
	"github.com/ryofujimura/Oshiri-sub000/internal/model"
)

// RegisterUser registers the endpoints any signed-in user can reach.
// Admins pass through here too; where admin capability changes the
// behavior (e.g. submitting a change to a review), the dispatch
// happens inside the workflow service, not in routing.
func RegisterUser(e *echo.Echo, rv *handler.ReviewHandler, er *handler.EditRequestHandler,
	img *handler.ImageHandler, fb *handler.FeedbackHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)

	// ---- Reviews ----
	g.POST("/establishments/:id/reviews", rv.CreateReview)
	g.GET("/reviews/mine", rv.ListMine)
	g.POST("/reviews/:id/vote", rv.Vote)

	// ---- Edit requests ----
	// Admins get a direct write, authors get a PENDING request,
	// everyone else gets 403.
	g.POST("/reviews/:id/requests", er.Submit)

	// ---- Images ----
	g.POST("/reviews/:id/images", img.Register)

	// ---- Feedback ----
	g.POST("/feedback", fb.Create)
	g.POST("/feedback/:id/vote", fb.Vote)
}
