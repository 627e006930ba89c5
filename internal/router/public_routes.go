package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ryofujimura/Oshiri-sub000/internal/handler"
	"github.com/ryofujimura/Oshiri-sub000/internal/middleware"
)

// RegisterPublic registers the browse endpoints guests can reach.
// They run behind OptionalJWT rather than no middleware at all: a
// valid bearer token upgrades the viewer so authors see their own
// hidden reviews and admins see everything, while requests without a
// token still pass through as anonymous.
func RegisterPublic(e *echo.Echo, rv *handler.ReviewHandler, s *handler.SearchHandler,
	fb *handler.FeedbackHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{middleware.OptionalJWT(jwtSecret)}, extra...)
	g := e.Group("/v1", mws...)

	// Review listings are filtered per viewer inside the repository,
	// ordered by relevance score.
	g.GET("/establishments/:id/reviews", rv.ListByEstablishment)

	// External business-directory search, materialized locally.
	g.GET("/search/establishments", s.Establishments)

	// The feedback board is readable by everyone.
	g.GET("/feedback", fb.List)
}
