package handler // handler package contains establishment search handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/ryofujimura/Oshiri-sub000/internal/model"
	"github.com/ryofujimura/Oshiri-sub000/internal/repository"
	"github.com/ryofujimura/Oshiri-sub000/internal/search"
)

// SearchHandler proxies the external business directory and
// materializes hits as local establishment rows so reviews can
// reference them by our primary key.
type SearchHandler struct {
	Client *search.Client
	Repo   *repository.EstablishmentRepo
}

func NewSearchHandler(client *search.Client, est *repository.EstablishmentRepo) *SearchHandler {
	if client == nil || est == nil {
		panic("nil dependency passed to NewSearchHandler")
	}
	return &SearchHandler{Client: client, Repo: est}
}

// Establishments handles GET /v1/search/establishments. The provider
// call runs under its own timeout; a provider failure is reported as
// 502 so the caller can tell it apart from our own faults. Rows that
// fail to materialize are skipped rather than failing the whole page.
func (h *SearchHandler) Establishments(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("term"))
	if term == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "term is required"})
	}
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lat"})
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lon"})
	}
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	hits, err := h.Client.Search(ctx, search.Query{
		Term:      term,
		Latitude:  lat,
		Longitude: lon,
		Limit:     limit,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDependencyFailure) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}

	out := make([]model.Establishment, 0, len(hits))
	for i := range hits {
		saved, err := h.Repo.FindOrCreate(ctx, &hits[i])
		if err != nil {
			log.Warn().Err(err).Str("external_id", hits[i].ExternalID).
				Msg("failed to materialize establishment")
			continue
		}
		out = append(out, *saved)
	}
	return c.JSON(http.StatusOK, echo.Map{"establishments": out})
}
