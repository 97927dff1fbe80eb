package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/service/search"
	"github.com/nstepanov/bookvault/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperror.New(apperror.KindBadRequest, http.StatusBadRequest, "q is required")
	}
	if h.ES == nil {
		return apperror.New(apperror.KindInternal, http.StatusServiceUnavailable, "search is not available")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	total, books, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"total": total, "books": books})
}
