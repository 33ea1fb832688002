package handler

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the single-page app shell. Which page renders is the
// client's concern; the Pages middleware has already decided the caller may
// see it.
type PageHandler struct {
	index string
}

func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{index: filepath.Join(staticDir, "index.html")}
}

func (h *PageHandler) Index(c echo.Context) error {
	return c.File(h.index)
}
