package audit

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/logs", h.ListLogs)
	api.GET("/logs/errors", h.ListRecentErrors)
	api.DELETE("/logs", h.PurgeLogs)
}

// ListLogs returns recent log entries, newest first.
// Query params: limit (default 100), level (INFO|WARNING|ERROR).
func (h *Handler) ListLogs(c echo.Context) error {
	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	level := strings.ToUpper(c.QueryParam("level"))
	switch level {
	case "", LevelInfo, LevelWarning, LevelError:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "level must be INFO, WARNING or ERROR")
	}

	entries, err := h.repo.Recent(c.Request().Context(), limit, level)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs":  entries,
		"count": len(entries),
	})
}

// ListRecentErrors returns ERROR entries from the last N hours (default 24).
func (h *Handler) ListRecentErrors(c echo.Context) error {
	hours := 24
	if raw := c.QueryParam("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "hours must be a positive integer")
		}
		hours = n
	}

	entries, err := h.repo.RecentErrors(c.Request().Context(), time.Duration(hours)*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"errors": entries,
		"count":  len(entries),
	})
}

// PurgeLogs deletes entries older than N days (default 30).
func (h *Handler) PurgeLogs(c echo.Context) error {
	days := 30
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive integer")
		}
		days = n
	}

	removed, err := h.repo.Purge(c.Request().Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"removed": removed,
		"days":    days,
	})
}
