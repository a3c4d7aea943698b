package server

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/feed"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/pipeline"
	"github.com/labstack/echo/v4"
)

// DashboardResponse is the dashboard view with the filter that produced it
type DashboardResponse struct {
	dashboard.View
	Category string `json:"category"`
	Deadline string `json:"deadline"`
	Error    string `json:"error,omitempty"`
}

// SettingsResponse is the stored settings with the API key masked
type SettingsResponse struct {
	SheetID         string `json:"sheetId"`
	SheetRange      string `json:"sheetRange"`
	APIKey          string `json:"apiKey"`
	RefreshInterval int    `json:"refreshInterval"`
}

// SettingsRequest changes the fields that are present
type SettingsRequest struct {
	SheetID         *string `json:"sheetId"`
	SheetRange      *string `json:"sheetRange"`
	APIKey          *string `json:"apiKey"`
	RefreshInterval *int    `json:"refreshInterval"`
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// filterFromQuery reads ?category= and ?deadline=
func filterFromQuery(c echo.Context) (pipeline.Filter, bool) {
	f := pipeline.Filter{Category: strings.TrimSpace(c.QueryParam("category"))}
	bucket := strings.ToLower(strings.TrimSpace(c.QueryParam("deadline")))
	if bucket == "" || bucket == pipeline.FilterAll {
		return f, true
	}
	b := model.Bucket(bucket)
	if !b.Valid() {
		return f, false
	}
	f.Deadline = b
	return f, true
}

func newDashboardResponse(v dashboard.View, f pipeline.Filter) DashboardResponse {
	return DashboardResponse{View: v, Category: f.Category, Deadline: string(f.Deadline)}
}

func settingsResponse(s model.Settings) SettingsResponse {
	return SettingsResponse{
		SheetID:         s.SheetID,
		SheetRange:      s.TaskRange(),
		APIKey:          s.MaskedAPIKey(),
		RefreshInterval: s.RefreshInterval,
	}
}

// handleDashboard returns the current view; it never fetches
func (s *Server) handleDashboard(c echo.Context) error {
	f, ok := filterFromQuery(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "unknown deadline bucket")
	}
	return c.JSON(http.StatusOK, newDashboardResponse(s.board.ViewWith(f), f))
}

// handleRefresh fetches every section and returns the updated view.
// Section failures are reported in the view's errors, not the status code.
func (s *Server) handleRefresh(c echo.Context) error {
	f, ok := filterFromQuery(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "unknown deadline bucket")
	}

	err := s.board.Refresh(c.Request().Context())
	resp := newDashboardResponse(s.board.ViewWith(f), f)
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDismissAlert(c echo.Context) error {
	s.board.DismissAlert()
	return c.JSON(http.StatusOK, s.board.Alert())
}

// handleNotifications returns recent notifications, optionally only those
// after ?since= (RFC 3339)
func (s *Server) handleNotifications(c echo.Context) error {
	var since time.Time
	if raw := c.QueryParam("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "since must be RFC 3339")
		}
		since = t
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": s.feed.Since(since)})
}

func (s *Server) handleTodoFeed(c echo.Context) error {
	var buf bytes.Buffer
	if err := feed.Write(&buf, s.board.Todos(), time.Now()); err != nil {
		logger.Error("Failed to build to-do feed", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to build calendar")
	}
	return c.Blob(http.StatusOK, feed.ContentType, buf.Bytes())
}

func (s *Server) handleGetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, settingsResponse(s.board.Settings()))
}

func (s *Server) handlePutSettings(c echo.Context) error {
	var req SettingsRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	next := s.board.Settings()
	if req.SheetID != nil {
		next.SheetID = strings.TrimSpace(*req.SheetID)
	}
	if req.SheetRange != nil {
		next.SheetRange = strings.TrimSpace(*req.SheetRange)
	}
	if req.APIKey != nil {
		next.APIKey = strings.TrimSpace(*req.APIKey)
	}
	if req.RefreshInterval != nil {
		if *req.RefreshInterval < 0 {
			return errorJSON(c, http.StatusBadRequest, "refreshInterval must not be negative")
		}
		next.RefreshInterval = *req.RefreshInterval
	}

	if err := s.board.UpdateSettings(c.Request().Context(), next); err != nil {
		logger.Error("Failed to save settings", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to save settings")
	}
	return c.JSON(http.StatusOK, settingsResponse(s.board.Settings()))
}
