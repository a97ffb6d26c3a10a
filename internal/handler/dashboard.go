package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GoPolymarket/liqwatch/internal/dashboard"
	"github.com/GoPolymarket/liqwatch/internal/model"
	"github.com/GoPolymarket/liqwatch/internal/pkg/apperrors"
	"github.com/GoPolymarket/liqwatch/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	session *service.Session
	board   *dashboard.Board
}

func NewDashboardHandler(session *service.Session, board *dashboard.Board) *DashboardHandler {
	return &DashboardHandler{session: session, board: board}
}

func (h *DashboardHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.board.Snapshot())
}

// Refresh is the manual refresh button. Rate limiting and upstream failures are
// reported as errors but the board is updated either way.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.board.Snapshot())
}

func (h *DashboardHandler) StartAutoRefresh(c *gin.Context) {
	var req model.RefreshIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	if err := h.session.StartAutoRefresh(time.Duration(req.IntervalSeconds) * time.Second); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.board.Snapshot())
}

func (h *DashboardHandler) StopAutoRefresh(c *gin.Context) {
	h.session.StopAutoRefresh()
	c.JSON(http.StatusOK, h.board.Snapshot())
}

func (h *DashboardHandler) UpdatePosition(c *gin.Context) {
	var pos model.Position
	if err := c.ShouldBindJSON(&pos); err != nil {
		_ = c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	h.session.SetPosition(pos)
	c.JSON(http.StatusOK, h.board.Snapshot())
}

// History lists recent refresh attempts, newest first. Query: limit, result.
func (h *DashboardHandler) History(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			_ = c.Error(apperrors.NewInvalidRequest("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	records := h.session.History().List(c.Query("result"), limit)
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

func (h *DashboardHandler) Page(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", pageHTML)
}
