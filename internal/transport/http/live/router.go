package livehttp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"parlay/internal/executor"
	"parlay/internal/logger"
	"parlay/internal/perf"
	"parlay/internal/store"
	"parlay/internal/strategy/exit"
	"parlay/internal/types"

	"github.com/gin-gonic/gin"
)

const maxRecommendationBody = 1 << 20 // 1MB

// Router exposes execution endpoints over /api/live.
type Router struct {
	Exec    *executor.Manager
	Records store.RecordStore
	Perf    *perf.Tracker
	Rules   *exit.Registry
	Mode    executor.Mode
}

func NewRouter(exec *executor.Manager, records store.RecordStore, tracker *perf.Tracker,
	rules *exit.Registry, mode executor.Mode) *Router {
	return &Router{Exec: exec, Records: records, Perf: tracker, Rules: rules, Mode: mode}
}

// Register mounts the API under the given group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.POST("/execute", r.handleExecute)
	group.GET("/positions", r.handlePositions)
	group.GET("/positions/:id", r.handlePositionByID)
	group.POST("/positions/:id/close", r.handlePositionClose)
	group.GET("/records", r.handleRecords)
	group.GET("/metrics", r.handleMetrics)
	group.GET("/rules", r.handleRules)
}

// handleExecute takes a raw recommendation, validates it against the
// schema before decoding, then runs it through the executor. The process
// execution mode applies unless ?mode= overrides it.
func (r *Router) handleExecute(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRecommendationBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := types.ValidateRecommendationJSON(raw); err != nil {
		logger.Warnf("[api] recommendation rejected ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var rec types.Recommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode := r.Mode
	switch strings.ToLower(strings.TrimSpace(c.Query("mode"))) {
	case "auto":
		mode = executor.ModeAuto
	case "manual":
		mode = executor.ModeManual
	}

	result, err := r.Exec.Execute(c.Request.Context(), rec, mode)
	if err != nil {
		status := http.StatusInternalServerError
		if types.IsValidation(err) {
			status = http.StatusBadRequest
		}
		logger.Errorf("[api] execute failed ip=%s rec=%s err=%v", c.ClientIP(), rec.ID, err)
		c.JSON(status, gin.H{"error": err.Error(), "result": result})
		return
	}
	logger.Infof("[api] execute ip=%s rec=%s status=%s position=%s", c.ClientIP(), rec.ID, result.Status, result.PositionID)
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (r *Router) handlePositions(c *gin.Context) {
	positions := r.Exec.Book().List()
	c.JSON(http.StatusOK, gin.H{
		"count":     len(positions),
		"positions": positions,
	})
}

func (r *Router) handlePositionByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	pos, ok := r.Exec.Book().Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "position not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": pos})
}

type closeRequest struct {
	Price     int    `json:"price"`
	Contracts int    `json:"contracts"`
	Reason    string `json:"reason"`
}

// handlePositionClose force-closes a position (fully, or partially when
// contracts is set) at the given price.
func (r *Router) handlePositionClose(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var req closeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "manual"
	}

	var (
		result *executor.ExecutionResult
		err    error
	)
	if req.Contracts > 0 {
		result, err = r.Exec.ExecutePartialExit(c.Request.Context(), id, req.Price, req.Contracts, reason)
	} else {
		result, err = r.Exec.ExecuteExit(c.Request.Context(), id, req.Price, reason)
	}
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, types.ErrPositionNotFound):
			status = http.StatusNotFound
		case types.IsValidation(err):
			status = http.StatusBadRequest
		}
		logger.Warnf("[api] close failed ip=%s position=%s err=%v", c.ClientIP(), id, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] close ip=%s position=%s contracts=%d price=%d", c.ClientIP(), id, result.Contracts, req.Price)
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (r *Router) handleRecords(c *gin.Context) {
	if r.Records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit log unavailable"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	records, err := r.Records.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logger.Errorf("[api] records failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
}

func (r *Router) handleMetrics(c *gin.Context) {
	if r.Perf == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "performance tracker unavailable"})
		return
	}
	m, err := r.Perf.Metrics(c.Request.Context())
	if err != nil {
		logger.Errorf("[api] metrics failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": m})
}

func (r *Router) handleRules(c *gin.Context) {
	if r.Rules == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rule registry unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": r.Rules.Rules()})
}
