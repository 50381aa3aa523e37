package handlers

import (
	"net/http"
	"strconv"
	"time"

	"meme-scanner/agent/database"
	"meme-scanner/agent/internal/models"
	"meme-scanner/shared/config"
	"meme-scanner/shared/logger"

	"github.com/gin-gonic/gin"
)

// KeywordWriter is the write surface the API exposes for trend keywords.
type KeywordWriter interface {
	Add(term string, score float64) error
}

// Handler serves the read-only status API: lifecycle counts, recent scan
// events, reject-reason tallies, and call performance. The only write it
// accepts is a manual trend keyword add.
type Handler struct {
	log       *logger.Logger
	trendsCfg config.TrendsConfig
	lifecycle *database.LifecycleStore
	scans     *database.ScanStore
	calls     *database.CallStore
	keywords  KeywordWriter
}

func NewHandler(log *logger.Logger, trendsCfg config.TrendsConfig, lifecycle *database.LifecycleStore,
	scans *database.ScanStore, calls *database.CallStore, keywords KeywordWriter) *Handler {
	return &Handler{
		log:       log,
		trendsCfg: trendsCfg,
		lifecycle: lifecycle,
		scans:     scans,
		calls:     calls,
		keywords:  keywords,
	}
}

func RegisterRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := router.Group("/api")
	{
		api.GET("/lifecycle", h.lifecycleCounts)
		api.GET("/scans", h.recentScans)
		api.GET("/rejects", h.topRejectReasons)
		api.GET("/calls", h.recentCalls)
		api.POST("/keywords", h.addKeyword)
	}
}

func (h *Handler) lifecycleCounts(c *gin.Context) {
	counts, err := h.lifecycle.StageCounts()
	if err != nil {
		h.log.Error("Lifecycle counts query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(counts))
	for stage := models.StageNeverRecheck; stage <= models.StageDead; stage++ {
		if n, ok := counts[stage]; ok {
			out = append(out, gin.H{"stage": stage, "label": models.StageLabel(stage), "n": n})
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) recentScans(c *gin.Context) {
	limit := intQuery(c, "limit", 30)
	events, err := h.scans.Recent(limit)
	if err != nil {
		h.log.Error("Recent scans query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) topRejectReasons(c *gin.Context) {
	hours := intQuery(c, "hours", 6)
	top := intQuery(c, "top", 15)
	rows, err := h.scans.TopRejectReasons(time.Duration(hours)*time.Hour, top)
	if err != nil {
		h.log.Error("Reject reasons query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) recentCalls(c *gin.Context) {
	limit := intQuery(c, "limit", 10)
	rows, err := h.calls.RecentWithOutcomes(limit)
	if err != nil {
		h.log.Error("Recent calls query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type addKeywordRequest struct {
	Term  string  `json:"term" binding:"required"`
	Score float64 `json:"score"`
}

func (h *Handler) addKeyword(c *gin.Context) {
	var req addKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "term is required"})
		return
	}
	score := req.Score
	if score <= 0 {
		score = h.trendsCfg.DefaultAddScore
	}
	if err := h.keywords.Add(req.Term, score); err != nil {
		h.log.Error("Keyword add failed", "term", req.Term, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
		return
	}
	h.log.Info("Keyword added", "term", req.Term, "score", score)
	c.JSON(http.StatusOK, gin.H{"term": req.Term, "score": score})
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
