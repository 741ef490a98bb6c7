package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"llmmonitor/internal/core"
	"llmmonitor/internal/metrics"
	"llmmonitor/internal/util"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

func respondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"records":   s.store.Len(),
		"timestamp": util.FormatTimestamp(time.Now()),
	})
}

// createLog ingests one record posted by a wrapper.
func (s *Server) createLog(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondWithError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondWithError(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	var record core.LogRecord
	if err := sonic.Unmarshal(body, &record); err != nil {
		respondWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid log record: %v", err))
		return
	}

	record.Provider = strings.ToLower(strings.TrimSpace(record.Provider))
	if err := validate.Struct(&record); err != nil {
		respondWithError(c, http.StatusBadRequest, fmt.Sprintf("invalid log record: %v", err))
		return
	}

	if record.RequestID == "" {
		record.RequestID = uuid.NewString()
	}
	if record.Timestamp == "" {
		record.Timestamp = util.FormatTimestamp(time.Now())
	}
	if record.TokenUsage != nil {
		estimate := s.costs.ForRecord(&record)
		record.Cost = &estimate
	}

	s.store.Put(&record)
	s.metricsService.RecordLog(&record)

	s.config.Logger.Debug("Logged %s %s/%s status=%d latency=%.0fms (request %s)",
		record.Endpoint, record.Provider, record.Model, record.Status, record.Latency, record.RequestID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": &record})
}

func (s *Server) listLogs(c *gin.Context) {
	limit := core.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, core.MaxListLimit)
	}

	records := s.store.List(LogFilter{
		Provider: c.Query("provider"),
		Model:    c.Query("model"),
		Limit:    limit,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"data":    records,
	})
}

func (s *Server) getLog(c *gin.Context) {
	record, ok := s.store.Get(c.Param("id"))
	if !ok {
		respondWithError(c, http.StatusNotFound, "log not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": record})
}

// getStats summarises the retained records and the recent ingest history.
func (s *Server) getStats(c *gin.Context) {
	var (
		total, successful     int64
		totalCost, latencySum float64
	)
	providers := make(map[string]int64)
	models := make(map[string]int64)

	for _, rec := range s.store.All() {
		total++
		if rec.Succeeded() {
			successful++
		}
		if rec.Cost != nil {
			totalCost += rec.Cost.TotalCost
		}
		latencySum += rec.Latency
		providers[rec.Provider]++
		models[rec.Model]++
	}

	overview := gin.H{
		"totalRequests":      total,
		"successfulRequests": successful,
		"failedRequests":     total - successful,
		"successRate":        0.0,
		"totalCost":          util.RoundTo(totalCost, 6),
		"avgLatency":         0.0,
	}
	if total > 0 {
		overview["successRate"] = util.RoundTo(float64(successful)/float64(total)*100, 2)
		overview["avgLatency"] = util.RoundTo(latencySum/float64(total), 2)
	}

	stats := s.metricsService.GetRequestStats()
	periodStats := metrics.GetPeriodStats(stats.RequestHistory, 24, 24*7, 24*30)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"overview":    overview,
			"providers":   providers,
			"models":      models,
			"received":    stats.TotalRequests,
			"currentQPS":  s.metricsService.GetQPS(),
			"stats24h":    periodStats[24],
			"stats7d":     periodStats[24*7],
			"stats30d":    periodStats[24*30],
			"generatedAt": util.FormatTimestamp(time.Now()),
		},
	})
}
