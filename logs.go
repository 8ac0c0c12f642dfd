package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// createLog appends a daily record. Entries are append-only; posting the
// same date again adds another row rather than replacing the first.
// POST /api/logs. Defaults date to today if omitted.
func (h *Handler) createLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if body.WeightKG != nil && (*body.WeightKG < 0 || *body.WeightKG > 500) {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 0 and 500")
		return
	}
	if body.KcalIn != nil && *body.KcalIn < 0 {
		apiError(c, http.StatusBadRequest, "kcal_in must be >= 0")
		return
	}
	if body.Steps != nil && *body.Steps < 0 {
		apiError(c, http.StatusBadRequest, "steps must be >= 0")
		return
	}

	entry, err := h.store.AddLog(c.Request.Context(), logEntry{
		UserID:   userID,
		Date:     DateOnly{date},
		WeightKG: body.WeightKG,
		KcalIn:   body.KcalIn,
		ProteinG: body.ProteinG,
		CarbsG:   body.CarbsG,
		FatG:     body.FatG,
		Steps:    body.Steps,
	})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create log entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// listLogs returns all log entries for the user, ascending by date.
// GET /api/logs.
func (h *Handler) listLogs(c *gin.Context) {
	userID := c.GetInt("user_id")

	entries, err := h.store.ListLogs(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}
	// Ensure entries is an empty array (not null) in JSON
	if entries == nil {
		entries = []logEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// logSummary is the response shape for GET /api/logs/summary: trailing macro
// averages and the latest logged weight.
type logSummary struct {
	Days           int      `json:"days"`
	EntriesUsed    int      `json:"entries_used"`
	AvgProteinG    *float64 `json:"avg_protein_g"`
	AvgCarbsG      *float64 `json:"avg_carbs_g"`
	AvgFatG        *float64 `json:"avg_fat_g"`
	LatestWeightKG *float64 `json:"latest_weight_kg"`
}

// getLogSummary averages the macro fields over the most recent N entries
// that carry all three macros, and reports the latest logged weight.
// GET /api/logs/summary?days=7 (default 7, max 90).
func (h *Handler) getLogSummary(c *gin.Context) {
	userID := c.GetInt("user_id")

	days := 7
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 90 {
			apiError(c, http.StatusBadRequest, "days must be an integer between 1 and 90")
			return
		}
		days = n
	}

	entries, err := h.store.ListLogs(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}

	summary := logSummary{Days: days}

	// Latest weight across the whole history (entries are date-ascending).
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].WeightKG != nil {
			w := *entries[i].WeightKG
			summary.LatestWeightKG = &w
			break
		}
	}

	tail := entries
	if len(tail) > days {
		tail = tail[len(tail)-days:]
	}
	var pSum, cSum, fSum float64
	for _, e := range tail {
		if e.ProteinG == nil || e.CarbsG == nil || e.FatG == nil {
			continue
		}
		summary.EntriesUsed++
		pSum += float64(*e.ProteinG)
		cSum += float64(*e.CarbsG)
		fSum += float64(*e.FatG)
	}
	if summary.EntriesUsed > 0 {
		n := float64(summary.EntriesUsed)
		p, cg, f := pSum/n, cSum/n, fSum/n
		summary.AvgProteinG = &p
		summary.AvgCarbsG = &cg
		summary.AvgFatG = &f
	}

	c.JSON(http.StatusOK, summary)
}
