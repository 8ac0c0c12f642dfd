package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// validGoalScenarios is the accepted set for POST /api/goals/macros.
var validGoalScenarios = map[string]bool{
	"fat_loss":    true,
	"maintenance": true,
	"muscle_gain": true,
}

// minKcalTarget is the hard safety floor for tuned calorie targets.
const minKcalTarget = 1000

// getGoals returns the user's current daily goals.
// GET /api/goals. 404 when no goals record exists yet — clients typically
// respond by calling POST /api/goals/auto.
func (h *Handler) getGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	g, err := h.store.GetGoals(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}
	if g == nil {
		apiError(c, http.StatusNotFound, "goals not set")
		return
	}

	c.JSON(http.StatusOK, g)
}

// putGoals replaces the full goals record with a user edit.
// PUT /api/goals.
func (h *Handler) putGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body putGoalsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Kcal < 0 || body.ProteinG < 0 || body.CarbsG < 0 ||
		body.FatG < 0 || body.FiberG < 0 || body.WaterML < 0 {
		apiError(c, http.StatusBadRequest, "goal values must be >= 0")
		return
	}

	g, err := h.store.UpsertGoals(c.Request.Context(), goals{
		UserID:   userID,
		Kcal:     body.Kcal,
		ProteinG: body.ProteinG,
		CarbsG:   body.CarbsG,
		FatG:     body.FatG,
		FiberG:   body.FiberG,
		WaterML:  body.WaterML,
	})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update goals")
		return
	}

	c.JSON(http.StatusOK, g)
}

// autoGenerateGoals runs the baseline calculator over the stored profile and
// overwrites all six goal fields.
// POST /api/goals/auto.
func (h *Handler) autoGenerateGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := h.store.GetProfile(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	g := autoGoals(p)
	g.UserID = userID
	saved, err := h.store.UpsertGoals(c.Request.Context(), g)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update goals")
		return
	}

	c.JSON(http.StatusOK, saved)
}

// currentOrBaselineGoals returns the stored goals when present, otherwise
// the baseline-calculated record for the user's profile. The bool reports
// whether stored goals existed.
func (h *Handler) currentOrBaselineGoals(c *gin.Context, userID int) (goals, bool, error) {
	g, err := h.store.GetGoals(c.Request.Context(), userID)
	if err != nil {
		return goals{}, false, err
	}
	if g != nil {
		return *g, true, nil
	}
	p, err := h.store.GetProfile(c.Request.Context(), userID)
	if err != nil {
		return goals{}, false, err
	}
	base := autoGoals(p)
	base.UserID = userID
	return base, false, nil
}

// applyMacroScenario runs the scenario recommender at the current kcal
// target and merges only the three macro fields into the goals record.
// POST /api/goals/macros. Body: { "goal": "fat_loss" | "maintenance" | "muscle_gain" }.
func (h *Handler) applyMacroScenario(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Goal string `json:"goal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validGoalScenarios[body.Goal] {
		apiError(c, http.StatusBadRequest, "goal must be one of: fat_loss, maintenance, muscle_gain")
		return
	}

	current, _, err := h.currentOrBaselineGoals(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	p, err := h.store.GetProfile(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	split := recommendedMacros(p, current.Kcal, body.Goal)

	// Merge: only the keys the recommender computes are overwritten.
	current.ProteinG = split.ProteinG
	current.FatG = split.FatG
	current.CarbsG = split.CarbsG
	saved, err := h.store.UpsertGoals(c.Request.Context(), current)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update goals")
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": body.Goal, "macros": split, "goals": saved})
}

// tuneGoals runs the adherence tuner over recent log history and, when it
// proposes a non-zero adjustment, applies it with the safety floor.
// POST /api/goals/tune. Body: { "window": 14 } (optional; 7 and 14 are the
// values the UI offers). Insufficient history or unset goals is a normal
// outcome, reported as {"insufficient_data": true}, never an error.
func (h *Handler) tuneGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Window *int `json:"window"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	window := defaultAdherenceWindow
	if body.Window != nil {
		if *body.Window < 1 || *body.Window > 90 {
			apiError(c, http.StatusBadRequest, "window must be between 1 and 90")
			return
		}
		window = *body.Window
	}

	g, err := h.store.GetGoals(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}
	entries, err := h.store.ListLogs(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}

	res, ok := adherenceTune(entries, g, window)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"insufficient_data": true})
		return
	}

	applied := false
	if res.KcalAdjust != 0 {
		newKcal := g.Kcal + res.KcalAdjust
		if newKcal < minKcalTarget {
			newKcal = minKcalTarget
		}
		g.Kcal = newKcal
		updated, err := h.store.UpsertGoals(c.Request.Context(), *g)
		if err != nil {
			apiError(c, http.StatusInternalServerError, "failed to update goals")
			return
		}
		*g = updated
		applied = true
	}

	c.JSON(http.StatusOK, gin.H{
		"kcal_rate":    res.KcalRate,
		"protein_rate": res.ProteinRate,
		"kcal_adjust":  res.KcalAdjust,
		"applied":      applied,
		"kcal":         g.Kcal,
		"window":       window,
	})
}

// getTDEEEstimate recalibrates the energy-expenditure baseline from log
// history. GET /api/tdee?baseline=2200 (default: current goals kcal, else
// the baseline calculator). Insufficient history is reported as
// {"insufficient_data": true}.
func (h *Handler) getTDEEEstimate(c *gin.Context) {
	userID := c.GetInt("user_id")

	var baseline int
	if s := c.Query("baseline"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			apiError(c, http.StatusBadRequest, "baseline must be a positive integer")
			return
		}
		baseline = n
	} else {
		current, _, err := h.currentOrBaselineGoals(c, userID)
		if err != nil {
			apiError(c, http.StatusInternalServerError, "failed to fetch goals")
			return
		}
		baseline = current.Kcal
	}

	entries, err := h.store.ListLogs(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}

	est, ok := estimateTDEE(entries, baseline)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"insufficient_data": true, "baseline": baseline})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tdee": est, "baseline": baseline})
}
