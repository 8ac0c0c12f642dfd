package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// validSexes is the accepted set for the profiles.sex column. Reject unknown
// values with 400 rather than letting the DB return a cryptic 500.
var validSexes = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// populateComputed fills the derived profile fields: age from date of birth
// and the imperial view of height/weight. No-ops for attributes that are
// missing.
func populateComputed(p *profile) {
	if age, ok := ageYears(p.DateOfBirth); ok {
		p.AgeYears = &age
	}
	if p.HeightCM != nil {
		ft, inch, _ := metricToImperial(*p.HeightCM, 0)
		p.HeightImp = &imperialSize{Feet: ft, Inches: inch}
	}
	if p.WeightKG != nil {
		_, _, lb := metricToImperial(0, *p.WeightKG)
		p.WeightLB = &lb
	}
}

// getProfile returns the authenticated user's profile with computed age and
// imperial-converted measurements.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := h.store.GetProfile(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	populateComputed(&p)
	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. Uses pointer fields in the request body to distinguish
// "not provided" from zero — only non-nil fields get written.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate activity_level before saving — an unknown level silently
	// degrades every future goal calculation to the default multiplier.
	if body.ActivityLevel != nil {
		if _, ok := activityFactors[*body.ActivityLevel]; !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active")
			return
		}
	}
	if body.Sex != nil && !validSexes[*body.Sex] {
		apiError(c, http.StatusBadRequest, "sex must be one of: male, female, other")
		return
	}

	var dob *DateOnly
	if body.DateOfBirth != nil {
		t, err := time.Parse("2006-01-02", *body.DateOfBirth)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date_of_birth, expected YYYY-MM-DD")
			return
		}
		dob = &DateOnly{t}
	}
	if body.HeightCM != nil && (*body.HeightCM < 0 || *body.HeightCM > 300) {
		apiError(c, http.StatusBadRequest, "height_cm must be between 0 and 300")
		return
	}
	if body.WeightKG != nil && (*body.WeightKG < 0 || *body.WeightKG > 500) {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 0 and 500")
		return
	}

	// Read-merge-upsert: fields the client didn't send keep their values.
	p, err := h.store.GetProfile(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	if body.Sex != nil {
		p.Sex = body.Sex
	}
	if dob != nil {
		p.DateOfBirth = dob
	}
	if body.HeightCM != nil {
		p.HeightCM = body.HeightCM
	}
	if body.WeightKG != nil {
		p.WeightKG = body.WeightKG
	}
	if body.ActivityLevel != nil {
		p.ActivityLevel = body.ActivityLevel
	}

	updated, err := h.store.UpsertProfile(c.Request.Context(), p)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	populateComputed(&updated)
	c.JSON(http.StatusOK, updated)
}

// getSettings returns the display/preference settings.
// GET /api/settings.
func (h *Handler) getSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	s, err := h.store.GetSettings(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "settings not found")
		return
	}

	c.JSON(http.StatusOK, s)
}

// patchSettings updates only the provided settings fields.
// PATCH /api/settings.
func (h *Handler) patchSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.UnitSystem != nil && *body.UnitSystem != "metric" && *body.UnitSystem != "imperial" {
		apiError(c, http.StatusBadRequest, "unit_system must be metric or imperial")
		return
	}
	if body.HydrationGoalL != nil && *body.HydrationGoalL < 0 {
		apiError(c, http.StatusBadRequest, "hydration_goal_l must be >= 0")
		return
	}

	s, err := h.store.GetSettings(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "settings not found")
		return
	}
	if body.UnitSystem != nil {
		s.UnitSystem = *body.UnitSystem
	}
	if body.ShowHydration != nil {
		s.ShowHydration = *body.ShowHydration
	}
	if body.HydrationGoalL != nil {
		s.HydrationGoalL = *body.HydrationGoalL
	}
	if body.NudgeOptIn != nil {
		s.NudgeOptIn = *body.NudgeOptIn
	}

	updated, err := h.store.UpsertSettings(c.Request.Context(), s)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update settings")
		return
	}

	c.JSON(http.StatusOK, updated)
}
