package main

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// validStrategies is the accepted set for the suggestion ranker.
var validStrategies = map[string]bool{
	"balanced":     true,
	"high_protein": true,
	"low_carb":     true,
}

// readCatalogCSV reads the uploaded "file" form field as CSV and splits it
// into header and data rows. A malformed file (bad quoting, no header) is
// fatal to the request per the load contract — individual messy cells are
// not; those degrade inside the normalizer.
func readCatalogCSV(c *gin.Context) (header []string, rows [][]string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apiError(c, http.StatusBadRequest, "file is required")
		return nil, nil, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		apiError(c, http.StatusBadRequest, "failed to open uploaded file")
		return nil, nil, false
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are the normalizer's problem
	records, err := reader.ReadAll()
	if err != nil {
		apiError(c, http.StatusBadRequest, "malformed CSV file")
		return nil, nil, false
	}
	if len(records) == 0 {
		apiError(c, http.StatusBadRequest, "CSV file is empty")
		return nil, nil, false
	}
	return records[0], records[1:], true
}

// normalizeCatalog ingests an uploaded food CSV and returns the normalized
// rows plus diagnostics (row counts, resolved column mapping).
// POST /api/foods/normalize (multipart, field "file").
func (h *Handler) normalizeCatalog(c *gin.Context) {
	header, rows, ok := readCatalogCSV(c)
	if !ok {
		return
	}

	foods, diag := normalizeFoods(header, rows)
	c.JSON(http.StatusOK, gin.H{"foods": foods, "diagnostics": diag})
}

// suggestFromCatalog normalizes an uploaded food CSV and ranks it against
// the user's goals.
// POST /api/foods/suggest?meal_kcal=600&strategy=balanced&topn=12
// (multipart, field "file"). meal_kcal defaults to a third of the daily
// kcal target, floored at 200 — the original per-meal heuristic.
func (h *Handler) suggestFromCatalog(c *gin.Context) {
	userID := c.GetInt("user_id")

	strategy := c.DefaultQuery("strategy", "balanced")
	if !validStrategies[strategy] {
		apiError(c, http.StatusBadRequest, "strategy must be one of: balanced, high_protein, low_carb")
		return
	}

	topn := 12
	if s := c.Query("topn"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 100 {
			apiError(c, http.StatusBadRequest, "topn must be an integer between 1 and 100")
			return
		}
		topn = n
	}

	current, _, err := h.currentOrBaselineGoals(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	mealKcal := max(200, current.Kcal/3)
	if s := c.Query("meal_kcal"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			apiError(c, http.StatusBadRequest, "meal_kcal must be a positive integer")
			return
		}
		mealKcal = n
	}

	header, rows, ok := readCatalogCSV(c)
	if !ok {
		return
	}

	foods, diag := normalizeFoods(header, rows)
	suggestions := suggestMeals(foods, &current, mealKcal, strategy, topn)

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"diagnostics": diag,
		"meal_kcal":   mealKcal,
		"strategy":    strategy,
	})
}
