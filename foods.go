package main

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

/* ─── Catalog normalization ──────────────────────────────────────────── */

// standardFields is the normalized schema, in resolution order.
var standardFields = []string{"food", "kcal", "protein_g", "carbs_g", "fat_g"}

// columnSynonyms maps each standard field to the header spellings it may
// appear under in uploaded catalogs, English and localized variants
// included. Matching is case-insensitive; the first synonym found wins.
var columnSynonyms = map[string][]string{
	"food":      {"food", "name", "item", "食品", "食物"},
	"kcal":      {"kcal", "calories", "calorie", "熱量", "卡路里", "calories (kcal)", "kcal/serving"},
	"protein_g": {"protein", "protein_g", "蛋白質", "蛋白(g)", "蛋白質(g)", "protein (g)", "prot(g)"},
	"carbs_g":   {"carb", "carbs", "carbohydrate", "carbohydrates", "碳水", "碳水化合物", "碳水(g)", "carbs (g)"},
	"fat_g":     {"fat", "fat_g", "脂肪", "脂肪(g)", "fat (g)"},
}

// findColumn returns the index of the first synonym present in header
// (case-insensitive, whitespace-trimmed), or -1 if none match.
func findColumn(header []string, candidates []string) int {
	lc := make([]string, len(header))
	for i, h := range header {
		lc[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, cand := range candidates {
		want := strings.ToLower(cand)
		for i, h := range lc {
			if h == want {
				return i
			}
		}
	}
	return -1
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// toNumber coerces messy cell text like "120 kcal", "1,234" or "80g" to a
// float. Thousands-separator commas are stripped and the first signed
// decimal substring is taken; ok=false when no number can be extracted.
func toNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// foodRow is a normalized catalog entry. Kcal is always a parseable value
// (rows without one are dropped); densities are always finite.
type foodRow struct {
	Food              string  `json:"food"`
	Kcal              float64 `json:"kcal"`
	ProteinG          float64 `json:"protein_g"`
	CarbsG            float64 `json:"carbs_g"`
	FatG              float64 `json:"fat_g"`
	ProteinPer100Kcal float64 `json:"protein_per_100kcal"`
	CarbsPer100Kcal   float64 `json:"carbs_per_100kcal"`
	FatPer100Kcal     float64 `json:"fat_per_100kcal"`
}

// foodDiagnostics reports what the normalizer did: row counts before and
// after the kcal filter, and which input column served each standard field
// (the field name itself when nothing matched).
type foodDiagnostics struct {
	RowsIn        int               `json:"rows_in"`
	RowsAfterKcal int               `json:"rows_after_kcal"`
	ColumnsMapped map[string]string `json:"columns_mapped"`
}

// normalizeFoods maps a heterogeneous tabular food list onto the standard
// schema. Rows whose kcal cell yields no number are dropped — kcal is the
// pivot for all downstream density math. Missing or unparseable macro cells
// default to 0. When no food-name column resolves, the row's ordinal index
// is used as the name.
func normalizeFoods(header []string, rows [][]string) ([]foodRow, foodDiagnostics) {
	colIdx := make(map[string]int, len(standardFields))
	mapping := make(map[string]string, len(standardFields))
	for _, std := range standardFields {
		idx := findColumn(header, columnSynonyms[std])
		colIdx[std] = idx
		if idx >= 0 {
			mapping[std] = header[idx]
		} else {
			mapping[std] = std
		}
	}

	cell := func(row []string, std string) (string, bool) {
		idx := colIdx[std]
		if idx < 0 || idx >= len(row) {
			return "", false
		}
		return row[idx], true
	}

	out := make([]foodRow, 0, len(rows))
	for i, row := range rows {
		raw, ok := cell(row, "kcal")
		if !ok {
			continue
		}
		kcal, ok := toNumber(raw)
		if !ok {
			continue
		}

		f := foodRow{Kcal: kcal}
		if raw, ok := cell(row, "protein_g"); ok {
			f.ProteinG, _ = toNumber(raw)
		}
		if raw, ok := cell(row, "carbs_g"); ok {
			f.CarbsG, _ = toNumber(raw)
		}
		if raw, ok := cell(row, "fat_g"); ok {
			f.FatG, _ = toNumber(raw)
		}
		if raw, ok := cell(row, "food"); ok {
			f.Food = strings.TrimSpace(raw)
		} else {
			f.Food = strconv.Itoa(i)
		}

		// Densities per 100 kcal; zero-kcal rows get 0 instead of Inf/NaN.
		if kcal != 0 {
			f.ProteinPer100Kcal = f.ProteinG / kcal * 100
			f.CarbsPer100Kcal = f.CarbsG / kcal * 100
			f.FatPer100Kcal = f.FatG / kcal * 100
		}

		out = append(out, f)
	}

	return out, foodDiagnostics{
		RowsIn:        len(rows),
		RowsAfterKcal: len(out),
		ColumnsMapped: mapping,
	}
}

/* ─── Meal suggestion ranking ────────────────────────────────────────── */

// Fallback goal targets used by goalRatios when a goals record is absent or
// has unset (zero) macro fields.
const (
	fallbackProteinG = 120.0
	fallbackCarbsG   = 200.0
	fallbackFatG     = 60.0
)

// goalRatios converts the goal macro grams to calorie contributions
// (4/4/9 kcal per gram) and normalizes by their sum, floored at 1.0 to
// avoid a zero denominator.
func goalRatios(g *goals) (p, c, f float64) {
	pg, cg, fg := fallbackProteinG, fallbackCarbsG, fallbackFatG
	if g != nil {
		if g.ProteinG > 0 {
			pg = float64(g.ProteinG)
		}
		if g.CarbsG > 0 {
			cg = float64(g.CarbsG)
		}
		if g.FatG > 0 {
			fg = float64(g.FatG)
		}
	}
	pk, ck, fk := pg*4, cg*4, fg*9
	total := math.Max(pk+ck+fk, 1.0)
	return pk / total, ck / total, fk / total
}

// suggestion is a catalog row scored against a target meal-calorie budget,
// with macro grams scaled to that budget. Lower score is better.
type suggestion struct {
	foodRow
	MealKcalTarget int     `json:"meal_kcal_target"`
	EstProteinG    float64 `json:"est_protein_g"`
	EstCarbsG      float64 `json:"est_carbs_g"`
	EstFatG        float64 `json:"est_fat_g"`
	Score          float64 `json:"score"`
}

// kcalPenaltyWeight scales the serving-size mismatch term in every strategy.
const kcalPenaltyWeight = 0.2

// suggestMeals scores and ranks catalog rows against a target meal kcal and
// a macro-preference strategy, returning at most topn suggestions sorted by
// ascending score. Strategies:
//
//	balanced     — squared distance between the food's scaled macro ratios
//	               and the goal ratios
//	high_protein — negated protein density (denser is better)
//	low_carb     — carb density (lower is better)
//
// each plus a penalty for servings far from the target meal size. Foods
// with kcal=0 scale to zero contribution rather than faulting.
func suggestMeals(foodRows []foodRow, g *goals, mealKcal int, strategy string, topn int) []suggestion {
	if len(foodRows) == 0 {
		return []suggestion{}
	}

	gp, gc, gf := goalRatios(g)
	target := float64(mealKcal)

	out := make([]suggestion, 0, len(foodRows))
	for _, f := range foodRows {
		var scale float64
		if f.Kcal != 0 {
			scale = target / f.Kcal
		}

		pk := f.ProteinG * 4 * scale
		ck := f.CarbsG * 4 * scale
		fk := f.FatG * 9 * scale
		var rp, rc, rf float64
		if totalK := pk + ck + fk; totalK != 0 {
			rp, rc, rf = pk/totalK, ck/totalK, fk/totalK
		}

		ratioMSE := (rp-gp)*(rp-gp) + (rc-gc)*(rc-gc) + (rf-gf)*(rf-gf)
		kcalPen := math.Abs(f.Kcal-target) / math.Max(target, 1)

		var score float64
		switch strategy {
		case "high_protein":
			score = -f.ProteinPer100Kcal + kcalPenaltyWeight*kcalPen
		case "low_carb":
			score = f.CarbsPer100Kcal + kcalPenaltyWeight*kcalPen
		default: // balanced
			score = ratioMSE + kcalPenaltyWeight*kcalPen
		}

		out = append(out, suggestion{
			foodRow:        f,
			MealKcalTarget: mealKcal,
			EstProteinG:    round1(f.ProteinG * scale),
			EstCarbsG:      round1(f.CarbsG * scale),
			EstFatG:        round1(f.FatG * scale),
			Score:          score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	if topn >= 0 && len(out) > topn {
		out = out[:topn]
	}
	return out
}
