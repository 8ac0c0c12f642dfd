package main

import "math"

// activityFactors maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used
// for input validation in patchProfile.
var activityFactors = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
}

// Defaults substituted for missing profile attributes wherever they are
// consumed. Onboarding is optional; the calculators never fail.
const (
	defaultWeightKG = 70.0
	defaultHeightCM = 170.0
	defaultAge      = 25
	defaultActivity = "light"
)

// resolveProfile applies the defaults to a possibly-sparse profile and
// returns the values the energy formulas consume.
func resolveProfile(p profile) (weightKG, heightCM float64, age int, sex, activity string) {
	weightKG = defaultWeightKG
	if p.WeightKG != nil && *p.WeightKG > 0 {
		weightKG = *p.WeightKG
	}
	heightCM = defaultHeightCM
	if p.HeightCM != nil && *p.HeightCM > 0 {
		heightCM = *p.HeightCM
	}
	age = defaultAge
	if a, ok := ageYears(p.DateOfBirth); ok {
		age = a
	}
	if p.Sex != nil {
		sex = *p.Sex
	}
	activity = defaultActivity
	if p.ActivityLevel != nil && *p.ActivityLevel != "" {
		activity = *p.ActivityLevel
	}
	return weightKG, heightCM, age, sex, activity
}

// autoGoals computes a complete daily goals record from a profile: BMR via
// Mifflin-St Jeor, a daily kcal budget via the activity multiplier, and a
// 25/45/30 protein/carb/fat calorie split. Fiber and water are fixed
// targets. Never fails — missing attributes fall back to the defaults.
func autoGoals(p profile) goals {
	weight, height, age, sex, activity := resolveProfile(p)

	bmr := 10*weight + 6.25*height - 5*float64(age)
	switch sex {
	case "male":
		bmr += 5
	case "female":
		bmr -= 161
	}

	factor, ok := activityFactors[activity]
	if !ok {
		factor = activityFactors[defaultActivity]
	}
	kcal := int(bmr * factor)

	return goals{
		Kcal:     kcal,
		ProteinG: int(0.25 * float64(kcal) / 4),
		CarbsG:   int(0.45 * float64(kcal) / 4),
		FatG:     int(0.30 * float64(kcal) / 9),
		FiberG:   25,
		WaterML:  2000,
	}
}

// macroSplit is the output of recommendedMacros: the three targets a goal
// scenario overwrites, leaving kcal/fiber/water untouched.
type macroSplit struct {
	ProteinG int `json:"protein_g"`
	FatG     int `json:"fat_g"`
	CarbsG   int `json:"carbs_g"`
}

// recommendedMacros computes protein/fat/carb gram targets for a kcal budget
// under a named goal scenario. Protein scales with body weight (g/kg by
// scenario), fat is a scenario ratio of total calories, and carbs take the
// remaining calories. All outputs are clamped at 0 — a low kcal budget with
// a high protein allocation can drive the carb remainder negative.
func recommendedMacros(p profile, kcal int, goal string) macroSplit {
	weight := defaultWeightKG
	if p.WeightKG != nil && *p.WeightKG > 0 {
		weight = *p.WeightKG
	}

	var proteinPerKG, fatRatio float64
	switch goal {
	case "muscle_gain":
		proteinPerKG, fatRatio = 2.0, 0.25
	case "fat_loss":
		proteinPerKG, fatRatio = 1.8, 0.30
	default: // maintenance
		proteinPerKG, fatRatio = 1.6, 0.28
	}

	protein := int(math.Round(proteinPerKG * weight))
	fat := int(fatRatio * float64(kcal) / 9)
	carbs := int(float64(kcal-(protein*4+fat*9)) / 4)

	return macroSplit{
		ProteinG: max(protein, 0),
		FatG:     max(fat, 0),
		CarbsG:   max(carbs, 0),
	}
}
