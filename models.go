package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	Name      string     `json:"name" db:"name"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// imperialSize is a feet/inches pair for display when unit_system=imperial.
type imperialSize struct {
	Feet   int     `json:"feet"`
	Inches float64 `json:"inches"`
}

// profile maps to the profiles table. Every attribute is nullable — a
// freshly registered user has an all-NULL row, and the goal calculator
// substitutes defaults for whatever is missing.
type profile struct {
	UserID        int       `json:"user_id" db:"user_id"`
	Sex           *string   `json:"sex" db:"sex"`
	DateOfBirth   *DateOnly `json:"date_of_birth" db:"date_of_birth"`
	HeightCM      *float64  `json:"height_cm" db:"height_cm"`
	WeightKG      *float64  `json:"weight_kg" db:"weight_kg"`
	ActivityLevel *string   `json:"activity_level" db:"activity_level"`

	// Computed fields — populated server-side from the stored attributes;
	// db:"-" tells RowToStructByName to skip these during scanning.
	AgeYears  *int          `json:"age_years,omitempty" db:"-"`
	HeightImp *imperialSize `json:"height_imperial,omitempty" db:"-"`
	WeightLB  *float64      `json:"weight_lb,omitempty" db:"-"`
}

// userSettings maps to the settings table: display/preference flags only.
// None of the nutrition math reads these.
type userSettings struct {
	UserID         int     `json:"user_id" db:"user_id"`
	UnitSystem     string  `json:"unit_system" db:"unit_system"`
	ShowHydration  bool    `json:"show_hydration" db:"show_hydration"`
	HydrationGoalL float64 `json:"hydration_goal_l" db:"hydration_goal_l"`
	NudgeOptIn     bool    `json:"nudge_opt_in" db:"nudge_opt_in"`
}

// goals maps to the goals table: one row per user with the six daily targets.
type goals struct {
	UserID   int `json:"user_id" db:"user_id"`
	Kcal     int `json:"kcal" db:"kcal"`
	ProteinG int `json:"protein_g" db:"protein_g"`
	CarbsG   int `json:"carbs_g" db:"carbs_g"`
	FatG     int `json:"fat_g" db:"fat_g"`
	FiberG   int `json:"fiber_g" db:"fiber_g"`
	WaterML  int `json:"water_ml" db:"water_ml"`
}

// logEntry maps to the logs table. Nullable numeric fields use pointers so
// pgx can scan NULLs and the rolling-window math can distinguish "not
// logged" from zero. Rows are append-only; repeated dates are extra rows,
// not replacements.
type logEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	WeightKG  *float64   `json:"weight_kg" db:"weight_kg"`
	KcalIn    *int       `json:"kcal_in" db:"kcal_in"`
	ProteinG  *int       `json:"protein_g" db:"protein_g"`
	CarbsG    *int       `json:"carbs_g" db:"carbs_g"`
	FatG      *int       `json:"fat_g" db:"fat_g"`
	Steps     *int       `json:"steps" db:"steps"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// registerRequest is the request body for POST /api/register.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// All fields are pointers — only non-nil fields get written.
type patchProfileRequest struct {
	Sex           *string  `json:"sex"`
	DateOfBirth   *string  `json:"date_of_birth"` // YYYY-MM-DD string, stored as date
	HeightCM      *float64 `json:"height_cm"`
	WeightKG      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
}

// patchSettingsRequest is the request body for PATCH /api/settings.
type patchSettingsRequest struct {
	UnitSystem     *string  `json:"unit_system"`
	ShowHydration  *bool    `json:"show_hydration"`
	HydrationGoalL *float64 `json:"hydration_goal_l"`
	NudgeOptIn     *bool    `json:"nudge_opt_in"`
}

// putGoalsRequest is the request body for PUT /api/goals — a full user edit.
// Every field is required here, unlike the merge endpoints which overwrite
// only the keys they compute.
type putGoalsRequest struct {
	Kcal     int `json:"kcal"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
	FiberG   int `json:"fiber_g"`
	WaterML  int `json:"water_ml"`
}

// createLogRequest is the request body for POST /api/logs.
type createLogRequest struct {
	Date     string   `json:"date"`
	WeightKG *float64 `json:"weight_kg"`
	KcalIn   *int     `json:"kcal_in"`
	ProteinG *int     `json:"protein_g"`
	CarbsG   *int     `json:"carbs_g"`
	FatG     *int     `json:"fat_g"`
	Steps    *int     `json:"steps"`
}
