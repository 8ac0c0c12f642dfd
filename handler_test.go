package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// setupRouter wires the full route table against a fresh in-memory store.
func setupRouter() (*gin.Engine, *memoryStore) {
	gin.SetMode(gin.TestMode)
	st := newMemoryStore()
	h := &Handler{store: st}
	router := gin.New()
	h.registerRoutes(router)
	return router, st
}

// performJSON sends a JSON request through the router. A nil body sends an
// empty request; a non-empty token goes into the Authorization header.
func performJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(b)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorder body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return out
}

// registerTestUser creates an account and returns its token and user id.
func registerTestUser(t *testing.T, router *gin.Engine, email string) (token string, userID int) {
	t.Helper()
	w := performJSON(t, router, http.MethodPost, "/api/register", "", registerRequest{
		Email: email, Password: "passw0rd123", Name: "Test User",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	return resp["token"].(string), int(resp["user_id"].(float64))
}

// seedLogs inserts entries directly into the store, bypassing the API, for
// tests that need long histories.
func seedLogs(t *testing.T, st *memoryStore, userID, days, kcal, protein int, weight float64) {
	t.Helper()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		k, p, wt := kcal, protein, weight
		_, err := st.AddLog(context.Background(), logEntry{
			UserID:   userID,
			Date:     DateOnly{start.AddDate(0, 0, i)},
			KcalIn:   &k,
			ProteinG: &p,
			WeightKG: &wt,
		})
		if err != nil {
			t.Fatalf("seed log: %v", err)
		}
	}
}

/* ─── Auth ───────────────────────────────────────────────────────────── */

func TestRegister_Validation(t *testing.T) {
	router, _ := setupRouter()

	cases := []struct {
		name string
		body registerRequest
		want int
	}{
		{"ok", registerRequest{Email: "a@example.com", Password: "passw0rd123"}, http.StatusCreated},
		{"bad email", registerRequest{Email: "not-an-email", Password: "passw0rd123"}, http.StatusBadRequest},
		{"short password", registerRequest{Email: "b@example.com", Password: "abc1"}, http.StatusBadRequest},
		{"no digits", registerRequest{Email: "c@example.com", Password: "passwords"}, http.StatusBadRequest},
		{"duplicate", registerRequest{Email: "a@example.com", Password: "passw0rd123"}, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performJSON(t, router, http.MethodPost, "/api/register", "", tc.body)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestRegister_EmailCaseInsensitive(t *testing.T) {
	router, _ := setupRouter()
	registerTestUser(t, router, "case@example.com")

	w := performJSON(t, router, http.MethodPost, "/api/register", "", registerRequest{
		Email: "CASE@Example.com", Password: "passw0rd123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 for case-variant duplicate", w.Code)
	}
}

func TestLogin(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "login@example.com")

	w := performJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"email": "login@example.com", "password": "passw0rd123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["token"]; got != token {
		t.Errorf("login token = %v, want the registration token", got)
	}

	w = performJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"email": "login@example.com", "password": "wrongpass1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", w.Code)
	}

	w = performJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"email": "nobody@example.com", "password": "passw0rd123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	router, _ := setupRouter()

	w := performJSON(t, router, http.MethodGet, "/api/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no header: status = %d, want 401", w.Code)
	}

	w = performJSON(t, router, http.MethodGet, "/api/profile", "bogus-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}
}

/* ─── Profile & settings ─────────────────────────────────────────────── */

func TestProfile_PatchMergesFields(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "profile@example.com")

	// First patch sets height, second sets weight; both must survive.
	w := performJSON(t, router, http.MethodPatch, "/api/profile", token, gin.H{"height_cm": 175.0})
	if w.Code != http.StatusOK {
		t.Fatalf("patch height: %d %s", w.Code, w.Body.String())
	}
	w = performJSON(t, router, http.MethodPatch, "/api/profile", token, gin.H{"weight_kg": 70.0})
	if w.Code != http.StatusOK {
		t.Fatalf("patch weight: %d %s", w.Code, w.Body.String())
	}

	w = performJSON(t, router, http.MethodGet, "/api/profile", token, nil)
	resp := decodeBody(t, w)
	if resp["height_cm"] != 175.0 || resp["weight_kg"] != 70.0 {
		t.Errorf("merged profile = %v/%v, want 175/70", resp["height_cm"], resp["weight_kg"])
	}
	// Imperial views computed server-side.
	if resp["weight_lb"] == nil || resp["height_imperial"] == nil {
		t.Error("expected computed imperial fields in response")
	}
}

func TestProfile_PatchValidation(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "pv@example.com")

	cases := []struct {
		name string
		body gin.H
	}{
		{"bad activity", gin.H{"activity_level": "extreme"}},
		{"bad sex", gin.H{"sex": "unknown"}},
		{"bad dob", gin.H{"date_of_birth": "31-12-1990"}},
		{"height out of range", gin.H{"height_cm": 400.0}},
		{"weight out of range", gin.H{"weight_kg": 600.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performJSON(t, router, http.MethodPatch, "/api/profile", token, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestSettings_DefaultsAndPatch(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "settings@example.com")

	w := performJSON(t, router, http.MethodGet, "/api/settings", token, nil)
	resp := decodeBody(t, w)
	if resp["unit_system"] != "metric" || resp["hydration_goal_l"] != 2.0 || resp["nudge_opt_in"] != true {
		t.Errorf("unexpected defaults: %v", resp)
	}

	w = performJSON(t, router, http.MethodPatch, "/api/settings", token, gin.H{"unit_system": "imperial", "show_hydration": true})
	if w.Code != http.StatusOK {
		t.Fatalf("patch settings: %d %s", w.Code, w.Body.String())
	}
	resp = decodeBody(t, w)
	if resp["unit_system"] != "imperial" || resp["show_hydration"] != true {
		t.Errorf("patched settings = %v", resp)
	}
	// Unsent fields keep their values.
	if resp["hydration_goal_l"] != 2.0 {
		t.Errorf("hydration_goal_l = %v, want 2.0 preserved", resp["hydration_goal_l"])
	}

	w = performJSON(t, router, http.MethodPatch, "/api/settings", token, gin.H{"unit_system": "stone"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad unit_system: status = %d, want 400", w.Code)
	}
}

/* ─── Goals ──────────────────────────────────────────────────────────── */

func TestGoals_NotSetThenAuto(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "goals@example.com")

	w := performJSON(t, router, http.MethodGet, "/api/goals", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unset goals: status = %d, want 404", w.Code)
	}

	// Empty profile → calculator defaults → kcal 2251.
	w = performJSON(t, router, http.MethodPost, "/api/goals/auto", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("auto goals: %d %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["kcal"] != 2251.0 {
		t.Errorf("auto kcal = %v, want 2251", resp["kcal"])
	}
	if resp["fiber_g"] != 25.0 || resp["water_ml"] != 2000.0 {
		t.Errorf("fiber/water = %v/%v, want 25/2000", resp["fiber_g"], resp["water_ml"])
	}

	w = performJSON(t, router, http.MethodGet, "/api/goals", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("goals after auto: status = %d, want 200", w.Code)
	}
}

func TestGoals_Put(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "put@example.com")

	body := putGoalsRequest{Kcal: 2200, ProteinG: 150, CarbsG: 250, FatG: 70, FiberG: 30, WaterML: 2500}
	w := performJSON(t, router, http.MethodPut, "/api/goals", token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("put goals: %d %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["kcal"] != 2200.0 || resp["protein_g"] != 150.0 {
		t.Errorf("saved goals = %v", resp)
	}

	w = performJSON(t, router, http.MethodPut, "/api/goals", token, putGoalsRequest{Kcal: -1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative kcal: status = %d, want 400", w.Code)
	}
}

func TestGoals_MacroScenarioMergesOnlyMacros(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "macros@example.com")

	performJSON(t, router, http.MethodPatch, "/api/profile", token, gin.H{"weight_kg": 70.0})
	performJSON(t, router, http.MethodPut, "/api/goals", token,
		putGoalsRequest{Kcal: 2000, ProteinG: 1, CarbsG: 1, FatG: 1, FiberG: 30, WaterML: 2500})

	w := performJSON(t, router, http.MethodPost, "/api/goals/macros", token, gin.H{"goal": "fat_loss"})
	if w.Code != http.StatusOK {
		t.Fatalf("macros: %d %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	saved := resp["goals"].(map[string]any)
	// 70 kg @ 2000 kcal fat_loss → protein 126, fat 66, carbs 225.
	if saved["protein_g"] != 126.0 || saved["fat_g"] != 66.0 || saved["carbs_g"] != 225.0 {
		t.Errorf("macros = %v/%v/%v, want 126/66/225", saved["protein_g"], saved["fat_g"], saved["carbs_g"])
	}
	// Non-macro keys survive the merge untouched.
	if saved["kcal"] != 2000.0 || saved["fiber_g"] != 30.0 || saved["water_ml"] != 2500.0 {
		t.Errorf("non-macro keys changed: %v", saved)
	}

	w = performJSON(t, router, http.MethodPost, "/api/goals/macros", token, gin.H{"goal": "bulk"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid scenario: status = %d, want 400", w.Code)
	}
}

/* ─── Tuning & TDEE ──────────────────────────────────────────────────── */

func TestTuneGoals_AppliesAdjustment(t *testing.T) {
	router, st := setupRouter()
	token, userID := registerTestUser(t, router, "tune@example.com")

	performJSON(t, router, http.MethodPut, "/api/goals", token,
		putGoalsRequest{Kcal: 2000, ProteinG: 120, CarbsG: 200, FatG: 60})
	seedLogs(t, st, userID, 14, 2000, 120, 80)

	w := performJSON(t, router, http.MethodPost, "/api/goals/tune", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tune: %d %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["kcal_rate"] != 1.0 || resp["kcal_adjust"] != 100.0 {
		t.Errorf("rate/adjust = %v/%v, want 1.0/+100", resp["kcal_rate"], resp["kcal_adjust"])
	}
	if resp["applied"] != true || resp["kcal"] != 2100.0 {
		t.Errorf("applied/kcal = %v/%v, want true/2100", resp["applied"], resp["kcal"])
	}
	if resp["window"] != 14.0 {
		t.Errorf("window = %v, want default 14", resp["window"])
	}
}

func TestTuneGoals_KcalFloor(t *testing.T) {
	router, st := setupRouter()
	token, userID := registerTestUser(t, router, "floor@example.com")

	// Off-target history proposes −100, but 1050−100 floors at 1000.
	performJSON(t, router, http.MethodPut, "/api/goals", token,
		putGoalsRequest{Kcal: 1050, ProteinG: 120, CarbsG: 200, FatG: 60})
	seedLogs(t, st, userID, 14, 2000, 10, 80)

	w := performJSON(t, router, http.MethodPost, "/api/goals/tune", token, nil)
	resp := decodeBody(t, w)
	if resp["kcal_adjust"] != -100.0 {
		t.Errorf("kcal_adjust = %v, want -100", resp["kcal_adjust"])
	}
	if resp["kcal"] != 1000.0 {
		t.Errorf("kcal = %v, want floor 1000", resp["kcal"])
	}
}

func TestTuneGoals_InsufficientData(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "nodata@example.com")

	// No goals and no logs: a normal 200, not an error.
	w := performJSON(t, router, http.MethodPost, "/api/goals/tune", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tune: %d %s", w.Code, w.Body.String())
	}
	if resp := decodeBody(t, w); resp["insufficient_data"] != true {
		t.Errorf("response = %v, want insufficient_data=true", resp)
	}
}

func TestTuneGoals_WindowValidation(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "window@example.com")

	w := performJSON(t, router, http.MethodPost, "/api/goals/tune", token, gin.H{"window": 0})
	if w.Code != http.StatusBadRequest {
		t.Errorf("window=0: status = %d, want 400", w.Code)
	}
	w = performJSON(t, router, http.MethodPost, "/api/goals/tune", token, gin.H{"window": 91})
	if w.Code != http.StatusBadRequest {
		t.Errorf("window=91: status = %d, want 400", w.Code)
	}
}

func TestTDEEEndpoint(t *testing.T) {
	router, st := setupRouter()
	token, userID := registerTestUser(t, router, "tdee@example.com")

	// Not enough history yet.
	w := performJSON(t, router, http.MethodGet, "/api/tdee?baseline=2000", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tdee: %d %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["insufficient_data"] != true || resp["baseline"] != 2000.0 {
		t.Errorf("response = %v, want insufficient_data with baseline echoed", resp)
	}

	// Steady intake at stable weight → estimate equals intake.
	seedLogs(t, st, userID, 21, 2000, 120, 80)
	w = performJSON(t, router, http.MethodGet, "/api/tdee?baseline=2000", token, nil)
	resp = decodeBody(t, w)
	if resp["tdee"] != 2000.0 {
		t.Errorf("tdee = %v, want 2000", resp["tdee"])
	}

	w = performJSON(t, router, http.MethodGet, "/api/tdee?baseline=-5", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative baseline: status = %d, want 400", w.Code)
	}
}

/* ─── Logs ───────────────────────────────────────────────────────────── */

func TestLogs_CreateAndList(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "logs@example.com")

	w := performJSON(t, router, http.MethodGet, "/api/logs", token, nil)
	if w.Body.String() != "[]" {
		t.Errorf("empty list = %q, want []", w.Body.String())
	}

	kcal := 1800
	weight := 79.5
	w = performJSON(t, router, http.MethodPost, "/api/logs", token, createLogRequest{
		Date: "2026-03-01", KcalIn: &kcal, WeightKG: &weight,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create log: %d %s", w.Code, w.Body.String())
	}

	// Same date again: append, not replace.
	w = performJSON(t, router, http.MethodPost, "/api/logs", token, createLogRequest{Date: "2026-03-01", KcalIn: &kcal})
	if w.Code != http.StatusCreated {
		t.Fatalf("second log: %d %s", w.Code, w.Body.String())
	}

	w = performJSON(t, router, http.MethodGet, "/api/logs", token, nil)
	var entries []logEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal logs: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2 (append-only)", len(entries))
	}
}

func TestLogs_Validation(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "lv@example.com")

	negKcal := -100
	negSteps := -1
	heavy := 600.0
	cases := []struct {
		name string
		body createLogRequest
	}{
		{"bad date", createLogRequest{Date: "03/01/2026"}},
		{"negative kcal", createLogRequest{KcalIn: &negKcal}},
		{"negative steps", createLogRequest{Steps: &negSteps}},
		{"weight out of range", createLogRequest{WeightKG: &heavy}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performJSON(t, router, http.MethodPost, "/api/logs", token, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestLogSummary(t *testing.T) {
	router, st := setupRouter()
	token, userID := registerTestUser(t, router, "summary@example.com")

	// 10 complete entries at protein 120; only the last 7 count by default.
	seedLogs(t, st, userID, 10, 2000, 120, 80)
	// Macro-less weight-only entry on a later date becomes the latest weight.
	wt := 78.5
	_, err := st.AddLog(context.Background(), logEntry{
		UserID:   userID,
		Date:     DateOnly{time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		WeightKG: &wt,
	})
	if err != nil {
		t.Fatalf("seed weight entry: %v", err)
	}

	w := performJSON(t, router, http.MethodGet, "/api/logs/summary", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: %d %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["latest_weight_kg"] != 78.5 {
		t.Errorf("latest_weight_kg = %v, want 78.5", resp["latest_weight_kg"])
	}
	// 7-entry tail includes the macro-less row, leaving 6 usable entries.
	if resp["entries_used"] != 6.0 {
		t.Errorf("entries_used = %v, want 6", resp["entries_used"])
	}
	if resp["avg_protein_g"] != 120.0 {
		t.Errorf("avg_protein_g = %v, want 120", resp["avg_protein_g"])
	}

	w = performJSON(t, router, http.MethodGet, "/api/logs/summary?days=200", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("days=200: status = %d, want 400", w.Code)
	}
}

/* ─── Food catalog upload ────────────────────────────────────────────── */

// performMultipart uploads a CSV as the "file" form field.
func performMultipart(t *testing.T, router *gin.Engine, path, token, csvData string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "foods.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(csvData)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const sampleCSV = `food,kcal,protein,carbs,fat
chicken breast,500,90,0,11
white rice,500,9,110,1
mystery,,5,5,5
`

func TestNormalizeCatalogEndpoint(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "csv@example.com")

	w := performMultipart(t, router, "/api/foods/normalize", token, sampleCSV)
	if w.Code != http.StatusOK {
		t.Fatalf("normalize: %d %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	foods := resp["foods"].([]any)
	if len(foods) != 2 {
		t.Errorf("got %d foods, want 2 (kcal-less row dropped)", len(foods))
	}
	diag := resp["diagnostics"].(map[string]any)
	if diag["rows_in"] != 3.0 || diag["rows_after_kcal"] != 2.0 {
		t.Errorf("diagnostics = %v, want rows 3/2", diag)
	}
}

func TestNormalizeCatalogEndpoint_BadUploads(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "badcsv@example.com")

	// Unterminated quote makes the whole file unreadable.
	w := performMultipart(t, router, "/api/foods/normalize", token, "food,kcal\n\"broken,100\n")
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed CSV: status = %d, want 400", w.Code)
	}

	w = performMultipart(t, router, "/api/foods/normalize", token, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty CSV: status = %d, want 400", w.Code)
	}

	// Missing the file field entirely.
	w = performJSON(t, router, http.MethodPost, "/api/foods/normalize", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("no file: status = %d, want 400", w.Code)
	}
}

func TestSuggestFromCatalogEndpoint(t *testing.T) {
	router, _ := setupRouter()
	token, _ := registerTestUser(t, router, "suggest@example.com")

	w := performMultipart(t, router, "/api/foods/suggest?strategy=high_protein&meal_kcal=500&topn=1", token, sampleCSV)
	if w.Code != http.StatusOK {
		t.Fatalf("suggest: %d %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["strategy"] != "high_protein" || resp["meal_kcal"] != 500.0 {
		t.Errorf("echo fields = %v/%v", resp["strategy"], resp["meal_kcal"])
	}
	suggestions := resp["suggestions"].([]any)
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want topn=1", len(suggestions))
	}
	top := suggestions[0].(map[string]any)
	if top["food"] != "chicken breast" {
		t.Errorf("top pick = %v, want chicken breast", top["food"])
	}

	w = performMultipart(t, router, "/api/foods/suggest?strategy=keto", token, sampleCSV)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad strategy: status = %d, want 400", w.Code)
	}
	w = performMultipart(t, router, "/api/foods/suggest?topn=0", token, sampleCSV)
	if w.Code != http.StatusBadRequest {
		t.Errorf("topn=0: status = %d, want 400", w.Code)
	}
}
