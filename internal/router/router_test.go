package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pomodoro/tracker/internal/db"
	"pomodoro/tracker/internal/handler"
	"pomodoro/tracker/internal/repository"
	"pomodoro/tracker/internal/router"
	"pomodoro/tracker/internal/service"
)

type stateEnvelope struct {
	State struct {
		Phase          string `json:"phase"`
		Remaining      int    `json:"remaining"`
		Running        bool   `json:"running"`
		TotalPomodoros int    `json:"totalPomodoros"`
		Points         int    `json:"points"`
		Theme          string `json:"theme"`
		CurrentTag     string `json:"currentTag"`
		Warning        string `json:"warning"`
	} `json:"state"`
}

type historyEnvelope struct {
	Sessions []struct {
		ID    string `json:"id"`
		Phase string `json:"phase"`
		Tag   string `json:"tag"`
	} `json:"sessions"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]int `json:"details"`
	} `json:"error"`
}

func TestTimerRewardsAndHistory(t *testing.T) {
	engine, svc := setupTestEngine(t)

	state := getState(t, engine)
	if state.State.Phase != "work" || state.State.Remaining != 1500 || state.State.Running {
		t.Fatalf("unexpected initial state %+v", state.State)
	}

	status, raw := requestJSON(t, engine, http.MethodPut, "/api/settings", map[string]int{"workDuration": 2})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on settings, got %d: %s", status, raw)
	}
	state = decodeState(t, raw)
	if state.State.Remaining != 2 {
		t.Fatalf("expected idle work phase to resync to 2, got %d", state.State.Remaining)
	}

	status, raw = requestJSON(t, engine, http.MethodPost, "/api/timer/start", nil)
	if status != http.StatusOK || !decodeState(t, raw).State.Running {
		t.Fatalf("expected running after start, got %d: %s", status, raw)
	}

	svc.Tick(context.Background())
	svc.Tick(context.Background())

	state = getState(t, engine)
	if state.State.Phase != "break" || state.State.Running {
		t.Fatalf("expected paused break after completion, got %+v", state.State)
	}
	if state.State.Points != 10 || state.State.TotalPomodoros != 1 {
		t.Fatalf("expected 10 points and 1 pomodoro, got %+v", state.State)
	}

	// Coffee break costs 50.
	status, raw = requestJSON(t, engine, http.MethodPost, "/api/shop/items/1/purchase", nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for insufficient funds, got %d: %s", status, raw)
	}
	errResp := decodeError(t, raw)
	if errResp.Error.Code != "insufficient_funds" || errResp.Error.Details["points"] != 10 || errResp.Error.Details["cost"] != 50 {
		t.Fatalf("unexpected error body %s", raw)
	}

	status, raw = requestJSON(t, engine, http.MethodPost, "/api/shop/items/99/purchase", nil)
	if status != http.StatusNotFound || decodeError(t, raw).Error.Code != "out_of_range" {
		t.Fatalf("expected 404 out_of_range, got %d: %s", status, raw)
	}

	status, raw = requestJSON(t, engine, http.MethodPost, "/api/shop/items", map[string]interface{}{
		"name":        "Stretch",
		"cost":        5,
		"description": "Five minutes of stretching",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on add item, got %d: %s", status, raw)
	}

	status, raw = requestJSON(t, engine, http.MethodPost, "/api/shop/items/3/purchase", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on purchase, got %d: %s", status, raw)
	}
	if points := decodeState(t, raw).State.Points; points != 5 {
		t.Fatalf("expected 5 points left, got %d", points)
	}

	status, raw = requestJSON(t, engine, http.MethodGet, "/api/history?limit=10", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for history, got %d", status)
	}
	var history historyEnvelope
	if err := json.Unmarshal(raw, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(history.Sessions) != 1 || history.Sessions[0].Phase != "work" || history.Sessions[0].Tag != "Work" {
		t.Fatalf("unexpected history %s", raw)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	engine, _ := setupTestEngine(t)

	status, raw := requestJSON(t, engine, http.MethodPost, "/api/tags", map[string]string{"name": "", "color": "RED"})
	if status != http.StatusBadRequest || decodeError(t, raw).Error.Code != "invalid_argument" {
		t.Fatalf("expected 400 invalid_argument for empty tag, got %d: %s", status, raw)
	}

	status, raw = requestJSON(t, engine, http.MethodPost, "/api/tags", map[string]string{"name": "Reading", "color": "ORANGE"})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on add tag, got %d: %s", status, raw)
	}

	status, raw = requestJSON(t, engine, http.MethodPut, "/api/tags/current", map[string]string{"name": "Reading"})
	if status != http.StatusOK || decodeState(t, raw).State.CurrentTag != "Reading" {
		t.Fatalf("expected current tag Reading, got %d: %s", status, raw)
	}

	status, raw = requestJSON(t, engine, http.MethodPut, "/api/tags/current", map[string]string{"name": "Chores"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tag, got %d: %s", status, raw)
	}

	status, raw = requestJSON(t, engine, http.MethodPut, "/api/theme", map[string]string{"name": "sepia"})
	if status != http.StatusBadRequest || decodeError(t, raw).Error.Code != "unknown_theme" {
		t.Fatalf("expected 400 unknown_theme, got %d: %s", status, raw)
	}

	status, raw = requestJSON(t, engine, http.MethodPut, "/api/theme", map[string]string{"name": "dark"})
	if status != http.StatusOK || decodeState(t, raw).State.Theme != "dark" {
		t.Fatalf("expected dark theme, got %d: %s", status, raw)
	}

	status, raw = requestJSON(t, engine, http.MethodGet, "/api/themes", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for themes, got %d", status)
	}
	var themes struct {
		Themes  []string `json:"themes"`
		Current string   `json:"current"`
	}
	if err := json.Unmarshal(raw, &themes); err != nil {
		t.Fatalf("unmarshal themes: %v", err)
	}
	if len(themes.Themes) != 5 || themes.Current != "dark" {
		t.Fatalf("unexpected themes response %s", raw)
	}

	status, raw = requestJSON(t, engine, http.MethodGet, "/api/tags", nil)
	if status != http.StatusOK || !strings.Contains(string(raw), `"Reading"`) {
		t.Fatalf("expected tag list with Reading, got %d: %s", status, raw)
	}
}

func TestSettingsValidation(t *testing.T) {
	engine, _ := setupTestEngine(t)

	status, _ := requestJSON(t, engine, http.MethodPut, "/api/settings", map[string]int{})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty settings, got %d", status)
	}

	status, raw := requestJSON(t, engine, http.MethodPut, "/api/settings", map[string]int{"sessionsBeforeLongBreak": 0})
	if status != http.StatusBadRequest || decodeError(t, raw).Error.Code != "invalid_argument" {
		t.Fatalf("expected 400 invalid_argument, got %d: %s", status, raw)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", recorder.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine, _ := setupTestEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/timer/start", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	recorder := httptest.NewRecorder()

	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header: %s", recorder.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/timer/start", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	recorder = httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	if recorder.Header().Get("Access-Control-Allow-Origin") != "http://127.0.0.1:3000" {
		t.Fatalf("expected any-port origin to be allowed, got %q", recorder.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/timer/start", nil)
	req.Header.Set("Origin", "http://evil.example")
	recorder = httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	if recorder.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("did not expect allow-origin for unknown origin")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	engine, _ := setupTestEngine(t)

	for _, path := range []string{"/health", "/metrics"} {
		status, raw := requestJSON(t, engine, http.MethodGet, path, nil)
		if status != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, status)
		}
		if path == "/metrics" && !strings.Contains(string(raw), "pomodoro_points_balance") {
			t.Fatalf("expected pomodoro metrics in output")
		}
	}
}

func setupTestEngine(t *testing.T) (http.Handler, *service.PomodoroService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	if _, err := db.RunMigrations(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	store := repository.NewSQLiteStore(database)
	pomodoroService := service.NewPomodoroService(context.Background(), store, nil, zerolog.Nop())

	pomodoroHandler := handler.NewPomodoroHandler(pomodoroService)
	catalogHandler := handler.NewCatalogHandler(pomodoroService)

	engine := router.New(pomodoroHandler, catalogHandler, router.Options{
		CORSOrigins:    []string{"http://localhost:5173", "http://127.0.0.1:*"},
		MetricsEnabled: true,
		Logger:         zerolog.Nop(),
	})
	return engine, pomodoroService
}

func getState(t *testing.T, server http.Handler) stateEnvelope {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodGet, "/api/state", nil)
	if status != http.StatusOK {
		t.Fatalf("get state failed with status %d: %s", status, string(body))
	}
	return decodeState(t, body)
}

func decodeState(t *testing.T, body []byte) stateEnvelope {
	t.Helper()
	var stateResp stateEnvelope
	if err := json.Unmarshal(body, &stateResp); err != nil {
		t.Fatalf("unmarshal state response: %v", err)
	}
	return stateResp
}

func decodeError(t *testing.T, body []byte) apiErrorEnvelope {
	t.Helper()
	var errResp apiErrorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	return errResp
}

func requestJSON(
	t *testing.T,
	server http.Handler,
	method, path string,
	body interface{},
) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}
