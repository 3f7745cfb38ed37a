package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/platform/config"
	"shiftdesk/internal/platform/db"
	"shiftdesk/internal/transport/http/api"
)

// TestCheckInJourney exercises login, staff onboarding, shift assignment,
// and the check-in/out loop against a real database. Set TEST_DATABASE_URL
// to run it.
func TestCheckInJourney(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, "../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Load()
	cfg.DatabaseURL = dsn
	cfg.JWTSecret = "journey-test-secret"
	cfg.MetricsEnabled = false

	suffix := uuid.NewString()[:8]
	var storeID string
	if err := pool.QueryRow(ctx, `
    INSERT INTO stores (name) VALUES ($1) RETURNING id
  `, "Journey Store "+suffix).Scan(&storeID); err != nil {
		t.Fatalf("store insert: %v", err)
	}

	hash, err := auth.HashPassword("owner-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ownerEmail := fmt.Sprintf("owner-%s@journey.test", suffix)
	if _, err := pool.Exec(ctx, `
    INSERT INTO workers (name, email, role, password_hash, active)
    VALUES ('Journey Owner', $1, $2, $3, TRUE)
  `, ownerEmail, auth.RoleOwner, hash); err != nil {
		t.Fatalf("owner insert: %v", err)
	}

	app, err := NewApp(cfg, pool)
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	ownerToken := login(t, srv.URL, ownerEmail, "owner-pass")

	staffID := createJSON(t, srv.URL+"/api/v1/workers", ownerToken, map[string]any{
		"name":       "Journey Staff",
		"email":      fmt.Sprintf("staff-%s@journey.test", suffix),
		"password":   "staff-pass",
		"role":       auth.RoleStaff,
		"storeId":    storeID,
		"hourlyRate": 12.5,
	})

	start := time.Now().Add(3 * time.Hour).UTC().Truncate(time.Minute)
	shiftID := createJSON(t, srv.URL+"/api/v1/shifts", ownerToken, map[string]any{
		"storeId":       storeID,
		"start":         start.Format(time.RFC3339),
		"end":           start.Add(4 * time.Hour).Format(time.RFC3339),
		"requiredSlots": 2,
	})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/shifts/"+shiftID+"/assignments", ownerToken,
		map[string]any{"workerIds": []string{staffID}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	staffToken, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{
		UserID: staffID, Role: auth.RoleStaff, StoreID: storeID,
	}, time.Hour)
	if err != nil {
		t.Fatalf("staff token: %v", err)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/timelogs/check-in", staffToken,
		map[string]any{"shiftId": shiftID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("check-in: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Second check-in while one is open must be rejected.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/timelogs/check-in", staffToken,
		map[string]any{"shiftId": shiftID})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double check-in: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/timelogs/check-out", staffToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check-out: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func login(t *testing.T, baseURL, email, password string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/api/v1/auth/login", "",
		map[string]any{"email": email, "password": password})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	var env api.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("login decode: %v", err)
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("login data: %+v", env.Data)
	}
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func createJSON(t *testing.T, url, token string, payload map[string]any) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, url, token, payload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST %s: expected 201, got %d", url, resp.StatusCode)
	}

	var env api.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data %s: %+v", url, env.Data)
	}
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("POST %s returned no id", url)
	}
	return id
}

func doJSON(t *testing.T, method, url, token string, payload map[string]any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}
