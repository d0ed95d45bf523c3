package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rutkovskaya/habita/internal/db"
	"github.com/rutkovskaya/habita/internal/reminder"
	"github.com/rutkovskaya/habita/internal/services"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "habita-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	auth := services.NewAuthService(db.NewUserRepository(database), "api-test-secret", time.UTC)
	habits := services.NewHabitService(db.NewHabitRepository(database), time.UTC)
	dispatcher := reminder.NewDispatcher(db.NewHabitRepository(database), nil, time.UTC, zerolog.Nop())
	handler := NewHandler(auth, habits, dispatcher, zerolog.Nop())

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app
}

func jsonRequest(t *testing.T, app *fiber.App, method string, path string, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("%s %s encode payload: %v", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body: %v", method, path, err)
	}

	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s decode body %q: %v", method, path, raw, err)
		}
	}
	return response.StatusCode, decoded
}

func registerTestAccount(t *testing.T, app *fiber.App, email string) {
	t.Helper()

	status, body := jsonRequest(t, app, http.MethodPost, "/users/register", "", map[string]any{
		"email":            email,
		"username":         "tester",
		"password":         "correct-horse",
		"password_confirm": "correct-horse",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%v)", email, status, body)
	}
}

func obtainAccessToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	status, body := jsonRequest(t, app, http.MethodPost, "/users/token", "", map[string]any{
		"email":    email,
		"password": "correct-horse",
	})
	if status != http.StatusOK {
		t.Fatalf("token for %s: expected 200, got %d (%v)", email, status, body)
	}
	token, ok := body["access"].(string)
	if !ok || token == "" {
		t.Fatalf("token for %s: missing access token in %v", email, body)
	}
	return token
}

func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	registerTestAccount(t, app, email)
	return obtainAccessToken(t, app, email)
}

func validHabitPayload() map[string]any {
	return map[string]any{
		"place":       "park",
		"time":        "07:30",
		"action":      "morning run",
		"periodicity": 1,
		"reward":      "smoothie",
		"duration":    60,
	}
}

func createHabit(t *testing.T, app *fiber.App, token string, payload map[string]any) uint {
	t.Helper()

	status, body := jsonRequest(t, app, http.MethodPost, "/habits/", token, payload)
	if status != http.StatusCreated {
		t.Fatalf("create habit: expected 201, got %d (%v)", status, body)
	}
	id, ok := body["id"].(float64)
	if !ok {
		t.Fatalf("create habit: missing id in %v", body)
	}
	return uint(id)
}
