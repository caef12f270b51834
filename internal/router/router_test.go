package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campushub-api/internal/config"
	"github.com/noah-isme/campushub-api/internal/handler"
	"github.com/noah-isme/campushub-api/internal/middleware"
	"github.com/noah-isme/campushub-api/internal/repository"
	"github.com/noah-isme/campushub-api/internal/router"
	"github.com/noah-isme/campushub-api/internal/service"
	"github.com/noah-isme/campushub-api/internal/store"
	"github.com/noah-isme/campushub-api/pkg/ai"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newApp assembles the API on a Redis backed record store.
func newApp(t *testing.T) *fiber.App {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	recordStore := store.New(repository.NewRedisRecordRepository(redisClient, "campus:"))

	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())
	ledger := service.NewAuditLedger(recordStore, service.AuditLedgerConfig{}, nil, logger)
	vault := service.NewCredentialVault(recordStore, bcrypt.MinCost)
	identity := service.NewIdentityService(recordStore, ledger, vault, validate, logger)
	courses := service.NewCourseService(recordStore, ledger, validate, logger)
	events := service.NewEventService(recordStore, ledger, validate, logger)
	tokens := service.NewTokenService("secret", time.Hour)
	seed := service.NewSeedService(recordStore, vault, true, logger)

	_, err = seed.Seed(context.Background())
	require.NoError(t, err)

	cfg := config.Config{AppName: "CampusHub API", AppEnv: "test", StorageDriver: config.StorageRedis}
	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(identity, tokens, validate, logger),
		CourseHandler:      handler.NewCourseHandler(courses, validate, logger),
		EventHandler:       handler.NewEventHandler(events, validate, logger),
		AuditHandler:       handler.NewAuditHandler(ledger, logger),
		DashboardHandler:   handler.NewDashboardHandler(service.NewDashboardService(courses, redisClient, 0, logger), logger),
		DescriptionHandler: handler.NewDescriptionHandler(service.NewDescriptionService(ai.WithFallback(nil, logger), validate), logger),
		SeedHandler:        handler.NewSeedHandler(seed, logger),
		SessionMiddleware:  middleware.RequireSession(tokens, identity),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (int, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp.StatusCode, decoded
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, status, body.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	return data.Token
}

func TestHealthAndMetrics(t *testing.T) {
	app := newApp(t)

	status, body := call(t, app, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, string(body.Data), `"storage":"redis"`)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), "campushub_http_requests_total")
}

func TestStudentEnrollmentFlow(t *testing.T) {
	app := newApp(t)

	status, _ := call(t, app, http.MethodGet, "/api/v1/courses", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, status)

	token := login(t, app, "student@campus.edu", "student")

	status, body := call(t, app, http.MethodPost, "/api/v1/courses/103/enroll", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "Successfully enrolled", body.Message)

	status, body = call(t, app, http.MethodPost, "/api/v1/courses/103/enroll", token, nil)
	require.Equal(t, fiber.StatusConflict, status)
	require.Equal(t, "Already enrolled in this course", body.Message)

	status, body = call(t, app, http.MethodGet, "/api/v1/schedule", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, string(body.Data), `"code":"ENG-105"`)

	status, body = call(t, app, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, string(body.Data), "Welcome back, Awais Student!")

	status, _ = call(t, app, http.MethodGet, "/api/v1/audit-logs", token, nil)
	require.Equal(t, fiber.StatusForbidden, status)

	status, _ = call(t, app, http.MethodPost, "/api/v1/descriptions/course", token, map[string]string{"title": "X", "category": "Y"})
	require.Equal(t, fiber.StatusForbidden, status)

	status, _ = call(t, app, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	adminToken := login(t, app, "admin@campus.edu", "admin")

	status, body = call(t, app, http.MethodPost, "/api/v1/descriptions/course", adminToken, map[string]string{"title": "X", "category": "Y"})
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, string(body.Data), ai.FallbackDescription)

	status, body = call(t, app, http.MethodGet, "/api/v1/audit-logs", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	var entries []struct {
		Action   string `json:"action"`
		UserName string `json:"user_name"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &entries))
	actions := make([]string, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	require.Equal(t, []string{"LOGIN", "LOGOUT", "ENROLL", "LOGIN"}, actions)
	require.Equal(t, "Admin User", entries[0].UserName)

	status, body = call(t, app, http.MethodPost, "/api/v1/seed", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, string(body.Data), `"seeded":[]`)

	status, _ = call(t, app, http.MethodGet, "/api/v1/schedule", token, nil)
	require.Equal(t, fiber.StatusUnauthorized, status, "stale token after another sign in")
}
