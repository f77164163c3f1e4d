package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/dreamersunited/fieldline/internal/adapters/handler/http"
	"github.com/dreamersunited/fieldline/internal/adapters/handler/http/middleware"
	"github.com/dreamersunited/fieldline/internal/adapters/repository"
	"github.com/dreamersunited/fieldline/internal/core/domain"
	"github.com/dreamersunited/fieldline/internal/core/services"
	"github.com/dreamersunited/fieldline/internal/core/workers"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	dbUser := envOr("DB_USER", "fieldline_user")
	dbPass := envOr("DB_PASSWORD", "secret")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbName := envOr("DB_NAME", "fieldline_db")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping e2e test (database down): %v", err)
	}
	return db
}

func buildRouter(db *sqlx.DB) *gin.Engine {
	resolver := domain.DefaultWeekResolver()

	irRepo := repository.NewPostgresIRRepository(db)
	teamRepo := repository.NewPostgresTeamRepository(db)
	activityRepo := repository.NewPostgresActivityRepository(db)
	notifRepo := repository.NewPostgresNotificationRepository(db)
	weekCountRepo := repository.NewPostgresWeekCountRepository(db)
	targetRepo := repository.NewPostgresTargetRepository(db)

	recountWorker := workers.NewRecountWorker(activityRepo, weekCountRepo, resolver)

	tokenService := services.NewTokenService("e2e-secret", "fieldline-e2e", time.Hour, irRepo)
	authService := services.NewAuthService(irRepo, notifRepo)
	activityService := services.NewActivityService(activityRepo, irRepo, teamRepo, notifRepo, resolver, recountWorker)
	targetService := services.NewTargetService(targetRepo, irRepo, teamRepo, resolver)
	reportService := services.NewReportService(activityRepo, irRepo, teamRepo, targetRepo, resolver)

	router := gin.Default()
	api := router.Group("/api/v1")

	adapterHTTP.NewAuthHandler(authService, tokenService).RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokenService))
	adapterHTTP.NewActivityHandler(activityService).RegisterRoutes(protected)
	adapterHTTP.NewTargetHandler(targetService).RegisterRoutes(protected)
	adapterHTTP.NewReportHandler(reportService, targetService).RegisterRoutes(protected)

	return router
}

func TestEndToEnd_WeeklyActivityLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	defer db.Close()

	_, err := db.Exec(`TRUNCATE TABLE
		week_counts, weekly_targets, uv_details, plan_details, info_details,
		notifications, pocket_members, pockets, team_members, teams, irs
		CASCADE`)
	require.NoError(t, err, "Failed to truncate tables")

	router := buildRouter(db)

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(method, path, bytes.NewBuffer([]byte(body)))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	var token string
	var week domain.WeekKey

	t.Run("1. Register supervisor and IR", func(t *testing.T) {
		w := do(http.MethodPost, "/api/v1/auth/register", "",
			`{"ir_id":"E2ELDC","ir_name":"E2E Supervisor","email":"e2e-ldc@fieldline.test","password":"password123","access_level":3}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = do(http.MethodPost, "/api/v1/auth/register", "",
			`{"ir_id":"E2EIR","ir_name":"E2E Rep","email":"e2e-ir@fieldline.test","password":"password123","parent_ir_id":"E2ELDC"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("2. Login", func(t *testing.T) {
		w := do(http.MethodPost, "/api/v1/auth/login", "",
			`{"ir_id":"E2EIR","password":"password123"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)
		token = resp.Token
	})

	t.Run("3. Resolve current week", func(t *testing.T) {
		w := do(http.MethodGet, "/api/v1/weeks/current", token, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
		require.NotZero(t, week.Week)
	})

	t.Run("4. Set own target", func(t *testing.T) {
		body := fmt.Sprintf(`{"week_number":%d,"year":%d,"info_target":10,"plan_target":5,"uv_target":3}`,
			week.Week, week.Year)
		w := do(http.MethodPut, "/api/v1/targets/irs/E2EIR", token, body)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("5. Record an info", func(t *testing.T) {
		w := do(http.MethodPost, "/api/v1/irs/E2EIR/infos", token,
			`{"prospect_name":"E2E Prospect","response":"A","info_type":"Fresh"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("6. Dashboard reflects the record", func(t *testing.T) {
		w := do(http.MethodGet, "/api/v1/reports/dashboard", token, "")
		require.Equal(t, http.StatusOK, w.Code)

		var dash domain.Dashboard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
		assert.Equal(t, 1, dash.Personal.InfoDone)
		assert.Equal(t, 10, dash.Personal.InfoTarget)
	})

	t.Run("7. Validation error", func(t *testing.T) {
		w := do(http.MethodPost, "/api/v1/irs/E2EIR/infos", token, `{"response":"A"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("8. Auth error", func(t *testing.T) {
		w := do(http.MethodGet, "/api/v1/reports/dashboard", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
