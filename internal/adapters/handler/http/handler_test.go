package http_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/dreamersunited/fieldline/internal/adapters/handler/http"
	"github.com/dreamersunited/fieldline/internal/adapters/handler/http/middleware"
	"github.com/dreamersunited/fieldline/internal/adapters/repository"
	"github.com/dreamersunited/fieldline/internal/core/domain"
	"github.com/dreamersunited/fieldline/internal/core/services"
	"github.com/dreamersunited/fieldline/internal/core/workers"
)

const testSecret = "handler-test-secret"

var (
	istZone = time.FixedZone("IST", 5*3600+1800)

	// Saturday Jan 10 2026, inside week 2 (anchor Fri Jan 9 21:30 IST).
	weekTwo   = domain.WeekKey{Week: 2, Year: 2026}
	inWeekTwo = time.Date(2026, time.January, 10, 11, 0, 0, 0, istZone)
)

// fixture wires the full handler stack over in-memory repositories, with the
// same route layout the production router uses.
type fixture struct {
	router *gin.Engine

	irRepo       *repository.InMemoryIRRepository
	teamRepo     *repository.InMemoryTeamRepository
	activityRepo *repository.InMemoryActivityRepository
	targetRepo   *repository.InMemoryTargetRepository
	notifRepo    *repository.InMemoryNotificationRepository

	tokens *services.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		irRepo:       repository.NewInMemoryIRRepository(),
		teamRepo:     repository.NewInMemoryTeamRepository(),
		activityRepo: repository.NewInMemoryActivityRepository(),
		targetRepo:   repository.NewInMemoryTargetRepository(),
		notifRepo:    repository.NewInMemoryNotificationRepository(),
	}

	resolver := domain.DefaultWeekResolver()
	countRepo := repository.NewInMemoryWeekCountRepository()

	// Never started: enqueued jobs just sit in the buffer.
	recounter := workers.NewRecountWorker(f.activityRepo, countRepo, resolver)

	f.tokens = services.NewTokenService(testSecret, "fieldline-test", time.Hour, f.irRepo)
	authService := services.NewAuthService(f.irRepo, f.notifRepo)
	irService := services.NewIRService(f.irRepo, f.teamRepo)
	teamService := services.NewTeamService(f.teamRepo, f.irRepo)
	activityService := services.NewActivityService(f.activityRepo, f.irRepo, f.teamRepo, f.notifRepo, resolver, recounter)
	targetService := services.NewTargetService(f.targetRepo, f.irRepo, f.teamRepo, resolver)
	reportService := services.NewReportService(f.activityRepo, f.irRepo, f.teamRepo, f.targetRepo, resolver)
	notificationService := services.NewNotificationService(f.notifRepo)

	f.router = gin.New()
	api := f.router.Group("/api/v1")

	adapterHTTP.NewAuthHandler(authService, f.tokens).RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(f.tokens))
	adapterHTTP.NewIRHandler(irService).RegisterRoutes(protected)
	adapterHTTP.NewTeamHandler(teamService).RegisterRoutes(protected)
	adapterHTTP.NewActivityHandler(activityService).RegisterRoutes(protected)
	adapterHTTP.NewTargetHandler(targetService).RegisterRoutes(protected)
	adapterHTTP.NewReportHandler(reportService, targetService).RegisterRoutes(protected)
	adapterHTTP.NewNotificationHandler(notificationService).RegisterRoutes(protected)

	return f
}

func (f *fixture) seedIR(t *testing.T, id string, level domain.AccessLevel, parent *domain.IR) *domain.IR {
	t.Helper()
	ir, err := domain.NewIR(id, "Rep "+id, id+"@fieldline.test", level)
	require.NoError(t, err)
	require.NoError(t, ir.SetPassword("password123"))
	if parent != nil {
		require.NoError(t, ir.SetParent(parent))
	}
	require.NoError(t, f.irRepo.Create(context.Background(), ir))
	return ir
}

func (f *fixture) bearer(t *testing.T, irID string) string {
	t.Helper()
	token, err := f.tokens.GenerateToken(irID)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}
