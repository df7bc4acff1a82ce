//go:build integration

package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/gym-api/internal/database"
	"github.com/deppfellow/gym-api/internal/errs"
	"github.com/deppfellow/gym-api/internal/handler"
	"github.com/deppfellow/gym-api/internal/logger"
	"github.com/deppfellow/gym-api/internal/model/member"
	"github.com/deppfellow/gym-api/internal/model/workout"
	"github.com/deppfellow/gym-api/internal/repository"
	"github.com/deppfellow/gym-api/internal/server"
	"github.com/deppfellow/gym-api/internal/service"
	"github.com/deppfellow/gym-api/internal/testsupport"
	"github.com/deppfellow/gym-api/internal/validation"
)

func TestAPIAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.StartPostgres(ctx, t)

	log := zerolog.Nop()
	loggerService := &logger.LoggerService{}

	db, err := database.New(cfg, &log, loggerService)
	require.NoError(t, err)

	srv := &server.Server{Config: cfg, Logger: &log, LoggerService: loggerService, DB: db}
	services := service.NewServices(srv, repository.NewRepositories())
	api := &testAPI{handler: NewRouter(srv, handler.NewHandlers(srv, services), validation.New())}

	rec := api.do(t, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "healthy", decode[map[string]any](t, rec)["checks"].(map[string]any)["database"].(map[string]any)["status"])

	rec = api.do(t, http.MethodGet, "/members", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/members", `{"name":"Ana","age":30}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ana := decode[handler.MutationResponse[member.Member]](t, rec).Data

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/members/%d", ana.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ana, decode[member.Member](t, rec))

	rec = api.do(t, http.MethodPut, fmt.Sprintf("/members/%d", ana.ID), `{"name":"Ana Maria","age":31}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ana Maria", decode[handler.MutationResponse[member.Member]](t, rec).Data.Name)

	rec = api.do(t, http.MethodPut, "/members/999", `{"name":"Bo","age":20}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Member not found", decode[errs.HTTPError](t, rec).Message)

	session := fmt.Sprintf(sessionBody, ana.ID)
	rec = api.do(t, http.MethodPost, "/workoutsessions", session)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[handler.MutationResponse[workout.WorkoutSession]](t, rec).Data
	assert.Equal(t, "2024-05-01", created.SessionDate)
	assert.Equal(t, "07:30:00", created.SessionTime)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/workoutsessions/%d", ana.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]workout.WorkoutSession](t, rec), 1)

	rec = api.do(t, http.MethodPut, fmt.Sprintf("/workoutsessions/%d", created.SessionID),
		strings.Replace(session, "Rowing", "Cycling", 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Cycling", decode[handler.MutationResponse[workout.WorkoutSession]](t, rec).Data.Activity)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/members/%d", ana.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/members/%d", ana.ID), "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Sessions are kept after their member is deleted.
	rec = api.do(t, http.MethodGet, fmt.Sprintf("/members/%d/workoutsessions", ana.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]workout.WorkoutSession](t, rec), 1)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/workoutsessions/%d", created.SessionID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/workoutsessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
