package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/gym-api/internal/config"
	"github.com/deppfellow/gym-api/internal/database"
	"github.com/deppfellow/gym-api/internal/errs"
	"github.com/deppfellow/gym-api/internal/handler"
	"github.com/deppfellow/gym-api/internal/logger"
	"github.com/deppfellow/gym-api/internal/model/member"
	"github.com/deppfellow/gym-api/internal/model/workout"
	"github.com/deppfellow/gym-api/internal/repository"
	"github.com/deppfellow/gym-api/internal/server"
	"github.com/deppfellow/gym-api/internal/service"
	"github.com/deppfellow/gym-api/internal/sqlerr"
	"github.com/deppfellow/gym-api/internal/validation"
)

type fakeMemberService struct {
	mu      sync.Mutex
	members map[int64]member.Member
	nextID  int64
	err     error
}

func (s *fakeMemberService) ListMembers(context.Context) ([]member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []member.Member{}
	for _, m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeMemberService) GetMember(_ context.Context, id int64) (*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.members[id]
	if !ok {
		return nil, sqlerr.WithTable("members", fmt.Errorf("failed to collect member id=%d: %w", id, pgx.ErrNoRows))
	}
	return &m, nil
}

func (s *fakeMemberService) CreateMember(_ context.Context, payload *member.CreateMemberPayload) (*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.nextID++
	m := member.Member{ID: s.nextID, Name: payload.Name, Age: *payload.Age}
	s.members[m.ID] = m
	return &m, nil
}

func (s *fakeMemberService) UpdateMember(_ context.Context, payload *member.UpdateMemberPayload) (*member.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if _, ok := s.members[payload.ID]; !ok {
		return nil, sqlerr.WithTable("members", pgx.ErrNoRows)
	}
	m := member.Member{ID: payload.ID, Name: payload.Name, Age: *payload.Age}
	s.members[m.ID] = m
	return &m, nil
}

func (s *fakeMemberService) DeleteMember(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.members[id]; !ok {
		return errs.NewNotFoundError("Member not found", true, nil)
	}
	delete(s.members, id)
	return nil
}

type fakeWorkoutService struct {
	mu       sync.Mutex
	sessions []workout.WorkoutSession
}

func (s *fakeWorkoutService) ListWorkoutSessions(context.Context) ([]workout.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]workout.WorkoutSession{}, s.sessions...), nil
}

func (s *fakeWorkoutService) ListWorkoutSessionsByMember(_ context.Context, memberID int64) ([]workout.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []workout.WorkoutSession{}
	for _, ws := range s.sessions {
		if ws.MemberID == memberID {
			out = append(out, ws)
		}
	}
	return out, nil
}

func (s *fakeWorkoutService) CreateWorkoutSession(_ context.Context, payload *workout.CreateWorkoutSessionPayload) (*workout.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessionTime := payload.SessionTime
	if len(sessionTime) == len("15:04") {
		sessionTime += ":00"
	}
	ws := workout.WorkoutSession{
		SessionID:       int64(len(s.sessions) + 1),
		MemberID:        *payload.MemberID,
		SessionDate:     payload.SessionDate,
		SessionTime:     sessionTime,
		Activity:        payload.Activity,
		DurationMinutes: *payload.DurationMinutes,
		CaloriesBurned:  *payload.CaloriesBurned,
	}
	s.sessions = append(s.sessions, ws)
	return &ws, nil
}

func (s *fakeWorkoutService) UpdateWorkoutSession(_ context.Context, payload *workout.UpdateWorkoutSessionPayload) (*workout.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].SessionID == payload.ID {
			s.sessions[i].Activity = payload.Activity
			ws := s.sessions[i]
			return &ws, nil
		}
	}
	return nil, sqlerr.WithTable("workoutsessions", pgx.ErrNoRows)
}

func (s *fakeWorkoutService) DeleteWorkoutSession(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].SessionID == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFoundError("Workout Session not found", true, nil)
}

type testAPI struct {
	handler  http.Handler
	members  *fakeMemberService
	sessions *fakeWorkoutService
}

func newTestAPI(t *testing.T, configure func(cfg *config.Config)) *testAPI {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"*"},
		},
		Observability: config.DefaultObservabilityConfig(),
	}
	if configure != nil {
		configure(cfg)
	}

	log := zerolog.Nop()
	srv := &server.Server{
		Config:        cfg,
		Logger:        &log,
		LoggerService: &logger.LoggerService{},
	}

	api := &testAPI{
		members:  &fakeMemberService{members: map[int64]member.Member{}},
		sessions: &fakeWorkoutService{},
	}

	handlers := &handler.Handlers{
		Health:  handler.NewHealthHandler(srv),
		OpenAPI: handler.NewOpenAPIHandler(srv),
		Member:  handler.NewMemberHandler(srv, api.members),
		Workout: handler.NewWorkoutHandler(srv, api.sessions),
	}
	api.handler = NewRouter(srv, handlers, validation.New())

	return api
}

func (api *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCreateThenListMembers(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/members", `{"name":"Ana","age":30}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[handler.MutationResponse[member.Member]](t, rec)
	assert.Equal(t, "Member added successfully", created.Message)
	assert.Equal(t, member.Member{ID: 1, Name: "Ana", Age: 30}, created.Data)

	rec = api.do(t, http.MethodGet, "/members", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[[]member.Member](t, rec), member.Member{ID: 1, Name: "Ana", Age: 30})
}

func TestListMembersEmpty(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/members", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateMemberMissingAge(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/members", `{"name":"Ana"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "BAD_REQUEST", body.Code)
	assert.Equal(t, "Validation failed", body.Message)
	assert.True(t, body.Override)
	assert.Contains(t, body.Errors, errs.FieldError{Field: "age", Error: "is required"})
	assert.Empty(t, api.members.members)
}

func TestGetMemberNotFound(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/members/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "Member not found", body.Message)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestGetMemberInvalidID(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/members/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errs.HTTPError](t, rec).Errors, errs.FieldError{Field: "id", Error: "must be an integer"})
}

func TestUpdateThenGetMember(t *testing.T) {
	api := newTestAPI(t, nil)
	api.members.members[1] = member.Member{ID: 1, Name: "Ana", Age: 30}

	rec := api.do(t, http.MethodPut, "/members/1", `{"name":"Ana Maria","age":31}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[handler.MutationResponse[member.Member]](t, rec)
	assert.Equal(t, "Member updated successfully", updated.Message)
	assert.Equal(t, member.Member{ID: 1, Name: "Ana Maria", Age: 31}, updated.Data)

	rec = api.do(t, http.MethodGet, "/members/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, member.Member{ID: 1, Name: "Ana Maria", Age: 31}, decode[member.Member](t, rec))

	rec = api.do(t, http.MethodPut, "/members/2", `{"name":"Bo","age":20}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMemberTwice(t *testing.T) {
	api := newTestAPI(t, nil)
	api.members.members[1] = member.Member{ID: 1, Name: "Ana", Age: 30}

	rec := api.do(t, http.MethodDelete, "/members/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Member deleted successfully"}`, rec.Body.String())

	rec = api.do(t, http.MethodDelete, "/members/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Member not found", decode[errs.HTTPError](t, rec).Message)
}

func TestDatabaseUnavailable(t *testing.T) {
	api := newTestAPI(t, nil)
	api.members.err = fmt.Errorf("%w: %w", database.ErrUnavailable, fmt.Errorf("dial tcp 127.0.0.1:5432: connect: connection refused"))

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/members", ""},
		{http.MethodGet, "/members/1", ""},
		{http.MethodPost, "/members", `{"name":"Ana","age":30}`},
		{http.MethodPut, "/members/1", `{"name":"Ana","age":30}`},
		{http.MethodDelete, "/members/1", ""},
	} {
		rec := api.do(t, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, "%s %s", tc.method, tc.path)

		body := decode[errs.HTTPError](t, rec)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	}
}

func TestStatementErrorIsOpaque(t *testing.T) {
	api := newTestAPI(t, nil)
	api.members.err = fmt.Errorf("failed to execute list members query: %w", &pgconn.PgError{
		Code:      "42P01",
		Message:   `relation "members" does not exist`,
		TableName: "members",
	})

	rec := api.do(t, http.MethodGet, "/members", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.NotContains(t, rec.Body.String(), "relation")
}

const sessionBody = `{"member_id":%d,"session_date":"2024-05-01","session_time":"07:30","activity":"Rowing","duration_minutes":45,"calories_burned":400}`

func TestWorkoutSessionFlow(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPost, "/workoutsessions", fmt.Sprintf(sessionBody, 1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[handler.MutationResponse[workout.WorkoutSession]](t, rec)
	assert.Equal(t, "Workout session added successfully", created.Message)
	assert.Equal(t, "07:30:00", created.Data.SessionTime)

	rec = api.do(t, http.MethodPost, "/workoutsessions", fmt.Sprintf(sessionBody, 2))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodGet, "/workoutsessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]workout.WorkoutSession](t, rec), 2)

	for _, path := range []string{"/workoutsessions/1", "/members/1/workoutsessions"} {
		rec = api.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)

		sessions := decode[[]workout.WorkoutSession](t, rec)
		require.Len(t, sessions, 1, path)
		assert.Equal(t, int64(1), sessions[0].MemberID)
	}

	update := strings.Replace(fmt.Sprintf(sessionBody, 1), "Rowing", "Swimming", 1)
	rec = api.do(t, http.MethodPut, "/workoutsessions/1", update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Swimming", decode[handler.MutationResponse[workout.WorkoutSession]](t, rec).Data.Activity)

	rec = api.do(t, http.MethodPut, "/workoutsessions/99", update)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Workout Session not found", decode[errs.HTTPError](t, rec).Message)

	rec = api.do(t, http.MethodDelete, "/workoutsessions/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodDelete, "/workoutsessions/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateWorkoutSessionInvalidDate(t *testing.T) {
	api := newTestAPI(t, nil)

	body := strings.Replace(fmt.Sprintf(sessionBody, 1), "2024-05-01", "05/01/2024", 1)
	rec := api.do(t, http.MethodPost, "/workoutsessions", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errs.HTTPError](t, rec).Errors,
		errs.FieldError{Field: "session_date", Error: "must be a date in YYYY-MM-DD format"})
}

func TestRouteNotFound(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/trainers", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
}

func TestSystemRoutes(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, rec)["status"])

	api.do(t, http.MethodGet, "/members", "")

	rec = api.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gym_api_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/members"`)
}

func TestRequestIDHeader(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodGet, "/members", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	api := newTestAPI(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = 1
	})

	rec := api.do(t, http.MethodGet, "/members", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/members", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decode[errs.HTTPError](t, rec).Code)

	rec = api.do(t, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnreachableDatabase(t *testing.T) {
	log := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server:  config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
		Database: config.DatabaseConfig{
			Host:           "127.0.0.1",
			Port:           1,
			User:           "gym",
			Password:       "gym",
			Name:           "gym",
			SSLMode:        "disable",
			ConnectTimeout: time.Second,
		},
		Observability: config.DefaultObservabilityConfig(),
	}

	db, err := database.NewProvider(cfg, &log, nil)
	require.NoError(t, err)

	srv := &server.Server{Config: cfg, Logger: &log, LoggerService: &logger.LoggerService{}, DB: db}
	services := service.NewServices(srv, repository.NewRepositories())
	api := &testAPI{handler: NewRouter(srv, handler.NewHandlers(srv, services), validation.New())}

	rec := api.do(t, http.MethodGet, "/members", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service Unavailable", decode[errs.HTTPError](t, rec).Message)

	rec = api.do(t, http.MethodPost, "/members", `{"name":"Ana","age":30}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = api.do(t, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decode[map[string]any](t, rec)["status"])
}
