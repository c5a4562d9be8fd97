package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"runtrack/internal/adapters/ws"
	"runtrack/internal/domain"
	"runtrack/internal/domain/entities"
	"runtrack/pkg/clock"
)

const testSecret = "test-secret"

// Stub use cases: only the methods a test exercises are backed by a
// function, everything else fails loudly.

type stubUserUseCase struct {
	authenticate func(ctx context.Context, email, password string) (*entities.User, error)
	getByID      func(ctx context.Context, id uint) (*entities.User, error)
	getAll       func(ctx context.Context) ([]entities.User, error)
}

func (s *stubUserUseCase) CreateUser(context.Context, *entities.User, string, bool) error {
	return domain.ErrUserNotFound
}

func (s *stubUserUseCase) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	if s.getByID == nil {
		return nil, domain.ErrUserNotFound
	}
	return s.getByID(ctx, id)
}

func (s *stubUserUseCase) GetUsers(ctx context.Context) ([]entities.User, error) {
	if s.getAll == nil {
		return nil, nil
	}
	return s.getAll(ctx)
}

func (s *stubUserUseCase) UpdateUser(context.Context, *entities.User) error {
	return domain.ErrUserNotFound
}

func (s *stubUserUseCase) DeleteUser(context.Context, uint) error { return domain.ErrUserNotFound }

func (s *stubUserUseCase) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	if s.authenticate == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.authenticate(ctx, email, password)
}

func (s *stubUserUseCase) EnrollInAllRuns(context.Context, uint) (int, error) { return 0, nil }

func (s *stubUserUseCase) GetResults(context.Context) ([]entities.UserResult, error) {
	return nil, nil
}

type stubRunUseCase struct {
	getByID func(ctx context.Context, id uint) (*entities.Run, error)
}

func (s *stubRunUseCase) CreateRun(context.Context, *entities.Run) error { return nil }

func (s *stubRunUseCase) GetRunByID(ctx context.Context, id uint) (*entities.Run, error) {
	if s.getByID == nil {
		return nil, domain.ErrRunNotFound
	}
	return s.getByID(ctx, id)
}

func (s *stubRunUseCase) GetRuns(context.Context) ([]entities.Run, error) { return nil, nil }

func (s *stubRunUseCase) UpdateRun(context.Context, *entities.Run) error { return nil }

func (s *stubRunUseCase) DeleteRun(context.Context, uint) error { return nil }

type stubParticipationUseCase struct{}

func (stubParticipationUseCase) Enroll(context.Context, uint, uint) (*entities.Participation, error) {
	return nil, domain.ErrParticipationNotFound
}

func (stubParticipationUseCase) GetParticipationByID(context.Context, uint) (*entities.Participation, error) {
	return nil, domain.ErrParticipationNotFound
}

func (stubParticipationUseCase) GetParticipationsByRunID(context.Context, uint) ([]entities.Participation, error) {
	return nil, nil
}

func (stubParticipationUseCase) GetParticipationsByUserID(context.Context, uint) ([]entities.Participation, error) {
	return nil, nil
}

func (stubParticipationUseCase) DeleteParticipation(context.Context, uint) error { return nil }

func (stubParticipationUseCase) CorrectArrival(context.Context, uint, time.Time, uint) (*entities.Participation, error) {
	return nil, domain.ErrParticipationNotFound
}

type stubFinishUseCase struct {
	register func(ctx context.Context, locale, rawValue string) (*entities.Participation, string, error)
}

func (s *stubFinishUseCase) RegisterFinish(ctx context.Context, locale, rawValue string) (*entities.Participation, string, error) {
	return s.register(ctx, locale, rawValue)
}

type stubMediaRepo struct{}

func (stubMediaRepo) Create(context.Context, *entities.Media) error { return nil }

func (stubMediaRepo) FindByID(context.Context, uint) (*entities.Media, error) {
	return nil, domain.ErrMediaNotFound
}

func (stubMediaRepo) FindByUserID(context.Context, uint) (*entities.Media, error) {
	return nil, domain.ErrMediaNotFound
}

func (stubMediaRepo) Delete(context.Context, uint) error { return nil }

type testServerOpts struct {
	users  *stubUserUseCase
	runs   *stubRunUseCase
	finish *stubFinishUseCase
	now    time.Time
}

func newTestServer(opts testServerOpts) http.Handler {
	if opts.users == nil {
		opts.users = &stubUserUseCase{}
	}
	if opts.runs == nil {
		opts.runs = &stubRunUseCase{}
	}
	if opts.finish == nil {
		opts.finish = &stubFinishUseCase{register: func(context.Context, string, string) (*entities.Participation, string, error) {
			return nil, "", domain.ErrMalformedPayload
		}}
	}
	if opts.now.IsZero() {
		opts.now = time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	}
	logger := zerolog.Nop()
	server := NewServer(
		opts.users,
		opts.runs,
		stubParticipationUseCase{},
		opts.finish,
		stubMediaRepo{},
		clock.Fixed{T: opts.now},
		ws.NewHub(nil, logger),
		testSecret,
		"",
		nil,
		logger,
	)
	return server.Routes()
}

func tokenFor(t *testing.T, roles []string, now time.Time) string {
	t.Helper()
	token, err := generateToken(testSecret, &entities.User{ID: 7, Email: "op@example.org", Roles: roles}, now)
	require.NoError(t, err)
	return token
}

func TestLoginIssuesToken(t *testing.T) {
	now := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	users := &stubUserUseCase{
		authenticate: func(_ context.Context, email, password string) (*entities.User, error) {
			if email == "admin@example.org" && password == "s3cret" {
				return &entities.User{ID: 1, Email: email, Roles: []string{domain.RoleAdmin}}, nil
			}
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := newTestServer(testServerOpts{users: users, now: now})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"admin@example.org","password":"s3cret"}`))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, uint(1), resp.User.ID)

	actor, err := parseToken(testSecret, resp.Token, func() time.Time { return now })
	require.NoError(t, err)
	require.Equal(t, uint(1), actor.UserID)
	require.Contains(t, actor.Roles, domain.RoleAdmin)
}

func TestTokenExpiryUsesInjectedClock(t *testing.T) {
	minted := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	token := tokenFor(t, []string{domain.RoleAdmin}, minted)

	_, err := parseToken(testSecret, token, func() time.Time { return minted })
	require.NoError(t, err)

	_, err = parseToken(testSecret, token, func() time.Time { return minted.Add(tokenTTL + time.Hour) })
	require.Error(t, err, "token outlives its TTL only for the clock that minted it")
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler := newTestServer(testServerOpts{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"x","password":"y"}`))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticationRequired(t *testing.T) {
	handler := newTestServer(testServerOpts{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPolicyForbidsRegularUser(t *testing.T) {
	now := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	handler := newTestServer(testServerOpts{now: now})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, []string{domain.RoleUser}, now))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegularUserReadsOnlyOwnData(t *testing.T) {
	now := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	users := &stubUserUseCase{
		getByID: func(_ context.Context, id uint) (*entities.User, error) {
			return &entities.User{ID: id, Email: "private@example.org"}, nil
		},
	}
	handler := newTestServer(testServerOpts{users: users, now: now})
	// tokenFor mints user id 7.
	token := tokenFor(t, []string{domain.RoleUser}, now)

	get := func(path string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusForbidden, get("/users"), "listing exposes emails and roles")
	require.Equal(t, http.StatusForbidden, get("/users/1"))
	require.Equal(t, http.StatusOK, get("/users/7"))
	require.Equal(t, http.StatusForbidden, get("/runs"))
	require.Equal(t, http.StatusForbidden, get("/participations?user=1"))
	require.Equal(t, http.StatusOK, get("/participations?user=7"))
	require.Equal(t, http.StatusForbidden, get("/participations?run=1"))
}

func TestRegisterFinishEndpoint(t *testing.T) {
	now := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	start := now.Add(-10 * time.Second)

	finish := &stubFinishUseCase{
		register: func(_ context.Context, locale, rawValue string) (*entities.Participation, string, error) {
			require.Equal(t, "fr", locale)
			require.Equal(t, `{"originId":"2"}`, rawValue)
			return &entities.Participation{ID: 5, RunID: 3, UserID: 2, ArrivalTime: now}, "Bravo Jules Rabus !", nil
		},
	}
	runs := &stubRunUseCase{
		getByID: func(_ context.Context, id uint) (*entities.Run, error) {
			require.Equal(t, uint(3), id)
			return &entities.Run{ID: 3, StartDate: start, EndDate: start.Add(time.Hour)}, nil
		},
	}
	handler := newTestServer(testServerOpts{finish: finish, runs: runs, now: now})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/participations/finished?locale=fr", strings.NewReader(`{"rawValue":"{\"originId\":\"2\"}"}`))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, []string{domain.RoleOperator}, now))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp finishResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "Bravo Jules Rabus !", resp.Message)
	require.Equal(t, uint(5), resp.Participation.ID)
	require.Equal(t, domain.StatusFinished, resp.Participation.Status)
	require.NotNil(t, resp.Participation.TotalTime)
	require.Equal(t, int64(10), *resp.Participation.TotalTime)
}

func TestRegisterFinishRejected(t *testing.T) {
	now := time.Date(2025, 6, 21, 10, 0, 0, 0, time.UTC)
	finish := &stubFinishUseCase{
		register: func(context.Context, string, string) (*entities.Participation, string, error) {
			return nil, "Jules Rabus a déjà terminé !", domain.ErrAlreadyFinished
		},
	}
	handler := newTestServer(testServerOpts{finish: finish, now: now})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/participations/finished", strings.NewReader(`{"rawValue":"{\"originId\":\"2\"}"}`))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, []string{domain.RoleOperator}, now))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "Jules Rabus a déjà terminé !", resp["error"])
}

func TestPublicSurfaceNeedsNoAuth(t *testing.T) {
	users := &stubUserUseCase{
		getAll: func(context.Context) ([]entities.User, error) {
			return []entities.User{{ID: 1, FirstName: "Jules", LastName: "Rabus", Email: "hidden@example.org"}}, nil
		},
	}
	handler := newTestServer(testServerOpts{users: users})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/public", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "hidden@example.org", "public projection omits email")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLocaleFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?locale=en", nil)
	require.Equal(t, "en", localeFromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-FR;q=0.9, en;q=0.8")
	require.Equal(t, "fr-FR", localeFromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "", localeFromRequest(req))
}
