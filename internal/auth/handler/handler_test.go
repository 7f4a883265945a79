package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user-service/internal/auth/credentials"
	"user-service/internal/session"
	"user-service/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// flakyStore lets a test fail selected store calls while everything
// else keeps working.
type flakyStore struct {
	session.Store
	failSave bool
	failLen  bool
}

func (f *flakyStore) Save(ctx context.Context, s *session.Session) error {
	if f.failSave {
		return session.ErrUnavailable
	}
	return f.Store.Save(ctx, s)
}

func (f *flakyStore) Len(ctx context.Context) (int, error) {
	if f.failLen {
		return 0, session.ErrUnavailable
	}
	return f.Store.Len(ctx)
}

func newTestServer(t *testing.T) (*gin.Engine, *flakyStore, *user.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop().Sugar()
	store := &flakyStore{Store: session.NewMemoryStore()}
	users := user.NewMemoryRepository()

	hash, err := credentials.HashPassword("Asd1234")
	require.NoError(t, err)
	_, err = users.Create(context.Background(), user.User{
		Firstname: "prasan",
		Lastname:  "bala",
		Username:  "pv",
		Password:  hash,
	})
	require.NoError(t, err)

	router := gin.New()
	router.Use(session.Middleware(store, log, session.MiddlewareOptions{
		Secret: testSecret,
		TTL:    time.Hour,
	}))

	api := router.Group("/api")
	NewHandler(credentials.NewService(users), store, users, log).RegisterRoutes(api)

	return router, store, users
}

func doJSON(router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func login(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/auth", `{"username":"pv","password":"Asd1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	return sessionCookie(t, w)
}

func TestLogin_Success(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/api/auth", `{"username":"pv","password":"Asd1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User authenticated successfully")

	cookie := sessionCookie(t, w)

	w = doJSON(router, http.MethodGet, "/api/auth/status", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pv")
}

func TestLogin_InvalidCredentialsLeaveSessionAnonymous(t *testing.T) {
	router, store, _ := newTestServer(t)

	cases := []string{
		`{"username":"pv","password":"wrongpw"}`,
		`{"username":"ghost","password":"Asd1234"}`,
	}
	for _, body := range cases {
		w := doJSON(router, http.MethodPost, "/api/auth", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid user credentials")
	}

	// Nothing authenticated was persisted.
	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	router, _, _ := newTestServer(t)

	unknown := doJSON(router, http.MethodPost, "/api/auth", `{"username":"ghost","password":"Asd1234"}`)
	wrongPw := doJSON(router, http.MethodPost, "/api/auth", `{"username":"pv","password":"wrongpw"}`)

	assert.Equal(t, unknown.Code, wrongPw.Code)
	assert.Equal(t, unknown.Body.String(), wrongPw.Body.String())
}

func TestLogin_AlreadyAuthenticated(t *testing.T) {
	router, _, _ := newTestServer(t)
	cookie := login(t, router)

	w := doJSON(router, http.MethodPost, "/api/auth", `{"username":"pv","password":"Asd1234"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already authenticated")
}

// The active-session count is informational; failing to fetch it must
// not get in the way of the login itself.
func TestLogin_SessionCountUnavailable(t *testing.T) {
	router, store, _ := newTestServer(t)
	store.failLen = true

	w := doJSON(router, http.MethodPost, "/api/auth", `{"username":"pv","password":"Asd1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, sessionCookie(t, w))
}

func TestLogin_MissingBody(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/api/auth", `{"username":"pv"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatus_AnonymousSession(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := doJSON(router, http.MethodGet, "/api/auth/status", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatus_Idempotent(t *testing.T) {
	router, _, _ := newTestServer(t)
	cookie := login(t, router)

	first := doJSON(router, http.MethodGet, "/api/auth/status", "", cookie)
	second := doJSON(router, http.MethodGet, "/api/auth/status", "", cookie)

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestStatus_DeletedUserReadsAnonymous(t *testing.T) {
	router, _, users := newTestServer(t)
	cookie := login(t, router)

	_, err := users.Delete(context.Background(), "pv")
	require.NoError(t, err)

	w := doJSON(router, http.MethodGet, "/api/auth/status", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_OneWayTransition(t *testing.T) {
	router, _, _ := newTestServer(t)
	cookie := login(t, router)

	w := doJSON(router, http.MethodPost, "/api/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User logout successful")

	w = doJSON(router, http.MethodGet, "/api/auth/status", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_NotAuthenticated(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User session not active any more")
}

func TestLogout_StoreFailureLeavesSessionAuthenticated(t *testing.T) {
	router, store, _ := newTestServer(t)
	cookie := login(t, router)

	store.failSave = true
	w := doJSON(router, http.MethodPost, "/api/auth/logout", "", cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error trying to logout user")
	store.failSave = false

	// The caller may retry; the session is still authenticated.
	w = doJSON(router, http.MethodGet, "/api/auth/status", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/logout", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}
