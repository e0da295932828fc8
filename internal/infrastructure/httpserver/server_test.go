package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/AnLuoRidge/Lovely-AIP/configs"
	"github.com/AnLuoRidge/Lovely-AIP/internal/application/services"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/docstore/memory"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/health"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/httpserver"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/querycache"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/redis"
	"github.com/AnLuoRidge/Lovely-AIP/internal/testutil/mocks"
	"github.com/AnLuoRidge/Lovely-AIP/internal/utils"
)

const testISBN = "9780306406157"

type testEnv struct {
	t       *testing.T
	ts      *httptest.Server
	mr      *miniredis.Miniredis
	users   *mocks.UserRepositoryMock
	limiter *mocks.RateLimiterServiceMock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backend := memory.New()
	adapter := redis.NewQueryCacheStore(client, "bookstore", time.Second, logger)
	cached := querycache.NewStore(backend, adapter, redis.NewTagIndex(adapter), time.Minute, logger)

	users := mocks.NewInMemoryUserRepository()
	limiter := &mocks.RateLimiterServiceMock{}
	lists := services.NewBookListService(cached, backend, cached, logger)
	userSvc := services.NewUserService(users, &mocks.EmailServiceMock{}, logger)
	authSvc := services.NewAuthService(users, &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour, Issuer: "bookstore"}, logger)

	srv := httpserver.NewServer(&httpserver.ServerConfig{Host: "127.0.0.1", Port: "0"}, logger, httpserver.ServerDeps{
		CategoryService:    services.NewCategoryService(cached, backend, cached, logger),
		BookService:        services.NewBookService(cached, backend, cached, logger),
		BookListService:    lists,
		FeedService:        services.NewFeedService(lists, services.FeedConfig{Title: "Knight Frank Booklist"}, logger),
		UserService:        userSvc,
		AuthService:        authSvc,
		RateLimiterService: limiter,
		CacheInvalidator:   cached,
		HealthCheckers: []ports.HealthChecker{
			health.NewRedisHealthChecker(client),
			health.NewDocStoreHealthChecker(backend),
		},
	})
	ts := httptest.NewServer(srv.Echo())
	t.Cleanup(ts.Close)

	return &testEnv{t: t, ts: ts, mr: mr, users: users, limiter: limiter}
}

func (e *testEnv) do(method, path string, body any, token string) (int, []byte, http.Header) {
	e.t.Helper()
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(e.t, err)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, bytes.NewReader(b))
	require.NoError(e.t, err)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(e.t, err)
	return resp.StatusCode, buf.Bytes(), resp.Header
}

func (e *testEnv) decode(raw []byte, v any) {
	e.t.Helper()
	require.NoError(e.t, json.Unmarshal(raw, v), string(raw))
}

// login registers (or seeds, for staff) a user and returns its bearer token.
func (e *testEnv) login(email string, staff bool) string {
	e.t.Helper()
	const password = "lovelace1815"
	if staff {
		hash, err := utils.HashPassword(password)
		require.NoError(e.t, err)
		require.NoError(e.t, e.users.Create(context.Background(), &user.User{
			ID: uuid.New(), Name: "Staff", Email: email, PasswordHash: hash, IsStaff: true,
		}))
	} else {
		code, body, _ := e.do(http.MethodPost, "/api/users/register", map[string]string{
			"name": "Reader", "email": email, "password": password, "password2": password,
		}, "")
		require.Equal(e.t, http.StatusOK, code, string(body))
	}

	code, body, _ := e.do(http.MethodPost, "/api/users/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(e.t, http.StatusOK, code, string(body))
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	e.decode(body, &resp)
	require.True(e.t, resp.Success)
	return resp.Token
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	code, body, _ := env.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"docstore:memory":"healthy"`)

	env.mr.Close()
	code, body, _ = env.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, string(body), `"redis":"unhealthy"`)
}

func TestUsers_RegisterLoginCurrent(t *testing.T) {
	env := newTestEnv(t)

	code, body, _ := env.do(http.MethodPost, "/api/users/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "lovelace1815", "password2": "different1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "password2")

	token := env.login("ada@example.com", false)
	assert.True(t, strings.HasPrefix(token, "Bearer "))

	code, body, _ = env.do(http.MethodPost, "/api/users/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "lovelace1815", "password2": "lovelace1815",
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"email":"Email already exists"}`, string(body))

	code, body, _ = env.do(http.MethodGet, "/api/users/current", nil, token)
	require.Equal(t, http.StatusOK, code)
	var me map[string]any
	env.decode(body, &me)
	assert.Equal(t, "ada@example.com", me["email"])
	assert.NotContains(t, me, "PasswordHash")

	code, _, _ = env.do(http.MethodGet, "/api/users/current", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _, _ = env.do(http.MethodGet, "/api/users/current", nil, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body, _ = env.do(http.MethodPost, "/api/users/login", map[string]string{"email": "ada@example.com", "password": "nope12345"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, string(body), "unauthorized")
}

func TestCategories_StaffWritesAndCachedReads(t *testing.T) {
	env := newTestEnv(t)
	staff := env.login("staff@example.com", true)
	reader := env.login("reader@example.com", false)

	code, body, _ := env.do(http.MethodPost, "/api/categories", map[string]string{"name": "Fiction"}, reader)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `{"unauthorized":"Cannot modify the book"}`, string(body))

	code, body, _ = env.do(http.MethodPost, "/api/categories", map[string]string{"name": "F"}, staff)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), `"name"`)

	code, _, _ = env.do(http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, code)

	code, body, _ = env.do(http.MethodPost, "/api/categories", map[string]string{"name": "Fiction"}, staff)
	require.Equal(t, http.StatusOK, code, string(body))
	var fiction struct {
		ID   string `json:"_id"`
		Slug string `json:"slug"`
	}
	env.decode(body, &fiction)
	assert.Equal(t, "fiction", fiction.Slug)

	code, body, _ = env.do(http.MethodPost, "/api/categories", map[string]string{"name": "Fiction"}, staff)
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"categoryexist":"Category name has existed"}`, string(body))

	code, body, _ = env.do(http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, code)
	var list []map[string]any
	env.decode(body, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Fiction", list[0]["name"])

	code, body, _ = env.do(http.MethodPost, "/api/books", map[string]any{
		"title": "Dune", "isbn": testISBN, "authors": []string{"Frank Herbert"},
		"category": fiction.ID, "price": 9.5, "publishDate": "1965-08-01T00:00:00Z",
	}, staff)
	require.Equal(t, http.StatusCreated, code, string(body))
	var book struct {
		ID string `json:"_id"`
	}
	env.decode(body, &book)

	code, body, _ = env.do(http.MethodGet, "/api/categories/slug/fiction?page=1&pageSize=10&price=-1", nil, "")
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		ID    string           `json:"id"`
		Books []map[string]any `json:"books"`
	}
	env.decode(body, &detail)
	assert.Equal(t, fiction.ID, detail.ID)
	require.Len(t, detail.Books, 1)
	assert.Equal(t, "Dune", detail.Books[0]["title"])

	code, _, _ = env.do(http.MethodGet, "/api/categories/slug/fiction?page=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body, _ = env.do(http.MethodGet, "/api/categories/slug/fiction?page=9223372036854775807&pageSize=2", nil, "")
	require.Equal(t, http.StatusOK, code, string(body))
	env.decode(body, &detail)
	assert.Empty(t, detail.Books)

	code, body, _ = env.do(http.MethodGet, "/api/categories/slug/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"categorynotfound":"No categories found"}`, string(body))

	code, _, _ = env.do(http.MethodDelete, "/api/books/"+book.ID, nil, staff)
	assert.Equal(t, http.StatusOK, code)
	code, body, _ = env.do(http.MethodGet, "/api/books/"+book.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"booknotfound":"No book found"}`, string(body))

	code, body, _ = env.do(http.MethodGet, "/api/categories/list", nil, "")
	require.Equal(t, http.StatusOK, code)
	var withBooks []struct {
		Books []map[string]any `json:"books"`
	}
	env.decode(body, &withBooks)
	require.Len(t, withBooks, 1)
	assert.Empty(t, withBooks[0].Books)
}

func TestBookLists_OwnershipAndFeed(t *testing.T) {
	env := newTestEnv(t)
	owner := env.login("owner@example.com", false)
	other := env.login("other@example.com", false)

	code, body, _ := env.do(http.MethodPost, "/api/booklists", map[string]any{
		"title": "Rainy days", "description": "Books for rain",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, code, string(body))

	code, body, _ = env.do(http.MethodPost, "/api/booklists", map[string]any{
		"title": "Rainy days", "description": "Books for rain",
	}, owner)
	require.Equal(t, http.StatusCreated, code, string(body))
	var bl struct {
		ID    string           `json:"_id"`
		Slug  string           `json:"slug"`
		Likes []map[string]any `json:"likes"`
	}
	env.decode(body, &bl)

	code, body, _ = env.do(http.MethodPost, "/api/booklists/"+bl.ID+"/like", nil, other)
	require.Equal(t, http.StatusOK, code)
	env.decode(body, &bl)
	assert.Len(t, bl.Likes, 1)

	code, body, _ = env.do(http.MethodGet, "/api/booklists?page=1&pageSize=5", nil, "")
	require.Equal(t, http.StatusOK, code)
	var lists []map[string]any
	env.decode(body, &lists)
	assert.Len(t, lists, 1)

	code, body, headers := env.do(http.MethodGet, "/api/feed/booklists", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(headers.Get(echo.HeaderContentType), "application/rss+xml"))
	assert.Contains(t, string(body), "/booklist/rainy-days")

	code, body, _ = env.do(http.MethodDelete, "/api/booklists/"+bl.ID, nil, other)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, string(body), "unauthorized")

	code, _, _ = env.do(http.MethodDelete, "/api/booklists/"+bl.ID, nil, owner)
	assert.Equal(t, http.StatusOK, code)
	code, body, _ = env.do(http.MethodGet, "/api/booklists/"+bl.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"booklistnotfound":"No booklist found"}`, string(body))
}

func TestCacheInvalidateEndpoint(t *testing.T) {
	env := newTestEnv(t)
	staff := env.login("staff@example.com", true)
	reader := env.login("reader@example.com", false)

	code, _, _ := env.do(http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, env.mr.Keys())

	code, _, _ = env.do(http.MethodPost, "/api/cache/invalidate", map[string]string{"tag": ""}, reader)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body, _ := env.do(http.MethodPost, "/api/cache/invalidate", map[string]string{"tag": ""}, staff)
	require.Equal(t, http.StatusOK, code, string(body))
	for _, k := range env.mr.Keys() {
		assert.False(t, strings.HasPrefix(k, "bookstore:"), k)
	}
}

func TestRateLimitOnLogin(t *testing.T) {
	env := newTestEnv(t)
	env.limiter.AllowFn = func(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
		return false, 0, 1, time.Now().Add(time.Minute), nil
	}

	code, body, headers := env.do(http.MethodPost, "/api/users/login", map[string]string{"email": "a@example.com", "password": "x"}, "")
	assert.Equal(t, http.StatusTooManyRequests, code, string(body))
	assert.Equal(t, "1", headers.Get("X-RateLimit-Limit"))

	code, _, _ = env.do(http.MethodGet, "/api/categories", nil, "")
	assert.Equal(t, http.StatusOK, code)
}
