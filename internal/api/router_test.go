package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/apisec/secure-api/internal/core/domain"
	"github.com/apisec/secure-api/internal/infrastructure/config"
	redisdb "github.com/apisec/secure-api/internal/infrastructure/db/redis"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) SetRoleAndScopes(_ context.Context, id, role string, scopes []string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	u.Scopes = append([]string(nil), scopes...)
	return nil
}

type stubProductRepo struct {
	products map[string]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) Insert(_ context.Context, product *domain.Product) error {
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Replace(_ context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func newRouterTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.TTL = time.Hour
	cfg.RateLimit = config.RateLimitConfig{
		Window:         time.Minute,
		Register:       100,
		Login:          100,
		Root:           100,
		Me:             100,
		ProductsRead:   100,
		ProductsWrite:  100,
		ProductsDelete: 100,
		AdminUsers:     100,
		AdminDelete:    100,
		AdminElevate:   100,
	}
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	e := newEcho(zerolog.Nop())
	registerRoutes(e, cfg, newStubUserRepo(), newStubProductRepo(), redisdb.NewWindowCounter(client), zerolog.Nop())
	return e
}

func doJSON(e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		payload = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func stringField(t *testing.T, body map[string]any, key string) string {
	t.Helper()
	v, ok := body[key].(string)
	if !ok {
		t.Fatalf("expected string field %q in %v", key, body)
	}
	return v
}

func registerAndLogin(t *testing.T, e *echo.Echo, email, role string) (userID, token string) {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    email,
		"username": "tester",
		"password": "sw0rdfish",
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", email, rec.Code, rec.Body.String())
	}
	userID = stringField(t, decodeBody(t, rec), "user_id")

	rec = doJSON(e, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    email,
		"password": "sw0rdfish",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", email, rec.Code, rec.Body.String())
	}
	token = stringField(t, decodeBody(t, rec), "access_token")
	return userID, token
}

func TestRouterGuestScopeBoundaries(t *testing.T) {
	e := newTestRouter(t, newRouterTestConfig())
	guestID, guestToken := registerAndLogin(t, e, "guest@example.com", "guest")

	rec := doJSON(e, http.MethodGet, "/me", guestToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /me: expected 200, got %d", rec.Code)
	}
	if got := stringField(t, decodeBody(t, rec), "id"); got != guestID {
		t.Fatalf("GET /me: expected id %q, got %q", guestID, got)
	}

	if rec := doJSON(e, http.MethodGet, "/products", guestToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("guest GET /products: expected 200, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/products", guestToken, map[string]any{
		"name": "Widget", "description": "basic widget", "price": 9.5,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("guest POST /products: expected 403, got %d", rec.Code)
	}

	if rec := doJSON(e, http.MethodDelete, "/products/any-id", guestToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("guest DELETE /products/:id: expected 403, got %d", rec.Code)
	}

	if rec := doJSON(e, http.MethodGet, "/admin/users", guestToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("guest GET /admin/users: expected 403, got %d", rec.Code)
	}
}

func TestRouterProductLifecycle(t *testing.T) {
	e := newTestRouter(t, newRouterTestConfig())
	adminID, adminToken := registerAndLogin(t, e, "admin@example.com", "admin")
	_, userToken := registerAndLogin(t, e, "user@example.com", "user")

	rec := doJSON(e, http.MethodPost, "/products", adminToken, map[string]any{
		"name": "Widget", "description": "basic widget", "price": 9.5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	if got := stringField(t, created, "created_by"); got != adminID {
		t.Fatalf("expected created_by %q, got %q", adminID, got)
	}
	productID := stringField(t, created, "id")

	// The user role carries write but not delete.
	rec = doJSON(e, http.MethodPut, "/products/"+productID, userToken, map[string]any{
		"name": "Widget v2", "description": "improved widget", "price": 12.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("user PUT /products/:id: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := stringField(t, decodeBody(t, rec), "created_by"); got != adminID {
		t.Fatalf("update must preserve created_by %q, got %q", adminID, got)
	}
	if rec := doJSON(e, http.MethodDelete, "/products/"+productID, userToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("user DELETE /products/:id: expected 403, got %d", rec.Code)
	}

	if rec := doJSON(e, http.MethodDelete, "/products/"+productID, adminToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("admin DELETE /products/:id: expected 204, got %d", rec.Code)
	}
	if rec := doJSON(e, http.MethodGet, "/products/"+productID, adminToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("GET deleted product: expected 404, got %d", rec.Code)
	}
}

func TestRouterRequiresToken(t *testing.T) {
	e := newTestRouter(t, newRouterTestConfig())

	if rec := doJSON(e, http.MethodGet, "/", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("GET /: expected 200, got %d", rec.Code)
	}
	if rec := doJSON(e, http.MethodGet, "/me", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /me without token: expected 401, got %d", rec.Code)
	}
	if rec := doJSON(e, http.MethodGet, "/products", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /products without token: expected 401, got %d", rec.Code)
	}
	if rec := doJSON(e, http.MethodGet, "/products", "not-a-token", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET /products with garbage token: expected 401, got %d", rec.Code)
	}
}

func TestRouterDuplicateRegistration(t *testing.T) {
	e := newTestRouter(t, newRouterTestConfig())
	registerAndLogin(t, e, "first@example.com", "user")

	rec := doJSON(e, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "first@example.com", "username": "second", "password": "sw0rdfish",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "not-an-email", "username": "third", "password": "sw0rdfish",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid register payload: expected 422, got %d", rec.Code)
	}
}

// An elevated account gains admin access on its existing token because the
// gate reloads the caller from the directory on every request.
func TestRouterElevateWithoutRelogin(t *testing.T) {
	e := newTestRouter(t, newRouterTestConfig())
	_, adminToken := registerAndLogin(t, e, "admin@example.com", "admin")
	userID, userToken := registerAndLogin(t, e, "user@example.com", "user")

	if rec := doJSON(e, http.MethodGet, "/admin/users", userToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("before elevation: expected 403, got %d", rec.Code)
	}

	if rec := doJSON(e, http.MethodPost, "/admin/elevate/"+userID, adminToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("elevate: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	if rec := doJSON(e, http.MethodGet, "/admin/users", userToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("after elevation: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouterRegisterQuota(t *testing.T) {
	cfg := newRouterTestConfig()
	cfg.RateLimit.Register = 2
	e := newTestRouter(t, cfg)

	for i := 1; i <= 2; i++ {
		rec := doJSON(e, http.MethodPost, "/auth/register", "", map[string]any{
			"email": "user" + string(rune('0'+i)) + "@example.com", "username": "tester", "password": "sw0rdfish",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %d: expected 201, got %d (%s)", i, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(e, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "user3@example.com", "username": "tester", "password": "sw0rdfish",
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("register over quota: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After on 429")
	}
}
