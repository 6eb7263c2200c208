package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/md-rashed-zaman/pharmacare/libs/auth"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
	"github.com/redis/go-redis/v9"
)

type userMap struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newUserMap(users ...model.User) *userMap {
	m := &userMap{users: map[string]model.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *userMap) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, apperr.New(apperr.NotFound, "user not found")
	}
	return u, nil
}

func (m *userMap) put(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *userMap) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	return newTestManagerWithUsers(t, store, newUserMap(admin))
}

func newTestManagerWithUsers(t *testing.T, store Store, users UserLookup) *Manager {
	t.Helper()
	signer, err := auth.NewHS256Signer("test-secret-0123456789", "pharmacy-service")
	if err != nil {
		t.Fatalf("NewHS256Signer failed: %v", err)
	}
	return NewManager(signer, store, users, Config{TTL: time.Hour})
}

var admin = model.User{ID: "9d1c2a52-5b7e-4c59-9a0e-5d0c7c1f0a11", Username: "admin", Email: "admin@example.com", IsSuperuser: true}

func loginCookie(t *testing.T, m *Manager, user model.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := m.Login(context.Background(), rec, user); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("expected session cookie")
	return nil
}

func TestLoginThenResolve(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	cookie := loginCookie(t, m, admin)
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin-dashboard/", nil)
	req.AddCookie(cookie)
	sess, err := m.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if sess.UserID != admin.ID || !sess.Superuser || sess.Username != "admin" {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestResolveReloadsUser(t *testing.T) {
	users := newUserMap(admin)
	m := newTestManagerWithUsers(t, NewMemoryStore(), users)
	cookie := loginCookie(t, m, admin)

	demoted := admin
	demoted.IsSuperuser = false
	users.put(demoted)

	req := httptest.NewRequest(http.MethodGet, "/admin-dashboard/", nil)
	req.AddCookie(cookie)
	sess, err := m.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if sess.Superuser {
		t.Fatal("expected demoted user to resolve without superuser")
	}

	users.remove(admin.ID)
	req = httptest.NewRequest(http.MethodGet, "/admin-dashboard/", nil)
	req.AddCookie(cookie)
	if _, err := m.Resolve(req); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("expected unauthorized for deleted user, got %v", err)
	}
}

func TestResolveBearer(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	cookie := loginCookie(t, m, admin)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	if _, err := m.Resolve(req); err != nil {
		t.Fatalf("Resolve via bearer failed: %v", err)
	}
}

func TestResolveRejects(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := m.Resolve(req); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("expected unauthorized without token, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	if _, err := m.Resolve(req); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("expected unauthorized for bad token, got %v", err)
	}
}

func TestLogoutRevokes(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	cookie := loginCookie(t, m, admin)

	req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	sess, ok, err := m.Logout(rec, req)
	if err != nil || !ok || sess.Username != "admin" {
		t.Fatalf("expected logout of admin, got %+v %v %v", sess, ok, err)
	}

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.AddCookie(cookie)
	if _, err := m.Resolve(again); !apperr.Is(err, apperr.Unauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}

	anon := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	if _, ok, err := m.Logout(httptest.NewRecorder(), anon); ok || err != nil {
		t.Fatalf("anonymous logout should be a no-op, got %v %v", ok, err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.Save(context.Background(), Session{ID: "s1"}, time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Get(context.Background(), "s1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := store.Get(context.Background(), "s1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("PHARMA_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PHARMA_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	store := NewRedisStore(rdb, "test-session")
	ctx := context.Background()
	if err := store.Save(ctx, Session{ID: "r1", Username: "u"}, time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Get(ctx, "r1")
	if err != nil || got.Username != "u" {
		t.Fatalf("Get failed: %+v %v", got, err)
	}
	if err := store.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "r1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
