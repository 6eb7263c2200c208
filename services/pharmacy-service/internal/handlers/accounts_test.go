package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/md-rashed-zaman/pharmacare/libs/auth"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/sessions"
)

type accountFixture struct {
	handler    *AccountHandler
	users      *fakeUsers
	activities *fakeActivities
	sessions   *sessions.Manager
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	signer, err := auth.NewHS256Signer("test-secret-0123456789", "pharmacy-service")
	if err != nil {
		t.Fatalf("NewHS256Signer failed: %v", err)
	}
	users := &fakeUsers{}
	sm := sessions.NewManager(signer, sessions.NewMemoryStore(), users, sessions.Config{TTL: time.Hour})
	f := &accountFixture{users: users, activities: &fakeActivities{}, sessions: sm}
	f.handler = NewAccountHandler(f.users, f.activities, sm, discardLogger())
	return f
}

func postForm(h http.HandlerFunc, path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessions.CookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func (f *accountFixture) addUser(t *testing.T, username, email, password string, superuser bool) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	u := model.User{ID: username + "-id", Username: username, Email: email, PasswordHash: hash, IsSuperuser: superuser}
	if err := f.users.Create(context.Background(), &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestSignup(t *testing.T) {
	f := newAccountFixture(t)
	form := url.Values{"username": {"sam"}, "email": {"sam@example.com"}, "password": {"pw-123456"}}

	rec := postForm(f.handler.Signup, "/signup/", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if sessionCookie(rec) == nil {
		t.Fatal("signup must sign the user in")
	}
	if got := f.activities.actions(); len(got) != 1 || got[0] != model.ActionSignup {
		t.Fatalf("expected one signup activity, got %v", got)
	}

	dup := postForm(f.handler.Signup, "/signup/", url.Values{"username": {"sam"}, "email": {"other@example.com"}, "password": {"x"}})
	if dup.Code != http.StatusConflict || decode(t, dup)["message"] != "Username already exists." {
		t.Fatalf("expected duplicate username 409, got %d %s", dup.Code, dup.Body.String())
	}
	dup = postForm(f.handler.Signup, "/signup/", url.Values{"username": {"kim"}, "email": {"sam@example.com"}, "password": {"x"}})
	if dup.Code != http.StatusConflict || decode(t, dup)["message"] != "Email already registered." {
		t.Fatalf("expected duplicate email 409, got %d %s", dup.Code, dup.Body.String())
	}

	missing := postForm(f.handler.Signup, "/signup/", url.Values{"username": {"kim"}})
	if missing.Code != http.StatusBadRequest || decode(t, missing)["field"] != "email" {
		t.Fatalf("expected missing email, got %d %s", missing.Code, missing.Body.String())
	}
}

func TestLoginByEmail(t *testing.T) {
	f := newAccountFixture(t)
	f.addUser(t, "sam", "sam@example.com", "pw-123456", false)

	bad := postForm(f.handler.Login, "/login/", url.Values{"username": {"sam@example.com"}, "password": {"wrong"}})
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", bad.Code)
	}
	unknown := postForm(f.handler.Login, "/login/", url.Values{"username": {"nobody@example.com"}, "password": {"pw-123456"}})
	if unknown.Code != http.StatusUnauthorized || decode(t, unknown)["message"] != "Invalid email or password." {
		t.Fatalf("expected 401 for unknown email, got %d %s", unknown.Code, unknown.Body.String())
	}

	ok := postForm(f.handler.Login, "/login/", url.Values{"username": {"sam@example.com"}, "password": {"pw-123456"}})
	if ok.Code != http.StatusOK || sessionCookie(ok) == nil {
		t.Fatalf("expected signed-in 200, got %d", ok.Code)
	}
	if got := f.activities.actions(); len(got) != 1 || got[0] != model.ActionLogin {
		t.Fatalf("expected one login activity, got %v", got)
	}
}

func TestLoginJSONBody(t *testing.T) {
	f := newAccountFixture(t)
	f.addUser(t, "sam", "sam@example.com", "pw-123456", false)

	rec := post(f.handler.Login, "/login/", `{"username":"sam@example.com","password":"pw-123456"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLogoutRecordsAndRedirects(t *testing.T) {
	f := newAccountFixture(t)
	f.addUser(t, "sam", "sam@example.com", "pw-123456", false)
	login := postForm(f.handler.Login, "/login/", url.Values{"username": {"sam@example.com"}, "password": {"pw-123456"}})
	cookie := sessionCookie(login)

	rec := postForm(f.handler.Logout, "/logout/", nil, cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	got := f.activities.actions()
	if len(got) != 2 || got[1] != model.ActionLogout {
		t.Fatalf("expected login then logout, got %v", got)
	}

	anon := postForm(f.handler.Logout, "/logout/", nil)
	if anon.Code != http.StatusSeeOther || len(f.activities.actions()) != 2 {
		t.Fatal("anonymous logout must redirect without recording")
	}
}

func TestAdminLogin(t *testing.T) {
	f := newAccountFixture(t)
	f.addUser(t, "boss", "boss@example.com", "pw-admin-1", true)
	f.addUser(t, "sam", "sam@example.com", "pw-123456", false)

	denied := postForm(f.handler.AdminLogin, "/admin-login/", url.Values{"username": {"sam"}, "password": {"pw-123456"}})
	if denied.Code != http.StatusUnauthorized || sessionCookie(denied) != nil {
		t.Fatalf("non-superuser must be refused, got %d", denied.Code)
	}

	ok := postForm(f.handler.AdminLogin, "/admin-login/", url.Values{"username": {"boss"}, "password": {"pw-admin-1"}})
	if ok.Code != http.StatusOK || sessionCookie(ok) == nil {
		t.Fatalf("expected superuser sign-in, got %d", ok.Code)
	}
	if len(f.activities.actions()) != 0 {
		t.Fatal("admin login records no activity")
	}
}
