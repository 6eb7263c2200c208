package guard

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/sessions"
)

type resolverFunc func(*http.Request) (sessions.Session, error)

func (f resolverFunc) Resolve(r *http.Request) (sessions.Session, error) { return f(r) }

func fixedSession(s sessions.Session, err error) Resolver {
	return resolverFunc(func(*http.Request) (sessions.Session, error) { return s, err })
}

func protected(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if _, ok := FromContext(r.Context()); !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSuperuserJSON(t *testing.T) {
	cases := []struct {
		name   string
		res    Resolver
		status int
		code   string
	}{
		{"anonymous", fixedSession(sessions.Session{}, apperr.New(apperr.Unauthorized, "no")), http.StatusUnauthorized, "unauthorized"},
		{"regular user", fixedSession(sessions.Session{Username: "u"}, nil), http.StatusForbidden, "forbidden"},
		{"store down", fixedSession(sessions.Session{}, errors.New("redis down")), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := RequireSuperuser(tc.res, DenyJSON)(protected(&called))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin-dashboard/reports/data/", nil))
			if called {
				t.Fatal("handler must not run when denied")
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["status"] != "error" || body["code"] != tc.code {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

func TestRequireSuperuserAllows(t *testing.T) {
	called := false
	h := RequireSuperuser(fixedSession(sessions.Session{Username: "admin", Superuser: true}, nil), DenyJSON)(protected(&called))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin-dashboard/", nil))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected handler to run with session, got %d", rec.Code)
	}
}

func TestDenyRedirect(t *testing.T) {
	called := false
	h := RequireSuperuser(fixedSession(sessions.Session{Username: "u"}, nil), DenyRedirect("/admin-login/"))(protected(&called))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin-dashboard/", nil))
	if called {
		t.Fatal("handler must not run when denied")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin-login/?next=%2Fadmin-dashboard%2F" {
		t.Fatalf("unexpected redirect %q", loc)
	}
}
