// Package guard gates privileged routes. A route is wrapped with
// RequireSuperuser explicitly; the wrapped handler only runs for a live
// superuser session.
package guard

import (
	"context"
	"net/http"
	"net/url"

	"github.com/md-rashed-zaman/pharmacare/libs/httpx"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/sessions"
)

type Resolver interface {
	Resolve(r *http.Request) (sessions.Session, error)
}

// Denier writes the response for a rejected request.
type Denier func(w http.ResponseWriter, r *http.Request, kind apperr.Kind)

type ctxKey struct{}

func FromContext(ctx context.Context) (sessions.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(sessions.Session)
	return s, ok
}

func WithSession(ctx context.Context, s sessions.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func RequireSuperuser(res Resolver, deny Denier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := res.Resolve(r)
			if err != nil {
				kind := apperr.KindOf(err)
				if kind != apperr.Unauthorized {
					kind = apperr.Internal
				}
				deny(w, r, kind)
				return
			}
			if !sess.Superuser {
				deny(w, r, apperr.Forbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// DenyJSON answers 401 without a valid session and 403 for a signed-in
// user who is not a superuser.
func DenyJSON(w http.ResponseWriter, _ *http.Request, kind apperr.Kind) {
	message := "authentication required"
	switch kind {
	case apperr.Forbidden:
		message = "superuser access required"
	case apperr.Internal:
		message = "internal error"
	}
	httpx.WriteError(w, apperr.Status(kind), string(kind), message, "")
}

// DenyRedirect sends the browser to loginURL with the requested path in
// next.
func DenyRedirect(loginURL string) Denier {
	return func(w http.ResponseWriter, r *http.Request, kind apperr.Kind) {
		if kind == apperr.Internal {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		target := loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}
