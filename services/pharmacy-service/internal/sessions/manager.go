// Package sessions signs users in and resolves who is making a request.
// A session is a signed token (cookie or Bearer header) whose jti names a
// record in the Store.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/md-rashed-zaman/pharmacare/libs/auth"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
)

const CookieName = "sessionid"

// UserLookup reloads the account behind a session so a revoked or deleted
// user loses access on the next request.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (model.User, error)
}

type Manager struct {
	signer *auth.HS256Signer
	store  Store
	users  UserLookup
	ttl    time.Duration
	secure bool
}

type Config struct {
	TTL          time.Duration
	SecureCookie bool
}

func NewManager(signer *auth.HS256Signer, store Store, users UserLookup, cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 14 * 24 * time.Hour
	}
	return &Manager{signer: signer, store: store, users: users, ttl: cfg.TTL, secure: cfg.SecureCookie}
}

// Login starts a session for user and sets the session cookie on w.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, user model.User) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Superuser: user.IsSuperuser,
		CreatedAt: time.Now().UTC(),
	}
	token, err := m.signer.Sign(auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID, ID: sess.ID},
		Username:         user.Username,
		Email:            user.Email,
		Superuser:        user.IsSuperuser,
	}, m.ttl)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// Resolve returns the live session behind r with the account fields read
// fresh from the user store. It fails with apperr.Unauthorized when there
// is no token, the token does not verify, the session was revoked, or the
// account no longer exists.
func (m *Manager) Resolve(r *http.Request) (Session, error) {
	raw := tokenFrom(r)
	if raw == "" {
		return Session{}, apperr.New(apperr.Unauthorized, "authentication required")
	}
	claims, err := m.signer.Verify(raw)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.Unauthorized, "invalid session", err)
	}
	sess, err := m.store.Get(r.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, apperr.Wrap(apperr.Unauthorized, "session expired", err)
		}
		return Session{}, err
	}
	if sess.UserID != claims.Subject {
		return Session{}, apperr.New(apperr.Unauthorized, "invalid session")
	}
	user, err := m.users.GetByID(r.Context(), sess.UserID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return Session{}, apperr.Wrap(apperr.Unauthorized, "account no longer exists", err)
		}
		return Session{}, fmt.Errorf("load session user: %w", err)
	}
	sess.Username = user.Username
	sess.Email = user.Email
	sess.Superuser = user.IsSuperuser
	return sess, nil
}

// Logout revokes the session behind r, if any, and clears the cookie. ok
// reports whether a live session was found, so callers can record who
// signed out.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) (sess Session, ok bool, err error) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	sess, err = m.Resolve(r)
	if err != nil {
		if apperr.Is(err, apperr.Unauthorized) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}
	if err := m.store.Delete(r.Context(), sess.ID); err != nil {
		return sess, true, fmt.Errorf("delete session: %w", err)
	}
	return sess, true, nil
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
