package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/md-rashed-zaman/pharmacare/libs/auth"
	"github.com/md-rashed-zaman/pharmacare/libs/httpx"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/sessions"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, user model.User, action model.Action) error
}

type SessionManager interface {
	Login(ctx context.Context, w http.ResponseWriter, user model.User) (sessions.Session, error)
	Logout(w http.ResponseWriter, r *http.Request) (sessions.Session, bool, error)
}

type AccountHandler struct {
	users      UserStore
	activities ActivityRecorder
	sessions   SessionManager
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewAccountHandler(users UserStore, activities ActivityRecorder, sm SessionManager, logger *slog.Logger) *AccountHandler {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return sf.Tag.Get("form")
	})
	return &AccountHandler{users: users, activities: activities, sessions: sm, validate: v, logger: logger}
}

type signupForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// loginForm keeps the field names of the site's sign-in form, whose
// "username" input carries the email address.
type loginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

var errInvalidCredentials = apperr.New(apperr.Unauthorized, "Invalid email or password.")

func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var form signupForm
	if err := h.decodeForm(r, &form); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	ctx := r.Context()

	if err := h.ensureAvailable(ctx, form.Username, form.Email); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	user := model.User{
		ID:           uuid.NewString(),
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
	}
	if err := h.users.Create(ctx, &user); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	if _, err := h.sessions.Login(ctx, w, user); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	h.record(r, user, model.ActionSignup)
	httpx.WriteJSON(w, http.StatusOK, okResponse{Status: "ok", Message: "Account created successfully!"})
}

// ensureAvailable reports username clashes before email clashes. The
// unique indexes still decide when two signups race.
func (h *AccountHandler) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := h.users.GetByUsername(ctx, username); err == nil {
		return apperr.New(apperr.Duplicate, "Username already exists.")
	} else if !apperr.Is(err, apperr.NotFound) {
		return err
	}
	if _, err := h.users.GetByEmail(ctx, email); err == nil {
		return apperr.New(apperr.Duplicate, "Email already registered.")
	} else if !apperr.Is(err, apperr.NotFound) {
		return err
	}
	return nil
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var form loginForm
	if err := h.decodeForm(r, &form); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	user, err := h.authenticate(r.Context(), h.users.GetByEmail, form.Username, form.Password)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	if _, err := h.sessions.Login(r.Context(), w, user); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	h.record(r, user, model.ActionLogin)
	httpx.WriteJSON(w, http.StatusOK, okResponse{Status: "ok", Message: "Login successful!"})
}

// AdminLogin signs in superusers by username. It records no activity.
func (h *AccountHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		httpx.WriteJSON(w, http.StatusOK, pageResponse{Status: "ok", Name: "admin_login", Template: "admin_login"})
		return
	case http.MethodPost:
	default:
		methodNotAllowed(w, "GET, POST")
		return
	}
	var form loginForm
	if err := h.decodeForm(r, &form); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	denied := apperr.New(apperr.Unauthorized, "Invalid admin credentials or permission denied.")
	user, err := h.authenticate(r.Context(), h.users.GetByUsername, form.Username, form.Password)
	if err != nil {
		if apperr.Is(err, apperr.Unauthorized) {
			err = denied
		}
		writeErr(w, r, h.logger, err)
		return
	}
	if !user.IsSuperuser {
		writeErr(w, r, h.logger, denied)
		return
	}
	if _, err := h.sessions.Login(r.Context(), w, user); err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "redirect": "/admin-dashboard/"})
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	sess, ok, err := h.sessions.Logout(w, r)
	if err != nil {
		h.logger.Error("logout failed", "request_id", httpx.RequestIDFromContext(r.Context()), "err", err)
	}
	if ok {
		h.record(r, model.User{ID: sess.UserID, Username: sess.Username, Email: sess.Email}, model.ActionLogout)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AccountHandler) authenticate(ctx context.Context, lookup func(context.Context, string) (model.User, error), login, password string) (model.User, error) {
	user, err := lookup(ctx, login)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return model.User{}, errInvalidCredentials
		}
		return model.User{}, err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return model.User{}, errInvalidCredentials
	}
	return user, nil
}

// record logs but does not fail the request when the activity row cannot
// be written; the sign-in itself already succeeded.
func (h *AccountHandler) record(r *http.Request, user model.User, action model.Action) {
	if err := h.activities.Record(r.Context(), user, action); err != nil {
		h.logger.Error("record activity failed",
			"request_id", httpx.RequestIDFromContext(r.Context()),
			"action", action,
			"user_id", user.ID,
			"err", err,
		)
	}
}

// decodeForm accepts a JSON object or a urlencoded/multipart form and
// reports the first missing field.
func (h *AccountHandler) decodeForm(r *http.Request, dst any) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return readBodyErr(err)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return apperr.Wrap(apperr.MalformedRequest, "Invalid JSON", err)
		}
	} else {
		if ct == "multipart/form-data" {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				return readBodyErr(err)
			}
		} else if err := r.ParseForm(); err != nil {
			return readBodyErr(err)
		}
		fillFromForm(r, dst)
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperr.Missing(verrs[0].Field())
		}
		return apperr.Wrap(apperr.MalformedRequest, "invalid form", err)
	}
	return nil
}

func fillFromForm(r *http.Request, dst any) {
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("form")
		if name == "" || v.Field(i).Kind() != reflect.String {
			continue
		}
		v.Field(i).SetString(r.PostFormValue(name))
	}
}
