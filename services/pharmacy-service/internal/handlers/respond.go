package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/pharmacare/libs/httpx"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
)

// writeErr maps err onto the error envelope. Unclassified errors are
// logged and reported as a generic 500.
func writeErr(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.Internal {
		logger.Error("request failed",
			"request_id", httpx.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"err", err,
		)
		httpx.WriteError(w, http.StatusInternalServerError, string(apperr.Internal), "internal error", "")
		return
	}
	httpx.WriteError(w, apperr.Status(e.Kind), string(e.Kind), e.Message, e.Field)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	httpx.WriteError(w, http.StatusMethodNotAllowed, string(apperr.MethodNotAllowed), "method not allowed", "")
}

func readBodyErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Wrap(apperr.MalformedRequest, "request body too large", err)
	}
	return apperr.Wrap(apperr.MalformedRequest, "Invalid JSON", err)
}

type okResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
