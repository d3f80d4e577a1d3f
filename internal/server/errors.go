package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mycv/cvgen/internal/generator"
	"golang.org/x/text/language"
)

// errorBody is the JSON error envelope. Messages are localized; internal details never leave the process.
type errorBody struct {
	Error  string      `json:"error"`
	Fields []fieldBody `json:"fields,omitempty"`
}

type fieldBody struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HTTPStatus returns the status code for an error returned by the generator.
func HTTPStatus(err error) int {
	var (
		requestErr *generator.RequestError
		profileErr *generator.ProfileError
		timeoutErr *generator.TimeoutError
	)
	switch {
	case errors.As(err, &requestErr):
		return http.StatusBadRequest
	case errors.As(err, &profileErr):
		switch profileErr.Reason {
		case generator.ProfileIncomplete:
			return http.StatusUnprocessableEntity
		case generator.ProfileAccessDenied:
			return http.StatusForbidden
		default:
			return http.StatusNotFound
		}
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse localizes err for the caller and logs it.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	tag := s.localizer.Match(r.Header.Get("Accept-Language"))
	body := s.localizeError(tag, err)

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		"method", r.Method, "path", r.URL.Path, "status", status, "error", err)

	s.jsonResponse(w, status, body)
}

func (s *Server) localizeError(tag language.Tag, err error) errorBody {
	key := "cv.internalError"
	var safe generator.SafeError
	if errors.As(err, &safe) {
		key = safe.SafeMessageKey()
	}
	body := errorBody{Error: s.localizer.Translate(tag, key)}

	var requestErr *generator.RequestError
	if errors.As(err, &requestErr) {
		for _, f := range requestErr.Fields {
			msg := f.Message
			if f.MessageKey != "" {
				msg = s.localizer.Translate(tag, f.MessageKey)
			}
			body.Fields = append(body.Fields, fieldBody{Field: f.Field, Message: msg})
		}
	}

	var profileErr *generator.ProfileError
	if errors.As(err, &profileErr) && profileErr.Reason == generator.ProfileIncomplete {
		for _, f := range profileErr.Fields {
			body.Fields = append(body.Fields, fieldBody{Field: f, Message: "required"})
		}
	}
	return body
}
