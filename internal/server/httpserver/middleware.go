package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/google/uuid"
)

type ctxKey int

const principalKey ctxKey = 0

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

// PrincipalFromContext returns the user placed by requireAuth.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// header must split into exactly two space-separated parts.
func bearerToken(r *http.Request) (string, string) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		return "", "No authorization header"
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != common.BearerScheme || parts[1] == "" {
		return "", "Invalid authorization format"
	}
	return parts[1], ""
}

func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, problem := bearerToken(r)
		if problem != "" {
			writeErrorMessage(w, http.StatusUnauthorized, problem)
			return
		}

		principal, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			a.fail(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next(w, r.WithContext(ctx))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// withRequestLog tags each request with an id and logs one line when it ends.
func withRequestLog(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := logging.WithRequestID(r.Context(), id)
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
