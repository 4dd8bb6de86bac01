package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
)

type RouterOptions struct {
	// Prefix mounts the API, e.g. "/api". Empty mounts it at the root.
	Prefix      string
	CORSOrigins []string
}

// NewRouter registers every API route on a gorilla/mux router. Id segments
// only match digits, so anything else falls through to the JSON 404.
func NewRouter(a *API, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/", a.root).Methods(http.MethodGet)

	api := r
	if prefix := strings.TrimRight(opts.Prefix, "/"); prefix != "" {
		api = r.PathPrefix(prefix).Subrouter()
	}

	api.HandleFunc("/auth/signup", a.signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", a.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", a.requireAuth(a.me)).Methods(http.MethodGet)

	api.HandleFunc("/projects", a.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", a.requireAuth(a.createProject)).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id:[0-9]+}", a.getProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id:[0-9]+}", a.requireAuth(a.deleteProject)).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{id:[0-9]+}/tasks", a.listTasks).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id:[0-9]+}/tasks", a.requireAuth(a.createTask)).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id:[0-9]+}/tasks/{taskId:[0-9]+}", a.requireAuth(a.updateTask)).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{id:[0-9]+}/tasks/{taskId:[0-9]+}", a.requireAuth(a.deleteTask)).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id:[0-9]+}/tasks/{taskId:[0-9]+}/assignees", a.requireAuth(a.setAssignees)).Methods(http.MethodPut)

	api.HandleFunc("/tasks/{id:[0-9]+}/comments", a.listComments).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id:[0-9]+}/comments", a.requireAuth(a.createComment)).Methods(http.MethodPost)

	api.HandleFunc("/tasks/{id:[0-9]+}/attachments", a.listAttachments).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id:[0-9]+}/attachments", a.requireAuth(a.createAttachment)).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id:[0-9]+}/attachments/{attachmentId:[0-9]+}/complete", a.requireAuth(a.completeAttachment)).Methods(http.MethodPost)

	return r
}

// NewHandler wraps the router with panic recovery, request logging, CORS
// and response compression, outermost first.
func NewHandler(a *API, opts RouterOptions) http.Handler {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	var h http.Handler = NewRouter(a, opts)
	h = gzhttp.GzipHandler(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(h)
	h = withRequestLog(a.logger, h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{a.logger}))(h)
	return h
}

type recoveryLogger struct {
	logger logging.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error(context.Background(), "panic recovered", "panic", fmt.Sprint(v...))
}
