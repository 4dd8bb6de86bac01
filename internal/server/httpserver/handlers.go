package httpserver

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
	"github.com/gorilla/mux"
)

// Services groups what the API needs from the domain layer.
type Services struct {
	Users       *services.UserService
	Projects    *services.ProjectService
	Tasks       *services.TaskService
	Comments    *services.CommentService
	Attachments *services.AttachmentService
}

// API holds the HTTP handlers. Handlers only translate between JSON and
// service calls; rules live in the services.
type API struct {
	auth        Authenticator
	users       *services.UserService
	projects    *services.ProjectService
	tasks       *services.TaskService
	comments    *services.CommentService
	attachments *services.AttachmentService
	logger      logging.Logger
}

func NewAPI(s Services, l logging.Logger) *API {
	return &API{
		auth:        s.Users,
		users:       s.Users,
		projects:    s.Projects,
		tasks:       s.Tasks,
		comments:    s.Comments,
		attachments: s.Attachments,
		logger:      l.With("module", "http_api"),
	}
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.Error(r.Context(), "request failed",
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeErrorMessage(w, status, msg)
}

// pathID parses a numeric route variable. The router only admits digits, so
// failure here means the value overflowed int64 and is treated as absent.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil
}

func (a *API) mustPrincipal(r *http.Request) models.Principal {
	p, _ := PrincipalFromContext(r.Context())
	return p
}

func (a *API) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Backend running"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeErrorMessage(w, http.StatusNotFound, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeErrorMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (a *API) signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	u, token, err := a.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.logger.Info(r.Context(), "user registered", "user_id", u.ID)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	u, token, err := a.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	u, err := a.users.FindByID(r.Context(), a.mustPrincipal(r).ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type projectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (a *API) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := a.projects.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	p, err := a.projects.Create(r.Context(), a.mustPrincipal(r), req.Title, req.Description)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		a.fail(w, r, common.NewNotFoundError("Project"))
		return
	}

	p, err := a.projects.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		a.fail(w, r, common.NewNotFoundError("Project"))
		return
	}

	if err := a.projects.Delete(r.Context(), a.mustPrincipal(r), id); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	list, err := a.tasks.List(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		a.fail(w, r, common.NewNotFoundError("Project"))
		return
	}
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	t, err := a.tasks.Create(r.Context(), a.mustPrincipal(r), projectID, req.Title, req.Description)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// taskIDs reads {id} and {taskId}; false means one of them is unusable.
func taskIDs(r *http.Request) (int64, int64, bool) {
	projectID, ok1 := pathID(r, "id")
	taskID, ok2 := pathID(r, "taskId")
	return projectID, taskID, ok1 && ok2
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskIDs(r)
	if !ok {
		a.fail(w, r, common.NewNotFoundError("Task"))
		return
	}
	var patch models.TaskPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		a.fail(w, r, err)
		return
	}

	t, err := a.tasks.Update(r.Context(), projectID, taskID, patch)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskIDs(r)
	if !ok {
		a.fail(w, r, common.NewNotFoundError("Task"))
		return
	}

	if err := a.tasks.Delete(r.Context(), projectID, taskID); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

type assigneesRequest struct {
	UserIDs *[]int64 `json:"userIds"`
}

func (a *API) setAssignees(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskIDs(r)
	if !ok {
		a.fail(w, r, common.NewNotFoundError("Task"))
		return
	}
	var req assigneesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if req.UserIDs == nil {
		a.fail(w, r, common.NewValidationError("userIds required"))
		return
	}

	t, err := a.tasks.SetAssignees(r.Context(), projectID, taskID, *req.UserIDs)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type commentRequest struct {
	Content string `json:"content"`
}

func (a *API) listComments(w http.ResponseWriter, r *http.Request) {
	taskID, _ := pathID(r, "id")
	list, err := a.comments.List(r.Context(), taskID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createComment(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(r, "id")
	if !ok {
		a.fail(w, r, common.NewNotFoundError("Task"))
		return
	}
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	c, err := a.comments.Create(r.Context(), a.mustPrincipal(r), taskID, req.Content)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type attachmentRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type attachmentCreated struct {
	Attachment *models.Attachment `json:"attachment"`
	UploadURL  string             `json:"uploadUrl"`
}

func (a *API) listAttachments(w http.ResponseWriter, r *http.Request) {
	taskID, _ := pathID(r, "id")
	list, err := a.attachments.List(r.Context(), taskID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createAttachment(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(r, "id")
	if !ok {
		a.fail(w, r, common.NewNotFoundError("Task"))
		return
	}
	var req attachmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	att, url, err := a.attachments.Create(r.Context(), a.mustPrincipal(r), taskID, req.FileName, req.ContentType)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attachmentCreated{Attachment: att, UploadURL: url})
}

func (a *API) completeAttachment(w http.ResponseWriter, r *http.Request) {
	taskID, ok1 := pathID(r, "id")
	attachmentID, ok2 := pathID(r, "attachmentId")
	if !ok1 || !ok2 {
		a.fail(w, r, common.NewNotFoundError("Attachment"))
		return
	}

	att, err := a.attachments.Complete(r.Context(), taskID, attachmentID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, att)
}
