package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/taskboard/internal/client/api"
	"github.com/dmitrijs2005/taskboard/internal/client/localdb"
	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := localdb.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient implements AuthClient and BoardClient. Tokens seen by
// protected calls are recorded in order.
type fakeClient struct {
	session *models.Session
	err     error
	tokens  []string

	uploadURL string
	completed []int64
}

func (f *fakeClient) seen(tok string) { f.tokens = append(f.tokens, tok) }

func (f *fakeClient) Signup(ctx context.Context, name, email, password string) (*models.Session, error) {
	return f.session, f.err
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return f.session, f.err
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.User, error) {
	f.seen(token)
	if f.err != nil {
		return nil, f.err
	}
	return &f.session.User, nil
}

func (f *fakeClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	return []models.Project{{ID: 1, Title: "Sample"}}, f.err
}

func (f *fakeClient) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Project{ID: id, Title: "Sample"}, nil
}

func (f *fakeClient) CreateProject(ctx context.Context, token, title, description string) (*models.Project, error) {
	f.seen(token)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Project{ID: 2, Title: title, Description: description}, nil
}

func (f *fakeClient) DeleteProject(ctx context.Context, token string, id int64) error {
	f.seen(token)
	return f.err
}

func (f *fakeClient) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	return []models.Task{{ID: 5, ProjectID: projectID, Title: "T", Status: "todo"}}, f.err
}

func (f *fakeClient) CreateTask(ctx context.Context, token string, projectID int64, title, description string) (*models.Task, error) {
	f.seen(token)
	return &models.Task{ID: 6, ProjectID: projectID, Title: title, Status: "todo"}, f.err
}

func (f *fakeClient) UpdateTask(ctx context.Context, token string, projectID, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	f.seen(token)
	t := &models.Task{ID: taskID, ProjectID: projectID, Status: "todo"}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	return t, f.err
}

func (f *fakeClient) DeleteTask(ctx context.Context, token string, projectID, taskID int64) error {
	f.seen(token)
	return f.err
}

func (f *fakeClient) SetAssignees(ctx context.Context, token string, projectID, taskID int64, userIDs []int64) (*models.Task, error) {
	f.seen(token)
	return &models.Task{ID: taskID, ProjectID: projectID, AssigneeIDs: userIDs}, f.err
}

func (f *fakeClient) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	return nil, f.err
}

func (f *fakeClient) CreateComment(ctx context.Context, token string, taskID int64, content string) (*models.Comment, error) {
	f.seen(token)
	return &models.Comment{ID: 1, TaskID: taskID, Content: content}, f.err
}

func (f *fakeClient) ListAttachments(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	return nil, f.err
}

func (f *fakeClient) CreateAttachment(ctx context.Context, token string, taskID int64, fileName, contentType string) (*models.Attachment, string, error) {
	f.seen(token)
	if f.err != nil {
		return nil, "", f.err
	}
	return &models.Attachment{ID: 9, TaskID: taskID, FileName: fileName, ContentType: contentType}, f.uploadURL, nil
}

func (f *fakeClient) CompleteAttachment(ctx context.Context, token string, taskID, attachmentID int64) (*models.Attachment, error) {
	f.seen(token)
	f.completed = append(f.completed, attachmentID)
	return &models.Attachment{ID: attachmentID, TaskID: taskID, Uploaded: true}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var errUnauthorized = &api.Error{Status: 401, Message: "Invalid token"}
