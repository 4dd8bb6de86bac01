package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/dmitrijs2005/taskboard/internal/netx"
)

type BoardClient interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	CreateProject(ctx context.Context, token, title, description string) (*models.Project, error)
	DeleteProject(ctx context.Context, token string, id int64) error

	ListTasks(ctx context.Context, projectID int64) ([]models.Task, error)
	CreateTask(ctx context.Context, token string, projectID int64, title, description string) (*models.Task, error)
	UpdateTask(ctx context.Context, token string, projectID, taskID int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, token string, projectID, taskID int64) error
	SetAssignees(ctx context.Context, token string, projectID, taskID int64, userIDs []int64) (*models.Task, error)

	ListComments(ctx context.Context, taskID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, token string, taskID int64, content string) (*models.Comment, error)

	ListAttachments(ctx context.Context, taskID int64) ([]models.Attachment, error)
	CreateAttachment(ctx context.Context, token string, taskID int64, fileName, contentType string) (*models.Attachment, string, error)
	CompleteAttachment(ctx context.Context, token string, taskID, attachmentID int64) (*models.Attachment, error)
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// seams for tests
var (
	readFile = os.ReadFile
	upload   = netx.UploadToPresignedURL
)

// BoardService runs project, task, comment and attachment operations.
// Reads go out anonymously; writes carry the stored token.
type BoardService struct {
	client BoardClient
	tokens TokenSource
	http   *http.Client
}

func NewBoardService(client BoardClient, tokens TokenSource, uploads *http.Client) *BoardService {
	return &BoardService{client: client, tokens: tokens, http: uploads}
}

// authed fetches the token, runs fn with it and maps a 401 to
// ErrSessionRejected. There is no anonymous retry.
func (b *BoardService) authed(ctx context.Context, fn func(token string) error) error {
	tok, err := b.tokens.Token(ctx)
	if err != nil {
		return err
	}
	return rejected(fn(tok))
}

func (b *BoardService) Projects(ctx context.Context) ([]models.Project, error) {
	return b.client.ListProjects(ctx)
}

// Project returns a project together with its tasks.
func (b *BoardService) Project(ctx context.Context, id int64) (*models.Project, []models.Task, error) {
	p, err := b.client.GetProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := b.client.ListTasks(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return p, tasks, nil
}

func (b *BoardService) CreateProject(ctx context.Context, title, description string) (p *models.Project, err error) {
	err = b.authed(ctx, func(tok string) error {
		p, err = b.client.CreateProject(ctx, tok, title, description)
		return err
	})
	return p, err
}

func (b *BoardService) DeleteProject(ctx context.Context, id int64) error {
	return b.authed(ctx, func(tok string) error {
		return b.client.DeleteProject(ctx, tok, id)
	})
}

func (b *BoardService) Tasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	return b.client.ListTasks(ctx, projectID)
}

func (b *BoardService) AddTask(ctx context.Context, projectID int64, title, description string) (t *models.Task, err error) {
	err = b.authed(ctx, func(tok string) error {
		t, err = b.client.CreateTask(ctx, tok, projectID, title, description)
		return err
	})
	return t, err
}

func (b *BoardService) UpdateTask(ctx context.Context, projectID, taskID int64, patch models.TaskPatch) (t *models.Task, err error) {
	err = b.authed(ctx, func(tok string) error {
		t, err = b.client.UpdateTask(ctx, tok, projectID, taskID, patch)
		return err
	})
	return t, err
}

func (b *BoardService) SetStatus(ctx context.Context, projectID, taskID int64, status string) (*models.Task, error) {
	return b.UpdateTask(ctx, projectID, taskID, models.TaskPatch{Status: &status})
}

func (b *BoardService) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	return b.authed(ctx, func(tok string) error {
		return b.client.DeleteTask(ctx, tok, projectID, taskID)
	})
}

func (b *BoardService) Assign(ctx context.Context, projectID, taskID int64, userIDs []int64) (t *models.Task, err error) {
	err = b.authed(ctx, func(tok string) error {
		t, err = b.client.SetAssignees(ctx, tok, projectID, taskID, userIDs)
		return err
	})
	return t, err
}

func (b *BoardService) Comments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	return b.client.ListComments(ctx, taskID)
}

func (b *BoardService) AddComment(ctx context.Context, taskID int64, content string) (c *models.Comment, err error) {
	err = b.authed(ctx, func(tok string) error {
		c, err = b.client.CreateComment(ctx, tok, taskID, content)
		return err
	})
	return c, err
}

func (b *BoardService) Attachments(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	return b.client.ListAttachments(ctx, taskID)
}

// UploadAttachment registers the file, PUTs its bytes to the presigned URL
// and marks it uploaded.
func (b *BoardService) UploadAttachment(ctx context.Context, taskID int64, path string) (*models.Attachment, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	var att *models.Attachment
	err = b.authed(ctx, func(tok string) error {
		created, url, err := b.client.CreateAttachment(ctx, tok, taskID, name, contentType)
		if err != nil {
			return err
		}
		if err := upload(ctx, b.http, url, contentType, data); err != nil {
			return fmt.Errorf("upload %s: %w", name, err)
		}
		att, err = b.client.CompleteAttachment(ctx, tok, taskID, created.ID)
		return err
	})
	return att, err
}
