package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	rm       *repomanager.InMemoryRepositoryManager
	users    *UserService
	projects *ProjectService
	tasks    *TaskService
	comments *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rm := repomanager.NewInMemoryRepositoryManager()
	issuer := auth.NewTokenIssuer("test-secret", 7*24*time.Hour)
	return &fixture{
		rm:       rm,
		users:    NewUserService(rm, issuer, bcrypt.MinCost),
		projects: NewProjectService(rm),
		tasks:    NewTaskService(rm),
		comments: NewCommentService(rm),
	}
}

func (f *fixture) signup(t *testing.T, name, email string) models.Principal {
	t.Helper()
	u, _, err := f.users.Register(context.Background(), name, email, "pw-"+name)
	require.NoError(t, err)
	return u.Principal()
}

func (f *fixture) project(t *testing.T, owner models.Principal, title string) *models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), owner, title, "")
	require.NoError(t, err)
	return p
}

func (f *fixture) task(t *testing.T, creator models.Principal, projectID int64, title string) *models.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), creator, projectID, title, "")
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T { return &v }
