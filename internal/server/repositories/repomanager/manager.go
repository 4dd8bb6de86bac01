// Package repomanager vends the repositories for the configured storage
// backend so services never know which one is in use.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/comments"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/projects"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Projects() projects.Repository
	Tasks() tasks.Repository
	Comments() comments.Repository
	Attachments() attachments.Repository

	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
