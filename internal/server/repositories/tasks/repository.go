// Package tasks stores tasks and their assignee sets.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type Repository interface {
	// ListByProject returns the project's tasks oldest first. An unknown
	// project yields an empty slice.
	ListByProject(ctx context.Context, projectID int64) ([]*models.Task, error)
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	// Update overwrites title, description and status.
	Update(ctx context.Context, t *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	// SetAssignees replaces the assignee set atomically.
	SetAssignees(ctx context.Context, taskID int64, userIDs []int64) error
}
