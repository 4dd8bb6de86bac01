// Package projects stores projects. Deleting a project removes its tasks and
// everything hanging off them.
package projects

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type Repository interface {
	// List returns at most limit projects, newest first.
	List(ctx context.Context, limit int) ([]*models.Project, error)
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
}
