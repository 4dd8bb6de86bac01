// Package comments stores task comments.
package comments

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type Repository interface {
	// ListByTask returns comments oldest first; an unknown task yields none.
	ListByTask(ctx context.Context, taskID int64) ([]*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
}
