// Package attachments stores metadata for files uploaded to object storage.
package attachments

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error)
	GetByID(ctx context.Context, id int64) (*models.Attachment, error)
	ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error)
	MarkUploaded(ctx context.Context, id int64) error
}
