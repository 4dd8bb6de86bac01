package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
)

type CommentService struct {
	repomanager repomanager.RepositoryManager
}

func NewCommentService(m repomanager.RepositoryManager) *CommentService {
	return &CommentService{repomanager: m}
}

func (s *CommentService) List(ctx context.Context, taskID int64) ([]*models.Comment, error) {
	list, err := s.repomanager.Comments().ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	return list, nil
}

// Create checks the task before the content, so a comment on a missing task
// is a 404 even when it is blank.
func (s *CommentService) Create(ctx context.Context, author models.Principal, taskID int64, content string) (*models.Comment, error) {
	if err := taskExists(ctx, s.repomanager, taskID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, common.NewValidationError("Content required")
	}

	c, err := s.repomanager.Comments().Create(ctx, &models.Comment{
		TaskID:   taskID,
		AuthorID: author.ID,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return c, nil
}

func taskExists(ctx context.Context, m repomanager.RepositoryManager, taskID int64) error {
	if _, err := m.Tasks().GetByID(ctx, taskID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewNotFoundError("Task")
		}
		return fmt.Errorf("error getting task: %w", err)
	}
	return nil
}
