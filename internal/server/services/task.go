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

var errInvalidStatus = &common.ValidationError{Msg: "Invalid status", Err: common.ErrInvalidStatus}

type TaskService struct {
	repomanager repomanager.RepositoryManager
}

func NewTaskService(m repomanager.RepositoryManager) *TaskService {
	return &TaskService{repomanager: m}
}

// List returns the project's tasks oldest first; an unknown project has none.
func (s *TaskService) List(ctx context.Context, projectID int64) ([]*models.Task, error) {
	list, err := s.repomanager.Tasks().ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return list, nil
}

func (s *TaskService) Create(ctx context.Context, creator models.Principal, projectID int64, title, description string) (*models.Task, error) {
	if _, err := s.repomanager.Projects().GetByID(ctx, projectID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError("Project")
		}
		return nil, fmt.Errorf("error getting project: %w", err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.NewValidationError("Task title required")
	}

	creatorID := creator.ID
	t, err := s.repomanager.Tasks().Create(ctx, &models.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      models.StatusTodo,
		CreatorID:   &creatorID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return t, nil
}

// get loads a task and checks it belongs to projectID.
func (s *TaskService) get(ctx context.Context, projectID, taskID int64) (*models.Task, error) {
	t, err := s.repomanager.Tasks().GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError("Task")
		}
		return nil, fmt.Errorf("error getting task: %w", err)
	}
	if t.ProjectID != projectID {
		return nil, common.NewNotFoundError("Task")
	}
	return t, nil
}

// Update applies patch. Absent fields stay unchanged; an empty description
// clears it; a blank title or unknown status is rejected before any write.
func (s *TaskService) Update(ctx context.Context, projectID, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	t, err := s.get(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, common.NewValidationError("Task title required")
		}
		t.Title = title
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, errInvalidStatus
		}
		t.Status = *patch.Status
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Empty() {
		return t, nil
	}

	updated, err := s.repomanager.Tasks().Update(ctx, t)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError("Task")
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, projectID, taskID int64) error {
	if _, err := s.get(ctx, projectID, taskID); err != nil {
		return err
	}
	if err := s.repomanager.Tasks().Delete(ctx, taskID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewNotFoundError("Task")
		}
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

// SetAssignees replaces the task's assignees and returns the updated task.
func (s *TaskService) SetAssignees(ctx context.Context, projectID, taskID int64, userIDs []int64) (*models.Task, error) {
	if _, err := s.get(ctx, projectID, taskID); err != nil {
		return nil, err
	}

	if err := s.repomanager.Tasks().SetAssignees(ctx, taskID, userIDs); err != nil {
		var nf *common.NotFoundError
		switch {
		case errors.As(err, &nf):
			return nil, err
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.NewNotFoundError("Task")
		}
		return nil, fmt.Errorf("error setting assignees: %w", err)
	}

	return s.get(ctx, projectID, taskID)
}
