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

// MaxProjects caps the public project listing.
const MaxProjects = 100

type ProjectService struct {
	repomanager repomanager.RepositoryManager
}

func NewProjectService(m repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{repomanager: m}
}

// List returns the newest projects first.
func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	list, err := s.repomanager.Projects().List(ctx, MaxProjects)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	return list, nil
}

func (s *ProjectService) Create(ctx context.Context, owner models.Principal, title, description string) (*models.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.NewValidationError("Title required")
	}

	ownerID := owner.ID
	p, err := s.repomanager.Projects().Create(ctx, &models.Project{
		Title:       title,
		Description: description,
		OwnerID:     &ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	p, err := s.repomanager.Projects().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError("Project")
		}
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	return p, nil
}

// Delete removes a project the caller owns, cascading to its tasks.
// Ownerless projects cannot be deleted by anyone.
func (s *ProjectService) Delete(ctx context.Context, caller models.Principal, id int64) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.OwnedBy(caller.ID) {
		return common.ErrorForbidden
	}

	if err := s.repomanager.Projects().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewNotFoundError("Project")
		}
		return fmt.Errorf("error deleting project: %w", err)
	}
	return nil
}
