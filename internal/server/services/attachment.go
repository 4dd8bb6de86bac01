package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/storage"
)

// ObjectPresigner issues short-lived URLs for object storage.
type ObjectPresigner interface {
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// AttachmentService tracks task files. With a nil presigner every call fails
// with common.ErrAttachmentsDisabled.
type AttachmentService struct {
	repomanager repomanager.RepositoryManager
	presigner   ObjectPresigner
	newKey      func(taskID int64) string
}

func NewAttachmentService(m repomanager.RepositoryManager, p ObjectPresigner) *AttachmentService {
	return &AttachmentService{repomanager: m, presigner: p, newKey: storage.GetRandomStorageKey}
}

func (s *AttachmentService) Enabled() bool { return s.presigner != nil }

// List returns the task's attachments; uploaded ones carry a download URL.
func (s *AttachmentService) List(ctx context.Context, taskID int64) ([]*models.Attachment, error) {
	if !s.Enabled() {
		return nil, common.ErrAttachmentsDisabled
	}

	list, err := s.repomanager.Attachments().ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	for _, a := range list {
		if err := s.withDownloadURL(ctx, a); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Create records a pending attachment and returns the URL to PUT its bytes to.
func (s *AttachmentService) Create(ctx context.Context, uploader models.Principal, taskID int64, fileName, contentType string) (*models.Attachment, string, error) {
	if !s.Enabled() {
		return nil, "", common.ErrAttachmentsDisabled
	}
	if err := taskExists(ctx, s.repomanager, taskID); err != nil {
		return nil, "", err
	}

	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, "", common.NewValidationError("File name required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := s.newKey(taskID)
	url, err := s.presigner.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %w", err)
	}

	a, err := s.repomanager.Attachments().Create(ctx, &models.Attachment{
		TaskID:      taskID,
		UploaderID:  uploader.ID,
		FileName:    fileName,
		ContentType: contentType,
		StorageKey:  key,
	})
	if err != nil {
		return nil, "", fmt.Errorf("error creating attachment: %w", err)
	}
	return a, url, nil
}

// Complete marks the attachment uploaded once the client's PUT succeeded.
func (s *AttachmentService) Complete(ctx context.Context, taskID, attachmentID int64) (*models.Attachment, error) {
	if !s.Enabled() {
		return nil, common.ErrAttachmentsDisabled
	}

	repo := s.repomanager.Attachments()
	a, err := repo.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError("Attachment")
		}
		return nil, fmt.Errorf("error getting attachment: %w", err)
	}
	if a.TaskID != taskID {
		return nil, common.NewNotFoundError("Attachment")
	}

	if err := repo.MarkUploaded(ctx, attachmentID); err != nil {
		return nil, fmt.Errorf("error marking attachment uploaded: %w", err)
	}
	a.Uploaded = true

	if err := s.withDownloadURL(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AttachmentService) withDownloadURL(ctx context.Context, a *models.Attachment) error {
	if !a.Uploaded {
		return nil
	}
	url, err := s.presigner.PresignGet(ctx, a.StorageKey)
	if err != nil {
		return fmt.Errorf("error presigning download: %w", err)
	}
	a.DownloadURL = url
	return nil
}
