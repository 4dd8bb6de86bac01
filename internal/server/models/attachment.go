package models

import "time"

// Attachment is file metadata for a task. The bytes live in object storage
// under StorageKey and move through presigned URLs only.
type Attachment struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"taskId"`
	UploaderID  int64     `json:"uploaderId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	StorageKey  string    `json:"-"`
	Uploaded    bool      `json:"uploaded"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
}
