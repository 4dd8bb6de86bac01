// Package models mirrors the server's JSON resources on the client side.
package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     *int64    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Task struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"projectId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatorID   *int64    `json:"creatorId"`
	AssigneeIDs []int64   `json:"assigneeIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TaskPatch sends only the non-nil fields.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"taskId"`
	AuthorID  int64     `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Attachment struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"taskId"`
	UploaderID  int64     `json:"uploaderId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Uploaded    bool      `json:"uploaded"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
}

// Session is what signup and login return.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// TaskStatuses lists the statuses the server accepts.
var TaskStatuses = []string{"todo", "in-progress", "done"}
