// Package memory is the in-process storage backend. One Store owns every
// entity behind a single lock, so uniqueness checks and cascading deletes
// happen in one critical section. Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users       map[int64]*models.User
	emails      map[string]int64
	projects    map[int64]*models.Project
	tasks       map[int64]*models.Task
	comments    map[int64]*models.Comment
	attachments map[int64]*models.Attachment

	userSeq, projectSeq, taskSeq, commentSeq, attachmentSeq int64
}

func NewStore() *Store {
	return &Store{
		now:         time.Now,
		users:       make(map[int64]*models.User),
		emails:      make(map[string]int64),
		projects:    make(map[int64]*models.Project),
		tasks:       make(map[int64]*models.Task),
		comments:    make(map[int64]*models.Comment),
		attachments: make(map[int64]*models.Attachment),
	}
}

// SetClock replaces the timestamp source used for new records.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SeedSample adds the ownerless demo project shown to first-time visitors.
func (s *Store) SeedSample() *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projectSeq++
	p := &models.Project{ID: s.projectSeq, Title: "Sample Project", Description: "Demo", CreatedAt: s.now()}
	s.projects[p.ID] = p
	return cloneProject(p)
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s: s} }
func (s *Store) Projects() *ProjectRepository       { return &ProjectRepository{s: s} }
func (s *Store) Tasks() *TaskRepository             { return &TaskRepository{s: s} }
func (s *Store) Comments() *CommentRepository       { return &CommentRepository{s: s} }
func (s *Store) Attachments() *AttachmentRepository { return &AttachmentRepository{s: s} }

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserRepository implements users.Repository.
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(u.Email)
	if _, taken := s.emails[key]; taken {
		return nil, common.ErrEmailInUse
	}

	s.userSeq++
	stored := *u
	stored.ID = s.userSeq
	stored.CreatedAt = s.now()
	stored.PasswordHash = append([]byte(nil), u.PasswordHash...)
	s.users[stored.ID] = &stored
	s.emails[key] = stored.ID

	out := stored
	return &out, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[emailKey(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *s.users[id]
	return &out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

// ProjectRepository implements projects.Repository.
type ProjectRepository struct{ s *Store }

func (r *ProjectRepository) List(ctx context.Context, limit int) ([]*models.Project, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		result = append(result, cloneProject(p))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.OwnerID != nil {
		if _, ok := s.users[*p.OwnerID]; !ok {
			return nil, common.NewNotFoundError("User")
		}
	}

	s.projectSeq++
	stored := cloneProject(p)
	stored.ID = s.projectSeq
	stored.CreatedAt = s.now()
	s.projects[stored.ID] = stored
	return cloneProject(stored), nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneProject(p), nil
}

// Delete removes the project with its tasks, their comments, attachments and
// assignments.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return common.ErrorNotFound
	}
	for taskID, t := range s.tasks {
		if t.ProjectID == id {
			s.deleteTaskLocked(taskID)
		}
	}
	delete(s.projects, id)
	return nil
}

// TaskRepository implements tasks.Repository.
type TaskRepository struct{ s *Store }

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.Task, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Task, 0)
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			result = append(result, cloneTask(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[t.ProjectID]; !ok {
		return nil, common.NewNotFoundError("Project")
	}

	s.taskSeq++
	stored := cloneTask(t)
	stored.ID = s.taskSeq
	stored.CreatedAt = s.now()
	stored.AssigneeIDs = []int64{}
	s.tasks[stored.ID] = stored
	return cloneTask(stored), nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneTask(t), nil
}

func (r *TaskRepository) Update(ctx context.Context, t *models.Task) (*models.Task, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tasks[t.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	stored.Title = t.Title
	stored.Description = t.Description
	stored.Status = t.Status
	return cloneTask(stored), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	s.deleteTaskLocked(id)
	return nil
}

func (r *TaskRepository) SetAssignees(ctx context.Context, taskID int64, userIDs []int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return common.ErrorNotFound
	}

	seen := make(map[int64]struct{}, len(userIDs))
	ids := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := s.users[id]; !ok {
			return common.NewNotFoundError("User")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	t.AssigneeIDs = ids
	return nil
}

// deleteTaskLocked must be called with s.mu held for writing.
func (s *Store) deleteTaskLocked(id int64) {
	for cid, c := range s.comments {
		if c.TaskID == id {
			delete(s.comments, cid)
		}
	}
	for aid, a := range s.attachments {
		if a.TaskID == id {
			delete(s.attachments, aid)
		}
	}
	delete(s.tasks, id)
}

// CommentRepository implements comments.Repository.
type CommentRepository struct{ s *Store }

func (r *CommentRepository) ListByTask(ctx context.Context, taskID int64) ([]*models.Comment, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if c.TaskID == taskID {
			out := *c
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[c.TaskID]; !ok {
		return nil, common.NewNotFoundError("Task")
	}
	if _, ok := s.users[c.AuthorID]; !ok {
		return nil, common.NewNotFoundError("User")
	}

	s.commentSeq++
	stored := *c
	stored.ID = s.commentSeq
	stored.CreatedAt = s.now()
	s.comments[stored.ID] = &stored

	out := stored
	return &out, nil
}

// AttachmentRepository implements attachments.Repository.
type AttachmentRepository struct{ s *Store }

func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[a.TaskID]; !ok {
		return nil, common.NewNotFoundError("Task")
	}

	s.attachmentSeq++
	stored := *a
	stored.ID = s.attachmentSeq
	stored.CreatedAt = s.now()
	stored.DownloadURL = ""
	s.attachments[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.attachments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *a
	return &out, nil
}

func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Attachment, 0)
	for _, a := range s.attachments {
		if a.TaskID == taskID {
			out := *a
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *AttachmentRepository) MarkUploaded(ctx context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attachments[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.Uploaded = true
	return nil
}

func cloneProject(p *models.Project) *models.Project {
	out := *p
	if p.OwnerID != nil {
		id := *p.OwnerID
		out.OwnerID = &id
	}
	return &out
}

func cloneTask(t *models.Task) *models.Task {
	out := *t
	if t.CreatorID != nil {
		id := *t.CreatorID
		out.CreatorID = &id
	}
	out.AssigneeIDs = append([]int64{}, t.AssigneeIDs...)
	return &out
}
