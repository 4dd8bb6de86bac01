package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/comments"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/memory"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/projects"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves repositories backed by a memory.Store.
type InMemoryRepositoryManager struct {
	store *memory.Store
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{store: memory.NewStore()}
}

// Store exposes the backing store, e.g. for seeding.
func (m *InMemoryRepositoryManager) Store() *memory.Store { return m.store }

func (m *InMemoryRepositoryManager) Users() users.Repository             { return m.store.Users() }
func (m *InMemoryRepositoryManager) Projects() projects.Repository       { return m.store.Projects() }
func (m *InMemoryRepositoryManager) Tasks() tasks.Repository             { return m.store.Tasks() }
func (m *InMemoryRepositoryManager) Comments() comments.Repository       { return m.store.Comments() }
func (m *InMemoryRepositoryManager) Attachments() attachments.Repository { return m.store.Attachments() }

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *InMemoryRepositoryManager) Close() error                        { return nil }
