package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	s.SetClock(tickingClock())
	return s
}

func mustUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), &models.User{Name: "n", Email: email, PasswordHash: []byte("h")})
	require.NoError(t, err)
	return u
}

func TestUsers_EmailUniqueCaseInsensitive(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	mustUser(t, s, "ann@example.com")

	_, err := s.Users().Create(ctx, &models.User{Email: "ANN@Example.com"})
	assert.ErrorIs(t, err, common.ErrEmailInUse)

	got, err := s.Users().GetByEmail(ctx, "Ann@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email)

	_, err = s.Users().GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUsers_ConcurrentSignupOnlyOneWins(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "race@example.com"
			if i%2 == 0 {
				email = "RACE@example.com"
			}
			_, err := s.Users().Create(ctx, &models.User{Email: email})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, common.ErrEmailInUse)
	}
	assert.Equal(t, 1, ok)
}

func TestUsers_ReturnedCopiesAreIsolated(t *testing.T) {
	s := newStore(t)
	u := mustUser(t, s, "a@b.c")

	u.Name = "mutated"
	got, err := s.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "n", got.Name)
}

func TestProjects_ListNewestFirstAndCapped(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seed := s.SeedSample()
	u := mustUser(t, s, "owner@x.io")

	for i := 0; i < 5; i++ {
		_, err := s.Projects().Create(ctx, &models.Project{Title: fmt.Sprintf("p%d", i), OwnerID: &u.ID})
		require.NoError(t, err)
	}

	all, err := s.Projects().List(ctx, 100)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "p4", all[0].Title)
	assert.Equal(t, seed.ID, all[5].ID)
	assert.Nil(t, all[5].OwnerID)

	capped, err := s.Projects().List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)

	again, err := s.Projects().List(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, all, again)
}

func TestProjects_DeleteCascades(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "owner@x.io")

	p, err := s.Projects().Create(ctx, &models.Project{Title: "doomed", OwnerID: &u.ID})
	require.NoError(t, err)
	other, err := s.Projects().Create(ctx, &models.Project{Title: "kept", OwnerID: &u.ID})
	require.NoError(t, err)

	task, err := s.Tasks().Create(ctx, &models.Task{ProjectID: p.ID, Title: "t", Status: models.StatusTodo})
	require.NoError(t, err)
	keptTask, err := s.Tasks().Create(ctx, &models.Task{ProjectID: other.ID, Title: "t2", Status: models.StatusTodo})
	require.NoError(t, err)

	_, err = s.Comments().Create(ctx, &models.Comment{TaskID: task.ID, AuthorID: u.ID, Content: "c"})
	require.NoError(t, err)
	_, err = s.Comments().Create(ctx, &models.Comment{TaskID: keptTask.ID, AuthorID: u.ID, Content: "c2"})
	require.NoError(t, err)
	att, err := s.Attachments().Create(ctx, &models.Attachment{TaskID: task.ID, UploaderID: u.ID, FileName: "f", StorageKey: "k"})
	require.NoError(t, err)

	require.NoError(t, s.Projects().Delete(ctx, p.ID))

	_, err = s.Projects().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Tasks().GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Attachments().GetByID(ctx, att.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	comments, err := s.Comments().ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	kept, err := s.Comments().ListByTask(ctx, keptTask.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, s.Projects().Delete(ctx, p.ID), common.ErrorNotFound)
}

func TestTasks_OrderingAndUpdate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := s.SeedSample()

	first, err := s.Tasks().Create(ctx, &models.Task{ProjectID: p.ID, Title: "first", Status: models.StatusTodo})
	require.NoError(t, err)
	_, err = s.Tasks().Create(ctx, &models.Task{ProjectID: p.ID, Title: "second", Status: models.StatusTodo})
	require.NoError(t, err)

	list, err := s.Tasks().ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "second", list[1].Title)

	first.Status = models.StatusDone
	first.Title = "renamed"
	updated, err := s.Tasks().Update(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, "renamed", updated.Title)

	empty, err := s.Tasks().ListByProject(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = s.Tasks().Create(ctx, &models.Task{ProjectID: 999, Title: "orphan"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTasks_EqualTimestampsListInIDOrder(t *testing.T) {
	s := NewStore()
	fixed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return fixed })
	ctx := context.Background()
	p := s.SeedSample()

	for _, title := range []string{"c", "a", "b"} {
		_, err := s.Tasks().Create(ctx, &models.Task{ProjectID: p.ID, Title: title, Status: models.StatusTodo})
		require.NoError(t, err)
	}

	first, err := s.Tasks().ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, first, 3)
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].ID, first[i].ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, []string{first[0].Title, first[1].Title, first[2].Title})

	for range 5 {
		again, err := s.Tasks().ListByProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTasks_SetAssignees(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := s.SeedSample()
	a := mustUser(t, s, "a@x.io")
	b := mustUser(t, s, "b@x.io")

	task, err := s.Tasks().Create(ctx, &models.Task{ProjectID: p.ID, Title: "t", Status: models.StatusTodo})
	require.NoError(t, err)

	require.NoError(t, s.Tasks().SetAssignees(ctx, task.ID, []int64{b.ID, a.ID, b.ID}))
	got, err := s.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, got.AssigneeIDs)

	err = s.Tasks().SetAssignees(ctx, task.ID, []int64{a.ID, 404})
	var nf *common.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "User", nf.Resource)

	got, err = s.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, got.AssigneeIDs, "failed replace must leave the set untouched")

	assert.ErrorIs(t, s.Tasks().SetAssignees(ctx, 404, nil), common.ErrorNotFound)
}

func TestComments_AscendingAndRequireTask(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := s.SeedSample()
	u := mustUser(t, s, "a@x.io")
	task, err := s.Tasks().Create(ctx, &models.Task{ProjectID: p.ID, Title: "t", Status: models.StatusTodo})
	require.NoError(t, err)

	for _, c := range []string{"one", "two", "three"} {
		_, err := s.Comments().Create(ctx, &models.Comment{TaskID: task.ID, AuthorID: u.ID, Content: c})
		require.NoError(t, err)
	}

	list, err := s.Comments().ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{list[0].Content, list[1].Content, list[2].Content})

	_, err = s.Comments().Create(ctx, &models.Comment{TaskID: 999, AuthorID: u.ID, Content: "x"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestComments_RequireAuthor(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := s.SeedSample()
	task, err := s.Tasks().Create(ctx, &models.Task{ProjectID: p.ID, Title: "t", Status: models.StatusTodo})
	require.NoError(t, err)

	_, err = s.Comments().Create(ctx, &models.Comment{TaskID: task.ID, AuthorID: 999, Content: "ghost"})
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "User not found", err.Error())

	list, err := s.Comments().ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAttachments_MarkUploaded(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := s.SeedSample()
	task, err := s.Tasks().Create(ctx, &models.Task{ProjectID: p.ID, Title: "t", Status: models.StatusTodo})
	require.NoError(t, err)

	a, err := s.Attachments().Create(ctx, &models.Attachment{TaskID: task.ID, FileName: "f.txt", StorageKey: "k"})
	require.NoError(t, err)
	assert.False(t, a.Uploaded)

	require.NoError(t, s.Attachments().MarkUploaded(ctx, a.ID))
	list, err := s.Attachments().ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Uploaded)

	assert.ErrorIs(t, s.Attachments().MarkUploaded(ctx, 999), common.ErrorNotFound)
}
