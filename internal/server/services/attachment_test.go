package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	putErr, getErr error
	putKeys        []string
	putTypes       []string
}

func (f *fakePresigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.putKeys = append(f.putKeys, key)
	f.putTypes = append(f.putTypes, contentType)
	return "https://s3.test/put/" + key, nil
}

func (f *fakePresigner) PresignGet(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return "https://s3.test/get/" + key, nil
}

func newAttachmentFixture(t *testing.T, p ObjectPresigner) (*fixture, *AttachmentService) {
	t.Helper()
	f := newFixture(t)
	svc := NewAttachmentService(f.rm, p)
	n := 0
	svc.newKey = func(taskID int64) string {
		n++
		return fmt.Sprintf("tasks/%d/key-%d", taskID, n)
	}
	return f, svc
}

func TestAttachments_Disabled(t *testing.T) {
	f := newFixture(t)
	svc := NewAttachmentService(f.rm, nil)
	ctx := context.Background()
	u := f.signup(t, "u", "u@x.io")

	assert.False(t, svc.Enabled())
	_, err := svc.List(ctx, 1)
	assert.ErrorIs(t, err, common.ErrAttachmentsDisabled)
	_, _, err = svc.Create(ctx, u, 1, "a.txt", "")
	assert.ErrorIs(t, err, common.ErrAttachmentsDisabled)
	_, err = svc.Complete(ctx, 1, 1)
	assert.ErrorIs(t, err, common.ErrAttachmentsDisabled)
}

func TestAttachments_Lifecycle(t *testing.T) {
	presigner := &fakePresigner{}
	f, svc := newAttachmentFixture(t, presigner)
	ctx := context.Background()
	u := f.signup(t, "u", "u@x.io")
	p := f.project(t, u, "p")
	task := f.task(t, u, p.ID, "t")

	a, url, err := svc.Create(ctx, u, task.ID, " notes.txt ", "")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/put/tasks/1/key-1", url)
	assert.Equal(t, "notes.txt", a.FileName)
	assert.Equal(t, "application/octet-stream", a.ContentType)
	assert.Equal(t, []string{"application/octet-stream"}, presigner.putTypes)
	assert.False(t, a.Uploaded)
	assert.Empty(t, a.DownloadURL)

	list, err := svc.List(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].DownloadURL)

	done, err := svc.Complete(ctx, task.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, done.Uploaded)
	assert.Equal(t, "https://s3.test/get/tasks/1/key-1", done.DownloadURL)

	list, err = svc.List(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/get/tasks/1/key-1", list[0].DownloadURL)
}

func TestAttachments_Errors(t *testing.T) {
	presigner := &fakePresigner{}
	f, svc := newAttachmentFixture(t, presigner)
	ctx := context.Background()
	u := f.signup(t, "u", "u@x.io")
	p := f.project(t, u, "p")
	task := f.task(t, u, p.ID, "t")
	other := f.task(t, u, p.ID, "other")

	_, _, err := svc.Create(ctx, u, 999, "a", "")
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "Task not found", err.Error())

	_, _, err = svc.Create(ctx, u, task.ID, " ", "")
	require.ErrorIs(t, err, common.ErrorValidation)

	a, _, err := svc.Create(ctx, u, task.ID, "a", "text/plain")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, other.ID, a.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "Attachment not found", err.Error())

	_, err = svc.Complete(ctx, task.ID, a.ID+10)
	require.ErrorIs(t, err, common.ErrorNotFound)

	presigner.putErr = errors.New("s3 down")
	_, _, err = svc.Create(ctx, u, task.ID, "b", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	presigner.getErr = errors.New("s3 down")
	_, err = svc.Complete(ctx, task.ID, a.ID)
	require.Error(t, err)
}
