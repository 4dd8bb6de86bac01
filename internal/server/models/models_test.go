package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatus_Valid(t *testing.T) {
	for _, s := range TaskStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, TaskStatus("blocked").Valid())
	assert.False(t, TaskStatus("").Valid())
	assert.False(t, TaskStatus("DONE").Valid())
}

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	b, err := json.Marshal(&User{ID: 1, Name: "Ann", Email: "ann@x.io", PasswordHash: []byte("$2a$10$secret")})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}

func TestTaskPatch_PresenceOfKey(t *testing.T) {
	var p TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"description":""}`), &p))

	assert.Nil(t, p.Title)
	assert.Nil(t, p.Status)
	require.NotNil(t, p.Description)
	assert.Equal(t, "", *p.Description)
	assert.False(t, p.Empty())

	var empty TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.Empty())
}

func TestProject_OwnedBy(t *testing.T) {
	owner := int64(7)
	p := &Project{OwnerID: &owner}
	assert.True(t, p.OwnedBy(7))
	assert.False(t, p.OwnedBy(8))

	seeded := &Project{}
	assert.False(t, seeded.OwnedBy(0))
}
