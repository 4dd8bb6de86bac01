package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServeAndShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Backend running"})
	})
	srv := NewServer(l.Addr().String(), h, logging.Nop{}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, l) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/", l.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Backend running"}`, string(body))

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	srv := NewServer(l.Addr().String(), http.NotFoundHandler(), logging.Nop{}, time.Second)
	assert.Error(t, srv.Run(context.Background()))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{common.NewValidationError("Title required"), http.StatusBadRequest, "Title required"},
		{fmt.Errorf("wrapped: %w", common.ErrEmailInUse), http.StatusBadRequest, "Email already in use"},
		{common.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
		{common.ErrTokenExpired, http.StatusUnauthorized, "Invalid token"},
		{common.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{common.ErrTokenUserGone, http.StatusUnauthorized, "Invalid token (user not found)"},
		{common.ErrorForbidden, http.StatusForbidden, "Forbidden"},
		{common.NewNotFoundError("Task"), http.StatusNotFound, "Task not found"},
		{common.ErrorNotFound, http.StatusNotFound, "Not found"},
		{common.ErrAttachmentsDisabled, http.StatusNotImplemented, "Attachments are not enabled"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		status, msg := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.msg, msg, tt.err.Error())
	}
}
