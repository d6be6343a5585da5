package client

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/authtest"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *authtest.Server) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(HTTPConfig{
		EndpointURL: srv.AuthURL(),
		AvatarURL:   srv.AvatarURL(),
		Timeout:     5 * time.Second,
	}, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewHTTPClient_ValidatesURLs(t *testing.T) {
	tests := []struct {
		name string
		cfg  HTTPConfig
	}{
		{name: "empty endpoint", cfg: HTTPConfig{AvatarURL: "http://x/a"}},
		{name: "relative endpoint", cfg: HTTPConfig{EndpointURL: "auth", AvatarURL: "http://x/a"}},
		{name: "bad scheme", cfg: HTTPConfig{EndpointURL: "ftp://x/auth", AvatarURL: "http://x/a"}},
		{name: "empty avatar", cfg: HTTPConfig{EndpointURL: "http://x/auth"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHTTPClient(tt.cfg, nil, nil)
			require.ErrorIs(t, err, ErrInvalidEndpoint)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	srv := authtest.NewServer(t)
	want := srv.AddUser("a@b.com", "x", "A B")
	c := newTestClient(t, srv)

	got, err := c.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, &want, got)

	assert.Equal(t, models.AuthRequest{Action: models.ActionLogin, Email: "a@b.com", Password: "x"}, srv.LastRequest())
	_, err = uuid.Parse(srv.LastRequestID())
	assert.NoError(t, err, "request id must be a uuid")
}

func TestLogin_CannedSuccess(t *testing.T) {
	srv := authtest.NewServer(t)
	srv.Respond(http.StatusOK, `{"success":true,"user":{"id":1,"email":"a@b.com","full_name":"A B"}}`)
	c := newTestClient(t, srv)

	got, err := c.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 1, Email: "a@b.com", FullName: "A B"}, got)
}

func TestLogin_Rejected(t *testing.T) {
	srv := authtest.NewServer(t)
	srv.Respond(http.StatusOK, `{"success":false,"error":"bad creds"}`)
	c := newTestClient(t, srv)

	_, err := c.Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, ErrRejected)

	msg, ok := ServerMessage(err)
	require.True(t, ok)
	assert.Equal(t, "bad creds", msg)
}

func TestLogin_WrongPasswordFromService(t *testing.T) {
	srv := authtest.NewServer(t)
	srv.AddUser("a@b.com", "right-password", "A B")
	c := newTestClient(t, srv)

	_, err := c.Login(context.Background(), "a@b.com", "wrong-password")
	require.ErrorIs(t, err, ErrRejected)

	var re *RejectedError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusUnauthorized, re.StatusCode)
	assert.Equal(t, "invalid email or password", re.Message)
}

func TestLogin_SuccessFlagWithErrorStatusIsRejected(t *testing.T) {
	srv := authtest.NewServer(t)
	srv.Respond(http.StatusInternalServerError, `{"success":true,"user":{"id":1,"email":"a@b.com"}}`)
	c := newTestClient(t, srv)

	_, err := c.Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, ErrRejected)
	_, ok := ServerMessage(err)
	assert.False(t, ok)
}

func TestLogin_SuccessWithoutUserIsBadResponse(t *testing.T) {
	srv := authtest.NewServer(t)
	srv.Respond(http.StatusOK, `{"success":true}`)
	c := newTestClient(t, srv)

	_, err := c.Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestLogin_NotJSONIsBadResponse(t *testing.T) {
	srv := authtest.NewServer(t)
	srv.Respond(http.StatusBadGateway, `<html>gateway</html>`)
	c := newTestClient(t, srv)

	_, err := c.Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, ErrBadResponse)
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestLogin_ServerDownIsUnavailable(t *testing.T) {
	srv := authtest.NewServer(t)
	c := newTestClient(t, srv)
	srv.Close()

	_, err := c.Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestLogin_CancelledContext(t *testing.T) {
	srv := authtest.NewServer(t)
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Login(ctx, "a@b.com", "x")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, srv.Requests())
}

func TestRegister_Success(t *testing.T) {
	srv := authtest.NewServer(t)
	c := newTestClient(t, srv)

	require.NoError(t, c.Register(context.Background(), "new@b.com", "longenough", "New User"))

	assert.True(t, srv.HasUser("new@b.com"))
	assert.Equal(t, models.AuthRequest{
		Action:   models.ActionRegister,
		Email:    "new@b.com",
		Password: "longenough",
		FullName: "New User",
	}, srv.LastRequest())
}

func TestRegister_Duplicate(t *testing.T) {
	srv := authtest.NewServer(t)
	srv.AddUser("taken@b.com", "longenough", "Taken")
	c := newTestClient(t, srv)

	err := c.Register(context.Background(), "taken@b.com", "longenough", "Again")
	require.ErrorIs(t, err, ErrRejected)
	msg, _ := ServerMessage(err)
	assert.Equal(t, "user with this email already exists", msg)
}

func TestUploadAvatar(t *testing.T) {
	srv := authtest.NewServer(t)
	u := srv.AddUser("a@b.com", "longenough", "A B")
	c := newTestClient(t, srv)

	img := []byte{0x89, 'P', 'N', 'G'}
	got, err := c.UploadAvatar(context.Background(), u.ID, img)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(img), got.AvatarURL)
	assert.Equal(t, u.Email, got.Email)
}

func TestUploadAvatar_UnknownUser(t *testing.T) {
	srv := authtest.NewServer(t)
	c := newTestClient(t, srv)

	_, err := c.UploadAvatar(context.Background(), 42, []byte{1})
	require.ErrorIs(t, err, ErrRejected)

	var re *RejectedError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusNotFound, re.StatusCode)
}

func TestPing(t *testing.T) {
	srv := authtest.NewServer(t)
	c := newTestClient(t, srv)

	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, 0, srv.Requests(), "ping must not count as an auth request")

	srv.Close()
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestRejectedError_Format(t *testing.T) {
	assert.Equal(t, "rejected by server (status 400): dup", (&RejectedError{StatusCode: 400, Message: "dup"}).Error())
	assert.Equal(t, "rejected by server (status 500)", (&RejectedError{StatusCode: 500}).Error())
}
