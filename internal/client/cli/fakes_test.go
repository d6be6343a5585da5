package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/logging"
)

// fakeSession implements sessionService for unit tests of the commands.
type fakeSession struct {
	mu    sync.Mutex
	state models.SessionState

	LoginErr    error
	RegisterErr error
	LogoutErr   error
	NavigateErr error
	AvatarErr   error
	PingErr     error

	LastLogin    models.LoginForm
	LastRegister models.RegisterForm
	LastAvatar   []byte
	Navigated    []models.View
	calls        []string
}

func (f *fakeSession) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSession) State() models.SessionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.state
	st.User = st.User.Clone()
	return st
}

func (f *fakeSession) Restore(context.Context) error { f.record("restore"); return nil }

func (f *fakeSession) Register(_ context.Context, form *models.RegisterForm) error {
	f.record("register")
	f.LastRegister = *form
	return f.RegisterErr
}

func (f *fakeSession) Login(_ context.Context, form *models.LoginForm) error {
	f.record("login")
	f.LastLogin = *form
	return f.LoginErr
}

func (f *fakeSession) Logout(context.Context) error {
	f.record("logout")
	return f.LogoutErr
}

func (f *fakeSession) Navigate(_ context.Context, target models.View) error {
	f.record("navigate")
	f.Navigated = append(f.Navigated, target)
	if f.NavigateErr != nil {
		return f.NavigateErr
	}
	f.mu.Lock()
	f.state.View = target
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) UploadAvatar(_ context.Context, image []byte) error {
	f.record("avatar")
	f.LastAvatar = image
	return f.AvatarErr
}

func (f *fakeSession) Ping(context.Context) error {
	f.record("ping")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.PingErr
}

func (f *fakeSession) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PingErr = err
}

func (f *fakeSession) Close(context.Context) error { f.record("close"); return nil }

func newTestApp(fs *fakeSession) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		session: fs,
		logger:  logging.NewNopLogger(),
		reader:  bufio.NewReader(&bytes.Buffer{}),
		out:     out,
	}, out
}

// capturePrintln collects everything written through printlnFn.
func capturePrintln(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &buf
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

// stubInputs answers text prompts from answers in order and the password
// prompt with password.
func stubInputs(t *testing.T, answers []string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		i++
		return answers[i-1], nil
	}
	getPassword = func(_ *bufio.Reader, _ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
