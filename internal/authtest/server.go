// Package authtest runs an in-process stand-in for the remote account
// service. It follows the service's wire contract (one JSON endpoint
// switched on "action", plus the avatar endpoint) and records what it
// receives so tests can assert on traffic.
package authtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	AuthPath   = "/auth"
	AvatarPath = "/upload-avatar"
)

type account struct {
	user     models.User
	password string
}

type cannedResponse struct {
	status int
	body   string
}

// Server is the fake account service.
type Server struct {
	srv *httptest.Server

	mu        sync.Mutex
	accounts  map[string]*account
	nextID    int64
	requests  int
	lastReq   models.AuthRequest
	lastReqID string
	canned    *cannedResponse
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{accounts: make(map[string]*account), nextID: 1}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-User-Id", common.RequestIDHeaderName},
		MaxAge:         86400,
	}))

	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	r.Options(AuthPath, ok)
	r.Options(AvatarPath, ok)
	r.Post(AuthPath, s.handleAuth)
	r.Post(AvatarPath, s.handleAvatar)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, models.AuthResponse{Error: "Method not allowed"})
	})

	return r
}

func (s *Server) URL() string       { return s.srv.URL }
func (s *Server) AuthURL() string   { return s.srv.URL + AuthPath }
func (s *Server) AvatarURL() string { return s.srv.URL + AvatarPath }

// Close stops the server early, e.g. to simulate an outage.
func (s *Server) Close() { s.srv.Close() }

// Requests returns the number of POST requests received so far.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// LastRequest returns the last decoded body sent to the account endpoint.
func (s *Server) LastRequest() models.AuthRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReq
}

// LastRequestID returns the request id header of the last POST.
func (s *Server) LastRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReqID
}

// AddUser registers an account directly.
func (s *Server) AddUser(email, password, fullName string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(email, password, fullName)
}

func (s *Server) addLocked(email, password, fullName string) models.User {
	u := models.User{ID: s.nextID, Email: email, FullName: fullName}
	s.nextID++
	s.accounts[strings.ToLower(email)] = &account{user: u, password: password}
	return u
}

// HasUser reports whether email is registered.
func (s *Server) HasUser(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[strings.ToLower(email)]
	return ok
}

// Respond makes every following POST answer with status and the raw body,
// bypassing the normal logic. Pass status 0 to go back to normal.
func (s *Server) Respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		s.canned = nil
		return
	}
	s.canned = &cannedResponse{status: status, body: body}
}

// record counts the request and reports a canned response, if one is set.
func (s *Server) record(r *http.Request) *cannedResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	s.lastReqID = r.Header.Get(common.RequestIDHeaderName)
	return s.canned
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	canned := s.record(r)

	var req models.AuthRequest
	decodeErr := json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	s.lastReq = req
	s.mu.Unlock()

	if canned != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(canned.status)
		_, _ = w.Write([]byte(canned.body))
		return
	}
	if decodeErr != nil {
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Error: "invalid JSON"})
		return
	}

	switch req.Action {
	case models.ActionRegister:
		s.register(w, req)
	case models.ActionLogin:
		s.login(w, req)
	default:
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Error: "unknown action"})
	}
}

func (s *Server) register(w http.ResponseWriter, req models.AuthRequest) {
	switch {
	case !strings.Contains(req.Email, "@"):
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Error: "invalid email"})
		return
	case len(req.Password) < common.MinPasswordLength:
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Error: "password must be at least 8 characters"})
		return
	case req.FullName == "":
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Error: "full name is required"})
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[strings.ToLower(req.Email)]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Error: "user with this email already exists"})
		return
	}
	u := s.addLocked(req.Email, req.Password, req.FullName)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, User: &u})
}

func (s *Server) login(w http.ResponseWriter, req models.AuthRequest) {
	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()

	if !ok || acc.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, models.AuthResponse{Error: "invalid email or password"})
		return
	}
	u := acc.user
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, User: &u})
}

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	canned := s.record(r)
	if canned != nil {
		w.WriteHeader(canned.status)
		_, _ = w.Write([]byte(canned.body))
		return
	}

	var req models.AvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 || req.AvatarData == "" {
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Error: "user_id and avatar_data are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == req.UserID {
			acc.user.AvatarURL = "data:image/png;base64," + req.AvatarData
			u := acc.user
			writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, User: &u})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, models.AuthResponse{Error: "user not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
