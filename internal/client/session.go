package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"kuisin/internal/domain"
)

// AdminSession is kept from login until logout.
type AdminSession struct {
	Token string       `json:"token"`
	User  domain.Admin `json:"user"`
}

// ParticipantSession is kept from join until the quiz is completed.
type ParticipantSession struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	QuizID   string    `json:"quizId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// SessionState is the persisted form of a Session.
type SessionState struct {
	Admin       *AdminSession       `json:"admin,omitempty"`
	Participant *ParticipantSession `json:"participant,omitempty"`
}

// SessionStore persists session state on the local device.
type SessionStore interface {
	Load() (SessionState, error)
	Save(SessionState) error
}

// Session is the client-side state requests are built from. Every change is
// written through to the store.
type Session struct {
	mu    sync.RWMutex
	state SessionState
	store SessionStore
}

// NewSession loads state from store; a nil store keeps state in memory only.
func NewSession(store SessionStore) (*Session, error) {
	s := &Session{store: store}
	if store == nil {
		return s, nil
	}
	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	s.state = state
	return s, nil
}

func (s *Session) Admin() *AdminSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Admin
}

func (s *Session) Participant() *ParticipantSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Participant
}

// Token returns the admin bearer token, empty when logged out.
func (s *Session) Token() string {
	if a := s.Admin(); a != nil {
		return a.Token
	}
	return ""
}

func (s *Session) SetAdmin(a AdminSession) error {
	return s.update(func(st *SessionState) { st.Admin = &a })
}

// ClearAdmin runs on logout.
func (s *Session) ClearAdmin() error {
	return s.update(func(st *SessionState) { st.Admin = nil })
}

func (s *Session) SetParticipant(p ParticipantSession) error {
	return s.update(func(st *SessionState) { st.Participant = &p })
}

// ClearParticipant runs when the quiz is completed.
func (s *Session) ClearParticipant() error {
	return s.update(func(st *SessionState) { st.Participant = nil })
}

func (s *Session) update(fn func(*SessionState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	if s.store == nil {
		return nil
	}
	return s.store.Save(s.state)
}

// FileSessionStore keeps session state as a JSON file.
type FileSessionStore struct {
	Path string
}

func (f FileSessionStore) Load() (SessionState, error) {
	var state SessionState
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return state, err
	}
	if len(data) == 0 {
		return state, nil
	}
	err = json.Unmarshal(data, &state)
	return state, err
}

func (f FileSessionStore) Save(state SessionState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}
