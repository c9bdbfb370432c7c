// Package sessionsvc holds the current bearer credential behind the
// core.Session contract so pages never read storage directly, and credential
// loss is reacted to exactly once.
package sessionsvc

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type session struct {
	mu       sync.Mutex
	token    string
	fired    bool
	onExpire func()
	path     string // "" keeps the token in memory only
}

var _ core.Session = (*session)(nil)

// NewMemory returns a session holding its token in memory; used by tests and
// one-shot commands.
func NewMemory(token ...string) core.Session {
	s := &session{}
	if len(token) > 0 {
		s.token = token[0]
	}
	return s
}

// NewFile returns a session persisted to the given file (the localStorage
// analog), pre-loaded with whatever token a previous login stored there.
func NewFile(path string) (core.Session, error) {
	s := &session{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "reading session file")
	}
	s.token = core.CleanString(string(data))
	return s, nil
}

func (s *session) Token() string {
	s.mu.Lock()
	tok := s.token
	s.mu.Unlock()

	if tok != "" && tokenExpired(tok) {
		// expired credential is as good as none; send the user to login
		// before a doomed request
		s.Expire()
		return ""
	}
	return tok
}

func (s *session) SetToken(tok string) error {
	s.mu.Lock()
	s.token = tok
	s.fired = false
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	return errors.Wrap(os.WriteFile(s.path, []byte(tok), 0o600), "writing session file")
}

func (s *session) Expire() {
	s.mu.Lock()
	s.token = ""
	fire := !s.fired
	s.fired = true
	fn := s.onExpire
	s.mu.Unlock()

	if s.path != "" {
		_ = os.Remove(s.path)
	}
	if fire && fn != nil {
		fn()
	}
}

func (s *session) OnExpire(fn func()) {
	s.mu.Lock()
	s.onExpire = fn
	s.mu.Unlock()
}

// tokenExpired inspects a JWT's exp claim without verifying the signature
// (verification is the backend's job; this only avoids sending a request we
// know will bounce). Opaque tokens never read as expired.
func tokenExpired(tok string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
