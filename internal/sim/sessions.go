package sim

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Session is a run started in the background by Sessions.
type Session struct {
	ID     string
	runner *Runner
	done   chan struct{}
	result *Result
	err    error
}

func (s *Session) Runner() *Runner { return s.runner }

func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the run finishes.
func (s *Session) Wait() (*Result, error) {
	<-s.done
	return s.result, s.err
}

// Sessions keeps at most one active run per id.
type Sessions struct {
	mu   sync.Mutex
	runs map[string]*Session
	log  *logrus.Entry
}

func NewSessions(log *logrus.Entry) *Sessions {
	if log == nil {
		log = NewRunnerLog(nil)
	}
	return &Sessions{runs: make(map[string]*Session), log: log}
}

// Start launches r in its own goroutine under id. A finished session stays
// registered until Wait collects it or a new run reuses the id.
func (s *Sessions) Start(ctx context.Context, id string, r *Runner, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if prev, ok := s.runs[id]; ok && !prev.finished() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, id)
	}
	if !r.running.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return nil, ErrRunning
	}
	sess := &Session{ID: id, runner: r, done: make(chan struct{})}
	s.runs[id] = sess
	s.mu.Unlock()

	s.log.WithField("session", id).Info("session started")
	go func() {
		sess.result, sess.err = r.run(ctx, cfg)
		s.log.WithField("session", id).Info("session finished")
		close(sess.done)
	}()
	return sess, nil
}

// Stop requests a cooperative stop; the run ends after its current step.
func (s *Sessions) Stop(id string) error {
	s.mu.Lock()
	sess, ok := s.runs[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	sess.runner.Stop()
	return nil
}

func (s *Sessions) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.runs {
		sess.runner.Stop()
	}
}

// Has reports whether id is still running.
func (s *Sessions) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.runs[id]
	return ok && !sess.finished()
}

// Len counts running sessions.
func (s *Sessions) Len() int {
	return len(s.IDs())
}

// IDs lists running sessions in order.
func (s *Sessions) IDs() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.runs))
	for id, sess := range s.runs {
		if !sess.finished() {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// Wait blocks until the session id finishes and then forgets it, so each
// run is collected once. Unknown or already collected ids return
// ErrNoSession.
func (s *Sessions) Wait(id string) (*Result, error) {
	s.mu.Lock()
	sess, ok := s.runs[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	res, err := sess.Wait()

	s.mu.Lock()
	if s.runs[id] == sess {
		delete(s.runs, id)
	}
	s.mu.Unlock()
	return res, err
}
