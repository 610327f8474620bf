package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/wizard"
)

// sessionLayout records the layout effects of a hosted session so they can
// be reported to the front-end that renders it.
type sessionLayout struct {
	mu     sync.Mutex
	header int
	locked bool
}

func (l *sessionLayout) ReportHeaderHeight(px int) {
	l.mu.Lock()
	l.header = px
	l.mu.Unlock()
}

func (l *sessionLayout) SetScrollLocked(locked bool) {
	l.mu.Lock()
	l.locked = locked
	l.mu.Unlock()
}

func (l *sessionLayout) snapshot() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.header, l.locked
}

type session struct {
	id      string
	ctrl    *wizard.Controller
	layout  *sessionLayout
	cancel  context.CancelFunc
	done    chan struct{}
	touched atomic.Int64
}

func (s *session) view() SessionView {
	return newSessionView(s.id, s.ctrl.Questions(), s.ctrl.State(), s.layout)
}

func (s *session) touch(now time.Time) { s.touched.Store(now.UnixNano()) }

// Sessions owns the server-hosted wizard sessions. Each one runs its own
// controller goroutine until it is removed.
type Sessions struct {
	questions []quiz.Question
	challenge wizard.Challenge
	submitter wizard.Submitter
	broker    *Broker
	logger    *slog.Logger
	idleTTL   time.Duration
	opts      []wizard.Option

	mu   sync.RWMutex
	byID map[string]*session
}

func NewSessions(questions []quiz.Question, challenge wizard.Challenge, submitter wizard.Submitter,
	broker *Broker, logger *slog.Logger, idleTTL time.Duration, opts ...wizard.Option) *Sessions {
	return &Sessions{
		questions: questions,
		challenge: challenge,
		submitter: submitter,
		broker:    broker,
		logger:    logger,
		idleTTL:   idleTTL,
		opts:      opts,
		byID:      make(map[string]*session),
	}
}

// open starts a new session and opens its wizard.
func (s *Sessions) open(ctx context.Context) (*session, error) {
	id := uuid.NewString()
	sess := &session{id: id, layout: &sessionLayout{}, done: make(chan struct{})}
	sess.touch(time.Now())

	opts := append([]wizard.Option{}, s.opts...)
	opts = append(opts,
		wizard.WithLogger(s.logger.With("session", id)),
		wizard.WithLayout(sess.layout),
		wizard.WithObserver(func(st wizard.State) {
			s.broker.Publish(id, newSessionView(id, s.questions, st, sess.layout))
		}),
	)
	sess.ctrl = wizard.New(s.questions, s.challenge, s.submitter, opts...)

	runCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	go func() {
		defer close(sess.done)
		sess.ctrl.Run(runCtx)
	}()

	if _, err := sess.ctrl.Open(ctx); err != nil {
		cancel()
		<-sess.done
		return nil, err
	}

	s.mu.Lock()
	s.byID[id] = sess
	s.mu.Unlock()
	s.logger.Info("quiz session started", "session", id)
	return sess, nil
}

// get returns the session and marks it as used.
func (s *Sessions) get(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(time.Now())
	return sess, nil
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// remove stops the session's controller and ends its event streams.
func (s *Sessions) remove(id string) bool {
	s.mu.Lock()
	sess, ok := s.byID[id]
	delete(s.byID, id)
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.stop(sess)
	return true
}

// Sweep removes sessions that are closed or idle for longer than the idle
// TTL. Sessions with a submission in flight are kept.
func (s *Sessions) Sweep(now time.Time) int {
	var stale []*session
	s.mu.Lock()
	for id, sess := range s.byID {
		st := sess.ctrl.State()
		if st.Submitting() {
			continue
		}
		idle := now.Sub(time.Unix(0, sess.touched.Load()))
		if !st.IsOpen() || idle > s.idleTTL {
			stale = append(stale, sess)
			delete(s.byID, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		s.stop(sess)
	}
	if len(stale) > 0 {
		s.logger.Debug("swept quiz sessions", "removed", len(stale))
	}
	return len(stale)
}

// Shutdown stops every session.
func (s *Sessions) Shutdown() {
	s.mu.Lock()
	all := s.byID
	s.byID = make(map[string]*session)
	s.mu.Unlock()
	for _, sess := range all {
		s.stop(sess)
	}
}

func (s *Sessions) stop(sess *session) {
	sess.cancel()
	<-sess.done
	s.broker.Close(sess.id)
}
