package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/storefront/quizwidget/internal/answer"
	"github.com/storefront/quizwidget/internal/quiz"
)

// Challenge hands out single-use bot verification tokens.
type Challenge interface {
	RequestToken(ctx context.Context) (string, error)
	ResetChallenge()
}

// Submitter delivers a payload to the submission gateway.
type Submitter interface {
	Submit(ctx context.Context, token string, payload quiz.Payload) error
}

// Layout receives the presentational side effects of a session: reserving
// room for a fixed page header and locking page scroll while open.
type Layout interface {
	ReportHeaderHeight(px int)
	SetScrollLocked(locked bool)
}

var ErrStopped = errors.New("wizard: controller stopped")

const (
	DefaultTransitionDelay = 400 * time.Millisecond
	DefaultSubmitTimeout   = 30 * time.Second
)

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

func WithTransitionDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Controller) { c.submitTimeout = d }
}

func WithLayout(l Layout) Option { return func(c *Controller) { c.layout = l } }

// WithObserver registers fn to be called from the controller goroutine
// after every event that changed the state. fn must not block.
func WithObserver(fn func(State)) Option {
	return func(c *Controller) { c.observers = append(c.observers, fn) }
}

// request is either an event for Reduce or, when resize is set, a new
// header height.
type request struct {
	event  Event
	resize bool
	header int
	reply  chan State
}

// Controller runs Reduce for one session. All state lives in the Run
// goroutine; everything else talks to it through the event queue.
type Controller struct {
	questions     []quiz.Question
	challenge     Challenge
	submitter     Submitter
	layout        Layout
	logger        *slog.Logger
	delay         time.Duration
	submitTimeout time.Duration
	observers     []func(State)

	queue chan request
	done  chan struct{}

	// header is only touched by the Run goroutine.
	header int

	mu       sync.RWMutex
	snapshot State
}

func New(questions []quiz.Question, challenge Challenge, submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		questions:     questions,
		challenge:     challenge,
		submitter:     submitter,
		logger:        slog.Default(),
		delay:         DefaultTransitionDelay,
		submitTimeout: DefaultSubmitTimeout,
		queue:         make(chan request, 16),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Questions() []quiz.Question { return c.questions }

// Run processes events until ctx is cancelled. It must be called exactly
// once.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)

	state := c.State()
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-c.queue:
			if req.resize {
				c.resize(state, req.header)
				if req.reply != nil {
					req.reply <- state
				}
				continue
			}
			next, effect := Reduce(c.questions, state, req.event)
			changed := effect != NoEffect || !sameState(state, next)
			state = next

			c.mu.Lock()
			c.snapshot = state
			c.mu.Unlock()

			c.perform(ctx, state, effect)
			if changed {
				for _, fn := range c.observers {
					fn(state)
				}
			}
			if req.reply != nil {
				req.reply <- state
			}
		}
	}
}

// Dispatch queues e and waits until it has been applied.
func (c *Controller) Dispatch(ctx context.Context, e Event) (State, error) {
	return c.call(ctx, request{event: e})
}

func (c *Controller) call(ctx context.Context, req request) (State, error) {
	reply := make(chan State, 1)
	req.reply = reply
	select {
	case c.queue <- req:
	case <-c.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-c.done:
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// post queues an internal event without waiting. Events posted after the
// loop stopped are dropped.
func (c *Controller) post(e Event) {
	select {
	case c.queue <- request{event: e}:
	case <-c.done:
	}
}

func (c *Controller) Open(ctx context.Context) (State, error)     { return c.Dispatch(ctx, Open()) }
func (c *Controller) Close(ctx context.Context) (State, error)    { return c.Dispatch(ctx, Close()) }
func (c *Controller) Continue(ctx context.Context) (State, error) { return c.Dispatch(ctx, Continue()) }
func (c *Controller) Back(ctx context.Context) (State, error)     { return c.Dispatch(ctx, Back()) }

func (c *Controller) Input(ctx context.Context, in answer.Input) (State, error) {
	return c.Dispatch(ctx, Edit(in))
}

// Resize records the current height of the host page's fixed header and
// waits until the Run goroutine has forwarded it to the layout. The height
// is only reported while the session is open.
func (c *Controller) Resize(ctx context.Context, px int) (State, error) {
	return c.call(ctx, request{resize: true, header: px})
}

func (c *Controller) resize(s State, px int) {
	c.header = px
	if s.IsOpen() && c.layout != nil {
		c.layout.ReportHeaderHeight(px)
	}
}

// State returns the latest applied state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Controller) IsOpen() bool { return c.State().IsOpen() }

func (c *Controller) CanContinue() bool { return CanContinue(c.questions, c.State()) }

func (c *Controller) Progress() float64 { return Progress(c.questions, c.State()) }

func (c *Controller) perform(ctx context.Context, s State, effect Effect) {
	switch effect {
	case ScheduleSettle:
		time.AfterFunc(c.delay, func() { c.post(Settle()) })
	case StartSubmission:
		go c.submit(ctx, s)
	case SessionOpened:
		if c.layout != nil {
			c.layout.SetScrollLocked(true)
			c.layout.ReportHeaderHeight(c.header)
		}
		c.logger.Debug("quiz session opened", "questions", len(c.questions))
	case SessionClosed:
		if c.layout != nil {
			c.layout.SetScrollLocked(false)
		}
		c.logger.Debug("quiz session closed")
	case SubmissionFailed:
		c.logger.Debug("quiz submission returned to last step", "step", s.Step)
	}
}

// submit runs the token and gateway round trip. It only reads s, which is
// a copy, and reports back through the queue. An in-flight submission is
// not cancelled when the session stops; only the timeout bounds it.
func (c *Controller) submit(ctx context.Context, s State) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.submitTimeout)
	defer cancel()

	if err := c.roundTrip(ctx, s); err != nil {
		c.logger.Error("quiz submission failed", "error", err)
		c.post(SubmitFailed(err))
		return
	}
	c.logger.Info("quiz submitted", "questions", len(c.questions))
	c.post(SubmitSucceeded())
}

func (c *Controller) roundTrip(ctx context.Context, s State) error {
	token, err := c.challenge.RequestToken(ctx)
	c.challenge.ResetChallenge()
	if err != nil {
		return fmt.Errorf("requesting verification token: %w", err)
	}
	payload := BuildPayload(c.questions, s.Answers, s.Active)
	if err := c.submitter.Submit(ctx, token, payload); err != nil {
		return fmt.Errorf("submitting quiz: %w", err)
	}
	return nil
}

func sameState(a, b State) bool {
	if a.Phase != b.Phase || a.Step != b.Step || a.Direction != b.Direction || a.Notice != b.Notice {
		return false
	}
	if !a.Active.Equal(b.Active) || len(a.Answers) != len(b.Answers) {
		return false
	}
	for i := range a.Answers {
		if !a.Answers[i].Equal(b.Answers[i]) {
			return false
		}
	}
	return true
}
