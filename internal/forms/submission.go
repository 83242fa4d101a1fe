package forms

import (
	"context"
	"errors"
	"sync"
)

// State of a form submission.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateRejected
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var ErrBusy = errors.New("a submission is already in progress")

// Form is anything a Submission can validate and clear.
type Form interface {
	Validate() error
	Reset()
}

// Submission runs editing -> validating -> rejected | submitting ->
// succeeded | failed. Every attempt comes back to editing: a rejected or
// failed attempt keeps the input and exposes the error, a successful one
// resets the form and fires OnSuccess.
type Submission struct {
	form Form
	send func(ctx context.Context) error

	// OnSuccess runs after the form has been reset.
	OnSuccess func()
	// OnTransition observes every state change.
	OnTransition func(from, to State)

	mu    sync.Mutex
	state State
	last  State
	err   error
}

func NewSubmission(form Form, send func(ctx context.Context) error) *Submission {
	return &Submission{form: form, send: send}
}

func (s *Submission) move(to State) {
	s.mu.Lock()
	from := s.state
	s.state = to
	hook := s.OnTransition
	s.mu.Unlock()
	if hook != nil {
		hook(from, to)
	}
}

func (s *Submission) finish(outcome State, err error) {
	s.move(outcome)
	s.mu.Lock()
	s.last, s.err = outcome, err
	s.mu.Unlock()
	s.move(StateEditing)
}

// Submit validates and, only when validation passes, sends. It returns the
// FieldErrors of a rejected attempt or the sender's error.
func (s *Submission) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateEditing {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state, s.err = StateValidating, nil
	hook := s.OnTransition
	s.mu.Unlock()
	if hook != nil {
		hook(StateEditing, StateValidating)
	}

	if err := s.form.Validate(); err != nil {
		s.finish(StateRejected, err)
		return err
	}

	s.move(StateSubmitting)
	if err := s.send(ctx); err != nil {
		s.finish(StateFailed, err)
		return err
	}
	s.form.Reset()
	s.finish(StateSucceeded, nil)
	if s.OnSuccess != nil {
		s.OnSuccess()
	}
	return nil
}

func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome is the terminal state of the last attempt, or StateEditing if
// nothing was submitted yet.
func (s *Submission) Outcome() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Err is the error indicator of the last attempt.
func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
