package checkout

import (
	"fmt"

	"github.com/rohanmalik/boutique-backend/pkg/enums"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
)

// Session is the state machine for one checkout attempt:
// Idle -> FormOpen -> Submitting -> {Success, Failed}. Failed loops back into
// a new submit with the form and cart intact; Success is terminal.
type Session struct {
	State enums.CheckoutState
	Form  Form
}

// NewSession starts a checkout session in Idle.
func NewSession() *Session {
	return &Session{State: enums.CheckoutStateIdle}
}

// Open moves Idle to FormOpen and pre-fills the email from the identity.
func (s *Session) Open(email string) error {
	if s.State != enums.CheckoutStateIdle {
		return s.transitionError(enums.CheckoutStateFormOpen)
	}
	s.State = enums.CheckoutStateFormOpen
	s.Form.Email = email
	return nil
}

// beginSubmit moves FormOpen (or Failed, for a retry) to Submitting.
func (s *Session) beginSubmit(form Form) error {
	if !s.State.CanSubmit() {
		return s.transitionError(enums.CheckoutStateSubmitting)
	}
	s.State = enums.CheckoutStateSubmitting
	s.Form = form
	return nil
}

// succeed marks the submit complete. Only reachable from Submitting.
func (s *Session) succeed() {
	if s.State == enums.CheckoutStateSubmitting {
		s.State = enums.CheckoutStateSuccess
	}
}

// fail returns the session to a retryable state, keeping the form.
func (s *Session) fail() {
	if s.State == enums.CheckoutStateSubmitting {
		s.State = enums.CheckoutStateFailed
	}
}

// reopen undoes a submit whose guard rejected it, keeping the form for edits.
func (s *Session) reopen() {
	if s.State == enums.CheckoutStateSubmitting {
		s.State = enums.CheckoutStateFormOpen
	}
}

func (s *Session) transitionError(to enums.CheckoutState) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot move checkout from %s to %s", s.State, to))
}
