package enums

// CheckoutState names the stages of a checkout session. Success and Failed are
// reachable only from Submitting; nothing leaves Success short of a new session.
type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "idle"
	CheckoutStateFormOpen   CheckoutState = "form_open"
	CheckoutStateSubmitting CheckoutState = "submitting"
	CheckoutStateSuccess    CheckoutState = "success"
	CheckoutStateFailed     CheckoutState = "failed"
)

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// CanSubmit reports whether a submit may start from this state.
func (s CheckoutState) CanSubmit() bool {
	return s == CheckoutStateFormOpen || s == CheckoutStateFailed
}
