package validation

import "github.com/tbxark/checkoutbuilder/types"

// Transition is the outcome of trying to leave a step.
type Transition int

const (
	Stay Transition = iota
	Next
	Submit
)

func (t Transition) String() string {
	switch t {
	case Next:
		return "next"
	case Submit:
		return "submit"
	}
	return "stay"
}

// HasErrors reports whether any entry carries a message.
func HasErrors(errs types.FieldErrors) bool {
	return errs.Any()
}

// Advance decides what happens when the user continues from step current
// of total steps.
func Advance(current, total int, errs types.FieldErrors) Transition {
	if HasErrors(errs) {
		return Stay
	}
	if current >= total-1 {
		return Submit
	}
	return Next
}
