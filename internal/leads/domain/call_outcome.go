package domain

import "fmt"

// CallOutcome is a terminal call result reported by the call-handling
// subsystem. The engine maps it to a call-dimension status pair and the
// contact counters; it never originates calls itself.
type CallOutcome string

const (
	OutcomeAnsweredHasDemand CallOutcome = "answered_has_demand"
	OutcomeAnsweredNoDemand  CallOutcome = "answered_no_demand"
	OutcomeAnsweredUndecided CallOutcome = "answered_undecided"
	OutcomeBusy              CallOutcome = "busy"
	OutcomePoweredOff        CallOutcome = "powered_off"
	OutcomeRejected          CallOutcome = "rejected"
	OutcomeNoAnswer          CallOutcome = "no_answer"
	OutcomeInvalidNumber     CallOutcome = "invalid_number"
)

// Call status codes seeded in the call dimension.
const (
	CallStatusUncontacted   = "UNCONTACTED"
	CallStatusAnswered      = "ANSWERED"
	CallStatusUnanswered    = "UNANSWERED"
	CallStatusInvalidNumber = "INVALID_NUMBER"

	CallSubAnsweredHasDemand = "ANSWERED_HAS_DEMAND"
	CallSubAnsweredNoDemand  = "ANSWERED_NO_DEMAND"
	CallSubAnsweredUndecided = "ANSWERED_UNDECIDED"
	CallSubUnansweredBusy    = "UNANSWERED_BUSY"
	CallSubUnansweredOff     = "UNANSWERED_POWERED_OFF"
	CallSubUnansweredReject  = "UNANSWERED_REJECTED"
	CallSubUnansweredNone    = "UNANSWERED_NO_ANSWER"
)

// OutcomeClassification is the status pair and reachability class an
// outcome maps to. Reached outcomes reset the failed-contact counter and
// move the last-contact pointers; unreached ones increment the counter and
// move the last-failure pointers.
type OutcomeClassification struct {
	MainCode string
	SubCode  string
	Reached  bool
}

var outcomes = map[CallOutcome]OutcomeClassification{
	OutcomeAnsweredHasDemand: {MainCode: CallStatusAnswered, SubCode: CallSubAnsweredHasDemand, Reached: true},
	OutcomeAnsweredNoDemand:  {MainCode: CallStatusAnswered, SubCode: CallSubAnsweredNoDemand, Reached: true},
	OutcomeAnsweredUndecided: {MainCode: CallStatusAnswered, SubCode: CallSubAnsweredUndecided, Reached: true},
	OutcomeBusy:              {MainCode: CallStatusUnanswered, SubCode: CallSubUnansweredBusy, Reached: false},
	OutcomePoweredOff:        {MainCode: CallStatusUnanswered, SubCode: CallSubUnansweredOff, Reached: false},
	OutcomeRejected:          {MainCode: CallStatusUnanswered, SubCode: CallSubUnansweredReject, Reached: false},
	OutcomeNoAnswer:          {MainCode: CallStatusUnanswered, SubCode: CallSubUnansweredNone, Reached: false},
	OutcomeInvalidNumber:     {MainCode: CallStatusInvalidNumber, Reached: false},
}

// ClassifyCallOutcome maps a terminal call outcome to its call-dimension
// status codes. Unknown outcomes are an input error, not a transition
// rejection.
func ClassifyCallOutcome(outcome CallOutcome) (OutcomeClassification, error) {
	c, ok := outcomes[outcome]
	if !ok {
		return OutcomeClassification{}, fmt.Errorf("unknown call outcome %q", outcome)
	}
	return c, nil
}
