package domain

// OutcomeKind is the tri-state result of a load or write call.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeWarning
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeWarning:
		return "warning"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome reports how a load or write ended.
// Exactly one of success, success-with-warning or failure holds.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	Err     error
}

// Succeeded returns a silent success.
func Succeeded() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

// Warned returns a success carrying an advisory message.
func Warned(msg string) Outcome {
	return Outcome{Kind: OutcomeWarning, Message: msg}
}

// Failed returns a failure wrapping err.
func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeError, Message: err.Error(), Err: err}
}

// OK reports whether the call succeeded, with or without a warning.
func (o Outcome) OK() bool {
	return o.Kind != OutcomeError
}
