package model

// Advisory is the outcome of a best-effort step. It is not an error and
// cannot be returned where a fatal failure is expected.
type Advisory struct {
	Step string
	Err  error
}

// Ok reports whether the step completed without a warning.
func (a Advisory) Ok() bool {
	return a.Err == nil
}

// Warning returns the absorbed failure message, or an empty string.
func (a Advisory) Warning() string {
	if a.Err == nil {
		return ""
	}
	return a.Err.Error()
}

// Outcome labels of a finished account deletion, as reported in metrics.
const (
	OutcomeSuccess         = "success"
	OutcomeUnauthenticated = string(KindUnauthenticated)
	OutcomeInternal        = string(KindInternal)
)

// DeleteAccountResult is the confirmation payload of a successful deletion.
type DeleteAccountResult struct {
	Success bool
	Message string
}
