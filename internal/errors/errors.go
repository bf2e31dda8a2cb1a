// Package errors defines the domain error values the wallet ledger surfaces
// to its callers. Every precondition violation maps to a DomainError with a
// stable code; callers translate these into HTTP statuses or bot messages.
package errors

// DomainError is a caller-visible business rule violation. It is raised
// before any write happens, so observing one implies no partial mutation.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomain reports whether err is a DomainError.
func IsDomain(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}
