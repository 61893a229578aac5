package app

import "errors"

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrStaffNotFound       = errors.New("staff not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrPullRequestNotFound = errors.New("pull request not found")

	// ErrNoCopiesAvailable means the issue preconditions failed because every
	// copy of the book is already out.
	ErrNoCopiesAvailable = errors.New("cannot issue book: no copies available")

	// ErrLoanAlreadyReturned means a return was attempted on a closed loan;
	// returned is a terminal state.
	ErrLoanAlreadyReturned = errors.New("loan already returned")

	// ErrInvalidInput wraps field-level validation failures.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStaffInactive      = errors.New("staff account is inactive")
)
