package store

import "librarydesk/pkg/domain"

// Store defines persistence operations for the catalog, membership, staff,
// loan, and pull-request collections. Loans and pull requests have no delete
// operation: both are append/update-only records.
type Store interface {
	// books
	SaveBook(domain.Book) error
	GetBook(id string) (domain.Book, bool, error)
	ListBooks() ([]domain.Book, error)
	DeleteBook(id string) error

	// members
	SaveMember(domain.Member) error
	GetMember(id string) (domain.Member, bool, error)
	ListMembers() ([]domain.Member, error)
	DeleteMember(id string) error

	// staff
	SaveStaff(domain.Staff) error
	GetStaff(id string) (domain.Staff, bool, error)
	GetStaffByEmail(email string) (domain.Staff, bool, error)
	ListStaff() ([]domain.Staff, error)
	DeleteStaff(id string) error

	// loans
	SaveLoan(domain.Loan) error
	GetLoan(id string) (domain.Loan, bool, error)
	ListLoans() ([]domain.Loan, error)

	// pull requests
	SavePullRequest(domain.PullRequest) error
	GetPullRequest(id string) (domain.PullRequest, bool, error)
	ListPullRequests() ([]domain.PullRequest, error)
}

// Change describes a single successful store mutation.
type Change struct {
	Collection string
	ID         string
	Deleted    bool
}

// Watcher is an optional capability for stores that notify listeners after
// each successful mutation. Listeners run synchronously in registration
// order on the mutating goroutine, so notification order follows mutation
// order.
type Watcher interface {
	Watch(fn func(Change))
}

// Collection names reported in Change events.
const (
	CollectionBooks        = "books"
	CollectionMembers      = "members"
	CollectionStaff        = "staff"
	CollectionLoans        = "loans"
	CollectionPullRequests = "pull_requests"
)

// SessionStore holds the authenticated staff record, credential stripped,
// for the lifetime of a session token.
type SessionStore interface {
	NewSession(staff domain.Staff) (string, error)
	GetStaffByToken(token string) (domain.Staff, bool, error)
	DeleteSession(token string) error
}
