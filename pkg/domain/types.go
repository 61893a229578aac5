package domain

import "time"

type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberInactive  MemberStatus = "inactive"
	MemberSuspended MemberStatus = "suspended"
)

type StaffRole string

const (
	RoleAdmin     StaffRole = "admin"
	RoleLibrarian StaffRole = "librarian"
	RoleStaff     StaffRole = "staff"
)

type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffInactive StaffStatus = "inactive"
)

type LoanStatus string

const (
	// LoanIssued and LoanReturned are the only persisted loan states.
	// LoanOverdue is derived from an issued loan with a past due date and
	// is never written back to a store.
	LoanIssued   LoanStatus = "issued"
	LoanReturned LoanStatus = "returned"
	LoanOverdue  LoanStatus = "overdue"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Book is a catalog title with physical copy counts. AvailableCopies moves
// only through the lending engine, never through direct catalog updates.
type Book struct {
	ID              string  `json:"id"`
	ISBN            string  `json:"isbn"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Publisher       string  `json:"publisher"`
	PublishYear     int     `json:"publishYear"`
	Category        string  `json:"category"`
	TotalCopies     int     `json:"totalCopies"`
	AvailableCopies int     `json:"availableCopies"`
	ShelfLocation   string  `json:"shelfLocation"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
}

// Member is a library patron. BorrowedBooks holds the book IDs with an open
// loan for this member; TotalBooksBorrowed is a lifetime counter and never
// decreases.
type Member struct {
	ID                 string       `json:"id"`
	Username           string       `json:"username"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone"`
	Address            string       `json:"address"`
	MembershipDate     time.Time    `json:"membershipDate"`
	Status             MemberStatus `json:"status"`
	BorrowedBooks      []string     `json:"borrowedBooks"`
	TotalBooksBorrowed int          `json:"totalBooksBorrowed"`
}

type Staff struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	EmployeeID   string      `json:"employeeId"`
	Role         StaffRole   `json:"role"`
	Department   string      `json:"department"`
	JoinDate     time.Time   `json:"joinDate"`
	Salary       float64     `json:"salary"`
	Status       StaffStatus `json:"status"`
	PasswordHash string      `json:"-"`
}

// Loan records one issue/return cycle of a single book copy. Created by the
// issue operation, closed by the return operation, never deleted.
type Loan struct {
	ID         string     `json:"id"`
	BookID     string     `json:"bookId"`
	MemberID   string     `json:"memberId"`
	IssueDate  time.Time  `json:"issueDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     LoanStatus `json:"status"`
	IssuedBy   string     `json:"issuedBy"`
	FineAmount float64    `json:"fineAmount"`
}

// PullRequest is a review-queue entry. ReviewComments is an append-only log;
// every status transition adds exactly one comment.
type PullRequest struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Branch         string       `json:"branch"`
	Author         string       `json:"author"`
	Status         ReviewStatus `json:"status"`
	LintScore      int          `json:"lintScore"`
	TestsPassed    bool         `json:"testsPassed"`
	ReviewComments []string     `json:"reviewComments"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Dashboard is a point-in-time aggregation over all collections. It is
// recomputed on demand and never cached.
type Dashboard struct {
	TotalBooks   int     `json:"totalBooks"`
	TotalMembers int     `json:"totalMembers"`
	TotalStaff   int     `json:"totalStaff"`
	BooksIssued  int     `json:"booksIssued"`
	BooksOverdue int     `json:"booksOverdue"`
	Revenue      float64 `json:"revenue"`
	ActiveLoans  int     `json:"activeLoans"`
}
