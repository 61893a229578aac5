package app

import (
	"errors"
	"testing"
	"time"

	"librarydesk/pkg/domain"
	"librarydesk/pkg/store"
)

func newTestApp(t *testing.T, now *time.Time) *App {
	t.Helper()
	a, err := New(Config{
		Store:    store.NewMemoryStore(),
		Sessions: store.NewMemorySessionStore(time.Hour),
		Now:      func() time.Time { return *now },
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func seedBookAndMember(t *testing.T, a *App, copies int) (domain.Book, domain.Member) {
	t.Helper()
	book := domain.Book{
		ID: "book-1", ISBN: "1234567890", Title: "Test Driven Development",
		TotalCopies: copies, AvailableCopies: copies,
	}
	if err := a.store.SaveBook(book); err != nil {
		t.Fatalf("save book: %v", err)
	}
	member := domain.Member{
		ID: "member-1", Username: "john_doe", Email: "john@example.com",
		Status: domain.MemberActive, BorrowedBooks: []string{},
	}
	if err := a.store.SaveMember(member); err != nil {
		t.Fatalf("save member: %v", err)
	}
	return book, member
}

func TestIssueBookCreatesLoanAndUpdatesCounts(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	seedBookAndMember(t, a, 2)

	loan, err := a.IssueBook("book-1", "member-1", "staff-1")
	if err != nil {
		t.Fatalf("issue book: %v", err)
	}
	if loan.Status != domain.LoanIssued {
		t.Fatalf("unexpected status %q", loan.Status)
	}
	if want := now.AddDate(0, 0, 14); !loan.DueDate.Equal(want) {
		t.Fatalf("expected due date %v, got %v", want, loan.DueDate)
	}

	book, _, _ := a.store.GetBook("book-1")
	if book.AvailableCopies != 1 {
		t.Fatalf("expected 1 available copy, got %d", book.AvailableCopies)
	}
	member, _, _ := a.store.GetMember("member-1")
	if len(member.BorrowedBooks) != 1 || member.BorrowedBooks[0] != "book-1" {
		t.Fatalf("expected borrowed books [book-1], got %v", member.BorrowedBooks)
	}
	if member.TotalBooksBorrowed != 1 {
		t.Fatalf("expected lifetime counter 1, got %d", member.TotalBooksBorrowed)
	}
}

func TestIssueBookNoCopiesLeavesStateUntouched(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	seedBookAndMember(t, a, 0)

	_, err := a.IssueBook("book-1", "member-1", "staff-1")
	if !errors.Is(err, ErrNoCopiesAvailable) {
		t.Fatalf("expected ErrNoCopiesAvailable, got %v", err)
	}

	book, _, _ := a.store.GetBook("book-1")
	if book.AvailableCopies != 0 {
		t.Fatalf("available copies mutated on failed issue")
	}
	member, _, _ := a.store.GetMember("member-1")
	if len(member.BorrowedBooks) != 0 || member.TotalBooksBorrowed != 0 {
		t.Fatalf("member mutated on failed issue: %+v", member)
	}
	loans, _ := a.store.ListLoans()
	if len(loans) != 0 {
		t.Fatalf("loan created on failed issue")
	}
}

func TestIssueBookMissingEntities(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	seedBookAndMember(t, a, 1)

	if _, err := a.IssueBook("missing", "member-1", "staff-1"); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
	if _, err := a.IssueBook("book-1", "missing", "staff-1"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
	if loans, _ := a.store.ListLoans(); len(loans) != 0 {
		t.Fatalf("loan created despite failed preconditions")
	}
}

func TestSameDayReturnHasNoFineAndRestoresCopies(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	seedBookAndMember(t, a, 2)

	loan, err := a.IssueBook("book-1", "member-1", "staff-1")
	if err != nil {
		t.Fatalf("issue book: %v", err)
	}
	returned, err := a.ReturnBook(loan.ID, "staff-1")
	if err != nil {
		t.Fatalf("return book: %v", err)
	}
	if returned.FineAmount != 0 {
		t.Fatalf("expected zero fine for same-day return, got %v", returned.FineAmount)
	}
	if returned.Status != domain.LoanReturned || returned.ReturnDate == nil {
		t.Fatalf("expected closed loan, got %+v", returned)
	}

	book, _, _ := a.store.GetBook("book-1")
	if book.AvailableCopies != 2 {
		t.Fatalf("expected available copies restored to 2, got %d", book.AvailableCopies)
	}
	member, _, _ := a.store.GetMember("member-1")
	if len(member.BorrowedBooks) != 0 {
		t.Fatalf("expected borrowed books cleared, got %v", member.BorrowedBooks)
	}
	if member.TotalBooksBorrowed != 1 {
		t.Fatalf("lifetime counter must not decrease, got %d", member.TotalBooksBorrowed)
	}
}

func TestLateReturnChargesDailyFine(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	seedBookAndMember(t, a, 1)

	loan, err := a.IssueBook("book-1", "member-1", "staff-1")
	if err != nil {
		t.Fatalf("issue book: %v", err)
	}

	// 5 days past the 14-day due date.
	now = now.AddDate(0, 0, 19)
	returned, err := a.ReturnBook(loan.ID, "staff-1")
	if err != nil {
		t.Fatalf("return book: %v", err)
	}
	if returned.FineAmount != 50 {
		t.Fatalf("expected fine 50 for 5 days overdue, got %v", returned.FineAmount)
	}
}

func TestReturnBookUnknownLoan(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	if _, err := a.ReturnBook("missing", "staff-1"); !errors.Is(err, ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestReturnBookTwiceFails(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	seedBookAndMember(t, a, 1)

	loan, err := a.IssueBook("book-1", "member-1", "staff-1")
	if err != nil {
		t.Fatalf("issue book: %v", err)
	}
	if _, err := a.ReturnBook(loan.ID, "staff-1"); err != nil {
		t.Fatalf("first return: %v", err)
	}
	if _, err := a.ReturnBook(loan.ID, "staff-1"); !errors.Is(err, ErrLoanAlreadyReturned) {
		t.Fatalf("expected ErrLoanAlreadyReturned, got %v", err)
	}
	book, _, _ := a.store.GetBook("book-1")
	if book.AvailableCopies != 1 {
		t.Fatalf("available copies exceeded total after repeated return attempts: %d", book.AvailableCopies)
	}
}

func TestZeroFinePolicyIsHonored(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	zeroFine := 0.0
	a, err := New(Config{
		Store:      store.NewMemoryStore(),
		Sessions:   store.NewMemorySessionStore(time.Hour),
		FinePerDay: &zeroFine,
		Now:        func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	seedBookAndMember(t, a, 1)

	loan, err := a.IssueBook("book-1", "member-1", "staff-1")
	if err != nil {
		t.Fatalf("issue book: %v", err)
	}

	// A configured zero rate must not fall back to the default.
	now = now.AddDate(0, 0, 20)
	returned, err := a.ReturnBook(loan.ID, "staff-1")
	if err != nil {
		t.Fatalf("return book: %v", err)
	}
	if returned.FineAmount != 0 {
		t.Fatalf("fine = %v, want 0 under a zero-fine policy", returned.FineAmount)
	}
}

func TestReturnBookLeavesEarlierSnapshotsIntact(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	seedBookAndMember(t, a, 2)
	other := domain.Book{
		ID: "book-2", ISBN: "1234567890123", Title: "Refactoring",
		TotalCopies: 1, AvailableCopies: 1,
	}
	if err := a.store.SaveBook(other); err != nil {
		t.Fatalf("save book: %v", err)
	}

	loan, err := a.IssueBook("book-1", "member-1", "staff-1")
	if err != nil {
		t.Fatalf("issue book: %v", err)
	}
	if _, err := a.IssueBook("book-2", "member-1", "staff-1"); err != nil {
		t.Fatalf("issue book: %v", err)
	}

	snapshot, _, err := a.store.GetMember("member-1")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if len(snapshot.BorrowedBooks) != 2 {
		t.Fatalf("snapshot borrowed = %v, want two entries", snapshot.BorrowedBooks)
	}

	if _, err := a.ReturnBook(loan.ID, "staff-1"); err != nil {
		t.Fatalf("return book: %v", err)
	}

	// The pre-return snapshot must not be rewritten in place.
	if len(snapshot.BorrowedBooks) != 2 ||
		snapshot.BorrowedBooks[0] != "book-1" || snapshot.BorrowedBooks[1] != "book-2" {
		t.Fatalf("earlier snapshot mutated by return: %v", snapshot.BorrowedBooks)
	}

	current, _, err := a.store.GetMember("member-1")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if len(current.BorrowedBooks) != 1 || current.BorrowedBooks[0] != "book-2" {
		t.Fatalf("stored borrowed = %v, want [book-2]", current.BorrowedBooks)
	}
}

func TestOverdueLoansIsDerivedView(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	seedBookAndMember(t, a, 2)

	loan, err := a.IssueBook("book-1", "member-1", "staff-1")
	if err != nil {
		t.Fatalf("issue book: %v", err)
	}

	overdue, err := a.OverdueLoans()
	if err != nil {
		t.Fatalf("overdue loans: %v", err)
	}
	if len(overdue) != 0 {
		t.Fatalf("expected no overdue loans before the due date")
	}

	now = now.AddDate(0, 0, 15)
	overdue, err = a.OverdueLoans()
	if err != nil {
		t.Fatalf("overdue loans: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != loan.ID {
		t.Fatalf("expected one overdue loan, got %+v", overdue)
	}
	if overdue[0].Status != domain.LoanOverdue {
		t.Fatalf("view status = %q, want overdue", overdue[0].Status)
	}

	// The stored record keeps its issued status; overdue is never persisted.
	stored, _, _ := a.store.GetLoan(loan.ID)
	if stored.Status != domain.LoanIssued {
		t.Fatalf("overdue must not be written back, got %q", stored.Status)
	}
}
