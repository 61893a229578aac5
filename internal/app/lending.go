package app

import (
	"fmt"

	"librarydesk/pkg/domain"
	"librarydesk/pkg/validate"
)

// IssueBook lends a book copy to a member. All preconditions are checked
// against a snapshot before any write happens: the book and member must
// exist and a copy must be available. On success one loan is created, the
// book's available count drops by one, and the member's borrow records are
// updated, all as a single critical section under the lending lock.
func (a *App) IssueBook(bookID, memberID, issuedBy string) (domain.Loan, error) {
	a.lendMu.Lock()
	defer a.lendMu.Unlock()

	book, ok, err := a.store.GetBook(bookID)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("get book: %w", err)
	}
	if !ok {
		return domain.Loan{}, ErrBookNotFound
	}
	member, ok, err := a.store.GetMember(memberID)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("get member: %w", err)
	}
	if !ok {
		return domain.Loan{}, ErrMemberNotFound
	}
	if book.AvailableCopies <= 0 {
		return domain.Loan{}, ErrNoCopiesAvailable
	}

	now := a.now()
	loan := domain.Loan{
		ID:        validate.NewID(),
		BookID:    bookID,
		MemberID:  memberID,
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, a.loanPeriodDays),
		Status:    domain.LoanIssued,
		IssuedBy:  issuedBy,
	}
	if err := a.store.SaveLoan(loan); err != nil {
		return domain.Loan{}, fmt.Errorf("save loan: %w", err)
	}

	book.AvailableCopies--
	if err := a.store.SaveBook(book); err != nil {
		return domain.Loan{}, fmt.Errorf("save book: %w", err)
	}

	member.BorrowedBooks = append(member.BorrowedBooks, bookID)
	member.TotalBooksBorrowed++
	if err := a.store.SaveMember(member); err != nil {
		return domain.Loan{}, fmt.Errorf("save member: %w", err)
	}

	return loan, nil
}

// ReturnBook closes a loan. The fine is the daily rate times the number of
// whole days strictly past the due date, zero when returned on time. The
// book's available count is restored, capped at the total, and the book
// leaves the member's borrowed set. Returned is terminal.
func (a *App) ReturnBook(loanID, staffID string) (domain.Loan, error) {
	a.lendMu.Lock()
	defer a.lendMu.Unlock()

	loan, ok, err := a.store.GetLoan(loanID)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("get loan: %w", err)
	}
	if !ok {
		return domain.Loan{}, ErrLoanNotFound
	}
	if loan.Status == domain.LoanReturned {
		return domain.Loan{}, ErrLoanAlreadyReturned
	}

	now := a.now()
	daysOverdue := validate.DaysBetween(loan.DueDate, now)
	loan.FineAmount = validate.CalculateFine(daysOverdue, a.finePerDay)
	loan.ReturnDate = &now
	loan.Status = domain.LoanReturned
	if err := a.store.SaveLoan(loan); err != nil {
		return domain.Loan{}, fmt.Errorf("save loan: %w", err)
	}

	if member, ok, err := a.store.GetMember(loan.MemberID); err != nil {
		return domain.Loan{}, fmt.Errorf("get member: %w", err)
	} else if ok {
		// Filter into a fresh slice; reusing the snapshot's backing array
		// would mutate every copy the store has handed out.
		borrowed := make([]string, 0, len(member.BorrowedBooks))
		for _, id := range member.BorrowedBooks {
			if id != loan.BookID {
				borrowed = append(borrowed, id)
			}
		}
		member.BorrowedBooks = borrowed
		if err := a.store.SaveMember(member); err != nil {
			return domain.Loan{}, fmt.Errorf("save member: %w", err)
		}
	}

	if book, ok, err := a.store.GetBook(loan.BookID); err != nil {
		return domain.Loan{}, fmt.Errorf("get book: %w", err)
	} else if ok && book.AvailableCopies < book.TotalCopies {
		book.AvailableCopies++
		if err := a.store.SaveBook(book); err != nil {
			return domain.Loan{}, fmt.Errorf("save book: %w", err)
		}
	}

	return loan, nil
}

// OverdueLoans returns loans still issued whose due date has passed. Overdue
// is a derived, read-only view: the returned copies carry the overdue status
// but the stored records are never rewritten.
func (a *App) OverdueLoans() ([]domain.Loan, error) {
	loans, err := a.store.ListLoans()
	if err != nil {
		return nil, err
	}
	now := a.now()
	overdue := make([]domain.Loan, 0)
	for _, l := range loans {
		if l.Status == domain.LoanIssued && l.DueDate.Before(now) {
			l.Status = domain.LoanOverdue
			overdue = append(overdue, l)
		}
	}
	return overdue, nil
}

// GetLoan retrieves a loan record.
func (a *App) GetLoan(id string) (domain.Loan, error) {
	loan, ok, err := a.store.GetLoan(id)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("get loan: %w", err)
	}
	if !ok {
		return domain.Loan{}, ErrLoanNotFound
	}
	return loan, nil
}

// ListLoans lists all loans with their stored statuses.
func (a *App) ListLoans() ([]domain.Loan, error) {
	return a.store.ListLoans()
}
