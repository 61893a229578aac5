package store

import (
	"fmt"
	"time"

	"librarydesk/pkg/auth"
	"librarydesk/pkg/domain"
)

// Seed is an initial dataset injected at construction time so that fixtures
// are controlled by the caller instead of being baked into a store.
type Seed struct {
	Books        []domain.Book
	Members      []domain.Member
	Staff        []domain.Staff
	Loans        []domain.Loan
	PullRequests []domain.PullRequest
}

// Apply writes the seed records into s in declaration order.
func (seed Seed) Apply(s Store) error {
	for _, b := range seed.Books {
		if err := s.SaveBook(b); err != nil {
			return fmt.Errorf("seed book %s: %w", b.ID, err)
		}
	}
	for _, m := range seed.Members {
		if err := s.SaveMember(m); err != nil {
			return fmt.Errorf("seed member %s: %w", m.ID, err)
		}
	}
	for _, st := range seed.Staff {
		if err := s.SaveStaff(st); err != nil {
			return fmt.Errorf("seed staff %s: %w", st.ID, err)
		}
	}
	for _, l := range seed.Loans {
		if err := s.SaveLoan(l); err != nil {
			return fmt.Errorf("seed loan %s: %w", l.ID, err)
		}
	}
	for _, pr := range seed.PullRequests {
		if err := s.SavePullRequest(pr); err != nil {
			return fmt.Errorf("seed pull request %s: %w", pr.ID, err)
		}
	}
	return nil
}

// DefaultSeed returns the demo dataset. Loans that were historically seeded
// with a persisted "overdue" status are represented as issued loans with a
// past due date; overdue is always derived at read time.
func DefaultSeed() Seed {
	date := func(s string) time.Time {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			panic(err)
		}
		return t
	}
	returned := date("2024-01-14")
	return Seed{
		Books: []domain.Book{
			{
				ID: "1", ISBN: "978-0-13-110362-7", Title: "The C Programming Language",
				Author: "Brian W. Kernighan, Dennis M. Ritchie", Publisher: "Prentice Hall",
				PublishYear: 1988, Category: "Programming", TotalCopies: 5, AvailableCopies: 3,
				ShelfLocation: "A1-001", Description: "A comprehensive guide to C programming", Price: 1200,
			},
			{
				ID: "2", ISBN: "978-0-201-61622-4", Title: "The Design Patterns",
				Author: "Gang of Four", Publisher: "Addison-Wesley",
				PublishYear: 1994, Category: "Software Design", TotalCopies: 4, AvailableCopies: 2,
				ShelfLocation: "A2-005", Description: "Elements of Reusable Object-Oriented Software", Price: 1500,
			},
			{
				ID: "3", ISBN: "978-0-596-00712-6", Title: "Learning Angular.js",
				Author: "Brad Green, Shyam Seshadri", Publisher: "O'Reilly Media",
				PublishYear: 2013, Category: "Web Development", TotalCopies: 3, AvailableCopies: 1,
				ShelfLocation: "B1-010", Description: "Build dynamic web applications", Price: 1000,
			},
			{
				ID: "4", ISBN: "978-1-491-95435-0", Title: "You Don't Know JS",
				Author: "Kyle Simpson", Publisher: "O'Reilly Media",
				PublishYear: 2014, Category: "JavaScript", TotalCopies: 6, AvailableCopies: 4,
				ShelfLocation: "B2-015", Description: "A deep dive into JavaScript fundamentals", Price: 800,
			},
			{
				ID: "5", ISBN: "978-0-062-69129-0", Title: "Atomic Habits",
				Author: "James Clear", Publisher: "Avery",
				PublishYear: 2018, Category: "Self-Help", TotalCopies: 7, AvailableCopies: 5,
				ShelfLocation: "C1-020", Description: "An easy and proven way to build good habits", Price: 950,
			},
		},
		Members: []domain.Member{
			{
				ID: "1", Username: "john_doe", Email: "john@example.com", Phone: "9876543210",
				Address: "123 Main St, City", MembershipDate: date("2022-01-15"),
				Status: domain.MemberActive, BorrowedBooks: []string{"1", "2"}, TotalBooksBorrowed: 12,
			},
			{
				ID: "2", Username: "jane_smith", Email: "jane@example.com", Phone: "9876543211",
				Address: "456 Oak Ave, Town", MembershipDate: date("2021-06-20"),
				Status: domain.MemberActive, BorrowedBooks: []string{"3"}, TotalBooksBorrowed: 8,
			},
			{
				ID: "3", Username: "alice_wonder", Email: "alice@example.com", Phone: "9876543212",
				Address: "789 Elm Rd, Village", MembershipDate: date("2023-03-10"),
				Status: domain.MemberSuspended, BorrowedBooks: []string{}, TotalBooksBorrowed: 3,
			},
		},
		Staff: []domain.Staff{
			{
				ID: "1", Name: "Admin User", Email: "admin@library.com", Phone: "9876543210",
				EmployeeID: "EMP001", Role: domain.RoleAdmin, Department: "Administration",
				JoinDate: date("2020-01-01"), Salary: 50000, Status: domain.StaffActive,
				PasswordHash: auth.MustHashPassword("admin123"),
			},
			{
				ID: "2", Name: "Librarian User", Email: "librarian@library.com", Phone: "9876543211",
				EmployeeID: "EMP002", Role: domain.RoleLibrarian, Department: "Library Services",
				JoinDate: date("2021-06-15"), Salary: 35000, Status: domain.StaffActive,
				PasswordHash: auth.MustHashPassword("librarian123"),
			},
			{
				ID: "3", Name: "Staff User", Email: "staff@library.com", Phone: "9876543212",
				EmployeeID: "EMP003", Role: domain.RoleStaff, Department: "Library Services",
				JoinDate: date("2022-03-20"), Salary: 25000, Status: domain.StaffActive,
				PasswordHash: auth.MustHashPassword("staff123"),
			},
		},
		Loans: []domain.Loan{
			{
				ID: "1", BookID: "1", MemberID: "1", IssueDate: date("2024-01-01"),
				DueDate: date("2024-01-15"), ReturnDate: &returned,
				Status: domain.LoanReturned, IssuedBy: "2",
			},
			{
				ID: "2", BookID: "2", MemberID: "1", IssueDate: date("2024-01-10"),
				DueDate: date("2024-01-24"), Status: domain.LoanIssued, IssuedBy: "2",
			},
			{
				ID: "3", BookID: "3", MemberID: "2", IssueDate: date("2024-01-05"),
				DueDate: date("2024-01-19"), Status: domain.LoanIssued, IssuedBy: "2",
				FineAmount: 100,
			},
		},
		PullRequests: []domain.PullRequest{
			{
				ID: "1", Title: "Add user authentication", Description: "Implements JWT-based authentication",
				Branch: "feature/auth", Author: "developer1@library.com", Status: domain.ReviewApproved,
				LintScore: 98, TestsPassed: true,
				ReviewComments: []string{"Looks good!", "Well structured code"},
				CreatedAt:      date("2024-01-05"), UpdatedAt: date("2024-01-06"),
			},
			{
				ID: "2", Title: "Fix book inventory bug", Description: "Resolves issue with duplicate book entries",
				Branch: "bugfix/inventory", Author: "developer2@library.com", Status: domain.ReviewPending,
				LintScore: 95, TestsPassed: true,
				ReviewComments: []string{},
				CreatedAt:      date("2024-01-08"), UpdatedAt: date("2024-01-08"),
			},
			{
				ID: "3", Title: "Update dependencies", Description: "Updates framework to latest version",
				Branch: "chore/deps", Author: "developer1@library.com", Status: domain.ReviewRejected,
				LintScore: 75, TestsPassed: false,
				ReviewComments: []string{"Tests failing", "Need to fix breaking changes"},
				CreatedAt:      date("2024-01-01"), UpdatedAt: date("2024-01-02"),
			},
		},
	}
}
