package app

import (
	"testing"
	"time"

	"librarydesk/pkg/domain"
	"librarydesk/pkg/store"
)

func TestDashboardSnapshot(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)

	seed := store.DefaultSeed()
	if err := seed.Apply(a.store); err != nil {
		t.Fatalf("apply seed: %v", err)
	}

	d, err := a.DashboardSnapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// Seeded catalog holds 5+4+3+6+7 physical copies.
	if d.TotalBooks != 25 {
		t.Fatalf("expected 25 total copies, got %d", d.TotalBooks)
	}
	if d.TotalMembers != 3 || d.TotalStaff != 3 {
		t.Fatalf("unexpected member/staff counts: %d/%d", d.TotalMembers, d.TotalStaff)
	}
	// Two seeded loans are open; both due dates are past 2024-02-01.
	if d.BooksIssued != 2 || d.ActiveLoans != 2 {
		t.Fatalf("expected 2 issued loans, got issued=%d active=%d", d.BooksIssued, d.ActiveLoans)
	}
	if d.BooksOverdue != 2 {
		t.Fatalf("expected 2 overdue loans at %v, got %d", now, d.BooksOverdue)
	}
	// One seeded loan carries a recorded 100 fine.
	if d.Revenue != 100 {
		t.Fatalf("expected revenue 100, got %v", d.Revenue)
	}
}

func TestDashboardSnapshotRecomputesOnDemand(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	seedBookAndMember(t, a, 3)
	if err := a.store.SaveStaff(domain.Staff{ID: "staff-1", Email: "s@library.com"}); err != nil {
		t.Fatalf("save staff: %v", err)
	}

	before, err := a.DashboardSnapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if before.BooksIssued != 0 {
		t.Fatalf("expected no issued loans yet")
	}

	loan, err := a.IssueBook("book-1", "member-1", "staff-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	mid, err := a.DashboardSnapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if mid.BooksIssued != 1 || mid.ActiveLoans != 1 {
		t.Fatalf("snapshot not recomputed after issue: %+v", mid)
	}

	now = now.AddDate(0, 0, 20)
	if _, err := a.ReturnBook(loan.ID, "staff-1"); err != nil {
		t.Fatalf("return: %v", err)
	}
	after, err := a.DashboardSnapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if after.BooksIssued != 0 {
		t.Fatalf("expected no open loans after return")
	}
	if after.Revenue != 60 {
		t.Fatalf("expected revenue 60 for 6 days overdue, got %v", after.Revenue)
	}
}
