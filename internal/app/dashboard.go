package app

import (
	"fmt"

	"librarydesk/pkg/domain"
)

// DashboardSnapshot recomputes the dashboard totals from current store
// state: total physical copies, member and staff counts, issued and overdue
// loan counts, and fine revenue. Nothing is cached.
func (a *App) DashboardSnapshot() (domain.Dashboard, error) {
	books, err := a.store.ListBooks()
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list books: %w", err)
	}
	members, err := a.store.ListMembers()
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list members: %w", err)
	}
	staff, err := a.store.ListStaff()
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list staff: %w", err)
	}
	loans, err := a.store.ListLoans()
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list loans: %w", err)
	}

	var d domain.Dashboard
	for _, b := range books {
		d.TotalBooks += b.TotalCopies
	}
	d.TotalMembers = len(members)
	d.TotalStaff = len(staff)

	now := a.now()
	for _, l := range loans {
		if l.Status == domain.LoanIssued {
			d.BooksIssued++
			if l.DueDate.Before(now) {
				d.BooksOverdue++
			}
		}
		d.Revenue += l.FineAmount
	}
	// Active loans and issued count share a definition.
	d.ActiveLoans = d.BooksIssued
	return d, nil
}
