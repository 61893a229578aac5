package app

import (
	"fmt"

	"librarydesk/pkg/domain"
	"librarydesk/pkg/validate"
)

const lintThreshold = 90

// PullRequestInput carries the fields of a newly submitted pull request.
type PullRequestInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Branch      string `json:"branch"`
	Author      string `json:"author"`
	LintScore   int    `json:"lintScore"`
	TestsPassed bool   `json:"testsPassed"`
}

// SubmitPullRequest records a pending pull request and immediately applies
// the automatic review: approved when the lint score meets the threshold and
// tests pass, rejected otherwise. The decision comment is appended to the
// record's log.
func (a *App) SubmitPullRequest(in PullRequestInput) (domain.PullRequest, error) {
	in.Title = validate.SanitizeString(in.Title)
	in.Branch = validate.SanitizeString(in.Branch)
	if in.Title == "" {
		return domain.PullRequest{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	now := a.now()
	pr := domain.PullRequest{
		ID:             validate.NewID(),
		Title:          in.Title,
		Description:    in.Description,
		Branch:         in.Branch,
		Author:         in.Author,
		Status:         domain.ReviewPending,
		LintScore:      in.LintScore,
		TestsPassed:    in.TestsPassed,
		ReviewComments: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := a.store.SavePullRequest(pr); err != nil {
		return domain.PullRequest{}, fmt.Errorf("save pull request: %w", err)
	}

	approved, reason := evaluatePullRequest(pr)
	if approved {
		pr.Status = domain.ReviewApproved
	} else {
		pr.Status = domain.ReviewRejected
	}
	pr.ReviewComments = append(pr.ReviewComments, reason)
	pr.UpdatedAt = a.now()
	if err := a.store.SavePullRequest(pr); err != nil {
		return domain.PullRequest{}, fmt.Errorf("save pull request: %w", err)
	}
	return pr, nil
}

// evaluatePullRequest applies the approval heuristic. Failure reasons are
// reported in a fixed order: lint score first, then test status.
func evaluatePullRequest(pr domain.PullRequest) (bool, string) {
	if pr.LintScore < lintThreshold {
		return false, fmt.Sprintf("Lint score %d is below threshold of %d", pr.LintScore, lintThreshold)
	}
	if !pr.TestsPassed {
		return false, "Tests are not passing. Please fix failing tests before resubmitting."
	}
	return true, fmt.Sprintf("Automatic approval: code meets all quality standards (lint score >= %d, tests passing)", lintThreshold)
}

// ManualReview overwrites a pull request's status regardless of its current
// state, so an already auto-resolved entry can be re-decided, and appends
// the reviewer's comment to the log.
func (a *App) ManualReview(id string, approved bool, comment string) (domain.PullRequest, error) {
	pr, ok, err := a.store.GetPullRequest(id)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("get pull request: %w", err)
	}
	if !ok {
		return domain.PullRequest{}, ErrPullRequestNotFound
	}

	if approved {
		pr.Status = domain.ReviewApproved
	} else {
		pr.Status = domain.ReviewRejected
	}
	pr.ReviewComments = append(pr.ReviewComments, comment)
	pr.UpdatedAt = a.now()
	if err := a.store.SavePullRequest(pr); err != nil {
		return domain.PullRequest{}, fmt.Errorf("save pull request: %w", err)
	}
	return pr, nil
}

// GetPullRequest retrieves a pull request.
func (a *App) GetPullRequest(id string) (domain.PullRequest, error) {
	pr, ok, err := a.store.GetPullRequest(id)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("get pull request: %w", err)
	}
	if !ok {
		return domain.PullRequest{}, ErrPullRequestNotFound
	}
	return pr, nil
}

// ListPullRequests lists all pull requests, optionally filtered by status.
func (a *App) ListPullRequests(status domain.ReviewStatus) ([]domain.PullRequest, error) {
	prs, err := a.store.ListPullRequests()
	if err != nil {
		return nil, err
	}
	if status == "" {
		return prs, nil
	}
	filtered := make([]domain.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr.Status == status {
			filtered = append(filtered, pr)
		}
	}
	return filtered, nil
}
