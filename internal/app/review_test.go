package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"librarydesk/pkg/domain"
)

func TestAutoReviewApprovesOnThresholds(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)

	pr, err := a.SubmitPullRequest(PullRequestInput{
		Title: "Add feature", Branch: "feature/x", Author: "dev@library.com",
		LintScore: 95, TestsPassed: true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if pr.Status != domain.ReviewApproved {
		t.Fatalf("expected auto-approval, got %q", pr.Status)
	}
	if len(pr.ReviewComments) != 1 || !strings.Contains(pr.ReviewComments[0], "Automatic approval") {
		t.Fatalf("expected success comment, got %v", pr.ReviewComments)
	}
}

func TestAutoReviewRejectsLowLintScoreFirst(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)

	// Lint failure wins even when tests pass.
	pr, err := a.SubmitPullRequest(PullRequestInput{
		Title: "Low lint", Branch: "fix/y", LintScore: 80, TestsPassed: true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if pr.Status != domain.ReviewRejected {
		t.Fatalf("expected rejection, got %q", pr.Status)
	}
	if !strings.Contains(pr.ReviewComments[0], "Lint score 80") {
		t.Fatalf("expected lint-specific comment, got %v", pr.ReviewComments)
	}
}

func TestAutoReviewRejectsFailingTests(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)

	pr, err := a.SubmitPullRequest(PullRequestInput{
		Title: "Good lint bad tests", Branch: "fix/z", LintScore: 95, TestsPassed: false,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if pr.Status != domain.ReviewRejected {
		t.Fatalf("expected rejection, got %q", pr.Status)
	}
	if !strings.Contains(pr.ReviewComments[0], "Tests are not passing") {
		t.Fatalf("expected test-failure comment, got %v", pr.ReviewComments)
	}
}

func TestManualReviewOverridesAutoDecision(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)

	pr, err := a.SubmitPullRequest(PullRequestInput{
		Title: "Approved then rejected", Branch: "feature/w", LintScore: 98, TestsPassed: true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if pr.Status != domain.ReviewApproved {
		t.Fatalf("expected auto-approval first, got %q", pr.Status)
	}

	before := len(pr.ReviewComments)
	updated, err := a.ManualReview(pr.ID, false, "Regression found in staging")
	if err != nil {
		t.Fatalf("manual review: %v", err)
	}
	if updated.Status != domain.ReviewRejected {
		t.Fatalf("manual review must override, got %q", updated.Status)
	}
	if len(updated.ReviewComments) != before+1 {
		t.Fatalf("comment log must grow by exactly one, got %d -> %d", before, len(updated.ReviewComments))
	}
	if updated.ReviewComments[len(updated.ReviewComments)-1] != "Regression found in staging" {
		t.Fatalf("unexpected last comment %q", updated.ReviewComments[len(updated.ReviewComments)-1])
	}
	if !updated.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated timestamp")
	}
}

func TestManualReviewUnknownID(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)
	if _, err := a.ManualReview("missing", true, "ok"); !errors.Is(err, ErrPullRequestNotFound) {
		t.Fatalf("expected ErrPullRequestNotFound, got %v", err)
	}
}

func TestListPullRequestsFiltersByStatus(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := newTestApp(t, &now)

	if _, err := a.SubmitPullRequest(PullRequestInput{Title: "ok", Branch: "a", LintScore: 95, TestsPassed: true}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := a.SubmitPullRequest(PullRequestInput{Title: "bad", Branch: "b", LintScore: 50, TestsPassed: false}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	approved, err := a.ListPullRequests(domain.ReviewApproved)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	rejected, err := a.ListPullRequests(domain.ReviewRejected)
	if err != nil {
		t.Fatalf("list rejected: %v", err)
	}
	all, err := a.ListPullRequests("")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(approved) != 1 || len(rejected) != 1 || len(all) != 2 {
		t.Fatalf("unexpected filter counts: approved=%d rejected=%d all=%d",
			len(approved), len(rejected), len(all))
	}
}
