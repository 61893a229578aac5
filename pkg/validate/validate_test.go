package validate

import (
	"strings"
	"testing"
	"time"
)

func TestISBN(t *testing.T) {
	valid := []string{"1234567890", "9780131103627", "978-0-13-110362-7", "0-306-40615-2"}
	for _, s := range valid {
		if !ISBN(s) {
			t.Fatalf("expected %q to be a valid ISBN", s)
		}
	}
	invalid := []string{"", "12345", "123456789", "12345678901", "123456789012345", "12345abcde"}
	for _, s := range invalid {
		if ISBN(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestEmail(t *testing.T) {
	if !Email("john@example.com") {
		t.Fatalf("expected valid email")
	}
	for _, s := range []string{"", "john", "john@example", "jo hn@example.com", "john@@example.com"} {
		if Email(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestPhone(t *testing.T) {
	if !Phone("9876543210") {
		t.Fatalf("expected valid phone")
	}
	if !Phone("(987) 654-3210") {
		t.Fatalf("expected formatted phone to validate")
	}
	for _, s := range []string{"", "12345", "98765432101"} {
		if Phone(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestPublishYear(t *testing.T) {
	if !PublishYear(1988) {
		t.Fatalf("expected 1988 to be valid")
	}
	if !PublishYear(time.Now().Year()) {
		t.Fatalf("expected current year to be valid")
	}
	if PublishYear(999) || PublishYear(time.Now().Year()+1) {
		t.Fatalf("expected out-of-range years to be rejected")
	}
}

func TestFormatCurrency(t *testing.T) {
	got := FormatCurrency(1234567.5)
	if !strings.Contains(got, "12,34,567") {
		t.Fatalf("expected Indian grouping in %q", got)
	}
	if got := FormatCurrency(950); !strings.Contains(got, "950.00") {
		t.Fatalf("unexpected small amount rendering: %q", got)
	}
}

func TestCalculateFine(t *testing.T) {
	if got := CalculateFine(5, 10); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := CalculateFine(0, 10); got != 0 {
		t.Fatalf("expected 0 for non-overdue, got %v", got)
	}
	if got := CalculateFine(-3, 10); got != 0 {
		t.Fatalf("expected 0 for negative days, got %v", got)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello   world  "); got != "hello world" {
		t.Fatalf("unexpected sanitized string: %q", got)
	}
	if got := SanitizeString(""); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
	if got := SanitizeString("\tone\n two\t"); got != "one two" {
		t.Fatalf("unexpected sanitized string: %q", got)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID()
		if id == "" {
			t.Fatalf("empty id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsDateInPast(t *testing.T) {
	if !IsDateInPast(time.Now().Add(-time.Hour)) {
		t.Fatalf("expected past date")
	}
	if IsDateInPast(time.Now().Add(time.Hour)) {
		t.Fatalf("expected future date to be rejected")
	}
}

func TestDaysBetween(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(d1, d2); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := DaysBetween(d1, d1); got != 0 {
		t.Fatalf("expected 0 for equal dates, got %d", got)
	}
	if got := DaysBetween(d2, d1); got != -10 {
		t.Fatalf("expected -10, got %d", got)
	}
	// Time of day must not affect the count.
	late := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	early := time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(late, early); got != 1 {
		t.Fatalf("expected 1 regardless of time of day, got %d", got)
	}
}
