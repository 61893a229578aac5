// Package validate holds the pure validation and formatting helpers shared
// by the catalog, membership, and lending code. All functions are
// side-effect free and operate on primitive inputs.
package validate

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	isbnPattern  = regexp.MustCompile(`^(?:\d{10}|\d{13})$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// ISBN reports whether s is a valid ISBN: exactly 10 or 13 decimal digits
// once hyphens are stripped.
func ISBN(s string) bool {
	if s == "" {
		return false
	}
	return isbnPattern.MatchString(strings.ReplaceAll(s, "-", ""))
}

// Email reports whether s has a single-@ local-part/domain shape with a dot
// in the domain. This is intentionally not a full RFC 5322 check.
func Email(s string) bool {
	if s == "" {
		return false
	}
	return emailPattern.MatchString(s)
}

// Phone reports whether s contains exactly 10 digits once every non-digit
// character is stripped.
func Phone(s string) bool {
	if s == "" {
		return false
	}
	return len(nonDigit.ReplaceAllString(s, "")) == 10
}

// PublishYear reports whether year falls between 1000 and the current
// calendar year inclusive.
func PublishYear(year int) bool {
	return year >= 1000 && year <= time.Now().Year()
}

// FormatCurrency renders amount with Indian rupee digit grouping: the last
// three integer digits form one group, every pair before them another
// (1234567.5 -> "₹12,34,567.50").
func FormatCurrency(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := fmt.Sprintf("%.2f", amount)
	intPart, fracPart, _ := strings.Cut(whole, ".")
	grouped := groupIndian(intPart)
	if neg {
		return "-₹" + grouped + "." + fracPart
	}
	return "₹" + grouped + "." + fracPart
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	out := digits[len(digits)-3:]
	for len(head) > 2 {
		out = head[len(head)-2:] + "," + out
		head = head[:len(head)-2]
	}
	return head + "," + out
}

// CalculateFine returns the fine for a loan daysOverdue days past its due
// date at dailyRate currency units per day. Non-positive daysOverdue yields
// zero.
func CalculateFine(daysOverdue int, dailyRate float64) float64 {
	if daysOverdue <= 0 {
		return 0
	}
	return float64(daysOverdue) * dailyRate
}

// SanitizeString trims leading and trailing whitespace and collapses
// internal whitespace runs to a single space.
func SanitizeString(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NewID returns an identifier unique across calls within a process
// lifetime: unix milliseconds joined with a random hex suffix. Uniqueness is
// a generation contract, not a cryptographic one.
func NewID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d-0", time.Now().UnixNano())
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b[:]))
}

// IsDateInPast reports whether d is strictly earlier than now.
func IsDateInPast(d time.Time) bool {
	return d.Before(time.Now())
}

// DaysBetween counts whole calendar days from d1 to d2 on date-only,
// UTC-normalized components, so time-of-day never affects the result. The
// count is negative when d2 precedes d1.
func DaysBetween(d1, d2 time.Time) int {
	u1 := time.Date(d1.Year(), d1.Month(), d1.Day(), 0, 0, 0, 0, time.UTC)
	u2 := time.Date(d2.Year(), d2.Month(), d2.Day(), 0, 0, 0, 0, time.UTC)
	return int(u2.Sub(u1).Hours() / 24)
}
