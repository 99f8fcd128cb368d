package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"orderly/internal/domain"
)

var (
	reDay      = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]{1,32}$`)
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// StatusFilter accepts a status, or "" / "all" meaning no filter.
func StatusFilter(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return "", true
	}
	return s, domain.Status(s).Valid()
}

// Status validates a status a panel user wants to set.
func Status(s string) (domain.Status, bool) {
	st := domain.Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

func CategoryFilter(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return "", true
	}
	return s, domain.Category(s).Valid()
}

// Day validates an optional YYYY-MM-DD calendar day.
func Day(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if !reDay.MatchString(s) {
		return "", false
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", false
	}
	return s, true
}

// OrderID parses a positive order id.
func OrderID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func Limit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Days clamps a series length to [1, max], using def when unset.
func Days(s string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password enforces a length window before bcrypt sees it.
func Password(s string) bool {
	l := len(s)
	return l >= 1 && l <= 72
}
