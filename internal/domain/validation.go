package domain

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidTitle      = errors.New("invalid expense title")
	ErrAmountTooLarge    = errors.New("amount exceeds maximum allowed")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrPasswordTooWeak   = errors.New("password does not meet requirements")
	ErrTooManyReceipts   = errors.New("too many receipt URLs")
	ErrInvalidReceiptURL = errors.New("invalid receipt URL")
)

// Validation constants
const (
	MaxTitleLength    = 255
	MaxExpenseAmount  = "1000000000" // 1 billion
	MaxReceiptURLs    = 5
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// ValidateTitle validates an expense title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)

	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidTitle)
	}

	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidTitle, MaxTitleLength)
	}

	return nil
}

// ValidateTotalAmount validates an expense total.
func ValidateTotalAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTotalAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxExpenseAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxExpenseAmount)
	}

	return nil
}

// ValidateReceiptURLs validates a list of receipt image URLs.
func ValidateReceiptURLs(urls []string) error {
	if len(urls) > MaxReceiptURLs {
		return fmt.Errorf("%w: maximum %d receipt URLs allowed", ErrTooManyReceipts, MaxReceiptURLs)
	}

	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s", ErrInvalidReceiptURL, raw)
		}

		dot := strings.LastIndex(u.Path, ".")
		if dot < 0 {
			return fmt.Errorf("%w: %s is not an image URL", ErrInvalidReceiptURL, raw)
		}
		ext := strings.ToLower(u.Path[dot:])
		if !imageExtensions[ext] {
			return fmt.Errorf("%w: %s is not an image URL", ErrInvalidReceiptURL, raw)
		}
	}

	return nil
}

// DedupeReceiptURLs removes duplicate URLs while preserving order.
func DedupeReceiptURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
