package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTheme  = "default"
	DefaultAccent = "#3b82f6"
)

// LiteEntry is a published lite page: the slug → property mapping plus display configuration.
type LiteEntry struct {
	ID               uuid.UUID `json:"id"`
	PropertyID       uuid.UUID `json:"property_id"`
	AccountID        uuid.UUID `json:"account_id"`
	Slug             string    `json:"slug"`
	Title            *string   `json:"title"`
	Tagline          *string   `json:"tagline"`
	Theme            string    `json:"theme"`
	AccentColor      string    `json:"accent_color"`
	ShowPricing      bool      `json:"show_pricing"`
	ShowAvailability bool      `json:"show_availability"`
	ShowReviews      bool      `json:"show_reviews"`
	ShowQR           bool      `json:"show_qr"`
	Active           bool      `json:"is_active"`
	Views            int64     `json:"view_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewLite is the publish request. Nil optional fields take the defaults.
type NewLite struct {
	PropertyID       uuid.UUID
	AccountID        uuid.UUID
	Slug             string
	Title            *string
	Tagline          *string
	Theme            *string
	AccentColor      *string
	ShowPricing      *bool
	ShowAvailability *bool
	ShowReviews      *bool
	ShowQR           *bool
}

// LitePatch is a partial update: a nil field leaves the stored value untouched,
// a non-nil pointer to "" or false overwrites it.
type LitePatch struct {
	Title            *string
	Tagline          *string
	Theme            *string
	AccentColor      *string
	ShowPricing      *bool
	ShowAvailability *bool
	ShowReviews      *bool
	ShowQR           *bool
	Active           *bool
}

// ResolvedLite is an active entry joined with its property and, when present, its owning account.
type ResolvedLite struct {
	Entry    LiteEntry
	Property Property
	Account  *Account
}

// Slugs that would shadow fixed routes.
var reservedSlugs = map[string]struct{}{
	"api":     {},
	"static":  {},
	"healthz": {},
	"metrics": {},
}

// NormalizeSlug lowercases s and replaces every character outside [a-z0-9-] with '-'.
// It is idempotent.
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[slug]
	return ok
}
