package domain

import (
	"strings"
	"time"
)

// Offer is a promotion addressed by code; it only ever decorates the promo card.
type Offer struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	Title           *string    `json:"title"`
	DiscountPercent float64    `json:"discount_percent"`
	Active          bool       `json:"active"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidUntil      *time.Time `json:"valid_until"`
}

func NormalizeOfferCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidAt reports whether the offer is active and t falls inside its (possibly open) window.
func (o Offer) IsValidAt(t time.Time) bool {
	if !o.Active {
		return false
	}
	if o.ValidFrom != nil && t.Before(*o.ValidFrom) {
		return false
	}
	if o.ValidUntil != nil && t.After(*o.ValidUntil) {
		return false
	}
	return true
}
