package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LiteRepository interface {
	// Write paths
	Create(ctx context.Context, e LiteEntry) error
	Update(ctx context.Context, id uuid.UUID, p LitePatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// Read paths
	Resolve(ctx context.Context, slug string) (ResolvedLite, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (LiteEntry, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]LiteEntry, error)
	LatestByProperty(ctx context.Context, propertyID uuid.UUID) (*LiteEntry, error)
}

type ContentRepository interface {
	ListUnits(ctx context.Context, propertyID uuid.UUID) ([]Unit, error)
	ListUnitImages(ctx context.Context, unitID uuid.UUID, limit int) ([]Image, error)
	ListPropertyImages(ctx context.Context, propertyID uuid.UUID, limit int) ([]Image, error)
	ListUnitAmenities(ctx context.Context, unitID uuid.UUID) ([]Amenity, error)
	ListApprovedReviews(ctx context.Context, propertyID uuid.UUID, limit int) ([]Review, error)
	// GetAvailability returns nil, nil when the unit has no row for date (YYYY-MM-DD).
	GetAvailability(ctx context.Context, unitID uuid.UUID, date string) (*Availability, error)
	ListAvailability(ctx context.Context, unitID uuid.UUID, from, to string) ([]Availability, error)
}

type OfferRepository interface {
	// FindActiveOffer returns nil, nil when no active offer with code covers now.
	FindActiveOffer(ctx context.Context, code string, now time.Time) (*Offer, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}
