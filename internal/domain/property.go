package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Property is owned by the property-management subsystem; this service only reads it.
type Property struct {
	ID                 uuid.UUID `json:"id"`
	AccountID          uuid.UUID `json:"account_id"`
	Name               string    `json:"name"`
	City               *string   `json:"city"`
	Country            *string   `json:"country"`
	Address            *string   `json:"address"`
	Description        *string   `json:"description"`
	HouseRules         *string   `json:"house_rules"` // host-authored rich text
	CheckInTime        *string   `json:"check_in_time"`
	CheckOutTime       *string   `json:"check_out_time"`
	CancellationPolicy *string   `json:"cancellation_policy"`
	Currency           string    `json:"currency"`
	RatingAvg          *float64  `json:"rating_avg"`
	PetsAllowed        bool      `json:"pets_allowed"`
	ChildrenAllowed    bool      `json:"children_allowed"`
	Coords             *Coords   `json:"coords"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location joins city and country, skipping blanks.
func (p Property) Location() string {
	var parts []string
	for _, s := range []*string{p.City, p.Country} {
		if s != nil && strings.TrimSpace(*s) != "" {
			parts = append(parts, strings.TrimSpace(*s))
		}
	}
	return strings.Join(parts, ", ")
}

type Account struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email *string   `json:"email"`
	Phone *string   `json:"phone"`
}

// Unit is a bookable room/apartment/house of a property.
type Unit struct {
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"property_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	MaxGuests   int       `json:"max_guests"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Beds        int       `json:"beds"`
	SizeSqm     *float64  `json:"size_sqm"`
	Hidden      bool      `json:"hidden"`
	CreatedAt   time.Time `json:"created_at"`
}

// PrimaryUnitFor is the one-unit-per-lite-page policy: the first non-hidden unit by creation order.
// Units are expected in any order; ties on creation time fall back to the id.
func PrimaryUnitFor(units []Unit) *Unit {
	var best *Unit
	for i := range units {
		u := &units[i]
		if u.Hidden {
			continue
		}
		if best == nil || u.CreatedAt.Before(best.CreatedAt) ||
			(u.CreatedAt.Equal(best.CreatedAt) && u.ID.String() < best.ID.String()) {
			best = u
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// RoomStats summarise every visible unit of a property.
type RoomStats struct {
	TotalBedrooms int `json:"total_bedrooms"`
	MaxGuests     int `json:"max_guests"`
}

const MaxGalleryImages = 20

type Image struct {
	ID           int64   `json:"id"`
	URL          string  `json:"url"`
	Caption      *string `json:"caption"`
	IsPrimary    bool    `json:"is_primary"`
	DisplayOrder int     `json:"display_order"`
}

type Amenity struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

type AmenityGroup struct {
	Category string    `json:"category"`
	Items    []Amenity `json:"items"`
}

// GroupAmenities groups by category keeping the order in which each category first appears.
func GroupAmenities(in []Amenity) []AmenityGroup {
	idx := make(map[string]int, 8)
	var out []AmenityGroup
	for _, a := range in {
		cat := strings.TrimSpace(a.Category)
		if cat == "" {
			cat = "Other"
		}
		i, ok := idx[cat]
		if !ok {
			i = len(out)
			idx[cat] = i
			out = append(out, AmenityGroup{Category: cat})
		}
		out[i].Items = append(out[i].Items, a)
	}
	return out
}

const MaxLiteReviews = 10

type Review struct {
	ID           int64     `json:"id"`
	ReviewerName *string   `json:"reviewer_name"`
	Rating       float64   `json:"rating"`
	Comment      *string   `json:"comment"`
	ReviewDate   time.Time `json:"review_date"`
}

// AverageRating prefers the property's stored average; otherwise it is the
// unweighted mean of the given reviews. Rounded to one decimal, nil when unknown.
func AverageRating(stored *float64, reviews []Review) *float64 {
	if stored != nil {
		v := round1(*stored)
		return &v
	}
	if len(reviews) == 0 {
		return nil
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	v := round1(sum / float64(len(reviews)))
	return &v
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

// Availability is one (unit, date) row of the rate calendar.
type Availability struct {
	RoomID        uuid.UUID `json:"room_id"`
	Date          string    `json:"date"` // YYYY-MM-DD
	CMPrice       *float64  `json:"cm_price"`
	DirectPrice   *float64  `json:"direct_price"`
	StandardPrice *float64  `json:"standard_price"`
	MinStay       int       `json:"min_stay"`
	Available     bool      `json:"available"`
}

// DisplayPrice: direct, else standard, else channel-manager price.
func (a Availability) DisplayPrice() *float64 {
	for _, p := range []*float64{a.DirectPrice, a.StandardPrice, a.CMPrice} {
		if p != nil {
			v := *p
			return &v
		}
	}
	return nil
}

// Content is everything the aggregator gathers for a property on a given day.
type Content struct {
	Unit      *Unit          `json:"unit"`
	Images    []Image        `json:"images"`
	Amenities []AmenityGroup `json:"amenities"`
	Reviews   []Review       `json:"reviews"`
	Today     *Availability  `json:"today"`
	Stats     RoomStats      `json:"stats"`
}

// LitePage is the immutable input of every renderer.
type LitePage struct {
	Entry    LiteEntry
	Property Property
	Account  *Account
	Content  Content
	Offer    *Offer
}

func (p LitePage) DisplayTitle() string {
	if p.Entry.Title != nil && strings.TrimSpace(*p.Entry.Title) != "" {
		return *p.Entry.Title
	}
	return p.Property.Name
}

func (p LitePage) AverageRating() *float64 {
	return AverageRating(p.Property.RatingAvg, p.Content.Reviews)
}

// DisplayPrice is today's nightly price or nil when there is none.
func (p LitePage) DisplayPrice() *float64 {
	if p.Content.Today == nil {
		return nil
	}
	return p.Content.Today.DisplayPrice()
}
