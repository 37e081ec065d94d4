package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"lite_pages/internal/adapters/observability"
	"lite_pages/internal/domain"
	"lite_pages/internal/shared"
)

const dateLayout = "2006-01-02"

// Aggregator gathers the display content of a property for the current day.
type Aggregator struct {
	repo     domain.ContentRepository
	cache    domain.Cache
	cacheTTL time.Duration
	clock    shared.Clock
	loc      *time.Location
}

func NewAggregator(r domain.ContentRepository, c domain.Cache, ttl time.Duration, clock shared.Clock, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{repo: r, cache: c, cacheTTL: ttl, clock: clock, loc: loc}
}

// Today is the calendar date prices are looked up for.
func (s *Aggregator) Today() string {
	return s.clock.Now().In(s.loc).Format(dateLayout)
}

// Content returns the page content for propertyID. Either every read succeeds
// or the result is an ErrAggregation; a partial Content is never returned.
func (s *Aggregator) Content(ctx context.Context, propertyID uuid.UUID) (domain.Content, error) {
	start := time.Now()
	today := s.Today()
	key := fmt.Sprintf("content:%s:%s", propertyID, today)

	var out domain.Content
	if s.cache != nil {
		if ok, err := s.cache.Get(ctx, key, &out); ok {
			observability.ObserveAggregation("cache", time.Since(start))
			return out, nil
		} else if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("content cache get")
		}
	}

	out, err := s.load(ctx, propertyID, today)
	if err != nil {
		return domain.Content{}, errors.Mark(errors.Wrapf(err, "aggregate property %s", propertyID), domain.ErrAggregation)
	}
	observability.ObserveAggregation("store", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds())); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("content cache set")
		}
	}
	return out, nil
}

func (s *Aggregator) load(ctx context.Context, propertyID uuid.UUID, today string) (domain.Content, error) {
	units, err := s.repo.ListUnits(ctx, propertyID)
	if err != nil {
		return domain.Content{}, err
	}

	var out domain.Content
	out.Unit = domain.PrimaryUnitFor(units)
	out.Stats = roomStats(units)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		imgs, err := s.images(gctx, propertyID, out.Unit)
		out.Images = imgs
		return err
	})
	g.Go(func() error {
		revs, err := s.repo.ListApprovedReviews(gctx, propertyID, domain.MaxLiteReviews)
		out.Reviews = revs
		return err
	})
	if out.Unit != nil {
		unitID := out.Unit.ID
		g.Go(func() error {
			ams, err := s.repo.ListUnitAmenities(gctx, unitID)
			out.Amenities = domain.GroupAmenities(ams)
			return err
		})
		g.Go(func() error {
			av, err := s.repo.GetAvailability(gctx, unitID, today)
			out.Today = av
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Content{}, err
	}
	return out, nil
}

// images prefers the unit's gallery and falls back to the property's.
func (s *Aggregator) images(ctx context.Context, propertyID uuid.UUID, unit *domain.Unit) ([]domain.Image, error) {
	if unit != nil {
		imgs, err := s.repo.ListUnitImages(ctx, unit.ID, domain.MaxGalleryImages)
		if err != nil || len(imgs) > 0 {
			return imgs, err
		}
	}
	return s.repo.ListPropertyImages(ctx, propertyID, domain.MaxGalleryImages)
}

// Availability returns the rate calendar of a unit between from and to (inclusive).
// Empty bounds default to today and from+30 days.
func (s *Aggregator) Availability(ctx context.Context, unitID uuid.UUID, from, to string) ([]domain.Availability, error) {
	start, end, err := AvailabilityRange(from, to, s.clock.Now().In(s.loc))
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAvailability(ctx, unitID, start, end)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "availability range"), domain.ErrAggregation)
	}
	return rows, nil
}

const (
	DefaultAvailabilityDays = 30
	MaxAvailabilityDays     = 366
)

// AvailabilityRange validates and completes a YYYY-MM-DD range relative to now.
func AvailabilityRange(from, to string, now time.Time) (string, string, error) {
	var start, end time.Time
	if from == "" {
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return "", "", errors.Mark(errors.Newf("from %q is not a date", from), domain.ErrInvalidInput)
		}
		start = t
	}
	if to == "" {
		end = start.AddDate(0, 0, DefaultAvailabilityDays)
	} else {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return "", "", errors.Mark(errors.Newf("to %q is not a date", to), domain.ErrInvalidInput)
		}
		end = t
	}
	if end.Before(start) {
		return "", "", errors.Mark(errors.New("to is before from"), domain.ErrInvalidInput)
	}
	if end.Sub(start) > MaxAvailabilityDays*24*time.Hour {
		return "", "", errors.Mark(errors.Newf("range exceeds %d days", MaxAvailabilityDays), domain.ErrInvalidInput)
	}
	return start.Format(dateLayout), end.Format(dateLayout), nil
}

func roomStats(units []domain.Unit) domain.RoomStats {
	var st domain.RoomStats
	for _, u := range units {
		if u.Hidden {
			continue
		}
		st.TotalBedrooms += u.Bedrooms
		if u.MaxGuests > st.MaxGuests {
			st.MaxGuests = u.MaxGuests
		}
	}
	return st
}
