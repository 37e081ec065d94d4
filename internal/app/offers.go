package app

import (
	"context"

	"github.com/cockroachdb/errors"

	"lite_pages/internal/domain"
	"lite_pages/internal/shared"
)

type OfferResolver struct {
	repo  domain.OfferRepository
	clock shared.Clock
}

func NewOfferResolver(r domain.OfferRepository, clock shared.Clock) *OfferResolver {
	return &OfferResolver{repo: r, clock: clock}
}

// Resolve returns the offer behind code, or nil when code is empty or nothing valid matches.
func (s *OfferResolver) Resolve(ctx context.Context, code string) (*domain.Offer, error) {
	code = domain.NormalizeOfferCode(code)
	if code == "" {
		return nil, nil
	}
	now := s.clock.Now().UTC()
	o, err := s.repo.FindActiveOffer(ctx, code, now)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "offer %q", code), domain.ErrAggregation)
	}
	if o == nil || !o.IsValidAt(now) {
		return nil, nil
	}
	return o, nil
}
