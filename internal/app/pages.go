package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lite_pages/internal/adapters/observability"
	"lite_pages/internal/domain"
)

const viewTimeout = 3 * time.Second

// PageService assembles renderer input for a slug.
type PageService struct {
	registry *Registry
	content  *Aggregator
	offers   *OfferResolver

	views sync.WaitGroup
}

func NewPageService(r *Registry, a *Aggregator, o *OfferResolver) *PageService {
	return &PageService{registry: r, content: a, offers: o}
}

// Page builds the full landing page and counts the view.
func (s *PageService) Page(ctx context.Context, slug string) (domain.LitePage, error) {
	p, err := s.build(ctx, slug)
	if err != nil {
		return domain.LitePage{}, err
	}
	s.countView(ctx, p.Entry.ID)
	return p, nil
}

// Card builds the promo card; promo is an optional offer code.
func (s *PageService) Card(ctx context.Context, slug, promo string) (domain.LitePage, error) {
	p, err := s.build(ctx, slug)
	if err != nil {
		return domain.LitePage{}, err
	}
	p.Offer, err = s.offers.Resolve(ctx, promo)
	if err != nil {
		return domain.LitePage{}, err
	}
	return p, nil
}

func (s *PageService) Print(ctx context.Context, slug string) (domain.LitePage, error) {
	return s.build(ctx, slug)
}

func (s *PageService) build(ctx context.Context, slug string) (domain.LitePage, error) {
	res, err := s.registry.Resolve(ctx, slug)
	if err != nil {
		return domain.LitePage{}, err
	}
	c, err := s.content.Content(ctx, res.Property.ID)
	if err != nil {
		return domain.LitePage{}, err
	}
	return domain.LitePage{
		Entry:    res.Entry,
		Property: res.Property,
		Account:  res.Account,
		Content:  c,
	}, nil
}

// countView bumps the counter in the background; the response never waits on it.
func (s *PageService) countView(ctx context.Context, id uuid.UUID) {
	s.views.Add(1)
	go func() {
		defer s.views.Done()
		vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewTimeout)
		defer cancel()
		err := s.registry.IncrementViews(vctx, id)
		observability.ObserveView(err)
		if err != nil {
			log.Warn().Err(err).Str("lite_id", id.String()).Msg("view increment failed")
		}
	}()
}

// Wait blocks until in-flight view increments finish.
func (s *PageService) Wait() { s.views.Wait() }
