package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"lite_pages/internal/domain"
)

// Registry owns the slug → property mapping.
type Registry struct {
	repo domain.LiteRepository
}

func NewRegistry(r domain.LiteRepository) *Registry {
	return &Registry{repo: r}
}

// Resolve returns the active entry for slug, joined with its property and account.
func (s *Registry) Resolve(ctx context.Context, slug string) (domain.ResolvedLite, error) {
	slug = domain.NormalizeSlug(slug)
	if slug == "" {
		return domain.ResolvedLite{}, domain.ErrNotFound
	}
	return s.repo.Resolve(ctx, slug)
}

// CheckAvailable reports whether slug could be published right now.
// Inactive entries still hold their slug.
func (s *Registry) CheckAvailable(ctx context.Context, slug string) (bool, error) {
	slug = domain.NormalizeSlug(slug)
	if slug == "" || domain.IsReservedSlug(slug) {
		return false, nil
	}
	taken, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *Registry) Create(ctx context.Context, in domain.NewLite) (domain.LiteEntry, error) {
	slug := domain.NormalizeSlug(in.Slug)
	if slug == "" || domain.IsReservedSlug(slug) {
		return domain.LiteEntry{}, errors.Mark(errors.Newf("slug %q is not allowed", in.Slug), domain.ErrInvalidInput)
	}

	taken, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return domain.LiteEntry{}, err
	}
	if taken {
		return domain.LiteEntry{}, errors.Mark(errors.Newf("slug %q", slug), domain.ErrSlugTaken)
	}

	e := domain.LiteEntry{
		ID:               uuid.New(),
		PropertyID:       in.PropertyID,
		AccountID:        in.AccountID,
		Slug:             slug,
		Title:            in.Title,
		Tagline:          in.Tagline,
		Theme:            orDefault(in.Theme, domain.DefaultTheme),
		AccentColor:      orDefault(in.AccentColor, domain.DefaultAccent),
		ShowPricing:      orTrue(in.ShowPricing),
		ShowAvailability: orTrue(in.ShowAvailability),
		ShowReviews:      orTrue(in.ShowReviews),
		ShowQR:           orTrue(in.ShowQR),
		Active:           true,
	}
	// the unique key still decides when two creates race past SlugExists
	if err := s.repo.Create(ctx, e); err != nil {
		return domain.LiteEntry{}, err
	}
	return s.repo.Get(ctx, e.ID)
}

func (s *Registry) Update(ctx context.Context, id uuid.UUID, p domain.LitePatch) (domain.LiteEntry, error) {
	if err := s.repo.Update(ctx, id, p); err != nil {
		return domain.LiteEntry{}, err
	}
	return s.repo.Get(ctx, id)
}

// Remove deletes the entry; removing an unknown id is not an error.
func (s *Registry) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Registry) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.LiteEntry, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

// ByProperty returns the most recent entry for the property, or nil.
func (s *Registry) ByProperty(ctx context.Context, propertyID uuid.UUID) (*domain.LiteEntry, error) {
	return s.repo.LatestByProperty(ctx, propertyID)
}

func (s *Registry) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementViews(ctx, id)
}

func orDefault(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

func orTrue(p *bool) bool {
	if p == nil {
		return true
	}
	return *p
}
