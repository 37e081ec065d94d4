package app_test

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"lite_pages/internal/domain"
)

// ---- fakes ----

type fakeLites struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]domain.LiteEntry
	props   map[uuid.UUID]domain.Property
	views   map[uuid.UUID]int
	viewErr error
	now     time.Time
}

func newFakeLites() *fakeLites {
	return &fakeLites{
		rows:  map[uuid.UUID]domain.LiteEntry{},
		props: map[uuid.UUID]domain.Property{},
		views: map[uuid.UUID]int{},
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeLites) Create(ctx context.Context, e domain.LiteEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Slug == e.Slug {
			return errors.Mark(errors.New("duplicate entry"), domain.ErrSlugTaken)
		}
	}
	f.now = f.now.Add(time.Second)
	e.CreatedAt, e.UpdatedAt = f.now, f.now
	f.rows[e.ID] = e
	return nil
}

func (f *fakeLites) Update(ctx context.Context, id uuid.UUID, p domain.LitePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[id]
	if !ok {
		return nil // UPDATE of a missing row affects nothing
	}
	if p.Title != nil {
		e.Title = p.Title
	}
	if p.Tagline != nil {
		e.Tagline = p.Tagline
	}
	if p.Theme != nil {
		e.Theme = *p.Theme
	}
	if p.AccentColor != nil {
		e.AccentColor = *p.AccentColor
	}
	if p.ShowPricing != nil {
		e.ShowPricing = *p.ShowPricing
	}
	if p.ShowAvailability != nil {
		e.ShowAvailability = *p.ShowAvailability
	}
	if p.ShowReviews != nil {
		e.ShowReviews = *p.ShowReviews
	}
	if p.ShowQR != nil {
		e.ShowQR = *p.ShowQR
	}
	if p.Active != nil {
		e.Active = *p.Active
	}
	f.rows[id] = e
	return nil
}

func (f *fakeLites) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeLites) IncrementViews(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.viewErr != nil {
		return f.viewErr
	}
	f.views[id]++
	return nil
}

func (f *fakeLites) Resolve(ctx context.Context, slug string) (domain.ResolvedLite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if e.Slug == slug && e.Active {
			return domain.ResolvedLite{Entry: e, Property: f.props[e.PropertyID]}, nil
		}
	}
	return domain.ResolvedLite{}, domain.ErrNotFound
}

func (f *fakeLites) SlugExists(ctx context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if e.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLites) Get(ctx context.Context, id uuid.UUID) (domain.LiteEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[id]
	if !ok {
		return domain.LiteEntry{}, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeLites) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.LiteEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LiteEntry
	for _, e := range f.rows {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeLites) LatestByProperty(ctx context.Context, propertyID uuid.UUID) (*domain.LiteEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *domain.LiteEntry
	for _, e := range f.rows {
		if e.PropertyID != propertyID {
			continue
		}
		if best == nil || e.CreatedAt.After(best.CreatedAt) {
			e := e
			best = &e
		}
	}
	return best, nil
}

func (f *fakeLites) viewCount(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.views[id]
}

type fakeContent struct {
	mu        sync.Mutex
	units     []domain.Unit
	unitImgs  map[uuid.UUID][]domain.Image
	propImgs  []domain.Image
	amenities map[uuid.UUID][]domain.Amenity
	reviews   []domain.Review
	avail     map[string]domain.Availability // key: unit|date
	failOn    string
	calls     map[string]int
}

func (f *fakeContent) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
	if f.failOn == op {
		return errors.Newf("%s: connection reset", op)
	}
	return nil
}

func (f *fakeContent) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeContent) ListUnits(ctx context.Context, propertyID uuid.UUID) ([]domain.Unit, error) {
	if err := f.hit("units"); err != nil {
		return nil, err
	}
	return f.units, nil
}

func (f *fakeContent) ListUnitImages(ctx context.Context, unitID uuid.UUID, limit int) ([]domain.Image, error) {
	if err := f.hit("unit_images"); err != nil {
		return nil, err
	}
	return capImages(f.unitImgs[unitID], limit), nil
}

func (f *fakeContent) ListPropertyImages(ctx context.Context, propertyID uuid.UUID, limit int) ([]domain.Image, error) {
	if err := f.hit("property_images"); err != nil {
		return nil, err
	}
	return capImages(f.propImgs, limit), nil
}

func capImages(in []domain.Image, limit int) []domain.Image {
	if len(in) > limit {
		return in[:limit]
	}
	return in
}

func (f *fakeContent) ListUnitAmenities(ctx context.Context, unitID uuid.UUID) ([]domain.Amenity, error) {
	if err := f.hit("amenities"); err != nil {
		return nil, err
	}
	return f.amenities[unitID], nil
}

func (f *fakeContent) ListApprovedReviews(ctx context.Context, propertyID uuid.UUID, limit int) ([]domain.Review, error) {
	if err := f.hit("reviews"); err != nil {
		return nil, err
	}
	if len(f.reviews) > limit {
		return f.reviews[:limit], nil
	}
	return f.reviews, nil
}

func (f *fakeContent) GetAvailability(ctx context.Context, unitID uuid.UUID, date string) (*domain.Availability, error) {
	if err := f.hit("availability"); err != nil {
		return nil, err
	}
	a, ok := f.avail[unitID.String()+"|"+date]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeContent) ListAvailability(ctx context.Context, unitID uuid.UUID, from, to string) ([]domain.Availability, error) {
	if err := f.hit("availability_range"); err != nil {
		return nil, err
	}
	var out []domain.Availability
	for _, a := range f.avail {
		if a.RoomID == unitID && a.Date >= from && a.Date <= to {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type fakeOffers struct {
	offers []domain.Offer
	err    error
	codes  []string
}

func (f *fakeOffers) FindActiveOffer(ctx context.Context, code string, now time.Time) (*domain.Offer, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	for _, o := range f.offers {
		if o.Code == code && o.IsValidAt(now) {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

// fakeCache stores JSON like the Redis adapter so cached values never alias the source.
type fakeCache struct {
	mu     sync.Mutex
	store  map[string][]byte
	getErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
