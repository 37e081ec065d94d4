package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lite_pages/internal/app"
	"lite_pages/internal/domain"
	"lite_pages/internal/shared"
)

var (
	unitA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	unitB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	unitH = uuid.MustParse("00000000-0000-0000-0000-00000000000f")
	t0    = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func villaContent() *fakeContent {
	return &fakeContent{
		units: []domain.Unit{
			{ID: unitB, Name: "Annex", Bedrooms: 1, MaxGuests: 2, CreatedAt: t0.Add(time.Hour)},
			{ID: unitH, Name: "Staff", Bedrooms: 5, MaxGuests: 9, Hidden: true, CreatedAt: t0.Add(-time.Hour)},
			{ID: unitA, Name: "Villa", Bedrooms: 3, MaxGuests: 6, CreatedAt: t0},
		},
		unitImgs: map[uuid.UUID][]domain.Image{
			unitA: {{ID: 1, URL: "https://img/a1.jpg", IsPrimary: true}, {ID: 2, URL: "https://img/a2.jpg"}},
		},
		propImgs: []domain.Image{{ID: 9, URL: "https://img/p.jpg"}},
		amenities: map[uuid.UUID][]domain.Amenity{
			unitA: {
				{Name: "Pool", Category: "Outdoor"},
				{Name: "WiFi", Category: "Internet"},
				{Name: "BBQ", Category: "Outdoor"},
				{Name: "Iron"},
			},
		},
		reviews: []domain.Review{{ID: 1, Rating: 4}, {ID: 2, Rating: 5}, {ID: 3, Rating: 5}},
		avail: map[string]domain.Availability{
			unitA.String() + "|2025-06-01": {RoomID: unitA, Date: "2025-06-01", DirectPrice: ptr(150.0)},
		},
	}
}

func newAggregator(repo domain.ContentRepository, cache domain.Cache, now time.Time, loc *time.Location) *app.Aggregator {
	return app.NewAggregator(repo, cache, 5*time.Minute, &shared.FixedClock{T: now}, loc)
}

func TestAggregator_Content(t *testing.T) {
	repo := villaContent()
	agg := newAggregator(repo, nil, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.UTC)

	c, err := agg.Content(context.Background(), uuid.New())
	require.NoError(t, err)

	require.NotNil(t, c.Unit)
	assert.Equal(t, unitA, c.Unit.ID, "first non-hidden unit by creation")
	assert.Equal(t, domain.RoomStats{TotalBedrooms: 4, MaxGuests: 6}, c.Stats)
	assert.Len(t, c.Images, 2)
	assert.Len(t, c.Reviews, 3)
	require.NotNil(t, c.Today)
	assert.Equal(t, 150.0, *c.Today.DisplayPrice())

	wantGroups := []domain.AmenityGroup{
		{Category: "Outdoor", Items: []domain.Amenity{{Name: "Pool", Category: "Outdoor"}, {Name: "BBQ", Category: "Outdoor"}}},
		{Category: "Internet", Items: []domain.Amenity{{Name: "WiFi", Category: "Internet"}}},
		{Category: "Other", Items: []domain.Amenity{{Name: "Iron"}}},
	}
	if diff := cmp.Diff(wantGroups, c.Amenities); diff != "" {
		t.Fatalf("amenity groups (-want +got):\n%s", diff)
	}
	assert.Zero(t, repo.count("property_images"))
}

func TestAggregator_ImageFallback(t *testing.T) {
	repo := villaContent()
	repo.unitImgs = nil
	agg := newAggregator(repo, nil, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.UTC)

	c, err := agg.Content(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, c.Images, 1)
	assert.Equal(t, "https://img/p.jpg", c.Images[0].URL)
}

func TestAggregator_ImageCap(t *testing.T) {
	repo := villaContent()
	var many []domain.Image
	for i := 0; i < 30; i++ {
		many = append(many, domain.Image{ID: int64(i), URL: "https://img/x.jpg"})
	}
	repo.unitImgs[unitA] = many
	agg := newAggregator(repo, nil, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.UTC)

	c, err := agg.Content(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, c.Images, domain.MaxGalleryImages)
}

func TestAggregator_NoUnit(t *testing.T) {
	repo := villaContent()
	repo.units = []domain.Unit{{ID: unitH, Hidden: true, Bedrooms: 2}}
	agg := newAggregator(repo, nil, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.UTC)

	c, err := agg.Content(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, c.Unit)
	assert.Nil(t, c.Today)
	assert.Empty(t, c.Amenities)
	assert.Equal(t, domain.RoomStats{}, c.Stats)
	assert.Len(t, c.Images, 1, "property images without a unit")
	assert.Zero(t, repo.count("amenities"))
	assert.Zero(t, repo.count("availability"))
}

func TestAggregator_NoPriceToday(t *testing.T) {
	repo := villaContent()
	agg := newAggregator(repo, nil, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), time.UTC)

	c, err := agg.Content(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, c.Today)
}

func TestAggregator_TodayUsesReferenceTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	// 22:30 UTC on May 31 is already June 1 at UTC+3
	agg := newAggregator(villaContent(), nil, time.Date(2025, 5, 31, 22, 30, 0, 0, time.UTC), loc)
	assert.Equal(t, "2025-06-01", agg.Today())

	c, err := agg.Content(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, c.Today)
}

func TestAggregator_AnyFailureFailsAll(t *testing.T) {
	for _, op := range []string{"units", "unit_images", "amenities", "reviews", "availability"} {
		t.Run(op, func(t *testing.T) {
			repo := villaContent()
			repo.failOn = op
			cache := &fakeCache{}
			agg := newAggregator(repo, cache, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.UTC)

			c, err := agg.Content(context.Background(), uuid.New())
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrAggregation))
			assert.Equal(t, domain.Content{}, c)
			assert.Empty(t, cache.store, "failed aggregation must not be cached")
		})
	}
}

func TestAggregator_CacheHit(t *testing.T) {
	repo := villaContent()
	cache := &fakeCache{}
	agg := newAggregator(repo, cache, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.UTC)
	prop := uuid.New()

	first, err := agg.Content(context.Background(), prop)
	require.NoError(t, err)
	require.Equal(t, 1, repo.count("units"))

	repo.units = nil
	second, err := agg.Content(context.Background(), prop)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count("units"), "second read must come from cache")
	require.NotNil(t, second.Unit)
	assert.Equal(t, first.Unit.ID, second.Unit.ID)
}

func TestAggregator_CacheErrorIsMiss(t *testing.T) {
	repo := villaContent()
	cache := &fakeCache{getErr: errors.New("redis: connection refused")}
	agg := newAggregator(repo, cache, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.UTC)

	c, err := agg.Content(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, c.Unit)
}

func TestAvailabilityRange(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	cases := []struct {
		name, from, to   string
		wantFrom, wantTo string
		wantErr          bool
	}{
		{name: "defaults", wantFrom: "2025-06-01", wantTo: "2025-07-01"},
		{name: "from only", from: "2025-07-10", wantFrom: "2025-07-10", wantTo: "2025-08-09"},
		{name: "explicit", from: "2025-07-10", to: "2025-07-12", wantFrom: "2025-07-10", wantTo: "2025-07-12"},
		{name: "same day", from: "2025-07-10", to: "2025-07-10", wantFrom: "2025-07-10", wantTo: "2025-07-10"},
		{name: "reversed", from: "2025-07-10", to: "2025-07-09", wantErr: true},
		{name: "too long", from: "2025-01-01", to: "2026-01-03", wantErr: true},
		{name: "bad date", from: "07/10/2025", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, to, err := app.AvailabilityRange(tc.from, tc.to, now)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFrom, from)
			assert.Equal(t, tc.wantTo, to)
		})
	}
}

func TestAggregator_Availability(t *testing.T) {
	repo := villaContent()
	agg := newAggregator(repo, nil, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.UTC)

	rows, err := agg.Availability(context.Background(), unitA, "", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-06-01", rows[0].Date)

	repo.failOn = "availability_range"
	_, err = agg.Availability(context.Background(), unitA, "", "")
	assert.True(t, errors.Is(err, domain.ErrAggregation))
}
