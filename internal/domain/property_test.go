package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"lite_pages/internal/domain"
)

func f64(v float64) *float64 { return &v }

func TestDisplayPricePrecedence(t *testing.T) {
	cases := []struct {
		name string
		in   domain.Availability
		want *float64
	}{
		{"direct beats standard and cm", domain.Availability{DirectPrice: f64(80), StandardPrice: f64(100), CMPrice: f64(120)}, f64(80)},
		{"standard beats cm", domain.Availability{StandardPrice: f64(100), CMPrice: f64(120)}, f64(100)},
		{"cm only", domain.Availability{CMPrice: f64(120)}, f64(120)},
		{"no price", domain.Availability{}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.DisplayPrice()
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("want nil, got %v", *got)
			case tc.want != nil && got == nil:
				t.Fatalf("want %v, got nil", *tc.want)
			case tc.want != nil && *got != *tc.want:
				t.Fatalf("want %v, got %v", *tc.want, *got)
			}
		})
	}
}

func TestDisplayPriceIsACopy(t *testing.T) {
	a := domain.Availability{DirectPrice: f64(80)}
	*a.DisplayPrice() = 1
	if *a.DirectPrice != 80 {
		t.Fatalf("stored price changed to %v", *a.DirectPrice)
	}
}

func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"Seaside-Villa":  "seaside-villa",
		"  Casa Azul  ":  "casa-azul",
		"villa_2024!":    "villa-2024-",
		"already-ok-123": "already-ok-123",
		"ÄBC":            "-bc",
		"":               "",
	}
	for in, want := range cases {
		got := domain.NormalizeSlug(in)
		if got != want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", in, got, want)
		}
		if again := domain.NormalizeSlug(got); again != got {
			t.Fatalf("not idempotent: %q -> %q", got, again)
		}
		for _, r := range got {
			if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
				t.Fatalf("unexpected rune %q in %q", r, got)
			}
		}
	}
}

func TestAverageRating(t *testing.T) {
	reviews := []domain.Review{{Rating: 4}, {Rating: 5}, {Rating: 5}}

	if got := domain.AverageRating(nil, reviews); got == nil || *got != 4.7 {
		t.Fatalf("mean of 4,5,5: got %v", got)
	}
	if got := domain.AverageRating(f64(4.26), reviews); got == nil || *got != 4.3 {
		t.Fatalf("stored average should win: got %v", got)
	}
	if got := domain.AverageRating(nil, nil); got != nil {
		t.Fatalf("no data should be nil, got %v", *got)
	}
}

func TestPrimaryUnitFor(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lo := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	hi := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	units := []domain.Unit{
		{ID: uuid.New(), Name: "hidden and oldest", Hidden: true, CreatedAt: t0.Add(-time.Hour)},
		{ID: hi, Name: "tie, higher id", CreatedAt: t0},
		{ID: uuid.New(), Name: "newer", CreatedAt: t0.Add(time.Hour)},
		{ID: lo, Name: "tie, lower id", CreatedAt: t0},
	}
	got := domain.PrimaryUnitFor(units)
	if got == nil || got.ID != lo {
		t.Fatalf("want %s, got %+v", lo, got)
	}

	got.Name = "changed"
	if units[3].Name != "tie, lower id" {
		t.Fatalf("result aliases the input slice")
	}

	if got := domain.PrimaryUnitFor([]domain.Unit{{Hidden: true}}); got != nil {
		t.Fatalf("only hidden units: want nil, got %+v", got)
	}
	if got := domain.PrimaryUnitFor(nil); got != nil {
		t.Fatalf("no units: want nil, got %+v", got)
	}
}
