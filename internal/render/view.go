package render

import (
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"lite_pages/internal/domain"
)

// Options carries the URLs a rendered document links to.
type Options struct {
	CanonicalURL string // https://<host>/<slug>
	QRURL        string // /<slug>/qr
	CardURL      string
	BookingURL   string // empty: the booking form submits to CanonicalURL
}

const (
	thumbSlots       = 4
	defaultMaxGuests = 8
)

var (
	hexColor    = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
	knownThemes = map[string]bool{"default": true, "dark": true, "light": true, "luxury": true}
)

var currencySigns = map[string]string{
	"EUR": "€", "USD": "$", "GBP": "£", "JPY": "¥", "CHF": "CHF ", "AUD": "A$", "CAD": "C$",
	"HRK": "kn ", "SEK": "kr ", "NOK": "kr ", "DKK": "kr ", "PLN": "zł ", "TRY": "₺", "INR": "₹",
}

type imageView struct {
	URL     string
	Caption string
	Index   int
}

type reviewView struct {
	Name    string
	Rating  float64
	Stars   string
	Comment string
	Date    string
}

type unitView struct {
	Name        string
	Description string
	Bedrooms    int
	Bathrooms   int
	Beds        int
	MaxGuests   int
	Size        string
}

// pageView is the flattened template input shared by every document.
type pageView struct {
	Slug     string
	Title    string
	Tagline  string
	Location string
	Address  string
	Theme    string
	Accent   template.CSS

	Rating      string
	ReviewCount int
	Reviews     []reviewView

	Hero      *imageView
	Thumbs    []imageView
	MoreCount int
	Gallery   []imageView

	Description string
	Unit        *unitView
	Amenities   []domain.AmenityGroup
	Stats       domain.RoomStats

	CheckIn      string
	CheckOut     string
	Cancellation string
	HouseRules   template.HTML
	Pets         bool
	Children     bool

	MapURL  string
	MapLink string

	Price    string
	MinStay  int
	Currency string
	Adults   []int
	Kids     []int

	Badge      string
	OfferTitle string

	HostName  string
	HostEmail string
	HostPhone string

	ShowPricing      bool
	ShowAvailability bool
	ShowReviews      bool
	ShowQR           bool

	CanonicalURL string
	QRURL        string
	CardURL      string
	BookingURL   string
}

func (r *Renderer) view(p domain.LitePage, o Options) pageView {
	e := p.Entry
	v := pageView{
		Slug:             e.Slug,
		Title:            p.DisplayTitle(),
		Tagline:          str(e.Tagline),
		Location:         p.Property.Location(),
		Address:          str(p.Property.Address),
		Theme:            themeOf(e.Theme),
		Accent:           accentOf(e.AccentColor),
		ReviewCount:      len(p.Content.Reviews),
		Description:      str(p.Property.Description),
		Amenities:        p.Content.Amenities,
		Stats:            p.Content.Stats,
		CheckIn:          str(p.Property.CheckInTime),
		CheckOut:         str(p.Property.CheckOutTime),
		Cancellation:     str(p.Property.CancellationPolicy),
		Pets:             p.Property.PetsAllowed,
		Children:         p.Property.ChildrenAllowed,
		Currency:         p.Property.Currency,
		ShowPricing:      e.ShowPricing,
		ShowAvailability: e.ShowAvailability,
		ShowReviews:      e.ShowReviews,
		ShowQR:           e.ShowQR,
		CanonicalURL:     o.CanonicalURL,
		QRURL:            o.QRURL,
		CardURL:          o.CardURL,
		BookingURL:       o.BookingURL,
	}
	if v.BookingURL == "" {
		v.BookingURL = o.CanonicalURL
	}

	if avg := p.AverageRating(); avg != nil {
		v.Rating = strconv.FormatFloat(*avg, 'f', 1, 64)
	}
	for _, rv := range p.Content.Reviews {
		v.Reviews = append(v.Reviews, reviewView{
			Name:    orText(rv.ReviewerName, "Guest"),
			Rating:  rv.Rating,
			Stars:   stars(rv.Rating),
			Comment: str(rv.Comment),
			Date:    rv.ReviewDate.Format("January 2006"),
		})
	}

	for i, img := range p.Content.Images {
		v.Gallery = append(v.Gallery, imageView{URL: img.URL, Caption: str(img.Caption), Index: i})
	}
	if len(v.Gallery) > 0 {
		v.Hero = &v.Gallery[0]
		rest := v.Gallery[1:]
		if len(rest) > thumbSlots {
			rest = rest[:thumbSlots]
		}
		v.Thumbs = rest
		// the 5th slot (last thumbnail) carries the overlay
		if len(v.Gallery) > 1+thumbSlots {
			v.MoreCount = len(v.Gallery) - 1 - thumbSlots
		}
	}

	if u := p.Content.Unit; u != nil {
		uv := &unitView{
			Name:        u.Name,
			Description: str(u.Description),
			Bedrooms:    u.Bedrooms,
			Bathrooms:   u.Bathrooms,
			Beds:        u.Beds,
			MaxGuests:   u.MaxGuests,
		}
		if u.SizeSqm != nil {
			uv.Size = strconv.FormatFloat(*u.SizeSqm, 'f', -1, 64) + " m²"
		}
		v.Unit = uv
	}

	if p.Property.HouseRules != nil && strings.TrimSpace(*p.Property.HouseRules) != "" {
		// the only rich-text field; everything else is autoescaped
		v.HouseRules = template.HTML(r.policy.Sanitize(*p.Property.HouseRules))
	}

	if c := p.Property.Coords; c != nil {
		v.MapURL = fmt.Sprintf(
			"https://www.openstreetmap.org/export/embed.html?bbox=%.5f%%2C%.5f%%2C%.5f%%2C%.5f&layer=mapnik&marker=%.5f%%2C%.5f",
			c.Lon-0.01, c.Lat-0.01, c.Lon+0.01, c.Lat+0.01, c.Lat, c.Lon)
		v.MapLink = fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f#map=15/%.5f/%.5f", c.Lat, c.Lon, c.Lat, c.Lon)
	}

	maxGuests := p.Content.Stats.MaxGuests
	if maxGuests <= 0 {
		maxGuests = defaultMaxGuests
	}
	v.Adults = seq(1, maxGuests)
	if v.Children {
		v.Kids = seq(0, maxGuests-1)
	}

	if price := p.DisplayPrice(); price != nil {
		v.Price = FormatPrice(*price, p.Property.Currency)
		v.MinStay = p.Content.Today.MinStay
	}

	if off := p.Offer; off != nil {
		v.Badge = fmt.Sprintf("🔥 %s%% OFF", strconv.FormatFloat(off.DiscountPercent, 'f', -1, 64))
		v.OfferTitle = str(off.Title)
	}

	if a := p.Account; a != nil {
		v.HostName = a.Name
		v.HostEmail = str(a.Email)
		v.HostPhone = str(a.Phone)
	}
	return v
}

// FormatPrice renders amount with the currency's sign, without decimals for whole amounts.
func FormatPrice(amount float64, currency string) string {
	num := strconv.FormatFloat(amount, 'f', 2, 64)
	if amount == float64(int64(amount)) {
		num = strconv.FormatInt(int64(amount), 10)
	}
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if sign, ok := currencySigns[cur]; ok {
		return sign + num
	}
	if cur == "" {
		return num
	}
	return cur + " " + num
}

func themeOf(t string) string {
	if knownThemes[t] {
		return t
	}
	return domain.DefaultTheme
}

func accentOf(c string) template.CSS {
	if !hexColor.MatchString(c) {
		c = domain.DefaultAccent
	}
	// validated hex literal
	return template.CSS(c)
}

// IsValidAccent reports whether c is a #rgb or #rrggbb color.
func IsValidAccent(c string) bool { return hexColor.MatchString(c) }

// IsKnownTheme reports whether t names a bundled stylesheet theme.
func IsKnownTheme(t string) bool { return knownThemes[t] }

func stars(rating float64) string {
	n := int(rating + 0.5)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func orText(p *string, def string) string {
	if s := str(p); s != "" {
		return s
	}
	return def
}
