package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"lite_pages/internal/domain"
	"lite_pages/internal/render"
)

const maxBodyBytes = 64 << 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("accent", func(fl validator.FieldLevel) bool {
		return render.IsValidAccent(fl.Field().String())
	})
	_ = v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		return render.IsKnownTheme(fl.Field().String())
	})
	return v
}

// Nil pointers mean "not sent"; a pointer to "" or false is an explicit value.
type createLiteRequest struct {
	PropertyID       string  `json:"property_id" validate:"required,uuid"`
	AccountID        string  `json:"account_id" validate:"required,uuid"`
	Slug             string  `json:"slug" validate:"required,max=120"`
	Title            *string `json:"title" validate:"omitnil,max=200"`
	Tagline          *string `json:"tagline" validate:"omitnil,max=300"`
	Theme            *string `json:"theme" validate:"omitnil,theme"`
	AccentColor      *string `json:"accent_color" validate:"omitnil,accent"`
	ShowPricing      *bool   `json:"show_pricing"`
	ShowAvailability *bool   `json:"show_availability"`
	ShowReviews      *bool   `json:"show_reviews"`
	ShowQR           *bool   `json:"show_qr"`
}

func (r createLiteRequest) toDomain() domain.NewLite {
	return domain.NewLite{
		PropertyID:       uuid.MustParse(r.PropertyID),
		AccountID:        uuid.MustParse(r.AccountID),
		Slug:             r.Slug,
		Title:            r.Title,
		Tagline:          r.Tagline,
		Theme:            r.Theme,
		AccentColor:      r.AccentColor,
		ShowPricing:      r.ShowPricing,
		ShowAvailability: r.ShowAvailability,
		ShowReviews:      r.ShowReviews,
		ShowQR:           r.ShowQR,
	}
}

type updateLiteRequest struct {
	Title            *string `json:"title" validate:"omitnil,max=200"`
	Tagline          *string `json:"tagline" validate:"omitnil,max=300"`
	Theme            *string `json:"theme" validate:"omitnil,theme"`
	AccentColor      *string `json:"accent_color" validate:"omitnil,accent"`
	ShowPricing      *bool   `json:"show_pricing"`
	ShowAvailability *bool   `json:"show_availability"`
	ShowReviews      *bool   `json:"show_reviews"`
	ShowQR           *bool   `json:"show_qr"`
	IsActive         *bool   `json:"is_active"`
}

func (r updateLiteRequest) toDomain() domain.LitePatch {
	return domain.LitePatch{
		Title:            r.Title,
		Tagline:          r.Tagline,
		Theme:            r.Theme,
		AccentColor:      r.AccentColor,
		ShowPricing:      r.ShowPricing,
		ShowAvailability: r.ShowAvailability,
		ShowReviews:      r.ShowReviews,
		ShowQR:           r.ShowQR,
		Active:           r.IsActive,
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// Every failure is an ErrInvalidInput carrying a client-safe message.
func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errors.Mark(errors.New("Invalid JSON body"), domain.ErrInvalidInput)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.Mark(errors.New(fieldMessage(verrs[0])), domain.ErrInvalidInput)
		}
		return errors.Mark(errors.New("Invalid request"), domain.ErrInvalidInput)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "uuid":
		return fe.Field() + " must be a UUID"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "theme":
		return "theme must be one of default, dark, light, luxury"
	case "accent":
		return "accent_color must be a hex color like #3b82f6"
	default:
		return fe.Field() + " is invalid"
	}
}
