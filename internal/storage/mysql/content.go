package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"lite_pages/internal/domain"
)

const dateLayout = "2006-01-02"

func (r *Repo) ListUnits(ctx context.Context, propertyID uuid.UUID) ([]domain.Unit, error) {
	rows, err := r.db.QueryContext(ctx, listUnitsSQL, propertyID)
	if err != nil {
		return nil, errors.Wrap(err, "list rooms")
	}
	defer rows.Close()

	var out []domain.Unit
	for rows.Next() {
		var (
			u    domain.Unit
			desc sql.NullString
			size sql.NullFloat64
		)
		if err := rows.Scan(
			&u.ID, &u.PropertyID, &u.Name, &desc,
			&u.MaxGuests, &u.Bedrooms, &u.Bathrooms, &u.Beds,
			&size, &u.Hidden, &u.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan room")
		}
		u.Description = nullStr(desc)
		u.SizeSqm = nullF64(size)
		out = append(out, u)
	}
	return out, errors.Wrap(rows.Err(), "list rooms")
}

func (r *Repo) ListUnitImages(ctx context.Context, unitID uuid.UUID, limit int) ([]domain.Image, error) {
	return r.listImages(ctx, listUnitImagesSQL, unitID, limit)
}

func (r *Repo) ListPropertyImages(ctx context.Context, propertyID uuid.UUID, limit int) ([]domain.Image, error) {
	return r.listImages(ctx, listPropertyImagesSQL, propertyID, limit)
}

func (r *Repo) listImages(ctx context.Context, query string, owner uuid.UUID, limit int) ([]domain.Image, error) {
	rows, err := r.db.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list images")
	}
	defer rows.Close()

	var out []domain.Image
	for rows.Next() {
		var (
			img     domain.Image
			caption sql.NullString
		)
		if err := rows.Scan(&img.ID, &img.URL, &caption, &img.IsPrimary, &img.DisplayOrder); err != nil {
			return nil, errors.Wrap(err, "scan image")
		}
		img.Caption = nullStr(caption)
		out = append(out, img)
	}
	return out, errors.Wrap(rows.Err(), "list images")
}

func (r *Repo) ListUnitAmenities(ctx context.Context, unitID uuid.UUID) ([]domain.Amenity, error) {
	rows, err := r.db.QueryContext(ctx, listUnitAmenitiesSQL, unitID)
	if err != nil {
		return nil, errors.Wrap(err, "list amenities")
	}
	defer rows.Close()

	var out []domain.Amenity
	for rows.Next() {
		var a domain.Amenity
		if err := rows.Scan(&a.Name, &a.Icon, &a.Category); err != nil {
			return nil, errors.Wrap(err, "scan amenity")
		}
		out = append(out, a)
	}
	return out, errors.Wrap(rows.Err(), "list amenities")
}

func (r *Repo) ListApprovedReviews(ctx context.Context, propertyID uuid.UUID, limit int) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listApprovedReviewsSQL, propertyID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var (
			rv            domain.Review
			name, comment sql.NullString
		)
		if err := rows.Scan(&rv.ID, &name, &rv.Rating, &comment, &rv.ReviewDate); err != nil {
			return nil, errors.Wrap(err, "scan review")
		}
		rv.ReviewerName = nullStr(name)
		rv.Comment = nullStr(comment)
		out = append(out, rv)
	}
	return out, errors.Wrap(rows.Err(), "list reviews")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAvailability(rs rowScanner) (domain.Availability, error) {
	var (
		a                  domain.Availability
		date               time.Time
		cm, direct, stdPri sql.NullFloat64
	)
	if err := rs.Scan(&a.RoomID, &date, &cm, &direct, &stdPri, &a.MinStay, &a.Available); err != nil {
		return domain.Availability{}, err
	}
	a.Date = date.Format(dateLayout)
	a.CMPrice = nullF64(cm)
	a.DirectPrice = nullF64(direct)
	a.StandardPrice = nullF64(stdPri)
	return a, nil
}

func (r *Repo) GetAvailability(ctx context.Context, unitID uuid.UUID, date string) (*domain.Availability, error) {
	a, err := scanAvailability(r.db.QueryRowContext(ctx, getAvailabilitySQL, unitID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get availability")
	}
	return &a, nil
}

func (r *Repo) ListAvailability(ctx context.Context, unitID uuid.UUID, from, to string) ([]domain.Availability, error) {
	rows, err := r.db.QueryContext(ctx, listAvailabilitySQL, unitID, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "list availability")
	}
	defer rows.Close()

	out := make([]domain.Availability, 0, 32)
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan availability")
		}
		out = append(out, a)
	}
	return out, errors.Wrap(rows.Err(), "list availability")
}
