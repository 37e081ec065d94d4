package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	"lite_pages/internal/domain"
)

func (r *Repo) FindActiveOffer(ctx context.Context, code string, now time.Time) (*domain.Offer, error) {
	now = now.UTC()
	var (
		o           domain.Offer
		title       sql.NullString
		from, until sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, findActiveOfferSQL, code, now, now).
		Scan(&o.ID, &o.Code, &title, &o.DiscountPercent, &o.Active, &from, &until)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find offer")
	}
	o.Title = nullStr(title)
	if from.Valid {
		t := from.Time
		o.ValidFrom = &t
	}
	if until.Valid {
		t := until.Time
		o.ValidUntil = &t
	}
	return &o, nil
}
