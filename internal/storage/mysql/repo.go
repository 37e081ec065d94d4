package mysql

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"lite_pages/internal/domain"
)

const errDuplicateEntry = 1062

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
func nullF64(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- lite pages ----

type liteRow struct {
	e              domain.LiteEntry
	title, tagline sql.NullString
}

func (r *liteRow) dest() []any {
	return []any{
		&r.e.ID, &r.e.PropertyID, &r.e.AccountID, &r.e.Slug, &r.title, &r.tagline,
		&r.e.Theme, &r.e.AccentColor,
		&r.e.ShowPricing, &r.e.ShowAvailability, &r.e.ShowReviews, &r.e.ShowQR, &r.e.Active,
		&r.e.Views, &r.e.CreatedAt, &r.e.UpdatedAt,
	}
}

func (r *liteRow) entry() domain.LiteEntry {
	e := r.e
	e.Title = nullStr(r.title)
	e.Tagline = nullStr(r.tagline)
	return e
}

func (r *Repo) Create(ctx context.Context, e domain.LiteEntry) error {
	_, err := r.db.ExecContext(ctx, insertLiteSQL,
		e.ID,
		e.PropertyID,
		e.AccountID,
		e.Slug,
		valStr(e.Title),
		valStr(e.Tagline),
		e.Theme,
		e.AccentColor,
		e.ShowPricing,
		e.ShowAvailability,
		e.ShowReviews,
		e.ShowQR,
		e.Active,
	)
	if isDuplicate(err) {
		return errors.Mark(errors.Wrapf(err, "insert lite %q", e.Slug), domain.ErrSlugTaken)
	}
	return errors.Wrap(err, "insert lite")
}

func (r *Repo) Update(ctx context.Context, id uuid.UUID, p domain.LitePatch) error {
	_, err := r.db.ExecContext(ctx, updateLiteSQL,
		valStr(p.Title),
		valStr(p.Tagline),
		valStr(p.Theme),
		valStr(p.AccentColor),
		valBool(p.ShowPricing),
		valBool(p.ShowAvailability),
		valBool(p.ShowReviews),
		valBool(p.ShowQR),
		valBool(p.Active),
		id,
	)
	return errors.Wrap(err, "update lite")
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, deleteLiteSQL, id)
	return errors.Wrap(err, "delete lite")
}

func (r *Repo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, incrementViewsSQL, id)
	return errors.Wrap(err, "increment views")
}

func (r *Repo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, slugExistsSQL, slug).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "check slug")
	}
	return exists, nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (domain.LiteEntry, error) {
	var lr liteRow
	if err := r.db.QueryRowContext(ctx, getLiteSQL, id).Scan(lr.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LiteEntry{}, domain.ErrNotFound
		}
		return domain.LiteEntry{}, errors.Wrap(err, "get lite")
	}
	return lr.entry(), nil
}

func (r *Repo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.LiteEntry, error) {
	rows, err := r.db.QueryContext(ctx, listLitesByAccountSQL, accountID)
	if err != nil {
		return nil, errors.Wrap(err, "list lites by account")
	}
	defer rows.Close()

	out := make([]domain.LiteEntry, 0, 4)
	for rows.Next() {
		var lr liteRow
		if err := rows.Scan(lr.dest()...); err != nil {
			return nil, errors.Wrap(err, "scan lite")
		}
		out = append(out, lr.entry())
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list lites by account")
	}
	return out, nil
}

func (r *Repo) LatestByProperty(ctx context.Context, propertyID uuid.UUID) (*domain.LiteEntry, error) {
	var lr liteRow
	if err := r.db.QueryRowContext(ctx, latestLiteByPropertySQL, propertyID).Scan(lr.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "lite by property")
	}
	e := lr.entry()
	return &e, nil
}

func (r *Repo) Resolve(ctx context.Context, slug string) (domain.ResolvedLite, error) {
	var (
		lr                                 liteRow
		p                                  domain.Property
		city, country, addr, desc, rules   sql.NullString
		checkIn, checkOut, cancel          sql.NullString
		rating, lat, lon                   sql.NullFloat64
		accID, accName, accEmail, accPhone sql.NullString
	)
	dest := append(lr.dest(),
		&p.ID, &p.AccountID, &p.Name, &city, &country, &addr, &desc, &rules,
		&checkIn, &checkOut, &cancel, &p.Currency, &rating,
		&p.PetsAllowed, &p.ChildrenAllowed, &lat, &lon,
		&accID, &accName, &accEmail, &accPhone,
	)
	if err := r.db.QueryRowContext(ctx, resolveLiteSQL, slug).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ResolvedLite{}, domain.ErrNotFound
		}
		return domain.ResolvedLite{}, errors.Wrap(err, "resolve lite")
	}

	p.City = nullStr(city)
	p.Country = nullStr(country)
	p.Address = nullStr(addr)
	p.Description = nullStr(desc)
	p.HouseRules = nullStr(rules)
	p.CheckInTime = nullStr(checkIn)
	p.CheckOutTime = nullStr(checkOut)
	p.CancellationPolicy = nullStr(cancel)
	p.RatingAvg = nullF64(rating)
	if lat.Valid && lon.Valid {
		p.Coords = &domain.Coords{Lat: lat.Float64, Lon: lon.Float64}
	}

	out := domain.ResolvedLite{Entry: lr.entry(), Property: p}
	if accID.Valid {
		if id, err := uuid.Parse(accID.String); err == nil {
			out.Account = &domain.Account{
				ID:    id,
				Name:  accName.String,
				Email: nullStr(accEmail),
				Phone: nullStr(accPhone),
			}
		}
	}
	return out, nil
}
