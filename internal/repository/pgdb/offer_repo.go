package pgdb

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/repository/pgdb/converter"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/tr"
)

const offerColumns = `id, name, description, kind, product_ids, product_id, category_id, subcategory_id,
	discount_percent, start_at, end_at, enabled, created_at, updated_at`

// OfferRepo реализует репозиторий оферт поверх PostgreSQL.
type OfferRepo struct {
	pool *pgxpool.Pool
	conv converter.OfferConverter
}

func NewOfferRepo(pool *pgxpool.Pool, conv converter.OfferConverter) *OfferRepo {
	return &OfferRepo{pool: pool, conv: conv}
}

func (o *OfferRepo) Create(ctx context.Context, offer *domain.Offer) (*domain.Offer, error) {
	q := tr.QuerierFromCtx(ctx, o.pool)
	m := o.conv.ToModel(offer)

	query := `
		INSERT INTO offers (
			id, name, description, kind, product_ids, product_id, category_id, subcategory_id,
			discount_percent, start_at, end_at, enabled
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + offerColumns

	created, err := scanOffer(q.QueryRow(ctx, query,
		m.ID, m.Name, m.Description, m.Kind, m.ProductIDs, m.ProductID, m.CategoryID, m.SubcategoryID,
		m.DiscountPercent, m.StartAt, m.EndAt, m.Enabled,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(created), nil
}

// Update перезаписывает оферту целиком; поля чужих видов обнуляются.
func (o *OfferRepo) Update(ctx context.Context, offer *domain.Offer) (*domain.Offer, error) {
	q := tr.QuerierFromCtx(ctx, o.pool)
	m := o.conv.ToModel(offer)

	query := `
		UPDATE offers SET
			name = $2,
			description = $3,
			kind = $4,
			product_ids = $5,
			product_id = $6,
			category_id = $7,
			subcategory_id = $8,
			discount_percent = $9,
			start_at = $10,
			end_at = $11,
			enabled = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + offerColumns

	updated, err := scanOffer(q.QueryRow(ctx, query,
		m.ID, m.Name, m.Description, m.Kind, m.ProductIDs, m.ProductID, m.CategoryID, m.SubcategoryID,
		m.DiscountPercent, m.StartAt, m.EndAt, m.Enabled,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOfferNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(updated), nil
}

func (o *OfferRepo) Delete(ctx context.Context, id string) error {
	q := tr.QuerierFromCtx(ctx, o.pool)

	tag, err := q.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrOfferNotFound)
	}

	return nil
}

// Toggle атомарно переключает флаг enabled.
func (o *OfferRepo) Toggle(ctx context.Context, id string) (*domain.Offer, error) {
	q := tr.QuerierFromCtx(ctx, o.pool)

	query := `
		UPDATE offers SET enabled = NOT enabled, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + offerColumns

	m, err := scanOffer(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOfferNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(m), nil
}

func (o *OfferRepo) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	q := tr.QuerierFromCtx(ctx, o.pool)

	m, err := scanOffer(q.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOfferNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(m), nil
}

// List возвращает страницу оферт, новые сверху. При limit <= 0 без ограничения.
func (o *OfferRepo) List(ctx context.Context, search string, limit, offset int) ([]domain.Offer, int, error) {
	q := tr.QuerierFromCtx(ctx, o.pool)

	var pattern *string
	if s := strings.TrimSpace(search); s != "" {
		p := "%" + escapeLike(s) + "%"
		pattern = &p
	}

	where := ` WHERE $1::TEXT IS NULL OR name ILIKE $1 OR description ILIKE $1`

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM offers`+where, pattern).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := q.Query(ctx, `SELECT `+offerColumns+` FROM offers`+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, pattern, lim, offset)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	offers, err := o.collect(rows)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return offers, total, nil
}

func (o *OfferRepo) ListEnabled(ctx context.Context) ([]domain.Offer, error) {
	q := tr.QuerierFromCtx(ctx, o.pool)

	rows, err := q.Query(ctx, `SELECT `+offerColumns+` FROM offers
		WHERE enabled
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	offers, err := o.collect(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return offers, nil
}

func (o *OfferRepo) collect(rows pgx.Rows) ([]domain.Offer, error) {
	defer rows.Close()

	result := make([]domain.Offer, 0)
	for rows.Next() {
		m, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o.conv.ToEntity(m))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func scanOffer(row pgx.Row) (*converter.OfferModel, error) {
	var m converter.OfferModel
	if err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.Kind, &m.ProductIDs, &m.ProductID, &m.CategoryID, &m.SubcategoryID,
		&m.DiscountPercent, &m.StartAt, &m.EndAt, &m.Enabled, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
