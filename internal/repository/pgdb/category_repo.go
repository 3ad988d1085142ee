package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/repository/pgdb/converter"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/tr"
)

// CategoryRepo реализует репозиторий дерева категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// List возвращает все категории с подкатегориями в порядке отображения.
func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	rows, err := q.Query(ctx, `
		SELECT id, name, slug, icon, description, sort_order
		FROM categories
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models := make([]*converter.CategoryModel, 0)
	byID := make(map[string]*converter.CategoryModel)

	for rows.Next() {
		var m converter.CategoryModel
		if err := rows.Scan(&m.ID, &m.Name, &m.Slug, &m.Icon, &m.Description, &m.SortOrder); err != nil {
			rows.Close()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, &m)
		byID[m.ID] = &m
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	subs, err := c.subcategories(ctx, q, nil)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	for _, s := range subs {
		if cat, ok := byID[s.CategoryID]; ok {
			cat.Subcategories = append(cat.Subcategories, s)
		}
	}

	result := make([]domain.Category, 0, len(models))
	for _, m := range models {
		result = append(result, *c.conv.ToEntity(m))
	}

	return result, nil
}

func (c *CategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	var m converter.CategoryModel
	err := q.QueryRow(ctx, `
		SELECT id, name, slug, icon, description, sort_order
		FROM categories
		WHERE id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Slug, &m.Icon, &m.Description, &m.SortOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	m.Subcategories, err = c.subcategories(ctx, q, &id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&m), nil
}

// subcategories возвращает подкатегории одной категории или всех, если categoryID == nil.
func (c *CategoryRepo) subcategories(ctx context.Context, q tr.Querier, categoryID *string) ([]converter.SubcategoryModel, error) {
	rows, err := q.Query(ctx, `
		SELECT category_id, id, name, slug, sort_order
		FROM subcategories
		WHERE $1::TEXT IS NULL OR category_id = $1
		ORDER BY category_id, sort_order, id
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]converter.SubcategoryModel, 0)
	for rows.Next() {
		var s converter.SubcategoryModel
		if err := rows.Scan(&s.CategoryID, &s.ID, &s.Name, &s.Slug, &s.SortOrder); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, rows.Err()
}
