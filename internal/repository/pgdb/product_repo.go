package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/repository/pgdb/converter"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/tr"
)

const productColumns = `id, name, description, price, category_id, subcategory_id, image_url, stock, created_at, updated_at`

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет новый товар. Работает как в транзакции, так и без неё.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)
	m := p.conv.ToModel(product)

	query := `
		INSERT INTO products (id, name, description, price, category_id, subcategory_id, image_url, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns

	row := q.QueryRow(ctx, query,
		m.ID, m.Name, m.Description, m.Price, m.CategoryID, m.SubcategoryID, m.ImageURL, m.Stock,
	)

	created, err := scanProduct(row)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(created), nil
}

// Update перезаписывает редактируемые поля товара.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)
	m := p.conv.ToModel(product)

	query := `
		UPDATE products SET
			name = $2,
			description = $3,
			price = $4,
			category_id = $5,
			subcategory_id = $6,
			image_url = $7,
			stock = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	row := q.QueryRow(ctx, query,
		m.ID, m.Name, m.Description, m.Price, m.CategoryID, m.SubcategoryID, m.ImageURL, m.Stock,
	)

	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(updated), nil
}

func (p *ProductRepo) Delete(ctx context.Context, id string) error {
	q := tr.QuerierFromCtx(ctx, p.pool)

	tag, err := q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	row := q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	model, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// GetByIDs возвращает найденные товары; отсутствующие идентификаторы пропускаются.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY name, id`, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := p.collect(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}

// List возвращает страницу каталога и общее число товаров под фильтром.
func (p *ProductRepo) List(ctx context.Context, filter usecase.ProductListFilter) ([]domain.Product, int, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	where, args := productWhere(filter)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY ` + productOrder(filter.Sort)
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := p.collect(rows)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, total, nil
}

func (p *ProductRepo) collect(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p.conv.ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var m converter.ProductModel
	if err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.Price, &m.CategoryID, &m.SubcategoryID,
		&m.ImageURL, &m.Stock, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// productWhere собирает условие WHERE и позиционные аргументы для фильтра каталога.
func productWhere(filter usecase.ProductListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CategoryID != "" {
		add("category_id = $%d", filter.CategoryID)
	}
	if filter.SubcategoryID != "" {
		add("subcategory_id = $%d", filter.SubcategoryID)
	}
	if filter.MinPrice != nil {
		add("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price <= $%d", *filter.MaxPrice)
	}
	if s := strings.TrimSpace(filter.Query); s != "" {
		add("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+escapeLike(s)+"%")
	}

	if len(conds) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func productOrder(sort usecase.ProductSort) string {
	switch sort {
	case usecase.SortPriceAsc:
		return "price ASC, id ASC"
	case usecase.SortPriceDesc:
		return "price DESC, id ASC"
	case usecase.SortName:
		return "name ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// escapeLike экранирует спецсимволы шаблона LIKE, чтобы поиск был подстрочным.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
