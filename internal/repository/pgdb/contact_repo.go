package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/repository/pgdb/converter"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/tr"
)

type ContactRepo struct {
	pool *pgxpool.Pool
	conv converter.ContactMessageConverter
}

func NewContactRepo(pool *pgxpool.Pool, conv converter.ContactMessageConverter) *ContactRepo {
	return &ContactRepo{pool: pool, conv: conv}
}

func (c *ContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)
	m := c.conv.ToModel(msg)

	err := q.QueryRow(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, m.ID, m.Name, m.Email, m.Phone, m.Message).Scan(&m.CreatedAt)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(m), nil
}
