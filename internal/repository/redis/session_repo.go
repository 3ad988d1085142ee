package redis

import (
	"context"
	"encoding/json"

	"github.com/jimlawless/whereami"
	"github.com/plastyfilm/go-backend/internal/clock"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/repository/redis/converter"
	"github.com/plastyfilm/go-backend/pkg/clients"
	"github.com/plastyfilm/go-backend/pkg/e"
	r "github.com/redis/go-redis/v9"
)

// SessionRepo хранит сессии администратора в Redis; ключ живёт до ExpiresAt.
type SessionRepo struct {
	client *clients.RedisClient
	clock  clock.Clock
}

func NewSessionRepo(client *clients.RedisClient, c clock.Clock) *SessionRepo {
	if c == nil {
		c = clock.System()
	}
	return &SessionRepo{client: client, clock: c}
}

func (s *SessionRepo) Create(ctx context.Context, session *domain.AdminSession) error {
	ttl := session.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrUnauthorized)
	}

	data, err := json.Marshal(converter.SessionRedisModel{
		Token:     session.Token,
		Email:     session.Email,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.client.Client.Set(ctx, sessionKey(session.Token), data, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *SessionRepo) Get(ctx context.Context, token string) (*domain.AdminSession, error) {
	data, err := s.client.Client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if err == r.Nil {
			return nil, e.ErrUnauthorized
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.SessionRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if !s.clock.Now().Before(model.ExpiresAt) {
		return nil, e.ErrUnauthorized
	}

	return &domain.AdminSession{
		Token:     model.Token,
		Email:     model.Email,
		CreatedAt: model.CreatedAt,
		ExpiresAt: model.ExpiresAt,
	}, nil
}

func (s *SessionRepo) Delete(ctx context.Context, token string) error {
	if err := s.client.Client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func sessionKey(token string) string {
	return "session:" + token
}

