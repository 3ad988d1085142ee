package domain

import "time"

// AdminSession: сессия администратора, выданная после входа
type AdminSession struct {
	Token     string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}
