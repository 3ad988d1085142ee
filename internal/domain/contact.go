package domain

import "time"

// ContactMessage: обращение из формы обратной связи
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

func NewContactMessage(id, name, email, phone, message string) *ContactMessage {
	return &ContactMessage{
		ID:      id,
		Name:    name,
		Email:   email,
		Phone:   phone,
		Message: message,
	}
}
