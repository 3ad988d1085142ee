package usecase

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

// ContactUseCase принимает обращения из формы обратной связи.
type ContactUseCase struct {
	contactRepo ContactRepository
	txManager   TxManager
	outbox      outbox
	logger      logger.Logger
}

func NewContactUC(
	contactRepo ContactRepository,
	txManager TxManager,
	outboxRepo OutboxRepository,
	encoder EventEncoder,
	logger logger.Logger,
) *ContactUseCase {
	return &ContactUseCase{
		contactRepo: contactRepo,
		txManager:   txManager,
		outbox:      outbox{repo: outboxRepo, encoder: encoder},
		logger:      logger,
	}
}

// SubmitContact сохраняет обращение и в той же транзакции пишет событие contact.submitted.
func (c *ContactUseCase) SubmitContact(ctx context.Context, req *ContactReq) (*domain.ContactMessage, error) {
	const op = "ContactUseCase.SubmitContact"

	msg, err := buildContactMessage(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var saved *domain.ContactMessage
	err = c.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		saved, err = c.contactRepo.Create(ctx, msg)
		if err != nil {
			return err
		}

		return c.outbox.emit(ctx, ContactSubmitted, saved.ID, map[string]any{
			"name":    saved.Name,
			"email":   saved.Email,
			"phone":   saved.Phone,
			"message": saved.Message,
		})
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("Contact message %s received", saved.ID)
	return saved, nil
}

func buildContactMessage(req *ContactReq) (*domain.ContactMessage, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.ErrContactNameRequired
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil || addr.Name != "" {
		return nil, e.ErrContactInvalidEmail
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, e.ErrContactMessageRequired
	}

	return domain.NewContactMessage(
		uuid.NewString(),
		name,
		strings.ToLower(addr.Address),
		strings.TrimSpace(req.Phone),
		message,
	), nil
}
