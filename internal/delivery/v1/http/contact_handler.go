package http

import (
	"net/http"

	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

type ContactHandler struct {
	contactUsecase usecase.ContactUC
	logger         logger.Logger
}

func NewContactHandler(contactUsecase usecase.ContactUC, logger logger.Logger) *ContactHandler {
	return &ContactHandler{contactUsecase: contactUsecase, logger: logger}
}

// submitContact
//
//	@Summary	Форма обратной связи
//	@Tags		contact
//	@Accept		json
//	@Produce	json
//	@Param		message	body		ContactRequest	true	"Обращение"
//	@Success	201		{object}	ContactResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/contact [post]
func (c *ContactHandler) submitContact(w http.ResponseWriter, r *http.Request) {
	var body ContactRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	msg, err := c.contactUsecase.SubmitContact(r.Context(), &usecase.ContactReq{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Message: body.Message,
	})
	if err != nil {
		respondError(c.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, ContactResponse{ID: msg.ID, CreatedAt: msg.CreatedAt})
}
