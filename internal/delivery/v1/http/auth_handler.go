package http

import (
	"net/http"

	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, logger: logger}
}

// signIn
//
//	@Summary	Вход администратора
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		credentials	body		SignInRequest	true	"Email и пароль"
//	@Success	201			{object}	SessionResponse
//	@Failure	401			{object}	ErrorResponse
//	@Router		/admin/sessions [post]
func (a *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var body SignInRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	session, err := a.authUsecase.SignIn(r.Context(), &usecase.SignInReq{Email: body.Email, Password: body.Password})
	if err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, SessionResponse{
		Token:     session.Token,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}

// currentSession
//
//	@Summary	Текущая сессия
//	@Tags		auth
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	SessionResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/admin/sessions/current [get]
func (a *AuthHandler) currentSession(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromCtx(r.Context())
	if !ok {
		respondError(a.logger, w, r, e.ErrUnauthorized)
		return
	}

	WriteSuccess(w, http.StatusOK, SessionResponse{Email: session.Email, ExpiresAt: session.ExpiresAt})
}

// signOut
//
//	@Summary	Выход
//	@Tags		auth
//	@Security	BearerAuth
//	@Success	204
//	@Router		/admin/sessions [delete]
func (a *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromCtx(r.Context())
	if !ok {
		respondError(a.logger, w, r, e.ErrUnauthorized)
		return
	}

	if err := a.authUsecase.SignOut(r.Context(), session.Token); err != nil {
		respondError(a.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
