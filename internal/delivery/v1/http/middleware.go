package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type sessionKey struct{}

// accessLog пишет одну JSON-строку на запрос.
func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := zapcore.InfoLevel
			if status >= http.StatusInternalServerError {
				level = zapcore.ErrorLevel
			}

			if ce := log.Check(level, "http request"); ce != nil {
				ce.Write(
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote_ip", r.RemoteAddr),
				)
			}
		})
	}
}

// adminOnly пропускает только запросы с действующей сессией администратора.
func adminOnly(auth usecase.AuthUC, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				WriteError(w, e.ErrUnauthorized)
				return
			}

			session, err := auth.Session(r.Context(), token)
			if err != nil {
				if code, _ := ToHTTPResponse(err); code == http.StatusInternalServerError {
					log.Errorf(err, "session lookup failed")
				}
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
		})
	}
}

func sessionFromCtx(ctx context.Context) (*domain.AdminSession, bool) {
	s, ok := ctx.Value(sessionKey{}).(*domain.AdminSession)
	return s, ok
}
