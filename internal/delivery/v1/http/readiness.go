package http

import (
	"context"
	"net/http"
	"time"

	"github.com/plastyfilm/go-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Check проверяет одну внешнюю зависимость.
type Check func(ctx context.Context) error

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// readyz опрашивает зависимости и отвечает 503, если хотя бы одна недоступна.
// Причина пишется в лог, наружу уходит только статус.
func readyz(checks map[string]Check, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		res := ReadinessResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		code := http.StatusOK

		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Warnf("readiness check %s failed: %v", name, err)
				res.Checks[name] = "unavailable"
				res.Status = "unavailable"
				code = http.StatusServiceUnavailable
				continue
			}
			res.Checks[name] = "ok"
		}

		WriteSuccess(w, code, res)
	}
}
