package telegram

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-telegram/bot/models"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler serves POST /webhook. Updates are processed synchronously and
// always acknowledged with 200 so Telegram does not redeliver them.
func (h *Handler) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret := h.cfg.WebhookSecret; secret != "" {
			got := r.Header.Get(secretTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				slog.Warn("Webhook call with bad secret token", "remote_addr", r.RemoteAddr)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		var update models.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			slog.Warn("Undecodable webhook payload", "error", err)
		} else {
			h.HandleUpdate(r.Context(), &update)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
}
