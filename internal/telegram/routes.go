package telegram

import (
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/telegram-gpt-relay/internal/config"
)

// RegisterRoutes mounts the relay endpoints. POST /send-announcement also
// answers 400 for empty text, an extension beyond its 401/501/500/200 set
// so that blank posts never reach the channel.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Health)
	r.Get("/webhook-info", h.WebhookInfo)
	r.Post(config.WebhookPath, h.HandleWebhook)
	r.Post("/send-announcement", h.SendAnnouncement)
}
