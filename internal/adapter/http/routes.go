package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/hookline/hookline/internal/config"
	"github.com/hookline/hookline/internal/middleware"
)

// MountRoutes registers all routes on the given chi router. The webhook
// route lives at the configured path and is guarded by HMAC signature
// verification; everything else is unauthenticated glue for operators.
func MountRoutes(r chi.Router, h *Handlers, webhookCfg config.Webhook) {
	r.With(middleware.WebhookHMAC(webhookCfg.Secret, middleware.SignatureHeader)).
		Post(webhookCfg.Path, h.HandleWebhook)

	r.Get("/health", h.Health)
	r.Get("/oauth/callback", h.OAuthCallback)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/teams", h.ListTeams)
		r.Get("/teams/{id}/issues", h.ListTeamIssues)
		r.Post("/issues/{id}/comments", h.CreateIssueComment)
	})
}
