package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/collectra/backend/internal/config"
)

// Handler upgrades dashboard connections and hands them to the hub
type Handler struct {
	hub      *Hub
	config   *config.Config
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. Upgrades are limited to the
// configured dashboard origins; requests without an Origin header (non-browser
// clients) are allowed through.
func NewHandler(hub *Hub, cfg *config.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		logger: logger,
	}
}

// originChecker matches the request's Origin header against the allowed list
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("origin", r.Header.Get("Origin")).Msg("failed to upgrade connection")
		return
	}

	client := NewClient(h.hub, conn, h.config, h.logger)
	h.hub.register <- client
	client.Start()
}
