package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS restricts browser access to the configured dashboard origins. The API
// is unauthenticated and cookie-free, so no credential headers are allowed.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler
}
