package middleware

import (
	"net/http"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	"github.com/go-chi/cors"
)

// CORS returns middleware applying the storefront's allowed origin
// policy. Credentials stay enabled because the session rides a cookie.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
