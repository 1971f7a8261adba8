package httpserver

import (
	"net/http"

	"wastetrack/internal/platform/config"
)

// New builds the inbound HTTP server. Timeouts come from configuration: the
// write timeout in particular must outlast a synchronous Amice validation
// call, which the create and update endpoints wait on.
func New(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
