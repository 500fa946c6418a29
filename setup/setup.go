package setup

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-server/config"
	"blog-server/db"
	"blog-server/email"
	"blog-server/handlers"
	"blog-server/routes"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

func MustInitDb(cfg *config.Config) {
	err := db.Connect(cfg.DatabaseUrl)
	if err != nil {
		zap.S().Fatalf("Error initializing database: %v", err)
	}

	err = db.MigrationsUp()
	if err != nil {
		zap.S().Fatalf("Error running migrations: %v", err)
	}
}

// InitServices wires the session store and mail transport from cfg.
func InitServices(cfg *config.Config) {
	handlers.InitSessions(cfg.SecretKey, !cfg.IsDevelopment())
	email.Configure(cfg)
}

// Handler returns the full middleware chain around r, including csrf protection
// for every state-changing form.
func Handler(cfg *config.Config, r *mux.Router) http.Handler {
	routes.AddRoutes(r)

	csrfKey := sha256.Sum256([]byte("csrf:" + cfg.SecretKey))
	protect := csrf.Protect(
		csrfKey[:],
		csrf.Secure(!cfg.IsDevelopment()),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(handlers.ForbiddenHandler)),
	)

	return markPlaintext(protect(r))
}

// markPlaintext lets csrf skip its https-only referer check for requests that
// did not arrive over tls, either directly or through a proxy.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

// StartServer serves until SIGTERM or SIGINT, then drains in-flight requests.
func StartServer(cfg *config.Config, r *mux.Router) error {
	if cfg.IsDevelopment() {
		zap.S().Info("In development mode.")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      Handler(cfg, r),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		zap.S().Infof("Started server on port %s", cfg.Port)
		serverErr <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	select {
	case err := <-serverErr:
		return errors.Wrapf(err, "failed to start server on port %s", cfg.Port)
	case sig := <-sigChan:
		zap.S().Infof("Received %s, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "error shutting down server")
	}

	if err := db.Close(); err != nil {
		zap.S().Errorf("Error closing database: %v", err)
	}

	zap.S().Info("Server stopped")
	return nil
}
