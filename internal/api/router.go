package api

import (
	"net/http"

	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/inventory"
	"github.com/erazemk/inventura/internal/projection"
)

// NewRouter creates the API router with all endpoints registered. Reads are
// open (scan stations share a display), mutations require auth.
func NewRouter(d *db.DB, svc *inventory.Service, pipe *projection.Pipeline, jwtSecret, kitTemplatePath string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d, JWTSecret: jwtSecret}
	scanHandler := &ScanHandler{Service: svc}
	itemsHandler := &ItemsHandler{DB: d, Service: svc, Pipeline: pipe}
	kitHandler := &KitHandler{Pipeline: pipe, TemplatePath: kitTemplatePath}
	streamHandler := &StreamHandler{Service: svc, Pipeline: pipe}

	authMW := AuthMiddleware(jwtSecret, d)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Scanning.
	mux.Handle("POST /api/scan", authMW(http.HandlerFunc(scanHandler.Scan)))
	mux.Handle("POST /api/scan/return", authMW(http.HandlerFunc(scanHandler.Return)))
	mux.HandleFunc("GET /api/scan/status", scanHandler.Status)

	// Items and history.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/stream", streamHandler.Items)
	mux.HandleFunc("GET /api/items/{code}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{code}/logs", itemsHandler.Logs)
	mux.HandleFunc("GET /api/items/{code}/image", itemsHandler.GetImage)
	mux.HandleFunc("GET /api/logs", itemsHandler.Recent)
	mux.Handle("PUT /api/items/{code}/quantity", authMW(http.HandlerFunc(itemsHandler.Quantity)))
	mux.Handle("POST /api/items/{code}/reset", authMW(http.HandlerFunc(itemsHandler.Reset)))
	mux.Handle("POST /api/items/reset", authMW(http.HandlerFunc(itemsHandler.ResetAll)))
	mux.Handle("DELETE /api/items/{code}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{code}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))

	// Kit reconciliation.
	mux.Handle("POST /api/kit/check", authMW(http.HandlerFunc(kitHandler.Check)))

	// Feedback events.
	mux.HandleFunc("GET /api/events", streamHandler.Events)

	return mux
}
