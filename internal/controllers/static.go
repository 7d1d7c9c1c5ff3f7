package controllers

import (
	"context"
	"io/fs"
	"net/http"
)

// StaticHandler serves the embedded static assets (CSS, JS) under
// /static/.
func StaticHandler(assets fs.FS) http.Handler {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic("static assets missing from embedded filesystem: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(static)))
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthCheck returns a liveness handler that also pings the database.
func HealthCheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","database":"unreachable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
