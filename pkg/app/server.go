package app

// pkg/app/server.go — bridges Application → internal/server.
// The only job of this file is to build the HTTP handler (via kernel.go)
// and pass it to the internal server that actually binds the port.

import "github.com/ordinalfs/ordinalfs/internal/server"

// startServer connects the database, builds the HTTP handler from the
// application config (so auto-migrations and the services the route
// callbacks construct see a live connection), and hands it to
// internal/server.Start for the actual listen+serve lifecycle.
func startServer(a *Application) error {
	if err := bootDB(); err != nil {
		return err
	}
	handler := buildHandler(a)
	return server.Start(handler)
}
