package fx

import (
	"context"
	"log"
	"net"
	"net/http"

	"go.uber.org/fx"

	"github.com/amityadav/voyago/internal/config"
	"github.com/amityadav/voyago/internal/core"
	"github.com/amityadav/voyago/internal/server"
)

// ServerModule starts the REST HTTP server
var ServerModule = fx.Module("server",
	fx.Provide(NewHTTPServer),
	fx.Invoke(StartServer),
)

// NewHTTPServer builds the HTTP server with recovery wrapping
func NewHTTPServer(planner *core.Planner, cfg config.Config) *http.Server {
	restHandler := server.CreateRESTHandler(server.Services{Planner: planner})
	recoveryHandler := server.CreateRecoveryHandler(restHandler)

	log.Printf("[FX] HTTP Server created")
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: recoveryHandler,
	}
}

// StartServer starts the HTTP server with lifecycle management
func StartServer(lc fx.Lifecycle, srv *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}

			go func() {
				log.Printf("[FX] HTTP Server listening on %s", srv.Addr)
				if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			return srv.Shutdown(ctx)
		},
	})
}
