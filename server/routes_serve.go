// routes_serve.go - Server-Start und Lifecycle-Management
// Enthaelt: Serve() - startet den HTTP-Server bis der Context endet

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ollama/devicemgr/version"
)

const shutdownTimeout = 5 * time.Second

// Serve startet den HTTP-Server auf ln und beendet ihn, sobald ctx endet
func Serve(ctx context.Context, ln net.Listener, devices Devices) error {
	s := &Server{addr: ln.Addr(), devices: devices}

	srvr := &http.Server{
		Handler:           s.GenerateRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info(fmt.Sprintf("Listening on %s (version %s)", ln.Addr(), version.Version), "device", devices.Device())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srvr.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srvr.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
