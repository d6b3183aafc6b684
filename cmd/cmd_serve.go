// cmd_serve.go - Device-Server
// Hauptfunktionen: RunServer
package cmd

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ollama/devicemgr/envconfig"
	"github.com/ollama/devicemgr/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Serve the device report over HTTP",
		Args:    cobra.NoArgs,
		RunE:    RunServer,
	}

	addDeviceFlag(cmd)
	return cmd
}

// RunServer - Startet den Device-Server bis SIGINT oder SIGTERM
func RunServer(cmd *cobra.Command, _ []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", envconfig.Host().Host)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, ln, mgr)
}
